package service

import (
	"context"
	"fmt"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// PreferenceService manages onboarding survey answers.
type PreferenceService interface {
	Get(ctx context.Context, userID string) (*model.Preferences, error)
	// Upsert overwrites the user's preferences wholesale.
	Upsert(ctx context.Context, prefs *model.Preferences) (*model.Preferences, error)
	// Reset deletes the user's preferences and, per the survey-reset rule,
	// their conversation history.
	Reset(ctx context.Context, userID string) error
}

type preferenceService struct {
	prefRepo repository.PreferenceRepository
	chatRepo repository.ChatRepository
	logger   zerolog.Logger
}

// NewPreferenceService creates a new PreferenceService with a scoped logger.
func NewPreferenceService(prefRepo repository.PreferenceRepository, chatRepo repository.ChatRepository, logger zerolog.Logger) PreferenceService {
	return &preferenceService{
		prefRepo: prefRepo,
		chatRepo: chatRepo,
		logger:   logger.With().Str("service", "PreferenceService").Logger(),
	}
}

func (s *preferenceService) Get(ctx context.Context, userID string) (*model.Preferences, error) {
	prefs, err := s.prefRepo.GetPreferences(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch preferences")
		return nil, fmt.Errorf("fetching preferences: %w", err)
	}
	return prefs, nil
}

func (s *preferenceService) Upsert(ctx context.Context, prefs *model.Preferences) (*model.Preferences, error) {
	saved, err := s.prefRepo.UpsertPreferences(ctx, prefs)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", prefs.UserID).Msg("Failed to upsert preferences")
		return nil, fmt.Errorf("upserting preferences: %w", err)
	}
	return saved, nil
}

func (s *preferenceService) Reset(ctx context.Context, userID string) error {
	if err := s.prefRepo.DeletePreferences(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to delete preferences")
		return fmt.Errorf("deleting preferences: %w", err)
	}
	if err := s.chatRepo.DeleteMessages(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to delete conversation during survey reset")
		return fmt.Errorf("deleting conversation: %w", err)
	}
	return nil
}
