package service

import (
	"context"
	"errors"
	"fmt"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// ErrCoachUnavailable is what the handler surfaces when the completion
// provider fails. The raw provider error stays in the logs.
var ErrCoachUnavailable = errors.New("coach unavailable")

// ChatService is the chat pipeline: load preferences, select tutorials,
// compose the system prompt, call the completion gateway and persist both
// sides of the exchange.
type ChatService interface {
	// Chat produces the coach's reply to the given history (most-recent-last,
	// with the new user message as the final entry). An empty userID runs the
	// pipeline in stateless mode: no preference lookup and no persistence.
	Chat(ctx context.Context, userID string, messages []model.ChatMessage) (string, error)
	// History returns the user's stored conversation, oldest first.
	History(ctx context.Context, userID string, limit int) ([]model.ChatMessage, error)
	// Reset deletes the user's entire conversation.
	Reset(ctx context.Context, userID string) error
}

type chatService struct {
	prefRepo     repository.PreferenceRepository
	tutorialRepo repository.TutorialRepository
	chatRepo     repository.ChatRepository
	gateway      CompletionGateway
	historyLimit int
	logger       zerolog.Logger
}

// NewChatService creates a new ChatService. historyLimit bounds how many
// trailing messages are forwarded to the gateway per request.
func NewChatService(
	prefRepo repository.PreferenceRepository,
	tutorialRepo repository.TutorialRepository,
	chatRepo repository.ChatRepository,
	gateway CompletionGateway,
	historyLimit int,
	logger zerolog.Logger,
) ChatService {
	return &chatService{
		prefRepo:     prefRepo,
		tutorialRepo: tutorialRepo,
		chatRepo:     chatRepo,
		gateway:      gateway,
		historyLimit: historyLimit,
		logger:       logger.With().Str("service", "ChatService").Logger(),
	}
}

func (s *chatService) Chat(ctx context.Context, userID string, messages []model.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("no messages in request")
	}

	prefs := s.loadPreferences(ctx, userID)
	tutorials := s.loadTutorials(ctx, prefs)
	systemPrompt := ComposeSystemPrompt(prefs, tutorials)

	// Bound token cost and latency: only the trailing window goes upstream.
	window := messages
	if s.historyLimit > 0 && len(window) > s.historyLimit {
		window = window[len(window)-s.historyLimit:]
	}

	reply, err := s.gateway.Complete(ctx, systemPrompt, window)
	if err != nil {
		// Raw provider errors are diagnostic detail for the logs; the caller
		// only ever sees the generic degraded-service error.
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Completion gateway call failed")
		return "", ErrCoachUnavailable
	}

	if userID != "" {
		s.persistExchange(ctx, userID, messages[len(messages)-1], reply)
	}

	return reply, nil
}

// loadPreferences fetches the user's preferences, substituting defaults for
// anonymous users, missing records and read failures. Nothing downstream has
// to deal with an absent preferences value.
func (s *chatService) loadPreferences(ctx context.Context, userID string) model.Preferences {
	if userID == "" {
		return model.DefaultPreferences(userID)
	}
	prefs, err := s.prefRepo.GetPreferences(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("Preference load failed, using defaults")
		return model.DefaultPreferences(userID)
	}
	if prefs == nil || len(prefs.Goals) == 0 {
		return model.DefaultPreferences(userID)
	}
	return *prefs
}

// loadTutorials selects catalog content matching the user's goal tags. A read
// failure degrades to an empty list.
func (s *chatService) loadTutorials(ctx context.Context, prefs model.Preferences) []model.Tutorial {
	if prefs.UserID == "" {
		return nil
	}
	tutorials, err := s.tutorialRepo.ListByCategories(ctx, prefs.Goals)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", prefs.UserID).Msg("Tutorial load failed, continuing without tutorial context")
		return nil
	}
	return tutorials
}

// persistExchange durably records the user message and then the assistant
// reply. The user message goes first so a crash in between never leaves an
// assistant turn without its prompting user turn. Failures are logged but do
// not block returning the reply.
func (s *chatService) persistExchange(ctx context.Context, userID string, userMsg model.ChatMessage, reply string) {
	if userMsg.Role != model.RoleUser {
		s.logger.Warn().Str("user_id", userID).Str("role", userMsg.Role).Msg("Last message in request is not a user turn, skipping persistence")
		return
	}
	if _, err := s.chatRepo.CreateMessage(ctx, userID, model.RoleUser, userMsg.Content); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to persist user message, conversation history will be incomplete")
		return
	}
	if _, err := s.chatRepo.CreateMessage(ctx, userID, model.RoleAssistant, reply); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to persist assistant reply, conversation history will be incomplete")
	}
}

func (s *chatService) History(ctx context.Context, userID string, limit int) ([]model.ChatMessage, error) {
	messages, err := s.chatRepo.ListMessages(ctx, userID, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list chat messages")
		return nil, fmt.Errorf("listing chat messages: %w", err)
	}
	return messages, nil
}

func (s *chatService) Reset(ctx context.Context, userID string) error {
	if err := s.chatRepo.DeleteMessages(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to reset conversation")
		return fmt.Errorf("resetting conversation: %w", err)
	}
	return nil
}
