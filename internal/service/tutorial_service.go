package service

import (
	"context"
	"fmt"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// TutorialService reads the lesson catalog.
type TutorialService interface {
	// List returns the catalog ordered by level ascending, optionally
	// filtered to one category.
	List(ctx context.Context, category string) ([]model.Tutorial, error)
}

type tutorialService struct {
	repo   repository.TutorialRepository
	logger zerolog.Logger
}

// NewTutorialService creates a new TutorialService.
func NewTutorialService(repo repository.TutorialRepository, logger zerolog.Logger) TutorialService {
	return &tutorialService{
		repo:   repo,
		logger: logger.With().Str("service", "TutorialService").Logger(),
	}
}

func (s *tutorialService) List(ctx context.Context, category string) ([]model.Tutorial, error) {
	var (
		tutorials []model.Tutorial
		err       error
	)
	if category != "" {
		tutorials, err = s.repo.ListByCategories(ctx, []string{category})
	} else {
		tutorials, err = s.repo.ListAll(ctx)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("category", category).Msg("Failed to list tutorials")
		return nil, fmt.Errorf("listing tutorials: %w", err)
	}
	return tutorials, nil
}
