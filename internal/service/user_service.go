package service

import (
	"context"
	"errors"
	"fmt"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

var ErrUserNotFound = errors.New("user not found")

// UserService manages user profiles.
type UserService interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)
}

type userService struct {
	repo      repository.UserRepository
	stripeSvc *StripeService
	logger    zerolog.Logger
}

// NewUserService creates a new UserService. The Stripe service is used to
// provision the payment customer at signup so later checkouts never race
// customer creation.
func NewUserService(repo repository.UserRepository, stripeSvc *StripeService, logger zerolog.Logger) UserService {
	return &userService{
		repo:      repo,
		stripeSvc: stripeSvc,
		logger:    logger.With().Str("service", "UserService").Logger(),
	}
}

func (s *userService) Create(ctx context.Context, u *model.User) (*model.User, error) {
	if err := s.repo.CreateUser(ctx, u); err != nil {
		s.logger.Error().Err(err).Str("user_id", u.UserID).Msg("Failed to create user profile")
		return nil, fmt.Errorf("creating user: %w", err)
	}
	if _, err := s.stripeSvc.CreateCustomer(ctx, u); err != nil {
		// The checkout flow falls back to creating the customer on demand.
		s.logger.Warn().Err(err).Str("user_id", u.UserID).Msg("Failed to provision Stripe customer at signup")
	}
	return u, nil
}

func (s *userService) Get(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch user profile")
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}
