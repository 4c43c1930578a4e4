package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

var (
	// ErrNoEntitlement means the user has no usage record at all. The record
	// may lag the triggering payment, so callers treat this as retryable.
	ErrNoEntitlement = errors.New("no entitlement record")
	// ErrEntitlementInactive means the record exists but its period elapsed,
	// its status is inactive or its token budget is exhausted.
	ErrEntitlementInactive = errors.New("entitlement inactive")
)

// SubscriptionService reads entitlement state and applies billing events to it.
type SubscriptionService interface {
	// CheckEntitlement confirms the user holds an active entitlement. It must
	// pass before any completion call is made for a paid deployment.
	CheckEntitlement(ctx context.Context, userID string) (*model.UsageRecord, error)
	GetUsageRecord(ctx context.Context, userID string) (*model.UsageRecord, error)
	UpsertFromBillingEvent(ctx context.Context, userID, tier string, tokensLimit int64, periodStart, periodEnd time.Time, status string, stripeSubscriptionID *string) error
	MarkStatus(ctx context.Context, userID, status string) error
}

type subscriptionService struct {
	repo   repository.UsageRepository
	now    func() time.Time
	logger zerolog.Logger
}

// NewSubscriptionService creates a new SubscriptionService with a scoped logger.
func NewSubscriptionService(repo repository.UsageRepository, logger zerolog.Logger) SubscriptionService {
	return &subscriptionService{
		repo:   repo,
		now:    time.Now,
		logger: logger.With().Str("service", "SubscriptionService").Logger(),
	}
}

func (s *subscriptionService) CheckEntitlement(ctx context.Context, userID string) (*model.UsageRecord, error) {
	rec, err := s.repo.GetUsageRecord(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch usage record")
		return nil, fmt.Errorf("fetching usage record: %w", err)
	}
	if rec == nil {
		return nil, ErrNoEntitlement
	}
	if !rec.Active(s.now()) {
		return nil, ErrEntitlementInactive
	}
	return rec, nil
}

func (s *subscriptionService) GetUsageRecord(ctx context.Context, userID string) (*model.UsageRecord, error) {
	rec, err := s.repo.GetUsageRecord(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch usage record")
		return nil, fmt.Errorf("fetching usage record: %w", err)
	}
	return rec, nil
}

func (s *subscriptionService) UpsertFromBillingEvent(ctx context.Context, userID, tier string, tokensLimit int64, periodStart, periodEnd time.Time, status string, stripeSubscriptionID *string) error {
	if err := s.repo.UpsertUsageRecord(ctx, userID, tier, tokensLimit, periodStart, periodEnd, status, stripeSubscriptionID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("tier", tier).Str("status", status).Msg("Failed to upsert usage record")
		return err
	}
	return nil
}

func (s *subscriptionService) MarkStatus(ctx context.Context, userID, status string) error {
	if err := s.repo.UpdateStatus(ctx, userID, status); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("status", status).Msg("Failed to update usage record status")
		return err
	}
	return nil
}
