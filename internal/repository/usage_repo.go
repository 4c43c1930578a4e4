package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"app/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UsageRepository accesses per-user entitlement records. The rows are written
// by the billing webhook and only read by the chat pipeline.
type UsageRepository interface {
	// GetUsageRecord returns (nil, nil) when the user has no record.
	GetUsageRecord(ctx context.Context, userID string) (*model.UsageRecord, error)
	// UpsertUsageRecord idempotently writes the entitlement row for a billing
	// event. Repeated deliveries of the same event converge on one record.
	// A tier change resets the token counter for the new period.
	UpsertUsageRecord(ctx context.Context, userID, tier string, tokensLimit int64, periodStart, periodEnd time.Time, status string, stripeSubscriptionID *string) error
	// UpdateStatus transitions the record's status without touching the period.
	UpdateStatus(ctx context.Context, userID, status string) error
}

type usageRepo struct {
	pool *pgxpool.Pool
}

// NewUsageRepo creates a new UsageRepository.
func NewUsageRepo(pool *pgxpool.Pool) UsageRepository {
	return &usageRepo{pool: pool}
}

const usageColumns = `user_id, tier, tokens_used, tokens_limit, period_start, period_end, stripe_subscription_id, status, created_at, updated_at`

func (r *usageRepo) GetUsageRecord(ctx context.Context, userID string) (*model.UsageRecord, error) {
	q := fmt.Sprintf(`SELECT %s FROM usage_records WHERE user_id = $1`, usageColumns)
	var u model.UsageRecord
	err := r.pool.QueryRow(ctx, q, userID).Scan(
		&u.UserID,
		&u.Tier,
		&u.TokensUsed,
		&u.TokensLimit,
		&u.PeriodStart,
		&u.PeriodEnd,
		&u.StripeSubscriptionID,
		&u.Status,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching usage record for user %s: %w", userID, err)
	}
	return &u, nil
}

func (r *usageRepo) UpsertUsageRecord(ctx context.Context, userID, tier string, tokensLimit int64, periodStart, periodEnd time.Time, status string, stripeSubscriptionID *string) error {
	const q = `
		INSERT INTO usage_records (user_id, tier, tokens_used, tokens_limit, period_start, period_end, stripe_subscription_id, status, created_at, updated_at)
		VALUES ($1, $2, 0, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET tier = EXCLUDED.tier,
			tokens_used = CASE
				WHEN usage_records.period_start <> EXCLUDED.period_start THEN 0
				ELSE usage_records.tokens_used
			END,
			tokens_limit = EXCLUDED.tokens_limit,
			period_start = EXCLUDED.period_start,
			period_end = EXCLUDED.period_end,
			stripe_subscription_id = EXCLUDED.stripe_subscription_id,
			status = EXCLUDED.status,
			updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, q, userID, tier, tokensLimit, periodStart, periodEnd, stripeSubscriptionID, status)
	if err != nil {
		return fmt.Errorf("upserting usage record for user %s: %w", userID, err)
	}
	return nil
}

func (r *usageRepo) UpdateStatus(ctx context.Context, userID, status string) error {
	const q = `
		UPDATE usage_records
		SET status = $2, updated_at = NOW()
		WHERE user_id = $1
	`
	_, err := r.pool.Exec(ctx, q, userID, status)
	if err != nil {
		return fmt.Errorf("updating usage record status for user %s: %w", userID, err)
	}
	return nil
}
