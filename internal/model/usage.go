package model

import "time"

// Subscription statuses written by the billing webhook.
const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
	StatusPastDue   = "past_due"
)

// UsageRecord is the per-user entitlement row: subscription tier, token
// budget and billing period bounds. It is owned by the billing webhook; the
// chat pipeline only reads it to gate access.
type UsageRecord struct {
	UserID               string    `db:"user_id" json:"user_id"`
	Tier                 string    `db:"tier" json:"tier"`
	TokensUsed           int64     `db:"tokens_used" json:"tokens_used"`
	TokensLimit          int64     `db:"tokens_limit" json:"tokens_limit"`
	PeriodStart          time.Time `db:"period_start" json:"period_start"`
	PeriodEnd            time.Time `db:"period_end" json:"period_end"`
	StripeSubscriptionID *string   `db:"stripe_subscription_id" json:"stripe_subscription_id,omitempty"`
	Status               string    `db:"status" json:"status"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

// Active reports whether the record still entitles the user to the coach at
// the given instant. Cancelled subscriptions stay usable until period end.
func (u *UsageRecord) Active(now time.Time) bool {
	if u.Status != StatusActive && u.Status != StatusCancelled {
		return false
	}
	if !now.Before(u.PeriodEnd) {
		return false
	}
	if u.TokensLimit > 0 && u.TokensUsed >= u.TokensLimit {
		return false
	}
	return true
}
