package dto

import "time"

// SubscriptionCheckoutRequest selects the plan to check out.
type SubscriptionCheckoutRequest struct {
	Plan string `json:"plan" validate:"required,oneof=starter pro"`
}

// UsageResponseDTO exposes the user's entitlement state.
type UsageResponseDTO struct {
	Tier        string    `json:"tier"`
	TokensUsed  int64     `json:"tokens_used"`
	TokensLimit int64     `json:"tokens_limit"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	Status      string    `json:"status"`
	Active      bool      `json:"active"`
}
