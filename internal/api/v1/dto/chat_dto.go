package dto

import "time"

// ChatMessageDTO mirrors the upstream completion message shape.
type ChatMessageDTO struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

// ChatRequestDTO is the POST /chat body. UserID is accepted for wire
// compatibility but never trusted as an identity; only the bearer token's
// subject selects whose history and entitlement are used.
type ChatRequestDTO struct {
	Messages []ChatMessageDTO `json:"messages" validate:"required,min=1,dive"`
	UserID   string           `json:"userId"`
}

// ChatResponseDTO mirrors the upstream completion response shape so the
// front-end can treat the reply like a raw completion payload.
type ChatResponseDTO struct {
	Choices []ChatChoiceDTO `json:"choices"`
}

type ChatChoiceDTO struct {
	Message ChatMessageDTO `json:"message"`
}

// ChatHistoryItemDTO is one stored conversation turn.
type ChatHistoryItemDTO struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorResponseDTO is the JSON error envelope.
type ErrorResponseDTO struct {
	Error string `json:"error"`
}
