package model

import "time"

// Chat message roles. Consecutive same-role messages are possible (e.g. a
// user retrying after a failed completion) and are tolerated everywhere.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a user's conversation with the coach.
// Messages are append-only and ordered by created_at ascending.
type ChatMessage struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Role      string    `db:"role" json:"role"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
