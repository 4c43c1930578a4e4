package repository

import (
	"context"
	"fmt"

	"app/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatRepository is the append-only conversation store, keyed by user.
type ChatRepository interface {
	CreateMessage(ctx context.Context, userID, role, content string) (*model.ChatMessage, error)
	// ListMessages returns the user's most recent messages in chronological
	// order (oldest first). limit <= 0 returns the full history.
	ListMessages(ctx context.Context, userID string, limit int) ([]model.ChatMessage, error)
	// DeleteMessages removes every message the user owns (conversation reset).
	DeleteMessages(ctx context.Context, userID string) error
}

type chatRepo struct {
	pool *pgxpool.Pool
}

// NewChatRepo creates a new ChatRepository.
func NewChatRepo(pool *pgxpool.Pool) ChatRepository {
	return &chatRepo{pool: pool}
}

func (r *chatRepo) CreateMessage(ctx context.Context, userID, role, content string) (*model.ChatMessage, error) {
	const q = `
		INSERT INTO chat_messages (user_id, role, content)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, role, content, created_at
	`
	var m model.ChatMessage
	err := r.pool.QueryRow(ctx, q, userID, role, content).Scan(
		&m.ID,
		&m.UserID,
		&m.Role,
		&m.Content,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating chat message: %w", err)
	}
	return &m, nil
}

func (r *chatRepo) ListMessages(ctx context.Context, userID string, limit int) ([]model.ChatMessage, error) {
	// Fetch the latest messages (ordered DESC, then reverse to get oldest first).
	q := `
		SELECT id, user_id, role, content, created_at
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("querying chat messages: %w", err)
	}
	defer rows.Close()

	var messages []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.Role,
			&m.Content,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning chat message row: %w", err)
		}
		messages = append(messages, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat message rows: %w", err)
	}

	// Reverse into chronological order (oldest first).
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (r *chatRepo) DeleteMessages(ctx context.Context, userID string) error {
	const q = `DELETE FROM chat_messages WHERE user_id = $1`
	if _, err := r.pool.Exec(ctx, q, userID); err != nil {
		return fmt.Errorf("deleting chat messages for user %s: %w", userID, err)
	}
	return nil
}
