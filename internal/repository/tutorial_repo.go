package repository

import (
	"context"
	"fmt"

	"app/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TutorialRepository reads the immutable lesson catalog.
type TutorialRepository interface {
	// ListByCategories returns tutorials whose category is in the given set,
	// ordered by level ascending (beginner first) so foundational material
	// always precedes advanced material in the prompt.
	ListByCategories(ctx context.Context, categories []string) ([]model.Tutorial, error)
	ListAll(ctx context.Context) ([]model.Tutorial, error)
}

type tutorialRepo struct {
	pool *pgxpool.Pool
}

// NewTutorialRepo creates a new TutorialRepository.
func NewTutorialRepo(pool *pgxpool.Pool) TutorialRepository {
	return &tutorialRepo{pool: pool}
}

const tutorialColumns = `id, title, category, level, content, key_points, video_url, created_at`

// levelOrder ranks levels beginner < intermediate < advanced in SQL.
const levelOrder = `CASE level WHEN 'beginner' THEN 1 WHEN 'intermediate' THEN 2 ELSE 3 END`

func (r *tutorialRepo) ListByCategories(ctx context.Context, categories []string) ([]model.Tutorial, error) {
	if len(categories) == 0 {
		return nil, nil
	}
	q := fmt.Sprintf(`
		SELECT %s
		FROM tutorials
		WHERE category = ANY($1)
		ORDER BY %s, title
	`, tutorialColumns, levelOrder)

	rows, err := r.pool.Query(ctx, q, categories)
	if err != nil {
		return nil, fmt.Errorf("querying tutorials by category: %w", err)
	}
	defer rows.Close()
	return scanTutorials(rows)
}

func (r *tutorialRepo) ListAll(ctx context.Context) ([]model.Tutorial, error) {
	q := fmt.Sprintf(`
		SELECT %s
		FROM tutorials
		ORDER BY %s, title
	`, tutorialColumns, levelOrder)

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying tutorials: %w", err)
	}
	defer rows.Close()
	return scanTutorials(rows)
}

func scanTutorials(rows pgx.Rows) ([]model.Tutorial, error) {
	var tutorials []model.Tutorial
	for rows.Next() {
		var t model.Tutorial
		if err := rows.Scan(
			&t.ID,
			&t.Title,
			&t.Category,
			&t.Level,
			&t.Content,
			&t.KeyPoints,
			&t.VideoURL,
			&t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning tutorial row: %w", err)
		}
		tutorials = append(tutorials, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tutorial rows: %w", err)
	}
	return tutorials, nil
}
