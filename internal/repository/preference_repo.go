package repository

import (
	"context"
	"errors"
	"fmt"

	"app/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PreferenceRepository stores onboarding survey answers, one row per user.
type PreferenceRepository interface {
	// GetPreferences returns (nil, nil) when the user never completed the survey.
	GetPreferences(ctx context.Context, userID string) (*model.Preferences, error)
	// UpsertPreferences overwrites the user's record wholesale.
	UpsertPreferences(ctx context.Context, prefs *model.Preferences) (*model.Preferences, error)
	DeletePreferences(ctx context.Context, userID string) error
}

type preferenceRepo struct {
	pool *pgxpool.Pool
}

// NewPreferenceRepo creates a new PreferenceRepository.
func NewPreferenceRepo(pool *pgxpool.Pool) PreferenceRepository {
	return &preferenceRepo{pool: pool}
}

func (r *preferenceRepo) GetPreferences(ctx context.Context, userID string) (*model.Preferences, error) {
	const q = `
		SELECT user_id, skill_level, goals, age_range, hours_per_week, created_at, updated_at
		FROM user_preferences
		WHERE user_id = $1
	`
	var p model.Preferences
	err := r.pool.QueryRow(ctx, q, userID).Scan(
		&p.UserID,
		&p.SkillLevel,
		&p.Goals,
		&p.AgeRange,
		&p.HoursPerWeek,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching preferences for user %s: %w", userID, err)
	}
	return &p, nil
}

func (r *preferenceRepo) UpsertPreferences(ctx context.Context, prefs *model.Preferences) (*model.Preferences, error) {
	const q = `
		INSERT INTO user_preferences (user_id, skill_level, goals, age_range, hours_per_week, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET skill_level = EXCLUDED.skill_level,
			goals = EXCLUDED.goals,
			age_range = EXCLUDED.age_range,
			hours_per_week = EXCLUDED.hours_per_week,
			updated_at = NOW()
		RETURNING user_id, skill_level, goals, age_range, hours_per_week, created_at, updated_at
	`
	var p model.Preferences
	err := r.pool.QueryRow(ctx, q, prefs.UserID, prefs.SkillLevel, prefs.Goals, prefs.AgeRange, prefs.HoursPerWeek).Scan(
		&p.UserID,
		&p.SkillLevel,
		&p.Goals,
		&p.AgeRange,
		&p.HoursPerWeek,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upserting preferences for user %s: %w", prefs.UserID, err)
	}
	return &p, nil
}

func (r *preferenceRepo) DeletePreferences(ctx context.Context, userID string) error {
	const q = `DELETE FROM user_preferences WHERE user_id = $1`
	if _, err := r.pool.Exec(ctx, q, userID); err != nil {
		return fmt.Errorf("deleting preferences for user %s: %w", userID, err)
	}
	return nil
}
