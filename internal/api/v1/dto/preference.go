package dto

import "time"

// PreferenceUpsertDTO is the onboarding survey submission. The record is
// overwritten wholesale on every submit.
type PreferenceUpsertDTO struct {
	SkillLevel   string   `json:"skill_level" validate:"required,oneof=beginner intermediate advanced"`
	Goals        []string `json:"goals" validate:"required,min=1,dive,required"`
	AgeRange     string   `json:"age_range,omitempty"`
	HoursPerWeek int      `json:"hours_per_week,omitempty" validate:"gte=0"`
}

type PreferenceResponseDTO struct {
	UserID       string    `json:"user_id"`
	SkillLevel   string    `json:"skill_level"`
	Goals        []string  `json:"goals"`
	AgeRange     string    `json:"age_range,omitempty"`
	HoursPerWeek int       `json:"hours_per_week,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
