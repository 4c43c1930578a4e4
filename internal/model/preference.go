package model

import "time"

// Skill levels a user can declare during onboarding.
const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
)

// DefaultGoal is substituted when a user has no stored preferences, so the
// prompt composer never has to deal with an empty goal list.
const DefaultGoal = "making money online"

// Preferences holds a user's onboarding survey answers. One record per user,
// overwritten wholesale on resubmit and deleted on survey reset.
type Preferences struct {
	UserID       string    `db:"user_id" json:"user_id"`
	SkillLevel   string    `db:"skill_level" json:"skill_level"`
	Goals        []string  `db:"goals" json:"goals"`
	AgeRange     string    `db:"age_range" json:"age_range,omitempty"`
	HoursPerWeek int       `db:"hours_per_week" json:"hours_per_week,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// DefaultPreferences returns a fully populated preferences value for users
// who never completed (or reset) the onboarding survey.
func DefaultPreferences(userID string) Preferences {
	return Preferences{
		UserID:     userID,
		SkillLevel: SkillBeginner,
		Goals:      []string{DefaultGoal},
	}
}
