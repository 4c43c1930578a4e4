package model

import "time"

// Tutorial is an immutable lesson from the course catalog, tagged by
// monetization category and difficulty level.
type Tutorial struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Category  string    `db:"category" json:"category"`
	Level     string    `db:"level" json:"level"`
	Content   string    `db:"content" json:"content"`
	KeyPoints []string  `db:"key_points" json:"key_points"`
	VideoURL  *string   `db:"video_url" json:"video_url,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
