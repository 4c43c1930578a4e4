package dto

type TutorialResponseDTO struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Category  string   `json:"category"`
	Level     string   `json:"level"`
	Content   string   `json:"content"`
	KeyPoints []string `json:"key_points"`
	VideoURL  *string  `json:"video_url,omitempty"`
}
