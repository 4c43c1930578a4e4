package handler

import (
	"encoding/json"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/service"

	"github.com/rs/zerolog"
)

type TutorialHandler struct {
	tutorialService service.TutorialService
	logger          zerolog.Logger
}

func NewTutorialHandler(tutorialService service.TutorialService, logger zerolog.Logger) *TutorialHandler {
	return &TutorialHandler{tutorialService: tutorialService, logger: logger}
}

// RegisterRoutes mounts the tutorial catalog endpoint.
func (h *TutorialHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/tutorials", authMw(http.HandlerFunc(h.listTutorials)))
}

func (h *TutorialHandler) listTutorials(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	tutorials, err := h.tutorialService.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		http.Error(w, "Failed to list tutorials: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]dto.TutorialResponseDTO, len(tutorials))
	for i, t := range tutorials {
		resp[i] = dto.TutorialResponseDTO{
			ID:        t.ID,
			Title:     t.Title,
			Category:  t.Category,
			Level:     t.Level,
			Content:   t.Content,
			KeyPoints: t.KeyPoints,
			VideoURL:  t.VideoURL,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}
