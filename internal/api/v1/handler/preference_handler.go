package handler

import (
	"encoding/json"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type PreferenceHandler struct {
	prefService service.PreferenceService
	validate    *validator.Validate
	logger      zerolog.Logger
}

func NewPreferenceHandler(prefService service.PreferenceService, validate *validator.Validate, logger zerolog.Logger) *PreferenceHandler {
	return &PreferenceHandler{prefService: prefService, validate: validate, logger: logger}
}

// RegisterRoutes mounts the preference endpoints.
func (h *PreferenceHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/preferences", authMw(http.HandlerFunc(h.handlePreferences)))
}

func (h *PreferenceHandler) handlePreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getPreferences(w, r, userID)
	case http.MethodPut:
		h.upsertPreferences(w, r, userID)
	case http.MethodDelete:
		h.resetPreferences(w, r, userID)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (h *PreferenceHandler) getPreferences(w http.ResponseWriter, r *http.Request, userID string) {
	prefs, err := h.prefService.Get(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to fetch preferences: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if prefs == nil {
		http.Error(w, "Preferences not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toPreferenceDTO(prefs)); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *PreferenceHandler) upsertPreferences(w http.ResponseWriter, r *http.Request, userID string) {
	var req dto.PreferenceUpsertDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	prefs, err := h.prefService.Upsert(r.Context(), &model.Preferences{
		UserID:       userID,
		SkillLevel:   req.SkillLevel,
		Goals:        req.Goals,
		AgeRange:     req.AgeRange,
		HoursPerWeek: req.HoursPerWeek,
	})
	if err != nil {
		http.Error(w, "Failed to save preferences: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toPreferenceDTO(prefs)); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *PreferenceHandler) resetPreferences(w http.ResponseWriter, r *http.Request, userID string) {
	if err := h.prefService.Reset(r.Context(), userID); err != nil {
		http.Error(w, "Failed to reset preferences: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toPreferenceDTO(p *model.Preferences) dto.PreferenceResponseDTO {
	return dto.PreferenceResponseDTO{
		UserID:       p.UserID,
		SkillLevel:   p.SkillLevel,
		Goals:        p.Goals,
		AgeRange:     p.AgeRange,
		HoursPerWeek: p.HoursPerWeek,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
