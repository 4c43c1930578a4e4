package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// coachUnavailableMessage is the only completion-failure text end users ever
// see; raw provider errors stay in the server logs.
const coachUnavailableMessage = "The coach is having connection issues. Please try again."

type ChatHandler struct {
	chatService    service.ChatService
	subSvc         service.SubscriptionService
	validate       *validator.Validate
	allowAnonymous bool
	logger         zerolog.Logger
}

func NewChatHandler(chatService service.ChatService, subSvc service.SubscriptionService, validate *validator.Validate, allowAnonymous bool, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		chatService:    chatService,
		subSvc:         subSvc,
		validate:       validate,
		allowAnonymous: allowAnonymous,
		logger:         logger,
	}
}

// RegisterRoutes mounts the chat endpoints. The chat route itself uses
// optional auth so anonymous visitors can be served in stateless mode when
// the deployment allows it.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux, authMw, optionalAuthMw func(http.Handler) http.Handler) {
	mux.Handle("/chat", optionalAuthMw(http.HandlerFunc(h.chat)))
	mux.Handle("/chat/history", authMw(http.HandlerFunc(h.history)))
}

func (h *ChatHandler) chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.ChatRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, "validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	// Identity comes only from the verified token subject. The body userId is
	// never trusted: honoring it would let anyone chat as (and write into the
	// history of) any subscriber whose ID they know. Requests without a token
	// run in stateless mode.
	userID := ""
	if sub, ok := r.Context().Value(middleware.UserContextKey).(string); ok && sub != "" {
		userID = sub
	}

	// Entitlement gate: confirmed before any completion call is made, so
	// unentitled users never incur upstream cost.
	if userID == "" {
		if !h.allowAnonymous {
			writeError(w, "authentication required", http.StatusUnauthorized)
			return
		}
	} else {
		if _, err := h.subSvc.CheckEntitlement(r.Context(), userID); err != nil {
			switch {
			case errors.Is(err, service.ErrNoEntitlement), errors.Is(err, service.ErrEntitlementInactive):
				writeError(w, "an active subscription is required", http.StatusForbidden)
			default:
				writeError(w, "failed to verify subscription", http.StatusInternalServerError)
			}
			return
		}
	}

	messages := make([]model.ChatMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = model.ChatMessage{Role: m.Role, Content: m.Content}
	}

	reply, err := h.chatService.Chat(r.Context(), userID, messages)
	if err != nil {
		if errors.Is(err, service.ErrCoachUnavailable) {
			writeError(w, coachUnavailableMessage, http.StatusBadGateway)
			return
		}
		writeError(w, "invalid chat request", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, dto.ChatResponseDTO{
		Choices: []dto.ChatChoiceDTO{
			{Message: dto.ChatMessageDTO{Role: model.RoleAssistant, Content: reply}},
		},
	})
}

func (h *ChatHandler) history(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		writeError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		limit := 0 // full history by default; truncation only applies upstream
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
				limit = parsed
			}
		}
		messages, err := h.chatService.History(r.Context(), userID, limit)
		if err != nil {
			writeError(w, "failed to load history", http.StatusInternalServerError)
			return
		}
		resp := make([]dto.ChatHistoryItemDTO, len(messages))
		for i, m := range messages {
			resp[i] = dto.ChatHistoryItemDTO{
				ID:        m.ID,
				Role:      m.Role,
				Content:   m.Content,
				CreatedAt: m.CreatedAt,
			}
		}
		writeJSON(w, http.StatusOK, resp)
	case http.MethodDelete:
		if err := h.chatService.Reset(r.Context(), userID); err != nil {
			writeError(w, "failed to reset conversation", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, dto.ErrorResponseDTO{Error: message})
}
