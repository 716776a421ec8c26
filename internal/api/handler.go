package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	app_errors "github.com/mykushyn/prismiq/internal/errors"
	"github.com/mykushyn/prismiq/internal/interfaces"
)

type ChatHandler struct {
	service interfaces.TutorService
}

func NewChatHandler(service interfaces.TutorService) *ChatHandler {
	return &ChatHandler{service: service}
}

// GetHistory returns the conversation history for a user. An unknown user
// yields an empty list, not an error; absence is a valid state.
func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	if user == "" {
		respondWithError(w, fmt.Errorf("%w: user is required", app_errors.ErrValidation))
		return
	}
	respondWithJSON(w, http.StatusOK, h.service.History(user))
}

// SettingsResponse is the DTO for the runtime-tunable settings.
type SettingsResponse struct {
	SystemPrompt string `json:"system_prompt"`
}

// UpdateSettingsRequest carries a runtime settings update.
type UpdateSettingsRequest struct {
	SystemPrompt string `json:"system_prompt" validate:"max=8192"`
}

func (h *ChatHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, SettingsResponse{SystemPrompt: h.service.SystemPrompt()})
}

func (h *ChatHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}
	h.service.SetSystemPrompt(req.SystemPrompt)
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}
