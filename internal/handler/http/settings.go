package http

import (
	"encoding/json"
	"net/http"

	"github.com/billora/invoicing-backend-go/internal/domain/settings"
	"github.com/billora/invoicing-backend-go/internal/handler/http/response"
)

// SettingsHandler defines the settings handler interface
type SettingsHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	settingsService settings.Service
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService settings.Service) SettingsHandler {
	return &settingsHandlerImpl{settingsService: settingsService}
}

func (h *settingsHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.settingsService.Get(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *settingsHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req settings.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.settingsService.Update(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Settings updated", result)
}
