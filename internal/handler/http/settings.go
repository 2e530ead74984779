package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/talenthub/hrm-backend-go/internal/domain/settings"
	"github.com/talenthub/hrm-backend-go/internal/handler/http/response"
	settingsService "github.com/talenthub/hrm-backend-go/internal/service/settings"
)

type SettingsHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
}

type SettingsHandlerImpl struct {
	settingsService *settingsService.SettingsService
}

func NewSettingsHandler(svc *settingsService.SettingsService) SettingsHandler {
	return &SettingsHandlerImpl{settingsService: svc}
}

// Get implements SettingsHandler.
func (h *SettingsHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	current, err := h.settingsService.Get(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, current)
}

// Create implements SettingsHandler.
func (h *SettingsHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req settings.CreateSettingsRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create settings decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.settingsService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Organization settings created successfully", created)
}

// Update implements SettingsHandler.
func (h *SettingsHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req settings.UpdateSettingsRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update settings decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := h.settingsService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Organization settings updated successfully", updated)
}
