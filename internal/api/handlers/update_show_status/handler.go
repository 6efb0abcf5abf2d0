package update_show_status

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShowBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShowBookingService/internal/service/shows"
	"github.com/m04kA/SMC-ShowBookingService/internal/service/shows/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidShowID      = "некорректный ID показа"
	msgShowNotFound       = "показ не найден"
	msgInvalidStatus      = "статус показа должен быть open или closed"
)

type Handler struct {
	service ShowService
	logger  Logger
}

func NewHandler(service ShowService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/admin/shows/{showId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	showID, err := handlers.PathInt64(r, "showId")
	if err != nil {
		h.logger.Warn("PATCH /admin/shows/{showId}/status - Invalid show ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShowID)
		return
	}

	var req models.UpdateShowStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/shows/{showId}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SetStatus(r.Context(), showID, &req)
	if err != nil {
		switch {
		case errors.Is(err, shows.ErrShowNotFound):
			h.logger.Warn("PATCH /admin/shows/{showId}/status - Show not found: show_id=%d", showID)
			handlers.RespondNotFound(w, msgShowNotFound)

		case errors.Is(err, shows.ErrInvalidInput):
			h.logger.Warn("PATCH /admin/shows/{showId}/status - Invalid status: %q", req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("PATCH /admin/shows/{showId}/status - Failed to update show: show_id=%d, error=%v", showID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /admin/shows/{showId}/status - Show updated: show_id=%d, state=%s", showID, result.State)
	handlers.RespondJSON(w, http.StatusOK, result)
}
