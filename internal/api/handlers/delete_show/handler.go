package delete_show

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShowBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShowBookingService/internal/service/shows"
)

const (
	msgInvalidShowID       = "некорректный ID показа"
	msgShowNotFound        = "показ не найден"
	msgShowHasReservations = "на показ есть активные бронирования"
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

// Handle DELETE /api/v1/admin/shows/{showId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	showID, err := handlers.PathInt64(r, "showId")
	if err != nil {
		h.logger.Warn("DELETE /admin/shows/{showId} - Invalid show ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShowID)
		return
	}

	if err := h.service.Delete(r.Context(), showID); err != nil {
		switch {
		case errors.Is(err, shows.ErrShowNotFound):
			h.logger.Warn("DELETE /admin/shows/{showId} - Show not found: show_id=%d", showID)
			handlers.RespondNotFound(w, msgShowNotFound)

		case errors.Is(err, shows.ErrShowHasReservations):
			h.logger.Warn("DELETE /admin/shows/{showId} - Show has reservations: show_id=%d", showID)
			handlers.RespondConflict(w, msgShowHasReservations)

		default:
			h.logger.Error("DELETE /admin/shows/{showId} - Failed to delete show: show_id=%d, error=%v", showID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/shows/{showId} - Show deleted: show_id=%d", showID)
	w.WriteHeader(http.StatusNoContent)
}
