package get_show_reservations

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ShowBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShowBookingService/internal/service/reservations"
	"github.com/m04kA/SMC-ShowBookingService/internal/service/reservations/models"
)

const (
	msgInvalidShowID      = "некорректный ID показа"
	msgInvalidIncludeFlag = "некорректное значение includeInactive"
	msgShowNotFound       = "показ не найден"
	msgInvalidStatus      = "некорректный статус бронирования"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/shows/{showId}/reservations?status=&includeInactive=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	showID, err := handlers.PathInt64(r, "showId")
	if err != nil {
		h.logger.Warn("GET /admin/shows/{showId}/reservations - Invalid show ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShowID)
		return
	}

	query := r.URL.Query()
	req := &models.GetShowReservationsRequest{ShowID: showID}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}
	if raw := query.Get("includeInactive"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			h.logger.Warn("GET /admin/shows/{showId}/reservations - Invalid includeInactive: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidIncludeFlag)
			return
		}
		req.IncludeInactive = include
	}

	result, err := h.service.GetShowReservations(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrShowNotFound):
			h.logger.Warn("GET /admin/shows/{showId}/reservations - Show not found: show_id=%d", showID)
			handlers.RespondNotFound(w, msgShowNotFound)

		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("GET /admin/shows/{showId}/reservations - Invalid status: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /admin/shows/{showId}/reservations - Failed to get reservations: show_id=%d, error=%v", showID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/shows/{showId}/reservations - Reservations retrieved: show_id=%d, count=%d",
		showID, len(result.Reservations))
	handlers.RespondJSON(w, http.StatusOK, result.Reservations)
}
