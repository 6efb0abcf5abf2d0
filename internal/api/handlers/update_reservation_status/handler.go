package update_reservation_status

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShowBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShowBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ShowBookingService/internal/service/reservations"
	"github.com/m04kA/SMC-ShowBookingService/internal/service/reservations/models"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidReservationID = "некорректный ID бронирования"
	msgReservationNotFound  = "бронирование не найдено"
	msgShowNotFound         = "показ не найден"
	msgTransitionNotAllowed = "переход в указанный статус недоступен"
	msgCapacityConflict     = "на показе недостаточно свободных мест"
	msgInvalidInput         = "некорректные параметры смены статуса"
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

// Handle PATCH /api/v1/admin/reservations/{reservationId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathInt64(r, "reservationId")
	if err != nil {
		h.logger.Warn("PATCH /admin/reservations/{reservationId}/status - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req models.UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/reservations/{reservationId}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.AdminID, _ = middleware.UserIDFromContext(r.Context())

	result, err := h.service.UpdateStatus(r.Context(), reservationID, &req)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("PATCH /admin/reservations/{reservationId}/status - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgReservationNotFound)

		case errors.Is(err, reservations.ErrShowNotFound):
			h.logger.Warn("PATCH /admin/reservations/{reservationId}/status - Show not found: %v", err)
			handlers.RespondNotFound(w, msgShowNotFound)

		case errors.Is(err, reservations.ErrTransitionNotAllowed):
			h.logger.Warn("PATCH /admin/reservations/{reservationId}/status - Transition not allowed: reservation_id=%d, status=%s",
				reservationID, req.Status)
			handlers.RespondConflict(w, msgTransitionNotAllowed)

		case errors.Is(err, reservations.ErrCapacityConflict):
			h.logger.Warn("PATCH /admin/reservations/{reservationId}/status - Capacity conflict: reservation_id=%d", reservationID)
			handlers.RespondConflict(w, msgCapacityConflict)

		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("PATCH /admin/reservations/{reservationId}/status - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /admin/reservations/{reservationId}/status - Failed to update status: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /admin/reservations/{reservationId}/status - Status updated: reservation_id=%d, status=%s",
		reservationID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
