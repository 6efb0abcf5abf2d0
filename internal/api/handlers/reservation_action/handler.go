package reservation_action

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ShowBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShowBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
	reservationAction "github.com/m04kA/SMC-ShowBookingService/internal/usecase/reservation_action"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidReservationID = "некорректный ID бронирования"
	msgUnauthorized         = "пользователь не определён"
	msgReservationNotFound  = "бронирование не найдено"
	msgForbidden            = "бронирование принадлежит другому пользователю"
	msgActionNotPermitted   = "действие недоступно для бронирования"
	msgDeadlinePassed       = "срок для этого действия истёк"
	msgCapacityConflict     = "на показе недостаточно свободных мест"
	msgInvalidInput         = "некорректные параметры действия"
)

type Handler struct {
	useCase ReservationActionUseCase
	logger  Logger
}

func NewHandler(useCase ReservationActionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{reservationId}/actions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathInt64(r, "reservationId")
	if err != nil {
		h.logger.Warn("POST /reservations/{reservationId}/actions - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var req ActionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/{reservationId}/actions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(reservationID, userID))
	if err != nil {
		switch {
		case errors.Is(err, reservationAction.ErrReservationNotFound):
			h.logger.Warn("POST /reservations/{reservationId}/actions - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgReservationNotFound)

		case errors.Is(err, reservationAction.ErrForbidden):
			h.logger.Warn("POST /reservations/{reservationId}/actions - Not owner: reservation_id=%d, user_id=%d", reservationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reservationAction.ErrActionNotPermitted):
			h.logger.Warn("POST /reservations/{reservationId}/actions - Action not permitted: reservation_id=%d, action=%s, error=%v",
				reservationID, req.Action, err)
			handlers.RespondJSON(w, http.StatusConflict, notPermittedResponse(err))

		case errors.Is(err, reservationAction.ErrCapacityConflict):
			h.logger.Warn("POST /reservations/{reservationId}/actions - Capacity conflict: reservation_id=%d", reservationID)
			handlers.RespondConflict(w, msgCapacityConflict)

		case errors.Is(err, reservationAction.ErrInvalidInput):
			h.logger.Warn("POST /reservations/{reservationId}/actions - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /reservations/{reservationId}/actions - Failed to apply action: reservation_id=%d, action=%s, error=%v",
				reservationID, req.Action, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/{reservationId}/actions - Action applied: reservation_id=%d, action=%s, status=%s",
		reservationID, req.Action, result.Reservation.Status)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result, time.Now()))
}

// notPermittedResponse добавляет крайнюю дату, если отказ вызван сроком
func notPermittedResponse(err error) *ActionRejectedResponse {
	resp := &ActionRejectedResponse{Error: msgActionNotPermitted}

	var notPermitted *domain.ActionNotPermittedError
	if errors.As(err, &notPermitted) && notPermitted.Deadline != nil {
		deadline := notPermitted.Deadline.Format(domain.DateFormat)
		resp.Error = msgDeadlinePassed
		resp.Deadline = &deadline
	}
	return resp
}
