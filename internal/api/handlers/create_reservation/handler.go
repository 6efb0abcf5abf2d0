package create_reservation

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ShowBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShowBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
	createReservation "github.com/m04kA/SMC-ShowBookingService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgUnauthorized        = "пользователь не определён"
	msgInvalidUserID       = "не указан пользователь, для которого создаётся бронирование"
	msgShowNotFound        = "показ не найден"
	msgShowInPast          = "показ уже прошёл"
	msgShowClosed          = "показ закрыт для бронирования"
	msgShowFull            = "на показе недостаточно свободных мест"
	msgCapacityConflict    = "места на показе закончились, попробуйте ещё раз"
	msgPackageNotFound     = "пакет не найден"
	msgPackageNotOffered   = "пакет недоступен для выбранного показа"
	msgAddOnNotFound       = "дополнение не найдено"
	msgAddOnNotEligible    = "дополнение недоступно для выбранного количества гостей"
	msgMerchandiseNotFound = "товар не найден"
	msgPromoRejected       = "промокод не может быть применён"
	msgInvalidInput        = "некорректные параметры бронирования"
)

// Handler создаёт бронирование в клиентском или административном канале
type Handler struct {
	useCase CreateReservationUseCase
	channel domain.Channel
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, channel domain.Channel, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		channel: channel,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations и POST /api/v1/admin/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Клиент всегда бронирует на себя, администратор указывает пользователя в теле
	userID := requesterID
	if h.channel == domain.ChannelAdmin {
		if req.UserID <= 0 {
			h.logger.Warn("POST /admin/reservations - Missing user id: admin_id=%d", requesterID)
			handlers.RespondBadRequest(w, msgInvalidUserID)
			return
		}
		userID = req.UserID
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID, h.channel))
	if err != nil {
		h.respondError(w, err, userID, req.ShowID)
		return
	}

	h.logger.Info("POST /reservations - Reservation created: reservation_id=%d, user_id=%d, show_id=%d, status=%s, channel=%s",
		result.Reservation.ID, userID, req.ShowID, result.Reservation.Status, h.channel)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result, time.Now()))
}

func (h *Handler) respondError(w http.ResponseWriter, err error, userID, showID int64) {
	switch {
	case errors.Is(err, createReservation.ErrSlotNotFound):
		h.logger.Warn("POST /reservations - Show not found: show_id=%d", showID)
		handlers.RespondNotFound(w, msgShowNotFound)

	case errors.Is(err, createReservation.ErrPackageNotFound):
		h.logger.Warn("POST /reservations - Package not found: %v", err)
		handlers.RespondNotFound(w, msgPackageNotFound)

	case errors.Is(err, createReservation.ErrAddOnNotFound):
		h.logger.Warn("POST /reservations - Add-on not found: %v", err)
		handlers.RespondNotFound(w, msgAddOnNotFound)

	case errors.Is(err, createReservation.ErrMerchandiseNotFound):
		h.logger.Warn("POST /reservations - Merchandise not found: %v", err)
		handlers.RespondNotFound(w, msgMerchandiseNotFound)

	case errors.Is(err, createReservation.ErrSlotFull):
		h.logger.Warn("POST /reservations - Show full: user_id=%d, show_id=%d", userID, showID)
		handlers.RespondConflict(w, msgShowFull)

	case errors.Is(err, createReservation.ErrCapacityConflict):
		h.logger.Warn("POST /reservations - Capacity conflict: user_id=%d, show_id=%d", userID, showID)
		handlers.RespondConflict(w, msgCapacityConflict)

	case errors.Is(err, createReservation.ErrSlotInPast):
		h.logger.Warn("POST /reservations - Show in past: show_id=%d", showID)
		handlers.RespondBadRequest(w, msgShowInPast)

	case errors.Is(err, createReservation.ErrSlotClosed):
		h.logger.Warn("POST /reservations - Show closed: show_id=%d", showID)
		handlers.RespondBadRequest(w, msgShowClosed)

	case errors.Is(err, createReservation.ErrPackageNotOffered):
		h.logger.Warn("POST /reservations - Package not offered: %v", err)
		handlers.RespondBadRequest(w, msgPackageNotOffered)

	case errors.Is(err, createReservation.ErrAddOnNotEligible):
		h.logger.Warn("POST /reservations - Add-on not eligible: %v", err)
		handlers.RespondBadRequest(w, msgAddOnNotEligible)

	case errors.Is(err, createReservation.ErrPromoRejected):
		h.logger.Warn("POST /reservations - Promo rejected: %v", err)
		handlers.RespondBadRequest(w, msgPromoRejected)

	case errors.Is(err, createReservation.ErrInvalidInput):
		h.logger.Warn("POST /reservations - Invalid input: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	default:
		h.logger.Error("POST /reservations - Failed to create reservation: user_id=%d, show_id=%d, error=%v",
			userID, showID, err)
		handlers.RespondInternalError(w)
	}
}
