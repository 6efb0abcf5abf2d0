package reservation_action

import (
	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
	"github.com/m04kA/SMC-ShowBookingService/internal/lifecycle"
)

// Request модель запроса на действие клиента над бронированием
type Request struct {
	ReservationID int64
	UserID        int64  // инициатор, должен быть владельцем
	Action        string // MODIFY_GUESTS, CANCEL, REQUEST_DATE_CHANGE
	NewGuestCount int    // для MODIFY_GUESTS
	Reason        string // для CANCEL
	RequestText   string // для REQUEST_DATE_CHANGE
}

// Response модель ответа
type Response struct {
	Reservation      *domain.Reservation
	PermittedActions []lifecycle.Action
}
