package reservation_action

import (
	"time"

	"github.com/m04kA/SMC-ShowBookingService/internal/service/reservations/models"
	reservationAction "github.com/m04kA/SMC-ShowBookingService/internal/usecase/reservation_action"
)

// ActionRequest HTTP request model
type ActionRequest struct {
	Action        string `json:"action"` // MODIFY_GUESTS, CANCEL, REQUEST_DATE_CHANGE
	NewGuestCount int    `json:"newGuestCount,omitempty"`
	Reason        string `json:"reason,omitempty"`
	RequestText   string `json:"requestText,omitempty"`
}

// ActionRejectedResponse ответ при отказе в действии, Deadline заполняется, если истёк срок
type ActionRejectedResponse struct {
	Error    string  `json:"error"`
	Deadline *string `json:"deadline,omitempty"` // "2025-10-15"
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ActionRequest) ToUseCaseRequest(reservationID, userID int64) *reservationAction.Request {
	return &reservationAction.Request{
		ReservationID: reservationID,
		UserID:        userID,
		Action:        r.Action,
		NewGuestCount: r.NewGuestCount,
		Reason:        r.Reason,
		RequestText:   r.RequestText,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reservationAction.Response, now time.Time) *models.ReservationResponse {
	return models.FromDomainReservation(resp.Reservation, now)
}
