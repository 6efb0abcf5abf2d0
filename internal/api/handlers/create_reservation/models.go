package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
	"github.com/m04kA/SMC-ShowBookingService/internal/service/reservations/models"
	createReservation "github.com/m04kA/SMC-ShowBookingService/internal/usecase/create_reservation"
	quotePrice "github.com/m04kA/SMC-ShowBookingService/internal/usecase/quote_price"
)

// CreateReservationRequest HTTP request model
// UserID учитывается только в административном канале, клиент бронирует на себя
type CreateReservationRequest struct {
	UserID       int64                `json:"userId,omitempty"`
	ShowID       int64                `json:"showId"`
	PackageID    int64                `json:"packageId"`
	GuestCount   int                  `json:"guestCount"`
	AddOnIDs     []int64              `json:"addOnIds,omitempty"`
	Merchandise  []MerchandiseRequest `json:"merchandise,omitempty"`
	PromoCode    string               `json:"promoCode,omitempty"`
	JoinWaitlist bool                 `json:"joinWaitlist,omitempty"`
	Notes        *string              `json:"notes,omitempty"`
}

// MerchandiseRequest позиция товара в запросе
type MerchandiseRequest struct {
	ItemID   int64 `json:"itemId"`
	Quantity int   `json:"quantity"`
}

// CreateReservationResponse HTTP response model
type CreateReservationResponse struct {
	Reservation    *models.ReservationResponse `json:"reservation"`
	Components     []ComponentResponse         `json:"components"`
	AvailableSpots int                         `json:"availableSpots"`
}

// ComponentResponse часть итоговой суммы с налогом
type ComponentResponse struct {
	Name    string `json:"name"`
	TaxRate string `json:"taxRate"`
	Gross   string `json:"gross"`
	Tax     string `json:"tax"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(userID int64, channel domain.Channel) *createReservation.Request {
	lines := make([]quotePrice.MerchandiseLine, 0, len(r.Merchandise))
	for _, m := range r.Merchandise {
		lines = append(lines, quotePrice.MerchandiseLine{ItemID: m.ItemID, Quantity: m.Quantity})
	}
	return &createReservation.Request{
		UserID:       userID,
		SlotID:       r.ShowID,
		PackageID:    r.PackageID,
		GuestCount:   r.GuestCount,
		AddOnIDs:     r.AddOnIDs,
		Merchandise:  lines,
		PromoCode:    r.PromoCode,
		Channel:      channel,
		JoinWaitlist: r.JoinWaitlist,
		Notes:        r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response, now time.Time) *CreateReservationResponse {
	out := &CreateReservationResponse{
		Reservation:    models.FromDomainReservation(resp.Reservation, now),
		Components:     make([]ComponentResponse, 0, len(resp.Components)),
		AvailableSpots: resp.AvailableSpots,
	}
	for _, c := range resp.Components {
		out.Components = append(out.Components, ComponentResponse{
			Name:    c.Name,
			TaxRate: c.TaxRate.String(),
			Gross:   models.Money(c.Gross),
			Tax:     models.Money(c.Tax),
		})
	}
	return out
}
