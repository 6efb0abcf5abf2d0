package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
	"github.com/m04kA/SMC-ShowBookingService/internal/lifecycle"
)

// Request модели

// GetUserReservationsRequest запрос на получение бронирований пользователя
type GetUserReservationsRequest struct {
	UserID      int64   `json:"userId"`
	RequesterID int64   `json:"-"`
	IsAdmin     bool    `json:"-"`
	Status      *string `json:"status,omitempty"`
}

// GetShowReservationsRequest запрос на получение бронирований показа
type GetShowReservationsRequest struct {
	ShowID          int64   `json:"showId"`
	Status          *string `json:"status,omitempty"`
	IncludeInactive bool    `json:"includeInactive,omitempty"` // включить отменённые и отклонённые
}

// UpdateStatusRequest запрос администратора на смену статуса бронирования
type UpdateStatusRequest struct {
	AdminID   int64  `json:"-"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
	NewShowID *int64 `json:"newShowId,omitempty"` // перенос на другой показ при подтверждении смены даты
}

// Response модели

// AddOnLine дополнение в бронировании
type AddOnLine struct {
	AddOnID       int64  `json:"addOnId"`
	Name          string `json:"name"`
	PricePerGuest string `json:"pricePerGuest"`
}

// MerchandiseLine товар в бронировании
type MerchandiseLine struct {
	ItemID    int64  `json:"itemId"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

// CancellationResponse данные об отмене
type CancellationResponse struct {
	At     string `json:"at"` // ISO 8601
	Actor  string `json:"actor"`
	Reason string `json:"reason,omitempty"`
}

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID         int64  `json:"id"`
	Reference  string `json:"reference"`
	UserID     int64  `json:"userId"`
	ShowID     int64  `json:"showId"`
	ShowDate   string `json:"showDate"` // "2025-10-15"
	ShowTime   string `json:"showTime"` // "19:30"
	GuestCount int    `json:"guestCount"`
	Channel    string `json:"channel"`
	Status     string `json:"status"`

	// Денормализованные данные
	PackageID      int64             `json:"packageId"`
	PackageName    string            `json:"packageName"`
	PackagePrice   string            `json:"packagePrice"`
	AddOns         []AddOnLine       `json:"addOns"`
	Merchandise    []MerchandiseLine `json:"merchandise"`
	PromoCode      *string           `json:"promoCode,omitempty"`
	DiscountAmount *string           `json:"discountAmount,omitempty"`
	Subtotal       string            `json:"subtotal"`
	Total          string            `json:"total"`

	IsPaid              bool                  `json:"isPaid"`
	InvoiceNumber       *string               `json:"invoiceNumber,omitempty"`
	NeedsInvoiceReview  bool                  `json:"needsInvoiceReview"`
	ModificationRequest *string               `json:"modificationRequest,omitempty"`
	Cancellation        *CancellationResponse `json:"cancellation,omitempty"`
	Notes               *string               `json:"notes,omitempty"`

	PermittedActions   []string `json:"permittedActions"`
	AllowedTransitions []string `json:"allowedTransitions,omitempty"`

	BookedAt  time.Time `json:"bookedAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// Методы конвертации

// Money форматирует сумму с двумя знаками после запятой
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FromDomainReservation конвертирует domain модель в DTO
// Разрешённые действия клиента вычисляются на момент now
func FromDomainReservation(r *domain.Reservation, now time.Time) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:                  r.ID,
		Reference:           r.Reference,
		UserID:              r.UserID,
		ShowID:              r.ShowSlotID,
		ShowDate:            r.ShowDate.Format(domain.DateFormat),
		ShowTime:            r.ShowTime.String(),
		GuestCount:          r.GuestCount,
		Channel:             string(r.Channel),
		Status:              string(r.Status),
		PackageID:           r.PackageID,
		PackageName:         r.PackageName,
		PackagePrice:        Money(r.PackagePrice),
		AddOns:              make([]AddOnLine, 0, len(r.AddOns)),
		Merchandise:         make([]MerchandiseLine, 0, len(r.Merchandise)),
		PromoCode:           r.PromoCode,
		Subtotal:            Money(r.Subtotal),
		Total:               Money(r.Total),
		IsPaid:              r.IsPaid,
		InvoiceNumber:       r.InvoiceNumber,
		NeedsInvoiceReview:  r.NeedsInvoiceReview,
		ModificationRequest: r.ModificationRequest,
		Notes:               r.Notes,
		PermittedActions:    actionNames(lifecycle.PermittedActions(*r, r.ShowDate, now).List()),
		BookedAt:            r.BookedAt,
		UpdatedAt:           r.UpdatedAt,
	}

	for _, a := range r.AddOns {
		resp.AddOns = append(resp.AddOns, AddOnLine{AddOnID: a.AddOnID, Name: a.Name, PricePerGuest: Money(a.PricePerGuest)})
	}
	for _, m := range r.Merchandise {
		resp.Merchandise = append(resp.Merchandise, MerchandiseLine{
			ItemID:    m.ItemID,
			Name:      m.Name,
			UnitPrice: Money(m.UnitPrice),
			Quantity:  m.Quantity,
		})
	}

	if r.DiscountAmount != nil {
		discount := Money(*r.DiscountAmount)
		resp.DiscountAmount = &discount
	}

	// Конвертируем время отмены в строку ISO 8601
	if r.Cancellation != nil {
		resp.Cancellation = &CancellationResponse{
			At:     r.Cancellation.At.Format(time.RFC3339),
			Actor:  r.Cancellation.Actor,
			Reason: r.Cancellation.Reason,
		}
	}

	return resp
}

// FromDomainReservationForAdmin дополняет DTO статусами, доступными администратору
func FromDomainReservationForAdmin(r *domain.Reservation, now time.Time) *ReservationResponse {
	resp := FromDomainReservation(r, now)
	if resp == nil {
		return nil
	}
	for _, s := range lifecycle.AllowedTransitions(r.Status) {
		resp.AllowedTransitions = append(resp.AllowedTransitions, string(s))
	}
	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []domain.Reservation, now time.Time) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(reservations)),
	}
	for i := range reservations {
		resp.Reservations = append(resp.Reservations, *FromDomainReservation(&reservations[i], now))
	}
	return resp
}

func actionNames(actions []lifecycle.Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = string(a)
	}
	return out
}
