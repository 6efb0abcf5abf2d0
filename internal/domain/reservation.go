package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ShowBookingService/pkg/types"
)

// ReservationStatus represents the lifecycle status of a reservation
type ReservationStatus string

const (
	StatusPendingApproval   ReservationStatus = "pending_approval"
	StatusConfirmed         ReservationStatus = "confirmed"
	StatusWaitlisted        ReservationStatus = "waitlisted"
	StatusRejected          ReservationStatus = "rejected"
	StatusMovedToWaitlist   ReservationStatus = "moved_to_waitlist"
	StatusPendingDateChange ReservationStatus = "pending_date_change"
	StatusCancelled         ReservationStatus = "cancelled"
	StatusCompleted         ReservationStatus = "completed"
	StatusPendingPayment    ReservationStatus = "pending_payment"
)

// ParseReservationStatus converts a raw string into a known status
func ParseReservationStatus(raw string) (ReservationStatus, error) {
	switch s := ReservationStatus(raw); s {
	case StatusPendingApproval, StatusConfirmed, StatusWaitlisted, StatusRejected,
		StatusMovedToWaitlist, StatusPendingDateChange, StatusCancelled, StatusCompleted,
		StatusPendingPayment:
		return s, nil
	default:
		return "", fmt.Errorf("%w: unknown reservation status %q", ErrInvalidInput, raw)
	}
}

// IsTerminal returns true if no transition may leave this status
func (s ReservationStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusRejected || s == StatusCompleted
}

// Channel represents how a reservation was made
type Channel string

const (
	ChannelCustomer Channel = "customer"
	ChannelAdmin    Channel = "admin"
)

// CancellationInfo metadata recorded when a reservation is cancelled
type CancellationInfo struct {
	At     time.Time
	Actor  string
	Reason string
}

// Reservation represents a booking for a show slot
type Reservation struct {
	ID         int64
	Reference  string // public booking reference (uuid)
	UserID     int64
	ShowSlotID int64
	ShowDate   time.Time
	ShowTime   types.TimeString
	GuestCount int
	Channel    Channel

	// Denormalized pricing snapshot
	PackageID    int64
	PackageName  string
	PackagePrice decimal.Decimal
	// PackageMinPersons threshold of the package at booking time
	PackageMinPersons *int
	AddOns            []SelectedAddOn
	Merchandise       []OrderedMerchandiseItem

	PromoCode      *string
	DiscountAmount *decimal.Decimal
	Subtotal       decimal.Decimal
	Total          decimal.Decimal

	Status              ReservationStatus
	IsPaid              bool
	InvoiceNumber       *string
	NeedsInvoiceReview  bool
	ModificationRequest *string
	Cancellation        *CancellationInfo
	Notes               *string

	BookedAt  time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the reservation has not been cancelled or rejected
func (r *Reservation) IsActive() bool {
	return r.Status != StatusCancelled && r.Status != StatusRejected
}

// HasInvoice returns true if an invoice was issued for the reservation
func (r *Reservation) HasInvoice() bool {
	return r.InvoiceNumber != nil && *r.InvoiceNumber != ""
}

// Clone returns a copy that shares no slices or pointers with r
func (r Reservation) Clone() Reservation {
	out := r
	if r.AddOns != nil {
		out.AddOns = append([]SelectedAddOn(nil), r.AddOns...)
	}
	if r.Merchandise != nil {
		out.Merchandise = append([]OrderedMerchandiseItem(nil), r.Merchandise...)
	}
	if r.PackageMinPersons != nil {
		n := *r.PackageMinPersons
		out.PackageMinPersons = &n
	}
	if r.PromoCode != nil {
		code := *r.PromoCode
		out.PromoCode = &code
	}
	if r.DiscountAmount != nil {
		d := *r.DiscountAmount
		out.DiscountAmount = &d
	}
	if r.InvoiceNumber != nil {
		n := *r.InvoiceNumber
		out.InvoiceNumber = &n
	}
	if r.ModificationRequest != nil {
		m := *r.ModificationRequest
		out.ModificationRequest = &m
	}
	if r.Cancellation != nil {
		c := *r.Cancellation
		out.Cancellation = &c
	}
	if r.Notes != nil {
		n := *r.Notes
		out.Notes = &n
	}
	return out
}

// ReservationsFilter filter for listing reservations of a slot
type ReservationsFilter struct {
	ShowSlotID      int64
	Status          *ReservationStatus
	IncludeInactive bool
}
