package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidInput malformed or out-of-range arguments
	ErrInvalidInput = errors.New("invalid input")

	// ErrAddOnNotEligible add-on selected below its minimum-persons threshold
	ErrAddOnNotEligible = errors.New("add-on not eligible for guest count")

	// ErrPromoCodeNotFound promo code lookup found nothing
	ErrPromoCodeNotFound = errors.New("promo code not found")

	// ErrPromoCodeExpired promo code exists but cannot be used now
	ErrPromoCodeExpired = errors.New("promo code expired")

	// ErrActionNotPermitted lifecycle action outside its window or against an ineligible status
	ErrActionNotPermitted = errors.New("action not permitted")

	// ErrCapacityConflict atomic capacity update rejected by storage
	ErrCapacityConflict = errors.New("capacity conflict")
)

// ActionNotPermittedError describes why a lifecycle action or transition was refused.
// errors.Is(err, ErrActionNotPermitted) holds for it.
type ActionNotPermittedError struct {
	Action           string
	Status           ReservationStatus
	LeadDays         int
	RequiredLeadDays int
	// Deadline is the last calendar day the action was allowed; nil when the refusal
	// is caused by the status rather than by lead time.
	Deadline *time.Time
}

func (e *ActionNotPermittedError) Error() string {
	if e.Deadline != nil {
		return fmt.Sprintf("%s: %s requires %d days before the show (%d left), allowed until %s",
			ErrActionNotPermitted, e.Action, e.RequiredLeadDays, e.LeadDays, e.Deadline.Format(DateFormat))
	}
	return fmt.Sprintf("%s: %s is not allowed for status %s", ErrActionNotPermitted, e.Action, e.Status)
}

func (e *ActionNotPermittedError) Unwrap() error {
	return ErrActionNotPermitted
}
