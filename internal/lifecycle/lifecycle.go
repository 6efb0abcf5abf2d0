// Package lifecycle decides which actions a reservation admits at a point in time
// and performs the resulting status transitions.
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
)

// Action customer lifecycle action
type Action string

const (
	ActionModifyGuests      Action = "MODIFY_GUESTS"
	ActionCancel            Action = "CANCEL"
	ActionRequestDateChange Action = "REQUEST_DATE_CHANGE"
)

// allActions fixed evaluation and listing order
var allActions = []Action{ActionModifyGuests, ActionCancel, ActionRequestDateChange}

// ParseAction converts a raw tag into a known action
func ParseAction(raw string) (Action, error) {
	a := Action(strings.ToUpper(strings.TrimSpace(raw)))
	for _, known := range allActions {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: unknown action %q", domain.ErrInvalidInput, raw)
}

// RequiredLeadDays minimal number of days before the show the action is allowed
func (a Action) RequiredLeadDays() int {
	switch a {
	case ActionModifyGuests:
		return domain.ModifyGuestsLeadDays
	case ActionCancel:
		return domain.CancelLeadDays
	case ActionRequestDateChange:
		return domain.RequestDateChangeLeadDays
	default:
		return 0
	}
}

// ActionSet set of permitted actions
type ActionSet map[Action]struct{}

// Has returns true if a is in the set
func (s ActionSet) Has(a Action) bool {
	_, ok := s[a]
	return ok
}

// List returns the actions in a stable order
func (s ActionSet) List() []Action {
	out := make([]Action, 0, len(s))
	for _, a := range allActions {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

// ActionParams arguments of a lifecycle action or transition
type ActionParams struct {
	NewGuestCount int    // MODIFY_GUESTS
	Reason        string // CANCEL, rejection
	RequestText   string // REQUEST_DATE_CHANGE
	Actor         string // who performed the action
	At            time.Time
}

// LeadDays whole calendar days from today to showDate, both taken as UTC dates.
// A show today has 0 lead days, a show in the past a negative number.
func LeadDays(today, showDate time.Time) int {
	from := domain.UTCDate(today)
	to := domain.UTCDate(showDate)
	return int(to.Sub(from).Hours() / 24)
}

// PermittedActions returns the actions a customer may perform right now.
// Only confirmed reservations admit actions; each threshold is inclusive and independent.
func PermittedActions(res domain.Reservation, showDate, today time.Time) ActionSet {
	set := ActionSet{}
	if res.Status != domain.StatusConfirmed {
		return set
	}

	lead := LeadDays(today, showDate)
	for _, a := range allActions {
		if lead >= a.RequiredLeadDays() {
			set[a] = struct{}{}
		}
	}
	return set
}

// ApplyAction checks the action against PermittedActions and returns the updated snapshot.
// res is not modified.
func ApplyAction(res domain.Reservation, showDate time.Time, action Action, params ActionParams) (domain.Reservation, error) {
	if action.RequiredLeadDays() == 0 {
		return domain.Reservation{}, fmt.Errorf("%w: unknown action %q", domain.ErrInvalidInput, action)
	}

	today := params.At
	if today.IsZero() {
		today = time.Now()
	}

	if !PermittedActions(res, showDate, today).Has(action) {
		return domain.Reservation{}, notPermitted(res, showDate, today, action)
	}

	out := res.Clone()
	out.UpdatedAt = today

	switch action {
	case ActionModifyGuests:
		if params.NewGuestCount < 1 {
			return domain.Reservation{}, fmt.Errorf("%w: guest count must be positive, got %d", domain.ErrInvalidInput, params.NewGuestCount)
		}
		if params.NewGuestCount > domain.MaxGuestsPerReservation {
			return domain.Reservation{}, fmt.Errorf("%w: guest count exceeds %d", domain.ErrInvalidInput, domain.MaxGuestsPerReservation)
		}
		out.GuestCount = params.NewGuestCount
		if out.HasInvoice() {
			out.NeedsInvoiceReview = true
		}

	case ActionCancel:
		if len(params.Reason) > domain.MaxReasonLength {
			return domain.Reservation{}, fmt.Errorf("%w: reason exceeds %d characters", domain.ErrInvalidInput, domain.MaxReasonLength)
		}
		out.Status = domain.StatusCancelled
		out.Cancellation = &domain.CancellationInfo{
			At:     today,
			Actor:  params.Actor,
			Reason: strings.TrimSpace(params.Reason),
		}

	case ActionRequestDateChange:
		text := strings.TrimSpace(params.RequestText)
		if text == "" {
			return domain.Reservation{}, fmt.Errorf("%w: date change request text is empty", domain.ErrInvalidInput)
		}
		if len(text) > domain.MaxModificationReqLength {
			return domain.Reservation{}, fmt.Errorf("%w: request exceeds %d characters", domain.ErrInvalidInput, domain.MaxModificationReqLength)
		}
		out.Status = domain.StatusPendingDateChange
		out.ModificationRequest = &text
	}

	return out, nil
}

func notPermitted(res domain.Reservation, showDate, today time.Time, action Action) error {
	e := &domain.ActionNotPermittedError{
		Action:           string(action),
		Status:           res.Status,
		LeadDays:         LeadDays(today, showDate),
		RequiredLeadDays: action.RequiredLeadDays(),
	}
	if res.Status == domain.StatusConfirmed {
		deadline := domain.UTCDate(showDate).AddDate(0, 0, -action.RequiredLeadDays())
		e.Deadline = &deadline
	}
	return e
}
