package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
)

// adminTransitions statuses reachable by an administrator from each status.
// Terminal statuses have no entry.
var adminTransitions = map[domain.ReservationStatus][]domain.ReservationStatus{
	domain.StatusPendingApproval:   {domain.StatusConfirmed, domain.StatusRejected, domain.StatusCancelled},
	domain.StatusPendingPayment:    {domain.StatusConfirmed, domain.StatusCancelled},
	domain.StatusWaitlisted:        {domain.StatusConfirmed, domain.StatusMovedToWaitlist, domain.StatusCancelled},
	domain.StatusMovedToWaitlist:   {domain.StatusConfirmed, domain.StatusCancelled},
	domain.StatusPendingDateChange: {domain.StatusConfirmed, domain.StatusCancelled},
	domain.StatusConfirmed:         {domain.StatusCancelled, domain.StatusCompleted, domain.StatusMovedToWaitlist},
}

// CanTransition returns true if an administrator may move a reservation from one status to another
func CanTransition(from, to domain.ReservationStatus) bool {
	for _, s := range adminTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses an administrator may set from status
func AllowedTransitions(from domain.ReservationStatus) []domain.ReservationStatus {
	return append([]domain.ReservationStatus(nil), adminTransitions[from]...)
}

// Transition applies an administrator status change. Lead-time rules do not apply here,
// terminal statuses are never left.
func Transition(res domain.Reservation, to domain.ReservationStatus, params ActionParams) (domain.Reservation, error) {
	if _, err := domain.ParseReservationStatus(string(to)); err != nil {
		return domain.Reservation{}, err
	}
	if !CanTransition(res.Status, to) {
		return domain.Reservation{}, &domain.ActionNotPermittedError{
			Action: fmt.Sprintf("transition to %s", to),
			Status: res.Status,
		}
	}

	at := params.At
	if at.IsZero() {
		at = time.Now()
	}

	out := res.Clone()
	out.Status = to
	out.UpdatedAt = at

	switch to {
	case domain.StatusCancelled, domain.StatusRejected:
		reason := strings.TrimSpace(params.Reason)
		if len(reason) > domain.MaxReasonLength {
			return domain.Reservation{}, fmt.Errorf("%w: reason exceeds %d characters", domain.ErrInvalidInput, domain.MaxReasonLength)
		}
		out.Cancellation = &domain.CancellationInfo{At: at, Actor: params.Actor, Reason: reason}
	case domain.StatusConfirmed:
		if res.Status == domain.StatusPendingDateChange {
			out.ModificationRequest = nil
		}
	}

	return out, nil
}

// HoldsCapacity returns true if reservations in status occupy seats of their slot
func HoldsCapacity(status domain.ReservationStatus) bool {
	for _, s := range domain.HoldingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// CapacityDelta seats to acquire (positive) or release (negative) on the slot when a
// reservation changes from before to after. Both snapshots must reference the same slot.
func CapacityDelta(before, after domain.Reservation) int {
	held := 0
	if HoldsCapacity(before.Status) {
		held = before.GuestCount
	}
	holds := 0
	if HoldsCapacity(after.Status) {
		holds = after.GuestCount
	}
	return holds - held
}
