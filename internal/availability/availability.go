// Package availability classifies show slots and calendar days for display and booking.
// All functions are pure: they read snapshots and never touch storage.
package availability

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
)

// SlotState bookability class of a single slot
type SlotState string

const (
	SlotOpen   SlotState = "OPEN"
	SlotFull   SlotState = "FULL"
	SlotClosed SlotState = "CLOSED"
	SlotPast   SlotState = "PAST"
)

// DayState aggregate state of a calendar day
type DayState string

const (
	DayAllUnavailable DayState = "ALL_UNAVAILABLE"
	DayHasOpen        DayState = "HAS_OPEN"
	DayNoShows        DayState = "NO_SHOWS"
	DayPast           DayState = "PAST_DAY"
)

// Classify returns the state of the slot at the given moment.
// Priority: PAST, then CLOSED, then FULL, then OPEN.
func Classify(slot domain.ShowSlot, at time.Time) SlotState {
	switch {
	case slot.StartsAt().Before(at):
		return SlotPast
	case slot.IsManuallyClosed:
		return SlotClosed
	case slot.BookedCount >= slot.Capacity:
		return SlotFull
	default:
		return SlotOpen
	}
}

// RemainingCapacity returns the number of free seats, never negative
func RemainingCapacity(slot domain.ShowSlot) int {
	remaining := slot.Capacity - slot.BookedCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// DayAggregateState returns the calendar state of day given the slots played on it.
// Slots of other days are ignored.
func DayAggregateState(slots []domain.ShowSlot, day time.Time, now time.Time) DayState {
	if domain.DateOnly(day).Before(domain.DateOnly(now.In(day.Location()))) {
		return DayPast
	}

	count := 0
	for _, slot := range slots {
		if !sameDay(slot.Date, day) {
			continue
		}
		count++
		if Classify(slot, now) == SlotOpen {
			return DayHasOpen
		}
	}

	if count == 0 {
		return DayNoShows
	}
	return DayAllUnavailable
}

// GroupByDay groups slots by calendar day (YYYY-MM-DD), each group sorted by start time
func GroupByDay(slots []domain.ShowSlot) map[string][]domain.ShowSlot {
	groups := make(map[string][]domain.ShowSlot)
	for _, slot := range slots {
		key := slot.DayKey()
		groups[key] = append(groups[key], slot)
	}
	for _, group := range groups {
		sortByStart(group)
	}
	return groups
}

// SlotView slot with its derived state
type SlotView struct {
	Slot      domain.ShowSlot
	State     SlotState
	Remaining int
}

// DayView calendar cell
type DayView struct {
	Date  time.Time
	State DayState
	Slots []SlotView
}

// BuildCalendar returns one DayView per day in [from, to], in chronological order
func BuildCalendar(slots []domain.ShowSlot, from, to time.Time, now time.Time) []DayView {
	from = domain.DateOnly(from)
	to = domain.DateOnly(to)
	if to.Before(from) {
		return []DayView{}
	}

	groups := GroupByDay(slots)
	days := make([]DayView, 0, int(to.Sub(from).Hours()/24)+1)

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		daySlots := groups[day.Format(domain.DateFormat)]

		views := make([]SlotView, len(daySlots))
		for i, slot := range daySlots {
			views[i] = SlotView{
				Slot:      slot,
				State:     Classify(slot, now),
				Remaining: RemainingCapacity(slot),
			}
		}

		days = append(days, DayView{
			Date:  day,
			State: DayAggregateState(daySlots, day, now),
			Slots: views,
		})
	}

	return days
}

func sortByStart(slots []domain.ShowSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].StartsAt().Before(slots[j].StartsAt())
	})
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
