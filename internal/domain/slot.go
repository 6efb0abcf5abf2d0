package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ShowBookingService/pkg/types"
)

// ShowType represents the kind of show played in a slot
type ShowType string

const (
	ShowTypeRegular          ShowType = "regular"
	ShowTypeMatinee          ShowType = "matinee"
	ShowTypeCaregiverSpecial ShowType = "caregiver_special"
	ShowTypeSpecialEvent     ShowType = "special_event"
)

// ResolveShowType maps an empty value to the regular show type and rejects unknown values.
// It is applied once, when a slot is created.
func ResolveShowType(raw string) (ShowType, error) {
	switch ShowType(raw) {
	case "":
		return ShowTypeRegular, nil
	case ShowTypeRegular, ShowTypeMatinee, ShowTypeCaregiverSpecial, ShowTypeSpecialEvent:
		return ShowType(raw), nil
	default:
		return "", fmt.Errorf("%w: unknown show type %q", ErrInvalidInput, raw)
	}
}

// ShowSlot represents a single bookable show occurrence
type ShowSlot struct {
	ID               int64
	Date             time.Time // calendar day, time part is ignored
	StartTime        types.TimeString
	Capacity         int
	BookedCount      int // may exceed Capacity after administrative overbooking
	IsManuallyClosed bool
	ShowType         ShowType
	PackageIDs       []int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StartsAt returns the moment the show starts, in the location of Date.
// A malformed start time falls back to midnight of the show day.
func (s *ShowSlot) StartsAt() time.Time {
	at, err := s.StartTime.On(s.Date)
	if err != nil {
		return DateOnly(s.Date)
	}
	return at
}

// OffersPackage returns true if the package can be booked for this slot.
// An empty PackageIDs list offers every package.
func (s *ShowSlot) OffersPackage(packageID int64) bool {
	if len(s.PackageIDs) == 0 {
		return true
	}
	for _, id := range s.PackageIDs {
		if id == packageID {
			return true
		}
	}
	return false
}

// DayKey returns the calendar day of the slot formatted as YYYY-MM-DD
func (s *ShowSlot) DayKey() string {
	return s.Date.Format(DateFormat)
}

// SlotsFilter filter for listing slots
type SlotsFilter struct {
	From time.Time // inclusive
	To   time.Time // inclusive
}
