package get_calendar

import (
	"time"

	"github.com/m04kA/SMC-ShowBookingService/internal/availability"
	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
	"github.com/m04kA/SMC-ShowBookingService/pkg/types"
)

// Request модель запроса календаря на месяц
type Request struct {
	Year  int
	Month time.Month
}

// Response календарь месяца
type Response struct {
	Year  int
	Month time.Month
	Days  []Day
}

// Day ячейка календаря
type Day struct {
	Date  time.Time
	State availability.DayState
	Slots []Slot
}

// Slot показ с вычисленным состоянием
type Slot struct {
	ID             int64
	StartTime      types.TimeString
	ShowType       domain.ShowType
	State          availability.SlotState
	Capacity       int
	AvailableSpots int
	PackageIDs     []int64
}
