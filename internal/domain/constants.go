package domain

import "time"

// Lead-time thresholds (in whole calendar days before the show) for customer actions
const (
	ModifyGuestsLeadDays      = 14
	CancelLeadDays            = 21
	RequestDateChangeLeadDays = 7
)

// Business validation constants
const (
	MinCapacity              = 1
	MaxCapacity              = 2000
	MaxGuestsPerReservation  = 500
	MaxReasonLength          = 500
	MaxModificationReqLength = 1000
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// HoldingStatuses statuses whose guests occupy seats of the slot
var HoldingStatuses = []ReservationStatus{
	StatusPendingApproval,
	StatusPendingPayment,
	StatusConfirmed,
	StatusPendingDateChange,
	StatusCompleted,
}

// InactiveStatuses statuses excluded from active reservation listings
var InactiveStatuses = []ReservationStatus{
	StatusCancelled,
	StatusRejected,
}

// DateOnly truncates t to midnight of its calendar day in its own location
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// UTCDate returns midnight UTC of the calendar day t falls on in its own location
func UTCDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
