package get_calendar

import (
	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
	getCalendar "github.com/m04kA/SMC-ShowBookingService/internal/usecase/get_calendar"
)

// CalendarResponse HTTP response model
type CalendarResponse struct {
	Year  int           `json:"year"`
	Month int           `json:"month"`
	Days  []DayResponse `json:"days"`
}

// DayResponse день календаря
type DayResponse struct {
	Date  string         `json:"date"` // "2025-10-15"
	State string         `json:"state"`
	Shows []ShowResponse `json:"shows"`
}

// ShowResponse показ в дне календаря
type ShowResponse struct {
	ID             int64   `json:"id"`
	StartTime      string  `json:"startTime"`
	ShowType       string  `json:"showType"`
	State          string  `json:"state"`
	Capacity       int     `json:"capacity"`
	AvailableSpots int     `json:"availableSpots"`
	PackageIDs     []int64 `json:"packageIds"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getCalendar.Response) *CalendarResponse {
	out := &CalendarResponse{
		Year:  resp.Year,
		Month: int(resp.Month),
		Days:  make([]DayResponse, 0, len(resp.Days)),
	}

	for _, d := range resp.Days {
		day := DayResponse{
			Date:  d.Date.Format(domain.DateFormat),
			State: string(d.State),
			Shows: make([]ShowResponse, 0, len(d.Slots)),
		}
		for _, s := range d.Slots {
			packageIDs := s.PackageIDs
			if packageIDs == nil {
				packageIDs = []int64{}
			}
			day.Shows = append(day.Shows, ShowResponse{
				ID:             s.ID,
				StartTime:      s.StartTime.String(),
				ShowType:       string(s.ShowType),
				State:          string(s.State),
				Capacity:       s.Capacity,
				AvailableSpots: s.AvailableSpots,
				PackageIDs:     packageIDs,
			})
		}
		out.Days = append(out.Days, day)
	}

	return out
}
