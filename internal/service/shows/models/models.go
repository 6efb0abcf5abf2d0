package models

import (
	"time"

	"github.com/m04kA/SMC-ShowBookingService/internal/availability"
	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
)

// Request модели

// CreateShowRequest запрос на создание показа
type CreateShowRequest struct {
	Date       string  `json:"date"`      // "2025-10-15"
	StartTime  string  `json:"startTime"` // "19:30"
	Capacity   int     `json:"capacity"`
	ShowType   string  `json:"showType,omitempty"` // пусто = regular
	PackageIDs []int64 `json:"packageIds"`
}

// UpdateShowStatusRequest запрос на открытие/закрытие показа
type UpdateShowStatusRequest struct {
	Status string `json:"status"` // "open" | "closed"
}

// ListShowsRequest запрос на список показов за период
type ListShowsRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Response модели

// ShowResponse ответ с данными показа
type ShowResponse struct {
	ID               int64     `json:"id"`
	Date             string    `json:"date"`
	StartTime        string    `json:"startTime"`
	Capacity         int       `json:"capacity"`
	BookedCount      int       `json:"bookedCount"`
	AvailableSpots   int       `json:"availableSpots"`
	State            string    `json:"state"`
	ShowType         string    `json:"showType"`
	PackageIDs       []int64   `json:"packageIds"`
	IsManuallyClosed bool      `json:"isManuallyClosed"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ShowListResponse ответ со списком показов
type ShowListResponse struct {
	Shows []ShowResponse `json:"shows"`
}

// Методы конвертации

// FromDomainShow конвертирует domain модель в DTO, состояние вычисляется на момент now
func FromDomainShow(s *domain.ShowSlot, now time.Time) *ShowResponse {
	if s == nil {
		return nil
	}

	packageIDs := s.PackageIDs
	if packageIDs == nil {
		packageIDs = []int64{}
	}

	return &ShowResponse{
		ID:               s.ID,
		Date:             s.Date.Format(domain.DateFormat),
		StartTime:        s.StartTime.String(),
		Capacity:         s.Capacity,
		BookedCount:      s.BookedCount,
		AvailableSpots:   availability.RemainingCapacity(*s),
		State:            string(availability.Classify(*s, now)),
		ShowType:         string(s.ShowType),
		PackageIDs:       packageIDs,
		IsManuallyClosed: s.IsManuallyClosed,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

// FromDomainShowList конвертирует список domain моделей в DTO
func FromDomainShowList(slots []domain.ShowSlot, now time.Time) *ShowListResponse {
	resp := &ShowListResponse{
		Shows: make([]ShowResponse, 0, len(slots)),
	}
	for i := range slots {
		resp.Shows = append(resp.Shows, *FromDomainShow(&slots[i], now))
	}
	return resp
}
