package get_calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	ListByPeriod(ctx context.Context, filter domain.SlotsFilter) ([]domain.ShowSlot, error)
}

// SlotCache кэш слотов по месяцам
type SlotCache interface {
	GetMonth(ctx context.Context, year int, month time.Month) ([]domain.ShowSlot, bool, error)
	SetMonth(ctx context.Context, year int, month time.Month, slots []domain.ShowSlot) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
