package shows

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.ShowSlot) (*domain.ShowSlot, error)
	GetByID(ctx context.Context, id int64) (*domain.ShowSlot, error)
	ListByPeriod(ctx context.Context, filter domain.SlotsFilter) ([]domain.ShowSlot, error)
	SetManuallyClosed(ctx context.Context, id int64, closed bool) (*domain.ShowSlot, error)
	Delete(ctx context.Context, id int64) error
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	CountActiveBySlot(ctx context.Context, slotID int64) (int, error)
}

// SlotCache кэш слотов по месяцам
type SlotCache interface {
	InvalidateDate(ctx context.Context, date time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
