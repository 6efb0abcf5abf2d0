package reservation_action

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Update(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ShowSlot, error)
	Acquire(ctx context.Context, id int64, seats int) (int, error)
	Release(ctx context.Context, id int64, seats int) (int, error)
}

// PromoRepository интерфейс репозитория промокодов
type PromoRepository interface {
	RefundGiftCard(ctx context.Context, code string, amount decimal.Decimal) error
}

// AuthClient клиент сервиса учётных записей
type AuthClient interface {
	DisplayName(ctx context.Context, userID int64) string
}

// SlotCache кэш слотов по месяцам
type SlotCache interface {
	InvalidateDate(ctx context.Context, date time.Time) error
}

// Metrics бизнес-метрики
type Metrics interface {
	IncLifecycleAction(action, outcome string)
	IncCapacityConflict(operation string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
