package create_reservation

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
	"github.com/m04kA/SMC-ShowBookingService/internal/usecase/quote_price"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ShowSlot, error)
	Acquire(ctx context.Context, id int64, seats int) (int, error)
	ForceAcquire(ctx context.Context, id int64, seats int) (int, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
}

// PromoRepository интерфейс репозитория промокодов
type PromoRepository interface {
	RedeemGiftCard(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error)
}

// PriceQuoter расчёт стоимости (use case quote_price)
type PriceQuoter interface {
	Execute(ctx context.Context, req *quote_price.Request) (*quote_price.Response, error)
}

// SlotCache кэш слотов по месяцам
type SlotCache interface {
	InvalidateDate(ctx context.Context, date time.Time) error
}

// Metrics бизнес-метрики
type Metrics interface {
	IncReservationCreated(channel, status string)
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
