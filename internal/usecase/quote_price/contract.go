package quote_price

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
)

// CatalogRepository интерфейс справочника пакетов, дополнений и товаров
type CatalogRepository interface {
	GetPackageByID(ctx context.Context, id int64) (*domain.PackageOption, error)
	GetAddOnsByIDs(ctx context.Context, ids []int64) ([]domain.SpecialAddOn, error)
	GetMerchandiseByIDs(ctx context.Context, ids []int64) ([]domain.MerchandiseItem, error)
}

// PromoRepository интерфейс репозитория промокодов
type PromoRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.PromoCode, error)
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
