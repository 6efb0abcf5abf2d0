package slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
)

// NopCache используется, когда redis выключен в конфигурации
type NopCache struct{}

func (NopCache) GetMonth(context.Context, int, time.Month) ([]domain.ShowSlot, bool, error) {
	return nil, false, nil
}

func (NopCache) SetMonth(context.Context, int, time.Month, []domain.ShowSlot) error {
	return nil
}

func (NopCache) InvalidateDate(context.Context, time.Time) error {
	return nil
}
