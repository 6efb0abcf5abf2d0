package get_calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ShowBookingService/internal/availability"
	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
)

const (
	minYear = 2000
	maxYear = 2100
)

// UseCase use case для получения календаря показов на месяц
type UseCase struct {
	slotRepo     SlotRepository
	cache        SlotCache
	loc          *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slotRepo SlotRepository, cache SlotCache, loc *time.Location, logger Logger) *UseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &UseCase{
		slotRepo:     slotRepo,
		cache:        cache,
		loc:          loc,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute строит календарь месяца: состояние каждого дня и каждого показа
// Состояния вычисляются на текущий момент, из кэша берутся только сырые слоты
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetCalendar: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	from := time.Date(req.Year, req.Month, 1, 0, 0, 0, 0, uc.loc)
	to := from.AddDate(0, 1, -1)

	slots, err := uc.loadMonth(ctx, req.Year, req.Month, from, to)
	if err != nil {
		return nil, err
	}

	days := availability.BuildCalendar(slots, from, to, now)

	resp := &Response{
		Year:  req.Year,
		Month: req.Month,
		Days:  make([]Day, len(days)),
	}
	for i, d := range days {
		resp.Days[i] = toDay(d)
	}

	uc.logger.Info("GetCalendar: %04d-%02d, %d slots", req.Year, int(req.Month), len(slots))
	return resp, nil
}

func (uc *UseCase) loadMonth(ctx context.Context, year int, month time.Month, from, to time.Time) ([]domain.ShowSlot, error) {
	cached, found, err := uc.cache.GetMonth(ctx, year, month)
	if err != nil {
		// Кэш не критичен, идём в БД
		uc.logger.Warn("GetCalendar: cache read failed for %04d-%02d: %v", year, int(month), err)
	}
	if found {
		return cached, nil
	}

	slots, err := uc.slotRepo.ListByPeriod(ctx, domain.SlotsFilter{From: from, To: to})
	if err != nil {
		uc.logger.Error("GetCalendar: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	if err := uc.cache.SetMonth(ctx, year, month, slots); err != nil {
		uc.logger.Warn("GetCalendar: cache write failed for %04d-%02d: %v", year, int(month), err)
	}

	return slots, nil
}

func toDay(d availability.DayView) Day {
	day := Day{
		Date:  d.Date,
		State: d.State,
		Slots: make([]Slot, len(d.Slots)),
	}
	for i, v := range d.Slots {
		day.Slots[i] = Slot{
			ID:             v.Slot.ID,
			StartTime:      v.Slot.StartTime,
			ShowType:       v.Slot.ShowType,
			State:          v.State,
			Capacity:       v.Slot.Capacity,
			AvailableSpots: v.Remaining,
			PackageIDs:     v.Slot.PackageIDs,
		}
	}
	return day
}

func validateRequest(req *Request) error {
	if req.Year < minYear || req.Year > maxYear {
		return fmt.Errorf("%w: year must be in %d..%d", ErrInvalidInput, minYear, maxYear)
	}
	if req.Month < time.January || req.Month > time.December {
		return fmt.Errorf("%w: month must be in 1..12", ErrInvalidInput)
	}
	return nil
}
