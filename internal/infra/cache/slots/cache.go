package slots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
	"github.com/m04kA/SMC-ShowBookingService/pkg/types"
)

const keyPrefix = "show_slots:month:"

var (
	// ErrCache возвращается при ошибке обращения к redis
	ErrCache = errors.New("slots.cache: redis error")

	// ErrDecode возвращается, когда закэшированное значение не удалось разобрать
	ErrDecode = errors.New("slots.cache: failed to decode cached value")
)

// slotEntry формат слота в кэше
// Кэшируются сырые данные слота, а не вычисленные состояния: состояние зависит от текущего времени
type slotEntry struct {
	ID               int64            `json:"id"`
	Date             string           `json:"date"`
	StartTime        types.TimeString `json:"startTime"`
	Capacity         int              `json:"capacity"`
	BookedCount      int              `json:"bookedCount"`
	IsManuallyClosed bool             `json:"isManuallyClosed"`
	ShowType         domain.ShowType  `json:"showType"`
	PackageIDs       []int64          `json:"packageIds"`
}

// Cache кэш слотов по месяцам в redis
type Cache struct {
	client redis.Cmdable
	ttl    time.Duration
	loc    *time.Location
}

// NewCache создает кэш; loc должен совпадать с зоной репозитория слотов
func NewCache(client redis.Cmdable, ttl time.Duration, loc *time.Location) *Cache {
	if loc == nil {
		loc = time.UTC
	}
	return &Cache{client: client, ttl: ttl, loc: loc}
}

// GetMonth возвращает слоты месяца; found=false при промахе
func (c *Cache) GetMonth(ctx context.Context, year int, month time.Month) ([]domain.ShowSlot, bool, error) {
	raw, err := c.client.Get(ctx, MonthKey(year, month)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get: %v", ErrCache, err)
	}

	slots, err := decode(raw, c.loc)
	if err != nil {
		return nil, false, err
	}
	return slots, true, nil
}

// SetMonth сохраняет слоты месяца
func (c *Cache) SetMonth(ctx context.Context, year int, month time.Month, slots []domain.ShowSlot) error {
	raw, err := encode(slots)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, MonthKey(year, month), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set: %v", ErrCache, err)
	}
	return nil
}

// InvalidateDate сбрасывает месяц, которому принадлежит date
func (c *Cache) InvalidateDate(ctx context.Context, date time.Time) error {
	if err := c.client.Del(ctx, MonthKey(date.Year(), date.Month())).Err(); err != nil {
		return fmt.Errorf("%w: del: %v", ErrCache, err)
	}
	return nil
}

// MonthKey ключ месяца в redis
func MonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%s%04d-%02d", keyPrefix, year, int(month))
}

func encode(slots []domain.ShowSlot) ([]byte, error) {
	entries := make([]slotEntry, len(slots))
	for i, s := range slots {
		entries[i] = slotEntry{
			ID:               s.ID,
			Date:             s.Date.Format(domain.DateFormat),
			StartTime:        s.StartTime,
			Capacity:         s.Capacity,
			BookedCount:      s.BookedCount,
			IsManuallyClosed: s.IsManuallyClosed,
			ShowType:         s.ShowType,
			PackageIDs:       s.PackageIDs,
		}
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %v", ErrCache, err)
	}
	return raw, nil
}

func decode(raw []byte, loc *time.Location) ([]domain.ShowSlot, error) {
	var entries []slotEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	slots := make([]domain.ShowSlot, len(entries))
	for i, e := range entries {
		date, err := time.ParseInLocation(domain.DateFormat, e.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: slot %d date: %v", ErrDecode, e.ID, err)
		}
		slots[i] = domain.ShowSlot{
			ID:               e.ID,
			Date:             date,
			StartTime:        e.StartTime,
			Capacity:         e.Capacity,
			BookedCount:      e.BookedCount,
			IsManuallyClosed: e.IsManuallyClosed,
			ShowType:         e.ShowType,
			PackageIDs:       e.PackageIDs,
		}
	}
	return slots, nil
}
