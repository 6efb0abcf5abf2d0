package shows

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
	slotRepo "github.com/m04kA/SMC-ShowBookingService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ShowBookingService/internal/service/shows/models"
	"github.com/m04kA/SMC-ShowBookingService/pkg/types"
)

const (
	statusOpen   = "open"
	statusClosed = "closed"

	maxListDays = 366
)

// Service сервис администрирования показов
type Service struct {
	slotRepo        SlotRepository
	reservationRepo ReservationRepository
	cache           SlotCache
	txManager       TransactionManager
	loc             *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса показов
func NewService(
	slotRepo SlotRepository,
	reservationRepo ReservationRepository,
	cache SlotCache,
	txManager TransactionManager,
	loc *time.Location,
	logger Logger,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		slotRepo:        slotRepo,
		reservationRepo: reservationRepo,
		cache:           cache,
		txManager:       txManager,
		loc:             loc,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Create создает показ
// Пустой тип показа заменяется на regular при создании
func (s *Service) Create(ctx context.Context, req *models.CreateShowRequest) (*models.ShowResponse, error) {
	s.logger.Info("CreateShow: date=%s, time=%s, capacity=%d, type=%q", req.Date, req.StartTime, req.Capacity, req.ShowType)

	slot, err := s.toDomainSlot(req)
	if err != nil {
		s.logger.Warn("CreateShow: validation failed: %v", err)
		return nil, err
	}

	now := s.timeProvider.Now()
	if slot.StartsAt().Before(now) {
		s.logger.Warn("CreateShow: show %s %s is in the past", req.Date, req.StartTime)
		return nil, fmt.Errorf("%w: show must start in the future", ErrInvalidInput)
	}

	created, err := s.slotRepo.Create(ctx, slot)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotExists) {
			s.logger.Warn("CreateShow: show at %s %s already exists", req.Date, req.StartTime)
			return nil, ErrShowExists
		}
		s.logger.Error("CreateShow: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateShow - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, created.Date)

	s.logger.Info("CreateShow: successfully created show id=%d", created.ID)
	return models.FromDomainShow(created, now), nil
}

// GetByID получает показ по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ShowResponse, error) {
	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("GetShow", id, err)
	}
	return models.FromDomainShow(slot, s.timeProvider.Now()), nil
}

// List получает показы за период [From, To]
func (s *Service) List(ctx context.Context, req *models.ListShowsRequest) (*models.ShowListResponse, error) {
	s.logger.Info("ListShows: period=%s to %s", req.From, req.To)

	from, err := time.ParseInLocation(domain.DateFormat, req.From, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: from must be YYYY-MM-DD", ErrInvalidInput)
	}
	to, err := time.ParseInLocation(domain.DateFormat, req.To, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: to must be YYYY-MM-DD", ErrInvalidInput)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: to must not be before from", ErrInvalidInput)
	}
	if to.Sub(from) > maxListDays*24*time.Hour {
		return nil, fmt.Errorf("%w: period must not exceed %d days", ErrInvalidInput, maxListDays)
	}

	slots, err := s.slotRepo.ListByPeriod(ctx, domain.SlotsFilter{From: from, To: to})
	if err != nil {
		s.logger.Error("ListShows: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListShows - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListShows: successfully fetched %d shows", len(slots))
	return models.FromDomainShowList(slots, s.timeProvider.Now()), nil
}

// SetStatus открывает или закрывает показ для бронирования
func (s *Service) SetStatus(ctx context.Context, id int64, req *models.UpdateShowStatusRequest) (*models.ShowResponse, error) {
	s.logger.Info("SetShowStatus: show id=%d, status=%s", id, req.Status)

	var closed bool
	switch strings.ToLower(strings.TrimSpace(req.Status)) {
	case statusOpen:
		closed = false
	case statusClosed:
		closed = true
	default:
		s.logger.Warn("SetShowStatus: invalid status=%q", req.Status)
		return nil, fmt.Errorf("%w: status must be %q or %q", ErrInvalidInput, statusOpen, statusClosed)
	}

	slot, err := s.slotRepo.SetManuallyClosed(ctx, id, closed)
	if err != nil {
		return nil, s.mapRepoError("SetShowStatus", id, err)
	}

	s.invalidate(ctx, slot.Date)

	s.logger.Info("SetShowStatus: show id=%d closed=%t", id, closed)
	return models.FromDomainShow(slot, s.timeProvider.Now()), nil
}

// Delete удаляет показ, если на него нет активных бронирований
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("DeleteShow: show id=%d", id)

	var date time.Time
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Блокируем слот, чтобы параллельно не создали бронирование
		slot, err := s.slotRepo.GetByID(txCtx, id)
		if err != nil {
			return s.mapRepoError("DeleteShow", id, err)
		}
		date = slot.Date

		active, err := s.reservationRepo.CountActiveBySlot(txCtx, id)
		if err != nil {
			s.logger.Error("DeleteShow: failed to count reservations for show id=%d: %v", id, err)
			return fmt.Errorf("%w: DeleteShow - repository error: %v", ErrInternal, err)
		}
		if active > 0 {
			s.logger.Warn("DeleteShow: show id=%d has %d active reservations", id, active)
			return fmt.Errorf("%w: %d active reservations", ErrShowHasReservations, active)
		}

		if err := s.slotRepo.Delete(txCtx, id); err != nil {
			return s.mapRepoError("DeleteShow", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, date)

	s.logger.Info("DeleteShow: successfully deleted show id=%d", id)
	return nil
}

// Вспомогательные методы

func (s *Service) toDomainSlot(req *models.CreateShowRequest) (*domain.ShowSlot, error) {
	date, err := time.ParseInLocation(domain.DateFormat, req.Date, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	startTime, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: startTime must be HH:MM", ErrInvalidInput)
	}

	if req.Capacity < domain.MinCapacity || req.Capacity > domain.MaxCapacity {
		return nil, fmt.Errorf("%w: capacity must be between %d and %d", ErrInvalidInput, domain.MinCapacity, domain.MaxCapacity)
	}

	showType, err := domain.ResolveShowType(strings.TrimSpace(req.ShowType))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	packageIDs := make([]int64, 0, len(req.PackageIDs))
	seen := make(map[int64]struct{}, len(req.PackageIDs))
	for _, id := range req.PackageIDs {
		if id <= 0 {
			return nil, fmt.Errorf("%w: package id must be positive", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		packageIDs = append(packageIDs, id)
	}

	return &domain.ShowSlot{
		Date:       date,
		StartTime:  startTime,
		Capacity:   req.Capacity,
		ShowType:   showType,
		PackageIDs: packageIDs,
	}, nil
}

func (s *Service) mapRepoError(op string, id int64, err error) error {
	if errors.Is(err, slotRepo.ErrSlotNotFound) {
		s.logger.Warn("%s: show id=%d not found", op, id)
		return ErrShowNotFound
	}
	s.logger.Error("%s: repository error for show id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

func (s *Service) invalidate(ctx context.Context, date time.Time) {
	if err := s.cache.InvalidateDate(ctx, date); err != nil {
		s.logger.Warn("failed to invalidate calendar cache for %s: %v", date.Format(domain.DateFormat), err)
	}
}
