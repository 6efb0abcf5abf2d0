package reservations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ShowBookingService/internal/availability"
	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ShowBookingService/internal/infra/storage/reservation"
	slotRepo "github.com/m04kA/SMC-ShowBookingService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ShowBookingService/internal/lifecycle"
	"github.com/m04kA/SMC-ShowBookingService/internal/service/reservations/models"
)

// Service сервис для просмотра бронирований и смены их статуса администратором
type Service struct {
	reservationRepo  ReservationRepository
	slotRepo         SlotRepository
	promoRepo        PromoRepository
	authClient       AuthClient
	cache            SlotCache
	txManager        TransactionManager
	metrics          Metrics
	allowOverbooking bool
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	slotRepo SlotRepository,
	promoRepo PromoRepository,
	authClient AuthClient,
	cache SlotCache,
	txManager TransactionManager,
	metrics Metrics,
	allowOverbooking bool,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo:  reservationRepo,
		slotRepo:         slotRepo,
		promoRepo:        promoRepo,
		authClient:       authClient,
		cache:            cache,
		txManager:        txManager,
		metrics:          metrics,
		allowOverbooking: allowOverbooking,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь видит только своё бронирование, администратор - любое
func (s *Service) GetByID(ctx context.Context, id int64, userID int64, isAdmin bool) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d, admin=%t", id, userID, isAdmin)

	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !isAdmin && res.UserID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	now := s.timeProvider.Now()
	if isAdmin {
		return models.FromDomainReservationForAdmin(res, now), nil
	}
	return models.FromDomainReservation(res, now), nil
}

// GetUserReservations получает бронирования пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserReservations(ctx context.Context, req *models.GetUserReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetUserReservations: fetching reservations for user=%d, status=%v", req.UserID, req.Status)

	if !req.IsAdmin && req.RequesterID != req.UserID {
		s.logger.Warn("GetUserReservations: access denied for user=%d to reservations of user=%d", req.RequesterID, req.UserID)
		return nil, ErrAccessDenied
	}

	status, err := parseStatus(req.Status)
	if err != nil {
		s.logger.Warn("GetUserReservations: invalid status=%v for user=%d", req.Status, req.UserID)
		return nil, err
	}

	list, err := s.reservationRepo.GetByUserID(ctx, req.UserID, status)
	if err != nil {
		s.logger.Error("GetUserReservations: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserReservations: successfully fetched %d reservations for user=%d", len(list), req.UserID)
	return models.FromDomainReservationList(list, s.timeProvider.Now()), nil
}

// GetShowReservations получает бронирования показа (для администратора)
// По умолчанию отменённые и отклонённые бронирования не включаются
func (s *Service) GetShowReservations(ctx context.Context, req *models.GetShowReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetShowReservations: show=%d, status=%v, includeInactive=%t", req.ShowID, req.Status, req.IncludeInactive)

	status, err := parseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	if _, err := s.slotRepo.GetByID(ctx, req.ShowID); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("GetShowReservations: show id=%d not found", req.ShowID)
			return nil, ErrShowNotFound
		}
		s.logger.Error("GetShowReservations: failed to get show id=%d: %v", req.ShowID, err)
		return nil, fmt.Errorf("%w: GetShowReservations - repository error: %v", ErrInternal, err)
	}

	list, err := s.reservationRepo.GetBySlot(ctx, domain.ReservationsFilter{
		ShowSlotID:      req.ShowID,
		Status:          status,
		IncludeInactive: req.IncludeInactive,
	})
	if err != nil {
		s.logger.Error("GetShowReservations: repository error for show=%d: %v", req.ShowID, err)
		return nil, fmt.Errorf("%w: GetShowReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetShowReservations: successfully fetched %d reservations for show=%d", len(list), req.ShowID)
	return models.FromDomainReservationList(list, s.timeProvider.Now()), nil
}

// UpdateStatus меняет статус бронирования по таблице переходов администратора
// Изменение занятых мест выполняется в той же транзакции. При подтверждении запроса
// на смену даты можно перенести бронирование на другой показ (NewShowID).
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.ReservationResponse, error) {
	s.logger.Info("UpdateStatus: updating reservation id=%d to status=%s by admin=%d", id, req.Status, req.AdminID)

	to, err := domain.ParseReservationStatus(strings.TrimSpace(req.Status))
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%q for reservation id=%d", req.Status, id)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	now := s.timeProvider.Now()
	params := lifecycle.ActionParams{Reason: req.Reason, At: now}
	if to == domain.StatusCancelled || to == domain.StatusRejected {
		params.Actor = s.authClient.DisplayName(ctx, req.AdminID)
	}

	var (
		result        *domain.Reservation
		affectedDates []time.Time
	)

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := s.reservationRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				s.logger.Warn("UpdateStatus: reservation id=%d not found", id)
				return ErrReservationNotFound
			}
			s.logger.Error("UpdateStatus: repository error for reservation id=%d: %v", id, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %w", ErrInternal, err)
		}

		updated, err := lifecycle.Transition(*current, to, params)
		if err != nil {
			if errors.Is(err, domain.ErrActionNotPermitted) {
				s.logger.Warn("UpdateStatus: %v", err)
				return fmt.Errorf("%w: %w", ErrTransitionNotAllowed, err)
			}
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		affectedDates = append(affectedDates, current.ShowDate)

		if req.NewShowID != nil && *req.NewShowID != current.ShowSlotID {
			target, err := s.moveToShow(txCtx, current, &updated, *req.NewShowID, now)
			if err != nil {
				return err
			}
			affectedDates = append(affectedDates, target.Date)
		} else if err := s.applyDelta(txCtx, current.ShowSlotID, lifecycle.CapacityDelta(*current, updated)); err != nil {
			return err
		}

		// Возвращаем баланс подарочной карты
		if !updated.IsActive() && current.IsActive() && current.PromoCode != nil && current.DiscountAmount != nil {
			if err := s.promoRepo.RefundGiftCard(txCtx, *current.PromoCode, *current.DiscountAmount); err != nil {
				s.logger.Error("UpdateStatus: failed to refund gift card: %v", err)
				return fmt.Errorf("%w: UpdateStatus - refund gift card: %w", ErrInternal, err)
			}
		}

		result, err = s.reservationRepo.Update(txCtx, &updated)
		if err != nil {
			s.logger.Error("UpdateStatus: repository error for reservation id=%d: %v", id, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCapacityConflict) {
			s.metrics.IncCapacityConflict("admin_transition")
		}
		s.metrics.IncLifecycleAction("ADMIN_"+strings.ToUpper(string(to)), "rejected")
		return nil, err
	}

	for _, date := range affectedDates {
		if err := s.cache.InvalidateDate(ctx, date); err != nil {
			s.logger.Warn("UpdateStatus: failed to invalidate calendar cache: %v", err)
		}
	}

	s.metrics.IncLifecycleAction("ADMIN_"+strings.ToUpper(string(to)), "applied")
	s.logger.Info("UpdateStatus: successfully updated reservation id=%d to status=%s", id, result.Status)
	return models.FromDomainReservationForAdmin(result, now), nil
}

// Вспомогательные методы

// moveToShow переносит бронирование на другой показ: места освобождаются на старом и занимаются на новом
func (s *Service) moveToShow(
	ctx context.Context,
	current *domain.Reservation,
	updated *domain.Reservation,
	showID int64,
	now time.Time,
) (*domain.ShowSlot, error) {
	if current.Status != domain.StatusPendingDateChange || updated.Status != domain.StatusConfirmed {
		return nil, fmt.Errorf("%w: show can be changed only when confirming a date change request", ErrInvalidInput)
	}

	target, err := s.slotRepo.GetByID(ctx, showID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("UpdateStatus: target show id=%d not found", showID)
			return nil, ErrShowNotFound
		}
		return nil, fmt.Errorf("%w: UpdateStatus - get target show: %w", ErrInternal, err)
	}
	if state := availability.Classify(*target, now); state == availability.SlotPast || state == availability.SlotClosed {
		s.logger.Warn("UpdateStatus: target show id=%d is %s", showID, state)
		return nil, fmt.Errorf("%w: target show is %s", ErrInvalidInput, state)
	}

	if lifecycle.HoldsCapacity(current.Status) {
		if err := s.applyDelta(ctx, current.ShowSlotID, -current.GuestCount); err != nil {
			return nil, err
		}
	}
	if lifecycle.HoldsCapacity(updated.Status) {
		if err := s.applyDelta(ctx, target.ID, updated.GuestCount); err != nil {
			return nil, err
		}
	}

	updated.ShowSlotID = target.ID
	updated.ShowDate = target.Date
	updated.ShowTime = target.StartTime

	s.logger.Info("UpdateStatus: reservation id=%d moved from show id=%d to show id=%d", current.ID, current.ShowSlotID, target.ID)
	return target, nil
}

func (s *Service) applyDelta(ctx context.Context, slotID int64, delta int) error {
	var err error
	switch {
	case delta > 0 && s.allowOverbooking:
		_, err = s.slotRepo.ForceAcquire(ctx, slotID, delta)
	case delta > 0:
		_, err = s.slotRepo.Acquire(ctx, slotID, delta)
	case delta < 0:
		_, err = s.slotRepo.Release(ctx, slotID, -delta)
	default:
		return nil
	}
	if err == nil {
		return nil
	}

	if errors.Is(err, domain.ErrCapacityConflict) {
		s.logger.Warn("UpdateStatus: capacity conflict on show id=%d: %v", slotID, err)
		return fmt.Errorf("%w: %v", ErrCapacityConflict, err)
	}
	if errors.Is(err, slotRepo.ErrSlotNotFound) {
		return ErrShowNotFound
	}
	s.logger.Error("UpdateStatus: failed to change seats on show id=%d by %d: %v", slotID, delta, err)
	return fmt.Errorf("%w: UpdateStatus - change seats: %w", ErrInternal, err)
}

func parseStatus(raw *string) (*domain.ReservationStatus, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	status, err := domain.ParseReservationStatus(*raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}
	return &status, nil
}
