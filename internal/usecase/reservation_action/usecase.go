package reservation_action

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ShowBookingService/internal/infra/storage/reservation"
	slotRepo "github.com/m04kA/SMC-ShowBookingService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ShowBookingService/internal/lifecycle"
	"github.com/m04kA/SMC-ShowBookingService/internal/pricing"
)

// UseCase use case для действий клиента над своим бронированием
type UseCase struct {
	reservationRepo ReservationRepository
	slotRepo        SlotRepository
	promoRepo       PromoRepository
	authClient      AuthClient
	cache           SlotCache
	txManager       TransactionManager
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	slotRepo SlotRepository,
	promoRepo PromoRepository,
	authClient AuthClient,
	cache SlotCache,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		slotRepo:        slotRepo,
		promoRepo:       promoRepo,
		authClient:      authClient,
		cache:           cache,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет действие клиента
// Изменение бронирования и изменение занятых мест выполняются в одной транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReservationAction: reservation=%d, user=%d, action=%s", req.ReservationID, req.UserID, req.Action)

	// 1. Валидация входных данных
	if req.ReservationID <= 0 || req.UserID <= 0 {
		return nil, fmt.Errorf("%w: reservation and user ids must be positive", ErrInvalidInput)
	}
	action, err := lifecycle.ParseAction(req.Action)
	if err != nil {
		uc.logger.Warn("ReservationAction: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := uc.timeProvider.Now()
	params := lifecycle.ActionParams{
		NewGuestCount: req.NewGuestCount,
		Reason:        req.Reason,
		RequestText:   req.RequestText,
		At:            now,
	}

	// 2. Имя актора нужно только для журнала отмены
	if action == lifecycle.ActionCancel {
		params.Actor = uc.authClient.DisplayName(ctx, req.UserID)
	}

	var (
		result *domain.Reservation
		slot   *domain.ShowSlot
	)

	// 3. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Получаем бронирование с блокировкой
		current, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				uc.logger.Warn("ReservationAction: reservation id=%d not found", req.ReservationID)
				return ErrReservationNotFound
			}
			uc.logger.Error("ReservationAction: failed to get reservation id=%d: %v", req.ReservationID, err)
			return fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
		}

		// 3.2. Действия доступны только владельцу
		if current.UserID != req.UserID {
			uc.logger.Warn("ReservationAction: user id=%d is not the owner of reservation id=%d", req.UserID, current.ID)
			return ErrForbidden
		}

		// 3.3. Получаем слот
		slot, err = uc.slotRepo.GetByID(txCtx, current.ShowSlotID)
		if err != nil {
			uc.logger.Error("ReservationAction: failed to get slot id=%d: %v", current.ShowSlotID, err)
			return fmt.Errorf("%w: failed to get slot: %w", ErrInternal, err)
		}

		// 3.4. Применяем действие
		updated, err := lifecycle.ApplyAction(*current, slot.Date, action, params)
		if err != nil {
			return uc.mapActionError(current, action, err)
		}

		if action == lifecycle.ActionModifyGuests {
			// Пороги пакета и дополнений проверяются по новому числу гостей
			updated, err = pricing.Reprice(updated)
			if err != nil {
				uc.logger.Warn("ReservationAction: reservation id=%d cannot be repriced for %d guests: %v",
					current.ID, updated.GuestCount, err)
				return fmt.Errorf("%w: %w", ErrInvalidInput, err)
			}
		}

		// 3.5. Меняем количество занятых мест
		if err := uc.applyCapacityDelta(txCtx, slot.ID, lifecycle.CapacityDelta(*current, updated)); err != nil {
			return err
		}

		// 3.6. Возвращаем на подарочную карту списанную и больше не используемую сумму
		if refund := giftCardRefund(current, &updated); refund.IsPositive() {
			if err := uc.promoRepo.RefundGiftCard(txCtx, *current.PromoCode, refund); err != nil {
				uc.logger.Error("ReservationAction: failed to refund gift card: %v", err)
				return fmt.Errorf("%w: failed to refund gift card: %w", ErrInternal, err)
			}
		}

		// 3.7. Сохраняем
		result, err = uc.reservationRepo.Update(txCtx, &updated)
		if err != nil {
			uc.logger.Error("ReservationAction: failed to update reservation id=%d: %v", current.ID, err)
			return fmt.Errorf("%w: failed to update reservation: %w", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		uc.metrics.IncLifecycleAction(string(action), outcome(err))
		if errors.Is(err, ErrCapacityConflict) {
			uc.metrics.IncCapacityConflict("reservation_action")
		}
		return nil, err
	}

	// 4. Сбрасываем кэш календаря
	if err := uc.cache.InvalidateDate(ctx, slot.Date); err != nil {
		uc.logger.Warn("ReservationAction: failed to invalidate calendar cache: %v", err)
	}

	uc.metrics.IncLifecycleAction(string(action), "applied")
	uc.logger.Info("ReservationAction: reservation id=%d action=%s applied, status=%s guests=%d",
		result.ID, action, result.Status, result.GuestCount)

	return &Response{
		Reservation:      result,
		PermittedActions: lifecycle.PermittedActions(*result, slot.Date, now).List(),
	}, nil
}

func (uc *UseCase) applyCapacityDelta(ctx context.Context, slotID int64, delta int) error {
	var err error
	switch {
	case delta > 0:
		_, err = uc.slotRepo.Acquire(ctx, slotID, delta)
	case delta < 0:
		_, err = uc.slotRepo.Release(ctx, slotID, -delta)
	default:
		return nil
	}
	if err == nil {
		return nil
	}

	if errors.Is(err, domain.ErrCapacityConflict) {
		uc.logger.Warn("ReservationAction: capacity conflict on slot id=%d: %v", slotID, err)
		return fmt.Errorf("%w: %v", ErrCapacityConflict, err)
	}
	if errors.Is(err, slotRepo.ErrSlotNotFound) {
		return fmt.Errorf("%w: slot %d disappeared", ErrInternal, slotID)
	}
	uc.logger.Error("ReservationAction: failed to change seats on slot id=%d by %d: %v", slotID, delta, err)
	return fmt.Errorf("%w: failed to change seats: %w", ErrInternal, err)
}

// giftCardRefund сумма возврата: вся скидка при отмене, разница при уменьшении скидки
// Для кодов, не являющихся подарочными картами, репозиторий возврат игнорирует
func giftCardRefund(before, after *domain.Reservation) decimal.Decimal {
	if before.PromoCode == nil || before.DiscountAmount == nil {
		return decimal.Zero
	}
	if after.Status == domain.StatusCancelled {
		return *before.DiscountAmount
	}
	if after.DiscountAmount == nil {
		return *before.DiscountAmount
	}
	return before.DiscountAmount.Sub(*after.DiscountAmount)
}

func (uc *UseCase) mapActionError(res *domain.Reservation, action lifecycle.Action, err error) error {
	var notPermitted *domain.ActionNotPermittedError
	if errors.As(err, &notPermitted) {
		uc.logger.Warn("ReservationAction: reservation id=%d status=%s: %v", res.ID, res.Status, err)
		return fmt.Errorf("%w: %w", ErrActionNotPermitted, err)
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		uc.logger.Warn("ReservationAction: %s rejected: %v", action, err)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	uc.logger.Error("ReservationAction: %s failed: %v", action, err)
	return fmt.Errorf("%w: %v", ErrInternal, err)
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrActionNotPermitted):
		return "not_permitted"
	case errors.Is(err, ErrCapacityConflict):
		return "capacity_conflict"
	case errors.Is(err, ErrInternal):
		return "error"
	default:
		return "rejected"
	}
}
