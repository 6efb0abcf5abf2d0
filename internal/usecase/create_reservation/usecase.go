package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ShowBookingService/internal/availability"
	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
	promoRepo "github.com/m04kA/SMC-ShowBookingService/internal/infra/storage/promo"
	slotRepo "github.com/m04kA/SMC-ShowBookingService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ShowBookingService/internal/pricing"
	"github.com/m04kA/SMC-ShowBookingService/internal/usecase/quote_price"
	"github.com/m04kA/SMC-ShowBookingService/pkg/ptr"
)

// UseCase use case для создания бронирования
type UseCase struct {
	slotRepo        SlotRepository
	reservationRepo ReservationRepository
	promoRepo       PromoRepository
	quoter          PriceQuoter
	cache           SlotCache
	txManager       TransactionManager
	metrics         Metrics
	settings        Settings
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	reservationRepo ReservationRepository,
	promoRepo PromoRepository,
	quoter PriceQuoter,
	cache SlotCache,
	txManager TransactionManager,
	metrics Metrics,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.CustomerStatus == "" {
		settings.CustomerStatus = domain.StatusPendingApproval
	}
	return &UseCase{
		slotRepo:        slotRepo,
		reservationRepo: reservationRepo,
		promoRepo:       promoRepo,
		quoter:          quoter,
		cache:           cache,
		txManager:       txManager,
		metrics:         metrics,
		settings:        settings,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка слота, захват мест, списание подарочной карты и сохранение выполняются
// в одной сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: user=%d, slot=%d, package=%d, guests=%d, channel=%s",
		req.UserID, req.SlotID, req.PackageID, req.GuestCount, req.Channel)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var (
		result    *domain.Reservation
		slot      *domain.ShowSlot
		quote     *quote_price.Response
		available int
	)

	// 2. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Получаем слот с блокировкой строки
		var err error
		slot, err = uc.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("CreateReservation: slot id=%d not found", req.SlotID)
				return ErrSlotNotFound
			}
			uc.logger.Error("CreateReservation: failed to get slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %w", ErrInternal, err)
		}

		// 2.2. Определяем, как бронирование займёт места
		mode, err := uc.resolveSeating(*slot, req, now)
		if err != nil {
			uc.logger.Warn("CreateReservation: slot id=%d rejected: %v", slot.ID, err)
			return err
		}

		// 2.3. Пакет должен предлагаться на этом показе
		if !slot.OffersPackage(req.PackageID) {
			uc.logger.Warn("CreateReservation: package id=%d not offered for slot id=%d", req.PackageID, slot.ID)
			return ErrPackageNotOffered
		}

		// 2.4. Считаем стоимость (промокод блокируется до конца транзакции)
		quote, err = uc.quoter.Execute(txCtx, &quote_price.Request{
			PackageID:   req.PackageID,
			GuestCount:  req.GuestCount,
			AddOnIDs:    req.AddOnIDs,
			Merchandise: req.Merchandise,
			PromoCode:   req.PromoCode,
		})
		if err != nil {
			return mapQuoteError(err)
		}
		if quote.Promo != nil && !quote.Promo.Accepted {
			uc.logger.Warn("CreateReservation: promo code %q rejected: %s", quote.Promo.Code, quote.Promo.Message)
			return fmt.Errorf("%w: %s", ErrPromoRejected, quote.Promo.Message)
		}

		// 2.5. Занимаем места
		available, err = uc.acquire(txCtx, slot, req.GuestCount, mode)
		if err != nil {
			return err
		}

		// 2.6. Списываем баланс подарочной карты
		if err := uc.redeemGiftCard(txCtx, quote); err != nil {
			return err
		}

		// 2.7. Сохраняем бронирование
		reservation := buildReservation(req, slot, quote, mode.status, now)
		result, err = uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCapacityConflict) {
			uc.metrics.IncCapacityConflict("create_reservation")
		}
		return nil, err
	}

	// 3. Сбрасываем кэш календаря за месяц показа
	if err := uc.cache.InvalidateDate(ctx, slot.Date); err != nil {
		uc.logger.Warn("CreateReservation: failed to invalidate calendar cache: %v", err)
	}

	uc.metrics.IncReservationCreated(string(result.Channel), string(result.Status))
	uc.logger.Info("CreateReservation: created reservation id=%d ref=%s status=%s total=%s",
		result.ID, result.Reference, result.Status, result.Total.StringFixed(2))

	return &Response{
		Reservation:    result,
		Components:     quote.Components,
		AvailableSpots: available,
	}, nil
}

// seating режим занятия мест
type seating struct {
	status domain.ReservationStatus
	force  bool // захват без проверки вместимости (overbooking администратором)
	hold   bool // бронирование занимает места
}

func (uc *UseCase) resolveSeating(slot domain.ShowSlot, req *Request, now time.Time) (seating, error) {
	state := availability.Classify(slot, now)
	switch state {
	case availability.SlotPast:
		return seating{}, ErrSlotInPast
	case availability.SlotClosed:
		return seating{}, ErrSlotClosed
	}

	status := uc.settings.CustomerStatus
	if req.Channel == domain.ChannelAdmin {
		status = domain.StatusConfirmed
	}

	if state == availability.SlotOpen && availability.RemainingCapacity(slot) >= req.GuestCount {
		return seating{status: status, hold: true}, nil
	}

	// Мест не хватает
	if req.JoinWaitlist {
		return seating{status: domain.StatusWaitlisted}, nil
	}
	if req.Channel == domain.ChannelAdmin && uc.settings.AllowAdminOverbooking {
		return seating{status: status, hold: true, force: true}, nil
	}
	return seating{}, fmt.Errorf("%w: %d requested, %d left", ErrSlotFull, req.GuestCount, availability.RemainingCapacity(slot))
}

func (uc *UseCase) acquire(ctx context.Context, slot *domain.ShowSlot, seats int, mode seating) (int, error) {
	if !mode.hold {
		return availability.RemainingCapacity(*slot), nil
	}

	var (
		booked int
		err    error
	)
	if mode.force {
		uc.logger.Warn("CreateReservation: overbooking slot id=%d by admin, guests=%d", slot.ID, seats)
		booked, err = uc.slotRepo.ForceAcquire(ctx, slot.ID, seats)
	} else {
		booked, err = uc.slotRepo.Acquire(ctx, slot.ID, seats)
	}
	if err != nil {
		if errors.Is(err, domain.ErrCapacityConflict) {
			uc.logger.Warn("CreateReservation: capacity conflict on slot id=%d: %v", slot.ID, err)
			return 0, fmt.Errorf("%w: %v", ErrCapacityConflict, err)
		}
		uc.logger.Error("CreateReservation: failed to acquire seats on slot id=%d: %v", slot.ID, err)
		return 0, fmt.Errorf("%w: failed to acquire seats: %w", ErrInternal, err)
	}

	slot.BookedCount = booked
	return availability.RemainingCapacity(*slot), nil
}

func (uc *UseCase) redeemGiftCard(ctx context.Context, quote *quote_price.Response) error {
	promo := quote.AppliedPromo
	if promo == nil || promo.DiscountType != domain.DiscountGiftCard || quote.Discount == nil || !quote.Discount.IsPositive() {
		return nil
	}

	balance, err := uc.promoRepo.RedeemGiftCard(ctx, promo.ID, *quote.Discount)
	if err != nil {
		if errors.Is(err, promoRepo.ErrInsufficientBalance) {
			uc.logger.Warn("CreateReservation: gift card %s balance changed", promo.Code)
			return fmt.Errorf("%w: gift card balance is insufficient", ErrPromoRejected)
		}
		uc.logger.Error("CreateReservation: failed to redeem gift card %s: %v", promo.Code, err)
		return fmt.Errorf("%w: failed to redeem gift card: %w", ErrInternal, err)
	}

	uc.logger.Info("CreateReservation: gift card %s redeemed %s, balance %s",
		promo.Code, quote.Discount.StringFixed(2), balance.StringFixed(2))
	return nil
}

func buildReservation(
	req *Request,
	slot *domain.ShowSlot,
	quote *quote_price.Response,
	status domain.ReservationStatus,
	now time.Time,
) *domain.Reservation {
	res := &domain.Reservation{
		Reference:    uuid.NewString(),
		UserID:       req.UserID,
		ShowSlotID:   slot.ID,
		ShowDate:     slot.Date,
		ShowTime:     slot.StartTime,
		GuestCount:   req.GuestCount,
		Channel:      req.Channel,
		PackageID:    quote.Package.ID,
		PackageName:  quote.Package.Name,
		PackagePrice: quote.Package.PricePerGuest,
		AddOns:       quote.AddOns,
		Merchandise:  pricing.ActiveLines(quote.Merchandise),
		Subtotal:     quote.Subtotal,
		Total:        quote.Total,
		Status:       status,
		BookedAt:     now,
		UpdatedAt:    now,

		PackageMinPersons: quote.Package.MinPersons,
	}
	if quote.AppliedPromo != nil {
		res.PromoCode = ptr.Ptr(quote.AppliedPromo.Code)
		res.DiscountAmount = quote.Discount
	}
	if req.Notes != nil {
		if notes := strings.TrimSpace(*req.Notes); notes != "" {
			res.Notes = &notes
		}
	}
	return res
}

func mapQuoteError(err error) error {
	switch {
	case errors.Is(err, quote_price.ErrPackageNotFound):
		return ErrPackageNotFound
	case errors.Is(err, quote_price.ErrAddOnNotFound):
		return ErrAddOnNotFound
	case errors.Is(err, quote_price.ErrMerchandiseNotFound):
		return ErrMerchandiseNotFound
	case errors.Is(err, quote_price.ErrAddOnNotEligible):
		return fmt.Errorf("%w: %v", ErrAddOnNotEligible, err)
	case errors.Is(err, quote_price.ErrInvalidInput):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		return fmt.Errorf("%w: failed to quote price: %w", ErrInternal, err)
	}
}

func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userId must be positive", ErrInvalidInput)
	}
	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotId must be positive", ErrInvalidInput)
	}
	if req.PackageID <= 0 {
		return fmt.Errorf("%w: packageId must be positive", ErrInvalidInput)
	}
	if req.GuestCount < 1 || req.GuestCount > domain.MaxGuestsPerReservation {
		return fmt.Errorf("%w: guestCount must be between 1 and %d", ErrInvalidInput, domain.MaxGuestsPerReservation)
	}
	switch req.Channel {
	case domain.ChannelCustomer, domain.ChannelAdmin:
	case "":
		req.Channel = domain.ChannelCustomer
	default:
		return fmt.Errorf("%w: unknown channel %q", ErrInvalidInput, req.Channel)
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxReasonLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}
	return nil
}
