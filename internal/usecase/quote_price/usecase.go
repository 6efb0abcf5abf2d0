package quote_price

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-ShowBookingService/internal/infra/storage/catalog"
	promoRepo "github.com/m04kA/SMC-ShowBookingService/internal/infra/storage/promo"
	"github.com/m04kA/SMC-ShowBookingService/internal/pricing"
)

// UseCase use case для расчёта стоимости бронирования без сохранения
type UseCase struct {
	catalogRepo  CatalogRepository
	promoRepo    PromoRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(catalogRepo CatalogRepository, promoRepo PromoRepository, logger Logger) *UseCase {
	return &UseCase{
		catalogRepo:  catalogRepo,
		promoRepo:    promoRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute собирает снимок пакета, дополнений и товаров и считает стоимость
// Может вызываться внутри транзакции: тогда промокод блокируется до её завершения
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("QuotePrice: validation failed: %v", err)
		return nil, err
	}

	// 1. Пакет
	pkg, err := uc.catalogRepo.GetPackageByID(ctx, req.PackageID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrPackageNotFound) {
			uc.logger.Warn("QuotePrice: package id=%d not found", req.PackageID)
			return nil, ErrPackageNotFound
		}
		uc.logger.Error("QuotePrice: failed to get package id=%d: %v", req.PackageID, err)
		return nil, fmt.Errorf("%w: failed to get package: %w", ErrInternal, err)
	}

	// 2. Дополнения
	addOns, err := uc.catalogRepo.GetAddOnsByIDs(ctx, uniqueIDs(req.AddOnIDs))
	if err != nil {
		if errors.Is(err, catalogRepo.ErrAddOnNotFound) {
			uc.logger.Warn("QuotePrice: add-ons %v not found", req.AddOnIDs)
			return nil, ErrAddOnNotFound
		}
		uc.logger.Error("QuotePrice: failed to get add-ons: %v", err)
		return nil, fmt.Errorf("%w: failed to get add-ons: %w", ErrInternal, err)
	}

	// 3. Товары
	lines, err := uc.resolveMerchandise(ctx, req.Merchandise)
	if err != nil {
		return nil, err
	}

	// 4. Расчёт
	now := uc.timeProvider.Now()
	var applied *domain.PromoCode
	lookup := func(code string) (*domain.PromoCode, error) {
		promo, err := uc.promoRepo.GetByCode(ctx, code)
		if errors.Is(err, promoRepo.ErrPromoNotFound) {
			return nil, domain.ErrPromoCodeNotFound
		}
		if err != nil {
			return nil, err
		}
		if promo.IsExpired(now) {
			return nil, domain.ErrPromoCodeExpired
		}
		applied = promo
		return promo, nil
	}

	quote, err := pricing.BuildQuote(pricing.QuoteInput{
		Package:     *pkg,
		GuestCount:  req.GuestCount,
		AddOns:      addOns,
		Merchandise: lines,
		PromoCode:   req.PromoCode,
	}, lookup)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAddOnNotEligible):
			uc.logger.Warn("QuotePrice: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrAddOnNotEligible, err)
		case errors.Is(err, domain.ErrInvalidInput):
			uc.logger.Warn("QuotePrice: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		default:
			uc.logger.Error("QuotePrice: failed to build quote: %v", err)
			return nil, fmt.Errorf("%w: failed to build quote: %w", ErrInternal, err)
		}
	}

	resp := &Response{
		Package:     *pkg,
		AddOns:      toSelected(addOns),
		Merchandise: lines,
		Subtotal:    quote.Subtotal,
		Discount:    quote.Discount,
		Total:       quote.Total,
		Components:  quote.Components,
	}
	if quote.Promo != nil {
		resp.Promo = &PromoInfo{
			Code:         quote.Promo.Code,
			Accepted:     quote.Promo.Accepted,
			DiscountType: quote.Promo.DiscountType,
			Message:      quote.Promo.Message,
		}
		if quote.Promo.Accepted {
			resp.AppliedPromo = applied
		}
	}

	uc.logger.Info("QuotePrice: package=%d guests=%d subtotal=%s total=%s",
		pkg.ID, req.GuestCount, quote.Subtotal.StringFixed(2), quote.Total.StringFixed(2))

	return resp, nil
}

// resolveMerchandise объединяет повторяющиеся позиции и отбрасывает позиции с нулевым количеством
func (uc *UseCase) resolveMerchandise(ctx context.Context, requested []MerchandiseLine) ([]domain.OrderedMerchandiseItem, error) {
	quantities := make(map[int64]int)
	for _, line := range requested {
		quantities[line.ItemID] += line.Quantity
	}

	ids := make([]int64, 0, len(quantities))
	for id, qty := range quantities {
		if qty > 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	items, err := uc.catalogRepo.GetMerchandiseByIDs(ctx, ids)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrMerchandiseNotFound) {
			uc.logger.Warn("QuotePrice: merchandise %v not found", ids)
			return nil, ErrMerchandiseNotFound
		}
		uc.logger.Error("QuotePrice: failed to get merchandise: %v", err)
		return nil, fmt.Errorf("%w: failed to get merchandise: %w", ErrInternal, err)
	}

	lines := make([]domain.OrderedMerchandiseItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, domain.OrderedMerchandiseItem{
			ItemID:    item.ID,
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  quantities[item.ID],
		})
	}
	return lines, nil
}

func toSelected(addOns []domain.SpecialAddOn) []domain.SelectedAddOn {
	out := make([]domain.SelectedAddOn, len(addOns))
	for i, a := range addOns {
		out[i] = domain.SelectedAddOn{AddOnID: a.ID, Name: a.Name, PricePerGuest: a.PricePerGuest, MinPersons: a.MinPersons}
	}
	return out
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func validateRequest(req *Request) error {
	if req.PackageID <= 0 {
		return fmt.Errorf("%w: packageId must be positive", ErrInvalidInput)
	}
	if req.GuestCount < 1 {
		return fmt.Errorf("%w: guestCount must be positive", ErrInvalidInput)
	}
	if req.GuestCount > domain.MaxGuestsPerReservation {
		return fmt.Errorf("%w: guestCount must not exceed %d", ErrInvalidInput, domain.MaxGuestsPerReservation)
	}
	for _, id := range req.AddOnIDs {
		if id <= 0 {
			return fmt.Errorf("%w: add-on id must be positive", ErrInvalidInput)
		}
	}
	for _, line := range req.Merchandise {
		if line.ItemID <= 0 {
			return fmt.Errorf("%w: merchandise id must be positive", ErrInvalidInput)
		}
		if line.Quantity < 0 {
			return fmt.Errorf("%w: merchandise quantity must not be negative", ErrInvalidInput)
		}
	}
	req.PromoCode = strings.TrimSpace(req.PromoCode)
	return nil
}
