package quote_price

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
	"github.com/m04kA/SMC-ShowBookingService/internal/pricing"
)

// Request модель запроса расчёта стоимости
type Request struct {
	PackageID   int64
	GuestCount  int
	AddOnIDs    []int64
	Merchandise []MerchandiseLine
	PromoCode   string // опционально
}

// MerchandiseLine позиция товара; Quantity = 0 означает удаление позиции
type MerchandiseLine struct {
	ItemID   int64
	Quantity int
}

// Response расчёт стоимости со снимком выбранных позиций
type Response struct {
	Package     domain.PackageOption
	AddOns      []domain.SelectedAddOn
	Merchandise []domain.OrderedMerchandiseItem

	Subtotal   decimal.Decimal
	Promo      *PromoInfo       // nil, если промокод не передавался
	Discount   *decimal.Decimal // nil, если промокод не принят
	Total      decimal.Decimal
	Components []pricing.ComponentAmount

	// AppliedPromo принятый промокод (нужен для списания баланса подарочной карты)
	AppliedPromo *domain.PromoCode
}

// PromoInfo результат применения промокода
type PromoInfo struct {
	Code         string
	Accepted     bool
	DiscountType domain.DiscountType
	Message      string
}
