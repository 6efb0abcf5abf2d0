package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
)

// QuoteInput everything needed to price a booking
type QuoteInput struct {
	Package     domain.PackageOption
	GuestCount  int
	AddOns      []domain.SpecialAddOn
	Merchandise []domain.OrderedMerchandiseItem
	PromoCode   string // optional
}

// Quote priced booking
type Quote struct {
	Subtotal   decimal.Decimal
	Promo      *PromoResult     // nil when no code was supplied
	Discount   *decimal.Decimal // nil when no code was accepted
	Total      decimal.Decimal
	Components []ComponentAmount
}

// BuildQuote computes subtotal, applies at most one promo code and splits the total
func BuildQuote(in QuoteInput, lookup PromoLookup) (Quote, error) {
	if err := in.Package.Validate(); err != nil {
		return Quote{}, err
	}
	if !CanSelectPackage(in.Package, in.GuestCount) {
		if in.GuestCount < 1 {
			return Quote{}, fmt.Errorf("%w: guest count must be positive, got %d", domain.ErrInvalidInput, in.GuestCount)
		}
		return Quote{}, fmt.Errorf("%w: package %d requires at least %d guests",
			domain.ErrInvalidInput, in.Package.ID, *in.Package.MinPersons)
	}

	subtotal, err := ComputeSubtotal(in.Package.PricePerGuest, in.GuestCount, in.AddOns, in.Merchandise)
	if err != nil {
		return Quote{}, err
	}

	quote := Quote{Subtotal: RoundMoney(subtotal)}

	if code := strings.TrimSpace(in.PromoCode); code != "" {
		result, err := ApplyPromoCode(code, quote.Subtotal, lookup)
		if err != nil {
			return Quote{}, err
		}
		quote.Promo = &result
		if result.Accepted {
			discount := result.DiscountAmount
			quote.Discount = &discount
		}
	}

	quote.Total = ComputeTotal(quote.Subtotal, quote.Discount)

	components, err := SplitByComponents(quote.Total, in.Package.Components)
	if err != nil {
		return Quote{}, err
	}
	quote.Components = components

	return quote, nil
}
