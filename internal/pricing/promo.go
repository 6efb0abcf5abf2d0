package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
)

const (
	msgPromoApplied  = "promo code applied"
	msgPromoNotFound = "promo code not found"
	msgPromoExpired  = "promo code is expired or no longer valid"
)

// PromoLookup resolves a code. It returns domain.ErrPromoCodeNotFound or
// domain.ErrPromoCodeExpired when the code cannot be used; any other error is
// treated as an infrastructure failure.
type PromoLookup func(code string) (*domain.PromoCode, error)

// PromoResult outcome of applying a code to a subtotal
type PromoResult struct {
	Accepted       bool
	Code           string
	DiscountType   domain.DiscountType
	DiscountAmount decimal.Decimal // zero when not accepted
	Message        string
	Reason         error // ErrPromoCodeNotFound / ErrPromoCodeExpired when not accepted
}

// AppliedPromo the single promo code attached to a booking under construction.
// Applying a new code replaces the previous one: codes never stack.
type AppliedPromo struct {
	current *PromoResult
}

// Apply replaces the active code with result if it was accepted and returns the active one
func (a *AppliedPromo) Apply(result PromoResult) *PromoResult {
	if result.Accepted {
		r := result
		a.current = &r
	}
	return a.current
}

// Clear removes the active code
func (a *AppliedPromo) Clear() {
	a.current = nil
}

// Current returns the active code or nil
func (a *AppliedPromo) Current() *PromoResult {
	return a.current
}

// ApplyPromoCode validates code through lookup and computes the discount for subtotal.
// The discount never exceeds the subtotal.
func ApplyPromoCode(code string, subtotal decimal.Decimal, lookup PromoLookup) (PromoResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return PromoResult{}, fmt.Errorf("%w: promo code is empty", domain.ErrInvalidInput)
	}
	if subtotal.IsNegative() {
		return PromoResult{}, fmt.Errorf("%w: subtotal must not be negative", domain.ErrInvalidInput)
	}
	if lookup == nil {
		return PromoResult{}, fmt.Errorf("%w: promo lookup is not configured", domain.ErrInvalidInput)
	}

	promo, err := lookup(code)
	switch {
	case errors.Is(err, domain.ErrPromoCodeNotFound):
		return rejected(code, msgPromoNotFound, domain.ErrPromoCodeNotFound), nil
	case errors.Is(err, domain.ErrPromoCodeExpired):
		return rejected(code, msgPromoExpired, domain.ErrPromoCodeExpired), nil
	case err != nil:
		return PromoResult{}, fmt.Errorf("promo lookup %q: %w", code, err)
	case promo == nil:
		return rejected(code, msgPromoNotFound, domain.ErrPromoCodeNotFound), nil
	}

	raw, err := rawDiscount(promo, subtotal)
	if err != nil {
		return PromoResult{}, err
	}

	discount := decimal.Min(RoundMoney(raw), subtotal)
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	return PromoResult{
		Accepted:       true,
		Code:           promo.Code,
		DiscountType:   promo.DiscountType,
		DiscountAmount: discount,
		Message:        msgPromoApplied,
	}, nil
}

func rawDiscount(promo *domain.PromoCode, subtotal decimal.Decimal) (decimal.Decimal, error) {
	switch promo.DiscountType {
	case domain.DiscountFixed:
		return promo.Value, nil
	case domain.DiscountPercentage:
		return subtotal.Mul(promo.Value).Div(hundred), nil
	case domain.DiscountGiftCard:
		return promo.Balance, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown discount type %q", domain.ErrInvalidInput, promo.DiscountType)
	}
}

func rejected(code, message string, reason error) PromoResult {
	return PromoResult{
		Accepted:       false,
		Code:           code,
		DiscountAmount: decimal.Zero,
		Message:        message,
		Reason:         reason,
	}
}
