// Package pricing computes reservation prices: subtotal, promo discount and total.
// Amounts are decimals rounded half-up to cents at the points where they are shown.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
)

const moneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds half-up to cents (amounts here are never negative)
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(moneyPlaces)
}

// CanSelectAddOn returns true if the add-on may be selected for guestCount guests
func CanSelectAddOn(addOn domain.SpecialAddOn, guestCount int) bool {
	return meetsMinimum(addOn.MinPersons, guestCount)
}

// CanSelectPackage returns true if the package may be booked for guestCount guests
func CanSelectPackage(pkg domain.PackageOption, guestCount int) bool {
	return meetsMinimum(pkg.MinPersons, guestCount)
}

func meetsMinimum(minPersons *int, guestCount int) bool {
	if guestCount < 1 {
		return false
	}
	return minPersons == nil || guestCount >= *minPersons
}

// ComputeSubtotal returns packagePrice*guests + Σ addOn*guests + Σ unitPrice*quantity.
// Lines with quantity 0 are treated as removed.
func ComputeSubtotal(
	packagePrice decimal.Decimal,
	guestCount int,
	addOns []domain.SpecialAddOn,
	lines []domain.OrderedMerchandiseItem,
) (decimal.Decimal, error) {
	if guestCount < 1 {
		return decimal.Zero, fmt.Errorf("%w: guest count must be positive, got %d", domain.ErrInvalidInput, guestCount)
	}
	if packagePrice.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: package price must not be negative", domain.ErrInvalidInput)
	}

	guests := decimal.NewFromInt(int64(guestCount))
	subtotal := packagePrice.Mul(guests)

	for _, addOn := range addOns {
		if addOn.PricePerGuest.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: add-on %d has negative price", domain.ErrInvalidInput, addOn.ID)
		}
		if !CanSelectAddOn(addOn, guestCount) {
			return decimal.Zero, fmt.Errorf("%w: add-on %d requires at least %d guests, got %d",
				domain.ErrAddOnNotEligible, addOn.ID, *addOn.MinPersons, guestCount)
		}
		subtotal = subtotal.Add(addOn.PricePerGuest.Mul(guests))
	}

	for _, line := range lines {
		if line.Quantity < 0 {
			return decimal.Zero, fmt.Errorf("%w: merchandise %d has negative quantity", domain.ErrInvalidInput, line.ItemID)
		}
		if line.UnitPrice.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: merchandise %d has negative price", domain.ErrInvalidInput, line.ItemID)
		}
		if line.Quantity == 0 {
			continue
		}
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	return subtotal, nil
}

// ComputeTotal returns max(0, subtotal - discount) rounded half-up to cents
func ComputeTotal(subtotal decimal.Decimal, discount *decimal.Decimal) decimal.Decimal {
	total := subtotal
	if discount != nil {
		total = total.Sub(*discount)
	}
	if total.IsNegative() {
		return decimal.Zero
	}
	return RoundMoney(total)
}

// ActiveLines drops merchandise lines with quantity 0
func ActiveLines(lines []domain.OrderedMerchandiseItem) []domain.OrderedMerchandiseItem {
	out := make([]domain.OrderedMerchandiseItem, 0, len(lines))
	for _, line := range lines {
		if line.Quantity > 0 {
			out = append(out, line)
		}
	}
	return out
}
