package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
)

// Reprice recomputes subtotal and total of a stored reservation from its price snapshot.
// Package and add-on minimum-persons thresholds stored in the snapshot are checked against
// the current guest count. An existing discount keeps its amount and is clamped to the new
// subtotal; the reservation is not modified.
func Reprice(res domain.Reservation) (domain.Reservation, error) {
	pkg := domain.PackageOption{ID: res.PackageID, MinPersons: res.PackageMinPersons}
	if res.GuestCount >= 1 && !CanSelectPackage(pkg, res.GuestCount) {
		return domain.Reservation{}, fmt.Errorf("%w: package %d requires at least %d guests, got %d",
			domain.ErrInvalidInput, res.PackageID, *res.PackageMinPersons, res.GuestCount)
	}

	addOns := make([]domain.SpecialAddOn, len(res.AddOns))
	for i, a := range res.AddOns {
		addOns[i] = domain.SpecialAddOn{ID: a.AddOnID, Name: a.Name, PricePerGuest: a.PricePerGuest, MinPersons: a.MinPersons}
	}

	subtotal, err := ComputeSubtotal(res.PackagePrice, res.GuestCount, addOns, res.Merchandise)
	if err != nil {
		return domain.Reservation{}, err
	}

	out := res.Clone()
	out.Subtotal = RoundMoney(subtotal)
	if out.DiscountAmount != nil {
		discount := decimal.Min(*out.DiscountAmount, out.Subtotal)
		out.DiscountAmount = &discount
	}
	out.Total = ComputeTotal(out.Subtotal, out.DiscountAmount)
	return out, nil
}
