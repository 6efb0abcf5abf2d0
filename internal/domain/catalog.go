package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PriceComponent part of a package price with its own tax rate (e.g. food, drinks, show)
type PriceComponent struct {
	Name       string
	Percentage decimal.Decimal // share of the package price, 0..100
	TaxRate    decimal.Decimal // percent, e.g. 9 or 21
}

// PackageOption represents a priced arrangement
type PackageOption struct {
	ID            int64
	Name          string
	PricePerGuest decimal.Decimal
	MinPersons    *int
	Components    []PriceComponent
}

// Validate checks the price and that component percentages sum to 100
func (p *PackageOption) Validate() error {
	if p.PricePerGuest.IsNegative() {
		return fmt.Errorf("%w: package %d has negative price", ErrInvalidInput, p.ID)
	}
	if p.MinPersons != nil && *p.MinPersons < 1 {
		return fmt.Errorf("%w: package %d has non-positive minimum persons", ErrInvalidInput, p.ID)
	}
	if len(p.Components) == 0 {
		return nil
	}

	sum := decimal.Zero
	for _, c := range p.Components {
		if c.Percentage.IsNegative() || c.TaxRate.IsNegative() {
			return fmt.Errorf("%w: package %d component %q has negative values", ErrInvalidInput, p.ID, c.Name)
		}
		sum = sum.Add(c.Percentage)
	}
	if !sum.Equal(hundred) {
		return fmt.Errorf("%w: package %d components sum to %s%%, expected 100%%", ErrInvalidInput, p.ID, sum.String())
	}
	return nil
}

// SpecialAddOn optional per-guest add-on (e.g. pre-show drinks)
type SpecialAddOn struct {
	ID            int64
	Name          string
	PricePerGuest decimal.Decimal
	MinPersons    *int
	Timing        *string // e.g. "18:30 - 19:30"
}

// SelectedAddOn add-on snapshot stored on a reservation
type SelectedAddOn struct {
	AddOnID       int64           `json:"addOnId"`
	Name          string          `json:"name"`
	PricePerGuest decimal.Decimal `json:"pricePerGuest"`
	MinPersons    *int            `json:"minPersons,omitempty"`
}

// MerchandiseItem catalog item that can be ordered together with a reservation
type MerchandiseItem struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}

// OrderedMerchandiseItem merchandise line snapshot. Quantity 0 means the line is removed.
type OrderedMerchandiseItem struct {
	ItemID    int64           `json:"itemId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}
