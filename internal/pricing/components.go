package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
)

// ComponentAmount share of a total attributed to one price component
type ComponentAmount struct {
	Name    string
	TaxRate decimal.Decimal
	Gross   decimal.Decimal // amount including tax
	Tax     decimal.Decimal // tax included in Gross
}

// SplitByComponents divides total over the package price components for invoicing.
// The last component takes the rounding remainder so the parts always add up to total.
func SplitByComponents(total decimal.Decimal, components []domain.PriceComponent) ([]ComponentAmount, error) {
	if len(components) == 0 {
		return []ComponentAmount{}, nil
	}

	pkg := domain.PackageOption{Components: components}
	if err := pkg.Validate(); err != nil {
		return nil, err
	}
	if total.IsNegative() {
		return nil, fmt.Errorf("%w: total must not be negative", domain.ErrInvalidInput)
	}

	out := make([]ComponentAmount, len(components))
	allocated := decimal.Zero

	for i, c := range components {
		var gross decimal.Decimal
		if i == len(components)-1 {
			gross = total.Sub(allocated)
		} else {
			gross = RoundMoney(total.Mul(c.Percentage).Div(hundred))
			allocated = allocated.Add(gross)
		}

		out[i] = ComponentAmount{
			Name:    c.Name,
			TaxRate: c.TaxRate,
			Gross:   gross,
			Tax:     includedTax(gross, c.TaxRate),
		}
	}

	return out, nil
}

// includedTax returns gross*rate/(100+rate), rounded to cents
func includedTax(gross, rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return decimal.Zero
	}
	return RoundMoney(gross.Mul(rate).Div(hundred.Add(rate)))
}
