package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType represents how a promo code reduces the price
type DiscountType string

const (
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
	DiscountGiftCard   DiscountType = "gift_card"
)

// PromoCode represents a promotional code or gift card
type PromoCode struct {
	ID           int64
	Code         string
	DiscountType DiscountType
	Value        decimal.Decimal // face value for fixed, percent for percentage
	Balance      decimal.Decimal // remaining balance for gift cards
	ValidFrom    *time.Time
	ValidUntil   *time.Time
	IsActive     bool
}

// IsExpired returns true if the code cannot be used at the given moment
func (p *PromoCode) IsExpired(at time.Time) bool {
	if !p.IsActive {
		return true
	}
	if p.ValidFrom != nil && at.Before(*p.ValidFrom) {
		return true
	}
	if p.ValidUntil != nil && at.After(*p.ValidUntil) {
		return true
	}
	if p.DiscountType == DiscountGiftCard && !p.Balance.IsPositive() {
		return true
	}
	return false
}
