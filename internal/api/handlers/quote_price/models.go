package quote_price

import (
	"github.com/shopspring/decimal"

	quotePrice "github.com/m04kA/SMC-ShowBookingService/internal/usecase/quote_price"
)

// QuoteRequest HTTP request model
type QuoteRequest struct {
	PackageID   int64                `json:"packageId"`
	GuestCount  int                  `json:"guestCount"`
	AddOnIDs    []int64              `json:"addOnIds,omitempty"`
	Merchandise []MerchandiseRequest `json:"merchandise,omitempty"`
	PromoCode   string               `json:"promoCode,omitempty"`
}

// MerchandiseRequest позиция товара в запросе
type MerchandiseRequest struct {
	ItemID   int64 `json:"itemId"`
	Quantity int   `json:"quantity"`
}

// QuoteResponse HTTP response model, суммы в виде строк с двумя знаками
type QuoteResponse struct {
	PackageID    int64               `json:"packageId"`
	PackageName  string              `json:"packageName"`
	PackagePrice string              `json:"packagePrice"`
	AddOns       []AddOnResponse     `json:"addOns"`
	Merchandise  []MerchandiseResult `json:"merchandise"`
	Subtotal     string              `json:"subtotal"`
	Promo        *PromoResponse      `json:"promo,omitempty"`
	Discount     *string             `json:"discount,omitempty"`
	Total        string              `json:"total"`
	Components   []ComponentResponse `json:"components"`
}

type AddOnResponse struct {
	AddOnID       int64  `json:"addOnId"`
	Name          string `json:"name"`
	PricePerGuest string `json:"pricePerGuest"`
}

type MerchandiseResult struct {
	ItemID    int64  `json:"itemId"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

type PromoResponse struct {
	Code         string `json:"code"`
	Accepted     bool   `json:"accepted"`
	DiscountType string `json:"discountType,omitempty"`
	Message      string `json:"message,omitempty"`
}

// ComponentResponse часть итоговой суммы с налогом
type ComponentResponse struct {
	Name    string `json:"name"`
	TaxRate string `json:"taxRate"`
	Gross   string `json:"gross"`
	Tax     string `json:"tax"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *QuoteRequest) ToUseCaseRequest() *quotePrice.Request {
	lines := make([]quotePrice.MerchandiseLine, 0, len(r.Merchandise))
	for _, m := range r.Merchandise {
		lines = append(lines, quotePrice.MerchandiseLine{ItemID: m.ItemID, Quantity: m.Quantity})
	}
	return &quotePrice.Request{
		PackageID:   r.PackageID,
		GuestCount:  r.GuestCount,
		AddOnIDs:    r.AddOnIDs,
		Merchandise: lines,
		PromoCode:   r.PromoCode,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *quotePrice.Response) *QuoteResponse {
	out := &QuoteResponse{
		PackageID:    resp.Package.ID,
		PackageName:  resp.Package.Name,
		PackagePrice: money(resp.Package.PricePerGuest),
		AddOns:       make([]AddOnResponse, 0, len(resp.AddOns)),
		Merchandise:  make([]MerchandiseResult, 0, len(resp.Merchandise)),
		Subtotal:     money(resp.Subtotal),
		Total:        money(resp.Total),
		Components:   make([]ComponentResponse, 0, len(resp.Components)),
	}

	for _, a := range resp.AddOns {
		out.AddOns = append(out.AddOns, AddOnResponse{AddOnID: a.AddOnID, Name: a.Name, PricePerGuest: money(a.PricePerGuest)})
	}
	for _, m := range resp.Merchandise {
		out.Merchandise = append(out.Merchandise, MerchandiseResult{
			ItemID:    m.ItemID,
			Name:      m.Name,
			UnitPrice: money(m.UnitPrice),
			Quantity:  m.Quantity,
		})
	}
	if resp.Promo != nil {
		out.Promo = &PromoResponse{
			Code:         resp.Promo.Code,
			Accepted:     resp.Promo.Accepted,
			DiscountType: string(resp.Promo.DiscountType),
			Message:      resp.Promo.Message,
		}
	}
	if resp.Discount != nil {
		discount := money(*resp.Discount)
		out.Discount = &discount
	}
	for _, c := range resp.Components {
		out.Components = append(out.Components, ComponentResponse{
			Name:    c.Name,
			TaxRate: c.TaxRate.String(),
			Gross:   money(c.Gross),
			Tax:     money(c.Tax),
		})
	}

	return out
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
