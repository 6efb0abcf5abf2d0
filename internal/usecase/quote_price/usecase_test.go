package quote_price

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-ShowBookingService/internal/infra/storage/catalog"
	promoRepo "github.com/m04kA/SMC-ShowBookingService/internal/infra/storage/promo"
	"github.com/m04kA/SMC-ShowBookingService/pkg/logger"
	"github.com/m04kA/SMC-ShowBookingService/pkg/ptr"
)

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) GetPackageByID(ctx context.Context, id int64) (*domain.PackageOption, error) {
	args := m.Called(ctx, id)
	pkg, _ := args.Get(0).(*domain.PackageOption)
	return pkg, args.Error(1)
}

func (m *mockCatalog) GetAddOnsByIDs(ctx context.Context, ids []int64) ([]domain.SpecialAddOn, error) {
	args := m.Called(ctx, ids)
	addOns, _ := args.Get(0).([]domain.SpecialAddOn)
	return addOns, args.Error(1)
}

func (m *mockCatalog) GetMerchandiseByIDs(ctx context.Context, ids []int64) ([]domain.MerchandiseItem, error) {
	args := m.Called(ctx, ids)
	items, _ := args.Get(0).([]domain.MerchandiseItem)
	return items, args.Error(1)
}

type mockPromo struct{ mock.Mock }

func (m *mockPromo) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	args := m.Called(ctx, code)
	promo, _ := args.Get(0).(*domain.PromoCode)
	return promo, args.Error(1)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newUseCase(c *mockCatalog, p *mockPromo) *UseCase {
	uc := NewUseCase(c, p, logger.NewNop())
	uc.timeProvider = fixedTime{now: now}
	return uc
}

func dinnerPackage() *domain.PackageOption {
	return &domain.PackageOption{ID: 1, Name: "Dinner & Show", PricePerGuest: dec("80")}
}

func TestExecute_PercentagePromo(t *testing.T) {
	c := &mockCatalog{}
	p := &mockPromo{}
	c.On("GetPackageByID", mock.Anything, int64(1)).Return(dinnerPackage(), nil)
	c.On("GetAddOnsByIDs", mock.Anything, []int64{}).Return([]domain.SpecialAddOn{}, nil)
	c.On("GetMerchandiseByIDs", mock.Anything, []int64{}).Return([]domain.MerchandiseItem{}, nil)
	p.On("GetByCode", mock.Anything, "SAVE10").Return(&domain.PromoCode{
		ID: 3, Code: "SAVE10", DiscountType: domain.DiscountPercentage, Value: dec("10"), IsActive: true,
	}, nil)

	resp, err := newUseCase(c, p).Execute(context.Background(), &Request{PackageID: 1, GuestCount: 4, PromoCode: " SAVE10 "})
	require.NoError(t, err)

	assert.Equal(t, "320.00", resp.Subtotal.StringFixed(2))
	require.NotNil(t, resp.Discount)
	assert.Equal(t, "32.00", resp.Discount.StringFixed(2))
	assert.Equal(t, "288.00", resp.Total.StringFixed(2))
	require.NotNil(t, resp.Promo)
	assert.True(t, resp.Promo.Accepted)
	require.NotNil(t, resp.AppliedPromo)
	assert.Equal(t, int64(3), resp.AppliedPromo.ID)
}

func TestExecute_AddOnsAndMerchandise(t *testing.T) {
	c := &mockCatalog{}
	p := &mockPromo{}
	minPersons := 2
	c.On("GetPackageByID", mock.Anything, int64(1)).Return(dinnerPackage(), nil)
	c.On("GetAddOnsByIDs", mock.Anything, []int64{5}).Return([]domain.SpecialAddOn{
		{ID: 5, Name: "Welcome drink", PricePerGuest: dec("7.50"), MinPersons: &minPersons},
	}, nil)
	c.On("GetMerchandiseByIDs", mock.Anything, []int64{2}).Return([]domain.MerchandiseItem{
		{ID: 2, Name: "Programme", Price: dec("5")},
	}, nil)

	resp, err := newUseCase(c, p).Execute(context.Background(), &Request{
		PackageID:  1,
		GuestCount: 2,
		AddOnIDs:   []int64{5, 5},
		Merchandise: []MerchandiseLine{
			{ItemID: 2, Quantity: 1},
			{ItemID: 2, Quantity: 2},
			{ItemID: 9, Quantity: 0},
		},
	})
	require.NoError(t, err)

	// 80*2 + 7.5*2 + 5*3
	assert.Equal(t, "190.00", resp.Total.StringFixed(2))
	require.Len(t, resp.AddOns, 1)
	assert.Equal(t, &minPersons, resp.AddOns[0].MinPersons, "threshold is kept in the snapshot")
	require.Len(t, resp.Merchandise, 1)
	assert.Equal(t, 3, resp.Merchandise[0].Quantity)
	assert.Nil(t, resp.Promo)
	p.AssertNotCalled(t, "GetByCode", mock.Anything, mock.Anything)
}

func TestExecute_AddOnNotEligible(t *testing.T) {
	c := &mockCatalog{}
	c.On("GetPackageByID", mock.Anything, int64(1)).Return(dinnerPackage(), nil)
	c.On("GetAddOnsByIDs", mock.Anything, []int64{5}).Return([]domain.SpecialAddOn{
		{ID: 5, Name: "Private room", PricePerGuest: dec("20"), MinPersons: ptr.Ptr(10)},
	}, nil)
	c.On("GetMerchandiseByIDs", mock.Anything, []int64{}).Return([]domain.MerchandiseItem{}, nil)

	_, err := newUseCase(c, &mockPromo{}).Execute(context.Background(), &Request{PackageID: 1, GuestCount: 4, AddOnIDs: []int64{5}})
	assert.ErrorIs(t, err, ErrAddOnNotEligible)
}

func TestExecute_PromoRejections(t *testing.T) {
	yesterday := now.AddDate(0, 0, -1)

	tests := []struct {
		name    string
		promo   *domain.PromoCode
		repoErr error
	}{
		{"not found", nil, promoRepo.ErrPromoNotFound},
		{"expired", &domain.PromoCode{Code: "OLD", DiscountType: domain.DiscountFixed, Value: dec("10"), IsActive: true, ValidUntil: &yesterday}, nil},
		{"empty gift card", &domain.PromoCode{Code: "GIFT", DiscountType: domain.DiscountGiftCard, Balance: decimal.Zero, IsActive: true}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &mockCatalog{}
			p := &mockPromo{}
			c.On("GetPackageByID", mock.Anything, int64(1)).Return(dinnerPackage(), nil)
			c.On("GetAddOnsByIDs", mock.Anything, mock.Anything).Return([]domain.SpecialAddOn{}, nil)
			c.On("GetMerchandiseByIDs", mock.Anything, mock.Anything).Return([]domain.MerchandiseItem{}, nil)
			p.On("GetByCode", mock.Anything, "CODE").Return(tt.promo, tt.repoErr)

			resp, err := newUseCase(c, p).Execute(context.Background(), &Request{PackageID: 1, GuestCount: 1, PromoCode: "CODE"})
			require.NoError(t, err)
			require.NotNil(t, resp.Promo)
			assert.False(t, resp.Promo.Accepted)
			assert.NotEmpty(t, resp.Promo.Message)
			assert.Nil(t, resp.Discount)
			assert.Nil(t, resp.AppliedPromo)
			assert.Equal(t, "80.00", resp.Total.StringFixed(2))
		})
	}
}

func TestExecute_Errors(t *testing.T) {
	c := &mockCatalog{}
	p := &mockPromo{}
	c.On("GetPackageByID", mock.Anything, int64(404)).Return(nil, catalogRepo.ErrPackageNotFound)
	c.On("GetPackageByID", mock.Anything, int64(500)).Return(nil, errors.New("connection reset"))
	c.On("GetPackageByID", mock.Anything, int64(1)).Return(dinnerPackage(), nil)
	c.On("GetAddOnsByIDs", mock.Anything, []int64{77}).Return(nil, catalogRepo.ErrAddOnNotFound)
	uc := newUseCase(c, p)

	_, err := uc.Execute(context.Background(), &Request{PackageID: 404, GuestCount: 1})
	assert.ErrorIs(t, err, ErrPackageNotFound)

	_, err = uc.Execute(context.Background(), &Request{PackageID: 500, GuestCount: 1})
	assert.ErrorIs(t, err, ErrInternal)

	_, err = uc.Execute(context.Background(), &Request{PackageID: 1, GuestCount: 1, AddOnIDs: []int64{77}})
	assert.ErrorIs(t, err, ErrAddOnNotFound)

	_, err = uc.Execute(context.Background(), &Request{PackageID: 1, GuestCount: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{PackageID: 1, GuestCount: 2, Merchandise: []MerchandiseLine{{ItemID: 1, Quantity: -1}}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
