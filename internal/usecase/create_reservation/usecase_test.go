package create_reservation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
	slotRepo "github.com/m04kA/SMC-ShowBookingService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ShowBookingService/internal/usecase/quote_price"
	"github.com/m04kA/SMC-ShowBookingService/pkg/logger"
	"github.com/m04kA/SMC-ShowBookingService/pkg/ptr"
	"github.com/m04kA/SMC-ShowBookingService/pkg/types"
)

type mockSlotRepo struct{ mock.Mock }

func (m *mockSlotRepo) GetByID(ctx context.Context, id int64) (*domain.ShowSlot, error) {
	args := m.Called(ctx, id)
	slot, _ := args.Get(0).(*domain.ShowSlot)
	return slot, args.Error(1)
}

func (m *mockSlotRepo) Acquire(ctx context.Context, id int64, seats int) (int, error) {
	args := m.Called(ctx, id, seats)
	return args.Int(0), args.Error(1)
}

func (m *mockSlotRepo) ForceAcquire(ctx context.Context, id int64, seats int) (int, error) {
	args := m.Called(ctx, id, seats)
	return args.Int(0), args.Error(1)
}

type mockReservationRepo struct{ mock.Mock }

func (m *mockReservationRepo) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	args := m.Called(ctx, res)
	created, _ := args.Get(0).(*domain.Reservation)
	return created, args.Error(1)
}

type mockPromoRepo struct{ mock.Mock }

func (m *mockPromoRepo) RedeemGiftCard(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type mockQuoter struct{ mock.Mock }

func (m *mockQuoter) Execute(ctx context.Context, req *quote_price.Request) (*quote_price.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*quote_price.Response)
	return resp, args.Error(1)
}

type mockCache struct{ mock.Mock }

func (m *mockCache) InvalidateDate(ctx context.Context, date time.Time) error {
	return m.Called(ctx, date).Error(0)
}

type mockMetrics struct{ mock.Mock }

func (m *mockMetrics) IncReservationCreated(channel, status string) { m.Called(channel, status) }
func (m *mockMetrics) IncCapacityConflict(operation string)         { m.Called(operation) }

// inlineTx выполняет функцию без реальной транзакции
type inlineTx struct{}

func (inlineTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	slots        *mockSlotRepo
	reservations *mockReservationRepo
	promos       *mockPromoRepo
	quoter       *mockQuoter
	cache        *mockCache
	metrics      *mockMetrics
	uc           *UseCase
}

func newFixture(settings Settings) *fixture {
	f := &fixture{
		slots:        &mockSlotRepo{},
		reservations: &mockReservationRepo{},
		promos:       &mockPromoRepo{},
		quoter:       &mockQuoter{},
		cache:        &mockCache{},
		metrics:      &mockMetrics{},
	}
	f.uc = NewUseCase(f.slots, f.reservations, f.promos, f.quoter, f.cache, inlineTx{}, f.metrics, settings, logger.NewNop())
	f.uc.timeProvider = fixedTime{now: now}
	return f
}

func showSlot(capacity, booked int) *domain.ShowSlot {
	return &domain.ShowSlot{
		ID:          10,
		Date:        time.Date(2025, 4, 18, 0, 0, 0, 0, time.UTC),
		StartTime:   types.TimeString("19:30"),
		Capacity:    capacity,
		BookedCount: booked,
		ShowType:    domain.ShowTypeRegular,
		PackageIDs:  []int64{1, 2},
	}
}

func quote() *quote_price.Response {
	return &quote_price.Response{
		Package:  domain.PackageOption{ID: 1, Name: "Dinner & Show", PricePerGuest: decimal.NewFromInt(80), MinPersons: ptr.Ptr(2)},
		Subtotal: decimal.NewFromInt(320),
		Total:    decimal.NewFromInt(320),
	}
}

func request() *Request {
	return &Request{UserID: 7, SlotID: 10, PackageID: 1, GuestCount: 4}
}

func TestExecute_CustomerReservation(t *testing.T) {
	f := newFixture(Settings{})
	f.slots.On("GetByID", mock.Anything, int64(10)).Return(showSlot(100, 90), nil)
	f.quoter.On("Execute", mock.Anything, mock.Anything).Return(quote(), nil)
	f.slots.On("Acquire", mock.Anything, int64(10), 4).Return(94, nil)
	f.reservations.On("Create", mock.Anything, mock.AnythingOfType("*domain.Reservation")).
		Return(&domain.Reservation{ID: 100, Reference: "ref", Channel: domain.ChannelCustomer,
			Status: domain.StatusPendingApproval, Total: decimal.NewFromInt(320)}, nil)
	f.cache.On("InvalidateDate", mock.Anything, showSlot(0, 0).Date).Return(nil)
	f.metrics.On("IncReservationCreated", "customer", "pending_approval").Return()

	resp, err := f.uc.Execute(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.Reservation.ID)
	assert.Equal(t, 6, resp.AvailableSpots)

	stored := f.reservations.Calls[0].Arguments.Get(1).(*domain.Reservation)
	assert.NotEmpty(t, stored.Reference)
	assert.Equal(t, domain.StatusPendingApproval, stored.Status)
	assert.Equal(t, domain.ChannelCustomer, stored.Channel)
	assert.Equal(t, "Dinner & Show", stored.PackageName)
	require.NotNil(t, stored.PackageMinPersons)
	assert.Equal(t, 2, *stored.PackageMinPersons)
	assert.Equal(t, types.TimeString("19:30"), stored.ShowTime)
	assert.Nil(t, stored.PromoCode)

	f.slots.AssertExpectations(t)
	f.cache.AssertExpectations(t)
	f.metrics.AssertExpectations(t)
}

func TestExecute_ConfiguredCustomerStatus(t *testing.T) {
	f := newFixture(Settings{CustomerStatus: domain.StatusPendingPayment})
	f.slots.On("GetByID", mock.Anything, int64(10)).Return(showSlot(100, 0), nil)
	f.quoter.On("Execute", mock.Anything, mock.Anything).Return(quote(), nil)
	f.slots.On("Acquire", mock.Anything, int64(10), 4).Return(4, nil)
	f.reservations.On("Create", mock.Anything, mock.Anything).
		Return(&domain.Reservation{ID: 1, Channel: domain.ChannelCustomer, Status: domain.StatusPendingPayment}, nil)
	f.cache.On("InvalidateDate", mock.Anything, mock.Anything).Return(nil)
	f.metrics.On("IncReservationCreated", "customer", "pending_payment").Return()

	_, err := f.uc.Execute(context.Background(), request())
	require.NoError(t, err)

	stored := f.reservations.Calls[0].Arguments.Get(1).(*domain.Reservation)
	assert.Equal(t, domain.StatusPendingPayment, stored.Status)
}

func TestExecute_FullSlotJoinsWaitlist(t *testing.T) {
	f := newFixture(Settings{})
	f.slots.On("GetByID", mock.Anything, int64(10)).Return(showSlot(100, 100), nil)
	f.quoter.On("Execute", mock.Anything, mock.Anything).Return(quote(), nil)
	f.reservations.On("Create", mock.Anything, mock.Anything).
		Return(&domain.Reservation{ID: 1, Channel: domain.ChannelCustomer, Status: domain.StatusWaitlisted}, nil)
	f.cache.On("InvalidateDate", mock.Anything, mock.Anything).Return(nil)
	f.metrics.On("IncReservationCreated", "customer", "waitlisted").Return()

	req := request()
	req.JoinWaitlist = true
	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.AvailableSpots)

	stored := f.reservations.Calls[0].Arguments.Get(1).(*domain.Reservation)
	assert.Equal(t, domain.StatusWaitlisted, stored.Status)
	f.slots.AssertNotCalled(t, "Acquire", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_SlotRejections(t *testing.T) {
	closed := showSlot(100, 0)
	closed.IsManuallyClosed = true
	past := showSlot(100, 0)
	past.Date = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		slot *domain.ShowSlot
		err  error
		want error
	}{
		{"not found", nil, slotRepo.ErrSlotNotFound, ErrSlotNotFound},
		{"closed", closed, nil, ErrSlotClosed},
		{"past", past, nil, ErrSlotInPast},
		{"full", showSlot(100, 100), nil, ErrSlotFull},
		{"not enough seats", showSlot(100, 98), nil, ErrSlotFull},
		{"storage failure", nil, fmt.Errorf("connection reset"), ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(Settings{})
			f.slots.On("GetByID", mock.Anything, int64(10)).Return(tt.slot, tt.err)

			_, err := f.uc.Execute(context.Background(), request())
			assert.ErrorIs(t, err, tt.want)
			f.quoter.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
			f.reservations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_PackageNotOffered(t *testing.T) {
	f := newFixture(Settings{})
	f.slots.On("GetByID", mock.Anything, int64(10)).Return(showSlot(100, 0), nil)

	req := request()
	req.PackageID = 3
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrPackageNotOffered)
}

func TestExecute_AdminOverbooking(t *testing.T) {
	f := newFixture(Settings{AllowAdminOverbooking: true})
	f.slots.On("GetByID", mock.Anything, int64(10)).Return(showSlot(100, 100), nil)
	f.quoter.On("Execute", mock.Anything, mock.Anything).Return(quote(), nil)
	f.slots.On("ForceAcquire", mock.Anything, int64(10), 4).Return(104, nil)
	f.reservations.On("Create", mock.Anything, mock.Anything).
		Return(&domain.Reservation{ID: 1, Channel: domain.ChannelAdmin, Status: domain.StatusConfirmed}, nil)
	f.cache.On("InvalidateDate", mock.Anything, mock.Anything).Return(nil)
	f.metrics.On("IncReservationCreated", "admin", "confirmed").Return()

	req := request()
	req.Channel = domain.ChannelAdmin
	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.AvailableSpots)

	stored := f.reservations.Calls[0].Arguments.Get(1).(*domain.Reservation)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)
	f.slots.AssertNotCalled(t, "Acquire", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_AdminWithoutOverbooking(t *testing.T) {
	f := newFixture(Settings{})
	f.slots.On("GetByID", mock.Anything, int64(10)).Return(showSlot(100, 100), nil)

	req := request()
	req.Channel = domain.ChannelAdmin
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotFull)
}

func TestExecute_CapacityConflict(t *testing.T) {
	f := newFixture(Settings{})
	f.slots.On("GetByID", mock.Anything, int64(10)).Return(showSlot(100, 90), nil)
	f.quoter.On("Execute", mock.Anything, mock.Anything).Return(quote(), nil)
	f.slots.On("Acquire", mock.Anything, int64(10), 4).
		Return(0, fmt.Errorf("%w: slot 10", domain.ErrCapacityConflict))
	f.metrics.On("IncCapacityConflict", "create_reservation").Return()

	_, err := f.uc.Execute(context.Background(), request())
	assert.ErrorIs(t, err, ErrCapacityConflict)
	f.metrics.AssertExpectations(t)
	f.reservations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExecute_GiftCardRedeemed(t *testing.T) {
	f := newFixture(Settings{})
	discount := decimal.NewFromInt(50)
	q := quote()
	q.Promo = &quote_price.PromoInfo{Code: "GIFT-50", Accepted: true, DiscountType: domain.DiscountGiftCard}
	q.Discount = &discount
	q.Total = decimal.NewFromInt(270)
	q.AppliedPromo = &domain.PromoCode{ID: 5, Code: "GIFT-50", DiscountType: domain.DiscountGiftCard, Balance: discount, IsActive: true}

	f.slots.On("GetByID", mock.Anything, int64(10)).Return(showSlot(100, 0), nil)
	f.quoter.On("Execute", mock.Anything, mock.Anything).Return(q, nil)
	f.slots.On("Acquire", mock.Anything, int64(10), 4).Return(4, nil)
	f.promos.On("RedeemGiftCard", mock.Anything, int64(5), discount).Return(decimal.Zero, nil)
	f.reservations.On("Create", mock.Anything, mock.Anything).
		Return(&domain.Reservation{ID: 1, Channel: domain.ChannelCustomer, Status: domain.StatusPendingApproval}, nil)
	f.cache.On("InvalidateDate", mock.Anything, mock.Anything).Return(nil)
	f.metrics.On("IncReservationCreated", "customer", "pending_approval").Return()

	req := request()
	req.PromoCode = "GIFT-50"
	_, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	f.promos.AssertExpectations(t)
	stored := f.reservations.Calls[0].Arguments.Get(1).(*domain.Reservation)
	require.NotNil(t, stored.PromoCode)
	assert.Equal(t, "GIFT-50", *stored.PromoCode)
	require.NotNil(t, stored.DiscountAmount)
	assert.True(t, stored.DiscountAmount.Equal(discount))
	assert.Equal(t, "270.00", stored.Total.StringFixed(2))
}

func TestExecute_PromoRejected(t *testing.T) {
	f := newFixture(Settings{})
	q := quote()
	q.Promo = &quote_price.PromoInfo{Code: "OLD", Accepted: false, Message: "promo code is expired or no longer valid"}

	f.slots.On("GetByID", mock.Anything, int64(10)).Return(showSlot(100, 0), nil)
	f.quoter.On("Execute", mock.Anything, mock.Anything).Return(q, nil)

	req := request()
	req.PromoCode = "OLD"
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrPromoRejected)
	f.slots.AssertNotCalled(t, "Acquire", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_QuoteErrorsMapped(t *testing.T) {
	tests := []struct {
		quoteErr error
		want     error
	}{
		{quote_price.ErrPackageNotFound, ErrPackageNotFound},
		{fmt.Errorf("%w: private room", quote_price.ErrAddOnNotEligible), ErrAddOnNotEligible},
		{quote_price.ErrMerchandiseNotFound, ErrMerchandiseNotFound},
		{quote_price.ErrInternal, ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.want.Error(), func(t *testing.T) {
			f := newFixture(Settings{})
			f.slots.On("GetByID", mock.Anything, int64(10)).Return(showSlot(100, 0), nil)
			f.quoter.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.quoteErr)

			_, err := f.uc.Execute(context.Background(), request())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture(Settings{})

	tests := []*Request{
		{UserID: 0, SlotID: 10, PackageID: 1, GuestCount: 2},
		{UserID: 7, SlotID: 10, PackageID: 1, GuestCount: 0},
		{UserID: 7, SlotID: 10, PackageID: 1, GuestCount: domain.MaxGuestsPerReservation + 1},
		{UserID: 7, SlotID: 10, PackageID: 1, GuestCount: 2, Channel: "phone"},
	}
	for _, req := range tests {
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	f.slots.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
