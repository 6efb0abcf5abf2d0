package reservations

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ShowBookingService/internal/infra/storage/reservation"
	slotRepo "github.com/m04kA/SMC-ShowBookingService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ShowBookingService/internal/service/reservations/models"
	"github.com/m04kA/SMC-ShowBookingService/pkg/logger"
	"github.com/m04kA/SMC-ShowBookingService/pkg/ptr"
	"github.com/m04kA/SMC-ShowBookingService/pkg/types"
)

type mockReservationRepo struct{ mock.Mock }

func (m *mockReservationRepo) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*domain.Reservation)
	return res, args.Error(1)
}

func (m *mockReservationRepo) GetByUserID(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]domain.Reservation, error) {
	args := m.Called(ctx, userID, status)
	list, _ := args.Get(0).([]domain.Reservation)
	return list, args.Error(1)
}

func (m *mockReservationRepo) GetBySlot(ctx context.Context, filter domain.ReservationsFilter) ([]domain.Reservation, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]domain.Reservation)
	return list, args.Error(1)
}

func (m *mockReservationRepo) Update(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	args := m.Called(ctx, res)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	return res, nil
}

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

func (m *mockSlotRepo) Release(ctx context.Context, id int64, seats int) (int, error) {
	args := m.Called(ctx, id, seats)
	return args.Int(0), args.Error(1)
}

type mockPromoRepo struct{ mock.Mock }

func (m *mockPromoRepo) RefundGiftCard(ctx context.Context, code string, amount decimal.Decimal) error {
	return m.Called(ctx, code, amount).Error(0)
}

type stubAuth struct{}

func (stubAuth) DisplayName(_ context.Context, userID int64) string {
	return fmt.Sprintf("Admin %d", userID)
}

type mockCache struct{ mock.Mock }

func (m *mockCache) InvalidateDate(ctx context.Context, date time.Time) error {
	return m.Called(ctx, date).Error(0)
}

type mockMetrics struct{ mock.Mock }

func (m *mockMetrics) IncLifecycleAction(action, outcome string) { m.Called(action, outcome) }
func (m *mockMetrics) IncCapacityConflict(operation string)      { m.Called(operation) }

type inlineTx struct{}

func (inlineTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var (
	now      = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	showDate = time.Date(2025, 4, 18, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	reservations *mockReservationRepo
	slots        *mockSlotRepo
	promos       *mockPromoRepo
	cache        *mockCache
	metrics      *mockMetrics
	svc          *Service
}

func newFixture(allowOverbooking bool) *fixture {
	f := &fixture{
		reservations: &mockReservationRepo{},
		slots:        &mockSlotRepo{},
		promos:       &mockPromoRepo{},
		cache:        &mockCache{},
		metrics:      &mockMetrics{},
	}
	f.cache.On("InvalidateDate", mock.Anything, mock.Anything).Return(nil)
	f.metrics.On("IncLifecycleAction", mock.Anything, mock.Anything).Return()
	f.metrics.On("IncCapacityConflict", mock.Anything).Return()
	f.svc = NewService(f.reservations, f.slots, f.promos, stubAuth{}, f.cache, inlineTx{}, f.metrics, allowOverbooking, logger.NewNop())
	f.svc.timeProvider = fixedTime{now: now}
	return f
}

func reservation(status domain.ReservationStatus) *domain.Reservation {
	return &domain.Reservation{
		ID:           1,
		Reference:    "c0ffee",
		UserID:       7,
		ShowSlotID:   20,
		ShowDate:     showDate,
		ShowTime:     types.TimeString("19:30"),
		GuestCount:   4,
		Channel:      domain.ChannelCustomer,
		Status:       status,
		PackageID:    1,
		PackageName:  "Dinner & Show",
		PackagePrice: decimal.NewFromInt(80),
		Subtotal:     decimal.NewFromInt(320),
		Total:        decimal.NewFromInt(320),
	}
}

func TestGetByID(t *testing.T) {
	t.Run("owner sees customer view", func(t *testing.T) {
		f := newFixture(false)
		f.reservations.On("GetByID", mock.Anything, int64(1)).Return(reservation(domain.StatusConfirmed), nil)

		resp, err := f.svc.GetByID(context.Background(), 1, 7, false)
		require.NoError(t, err)
		assert.Equal(t, "320.00", resp.Total)
		assert.Equal(t, "2025-04-18", resp.ShowDate)
		assert.Equal(t, []string{"MODIFY_GUESTS", "CANCEL", "REQUEST_DATE_CHANGE"}, resp.PermittedActions)
		assert.Empty(t, resp.AllowedTransitions)
	})

	t.Run("admin sees transitions", func(t *testing.T) {
		f := newFixture(false)
		f.reservations.On("GetByID", mock.Anything, int64(1)).Return(reservation(domain.StatusPendingApproval), nil)

		resp, err := f.svc.GetByID(context.Background(), 1, 99, true)
		require.NoError(t, err)
		assert.Empty(t, resp.PermittedActions)
		assert.Equal(t, []string{"confirmed", "rejected", "cancelled"}, resp.AllowedTransitions)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		f := newFixture(false)
		f.reservations.On("GetByID", mock.Anything, int64(1)).Return(reservation(domain.StatusConfirmed), nil)

		_, err := f.svc.GetByID(context.Background(), 1, 8, false)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(false)
		f.reservations.On("GetByID", mock.Anything, int64(2)).Return(nil, reservationRepo.ErrReservationNotFound)

		_, err := f.svc.GetByID(context.Background(), 2, 7, false)
		assert.ErrorIs(t, err, ErrReservationNotFound)
	})
}

func TestGetUserReservations(t *testing.T) {
	f := newFixture(false)
	confirmed := domain.StatusConfirmed
	f.reservations.On("GetByUserID", mock.Anything, int64(7), &confirmed).
		Return([]domain.Reservation{*reservation(domain.StatusConfirmed)}, nil)

	resp, err := f.svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{
		UserID: 7, RequesterID: 7, Status: ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Reservations, 1)
	assert.Equal(t, "c0ffee", resp.Reservations[0].Reference)

	_, err = f.svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{UserID: 7, RequesterID: 8})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{
		UserID: 7, RequesterID: 7, Status: ptr.Ptr("lost"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetShowReservations(t *testing.T) {
	f := newFixture(false)
	f.slots.On("GetByID", mock.Anything, int64(20)).Return(&domain.ShowSlot{ID: 20, Date: showDate}, nil)
	f.slots.On("GetByID", mock.Anything, int64(21)).Return(nil, slotRepo.ErrSlotNotFound)
	f.reservations.On("GetBySlot", mock.Anything, domain.ReservationsFilter{ShowSlotID: 20, IncludeInactive: true}).
		Return([]domain.Reservation{*reservation(domain.StatusCancelled)}, nil)

	resp, err := f.svc.GetShowReservations(context.Background(), &models.GetShowReservationsRequest{ShowID: 20, IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, resp.Reservations, 1)
	assert.Equal(t, "cancelled", resp.Reservations[0].Status)

	_, err = f.svc.GetShowReservations(context.Background(), &models.GetShowReservationsRequest{ShowID: 21})
	assert.ErrorIs(t, err, ErrShowNotFound)
}

func TestUpdateStatus_ConfirmWaitlisted(t *testing.T) {
	f := newFixture(false)
	f.reservations.On("GetByID", mock.Anything, int64(1)).Return(reservation(domain.StatusWaitlisted), nil)
	f.slots.On("Acquire", mock.Anything, int64(20), 4).Return(84, nil)
	f.reservations.On("Update", mock.Anything, mock.Anything).Return(nil, nil)

	resp, err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{AdminID: 99, Status: "confirmed"})
	require.NoError(t, err)

	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, []string{"cancelled", "completed", "moved_to_waitlist"}, resp.AllowedTransitions)
	f.slots.AssertExpectations(t)
	f.cache.AssertCalled(t, "InvalidateDate", mock.Anything, showDate)
	f.metrics.AssertCalled(t, "IncLifecycleAction", "ADMIN_CONFIRMED", "applied")
}

func TestUpdateStatus_ConfirmWaitlistedFull(t *testing.T) {
	conflict := fmt.Errorf("%w: slot 20", domain.ErrCapacityConflict)

	t.Run("rejected without overbooking", func(t *testing.T) {
		f := newFixture(false)
		f.reservations.On("GetByID", mock.Anything, int64(1)).Return(reservation(domain.StatusWaitlisted), nil)
		f.slots.On("Acquire", mock.Anything, int64(20), 4).Return(0, conflict)

		_, err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{AdminID: 99, Status: "confirmed"})
		assert.ErrorIs(t, err, ErrCapacityConflict)
		f.reservations.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		f.metrics.AssertCalled(t, "IncCapacityConflict", "admin_transition")
	})

	t.Run("forced with overbooking", func(t *testing.T) {
		f := newFixture(true)
		f.reservations.On("GetByID", mock.Anything, int64(1)).Return(reservation(domain.StatusWaitlisted), nil)
		f.slots.On("ForceAcquire", mock.Anything, int64(20), 4).Return(104, nil)
		f.reservations.On("Update", mock.Anything, mock.Anything).Return(nil, nil)

		resp, err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{AdminID: 99, Status: "confirmed"})
		require.NoError(t, err)
		assert.Equal(t, "confirmed", resp.Status)
		f.slots.AssertNotCalled(t, "Acquire", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdateStatus_RejectRefundsGiftCard(t *testing.T) {
	f := newFixture(false)
	res := reservation(domain.StatusPendingApproval)
	res.PromoCode = ptr.Ptr("GIFT-50")
	res.DiscountAmount = ptr.Ptr(decimal.NewFromInt(50))

	f.reservations.On("GetByID", mock.Anything, int64(1)).Return(res, nil)
	f.slots.On("Release", mock.Anything, int64(20), 4).Return(0, nil)
	f.promos.On("RefundGiftCard", mock.Anything, "GIFT-50", decimal.NewFromInt(50)).Return(nil)
	f.reservations.On("Update", mock.Anything, mock.Anything).Return(nil, nil)

	resp, err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		AdminID: 99, Status: "rejected", Reason: "private event",
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Cancellation)
	assert.Equal(t, "Admin 99", resp.Cancellation.Actor)
	assert.Equal(t, "private event", resp.Cancellation.Reason)
	f.slots.AssertExpectations(t)
	f.promos.AssertExpectations(t)
}

func TestUpdateStatus_MoveToAnotherShow(t *testing.T) {
	newDate := time.Date(2025, 4, 19, 0, 0, 0, 0, time.UTC)
	target := &domain.ShowSlot{ID: 30, Date: newDate, StartTime: "18:00", Capacity: 100, BookedCount: 10}

	t.Run("date change confirmed", func(t *testing.T) {
		f := newFixture(false)
		res := reservation(domain.StatusPendingDateChange)
		res.ModificationRequest = ptr.Ptr("Saturday please")

		f.reservations.On("GetByID", mock.Anything, int64(1)).Return(res, nil)
		f.slots.On("GetByID", mock.Anything, int64(30)).Return(target, nil)
		f.slots.On("Release", mock.Anything, int64(20), 4).Return(40, nil)
		f.slots.On("Acquire", mock.Anything, int64(30), 4).Return(14, nil)
		f.reservations.On("Update", mock.Anything, mock.Anything).Return(nil, nil)

		resp, err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			AdminID: 99, Status: "confirmed", NewShowID: ptr.Ptr(int64(30)),
		})
		require.NoError(t, err)

		assert.Equal(t, int64(30), resp.ShowID)
		assert.Equal(t, "2025-04-19", resp.ShowDate)
		assert.Equal(t, "18:00", resp.ShowTime)
		assert.Nil(t, resp.ModificationRequest)
		f.slots.AssertExpectations(t)
		f.cache.AssertCalled(t, "InvalidateDate", mock.Anything, showDate)
		f.cache.AssertCalled(t, "InvalidateDate", mock.Anything, newDate)
	})

	t.Run("only for date change requests", func(t *testing.T) {
		f := newFixture(false)
		f.reservations.On("GetByID", mock.Anything, int64(1)).Return(reservation(domain.StatusPendingApproval), nil)

		_, err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			AdminID: 99, Status: "confirmed", NewShowID: ptr.Ptr(int64(30)),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
		f.slots.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("closed target", func(t *testing.T) {
		f := newFixture(false)
		closed := *target
		closed.IsManuallyClosed = true
		f.reservations.On("GetByID", mock.Anything, int64(1)).Return(reservation(domain.StatusPendingDateChange), nil)
		f.slots.On("GetByID", mock.Anything, int64(30)).Return(&closed, nil)

		_, err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			AdminID: 99, Status: "confirmed", NewShowID: ptr.Ptr(int64(30)),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
		f.slots.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdateStatus_Errors(t *testing.T) {
	f := newFixture(false)
	f.reservations.On("GetByID", mock.Anything, int64(1)).Return(reservation(domain.StatusCancelled), nil)
	f.reservations.On("GetByID", mock.Anything, int64(2)).Return(nil, reservationRepo.ErrReservationNotFound)
	f.reservations.On("GetByID", mock.Anything, int64(3)).Return(nil, errors.New("connection reset"))

	_, err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{AdminID: 99, Status: "confirmed"})
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
	var notPermitted *domain.ActionNotPermittedError
	assert.True(t, errors.As(err, &notPermitted))

	_, err = f.svc.UpdateStatus(context.Background(), 2, &models.UpdateStatusRequest{AdminID: 99, Status: "confirmed"})
	assert.ErrorIs(t, err, ErrReservationNotFound)

	_, err = f.svc.UpdateStatus(context.Background(), 3, &models.UpdateStatusRequest{AdminID: 99, Status: "confirmed"})
	assert.ErrorIs(t, err, ErrInternal)

	_, err = f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{AdminID: 99, Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	f.reservations.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
