package get_calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ShowBookingService/internal/availability"
	getCalendar "github.com/m04kA/SMC-ShowBookingService/internal/usecase/get_calendar"
	"github.com/m04kA/SMC-ShowBookingService/pkg/logger"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *getCalendar.Request) (*getCalendar.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*getCalendar.Response)
	return resp, args.Error(1)
}

func TestHandle(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, &getCalendar.Request{Year: 2025, Month: time.April}).Return(&getCalendar.Response{
		Year:  2025,
		Month: time.April,
		Days: []getCalendar.Day{
			{Date: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), State: availability.DayNoShows},
			{
				Date:  time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
				State: availability.DayHasOpen,
				Slots: []getCalendar.Slot{{ID: 3, StartTime: "19:30", ShowType: "regular", State: availability.SlotOpen, Capacity: 80, AvailableSpots: 12}},
			},
		},
	}, nil)

	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/calendar?year=2025&month=4", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CalendarResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Month)
	require.Len(t, resp.Days, 2)
	assert.Equal(t, "NO_SHOWS", resp.Days[0].State)
	assert.Empty(t, resp.Days[0].Shows)
	require.Len(t, resp.Days[1].Shows, 1)
	assert.Equal(t, 12, resp.Days[1].Shows[0].AvailableSpots)
	assert.Equal(t, []int64{}, resp.Days[1].Shows[0].PackageIDs)
}

func TestHandle_InvalidQuery(t *testing.T) {
	uc := &mockUseCase{}
	h := NewHandler(uc, logger.NewNop())

	for _, query := range []string{"?month=4", "?year=2025&month=13", "?year=2025&month=x"} {
		rec := httptest.NewRecorder()
		h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/calendar"+query, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)

	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, getCalendar.ErrInvalidInput)
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/calendar?year=1&month=1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
