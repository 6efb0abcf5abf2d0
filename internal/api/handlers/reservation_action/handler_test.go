package reservation_action

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ShowBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
	"github.com/m04kA/SMC-ShowBookingService/internal/lifecycle"
	reservationAction "github.com/m04kA/SMC-ShowBookingService/internal/usecase/reservation_action"
	"github.com/m04kA/SMC-ShowBookingService/pkg/logger"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *reservationAction.Request) (*reservationAction.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*reservationAction.Response)
	return resp, args.Error(1)
}

func serve(uc *mockUseCase, path, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/reservations/{reservationId}/actions", NewHandler(uc, logger.NewNop()).Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req = req.WithContext(middleware.WithUser(req.Context(), 7, ""))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Cancel(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, &reservationAction.Request{
		ReservationID: 5, UserID: 7, Action: "CANCEL", Reason: "sick",
	}).Return(&reservationAction.Response{
		Reservation: &domain.Reservation{
			ID:       5,
			UserID:   7,
			ShowDate: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
			Status:   domain.StatusCancelled,
			Cancellation: &domain.CancellationInfo{
				At: time.Date(2029, 12, 1, 10, 0, 0, 0, time.UTC), Actor: "Guest 7", Reason: "sick",
			},
		},
		PermittedActions: []lifecycle.Action{},
	}, nil)

	rec := serve(uc, "/reservations/5/actions", `{"action": "CANCEL", "reason": "sick"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "cancelled", resp["status"])
	assert.Equal(t, []interface{}{}, resp["permittedActions"])
}

func TestHandle_DeadlinePassed(t *testing.T) {
	deadline := time.Date(2025, 2, 27, 0, 0, 0, 0, time.UTC)
	notPermitted := &domain.ActionNotPermittedError{
		Action: "CANCEL", Status: domain.StatusConfirmed, LeadDays: 10, RequiredLeadDays: 21, Deadline: &deadline,
	}
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: %w", reservationAction.ErrActionNotPermitted, notPermitted))

	rec := serve(uc, "/reservations/5/actions", `{"action": "CANCEL"}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp ActionRejectedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Deadline)
	assert.Equal(t, "2025-02-27", *resp.Deadline)
	assert.Equal(t, msgDeadlinePassed, resp.Error)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", reservationAction.ErrReservationNotFound, http.StatusNotFound},
		{"forbidden", reservationAction.ErrForbidden, http.StatusForbidden},
		{"status", reservationAction.ErrActionNotPermitted, http.StatusConflict},
		{"capacity", reservationAction.ErrCapacityConflict, http.StatusConflict},
		{"invalid", reservationAction.ErrInvalidInput, http.StatusBadRequest},
		{"internal", reservationAction.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)
			rec := serve(uc, "/reservations/5/actions", `{"action": "MODIFY_GUESTS", "newGuestCount": 3}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandle_InvalidID(t *testing.T) {
	uc := &mockUseCase{}
	rec := serve(uc, "/reservations/abc/actions", `{"action": "CANCEL"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
