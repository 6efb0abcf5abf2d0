package get_show_reservations

import (
	"context"

	"github.com/m04kA/SMC-ShowBookingService/internal/service/reservations/models"
)

type ReservationService interface {
	GetShowReservations(ctx context.Context, req *models.GetShowReservationsRequest) (*models.ReservationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
