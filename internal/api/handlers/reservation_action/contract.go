package reservation_action

import (
	"context"

	reservationAction "github.com/m04kA/SMC-ShowBookingService/internal/usecase/reservation_action"
)

type ReservationActionUseCase interface {
	Execute(ctx context.Context, req *reservationAction.Request) (*reservationAction.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
