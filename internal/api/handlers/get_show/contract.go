package get_show

import (
	"context"

	"github.com/m04kA/SMC-ShowBookingService/internal/service/shows/models"
)

type ShowService interface {
	GetByID(ctx context.Context, id int64) (*models.ShowResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
