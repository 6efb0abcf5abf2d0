package create_show

import (
	"context"

	"github.com/m04kA/SMC-ShowBookingService/internal/service/shows/models"
)

type ShowService interface {
	Create(ctx context.Context, req *models.CreateShowRequest) (*models.ShowResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
