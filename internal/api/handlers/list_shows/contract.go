package list_shows

import (
	"context"

	"github.com/m04kA/SMC-ShowBookingService/internal/service/shows/models"
)

type ShowService interface {
	List(ctx context.Context, req *models.ListShowsRequest) (*models.ShowListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
