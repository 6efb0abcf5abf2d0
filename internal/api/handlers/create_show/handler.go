package create_show

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShowBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShowBookingService/internal/service/shows"
	"github.com/m04kA/SMC-ShowBookingService/internal/service/shows/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgShowExists         = "показ на это время уже существует"
	msgInvalidShow        = "некорректные параметры показа"
)

type Handler struct {
	service ShowService
	logger  Logger
}

func NewHandler(service ShowService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/shows
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateShowRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/shows - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, shows.ErrShowExists):
			h.logger.Warn("POST /admin/shows - Show exists: date=%s, time=%s", req.Date, req.StartTime)
			handlers.RespondConflict(w, msgShowExists)

		case errors.Is(err, shows.ErrInvalidInput):
			h.logger.Warn("POST /admin/shows - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidShow)

		default:
			h.logger.Error("POST /admin/shows - Failed to create show: date=%s, error=%v", req.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/shows - Show created: show_id=%d, date=%s", result.ID, result.Date)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
