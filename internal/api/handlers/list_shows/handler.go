package list_shows

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShowBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShowBookingService/internal/service/shows"
	"github.com/m04kA/SMC-ShowBookingService/internal/service/shows/models"
)

const (
	msgInvalidPeriod = "некорректный период, ожидается from и to в формате YYYY-MM-DD"
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

// Handle GET /api/v1/admin/shows?from=2025-04-01&to=2025-04-30
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req := &models.ListShowsRequest{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		if errors.Is(err, shows.ErrInvalidInput) {
			h.logger.Warn("GET /admin/shows - Invalid period: from=%q, to=%q, error=%v", req.From, req.To, err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
		h.logger.Error("GET /admin/shows - Failed to list shows: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/shows - Shows retrieved: count=%d", len(result.Shows))
	handlers.RespondJSON(w, http.StatusOK, result)
}
