package get_show

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShowBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ShowBookingService/internal/service/shows"
)

const (
	msgInvalidShowID = "некорректный ID показа"
	msgShowNotFound  = "показ не найден"
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

// Handle GET /api/v1/admin/shows/{showId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	showID, err := handlers.PathInt64(r, "showId")
	if err != nil {
		h.logger.Warn("GET /admin/shows/{showId} - Invalid show ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShowID)
		return
	}

	result, err := h.service.GetByID(r.Context(), showID)
	if err != nil {
		if errors.Is(err, shows.ErrShowNotFound) {
			h.logger.Warn("GET /admin/shows/{showId} - Show not found: show_id=%d", showID)
			handlers.RespondNotFound(w, msgShowNotFound)
			return
		}
		h.logger.Error("GET /admin/shows/{showId} - Failed to get show: show_id=%d, error=%v", showID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/shows/{showId} - Show retrieved: show_id=%d, state=%s", showID, result.State)
	handlers.RespondJSON(w, http.StatusOK, result)
}
