package get_calendar

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-ShowBookingService/internal/api/handlers"
	getCalendar "github.com/m04kA/SMC-ShowBookingService/internal/usecase/get_calendar"
)

const (
	msgInvalidYear  = "некорректный год, ожидается число"
	msgInvalidMonth = "некорректный месяц, ожидается число от 1 до 12"
	msgInvalidInput = "некорректный период календаря"
)

type Handler struct {
	useCase GetCalendarUseCase
	logger  Logger
}

func NewHandler(useCase GetCalendarUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/calendar?year=2025&month=4
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	year, err := strconv.Atoi(query.Get("year"))
	if err != nil {
		h.logger.Warn("GET /calendar - Invalid year: %v", err)
		handlers.RespondBadRequest(w, msgInvalidYear)
		return
	}

	month, err := strconv.Atoi(query.Get("month"))
	if err != nil || month < 1 || month > 12 {
		h.logger.Warn("GET /calendar - Invalid month: %q", query.Get("month"))
		handlers.RespondBadRequest(w, msgInvalidMonth)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getCalendar.Request{Year: year, Month: time.Month(month)})
	if err != nil {
		if errors.Is(err, getCalendar.ErrInvalidInput) {
			h.logger.Warn("GET /calendar - Invalid input: year=%d, month=%d, error=%v", year, month, err)
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}
		h.logger.Error("GET /calendar - Failed to build calendar: year=%d, month=%d, error=%v", year, month, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /calendar - Calendar built: year=%d, month=%d, days=%d", year, month, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
