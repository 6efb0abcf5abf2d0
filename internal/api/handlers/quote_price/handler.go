package quote_price

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ShowBookingService/internal/api/handlers"
	quotePrice "github.com/m04kA/SMC-ShowBookingService/internal/usecase/quote_price"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgPackageNotFound     = "пакет не найден"
	msgAddOnNotFound       = "дополнение не найдено"
	msgMerchandiseNotFound = "товар не найден"
	msgAddOnNotEligible    = "дополнение недоступно для выбранного количества гостей"
	msgInvalidQuoteRequest = "некорректные параметры расчёта"
)

type Handler struct {
	useCase QuotePriceUseCase
	logger  Logger
}

func NewHandler(useCase QuotePriceUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/quotes
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /quotes - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, quotePrice.ErrPackageNotFound):
			h.logger.Warn("POST /quotes - Package not found: package_id=%d", req.PackageID)
			handlers.RespondNotFound(w, msgPackageNotFound)

		case errors.Is(err, quotePrice.ErrAddOnNotFound):
			h.logger.Warn("POST /quotes - Add-on not found: %v", err)
			handlers.RespondNotFound(w, msgAddOnNotFound)

		case errors.Is(err, quotePrice.ErrMerchandiseNotFound):
			h.logger.Warn("POST /quotes - Merchandise not found: %v", err)
			handlers.RespondNotFound(w, msgMerchandiseNotFound)

		case errors.Is(err, quotePrice.ErrAddOnNotEligible):
			h.logger.Warn("POST /quotes - Add-on not eligible: %v", err)
			handlers.RespondBadRequest(w, msgAddOnNotEligible)

		case errors.Is(err, quotePrice.ErrInvalidInput):
			h.logger.Warn("POST /quotes - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidQuoteRequest)

		default:
			h.logger.Error("POST /quotes - Failed to quote: package_id=%d, error=%v", req.PackageID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /quotes - Quote built: package_id=%d, guests=%d, total=%s",
		req.PackageID, req.GuestCount, result.Total.StringFixed(2))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
