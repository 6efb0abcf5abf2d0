package quote_price

import "errors"

var (
	// ErrPackageNotFound возвращается, когда пакет не найден
	ErrPackageNotFound = errors.New("quote_price: package not found")

	// ErrAddOnNotFound возвращается, когда дополнение не найдено
	ErrAddOnNotFound = errors.New("quote_price: add-on not found")

	// ErrMerchandiseNotFound возвращается, когда товар не найден
	ErrMerchandiseNotFound = errors.New("quote_price: merchandise item not found")

	// ErrAddOnNotEligible возвращается, когда для дополнения не хватает гостей
	ErrAddOnNotEligible = errors.New("quote_price: add-on not eligible for guest count")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("quote_price: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("quote_price: internal error")
)
