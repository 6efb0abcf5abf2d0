package shows

import "errors"

var (
	// ErrShowNotFound возвращается, когда показ не найден
	ErrShowNotFound = errors.New("show not found")

	// ErrShowExists возвращается, когда на эту дату и время показ уже есть
	ErrShowExists = errors.New("show already exists at this date and time")

	// ErrShowHasReservations возвращается при удалении показа с активными бронированиями
	ErrShowHasReservations = errors.New("show has active reservations")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
