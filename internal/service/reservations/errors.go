package reservations

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrShowNotFound возвращается, когда показ не найден
	ErrShowNotFound = errors.New("show not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrTransitionNotAllowed возвращается при недопустимой смене статуса
	ErrTransitionNotAllowed = errors.New("status transition not allowed")

	// ErrCapacityConflict возвращается, когда на показе не хватает мест
	ErrCapacityConflict = errors.New("capacity conflict")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
