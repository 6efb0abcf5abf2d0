package reservation_action

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation_action: reservation not found")

	// ErrForbidden возвращается, когда пользователь не является владельцем бронирования
	ErrForbidden = errors.New("reservation_action: reservation belongs to another user")

	// ErrActionNotPermitted возвращается, когда действие запрещено статусом или сроком
	ErrActionNotPermitted = errors.New("reservation_action: action not permitted")

	// ErrCapacityConflict возвращается, когда на показе не хватает мест для новых гостей
	ErrCapacityConflict = errors.New("reservation_action: capacity conflict")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reservation_action: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reservation_action: internal error")
)
