package create_reservation

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("create_reservation: slot not found")

	// ErrSlotInPast возвращается при попытке забронировать прошедший показ
	ErrSlotInPast = errors.New("create_reservation: show already started")

	// ErrSlotClosed возвращается, когда слот закрыт администратором
	ErrSlotClosed = errors.New("create_reservation: slot is closed for booking")

	// ErrSlotFull возвращается, когда свободных мест недостаточно
	ErrSlotFull = errors.New("create_reservation: not enough free seats")

	// ErrCapacityConflict возвращается, когда места заняли параллельным запросом
	ErrCapacityConflict = errors.New("create_reservation: capacity conflict")

	// ErrPackageNotFound возвращается, когда пакет не найден
	ErrPackageNotFound = errors.New("create_reservation: package not found")

	// ErrPackageNotOffered возвращается, когда пакет не предлагается на этом показе
	ErrPackageNotOffered = errors.New("create_reservation: package is not offered for this show")

	// ErrAddOnNotFound возвращается, когда дополнение не найдено
	ErrAddOnNotFound = errors.New("create_reservation: add-on not found")

	// ErrAddOnNotEligible возвращается, когда для дополнения не хватает гостей
	ErrAddOnNotEligible = errors.New("create_reservation: add-on not eligible for guest count")

	// ErrMerchandiseNotFound возвращается, когда товар не найден
	ErrMerchandiseNotFound = errors.New("create_reservation: merchandise item not found")

	// ErrPromoRejected возвращается, когда переданный промокод не принят
	ErrPromoRejected = errors.New("create_reservation: promo code rejected")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
