package create_reservation

import (
	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
	"github.com/m04kA/SMC-ShowBookingService/internal/pricing"
	"github.com/m04kA/SMC-ShowBookingService/internal/usecase/quote_price"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID       int64
	SlotID       int64
	PackageID    int64
	GuestCount   int
	AddOnIDs     []int64
	Merchandise  []quote_price.MerchandiseLine
	PromoCode    string
	Channel      domain.Channel
	JoinWaitlist bool    // записаться в лист ожидания, если мест нет
	Notes        *string // опционально
}

// Response модель ответа
type Response struct {
	Reservation    *domain.Reservation
	Components     []pricing.ComponentAmount
	AvailableSpots int
}

// Settings настройки создания бронирований из конфигурации
type Settings struct {
	CustomerStatus        domain.ReservationStatus
	AllowAdminOverbooking bool
}
