package create_booking

import (
	"time"

	"github.com/m04kA/VenueBookingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	VenueID    int64     // ID площадки
	EventName  string    // Название мероприятия
	GuestCount int       // Количество гостей
	EventStart time.Time // Начало события
	EventEnd   time.Time // Конец события (полуинтервал, не входит)

	TotalAmount float64 // Полная стоимость бронирования

	CateringVendor *domain.VendorAssignment         // Кейтеринг (опционально)
	ServiceVendors []domain.ServiceVendorAssignment // Поставщики услуг (опционально)

	Notes  *string // Дополнительные заметки (опционально)
	UserID int64   // ID пользователя, создающего бронирование
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         int64     // ID созданного бронирования
	VenueID    int64     // ID площадки
	EventName  string    // Название мероприятия
	GuestCount int       // Количество гостей
	EventStart time.Time // Начало события
	EventEnd   time.Time // Конец события
	Status     string    // Статус бронирования

	TotalAmount   float64 // Полная стоимость
	AdvanceAmount float64 // Оплачено (производное от леджера)
	PaymentStatus string  // Платежный статус

	Notes *string // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
