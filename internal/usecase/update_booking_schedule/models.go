package update_booking_schedule

import "time"

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID  int64     // ID бронирования
	EventStart time.Time // Новое начало события
	EventEnd   time.Time // Новый конец события
	UserID     int64     // ID пользователя, выполняющего перенос
}

// Response модель ответа с перенесенным бронированием
type Response struct {
	ID         int64     // ID бронирования
	VenueID    int64     // ID площадки
	EventStart time.Time // Начало события
	EventEnd   time.Time // Конец события
	Status     string    // Статус бронирования
	UpdatedAt  time.Time // Время обновления
}
