package domain

// Business validation constants
const (
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxEventNameLength          = 200
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BlockingStatuses статусы бронирований, занимающих слот площадки
// Используется при проверке доступности интервала
var BlockingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses статусы бронирований, не занимающих слот
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusCompleted,
}
