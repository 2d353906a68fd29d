package create_booking

import "errors"

var (
	// ErrVenueNotFound возвращается, когда площадка не найдена
	ErrVenueNotFound = errors.New("create_booking: venue not found")

	// ErrInvalidInterval возвращается, когда интервал события некорректен
	// (endTime не позже startTime или интервал в прошлом)
	ErrInvalidInterval = errors.New("create_booking: invalid event interval")

	// ErrSlotNotAvailable возвращается, когда интервал площадки занят
	// активным бронированием
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
