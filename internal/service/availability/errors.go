package availability

import "errors"

var (
	// ErrVenueNotFound возвращается, когда площадка не найдена
	ErrVenueNotFound = errors.New("availability: venue not found")

	// ErrInvalidInterval возвращается, когда endTime не позже startTime
	ErrInvalidInterval = errors.New("availability: invalid interval")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)
