package update_booking_schedule

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("update_booking_schedule: booking not found")

	// ErrInvalidInterval возвращается, когда новый интервал некорректен
	ErrInvalidInterval = errors.New("update_booking_schedule: invalid event interval")

	// ErrStatusConflict возвращается, когда бронирование в статусе,
	// не допускающем перенос
	ErrStatusConflict = errors.New("update_booking_schedule: booking cannot be rescheduled")

	// ErrSlotNotAvailable возвращается, когда новый интервал занят
	ErrSlotNotAvailable = errors.New("update_booking_schedule: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_booking_schedule: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_booking_schedule: internal error")
)
