package reconciler

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reconciler: booking not found")

	// ErrPONotFound возвращается, когда заказ поставщику не найден
	ErrPONotFound = errors.New("reconciler: purchase order not found")

	// ErrConcurrencyConflict возвращается, когда запись производных полей
	// не прошла за отведенное число попыток из-за конкурентных сверок.
	// Единственный класс ошибок, который имеет смысл повторять как есть.
	ErrConcurrencyConflict = errors.New("reconciler: concurrent reconciliation conflict")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("reconciler: internal error")
)
