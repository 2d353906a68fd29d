package record_transaction

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("record_transaction: booking not found")

	// ErrPONotFound возвращается, когда заказ поставщику не найден
	ErrPONotFound = errors.New("record_transaction: purchase order not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("record_transaction: invalid input data")

	// ErrReconciliationPending возвращается, когда транзакция записана,
	// но сверка владельца отложена до фонового повтора
	ErrReconciliationPending = errors.New("record_transaction: transaction recorded, reconciliation pending")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("record_transaction: internal error")
)
