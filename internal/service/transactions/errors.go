package transactions

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("transactions: invalid input data")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("transactions: booking not found")

	// ErrPONotFound возвращается, когда заказ поставщику не найден
	ErrPONotFound = errors.New("transactions: purchase order not found")

	// ErrTransactionNotFound возвращается, когда транзакция не найдена
	ErrTransactionNotFound = errors.New("transactions: transaction not found")

	// ErrInvalidStatusTransition возвращается при недопустимом переходе
	// статуса транзакции. Легальны только initiated→success|failed
	// и success→refunded.
	ErrInvalidStatusTransition = errors.New("transactions: invalid status transition")

	// ErrReconciliationFailed возвращается, когда транзакция записана,
	// но сверка владельца не удалась. Транзакция остается помеченной
	// как несверенная и будет подхвачена sweep'ом.
	ErrReconciliationFailed = errors.New("transactions: reconciliation failed, transaction recorded")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("transactions: internal error")
)
