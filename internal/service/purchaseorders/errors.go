package purchaseorders

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("purchaseorders: invalid input data")

	// ErrPONotFound возвращается, когда заказ поставщику не найден
	ErrPONotFound = errors.New("purchaseorders: purchase order not found")

	// ErrStatusConflict возвращается при недопустимом переходе статуса
	// заказа, в том числе когда статус изменился конкурентно
	ErrStatusConflict = errors.New("purchaseorders: status transition not allowed")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("purchaseorders: internal error")
)
