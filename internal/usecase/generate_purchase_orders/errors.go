package generate_purchase_orders

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("generate_purchase_orders: booking not found")

	// ErrBookingCancelled возвращается при попытке генерации заказов
	// для отмененного бронирования
	ErrBookingCancelled = errors.New("generate_purchase_orders: booking is cancelled")

	// ErrPurchaseOrdersExist возвращается, когда заказы для бронирования
	// уже сгенерированы. Повторная генерация не идемпотентна по номерам,
	// поэтому запрещена.
	ErrPurchaseOrdersExist = errors.New("generate_purchase_orders: purchase orders already exist")

	// ErrNoVendorsAssigned возвращается, когда у бронирования нет
	// назначенных поставщиков
	ErrNoVendorsAssigned = errors.New("generate_purchase_orders: booking has no vendors assigned")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("generate_purchase_orders: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("generate_purchase_orders: internal error")
)
