package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotNotAvailable возвращается, когда интервал площадки занят
	// (нарушение exclusion constraint на пересечение интервалов)
	ErrSlotNotAvailable = errors.New("booking.repository: slot not available")

	// ErrVersionConflict возвращается, когда оптимистическая блокировка
	// отклонила запись производных полей
	ErrVersionConflict = errors.New("booking.repository: version conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")

	// ErrEncodeVendors возвращается при ошибке сериализации данных поставщиков
	ErrEncodeVendors = errors.New("booking.repository: failed to encode vendors")
)
