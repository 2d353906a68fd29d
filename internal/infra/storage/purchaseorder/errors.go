package purchaseorder

import "errors"

var (
	// ErrPONotFound возвращается, когда заказ поставщику не найден
	ErrPONotFound = errors.New("purchaseorder.repository: purchase order not found")

	// ErrDuplicatePONumber возвращается при коллизии номера заказа
	ErrDuplicatePONumber = errors.New("purchaseorder.repository: duplicate po number")

	// ErrStatusConflict возвращается, когда guarded-обновление статуса
	// не прошло из-за конкурентного изменения статуса
	ErrStatusConflict = errors.New("purchaseorder.repository: status changed concurrently")

	// ErrVersionConflict возвращается, когда оптимистическая блокировка
	// отклонила запись производных полей
	ErrVersionConflict = errors.New("purchaseorder.repository: version conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("purchaseorder.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("purchaseorder.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("purchaseorder.repository: failed to scan row")

	// ErrEncodeLineItems возвращается при ошибке сериализации позиций заказа
	ErrEncodeLineItems = errors.New("purchaseorder.repository: failed to encode line items")
)
