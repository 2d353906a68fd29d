package generate_purchase_orders

import "github.com/m04kA/VenueBookingService/internal/domain"

// Request модель запроса на генерацию заказов поставщикам
type Request struct {
	BookingID int64 // ID бронирования
	UserID    int64 // ID пользователя, запускающего генерацию
}

// FailedVendor поставщик, для которого заказ построить не удалось
type FailedVendor struct {
	VendorName string // Имя поставщика
	Reason     string // Причина отказа
}

// Response модель ответа со сгенерированными заказами
//
// Генерация best-effort: отказ по одному поставщику не отменяет
// заказы остальных, неудачные поставщики перечисляются отдельно.
type Response struct {
	PurchaseOrders []*domain.PurchaseOrder // Успешно созданные заказы
	Failed         []FailedVendor          // Поставщики с ошибками
}
