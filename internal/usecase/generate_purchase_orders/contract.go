package generate_purchase_orders

import (
	"context"
	"time"

	"github.com/m04kA/VenueBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// PurchaseOrderRepository интерфейс репозитория заказов поставщикам
type PurchaseOrderRepository interface {
	NextPONumber(ctx context.Context, now time.Time) (string, error)
	Create(ctx context.Context, po *domain.PurchaseOrder) (*domain.PurchaseOrder, error)
	ExistsForBooking(ctx context.Context, bookingID int64) (bool, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
