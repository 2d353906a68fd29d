package reconciler

import (
	"context"
	"time"

	"github.com/m04kA/VenueBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdatePaymentState(ctx context.Context, id int64, advanceAmount float64, paymentStatus domain.PaymentStatus, version int64) error
}

// PurchaseOrderRepository интерфейс репозитория заказов поставщикам
type PurchaseOrderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.PurchaseOrder, error)
	UpdatePaymentState(ctx context.Context, po *domain.PurchaseOrder) error
}

// TransactionRepository интерфейс репозитория транзакций
type TransactionRepository interface {
	SumSuccessfulInboundByBooking(ctx context.Context, bookingID int64, excludeID *int64) (float64, error)
	SumSuccessfulOutboundByPurchaseOrder(ctx context.Context, poID int64) (float64, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
