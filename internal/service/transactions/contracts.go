package transactions

import (
	"context"

	"github.com/m04kA/VenueBookingService/internal/domain"
)

// TransactionRepository интерфейс репозитория транзакций
type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error)
	GetByID(ctx context.Context, id int64) (*domain.Transaction, error)
	ListByBooking(ctx context.Context, bookingID int64) ([]*domain.Transaction, error)
	ListUnreconciled(ctx context.Context, limit int) ([]*domain.Transaction, error)
	SumSuccessfulInboundByBooking(ctx context.Context, bookingID int64, excludeID *int64) (float64, error)
	UpdateStatus(ctx context.Context, id int64, status, expectedFrom domain.TransactionStatus, markUnreconciled bool) error
	MarkReconciled(ctx context.Context, id int64) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// PurchaseOrderRepository интерфейс репозитория заказов поставщикам
type PurchaseOrderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.PurchaseOrder, error)
}

// Reconciler интерфейс сервиса сверки производного платежного состояния
type Reconciler interface {
	ReconcileBooking(ctx context.Context, bookingID int64) (*domain.Booking, error)
	ReconcilePurchaseOrder(ctx context.Context, poID int64) (*domain.PurchaseOrder, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
