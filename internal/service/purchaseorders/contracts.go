package purchaseorders

import (
	"context"

	"github.com/m04kA/VenueBookingService/internal/domain"
)

// PurchaseOrderRepository интерфейс репозитория заказов поставщикам
type PurchaseOrderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.PurchaseOrder, error)
	GetByPONumber(ctx context.Context, poNumber string) (*domain.PurchaseOrder, error)
	ListByBooking(ctx context.Context, bookingID int64) ([]*domain.PurchaseOrder, error)
	UpdateStatusGuarded(ctx context.Context, id int64, status domain.POStatus, allowedFrom []domain.POStatus) error
	CancelGuarded(ctx context.Context, id int64, reason string, allowedFrom []domain.POStatus) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
