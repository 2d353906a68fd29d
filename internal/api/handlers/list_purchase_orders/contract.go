package list_purchase_orders

import (
	"context"

	"github.com/m04kA/VenueBookingService/internal/service/purchaseorders/models"
)

type PurchaseOrderService interface {
	ListByBooking(ctx context.Context, bookingID int64) (*models.PurchaseOrderListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
