package approve_purchase_order

import (
	"context"

	"github.com/m04kA/VenueBookingService/internal/service/purchaseorders/models"
)

type PurchaseOrderService interface {
	Approve(ctx context.Context, id int64, userID int64) (*models.PurchaseOrderResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
