package cancel_purchase_order

import (
	"context"

	"github.com/m04kA/VenueBookingService/internal/service/purchaseorders/models"
)

type PurchaseOrderService interface {
	Cancel(ctx context.Context, id int64, req *models.CancelPORequest) (*models.PurchaseOrderResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
