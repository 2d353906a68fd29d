package generate_purchase_orders

import (
	"context"

	uc "github.com/m04kA/VenueBookingService/internal/usecase/generate_purchase_orders"
)

type GeneratePurchaseOrdersUseCase interface {
	Execute(ctx context.Context, req *uc.Request) (*uc.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
