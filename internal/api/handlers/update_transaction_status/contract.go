package update_transaction_status

import (
	"context"

	"github.com/m04kA/VenueBookingService/internal/service/transactions/models"
)

type TransactionService interface {
	UpdateStatus(ctx context.Context, id int64, req *models.UpdateTransactionStatusRequest) (*models.TransactionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
