package record_transaction

import (
	"context"

	"github.com/m04kA/VenueBookingService/internal/service/transactions/models"
)

type RecordTransactionUseCase interface {
	Execute(ctx context.Context, req *models.RecordTransactionRequest) (*models.TransactionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
