package record_transaction

import (
	"context"

	"github.com/m04kA/VenueBookingService/internal/service/transactions/models"
)

// TransactionLedger интерфейс сервиса леджера транзакций
type TransactionLedger interface {
	Record(ctx context.Context, req *models.RecordTransactionRequest) (*models.TransactionResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
