package record_transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/VenueBookingService/internal/service/transactions"
	"github.com/m04kA/VenueBookingService/internal/service/transactions/models"
)

// UseCase use case для записи транзакции в леджер
//
// Тонкая обертка над сервисом транзакций: вся логика классификации
// и сверки живет там, здесь только трансляция ошибок для API-слоя.
// Запись и сверка - два упорядоченных шага; если второй не удался,
// транзакция уже в леджере и возвращается вместе с признаком
// отложенной сверки.
type UseCase struct {
	ledger TransactionLedger
	logger Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(ledger TransactionLedger, logger Logger) *UseCase {
	return &UseCase{
		ledger: ledger,
		logger: logger,
	}
}

// Execute выполняет запись транзакции
func (uc *UseCase) Execute(ctx context.Context, req *models.RecordTransactionRequest) (*models.TransactionResponse, error) {
	uc.logger.Info("RecordTransaction: booking=%d direction=%s amount=%.2f",
		req.BookingID, req.Direction, req.Amount)

	resp, err := uc.ledger.Record(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, transactions.ErrInvalidInput):
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		case errors.Is(err, transactions.ErrBookingNotFound):
			return nil, ErrBookingNotFound
		case errors.Is(err, transactions.ErrPONotFound):
			return nil, ErrPONotFound
		case errors.Is(err, transactions.ErrReconciliationFailed):
			uc.logger.Warn("RecordTransaction: reconciliation deferred: %v", err)
			return nil, ErrReconciliationPending
		default:
			uc.logger.Error("RecordTransaction: ledger error: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	return resp, nil
}
