package transactions

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/m04kA/VenueBookingService/internal/domain"
	bookingRepo "github.com/m04kA/VenueBookingService/internal/infra/storage/booking"
	poRepo "github.com/m04kA/VenueBookingService/internal/infra/storage/purchaseorder"
	txnRepo "github.com/m04kA/VenueBookingService/internal/infra/storage/transaction"
	"github.com/m04kA/VenueBookingService/internal/service/transactions/models"
)

// Service леджер платежных транзакций
//
// Транзакции append-only: после записи меняется только статус.
// Каждая запись или смена статуса, меняющая "успешные деньги",
// синхронно запускает сверку владельца - бронирования для входящих
// платежей, заказа поставщику для исходящих с purchaseOrderId.
type Service struct {
	txnRepo          TransactionRepository
	bookingRepo      BookingRepository
	poRepo           PurchaseOrderRepository
	reconciler       Reconciler
	sweepBatchSize   int
	sweepConcurrency int
	logger           Logger
}

// NewService создает новый экземпляр сервиса транзакций
func NewService(
	txnRepo TransactionRepository,
	bookingRepo BookingRepository,
	poRepo PurchaseOrderRepository,
	reconciler Reconciler,
	sweepBatchSize int,
	sweepConcurrency int,
	logger Logger,
) *Service {
	return &Service{
		txnRepo:          txnRepo,
		bookingRepo:      bookingRepo,
		poRepo:           poRepo,
		reconciler:       reconciler,
		sweepBatchSize:   sweepBatchSize,
		sweepConcurrency: sweepConcurrency,
		logger:           logger,
	}
}

// Record записывает транзакцию в леджер
//
// Тип входящей транзакции (advance/partial/full) классифицируется
// по накопленной сумме успешных платежей на момент записи и никогда
// не берется из запроса. Исходящие транзакции получают тип vendor_payment
// и обязаны указывать vendorType; исходящий платеж без purchaseOrderId
// допустим (ad-hoc оплата поставщику) и просто не участвует в сверке заказов.
//
// Запись и сверка - два упорядоченных атомарных шага. Ошибка сверки
// не проглатывается: транзакция остается записанной с reconciled=false,
// вызывающему возвращается ErrReconciliationFailed, а sweep повторит
// сверку позже.
func (s *Service) Record(ctx context.Context, req *models.RecordTransactionRequest) (*models.TransactionResponse, error) {
	s.logger.Info("Record: booking=%d direction=%s amount=%.2f", req.BookingID, req.Direction, req.Amount)

	txn, err := s.buildTransaction(ctx, req)
	if err != nil {
		return nil, err
	}

	created, err := s.txnRepo.Create(ctx, txn)
	if err != nil {
		s.logger.Error("Record: failed to create transaction for booking=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: Record - create transaction: %v", ErrInternal, err)
	}

	if created.CountsAsPaid() {
		if err := s.reconcileOwner(ctx, created); err != nil {
			s.logger.Error("Record: reconciliation failed for transaction=%d: %v", created.ID, err)
			return nil, fmt.Errorf("%w: transaction=%d: %v", ErrReconciliationFailed, created.ID, err)
		}
		created.Reconciled = true
	}

	s.logger.Info("Record: transaction=%d reference=%s type=%s recorded", created.ID, created.Reference, created.Type)
	return models.FromDomainTransaction(created), nil
}

// UpdateStatus меняет статус транзакции
//
// Разрешены только переходы initiated→success|failed и success→refunded;
// сумма транзакции не переписывается никогда. Переход, меняющий
// "успешные деньги" (initiated→success, success→refunded), повторно
// запускает сверку владельца.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateTransactionStatusRequest) (*models.TransactionResponse, error) {
	s.logger.Info("UpdateStatus: transaction=%d newStatus=%s by user=%d", id, req.Status, req.UserID)

	newStatus, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for transaction=%d", req.Status, id)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	txn, err := s.txnRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, txnRepo.ErrTransactionNotFound) {
			s.logger.Warn("UpdateStatus: transaction=%d not found", id)
			return nil, ErrTransactionNotFound
		}
		s.logger.Error("UpdateStatus: repository error for transaction=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if !txn.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: illegal transition %s→%s for transaction=%d", txn.Status, newStatus, id)
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidStatusTransition, txn.Status, newStatus)
	}

	affectsPaid := txn.AffectsPaidTotal(newStatus)

	// Guard по исходному статусу в WHERE самого UPDATE: конкурентный
	// переход (например, initiated→success против initiated→failed)
	// не затирается, проигравший получает отказ
	if err := s.txnRepo.UpdateStatus(ctx, id, newStatus, txn.Status, affectsPaid); err != nil {
		if errors.Is(err, txnRepo.ErrStatusConflict) {
			s.logger.Warn("UpdateStatus: transaction=%d changed concurrently", id)
			return nil, fmt.Errorf("%w: transaction changed concurrently", ErrInvalidStatusTransition)
		}
		s.logger.Error("UpdateStatus: failed to update transaction=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - update status: %v", ErrInternal, err)
	}

	txn.Status = newStatus
	if affectsPaid {
		txn.Reconciled = false
		if err := s.reconcileOwner(ctx, txn); err != nil {
			s.logger.Error("UpdateStatus: reconciliation failed for transaction=%d: %v", id, err)
			return nil, fmt.Errorf("%w: transaction=%d: %v", ErrReconciliationFailed, id, err)
		}
		txn.Reconciled = true
	}

	s.logger.Info("UpdateStatus: transaction=%d now %s", id, newStatus)
	return models.FromDomainTransaction(txn), nil
}

// ListByBooking получает транзакции бронирования
func (s *Service) ListByBooking(ctx context.Context, bookingID int64) (*models.TransactionListResponse, error) {
	if _, err := s.bookingRepo.GetByID(ctx, bookingID); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: ListByBooking - get booking: %v", ErrInternal, err)
	}

	txns, err := s.txnRepo.ListByBooking(ctx, bookingID)
	if err != nil {
		s.logger.Error("ListByBooking: repository error for booking=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: ListByBooking - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainTransactionList(txns), nil
}

// ReconcilePending повторяет сверку для успешных транзакций, у которых
// предыдущая сверка не удалась (процесс упал между записью и сверкой,
// хранилище было недоступно). Сверка идемпотентна, поэтому повтор
// безопасен. Независимые агрегаты сверяются параллельно с ограничением
// конкурентности.
func (s *Service) ReconcilePending(ctx context.Context) (int, error) {
	pending, err := s.txnRepo.ListUnreconciled(ctx, s.sweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("%w: ReconcilePending - list unreconciled: %v", ErrInternal, err)
	}

	if len(pending) == 0 {
		return 0, nil
	}

	s.logger.Info("ReconcilePending: %d transactions pending reconciliation", len(pending))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.sweepConcurrency)

	for _, txn := range pending {
		txn := txn
		g.Go(func() error {
			if err := s.reconcileOwner(gCtx, txn); err != nil {
				s.logger.Error("ReconcilePending: transaction=%d still failing: %v", txn.ID, err)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return len(pending), fmt.Errorf("%w: ReconcilePending: %v", ErrReconciliationFailed, err)
	}

	s.logger.Info("ReconcilePending: %d transactions reconciled", len(pending))
	return len(pending), nil
}

// reconcileOwner сверяет владельца транзакции и помечает транзакцию
// сверенной. Исходящий платеж без заказа сверки не требует.
func (s *Service) reconcileOwner(ctx context.Context, txn *domain.Transaction) error {
	switch {
	case txn.Direction == domain.DirectionInbound:
		if _, err := s.reconciler.ReconcileBooking(ctx, txn.BookingID); err != nil {
			return err
		}
	case txn.PurchaseOrderID != nil:
		if _, err := s.reconciler.ReconcilePurchaseOrder(ctx, *txn.PurchaseOrderID); err != nil {
			return err
		}
	}

	return s.txnRepo.MarkReconciled(ctx, txn.ID)
}

// buildTransaction валидирует запрос и собирает доменную модель
// с классификацией типа платежа
func (s *Service) buildTransaction(ctx context.Context, req *models.RecordTransactionRequest) (*domain.Transaction, error) {
	if req.Amount <= 0 {
		s.logger.Warn("Record: non-positive amount=%.2f for booking=%d", req.Amount, req.BookingID)
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingId is required", ErrInvalidInput)
	}

	mode, err := models.ToDomainMode(req.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid mode", ErrInvalidInput)
	}

	direction, err := models.ToDomainDirection(req.Direction)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid direction", ErrInvalidInput)
	}

	status, err := models.ToDomainStatus(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}
	// Новая транзакция может быть только initiated или success:
	// failed и refunded достижимы только через смену статуса
	if status != domain.TxnStatusInitiated && status != domain.TxnStatusSuccess {
		return nil, fmt.Errorf("%w: initial status must be initiated or success", ErrInvalidInput)
	}

	if direction == domain.DirectionInbound && req.PurchaseOrderID != nil {
		return nil, fmt.Errorf("%w: inbound transaction cannot reference a purchase order", ErrInvalidInput)
	}
	if direction == domain.DirectionInbound && req.VendorType != nil {
		return nil, fmt.Errorf("%w: inbound transaction cannot carry a vendor type", ErrInvalidInput)
	}

	// Исходящий платеж обязан указывать тип поставщика
	var vendorType *domain.VendorType
	if direction == domain.DirectionOutbound {
		if req.VendorType == nil {
			return nil, fmt.Errorf("%w: vendorType is required for outbound transactions", ErrInvalidInput)
		}
		vt, err := models.ToDomainVendorType(*req.VendorType)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid vendor type", ErrInvalidInput)
		}
		vendorType = &vt
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Record: booking=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: Record - get booking: %v", ErrInternal, err)
	}

	var txnType domain.TransactionType
	if direction == domain.DirectionInbound {
		priorPaid, err := s.txnRepo.SumSuccessfulInboundByBooking(ctx, req.BookingID, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: Record - sum prior payments: %v", ErrInternal, err)
		}
		txnType = domain.ClassifyInbound(priorPaid, req.Amount, booking.TotalAmount)
	} else {
		txnType = domain.TxnTypeVendorPayment

		if req.PurchaseOrderID != nil {
			po, err := s.poRepo.GetByID(ctx, *req.PurchaseOrderID)
			if err != nil {
				if errors.Is(err, poRepo.ErrPONotFound) {
					s.logger.Warn("Record: purchase order=%d not found", *req.PurchaseOrderID)
					return nil, ErrPONotFound
				}
				return nil, fmt.Errorf("%w: Record - get purchase order: %v", ErrInternal, err)
			}
			if po.BookingID != req.BookingID {
				return nil, fmt.Errorf("%w: purchase order belongs to another booking", ErrInvalidInput)
			}
			if *vendorType != po.VendorType {
				return nil, fmt.Errorf("%w: vendorType does not match the purchase order", ErrInvalidInput)
			}
		}
	}

	txn := &domain.Transaction{
		Reference:       "TXN-" + uuid.NewString(),
		BookingID:       req.BookingID,
		PurchaseOrderID: req.PurchaseOrderID,
		Amount:          req.Amount,
		Mode:            mode,
		Direction:       direction,
		VendorType:      vendorType,
		Type:            txnType,
		Status:          status,
		Notes:           req.Notes,
		CreatedBy:       req.CreatedBy,
	}
	// Несверенной считается только транзакция с "успешными деньгами"
	txn.Reconciled = !txn.CountsAsPaid()

	return txn, nil
}
