package reconciler

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/VenueBookingService/internal/domain"
	bookingRepo "github.com/m04kA/VenueBookingService/internal/infra/storage/booking"
	poRepo "github.com/m04kA/VenueBookingService/internal/infra/storage/purchaseorder"
)

// maxReconcileAttempts ограничивает повторы read-recompute-write цикла
// при конфликте версий с конкурентной сверкой того же агрегата
const maxReconcileAttempts = 3

// Service сверка производного платежного состояния с леджером транзакций
//
// Сверка - чистая функция от множества транзакций: повторный вызов без
// новых транзакций дает тот же результат. Сами записи транзакций никогда
// не изменяются; персистится только владеющий агрегат.
type Service struct {
	bookingRepo  BookingRepository
	poRepo       PurchaseOrderRepository
	txnRepo      TransactionRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса сверки
func NewService(
	bookingRepo BookingRepository,
	poRepo PurchaseOrderRepository,
	txnRepo TransactionRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		poRepo:       poRepo,
		txnRepo:      txnRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет провайдер времени (для тестирования)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// ReconcileBooking пересчитывает платежное состояние бронирования:
// advanceAmount = сумма успешных входящих транзакций, paymentStatus
// по порогам unpaid / partially_paid / paid.
//
// Запись идет через compare-and-swap по версии агрегата: две конкурентные
// сверки одного бронирования сериализуются, проигравшая перечитывает
// агрегат и повторяет расчет.
func (s *Service) ReconcileBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	for attempt := 0; attempt < maxReconcileAttempts; attempt++ {
		booking, err := s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return nil, ErrBookingNotFound
			}
			return nil, fmt.Errorf("%w: ReconcileBooking - get booking: %v", ErrInternal, err)
		}

		paidTotal, err := s.txnRepo.SumSuccessfulInboundByBooking(ctx, bookingID, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: ReconcileBooking - sum transactions: %v", ErrInternal, err)
		}

		paymentStatus := domain.BookingPaymentStatus(paidTotal, booking.TotalAmount)

		err = s.bookingRepo.UpdatePaymentState(ctx, bookingID, paidTotal, paymentStatus, booking.Version)
		if errors.Is(err, bookingRepo.ErrVersionConflict) {
			s.logger.Warn("ReconcileBooking: version conflict for booking=%d, attempt=%d", bookingID, attempt+1)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: ReconcileBooking - update payment state: %v", ErrInternal, err)
		}

		booking.AdvanceAmount = paidTotal
		booking.PaymentStatus = paymentStatus
		booking.Version++

		s.logger.Info("ReconcileBooking: booking=%d paidTotal=%.2f status=%s",
			bookingID, paidTotal, paymentStatus)
		return booking, nil
	}

	s.logger.Error("ReconcileBooking: retries exhausted for booking=%d", bookingID)
	return nil, ErrConcurrencyConflict
}

// ReconcilePurchaseOrder пересчитывает платежное состояние заказа:
// paidAmount = сумма успешных исходящих транзакций по заказу,
// balanceAmount = totalAmount - paidAmount, статус по таблице переходов.
// Сверка никогда не оживляет отмененный заказ; оплаченный заказ
// остается оплаченным, completedAt выставляется один раз.
func (s *Service) ReconcilePurchaseOrder(ctx context.Context, poID int64) (*domain.PurchaseOrder, error) {
	for attempt := 0; attempt < maxReconcileAttempts; attempt++ {
		po, err := s.poRepo.GetByID(ctx, poID)
		if err != nil {
			if errors.Is(err, poRepo.ErrPONotFound) {
				return nil, ErrPONotFound
			}
			return nil, fmt.Errorf("%w: ReconcilePurchaseOrder - get purchase order: %v", ErrInternal, err)
		}

		paidAmount, err := s.txnRepo.SumSuccessfulOutboundByPurchaseOrder(ctx, poID)
		if err != nil {
			return nil, fmt.Errorf("%w: ReconcilePurchaseOrder - sum transactions: %v", ErrInternal, err)
		}

		po.ApplyPaidAmount(paidAmount, s.timeProvider.Now())

		err = s.poRepo.UpdatePaymentState(ctx, po)
		if errors.Is(err, poRepo.ErrVersionConflict) {
			s.logger.Warn("ReconcilePurchaseOrder: version conflict for po=%d, attempt=%d", poID, attempt+1)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: ReconcilePurchaseOrder - update payment state: %v", ErrInternal, err)
		}

		s.logger.Info("ReconcilePurchaseOrder: po=%d paid=%.2f balance=%.2f status=%s",
			poID, po.PaidAmount, po.BalanceAmount, po.Status)
		return po, nil
	}

	s.logger.Error("ReconcilePurchaseOrder: retries exhausted for po=%d", poID)
	return nil, ErrConcurrencyConflict
}
