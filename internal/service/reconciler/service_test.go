package reconciler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VenueBookingService/internal/domain"
	bookingRepo "github.com/m04kA/VenueBookingService/internal/infra/storage/booking"
	poRepo "github.com/m04kA/VenueBookingService/internal/infra/storage/purchaseorder"
)

type fakeBookingRepo struct {
	booking *domain.Booking

	// число оставшихся конфликтов версии перед успешной записью
	conflictsLeft int
	updateCalls   int
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *f.booking
	return &copied, nil
}

func (f *fakeBookingRepo) UpdatePaymentState(_ context.Context, id int64, advanceAmount float64, paymentStatus domain.PaymentStatus, version int64) error {
	f.updateCalls++
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		f.booking.Version++
		return bookingRepo.ErrVersionConflict
	}
	if version != f.booking.Version {
		return bookingRepo.ErrVersionConflict
	}

	f.booking.AdvanceAmount = advanceAmount
	f.booking.PaymentStatus = paymentStatus
	f.booking.Version++
	return nil
}

type fakePORepo struct {
	po *domain.PurchaseOrder

	conflictsLeft int
	updateCalls   int
}

func (f *fakePORepo) GetByID(_ context.Context, id int64) (*domain.PurchaseOrder, error) {
	if f.po == nil || f.po.ID != id {
		return nil, poRepo.ErrPONotFound
	}
	copied := *f.po
	return &copied, nil
}

func (f *fakePORepo) UpdatePaymentState(_ context.Context, po *domain.PurchaseOrder) error {
	f.updateCalls++
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		f.po.Version++
		return poRepo.ErrVersionConflict
	}
	if po.Version != f.po.Version {
		return poRepo.ErrVersionConflict
	}

	updated := *po
	updated.Version++
	f.po = &updated
	po.Version++
	return nil
}

type fakeTxnRepo struct {
	inboundTotal  float64
	outboundTotal float64
}

func (f *fakeTxnRepo) SumSuccessfulInboundByBooking(context.Context, int64, *int64) (float64, error) {
	return f.inboundTotal, nil
}

func (f *fakeTxnRepo) SumSuccessfulOutboundByPurchaseOrder(context.Context, int64) (float64, error) {
	return f.outboundTotal, nil
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newBookingService(bRepo *fakeBookingRepo, tRepo *fakeTxnRepo) *Service {
	return NewService(bRepo, &fakePORepo{}, tRepo, nopLogger{})
}

func TestReconcileBooking(t *testing.T) {
	t.Run("derives amount and status from ledger", func(t *testing.T) {
		bRepo := &fakeBookingRepo{booking: &domain.Booking{
			ID:            1,
			TotalAmount:   100000,
			PaymentStatus: domain.PaymentStatusUnpaid,
		}}
		svc := newBookingService(bRepo, &fakeTxnRepo{inboundTotal: 30000})

		booking, err := svc.ReconcileBooking(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, 30000.0, booking.AdvanceAmount)
		assert.Equal(t, domain.PaymentStatusPartiallyPaid, booking.PaymentStatus)
		assert.Equal(t, 30000.0, bRepo.booking.AdvanceAmount)
	})

	t.Run("full payment marks booking paid", func(t *testing.T) {
		bRepo := &fakeBookingRepo{booking: &domain.Booking{ID: 1, TotalAmount: 100000}}
		svc := newBookingService(bRepo, &fakeTxnRepo{inboundTotal: 100000})

		booking, err := svc.ReconcileBooking(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusPaid, booking.PaymentStatus)
	})

	t.Run("refund drops booking back to unpaid", func(t *testing.T) {
		bRepo := &fakeBookingRepo{booking: &domain.Booking{
			ID:            1,
			TotalAmount:   100000,
			AdvanceAmount: 30000,
			PaymentStatus: domain.PaymentStatusPartiallyPaid,
		}}
		svc := newBookingService(bRepo, &fakeTxnRepo{inboundTotal: 0})

		booking, err := svc.ReconcileBooking(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, 0.0, booking.AdvanceAmount)
		assert.Equal(t, domain.PaymentStatusUnpaid, booking.PaymentStatus)
	})

	t.Run("idempotent without new transactions", func(t *testing.T) {
		bRepo := &fakeBookingRepo{booking: &domain.Booking{ID: 1, TotalAmount: 100000}}
		svc := newBookingService(bRepo, &fakeTxnRepo{inboundTotal: 30000})

		first, err := svc.ReconcileBooking(context.Background(), 1)
		require.NoError(t, err)

		second, err := svc.ReconcileBooking(context.Background(), 1)
		require.NoError(t, err)

		assert.Equal(t, first.AdvanceAmount, second.AdvanceAmount)
		assert.Equal(t, first.PaymentStatus, second.PaymentStatus)
	})

	t.Run("retries on version conflict", func(t *testing.T) {
		bRepo := &fakeBookingRepo{
			booking:       &domain.Booking{ID: 1, TotalAmount: 100000},
			conflictsLeft: 2,
		}
		svc := newBookingService(bRepo, &fakeTxnRepo{inboundTotal: 50000})

		booking, err := svc.ReconcileBooking(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, 3, bRepo.updateCalls)
		assert.Equal(t, domain.PaymentStatusPartiallyPaid, booking.PaymentStatus)
	})

	t.Run("surfaces conflict after retries exhausted", func(t *testing.T) {
		bRepo := &fakeBookingRepo{
			booking:       &domain.Booking{ID: 1, TotalAmount: 100000},
			conflictsLeft: 10,
		}
		svc := newBookingService(bRepo, &fakeTxnRepo{inboundTotal: 50000})

		_, err := svc.ReconcileBooking(context.Background(), 1)

		assert.ErrorIs(t, err, ErrConcurrencyConflict)
		assert.Equal(t, maxReconcileAttempts, bRepo.updateCalls)
	})

	t.Run("booking not found", func(t *testing.T) {
		svc := newBookingService(&fakeBookingRepo{}, &fakeTxnRepo{})

		_, err := svc.ReconcileBooking(context.Background(), 99)

		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestReconcilePurchaseOrder(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	newPOService := func(pRepo *fakePORepo, tRepo *fakeTxnRepo) *Service {
		return NewService(&fakeBookingRepo{}, pRepo, tRepo, nopLogger{}).
			WithTimeProvider(fixedTime{t: now})
	}

	t.Run("partial payment", func(t *testing.T) {
		pRepo := &fakePORepo{po: &domain.PurchaseOrder{
			ID:          5,
			TotalAmount: 80000,
			Status:      domain.POStatusApproved,
		}}
		svc := newPOService(pRepo, &fakeTxnRepo{outboundTotal: 30000})

		po, err := svc.ReconcilePurchaseOrder(context.Background(), 5)

		require.NoError(t, err)
		assert.Equal(t, domain.POStatusPartiallyPaid, po.Status)
		assert.Equal(t, 30000.0, po.PaidAmount)
		assert.Equal(t, 50000.0, po.BalanceAmount)
	})

	t.Run("full payment sets paid and completedAt", func(t *testing.T) {
		pRepo := &fakePORepo{po: &domain.PurchaseOrder{
			ID:          5,
			TotalAmount: 80000,
			Status:      domain.POStatusApproved,
		}}
		svc := newPOService(pRepo, &fakeTxnRepo{outboundTotal: 80000})

		po, err := svc.ReconcilePurchaseOrder(context.Background(), 5)

		require.NoError(t, err)
		require.NotNil(t, po.CompletedAt)
		assert.Equal(t, domain.POStatusPaid, po.Status)
		assert.Equal(t, now, *po.CompletedAt)
	})

	t.Run("cancelled order is never revived", func(t *testing.T) {
		pRepo := &fakePORepo{po: &domain.PurchaseOrder{
			ID:          5,
			TotalAmount: 80000,
			Status:      domain.POStatusCancelled,
		}}
		svc := newPOService(pRepo, &fakeTxnRepo{outboundTotal: 80000})

		po, err := svc.ReconcilePurchaseOrder(context.Background(), 5)

		require.NoError(t, err)
		assert.Equal(t, domain.POStatusCancelled, po.Status)
	})

	t.Run("retries on version conflict", func(t *testing.T) {
		pRepo := &fakePORepo{
			po: &domain.PurchaseOrder{
				ID:          5,
				TotalAmount: 80000,
				Status:      domain.POStatusApproved,
			},
			conflictsLeft: 1,
		}
		svc := newPOService(pRepo, &fakeTxnRepo{outboundTotal: 40000})

		po, err := svc.ReconcilePurchaseOrder(context.Background(), 5)

		require.NoError(t, err)
		assert.Equal(t, 2, pRepo.updateCalls)
		assert.Equal(t, domain.POStatusPartiallyPaid, po.Status)
	})

	t.Run("purchase order not found", func(t *testing.T) {
		svc := newPOService(&fakePORepo{}, &fakeTxnRepo{})

		_, err := svc.ReconcilePurchaseOrder(context.Background(), 99)

		assert.ErrorIs(t, err, ErrPONotFound)
	})
}
