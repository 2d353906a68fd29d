package transactions

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VenueBookingService/internal/domain"
	bookingstore "github.com/m04kA/VenueBookingService/internal/infra/storage/booking"
	postore "github.com/m04kA/VenueBookingService/internal/infra/storage/purchaseorder"
	txnstore "github.com/m04kA/VenueBookingService/internal/infra/storage/transaction"
	"github.com/m04kA/VenueBookingService/internal/service/transactions/models"
	"github.com/m04kA/VenueBookingService/pkg/ptr"
)

type fakeTxnRepo struct {
	mu           sync.Mutex
	byID         map[int64]*domain.Transaction
	unreconciled []*domain.Transaction
	inboundTotal float64
	nextID       int64

	created          []*domain.Transaction
	reconciledIDs    []int64
	markReconcileErr error
	createErr        error
	sumErr           error

	// beforeStatusUpdate вызывается перед guarded-обновлением статуса,
	// чтобы воспроизвести конкурентный переход между чтением и записью
	beforeStatusUpdate func()
}

func newFakeTxnRepo() *fakeTxnRepo {
	return &fakeTxnRepo{byID: make(map[int64]*domain.Transaction), nextID: 1}
}

func (f *fakeTxnRepo) Create(_ context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *txn
	created.ID = f.nextID
	f.nextID++
	f.byID[created.ID] = &created
	f.created = append(f.created, &created)
	return &created, nil
}

func (f *fakeTxnRepo) GetByID(_ context.Context, id int64) (*domain.Transaction, error) {
	txn, ok := f.byID[id]
	if !ok {
		return nil, txnstore.ErrTransactionNotFound
	}
	copied := *txn
	return &copied, nil
}

func (f *fakeTxnRepo) ListByBooking(_ context.Context, bookingID int64) ([]*domain.Transaction, error) {
	result := make([]*domain.Transaction, 0)
	for _, txn := range f.byID {
		if txn.BookingID == bookingID {
			result = append(result, txn)
		}
	}
	return result, nil
}

func (f *fakeTxnRepo) ListUnreconciled(_ context.Context, limit int) ([]*domain.Transaction, error) {
	if len(f.unreconciled) > limit {
		return f.unreconciled[:limit], nil
	}
	return f.unreconciled, nil
}

func (f *fakeTxnRepo) SumSuccessfulInboundByBooking(context.Context, int64, *int64) (float64, error) {
	if f.sumErr != nil {
		return 0, f.sumErr
	}
	return f.inboundTotal, nil
}

func (f *fakeTxnRepo) UpdateStatus(_ context.Context, id int64, status, expectedFrom domain.TransactionStatus, markUnreconciled bool) error {
	if f.beforeStatusUpdate != nil {
		f.beforeStatusUpdate()
	}

	txn, ok := f.byID[id]
	if !ok {
		return txnstore.ErrTransactionNotFound
	}
	// Guard повторяет семантику хранилища: WHERE id AND status=expectedFrom
	if txn.Status != expectedFrom {
		return txnstore.ErrStatusConflict
	}
	txn.Status = status
	if markUnreconciled {
		txn.Reconciled = false
	}
	return nil
}

func (f *fakeTxnRepo) MarkReconciled(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.markReconcileErr != nil {
		return f.markReconcileErr
	}
	f.reconciledIDs = append(f.reconciledIDs, id)
	if txn, ok := f.byID[id]; ok {
		txn.Reconciled = true
	}
	return nil
}

type fakeBookingRepo struct {
	booking *domain.Booking
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, bookingstore.ErrBookingNotFound
	}
	copied := *f.booking
	return &copied, nil
}

type fakePORepo struct {
	po *domain.PurchaseOrder
}

func (f *fakePORepo) GetByID(_ context.Context, id int64) (*domain.PurchaseOrder, error) {
	if f.po == nil || f.po.ID != id {
		return nil, postore.ErrPONotFound
	}
	copied := *f.po
	return &copied, nil
}

type fakeReconciler struct {
	mu           sync.Mutex
	bookingCalls []int64
	poCalls      []int64
	err          error
}

func (f *fakeReconciler) ReconcileBooking(_ context.Context, bookingID int64) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	f.bookingCalls = append(f.bookingCalls, bookingID)
	return &domain.Booking{ID: bookingID}, nil
}

func (f *fakeReconciler) ReconcilePurchaseOrder(_ context.Context, poID int64) (*domain.PurchaseOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	f.poCalls = append(f.poCalls, poID)
	return &domain.PurchaseOrder{ID: poID}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	svc        *Service
	txnRepo    *fakeTxnRepo
	reconciler *fakeReconciler
}

func newFixture(booking *domain.Booking, po *domain.PurchaseOrder) *fixture {
	txnRepo := newFakeTxnRepo()
	reconciler := &fakeReconciler{}
	svc := NewService(
		txnRepo,
		&fakeBookingRepo{booking: booking},
		&fakePORepo{po: po},
		reconciler,
		50,
		4,
		nopLogger{},
	)
	return &fixture{svc: svc, txnRepo: txnRepo, reconciler: reconciler}
}

func inboundRequest(amount float64, status string) *models.RecordTransactionRequest {
	return &models.RecordTransactionRequest{
		BookingID: 1,
		Amount:    amount,
		Mode:      "upi",
		Direction: "inbound",
		Status:    status,
		CreatedBy: 10,
	}
}

func outboundRequest(amount float64, status string) *models.RecordTransactionRequest {
	req := inboundRequest(amount, status)
	req.Direction = "outbound"
	req.VendorType = ptr.Ptr("catering")
	return req
}

func TestRecord_Validation(t *testing.T) {
	booking := &domain.Booking{ID: 1, TotalAmount: 100000}

	tests := []struct {
		name    string
		mutate  func(*models.RecordTransactionRequest)
		wantErr error
	}{
		{"zero amount", func(r *models.RecordTransactionRequest) { r.Amount = 0 }, ErrInvalidInput},
		{"negative amount", func(r *models.RecordTransactionRequest) { r.Amount = -500 }, ErrInvalidInput},
		{"missing booking", func(r *models.RecordTransactionRequest) { r.BookingID = 0 }, ErrInvalidInput},
		{"unknown mode", func(r *models.RecordTransactionRequest) { r.Mode = "barter" }, ErrInvalidInput},
		{"unknown direction", func(r *models.RecordTransactionRequest) { r.Direction = "sideways" }, ErrInvalidInput},
		{"unknown status", func(r *models.RecordTransactionRequest) { r.Status = "maybe" }, ErrInvalidInput},
		{"initial status failed", func(r *models.RecordTransactionRequest) { r.Status = "failed" }, ErrInvalidInput},
		{"initial status refunded", func(r *models.RecordTransactionRequest) { r.Status = "refunded" }, ErrInvalidInput},
		{"inbound with purchase order", func(r *models.RecordTransactionRequest) { r.PurchaseOrderID = ptr.Ptr(int64(5)) }, ErrInvalidInput},
		{"inbound with vendor type", func(r *models.RecordTransactionRequest) { r.VendorType = ptr.Ptr("catering") }, ErrInvalidInput},
		{"outbound without vendor type", func(r *models.RecordTransactionRequest) {
			r.Direction = "outbound"
		}, ErrInvalidInput},
		{"outbound with unknown vendor type", func(r *models.RecordTransactionRequest) {
			r.Direction = "outbound"
			r.VendorType = ptr.Ptr("transport")
		}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(booking, nil)
			req := inboundRequest(30000, "success")
			tt.mutate(req)

			_, err := f.svc.Record(context.Background(), req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.txnRepo.created)
		})
	}

	t.Run("booking not found", func(t *testing.T) {
		f := newFixture(nil, nil)

		_, err := f.svc.Record(context.Background(), inboundRequest(30000, "success"))

		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestRecord_InboundClassification(t *testing.T) {
	booking := &domain.Booking{ID: 1, TotalAmount: 100000}

	tests := []struct {
		name      string
		priorPaid float64
		amount    float64
		wantType  string
	}{
		{"first payment is advance", 0, 30000, "advance"},
		{"subsequent payment is partial", 30000, 20000, "partial"},
		{"payment reaching total is full", 70000, 30000, "full"},
		{"single covering payment is full", 0, 100000, "full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(booking, nil)
			f.txnRepo.inboundTotal = tt.priorPaid

			resp, err := f.svc.Record(context.Background(), inboundRequest(tt.amount, "success"))

			require.NoError(t, err)
			assert.Equal(t, tt.wantType, resp.Type)
		})
	}
}

func TestRecord_Reconciliation(t *testing.T) {
	booking := &domain.Booking{ID: 1, TotalAmount: 100000}

	t.Run("success triggers booking reconciliation", func(t *testing.T) {
		f := newFixture(booking, nil)

		resp, err := f.svc.Record(context.Background(), inboundRequest(30000, "success"))

		require.NoError(t, err)
		assert.True(t, resp.Reconciled)
		assert.Equal(t, []int64{1}, f.reconciler.bookingCalls)
		assert.Equal(t, []int64{resp.ID}, f.txnRepo.reconciledIDs)
	})

	t.Run("initiated does not reconcile", func(t *testing.T) {
		f := newFixture(booking, nil)

		resp, err := f.svc.Record(context.Background(), inboundRequest(30000, "initiated"))

		require.NoError(t, err)
		assert.True(t, resp.Reconciled)
		assert.Empty(t, f.reconciler.bookingCalls)
		assert.Empty(t, f.txnRepo.reconciledIDs)
	})

	t.Run("outbound with purchase order reconciles the order", func(t *testing.T) {
		po := &domain.PurchaseOrder{ID: 7, BookingID: 1, VendorType: domain.VendorTypeCatering}
		f := newFixture(booking, po)

		req := outboundRequest(20000, "success")
		req.PurchaseOrderID = ptr.Ptr(int64(7))

		resp, err := f.svc.Record(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "vendor_payment", resp.Type)
		require.NotNil(t, resp.VendorType)
		assert.Equal(t, "catering", *resp.VendorType)
		assert.Equal(t, []int64{7}, f.reconciler.poCalls)
		assert.Empty(t, f.reconciler.bookingCalls)
	})

	t.Run("outbound without purchase order skips order reconciliation", func(t *testing.T) {
		f := newFixture(booking, nil)

		resp, err := f.svc.Record(context.Background(), outboundRequest(5000, "success"))

		require.NoError(t, err)
		assert.Empty(t, f.reconciler.poCalls)
		assert.Equal(t, []int64{resp.ID}, f.txnRepo.reconciledIDs)
	})

	t.Run("vendor type must match the purchase order", func(t *testing.T) {
		po := &domain.PurchaseOrder{ID: 7, BookingID: 1, VendorType: domain.VendorTypeService}
		f := newFixture(booking, po)

		req := outboundRequest(20000, "success")
		req.PurchaseOrderID = ptr.Ptr(int64(7))

		_, err := f.svc.Record(context.Background(), req)

		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Empty(t, f.txnRepo.created)
	})

	t.Run("purchase order of another booking rejected", func(t *testing.T) {
		po := &domain.PurchaseOrder{ID: 7, BookingID: 999, VendorType: domain.VendorTypeCatering}
		f := newFixture(booking, po)

		req := outboundRequest(20000, "success")
		req.PurchaseOrderID = ptr.Ptr(int64(7))

		_, err := f.svc.Record(context.Background(), req)

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown purchase order", func(t *testing.T) {
		f := newFixture(booking, nil)

		req := outboundRequest(20000, "success")
		req.PurchaseOrderID = ptr.Ptr(int64(7))

		_, err := f.svc.Record(context.Background(), req)

		assert.ErrorIs(t, err, ErrPONotFound)
	})

	t.Run("reconcile failure keeps transaction recorded", func(t *testing.T) {
		f := newFixture(booking, nil)
		f.reconciler.err = errors.New("storage unavailable")

		_, err := f.svc.Record(context.Background(), inboundRequest(30000, "success"))

		assert.ErrorIs(t, err, ErrReconciliationFailed)
		require.Len(t, f.txnRepo.created, 1)
		assert.False(t, f.txnRepo.created[0].Reconciled)
	})
}

func TestRecord_Reference(t *testing.T) {
	f := newFixture(&domain.Booking{ID: 1, TotalAmount: 100000}, nil)

	first, err := f.svc.Record(context.Background(), inboundRequest(10000, "initiated"))
	require.NoError(t, err)

	second, err := f.svc.Record(context.Background(), inboundRequest(10000, "initiated"))
	require.NoError(t, err)

	assert.Regexp(t, `^TXN-`, first.Reference)
	assert.NotEqual(t, first.Reference, second.Reference)
}

func TestUpdateStatus(t *testing.T) {
	booking := &domain.Booking{ID: 1, TotalAmount: 100000}

	record := func(t *testing.T, f *fixture, status string) int64 {
		t.Helper()
		resp, err := f.svc.Record(context.Background(), inboundRequest(30000, status))
		require.NoError(t, err)
		return resp.ID
	}

	t.Run("initiated to success reconciles", func(t *testing.T) {
		f := newFixture(booking, nil)
		id := record(t, f, "initiated")
		require.Empty(t, f.reconciler.bookingCalls)

		resp, err := f.svc.UpdateStatus(context.Background(), id, &models.UpdateTransactionStatusRequest{Status: "success", UserID: 10})

		require.NoError(t, err)
		assert.Equal(t, "success", resp.Status)
		assert.True(t, resp.Reconciled)
		assert.Equal(t, []int64{1}, f.reconciler.bookingCalls)
	})

	t.Run("initiated to failed does not reconcile", func(t *testing.T) {
		f := newFixture(booking, nil)
		id := record(t, f, "initiated")

		resp, err := f.svc.UpdateStatus(context.Background(), id, &models.UpdateTransactionStatusRequest{Status: "failed", UserID: 10})

		require.NoError(t, err)
		assert.Equal(t, "failed", resp.Status)
		assert.Empty(t, f.reconciler.bookingCalls)
	})

	t.Run("success to refunded re-reconciles", func(t *testing.T) {
		f := newFixture(booking, nil)
		id := record(t, f, "success")
		require.Len(t, f.reconciler.bookingCalls, 1)

		resp, err := f.svc.UpdateStatus(context.Background(), id, &models.UpdateTransactionStatusRequest{Status: "refunded", UserID: 10})

		require.NoError(t, err)
		assert.Equal(t, "refunded", resp.Status)
		assert.Len(t, f.reconciler.bookingCalls, 2)
	})

	t.Run("illegal transitions rejected", func(t *testing.T) {
		f := newFixture(booking, nil)
		id := record(t, f, "initiated")

		_, err := f.svc.UpdateStatus(context.Background(), id, &models.UpdateTransactionStatusRequest{Status: "refunded", UserID: 10})
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)

		_, err = f.svc.UpdateStatus(context.Background(), id, &models.UpdateTransactionStatusRequest{Status: "initiated", UserID: 10})
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		f := newFixture(booking, nil)

		_, err := f.svc.UpdateStatus(context.Background(), 99, &models.UpdateTransactionStatusRequest{Status: "success", UserID: 10})

		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})

	t.Run("concurrent transition is not overwritten", func(t *testing.T) {
		f := newFixture(booking, nil)
		id := record(t, f, "initiated")

		// Между чтением и записью другой вызов успевает провести
		// initiated→success и сверить бронирование
		f.txnRepo.beforeStatusUpdate = func() {
			f.txnRepo.byID[id].Status = domain.TxnStatusSuccess
			f.txnRepo.byID[id].Reconciled = true
		}

		_, err := f.svc.UpdateStatus(context.Background(), id, &models.UpdateTransactionStatusRequest{Status: "failed", UserID: 10})

		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
		// Выигравший переход и его сверка остаются нетронутыми
		assert.Equal(t, domain.TxnStatusSuccess, f.txnRepo.byID[id].Status)
		assert.True(t, f.txnRepo.byID[id].Reconciled)
		assert.Empty(t, f.reconciler.bookingCalls)
	})

	t.Run("invalid status value", func(t *testing.T) {
		f := newFixture(booking, nil)
		id := record(t, f, "initiated")

		_, err := f.svc.UpdateStatus(context.Background(), id, &models.UpdateTransactionStatusRequest{Status: "done", UserID: 10})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestListByBooking(t *testing.T) {
	t.Run("returns recorded transactions", func(t *testing.T) {
		f := newFixture(&domain.Booking{ID: 1, TotalAmount: 100000}, nil)
		_, err := f.svc.Record(context.Background(), inboundRequest(10000, "initiated"))
		require.NoError(t, err)

		resp, err := f.svc.ListByBooking(context.Background(), 1)

		require.NoError(t, err)
		assert.Len(t, resp.Transactions, 1)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newFixture(nil, nil)

		_, err := f.svc.ListByBooking(context.Background(), 1)

		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestReconcilePending(t *testing.T) {
	booking := &domain.Booking{ID: 1, TotalAmount: 100000}

	t.Run("empty queue", func(t *testing.T) {
		f := newFixture(booking, nil)

		count, err := f.svc.ReconcilePending(context.Background())

		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("reconciles pending transactions", func(t *testing.T) {
		f := newFixture(booking, nil)
		f.txnRepo.unreconciled = []*domain.Transaction{
			{ID: 1, BookingID: 1, Direction: domain.DirectionInbound, Status: domain.TxnStatusSuccess},
			{ID: 2, BookingID: 1, Direction: domain.DirectionInbound, Status: domain.TxnStatusSuccess},
		}

		count, err := f.svc.ReconcilePending(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.ElementsMatch(t, []int64{1, 2}, f.txnRepo.reconciledIDs)
	})

	t.Run("failure is reported", func(t *testing.T) {
		f := newFixture(booking, nil)
		f.reconciler.err = errors.New("storage unavailable")
		f.txnRepo.unreconciled = []*domain.Transaction{
			{ID: 1, BookingID: 1, Direction: domain.DirectionInbound, Status: domain.TxnStatusSuccess},
		}

		_, err := f.svc.ReconcilePending(context.Background())

		assert.ErrorIs(t, err, ErrReconciliationFailed)
	})
}
