package purchaseorders

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VenueBookingService/internal/domain"
	postore "github.com/m04kA/VenueBookingService/internal/infra/storage/purchaseorder"
	"github.com/m04kA/VenueBookingService/internal/service/purchaseorders/models"
)

type fakePORepo struct {
	orders map[int64]*domain.PurchaseOrder
	err    error
}

func newFakePORepo(orders ...*domain.PurchaseOrder) *fakePORepo {
	repo := &fakePORepo{orders: make(map[int64]*domain.PurchaseOrder)}
	for _, po := range orders {
		repo.orders[po.ID] = po
	}
	return repo
}

func (f *fakePORepo) GetByID(_ context.Context, id int64) (*domain.PurchaseOrder, error) {
	if f.err != nil {
		return nil, f.err
	}
	po, ok := f.orders[id]
	if !ok {
		return nil, postore.ErrPONotFound
	}
	copied := *po
	return &copied, nil
}

func (f *fakePORepo) GetByPONumber(_ context.Context, poNumber string) (*domain.PurchaseOrder, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, po := range f.orders {
		if po.PONumber == poNumber {
			copied := *po
			return &copied, nil
		}
	}
	return nil, postore.ErrPONotFound
}

func (f *fakePORepo) ListByBooking(_ context.Context, bookingID int64) ([]*domain.PurchaseOrder, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make([]*domain.PurchaseOrder, 0)
	for _, po := range f.orders {
		if po.BookingID == bookingID {
			result = append(result, po)
		}
	}
	return result, nil
}

// Guard повторяет семантику хранилища: переход применяется только
// если текущий статус входит в allowedFrom
func (f *fakePORepo) UpdateStatusGuarded(_ context.Context, id int64, status domain.POStatus, allowedFrom []domain.POStatus) error {
	po, ok := f.orders[id]
	if !ok {
		return postore.ErrPONotFound
	}
	for _, allowed := range allowedFrom {
		if po.Status == allowed {
			po.Status = status
			return nil
		}
	}
	return postore.ErrStatusConflict
}

func (f *fakePORepo) CancelGuarded(_ context.Context, id int64, reason string, allowedFrom []domain.POStatus) error {
	po, ok := f.orders[id]
	if !ok {
		return postore.ErrPONotFound
	}
	for _, allowed := range allowedFrom {
		if po.Status == allowed {
			po.Status = domain.POStatusCancelled
			po.CancellationReason = &reason
			return nil
		}
	}
	return postore.ErrStatusConflict
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testPO(id int64, status domain.POStatus) *domain.PurchaseOrder {
	return &domain.PurchaseOrder{
		ID:         id,
		PONumber:   "PO-2026-09-0001",
		BookingID:  1,
		VendorName: "Spice Route Catering",
		Status:     status,
	}
}

func TestGetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := NewService(newFakePORepo(testPO(1, domain.POStatusDraft)), nopLogger{})

		resp, err := svc.GetByID(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, "PO-2026-09-0001", resp.PONumber)
	})

	t.Run("not found", func(t *testing.T) {
		svc := NewService(newFakePORepo(), nopLogger{})

		_, err := svc.GetByID(context.Background(), 42)

		assert.ErrorIs(t, err, ErrPONotFound)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := newFakePORepo()
		repo.err = errors.New("connection refused")
		svc := NewService(repo, nopLogger{})

		_, err := svc.GetByID(context.Background(), 1)

		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestGetByPONumber(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := NewService(newFakePORepo(testPO(1, domain.POStatusApproved)), nopLogger{})

		resp, err := svc.GetByPONumber(context.Background(), "PO-2026-09-0001")

		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.ID)
	})

	t.Run("empty number", func(t *testing.T) {
		svc := NewService(newFakePORepo(), nopLogger{})

		_, err := svc.GetByPONumber(context.Background(), "")

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("not found", func(t *testing.T) {
		svc := NewService(newFakePORepo(), nopLogger{})

		_, err := svc.GetByPONumber(context.Background(), "PO-2026-09-9999")

		assert.ErrorIs(t, err, ErrPONotFound)
	})
}

func TestListByBooking(t *testing.T) {
	repo := newFakePORepo(
		testPO(1, domain.POStatusDraft),
		testPO(2, domain.POStatusApproved),
	)
	svc := NewService(repo, nopLogger{})

	resp, err := svc.ListByBooking(context.Background(), 1)

	require.NoError(t, err)
	assert.Len(t, resp.PurchaseOrders, 2)
}

func TestApprove(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.POStatus
		wantErr error
	}{
		{"from draft", domain.POStatusDraft, nil},
		{"from pending", domain.POStatusPending, nil},
		{"from approved", domain.POStatusApproved, ErrStatusConflict},
		{"from partially_paid", domain.POStatusPartiallyPaid, ErrStatusConflict},
		{"from paid", domain.POStatusPaid, ErrStatusConflict},
		{"from cancelled", domain.POStatusCancelled, ErrStatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newFakePORepo(testPO(1, tt.from)), nopLogger{})

			resp, err := svc.Approve(context.Background(), 1, 10)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, string(domain.POStatusApproved), resp.Status)
		})
	}

	t.Run("not found", func(t *testing.T) {
		svc := NewService(newFakePORepo(), nopLogger{})

		_, err := svc.Approve(context.Background(), 42, 10)

		assert.ErrorIs(t, err, ErrPONotFound)
	})
}

func TestCancel(t *testing.T) {
	cancelReq := &models.CancelPORequest{Reason: "vendor unavailable", UserID: 10}

	tests := []struct {
		name    string
		from    domain.POStatus
		wantErr error
	}{
		{"from draft", domain.POStatusDraft, nil},
		{"from pending", domain.POStatusPending, nil},
		{"from approved", domain.POStatusApproved, nil},
		{"from partially_paid", domain.POStatusPartiallyPaid, nil},
		{"from paid", domain.POStatusPaid, ErrStatusConflict},
		{"from cancelled", domain.POStatusCancelled, ErrStatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newFakePORepo(testPO(1, tt.from)), nopLogger{})

			resp, err := svc.Cancel(context.Background(), 1, cancelReq)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, string(domain.POStatusCancelled), resp.Status)
			require.NotNil(t, resp.CancellationReason)
			assert.Equal(t, "vendor unavailable", *resp.CancellationReason)
		})
	}

	t.Run("reason is required", func(t *testing.T) {
		svc := NewService(newFakePORepo(testPO(1, domain.POStatusDraft)), nopLogger{})

		_, err := svc.Cancel(context.Background(), 1, &models.CancelPORequest{UserID: 10})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("not found", func(t *testing.T) {
		svc := NewService(newFakePORepo(), nopLogger{})

		_, err := svc.Cancel(context.Background(), 42, cancelReq)

		assert.ErrorIs(t, err, ErrPONotFound)
	})
}
