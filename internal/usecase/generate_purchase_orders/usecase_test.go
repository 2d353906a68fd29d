package generate_purchase_orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VenueBookingService/internal/domain"
	bookingstore "github.com/m04kA/VenueBookingService/internal/infra/storage/booking"
	"github.com/m04kA/VenueBookingService/pkg/ptr"
)

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
	exists    bool
	nextSeq   int
	numberErr error
	createErr error

	created []*domain.PurchaseOrder
}

func (f *fakePORepo) NextPONumber(_ context.Context, now time.Time) (string, error) {
	if f.numberErr != nil {
		return "", f.numberErr
	}
	f.nextSeq++
	return domain.FormatPONumber(domain.POMonthKey(now), int64(f.nextSeq)), nil
}

func (f *fakePORepo) Create(_ context.Context, po *domain.PurchaseOrder) (*domain.PurchaseOrder, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *po
	created.ID = int64(len(f.created) + 1)
	f.created = append(f.created, &created)
	return &created, nil
}

func (f *fakePORepo) ExistsForBooking(context.Context, int64) (bool, error) {
	return f.exists, nil
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func newUseCase(booking *domain.Booking, poRepo *fakePORepo) *UseCase {
	return NewUseCase(&fakeBookingRepo{booking: booking}, poRepo, nopLogger{}).
		WithTimeProvider(fixedTime{t: testNow})
}

func cateringVendor() *domain.VendorAssignment {
	return &domain.VendorAssignment{
		Name:           "Spice Route Catering",
		Phone:          "+91-9876543210",
		Email:          "orders@spiceroute.example",
		PackageName:    "Royal Wedding Package",
		PricePerPerson: 1200,
		MenuSections: []domain.MenuSection{
			{Name: "Starters", Items: []string{"Paneer Tikka", "Hara Bhara Kebab"}},
			{Name: "Main Course", Items: []string{"Dal Makhani", "Biryani", "Naan"}},
		},
	}
}

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:             1,
		VenueID:        2,
		GuestCount:     250,
		Status:         domain.StatusConfirmed,
		CateringVendor: cateringVendor(),
		ServiceVendors: []domain.ServiceVendorAssignment{
			{ServiceName: "Decoration", Price: 75000, Name: "Bloom Decorators"},
			{ServiceName: "Photography", Price: 50000, Name: "Lens & Light"},
		},
	}
}

func TestExecute_Guards(t *testing.T) {
	t.Run("missing booking id", func(t *testing.T) {
		uc := newUseCase(testBooking(), &fakePORepo{})

		_, err := uc.Execute(context.Background(), &Request{UserID: 10})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("booking not found", func(t *testing.T) {
		uc := newUseCase(nil, &fakePORepo{})

		_, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 10})

		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("cancelled booking", func(t *testing.T) {
		booking := testBooking()
		booking.Status = domain.StatusCancelled
		uc := newUseCase(booking, &fakePORepo{})

		_, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 10})

		assert.ErrorIs(t, err, ErrBookingCancelled)
	})

	t.Run("orders already exist", func(t *testing.T) {
		uc := newUseCase(testBooking(), &fakePORepo{exists: true})

		_, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 10})

		assert.ErrorIs(t, err, ErrPurchaseOrdersExist)
	})

	t.Run("no vendors assigned", func(t *testing.T) {
		booking := testBooking()
		booking.CateringVendor = nil
		booking.ServiceVendors = nil
		uc := newUseCase(booking, &fakePORepo{})

		_, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 10})

		assert.ErrorIs(t, err, ErrNoVendorsAssigned)
	})
}

func TestExecute_GeneratesOrders(t *testing.T) {
	poRepo := &fakePORepo{}
	uc := newUseCase(testBooking(), poRepo)

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 10})

	require.NoError(t, err)
	require.Len(t, resp.PurchaseOrders, 3)
	assert.Empty(t, resp.Failed)

	// Номера выдаются последовательно в месячной серии
	assert.Equal(t, "PO-2026-09-0001", resp.PurchaseOrders[0].PONumber)
	assert.Equal(t, "PO-2026-09-0002", resp.PurchaseOrders[1].PONumber)
	assert.Equal(t, "PO-2026-09-0003", resp.PurchaseOrders[2].PONumber)

	for _, po := range resp.PurchaseOrders {
		assert.Equal(t, domain.POStatusDraft, po.Status)
		assert.Equal(t, int64(1), po.BookingID)
		assert.Zero(t, po.PaidAmount)
		assert.Equal(t, po.TotalAmount, po.BalanceAmount)
	}
}

func TestExecute_CateringOrder(t *testing.T) {
	t.Run("per-person pricing", func(t *testing.T) {
		poRepo := &fakePORepo{}
		booking := testBooking()
		booking.ServiceVendors = nil
		uc := newUseCase(booking, poRepo)

		resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 10})

		require.NoError(t, err)
		require.Len(t, resp.PurchaseOrders, 1)

		po := resp.PurchaseOrders[0]
		assert.Equal(t, domain.VendorTypeCatering, po.VendorType)
		assert.Equal(t, "Spice Route Catering", po.VendorName)

		// Две информационные позиции по секциям меню + строка пакета
		require.Len(t, po.LineItems, 3)
		assert.Equal(t, "Starters: Paneer Tikka, Hara Bhara Kebab", po.LineItems[0].Description)
		assert.Equal(t, 2, po.LineItems[0].Quantity)
		assert.Zero(t, po.LineItems[0].Amount)

		packageLine := po.LineItems[2]
		assert.Equal(t, "Royal Wedding Package", packageLine.Description)
		assert.Equal(t, 250, packageLine.Quantity)
		assert.Equal(t, 1200.0, packageLine.UnitPrice)
		assert.Equal(t, 300000.0, packageLine.Amount)
		assert.Equal(t, 300000.0, po.TotalAmount)
	})

	t.Run("flat price overrides per-person calculation", func(t *testing.T) {
		poRepo := &fakePORepo{}
		booking := testBooking()
		booking.ServiceVendors = nil
		booking.CateringVendor.FlatPrice = ptr.Ptr(250000.0)
		uc := newUseCase(booking, poRepo)

		resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 10})

		require.NoError(t, err)
		require.Len(t, resp.PurchaseOrders, 1)

		po := resp.PurchaseOrders[0]
		packageLine := po.LineItems[len(po.LineItems)-1]
		assert.Equal(t, 1, packageLine.Quantity)
		assert.Equal(t, 250000.0, packageLine.Amount)
		assert.Equal(t, 250000.0, po.TotalAmount)
	})
}

func TestExecute_ServiceOrders(t *testing.T) {
	poRepo := &fakePORepo{}
	booking := testBooking()
	booking.CateringVendor = nil
	uc := newUseCase(booking, poRepo)

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 10})

	require.NoError(t, err)
	require.Len(t, resp.PurchaseOrders, 2)

	decoration := resp.PurchaseOrders[0]
	assert.Equal(t, domain.VendorTypeService, decoration.VendorType)
	assert.Equal(t, "Bloom Decorators", decoration.VendorName)
	require.Len(t, decoration.LineItems, 1)
	assert.Equal(t, "Decoration", decoration.LineItems[0].Description)
	assert.Equal(t, 75000.0, decoration.TotalAmount)

	photography := resp.PurchaseOrders[1]
	assert.Equal(t, "Lens & Light", photography.VendorName)
	assert.Equal(t, 50000.0, photography.TotalAmount)
}

func TestExecute_BestEffort(t *testing.T) {
	t.Run("number allocation failure reported per vendor", func(t *testing.T) {
		poRepo := &fakePORepo{numberErr: fmt.Errorf("sequence unavailable")}
		uc := newUseCase(testBooking(), poRepo)

		resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 10})

		require.NoError(t, err)
		assert.Empty(t, resp.PurchaseOrders)
		require.Len(t, resp.Failed, 3)
		assert.Equal(t, "Spice Route Catering", resp.Failed[0].VendorName)
	})

	t.Run("create failure does not cancel other orders", func(t *testing.T) {
		poRepo := &fakePORepo{createErr: fmt.Errorf("insert failed")}
		uc := newUseCase(testBooking(), poRepo)

		resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, UserID: 10})

		require.NoError(t, err)
		assert.Empty(t, resp.PurchaseOrders)
		assert.Len(t, resp.Failed, 3)
	})
}
