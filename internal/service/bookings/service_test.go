package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VenueBookingService/internal/domain"
	bookingstore "github.com/m04kA/VenueBookingService/internal/infra/storage/booking"
	"github.com/m04kA/VenueBookingService/internal/service/bookings/models"
	"github.com/m04kA/VenueBookingService/pkg/ptr"
)

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
	err      error

	lastFilter domain.VenueBookingsFilter
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: make(map[int64]*domain.Booking)}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	return repo
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingstore.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) GetByVenueWithFilter(_ context.Context, filter domain.VenueBookingsFilter) ([]*domain.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastFilter = filter

	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.VenueID != filter.VenueID {
			continue
		}
		if !filter.IncludeInactive && !b.Blocks() {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingstore.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, reason string) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingstore.ErrBookingNotFound
	}
	b.Status = domain.StatusCancelled
	b.CancellationReason = &reason
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testBooking(id int64, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:        id,
		VenueID:   1,
		EventName: "Mehta Wedding Reception",
		Status:    status,
	}
}

func TestGetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := NewService(newFakeBookingRepo(testBooking(1, domain.StatusPending)), nopLogger{})

		resp, err := svc.GetByID(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, "Mehta Wedding Reception", resp.EventName)
	})

	t.Run("not found", func(t *testing.T) {
		svc := NewService(newFakeBookingRepo(), nopLogger{})

		_, err := svc.GetByID(context.Background(), 42)

		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := newFakeBookingRepo()
		repo.err = errors.New("connection refused")
		svc := NewService(repo, nopLogger{})

		_, err := svc.GetByID(context.Background(), 1)

		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestGetVenueBookings(t *testing.T) {
	t.Run("active bookings by default", func(t *testing.T) {
		repo := newFakeBookingRepo(
			testBooking(1, domain.StatusPending),
			testBooking(2, domain.StatusConfirmed),
			testBooking(3, domain.StatusCancelled),
		)
		svc := NewService(repo, nopLogger{})

		resp, err := svc.GetVenueBookings(context.Background(), &models.VenueBookingsRequest{VenueID: 1})

		require.NoError(t, err)
		assert.Len(t, resp.Bookings, 2)
	})

	t.Run("includeInactive returns all", func(t *testing.T) {
		repo := newFakeBookingRepo(
			testBooking(1, domain.StatusPending),
			testBooking(3, domain.StatusCancelled),
		)
		svc := NewService(repo, nopLogger{})

		resp, err := svc.GetVenueBookings(context.Background(), &models.VenueBookingsRequest{
			VenueID:         1,
			IncludeInactive: true,
		})

		require.NoError(t, err)
		assert.Len(t, resp.Bookings, 2)
	})

	t.Run("status filter", func(t *testing.T) {
		repo := newFakeBookingRepo(
			testBooking(1, domain.StatusPending),
			testBooking(2, domain.StatusConfirmed),
		)
		svc := NewService(repo, nopLogger{})

		resp, err := svc.GetVenueBookings(context.Background(), &models.VenueBookingsRequest{
			VenueID: 1,
			Status:  ptr.Ptr("confirmed"),
		})

		require.NoError(t, err)
		require.Len(t, resp.Bookings, 1)
		assert.Equal(t, "confirmed", resp.Bookings[0].Status)
	})

	t.Run("invalid status filter", func(t *testing.T) {
		svc := NewService(newFakeBookingRepo(), nopLogger{})

		_, err := svc.GetVenueBookings(context.Background(), &models.VenueBookingsRequest{
			VenueID: 1,
			Status:  ptr.Ptr("archived"),
		})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("missing venue", func(t *testing.T) {
		svc := NewService(newFakeBookingRepo(), nopLogger{})

		_, err := svc.GetVenueBookings(context.Background(), &models.VenueBookingsRequest{})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("endDate must be after startDate", func(t *testing.T) {
		svc := NewService(newFakeBookingRepo(), nopLogger{})
		start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

		_, err := svc.GetVenueBookings(context.Background(), &models.VenueBookingsRequest{
			VenueID:   1,
			StartDate: &start,
			EndDate:   &start,
		})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestConfirm(t *testing.T) {
	t.Run("pending becomes confirmed", func(t *testing.T) {
		svc := NewService(newFakeBookingRepo(testBooking(1, domain.StatusPending)), nopLogger{})

		resp, err := svc.Confirm(context.Background(), 1, 10)

		require.NoError(t, err)
		assert.Equal(t, "confirmed", resp.Status)
	})

	t.Run("confirmed cannot be confirmed again", func(t *testing.T) {
		svc := NewService(newFakeBookingRepo(testBooking(1, domain.StatusConfirmed)), nopLogger{})

		_, err := svc.Confirm(context.Background(), 1, 10)

		assert.ErrorIs(t, err, ErrStatusConflict)
	})

	t.Run("not found", func(t *testing.T) {
		svc := NewService(newFakeBookingRepo(), nopLogger{})

		_, err := svc.Confirm(context.Background(), 42, 10)

		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestComplete(t *testing.T) {
	t.Run("confirmed becomes completed", func(t *testing.T) {
		svc := NewService(newFakeBookingRepo(testBooking(1, domain.StatusConfirmed)), nopLogger{})

		resp, err := svc.Complete(context.Background(), 1, 10)

		require.NoError(t, err)
		assert.Equal(t, "completed", resp.Status)
	})

	t.Run("pending cannot be completed", func(t *testing.T) {
		svc := NewService(newFakeBookingRepo(testBooking(1, domain.StatusPending)), nopLogger{})

		_, err := svc.Complete(context.Background(), 1, 10)

		assert.ErrorIs(t, err, ErrStatusConflict)
	})
}

func TestCancel(t *testing.T) {
	cancelReq := &models.CancelBookingRequest{Reason: "event called off", UserID: 10}

	t.Run("pending can be cancelled", func(t *testing.T) {
		svc := NewService(newFakeBookingRepo(testBooking(1, domain.StatusPending)), nopLogger{})

		resp, err := svc.Cancel(context.Background(), 1, cancelReq)

		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.Status)
		require.NotNil(t, resp.CancellationReason)
		assert.Equal(t, "event called off", *resp.CancellationReason)
	})

	t.Run("completed cannot be cancelled", func(t *testing.T) {
		svc := NewService(newFakeBookingRepo(testBooking(1, domain.StatusCompleted)), nopLogger{})

		_, err := svc.Cancel(context.Background(), 1, cancelReq)

		assert.ErrorIs(t, err, ErrStatusConflict)
	})

	t.Run("reason is required", func(t *testing.T) {
		svc := NewService(newFakeBookingRepo(testBooking(1, domain.StatusPending)), nopLogger{})

		_, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 10})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("not found", func(t *testing.T) {
		svc := NewService(newFakeBookingRepo(), nopLogger{})

		_, err := svc.Cancel(context.Background(), 42, cancelReq)

		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}
