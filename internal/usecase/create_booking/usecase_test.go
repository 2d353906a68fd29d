package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VenueBookingService/internal/domain"
	"github.com/m04kA/VenueBookingService/internal/integrations/venueservice"
)

type fakeBookingRepo struct {
	conflicts []*domain.Booking
	created   *domain.Booking
	createErr error
}

func (f *fakeBookingRepo) GetBlockingForInterval(_ context.Context, _ int64, _, _ time.Time, _ *int64) ([]*domain.Booking, error) {
	return f.conflicts, nil
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *booking
	created.ID = 1
	f.created = &created
	return &created, nil
}

type fakeVenueClient struct {
	err error
}

func (f *fakeVenueClient) GetVenue(_ context.Context, venueID int64) (*venueservice.Venue, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &venueservice.Venue{ID: venueID}, nil
}

// fakeTxManager выполняет замыкание без реальной транзакции
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func newUseCase(repo *fakeBookingRepo, client *fakeVenueClient, txm *fakeTxManager) *UseCase {
	return NewUseCase(repo, client, txm, nopLogger{}).WithTimeProvider(fixedTime{t: testNow})
}

func validRequest() *Request {
	return &Request{
		VenueID:     1,
		EventName:   "Mehta Wedding Reception",
		GuestCount:  250,
		EventStart:  testNow.Add(24 * time.Hour),
		EventEnd:    testNow.Add(30 * time.Hour),
		TotalAmount: 500000,
		UserID:      10,
	}
}

func TestExecute_Success(t *testing.T) {
	repo := &fakeBookingRepo{}
	txm := &fakeTxManager{}
	uc := newUseCase(repo, &fakeVenueClient{}, txm)

	resp, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, 1, txm.calls)

	// Платежные поля производные и начинаются с нуля
	assert.Zero(t, resp.AdvanceAmount)
	assert.Equal(t, string(domain.PaymentStatusUnpaid), resp.PaymentStatus)
	require.NotNil(t, repo.created)
	assert.Zero(t, repo.created.AdvanceAmount)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{"missing user", func(r *Request) { r.UserID = 0 }, ErrInvalidInput},
		{"missing venue", func(r *Request) { r.VenueID = 0 }, ErrInvalidInput},
		{"empty event name", func(r *Request) { r.EventName = "" }, ErrInvalidInput},
		{"zero guests", func(r *Request) { r.GuestCount = 0 }, ErrInvalidInput},
		{"negative amount", func(r *Request) { r.TotalAmount = -1 }, ErrInvalidInput},
		{"end before start", func(r *Request) { r.EventEnd = r.EventStart.Add(-time.Hour) }, ErrInvalidInterval},
		{"zero-length interval", func(r *Request) { r.EventEnd = r.EventStart }, ErrInvalidInterval},
		{"start in the past", func(r *Request) {
			r.EventStart = testNow.Add(-2 * time.Hour)
			r.EventEnd = testNow.Add(2 * time.Hour)
		}, ErrInvalidInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeBookingRepo{}
			uc := newUseCase(repo, &fakeVenueClient{}, &fakeTxManager{})
			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, repo.created)
		})
	}
}

func TestExecute_VenueNotFound(t *testing.T) {
	uc := newUseCase(&fakeBookingRepo{}, &fakeVenueClient{err: venueservice.ErrVenueNotFound}, &fakeTxManager{})

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrVenueNotFound)
}

func TestExecute_SlotTaken(t *testing.T) {
	repo := &fakeBookingRepo{conflicts: []*domain.Booking{
		{ID: 5, VenueID: 1, Status: domain.StatusConfirmed},
	}}
	uc := newUseCase(repo, &fakeVenueClient{}, &fakeTxManager{})

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Nil(t, repo.created)
}
