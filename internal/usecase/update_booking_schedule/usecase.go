package update_booking_schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/VenueBookingService/internal/domain"
	bookingRepo "github.com/m04kA/VenueBookingService/internal/infra/storage/booking"
	"github.com/m04kA/VenueBookingService/pkg/ptr"
)

// UseCase use case для переноса бронирования на новый интервал
type UseCase struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет провайдер времени (для тестирования)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет перенос бронирования
//
// Проверка доступности нового интервала и запись идут в одной
// сериализуемой транзакции. Само переносимое бронирование исключается
// из кандидатов на конфликт, чтобы сужение или сдвиг внутри текущего
// интервала не конфликтовал сам с собой.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateBookingSchedule: booking=%d, interval=[%s, %s), user=%d",
		req.BookingID,
		req.EventStart.Format("2006-01-02 15:04"), req.EventEnd.Format("2006-01-02 15:04"), req.UserID)

	if err := validateRequest(req, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("UpdateBookingSchedule: validation failed: %v", err)
		return nil, err
	}

	var result *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("UpdateBookingSchedule: booking=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("UpdateBookingSchedule: failed to get booking=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if !booking.CanBeRescheduled() {
			uc.logger.Warn("UpdateBookingSchedule: booking=%d in status=%s cannot be rescheduled",
				req.BookingID, booking.Status)
			return fmt.Errorf("%w: status %s", ErrStatusConflict, booking.Status)
		}

		conflicts, err := uc.bookingRepo.GetBlockingForInterval(
			txCtx, booking.VenueID, req.EventStart, req.EventEnd, ptr.Ptr(booking.ID))
		if err != nil {
			uc.logger.Error("UpdateBookingSchedule: failed to get blocking bookings: %v", err)
			return fmt.Errorf("%w: failed to get blocking bookings: %v", ErrInternal, err)
		}

		if len(conflicts) > 0 {
			uc.logger.Warn("UpdateBookingSchedule: venue=%d slot taken by %d booking(s)",
				booking.VenueID, len(conflicts))
			return ErrSlotNotAvailable
		}

		if err := uc.bookingRepo.UpdateSchedule(txCtx, booking.ID, req.EventStart.UTC(), req.EventEnd.UTC()); err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
				return ErrSlotNotAvailable
			}
			uc.logger.Error("UpdateBookingSchedule: failed to update booking=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to update schedule: %v", ErrInternal, err)
		}

		booking.EventStart = req.EventStart.UTC()
		booking.EventEnd = req.EventEnd.UTC()
		result = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("UpdateBookingSchedule: booking=%d rescheduled", result.ID)

	return &Response{
		ID:         result.ID,
		VenueID:    result.VenueID,
		EventStart: result.EventStart,
		EventEnd:   result.EventEnd,
		Status:     string(result.Status),
		UpdatedAt:  result.UpdatedAt,
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, now time.Time) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.EventStart.IsZero() || req.EventEnd.IsZero() {
		return fmt.Errorf("%w: eventStart and eventEnd are required", ErrInvalidInput)
	}

	if !req.EventEnd.After(req.EventStart) {
		return fmt.Errorf("%w: eventEnd must be after eventStart", ErrInvalidInterval)
	}

	if req.EventStart.Before(now) {
		return fmt.Errorf("%w: event must not start in the past", ErrInvalidInterval)
	}

	return nil
}
