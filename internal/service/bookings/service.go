package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/VenueBookingService/internal/domain"
	bookingRepo "github.com/m04kA/VenueBookingService/internal/infra/storage/booking"
	"github.com/m04kA/VenueBookingService/internal/service/bookings/models"
)

// Service чтение и жизненный цикл бронирований
//
// Создание и перенос бронирований идут через usecase-слой, потому что
// требуют сериализуемой транзакции с проверкой доступности слота.
// Здесь остаются переходы статуса, не затрагивающие интервал.
type Service struct {
	repo   BookingRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(repo BookingRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// GetVenueBookings получает бронирования площадки с фильтрацией
// по периоду и статусу. По умолчанию отмененные и завершенные
// бронирования не возвращаются.
func (s *Service) GetVenueBookings(ctx context.Context, req *models.VenueBookingsRequest) (*models.BookingListResponse, error) {
	if req.VenueID <= 0 {
		return nil, fmt.Errorf("%w: venueId is required", ErrInvalidInput)
	}
	if req.StartDate != nil && req.EndDate != nil && !req.EndDate.After(*req.StartDate) {
		return nil, fmt.Errorf("%w: endDate must be after startDate", ErrInvalidInput)
	}

	filter := domain.VenueBookingsFilter{
		VenueID:         req.VenueID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IncludeInactive: req.IncludeInactive,
	}

	if req.Status != nil {
		status := domain.BookingStatus(*req.Status)
		switch status {
		case domain.StatusPending, domain.StatusConfirmed, domain.StatusCancelled, domain.StatusCompleted:
			filter.Status = &status
		default:
			return nil, fmt.Errorf("%w: invalid status filter", ErrInvalidInput)
		}
	}

	list, err := s.repo.GetByVenueWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetVenueBookings: repository error for venue=%d: %v", req.VenueID, err)
		return nil, fmt.Errorf("%w: GetVenueBookings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(list), nil
}

// Confirm переводит бронирование из pending в confirmed
func (s *Service) Confirm(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("Confirm: booking=%d by user=%d", id, userID)

	return s.transition(ctx, id, domain.StatusConfirmed, func(b *domain.Booking) bool {
		return b.CanBeConfirmed()
	})
}

// Complete переводит бронирование из confirmed в completed.
// Завершенное бронирование освобождает слот площадки.
func (s *Service) Complete(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("Complete: booking=%d by user=%d", id, userID)

	return s.transition(ctx, id, domain.StatusCompleted, func(b *domain.Booking) bool {
		return b.CanBeCompleted()
	})
}

// Cancel отменяет бронирование с обязательной причиной.
// Отмена освобождает слот площадки; внесенные платежи остаются
// в леджере и возвращаются отдельными refund-транзакциями.
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: booking=%d by user=%d", id, req.UserID)

	if req.Reason == "" {
		s.logger.Warn("Cancel: missing cancellation reason for booking=%d", id)
		return nil, fmt.Errorf("%w: cancellation reason is required", ErrInvalidInput)
	}

	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking=%d not found", id)
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: Cancel - get booking: %v", ErrInternal, err)
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking=%d in status=%s cannot be cancelled", id, booking.Status)
		return nil, fmt.Errorf("%w: cannot cancel booking in status %s", ErrStatusConflict, booking.Status)
	}

	if err := s.repo.Cancel(ctx, id, req.Reason); err != nil {
		s.logger.Error("Cancel: failed to cancel booking=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - update booking: %v", ErrInternal, err)
	}

	return s.GetByID(ctx, id)
}

func (s *Service) transition(ctx context.Context, id int64, target domain.BookingStatus, allowed func(*domain.Booking) bool) (*models.BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("transition: booking=%d not found", id)
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: transition - get booking: %v", ErrInternal, err)
	}

	if !allowed(booking) {
		s.logger.Warn("transition: booking=%d %s→%s not allowed", id, booking.Status, target)
		return nil, fmt.Errorf("%w: %s to %s", ErrStatusConflict, booking.Status, target)
	}

	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		s.logger.Error("transition: failed to update booking=%d: %v", id, err)
		return nil, fmt.Errorf("%w: transition - update status: %v", ErrInternal, err)
	}

	booking.Status = target
	return models.FromDomainBooking(booking), nil
}
