package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/VenueBookingService/internal/domain"
	bookingRepo "github.com/m04kA/VenueBookingService/internal/infra/storage/booking"
	venueClient "github.com/m04kA/VenueBookingService/internal/integrations/venueservice"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	venueClient  VenueServiceClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	venueClient VenueServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		venueClient:  venueClient,
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

// Execute выполняет use case создания бронирования
//
// Проверка доступности и вставка выполняются в одной сериализуемой
// транзакции с блокировкой конфликтующих строк (FOR UPDATE), поэтому
// два конкурентных запроса на пересекающийся интервал не могут оба
// пройти проверку. Exclusion constraint хранилища закрывает гонку
// и для записей, идущих мимо этого usecase.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: venue=%d, event=%q, interval=[%s, %s), user=%d",
		req.VenueID, req.EventName,
		req.EventStart.Format("2006-01-02 15:04"), req.EventEnd.Format("2006-01-02 15:04"), req.UserID)

	// 1. Валидация входных данных
	now := uc.timeProvider.Now()
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем существование площадки во внешнем каталоге
	if _, err := uc.venueClient.GetVenue(ctx, req.VenueID); err != nil {
		if errors.Is(err, venueClient.ErrVenueNotFound) {
			uc.logger.Warn("CreateBooking: venue id=%d not found", req.VenueID)
			return nil, ErrVenueNotFound
		}
		uc.logger.Error("CreateBooking: failed to get venue id=%d: %v", req.VenueID, err)
		return nil, fmt.Errorf("%w: failed to get venue: %v", ErrInternal, err)
	}

	var result *domain.Booking

	// 3. Проверка доступности и вставка в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Блокируем активные бронирования с пересечением интервала
		conflicts, err := uc.bookingRepo.GetBlockingForInterval(txCtx, req.VenueID, req.EventStart, req.EventEnd, nil)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get blocking bookings: %v", err)
			return fmt.Errorf("%w: failed to get blocking bookings: %v", ErrInternal, err)
		}

		if len(conflicts) > 0 {
			uc.logger.Warn("CreateBooking: venue=%d slot taken by %d booking(s), first id=%d",
				req.VenueID, len(conflicts), conflicts[0].ID)
			return ErrSlotNotAvailable
		}

		// 3.2. Создаем бронирование; платежные поля производные и
		// начинаются с нуля независимо от входных данных
		booking := &domain.Booking{
			VenueID:        req.VenueID,
			EventName:      req.EventName,
			GuestCount:     req.GuestCount,
			EventStart:     req.EventStart.UTC(),
			EventEnd:       req.EventEnd.UTC(),
			Status:         domain.StatusPending,
			TotalAmount:    req.TotalAmount,
			AdvanceAmount:  0,
			PaymentStatus:  domain.PaymentStatusUnpaid,
			CateringVendor: req.CateringVendor,
			ServiceVendors: req.ServiceVendors,
			Notes:          req.Notes,
			CreatedBy:      req.UserID,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	return &Response{
		ID:            result.ID,
		VenueID:       result.VenueID,
		EventName:     result.EventName,
		GuestCount:    result.GuestCount,
		EventStart:    result.EventStart,
		EventEnd:      result.EventEnd,
		Status:        string(result.Status),
		TotalAmount:   result.TotalAmount,
		AdvanceAmount: result.AdvanceAmount,
		PaymentStatus: string(result.PaymentStatus),
		Notes:         result.Notes,
		CreatedAt:     result.CreatedAt,
		UpdatedAt:     result.UpdatedAt,
	}, nil
}
