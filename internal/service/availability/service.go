package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	venueClient "github.com/m04kA/VenueBookingService/internal/integrations/venueservice"
)

// Service проверка доступности интервала площадки
//
// Чистое чтение без побочных эффектов. Результат - снимок на момент
// запроса: между проверкой и вставкой бронирования состояние может
// измениться, поэтому создание бронирования повторяет проверку внутри
// сериализуемой транзакции, а хранилище дополнительно несет
// exclusion constraint на пересечение интервалов.
type Service struct {
	bookingRepo BookingRepository
	venueClient VenueServiceClient
	logger      Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	bookingRepo BookingRepository,
	venueClient VenueServiceClient,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		venueClient: venueClient,
		logger:      logger,
	}
}

// IsSlotFree проверяет, свободен ли полуинтервал [start, end) у площадки
//
// Слот занят, если существует активное (pending/confirmed) бронирование
// с пересечением storedStart < end AND storedEnd > start. Отмененные и
// завершенные бронирования слот не занимают. Примыкающие интервалы
// (storedEnd == start) пересечением не считаются.
//
// excludeBookingID исключает бронирование из кандидатов - используется
// при переносе бронирования на новый интервал, чтобы оно не
// конфликтовало само с собой.
//
// Занятый слот - это нормальный результат false, а не ошибка.
func (s *Service) IsSlotFree(ctx context.Context, venueID int64, start, end time.Time, excludeBookingID *int64) (bool, error) {
	if !end.After(start) {
		s.logger.Warn("IsSlotFree: invalid interval for venue=%d: start=%s end=%s",
			venueID, start.Format(time.RFC3339), end.Format(time.RFC3339))
		return false, ErrInvalidInterval
	}

	// Существование площадки проверяется внешним каталогом
	if _, err := s.venueClient.GetVenue(ctx, venueID); err != nil {
		if errors.Is(err, venueClient.ErrVenueNotFound) {
			s.logger.Warn("IsSlotFree: venue id=%d not found", venueID)
			return false, ErrVenueNotFound
		}
		s.logger.Error("IsSlotFree: failed to get venue id=%d: %v", venueID, err)
		return false, fmt.Errorf("%w: IsSlotFree - failed to get venue: %v", ErrInternal, err)
	}

	conflicts, err := s.bookingRepo.GetBlockingForInterval(ctx, venueID, start, end, excludeBookingID)
	if err != nil {
		s.logger.Error("IsSlotFree: repository error for venue=%d: %v", venueID, err)
		return false, fmt.Errorf("%w: IsSlotFree - repository error: %v", ErrInternal, err)
	}

	free := len(conflicts) == 0
	s.logger.Info("IsSlotFree: venue=%d [%s, %s) free=%t conflicts=%d",
		venueID, start.Format(time.RFC3339), end.Format(time.RFC3339), free, len(conflicts))

	return free, nil
}
