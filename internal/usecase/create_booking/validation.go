package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/VenueBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, now time.Time) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.VenueID <= 0 {
		return fmt.Errorf("%w: venueID must be positive", ErrInvalidInput)
	}

	if req.EventName == "" {
		return fmt.Errorf("%w: eventName is required", ErrInvalidInput)
	}

	if len(req.EventName) > domain.MaxEventNameLength {
		return fmt.Errorf("%w: eventName exceeds %d characters", ErrInvalidInput, domain.MaxEventNameLength)
	}

	if req.GuestCount <= 0 {
		return fmt.Errorf("%w: guestCount must be positive", ErrInvalidInput)
	}

	if req.TotalAmount < 0 {
		return fmt.Errorf("%w: totalAmount must not be negative", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return validateInterval(req.EventStart, req.EventEnd, now)
}

// validateInterval проверяет полуинтервал [start, end) события
func validateInterval(start, end, now time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: eventStart and eventEnd are required", ErrInvalidInput)
	}

	if !end.After(start) {
		return fmt.Errorf("%w: eventEnd must be after eventStart", ErrInvalidInterval)
	}

	if start.Before(now) {
		return fmt.Errorf("%w: event must not start in the past", ErrInvalidInterval)
	}

	return nil
}
