package check_availability

import (
	"context"
	"time"
)

type AvailabilityService interface {
	IsSlotFree(ctx context.Context, venueID int64, start, end time.Time, excludeBookingID *int64) (bool, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
