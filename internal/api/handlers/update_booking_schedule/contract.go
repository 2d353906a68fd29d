package update_booking_schedule

import (
	"context"

	uc "github.com/m04kA/VenueBookingService/internal/usecase/update_booking_schedule"
)

type UpdateScheduleUseCase interface {
	Execute(ctx context.Context, req *uc.Request) (*uc.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
