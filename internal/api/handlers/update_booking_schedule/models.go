package update_booking_schedule

import (
	"time"

	uc "github.com/m04kA/VenueBookingService/internal/usecase/update_booking_schedule"
)

// UpdateScheduleRequest HTTP request model
type UpdateScheduleRequest struct {
	EventStart time.Time `json:"eventStart"`
	EventEnd   time.Time `json:"eventEnd"`
}

// UpdateScheduleResponse HTTP response model
type UpdateScheduleResponse struct {
	ID         int64  `json:"id"`
	VenueID    int64  `json:"venueId"`
	EventStart string `json:"eventStart"`
	EventEnd   string `json:"eventEnd"`
	Status     string `json:"status"`
	UpdatedAt  string `json:"updatedAt"`
}

// FromUseCaseResponse конвертирует ответ usecase в HTTP response
func FromUseCaseResponse(resp *uc.Response) *UpdateScheduleResponse {
	return &UpdateScheduleResponse{
		ID:         resp.ID,
		VenueID:    resp.VenueID,
		EventStart: resp.EventStart.Format(time.RFC3339),
		EventEnd:   resp.EventEnd.Format(time.RFC3339),
		Status:     resp.Status,
		UpdatedAt:  resp.UpdatedAt.Format(time.RFC3339),
	}
}
