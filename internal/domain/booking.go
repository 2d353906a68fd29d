package domain

import (
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// PaymentStatus represents the derived payment status of a booking
type PaymentStatus string

const (
	PaymentStatusUnpaid        PaymentStatus = "unpaid"
	PaymentStatusPartiallyPaid PaymentStatus = "partially_paid"
	PaymentStatusPaid          PaymentStatus = "paid"
)

// Booking represents one reservation of a venue for a contiguous time interval.
// The interval is half-open: [EventStart, EventEnd).
type Booking struct {
	ID      int64
	VenueID int64

	EventName  string
	GuestCount int

	EventStart time.Time
	EventEnd   time.Time

	Status BookingStatus

	// Derived payment state, recomputed from the transaction ledger.
	// AdvanceAmount and PaymentStatus are never trusted as caller input.
	TotalAmount   float64
	AdvanceAmount float64
	PaymentStatus PaymentStatus

	// Vendor assignments, read-only input to the purchase order generator
	CateringVendor *VendorAssignment
	ServiceVendors []ServiceVendorAssignment

	Notes              *string
	CancellationReason *string
	CancelledAt        *time.Time

	// Version оптимистическая блокировка для записи производных полей
	Version int64

	CreatedBy int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Blocks returns true if the booking occupies its venue slot.
// Only pending and confirmed bookings block; cancelled and completed never do.
func (b *Booking) Blocks() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeConfirmed returns true if the booking can transition to confirmed
func (b *Booking) CanBeConfirmed() bool {
	return b.Status == StatusPending
}

// CanBeCompleted returns true if the booking can transition to completed
func (b *Booking) CanBeCompleted() bool {
	return b.Status == StatusConfirmed
}

// CanBeRescheduled returns true if the booking interval can be changed
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// Overlaps reports whether the booking interval overlaps [start, end).
// Adjacent intervals (b.EventEnd == start) do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.EventStart.Before(end) && b.EventEnd.After(start)
}

// BookingPaymentStatus derives the payment status from the successful
// inbound total and the booking total
func BookingPaymentStatus(paidTotal, totalAmount float64) PaymentStatus {
	switch {
	case paidTotal <= 0:
		return PaymentStatusUnpaid
	case paidTotal < totalAmount:
		return PaymentStatusPartiallyPaid
	default:
		return PaymentStatusPaid
	}
}

// VenueBookingsFilter фильтр для получения бронирований площадки
type VenueBookingsFilter struct {
	VenueID         int64          // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отмененные и завершенные бронирования
}
