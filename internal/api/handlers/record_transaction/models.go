package record_transaction

import (
	"github.com/m04kA/VenueBookingService/internal/service/transactions/models"
)

// RecordTransactionRequest HTTP request model
type RecordTransactionRequest struct {
	BookingID       int64   `json:"bookingId"`
	PurchaseOrderID *int64  `json:"purchaseOrderId,omitempty"`
	Amount          float64 `json:"amount"`
	Mode            string  `json:"mode"`
	Direction       string  `json:"direction"`
	VendorType      *string `json:"vendorType,omitempty"`
	Status          string  `json:"status"`
	Notes           *string `json:"notes,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *RecordTransactionRequest) ToServiceRequest(userID int64) *models.RecordTransactionRequest {
	return &models.RecordTransactionRequest{
		BookingID:       r.BookingID,
		PurchaseOrderID: r.PurchaseOrderID,
		Amount:          r.Amount,
		Mode:            r.Mode,
		Direction:       r.Direction,
		VendorType:      r.VendorType,
		Status:          r.Status,
		Notes:           r.Notes,
		CreatedBy:       userID,
	}
}
