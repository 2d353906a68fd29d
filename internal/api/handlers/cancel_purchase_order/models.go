package cancel_purchase_order

import (
	"github.com/m04kA/VenueBookingService/internal/service/purchaseorders/models"
)

// CancelPORequest HTTP request model
type CancelPORequest struct {
	Reason string `json:"reason"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelPORequest) ToServiceRequest(userID int64) *models.CancelPORequest {
	return &models.CancelPORequest{
		Reason: r.Reason,
		UserID: userID,
	}
}
