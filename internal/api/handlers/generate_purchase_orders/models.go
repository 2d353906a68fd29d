package generate_purchase_orders

import (
	poModels "github.com/m04kA/VenueBookingService/internal/service/purchaseorders/models"
	uc "github.com/m04kA/VenueBookingService/internal/usecase/generate_purchase_orders"
)

// FailedVendor HTTP model поставщика с ошибкой генерации
type FailedVendor struct {
	VendorName string `json:"vendorName"`
	Reason     string `json:"reason"`
}

// GenerateResponse HTTP response model
type GenerateResponse struct {
	PurchaseOrders []poModels.PurchaseOrderResponse `json:"purchaseOrders"`
	Failed         []FailedVendor                   `json:"failed,omitempty"`
}

// FromUseCaseResponse конвертирует ответ usecase в HTTP response
func FromUseCaseResponse(resp *uc.Response) *GenerateResponse {
	out := &GenerateResponse{
		PurchaseOrders: make([]poModels.PurchaseOrderResponse, 0, len(resp.PurchaseOrders)),
	}

	for _, po := range resp.PurchaseOrders {
		if poResp := poModels.FromDomainPurchaseOrder(po); poResp != nil {
			out.PurchaseOrders = append(out.PurchaseOrders, *poResp)
		}
	}

	for _, failed := range resp.Failed {
		out.Failed = append(out.Failed, FailedVendor{
			VendorName: failed.VendorName,
			Reason:     failed.Reason,
		})
	}

	return out
}
