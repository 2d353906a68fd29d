package models

import (
	"time"

	"github.com/m04kA/VenueBookingService/internal/domain"
)

// Request модели

// CancelPORequest запрос на отмену заказа поставщику
type CancelPORequest struct {
	Reason string `json:"reason"`
	UserID int64  `json:"userId"`
}

// Response модели

// BankDetailsResponse банковские реквизиты поставщика
type BankDetailsResponse struct {
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	IFSCCode      string `json:"ifscCode,omitempty"`
}

// LineItemResponse позиция заказа
type LineItemResponse struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Amount      float64 `json:"amount"`
}

// PurchaseOrderResponse ответ с данными заказа поставщику
type PurchaseOrderResponse struct {
	ID                 int64                `json:"id"`
	PONumber           string               `json:"poNumber"`
	BookingID          int64                `json:"bookingId"`
	VenueID            int64                `json:"venueId"`
	VendorType         string               `json:"vendorType"`
	VendorName         string               `json:"vendorName"`
	VendorPhone        string               `json:"vendorPhone,omitempty"`
	VendorEmail        string               `json:"vendorEmail,omitempty"`
	VendorBank         *BankDetailsResponse `json:"vendorBank,omitempty"`
	LineItems          []LineItemResponse   `json:"lineItems"`
	TotalAmount        float64              `json:"totalAmount"`
	PaidAmount         float64              `json:"paidAmount"`
	BalanceAmount      float64              `json:"balanceAmount"`
	Status             string               `json:"status"`
	CancellationReason *string              `json:"cancellationReason,omitempty"`
	CompletedAt        *string              `json:"completedAt,omitempty"`
	CreatedAt          string               `json:"createdAt"`
	UpdatedAt          string               `json:"updatedAt"`
}

// PurchaseOrderListResponse ответ со списком заказов
type PurchaseOrderListResponse struct {
	PurchaseOrders []PurchaseOrderResponse `json:"purchaseOrders"`
}

// Методы конвертации

// FromDomainPurchaseOrder конвертирует domain модель в DTO
func FromDomainPurchaseOrder(po *domain.PurchaseOrder) *PurchaseOrderResponse {
	if po == nil {
		return nil
	}

	resp := &PurchaseOrderResponse{
		ID:                 po.ID,
		PONumber:           po.PONumber,
		BookingID:          po.BookingID,
		VenueID:            po.VenueID,
		VendorType:         string(po.VendorType),
		VendorName:         po.VendorName,
		VendorPhone:        po.VendorPhone,
		VendorEmail:        po.VendorEmail,
		LineItems:          make([]LineItemResponse, 0, len(po.LineItems)),
		TotalAmount:        po.TotalAmount,
		PaidAmount:         po.PaidAmount,
		BalanceAmount:      po.BalanceAmount,
		Status:             string(po.Status),
		CancellationReason: po.CancellationReason,
		CreatedAt:          po.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          po.UpdatedAt.Format(time.RFC3339),
	}

	if po.VendorBank != nil {
		resp.VendorBank = &BankDetailsResponse{
			AccountName:   po.VendorBank.AccountName,
			AccountNumber: po.VendorBank.AccountNumber,
			IFSCCode:      po.VendorBank.IFSCCode,
		}
	}

	for _, item := range po.LineItems {
		resp.LineItems = append(resp.LineItems, LineItemResponse{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		})
	}

	if po.CompletedAt != nil {
		completed := po.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &completed
	}

	return resp
}

// FromDomainPurchaseOrderList конвертирует список domain моделей в DTO
func FromDomainPurchaseOrderList(orders []*domain.PurchaseOrder) *PurchaseOrderListResponse {
	resp := &PurchaseOrderListResponse{
		PurchaseOrders: make([]PurchaseOrderResponse, 0, len(orders)),
	}

	for _, po := range orders {
		if poResp := FromDomainPurchaseOrder(po); poResp != nil {
			resp.PurchaseOrders = append(resp.PurchaseOrders, *poResp)
		}
	}

	return resp
}
