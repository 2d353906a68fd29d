package models

import (
	"errors"
	"time"

	"github.com/m04kA/VenueBookingService/internal/domain"
)

var (
	// ErrInvalidMode возвращается при некорректном канале оплаты
	ErrInvalidMode = errors.New("invalid payment mode")

	// ErrInvalidDirection возвращается при некорректном направлении платежа
	ErrInvalidDirection = errors.New("invalid transaction direction")

	// ErrInvalidStatus возвращается при некорректном статусе транзакции
	ErrInvalidStatus = errors.New("invalid transaction status")

	// ErrInvalidVendorType возвращается при некорректном типе поставщика
	ErrInvalidVendorType = errors.New("invalid vendor type")
)

// Request модели

// RecordTransactionRequest запрос на запись транзакции в леджер
type RecordTransactionRequest struct {
	BookingID       int64   `json:"bookingId"`
	PurchaseOrderID *int64  `json:"purchaseOrderId,omitempty"`
	Amount          float64 `json:"amount"`
	Mode            string  `json:"mode"`
	Direction       string  `json:"direction"`
	VendorType      *string `json:"vendorType,omitempty"`
	Status          string  `json:"status"`
	Notes           *string `json:"notes,omitempty"`
	CreatedBy       int64   `json:"createdBy"`
}

// UpdateTransactionStatusRequest запрос на смену статуса транзакции
type UpdateTransactionStatusRequest struct {
	Status string `json:"status"`
	UserID int64  `json:"userId"`
}

// Response модели

// TransactionResponse ответ с данными транзакции
type TransactionResponse struct {
	ID              int64   `json:"id"`
	Reference       string  `json:"reference"`
	BookingID       int64   `json:"bookingId"`
	PurchaseOrderID *int64  `json:"purchaseOrderId,omitempty"`
	Amount          float64 `json:"amount"`
	Mode            string  `json:"mode"`
	Direction       string  `json:"direction"`
	VendorType      *string `json:"vendorType,omitempty"`
	Type            string  `json:"type"`
	Status          string  `json:"status"`
	Reconciled      bool    `json:"reconciled"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// TransactionListResponse ответ со списком транзакций
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// Методы конвертации

// FromDomainTransaction конвертирует domain модель в DTO
func FromDomainTransaction(t *domain.Transaction) *TransactionResponse {
	if t == nil {
		return nil
	}

	var vendorType *string
	if t.VendorType != nil {
		vt := string(*t.VendorType)
		vendorType = &vt
	}

	return &TransactionResponse{
		ID:              t.ID,
		Reference:       t.Reference,
		BookingID:       t.BookingID,
		PurchaseOrderID: t.PurchaseOrderID,
		Amount:          t.Amount,
		Mode:            string(t.Mode),
		Direction:       string(t.Direction),
		VendorType:      vendorType,
		Type:            string(t.Type),
		Status:          string(t.Status),
		Reconciled:      t.Reconciled,
		Notes:           t.Notes,
		CreatedAt:       t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       t.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainTransactionList конвертирует список domain моделей в DTO
func FromDomainTransactionList(txns []*domain.Transaction) *TransactionListResponse {
	resp := &TransactionListResponse{
		Transactions: make([]TransactionResponse, 0, len(txns)),
	}

	for _, txn := range txns {
		if txnResp := FromDomainTransaction(txn); txnResp != nil {
			resp.Transactions = append(resp.Transactions, *txnResp)
		}
	}

	return resp
}

// ToDomainMode конвертирует строку в domain.PaymentMode с валидацией
func ToDomainMode(mode string) (domain.PaymentMode, error) {
	m := domain.PaymentMode(mode)

	validModes := []domain.PaymentMode{
		domain.ModeCash,
		domain.ModeCard,
		domain.ModeUPI,
		domain.ModeBankTransfer,
		domain.ModeCheque,
		domain.ModeOther,
	}

	for _, valid := range validModes {
		if m == valid {
			return m, nil
		}
	}

	return "", ErrInvalidMode
}

// ToDomainDirection конвертирует строку в domain.TransactionDirection с валидацией
func ToDomainDirection(direction string) (domain.TransactionDirection, error) {
	d := domain.TransactionDirection(direction)
	if d == domain.DirectionInbound || d == domain.DirectionOutbound {
		return d, nil
	}
	return "", ErrInvalidDirection
}

// ToDomainVendorType конвертирует строку в domain.VendorType с валидацией
func ToDomainVendorType(vendorType string) (domain.VendorType, error) {
	vt := domain.VendorType(vendorType)
	if vt == domain.VendorTypeCatering || vt == domain.VendorTypeService {
		return vt, nil
	}
	return "", ErrInvalidVendorType
}

// ToDomainStatus конвертирует строку в domain.TransactionStatus с валидацией
func ToDomainStatus(status string) (domain.TransactionStatus, error) {
	s := domain.TransactionStatus(status)

	validStatuses := []domain.TransactionStatus{
		domain.TxnStatusInitiated,
		domain.TxnStatusSuccess,
		domain.TxnStatusFailed,
		domain.TxnStatusRefunded,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
