package domain

import (
	"fmt"
	"time"
)

// POStatus represents the lifecycle status of a purchase order
type POStatus string

const (
	POStatusDraft         POStatus = "draft"
	POStatusPending       POStatus = "pending"
	POStatusApproved      POStatus = "approved"
	POStatusPartiallyPaid POStatus = "partially_paid"
	POStatusPaid          POStatus = "paid"
	POStatusCancelled     POStatus = "cancelled"
)

// VendorType тип поставщика в заказе
type VendorType string

const (
	VendorTypeCatering VendorType = "catering"
	VendorTypeService  VendorType = "service"
)

// POLineItem one line of a purchase order
type POLineItem struct {
	Description string
	Quantity    int
	UnitPrice   float64
	Amount      float64
}

// PurchaseOrder is a commitment to pay a vendor for a booking's services.
// PONumber is unique, sequential per calendar month and assigned once.
// PaidAmount and BalanceAmount are derived from the transaction ledger.
type PurchaseOrder struct {
	ID       int64
	PONumber string

	BookingID int64
	VenueID   int64

	VendorType  VendorType
	VendorName  string
	VendorPhone string
	VendorEmail string
	VendorBank  *BankDetails

	LineItems []POLineItem

	TotalAmount   float64
	PaidAmount    float64
	BalanceAmount float64

	Status POStatus

	CancellationReason *string
	CompletedAt        *time.Time

	// Version оптимистическая блокировка для записи производных полей
	Version int64

	CreatedBy int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanBeApproved returns true if the purchase order can transition to approved
func (po *PurchaseOrder) CanBeApproved() bool {
	return po.Status == POStatusDraft || po.Status == POStatusPending
}

// CanBeCancelled returns true if the purchase order can be cancelled.
// A fully paid purchase order is terminal and can never be cancelled.
func (po *PurchaseOrder) CanBeCancelled() bool {
	return po.Status != POStatusPaid && po.Status != POStatusCancelled
}

// IsTerminal returns true if no further lifecycle transitions are possible
func (po *PurchaseOrder) IsTerminal() bool {
	return po.Status == POStatusPaid || po.Status == POStatusCancelled
}

// ApplyPaidAmount applies a freshly computed paid total to the purchase order:
// sets PaidAmount and BalanceAmount and moves the status along the payment
// axis. Reconciliation never revives a cancelled purchase order, and a paid
// purchase order stays paid. CompletedAt is set once, on the transition to paid.
func (po *PurchaseOrder) ApplyPaidAmount(paidAmount float64, now time.Time) {
	po.PaidAmount = paidAmount
	po.BalanceAmount = po.TotalAmount - paidAmount

	if po.Status == POStatusCancelled {
		return
	}

	switch {
	case paidAmount >= po.TotalAmount && po.TotalAmount > 0:
		po.Status = POStatusPaid
		if po.CompletedAt == nil {
			completedAt := now
			po.CompletedAt = &completedAt
		}
	case paidAmount > 0 && po.Status != POStatusPaid:
		po.Status = POStatusPartiallyPaid
	}
}

// PO number format: PO-YYYY-MM-NNNN

// POMonthKey returns the per-month sequence key for a point in time, e.g. "2026-09"
func POMonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// FormatPONumber builds a purchase order number from a month key and sequence value
func FormatPONumber(monthKey string, seq int64) string {
	return fmt.Sprintf("PO-%s-%04d", monthKey, seq)
}
