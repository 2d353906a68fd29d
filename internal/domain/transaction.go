package domain

import "time"

// TransactionStatus represents the status of a payment transaction
type TransactionStatus string

const (
	TxnStatusInitiated TransactionStatus = "initiated"
	TxnStatusSuccess   TransactionStatus = "success"
	TxnStatusFailed    TransactionStatus = "failed"
	TxnStatusRefunded  TransactionStatus = "refunded"
)

// TransactionDirection whether money comes in from a customer or goes out to a vendor
type TransactionDirection string

const (
	DirectionInbound  TransactionDirection = "inbound"
	DirectionOutbound TransactionDirection = "outbound"
)

// TransactionType classification assigned by the ledger, never by the caller
type TransactionType string

const (
	TxnTypeAdvance       TransactionType = "advance"
	TxnTypePartial       TransactionType = "partial"
	TxnTypeFull          TransactionType = "full"
	TxnTypeVendorPayment TransactionType = "vendor_payment"
)

// PaymentMode канал оплаты, непрозрачный тег для логики движка
type PaymentMode string

const (
	ModeCash         PaymentMode = "cash"
	ModeCard         PaymentMode = "card"
	ModeUPI          PaymentMode = "upi"
	ModeBankTransfer PaymentMode = "bank_transfer"
	ModeCheque       PaymentMode = "cheque"
	ModeOther        PaymentMode = "other"
)

// Transaction is an immutable financial event in the ledger.
// Rows are append-only: after creation the only mutable field is Status,
// and the only legal transitions are initiated→success|failed and
// success→refunded. Amount is never rewritten.
type Transaction struct {
	ID        int64
	Reference string

	BookingID       int64
	PurchaseOrderID *int64

	Amount    float64
	Mode      PaymentMode
	Direction TransactionDirection
	Type      TransactionType
	Status    TransactionStatus

	// VendorType заполняется только для исходящих транзакций и обязан
	// совпадать с типом поставщика заказа, если заказ указан
	VendorType *VendorType

	// Reconciled сбрасывается в false при каждом изменении "успешных денег"
	// и выставляется обратно после успешной сверки владельца
	Reconciled bool

	Notes     *string
	CreatedBy int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CountsAsPaid returns true if the transaction contributes to paid totals
func (t *Transaction) CountsAsPaid() bool {
	return t.Status == TxnStatusSuccess
}

// CanTransitionTo reports whether the status change is legal
func (t *Transaction) CanTransitionTo(next TransactionStatus) bool {
	switch t.Status {
	case TxnStatusInitiated:
		return next == TxnStatusSuccess || next == TxnStatusFailed
	case TxnStatusSuccess:
		return next == TxnStatusRefunded
	default:
		return false
	}
}

// AffectsPaidTotal reports whether a transition from the current status to
// next changes whether the transaction counts as successful money, and so
// requires re-reconciling the owner
func (t *Transaction) AffectsPaidTotal(next TransactionStatus) bool {
	return (t.Status == TxnStatusSuccess) != (next == TxnStatusSuccess)
}

// ClassifyInbound assigns the inbound transaction type from the cumulative
// successful paid total at creation time:
//   - nothing paid before and this payment does not cover the total → advance
//   - cumulative total still below the booking total → partial
//   - cumulative total covers the booking total → full
func ClassifyInbound(priorPaidTotal, amount, totalAmount float64) TransactionType {
	cumulative := priorPaidTotal + amount
	switch {
	case cumulative >= totalAmount:
		return TxnTypeFull
	case priorPaidTotal == 0:
		return TxnTypeAdvance
	default:
		return TxnTypePartial
	}
}
