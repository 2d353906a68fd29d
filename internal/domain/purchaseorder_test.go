package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseOrder_CanBeApproved(t *testing.T) {
	assert.True(t, (&PurchaseOrder{Status: POStatusDraft}).CanBeApproved())
	assert.True(t, (&PurchaseOrder{Status: POStatusPending}).CanBeApproved())
	assert.False(t, (&PurchaseOrder{Status: POStatusApproved}).CanBeApproved())
	assert.False(t, (&PurchaseOrder{Status: POStatusPartiallyPaid}).CanBeApproved())
	assert.False(t, (&PurchaseOrder{Status: POStatusPaid}).CanBeApproved())
	assert.False(t, (&PurchaseOrder{Status: POStatusCancelled}).CanBeApproved())
}

func TestPurchaseOrder_CanBeCancelled(t *testing.T) {
	assert.True(t, (&PurchaseOrder{Status: POStatusDraft}).CanBeCancelled())
	assert.True(t, (&PurchaseOrder{Status: POStatusApproved}).CanBeCancelled())
	assert.True(t, (&PurchaseOrder{Status: POStatusPartiallyPaid}).CanBeCancelled())
	assert.False(t, (&PurchaseOrder{Status: POStatusPaid}).CanBeCancelled())
	assert.False(t, (&PurchaseOrder{Status: POStatusCancelled}).CanBeCancelled())
}

func TestPurchaseOrder_ApplyPaidAmount(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("partial payment moves to partially_paid", func(t *testing.T) {
		po := &PurchaseOrder{TotalAmount: 50000, Status: POStatusApproved}

		po.ApplyPaidAmount(20000, now)

		assert.Equal(t, POStatusPartiallyPaid, po.Status)
		assert.Equal(t, 20000.0, po.PaidAmount)
		assert.Equal(t, 30000.0, po.BalanceAmount)
		assert.Nil(t, po.CompletedAt)
	})

	t.Run("full payment moves to paid and sets completedAt once", func(t *testing.T) {
		po := &PurchaseOrder{TotalAmount: 50000, Status: POStatusPartiallyPaid}

		po.ApplyPaidAmount(50000, now)

		require.NotNil(t, po.CompletedAt)
		assert.Equal(t, POStatusPaid, po.Status)
		assert.Equal(t, now, *po.CompletedAt)

		// Повторная сверка не двигает completedAt
		later := now.Add(time.Hour)
		po.ApplyPaidAmount(50000, later)
		assert.Equal(t, now, *po.CompletedAt)
	})

	t.Run("zero paid keeps lifecycle status", func(t *testing.T) {
		po := &PurchaseOrder{TotalAmount: 50000, Status: POStatusApproved}

		po.ApplyPaidAmount(0, now)

		assert.Equal(t, POStatusApproved, po.Status)
		assert.Equal(t, 0.0, po.PaidAmount)
		assert.Equal(t, 50000.0, po.BalanceAmount)
	})

	t.Run("cancelled order is never revived", func(t *testing.T) {
		po := &PurchaseOrder{TotalAmount: 50000, Status: POStatusCancelled}

		po.ApplyPaidAmount(50000, now)

		assert.Equal(t, POStatusCancelled, po.Status)
		// Производные суммы при этом актуальны
		assert.Equal(t, 50000.0, po.PaidAmount)
		assert.Equal(t, 0.0, po.BalanceAmount)
		assert.Nil(t, po.CompletedAt)
	})

	t.Run("paid order stays paid after refund", func(t *testing.T) {
		completed := now
		po := &PurchaseOrder{
			TotalAmount: 50000,
			Status:      POStatusPaid,
			CompletedAt: &completed,
		}

		po.ApplyPaidAmount(30000, now.Add(time.Hour))

		// Статус терминален, но производные суммы отражают леджер
		assert.Equal(t, POStatusPaid, po.Status)
		assert.Equal(t, 30000.0, po.PaidAmount)
		assert.Equal(t, 20000.0, po.BalanceAmount)
	})
}

func TestPurchaseOrder_IsTerminal(t *testing.T) {
	assert.True(t, (&PurchaseOrder{Status: POStatusPaid}).IsTerminal())
	assert.True(t, (&PurchaseOrder{Status: POStatusCancelled}).IsTerminal())
	assert.False(t, (&PurchaseOrder{Status: POStatusDraft}).IsTerminal())
	assert.False(t, (&PurchaseOrder{Status: POStatusPartiallyPaid}).IsTerminal())
}

func TestPONumberFormatting(t *testing.T) {
	ts := time.Date(2026, 9, 15, 10, 30, 0, 0, time.UTC)

	monthKey := POMonthKey(ts)
	assert.Equal(t, "2026-09", monthKey)

	assert.Equal(t, "PO-2026-09-0001", FormatPONumber(monthKey, 1))
	assert.Equal(t, "PO-2026-09-0042", FormatPONumber(monthKey, 42))
	assert.Equal(t, "PO-2026-09-12345", FormatPONumber(monthKey, 12345))
}

func TestPOMonthKey_UTCNormalization(t *testing.T) {
	// Последний час месяца в смещенной зоне - уже следующий месяц в UTC
	loc := time.FixedZone("UTC-5", -5*60*60)
	ts := time.Date(2026, 8, 31, 23, 0, 0, 0, loc)

	assert.Equal(t, "2026-09", POMonthKey(ts))
}
