package purchaseorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/VenueBookingService/internal/domain"
	"github.com/m04kA/VenueBookingService/pkg/dbmetrics"
	"github.com/m04kA/VenueBookingService/pkg/psqlbuilder"
)

const pqUniqueViolation = "23505"

var poColumns = []string{
	"id",
	"po_number",
	"booking_id",
	"venue_id",
	"vendor_type",
	"vendor_name",
	"vendor_phone",
	"vendor_email",
	"vendor_bank",
	"line_items",
	"total_amount",
	"paid_amount",
	"balance_amount",
	"status",
	"cancellation_reason",
	"completed_at",
	"version",
	"created_by",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с заказами поставщикам
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория заказов поставщикам
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// NextPONumber выделяет следующий номер заказа формата PO-YYYY-MM-NNNN
// Инкремент помесячного счетчика выполняется одним UPSERT-запросом:
// конкурентные вызовы сериализуются на блокировке строки месяца,
// поэтому номера уникальны и без пропусков даже под нагрузкой.
func (r *Repository) NextPONumber(ctx context.Context, now time.Time) (string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	monthKey := domain.POMonthKey(now)

	const query = `
		INSERT INTO po_sequences (month_key, last_value)
		VALUES ($1, 1)
		ON CONFLICT (month_key)
		DO UPDATE SET last_value = po_sequences.last_value + 1
		RETURNING last_value`

	var seq int64
	if err := executor.QueryRowContext(ctx, query, monthKey).Scan(&seq); err != nil {
		return "", fmt.Errorf("%w: NextPONumber - execute upsert: %v", ErrExecQuery, err)
	}

	return domain.FormatPONumber(monthKey, seq), nil
}

// Create создает заказ поставщику
func (r *Repository) Create(ctx context.Context, po *domain.PurchaseOrder) (*domain.PurchaseOrder, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	lineItemsJSON, err := json.Marshal(po.LineItems)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeLineItems, err)
	}

	var bankJSON []byte
	if po.VendorBank != nil {
		bankJSON, err = json.Marshal(po.VendorBank)
		if err != nil {
			return nil, fmt.Errorf("%w: vendor bank: %v", ErrEncodeLineItems, err)
		}
	}

	query, args, err := psqlbuilder.Insert("purchase_orders").
		Columns(
			"po_number",
			"booking_id",
			"venue_id",
			"vendor_type",
			"vendor_name",
			"vendor_phone",
			"vendor_email",
			"vendor_bank",
			"line_items",
			"total_amount",
			"paid_amount",
			"balance_amount",
			"status",
			"created_by",
		).
		Values(
			po.PONumber,
			po.BookingID,
			po.VenueID,
			po.VendorType,
			po.VendorName,
			po.VendorPhone,
			po.VendorEmail,
			bankJSON,
			lineItemsJSON,
			po.TotalAmount,
			po.PaidAmount,
			po.BalanceAmount,
			po.Status,
			po.CreatedBy,
		).
		Suffix("RETURNING id, version, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&po.ID,
		&po.Version,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, ErrDuplicatePONumber
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	po.CreatedAt = createdAt.Time
	po.UpdatedAt = updatedAt.Time

	return po, nil
}

// GetByID получает заказ по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.PurchaseOrder, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "GetByID")
}

// GetByPONumber получает заказ по номеру
func (r *Repository) GetByPONumber(ctx context.Context, poNumber string) (*domain.PurchaseOrder, error) {
	return r.getOne(ctx, squirrel.Eq{"po_number": poNumber}, "GetByPONumber")
}

// ListByBooking получает заказы бронирования
func (r *Repository) ListByBooking(ctx context.Context, bookingID int64) ([]*domain.PurchaseOrder, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(poColumns...).
		From("purchase_orders").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanPurchaseOrders(rows)
}

// ExistsForBooking проверяет, созданы ли уже заказы для бронирования
// Используется как idempotency guard генератора заказов
func (r *Repository) ExistsForBooking(ctx context.Context, bookingID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("purchase_orders").
		Where(squirrel.Eq{"booking_id": bookingID}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ExistsForBooking - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsForBooking - scan: %v", ErrScanRow, err)
	}

	return true, nil
}

// UpdateStatusGuarded меняет статус заказа, только если текущий статус
// входит в allowedFrom. Guard в WHERE закрывает гонку между проверкой
// статуса в сервисе и записью: при конкурентном изменении статуса
// возвращается ErrStatusConflict, а не затирание чужого перехода.
func (r *Repository) UpdateStatusGuarded(ctx context.Context, id int64, status domain.POStatus, allowedFrom []domain.POStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	fromStatuses := make([]string, len(allowedFrom))
	for i, s := range allowedFrom {
		fromStatuses[i] = string(s)
	}

	query, args, err := psqlbuilder.Update("purchase_orders").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": fromStatuses}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatusGuarded - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatusGuarded - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatusGuarded - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		// Различаем "нет заказа" и "статус ушел из-под guard'а"
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrStatusConflict
	}

	return nil
}

// CancelGuarded отменяет заказ с причиной, если текущий статус позволяет
func (r *Repository) CancelGuarded(ctx context.Context, id int64, reason string, allowedFrom []domain.POStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	fromStatuses := make([]string, len(allowedFrom))
	for i, s := range allowedFrom {
		fromStatuses[i] = string(s)
	}

	query, args, err := psqlbuilder.Update("purchase_orders").
		Set("status", domain.POStatusCancelled).
		Set("cancellation_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": fromStatuses}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CancelGuarded - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: CancelGuarded - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: CancelGuarded - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrStatusConflict
	}

	return nil
}

// UpdatePaymentState записывает производные платежные поля заказа
// с compare-and-swap по версии. При несовпадении версии возвращает
// ErrVersionConflict - вызывающий перечитывает агрегат и повторяет сверку.
func (r *Repository) UpdatePaymentState(ctx context.Context, po *domain.PurchaseOrder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("purchase_orders").
		Set("paid_amount", po.PaidAmount).
		Set("balance_amount", po.BalanceAmount).
		Set("status", po.Status).
		Set("completed_at", po.CompletedAt).
		Set("version", po.Version+1).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": po.ID, "version": po.Version}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdatePaymentState - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdatePaymentState - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdatePaymentState - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrVersionConflict
	}

	po.Version++
	return nil
}

func (r *Repository) getOne(ctx context.Context, condition squirrel.Eq, method string) (*domain.PurchaseOrder, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(poColumns...).
		From("purchase_orders").
		Where(condition).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	po, err := scanPurchaseOrder(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrPONotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan purchase order: %v", ErrScanRow, method, err)
	}

	return po, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPurchaseOrder(row rowScanner) (*domain.PurchaseOrder, error) {
	var po domain.PurchaseOrder
	var bankJSON, lineItemsJSON []byte
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&po.ID,
		&po.PONumber,
		&po.BookingID,
		&po.VenueID,
		&po.VendorType,
		&po.VendorName,
		&po.VendorPhone,
		&po.VendorEmail,
		&bankJSON,
		&lineItemsJSON,
		&po.TotalAmount,
		&po.PaidAmount,
		&po.BalanceAmount,
		&po.Status,
		&po.CancellationReason,
		&po.CompletedAt,
		&po.Version,
		&po.CreatedBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	po.CreatedAt = createdAt.Time
	po.UpdatedAt = updatedAt.Time

	if len(bankJSON) > 0 {
		var bank domain.BankDetails
		if err := json.Unmarshal(bankJSON, &bank); err != nil {
			return nil, fmt.Errorf("decode vendor bank: %v", err)
		}
		po.VendorBank = &bank
	}
	if len(lineItemsJSON) > 0 {
		if err := json.Unmarshal(lineItemsJSON, &po.LineItems); err != nil {
			return nil, fmt.Errorf("decode line items: %v", err)
		}
	}

	return &po, nil
}

func scanPurchaseOrders(rows *sql.Rows) ([]*domain.PurchaseOrder, error) {
	orders := make([]*domain.PurchaseOrder, 0)

	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanPurchaseOrders - scan row: %v", ErrScanRow, err)
		}
		orders = append(orders, po)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanPurchaseOrders - rows error: %v", ErrScanRow, err)
	}

	return orders, nil
}
