package transaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/VenueBookingService/internal/domain"
	"github.com/m04kA/VenueBookingService/pkg/dbmetrics"
	"github.com/m04kA/VenueBookingService/pkg/psqlbuilder"
)

const pqUniqueViolation = "23505"

var transactionColumns = []string{
	"id",
	"reference",
	"booking_id",
	"purchase_order_id",
	"amount",
	"mode",
	"direction",
	"vendor_type",
	"type",
	"status",
	"reconciled",
	"notes",
	"created_by",
	"created_at",
	"updated_at",
}

// Repository репозиторий леджера платежных транзакций
// Записи append-only: после создания меняются только status и reconciled
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория транзакций
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет транзакцию в леджер
func (r *Repository) Create(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("transactions").
		Columns(
			"reference",
			"booking_id",
			"purchase_order_id",
			"amount",
			"mode",
			"direction",
			"vendor_type",
			"type",
			"status",
			"reconciled",
			"notes",
			"created_by",
		).
		Values(
			txn.Reference,
			txn.BookingID,
			txn.PurchaseOrderID,
			txn.Amount,
			txn.Mode,
			txn.Direction,
			txn.VendorType,
			txn.Type,
			txn.Status,
			txn.Reconciled,
			txn.Notes,
			txn.CreatedBy,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&txn.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, ErrDuplicateReference
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	txn.CreatedAt = createdAt.Time
	txn.UpdatedAt = updatedAt.Time

	return txn, nil
}

// GetByID получает транзакцию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	txn, err := scanTransaction(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan transaction: %v", ErrScanRow, err)
	}

	return txn, nil
}

// ListByBooking получает транзакции бронирования в порядке создания
func (r *Repository) ListByBooking(ctx context.Context, bookingID int64) ([]*domain.Transaction, error) {
	return r.list(ctx, squirrel.Eq{"booking_id": bookingID}, "ListByBooking")
}

// ListByPurchaseOrder получает транзакции заказа поставщику
func (r *Repository) ListByPurchaseOrder(ctx context.Context, poID int64) ([]*domain.Transaction, error) {
	return r.list(ctx, squirrel.Eq{"purchase_order_id": poID}, "ListByPurchaseOrder")
}

// ListUnreconciled получает успешные транзакции, ожидающие сверки владельца
// Используется sweep'ом для повторной сверки после сбоев
func (r *Repository) ListUnreconciled(ctx context.Context, limit int) ([]*domain.Transaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"reconciled": false}).
		Where(squirrel.Eq{"status": domain.TxnStatusSuccess}).
		OrderBy("id ASC").
		Limit(uint64(limit)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListUnreconciled - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListUnreconciled - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// SumSuccessfulInboundByBooking возвращает сумму успешных входящих
// транзакций бронирования. Если excludeID задан, транзакция исключается
// из суммы (используется для классификации типа платежа при создании).
func (r *Repository) SumSuccessfulInboundByBooking(ctx context.Context, bookingID int64, excludeID *int64) (float64, error) {
	conditions := squirrel.And{
		squirrel.Eq{"booking_id": bookingID},
		squirrel.Eq{"direction": domain.DirectionInbound},
		squirrel.Eq{"status": domain.TxnStatusSuccess},
	}
	if excludeID != nil {
		conditions = append(conditions, squirrel.NotEq{"id": *excludeID})
	}
	return r.sum(ctx, conditions, "SumSuccessfulInboundByBooking")
}

// SumSuccessfulOutboundByPurchaseOrder возвращает сумму успешных исходящих
// транзакций, ссылающихся на заказ поставщику
func (r *Repository) SumSuccessfulOutboundByPurchaseOrder(ctx context.Context, poID int64) (float64, error) {
	return r.sum(ctx, squirrel.And{
		squirrel.Eq{"purchase_order_id": poID},
		squirrel.Eq{"direction": domain.DirectionOutbound},
		squirrel.Eq{"status": domain.TxnStatusSuccess},
	}, "SumSuccessfulOutboundByPurchaseOrder")
}

// UpdateStatus меняет статус транзакции, только если текущий статус
// равен expectedFrom. Guard в WHERE закрывает гонку между проверкой
// перехода в сервисе и записью: конкурентный переход не затирается,
// а возвращается ErrStatusConflict.
// Сумма и прочие поля не переписываются никогда - леджер append-only.
// markUnreconciled сбрасывает флаг сверки, когда переход меняет
// "успешные деньги" и владельца нужно сверить заново.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status, expectedFrom domain.TransactionStatus, markUnreconciled bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("transactions").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": expectedFrom})

	if markUnreconciled {
		updateBuilder = updateBuilder.Set("reconciled", false)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		// Различаем "нет транзакции" и "статус ушел из-под guard'а"
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrStatusConflict
	}

	return nil
}

// MarkReconciled выставляет флаг успешной сверки владельца транзакции
func (r *Repository) MarkReconciled(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("transactions").
		Set("reconciled", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkReconciled - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkReconciled - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkReconciled - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrTransactionNotFound
	}

	return nil
}

func (r *Repository) list(ctx context.Context, condition squirrel.Eq, method string) ([]*domain.Transaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(transactionColumns...).
		From("transactions").
		Where(condition).
		OrderBy("created_at ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (r *Repository) sum(ctx context.Context, conditions squirrel.And, method string) (float64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(SUM(amount), 0)").
		From("transactions").
		Where(conditions).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	var total float64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: %s - scan sum: %v", ErrScanRow, method, err)
	}

	return total, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var txn domain.Transaction
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&txn.ID,
		&txn.Reference,
		&txn.BookingID,
		&txn.PurchaseOrderID,
		&txn.Amount,
		&txn.Mode,
		&txn.Direction,
		&txn.VendorType,
		&txn.Type,
		&txn.Status,
		&txn.Reconciled,
		&txn.Notes,
		&txn.CreatedBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	txn.CreatedAt = createdAt.Time
	txn.UpdatedAt = updatedAt.Time

	return &txn, nil
}

func scanTransactions(rows *sql.Rows) ([]*domain.Transaction, error) {
	transactions := make([]*domain.Transaction, 0)

	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanTransactions - scan row: %v", ErrScanRow, err)
		}
		transactions = append(transactions, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanTransactions - rows error: %v", ErrScanRow, err)
	}

	return transactions, nil
}
