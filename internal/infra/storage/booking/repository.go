package booking

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

const (
	pqUniqueViolation    = "23505"
	pqExclusionViolation = "23P01"
)

var bookingColumns = []string{
	"id",
	"venue_id",
	"event_name",
	"guest_count",
	"event_start",
	"event_end",
	"status",
	"total_amount",
	"advance_amount",
	"payment_status",
	"catering_vendor",
	"service_vendors",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"version",
	"created_by",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями площадок
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её.
// Нарушение exclusion constraint на пересечение интервалов мапится
// в ErrSlotNotAvailable - это страховка хранилища от гонки check-then-act,
// даже если проверка доступности перед вставкой успела устареть.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	cateringJSON, serviceJSON, err := encodeVendors(booking)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"venue_id",
			"event_name",
			"guest_count",
			"event_start",
			"event_end",
			"status",
			"total_amount",
			"advance_amount",
			"payment_status",
			"catering_vendor",
			"service_vendors",
			"notes",
			"created_by",
		).
		Values(
			booking.VenueID,
			booking.EventName,
			booking.GuestCount,
			booking.EventStart,
			booking.EventEnd,
			booking.Status,
			booking.TotalAmount,
			booking.AdvanceAmount,
			booking.PaymentStatus,
			cateringJSON,
			serviceJSON,
			booking.Notes,
			booking.CreatedBy,
		).
		Suffix("RETURNING id, version, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.Version,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isConflictViolation(err) {
			return nil, ErrSlotNotAvailable
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetBlockingForInterval получает активные бронирования площадки,
// пересекающиеся с полуинтервалом [start, end)
// Тест на пересечение: event_start < end AND event_end > start,
// граничные касания интервалов пересечением не считаются.
// Если excludeID задан, это бронирование исключается из кандидатов
// (используется при переносе бронирования на новый интервал).
// Внутри транзакции строки блокируются через FOR UPDATE.
func (r *Repository) GetBlockingForInterval(ctx context.Context, venueID int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	blockingStatuses := make([]string, len(domain.BlockingStatuses))
	for i, s := range domain.BlockingStatuses {
		blockingStatuses[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"venue_id": venueID}).
		Where(squirrel.Eq{"status": blockingStatuses}).
		Where(squirrel.Lt{"event_start": end}).
		Where(squirrel.Gt{"event_end": start}).
		OrderBy("event_start ASC")

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockingForInterval - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockingForInterval - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByVenueWithFilter получает бронирования площадки с фильтрацией
// по периоду, статусу и включению неактивных бронирований
func (r *Repository) GetByVenueWithFilter(ctx context.Context, filter domain.VenueBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"venue_id": filter.VenueID})

	// Фильтрация по периоду
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"event_end": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"event_start": *filter.EndDate})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		inactiveStatuses := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactiveStatuses[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactiveStatuses})
	}

	query, args, err := selectBuilder.OrderBy("event_start ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByVenueWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByVenueWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "UpdateStatus")
}

// UpdateSchedule переносит бронирование на новый интервал
// Нарушение exclusion constraint мапится в ErrSlotNotAvailable
func (r *Repository) UpdateSchedule(ctx context.Context, id int64, start, end time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("event_start", start).
		Set("event_end", end).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isConflictViolation(err) {
			return ErrSlotNotAvailable
		}
		return fmt.Errorf("%w: UpdateSchedule - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Cancel отменяет бронирование с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Cancel")
}

// UpdatePaymentState записывает производные платежные поля бронирования
// с compare-and-swap по версии. При несовпадении версии возвращает
// ErrVersionConflict - вызывающий перечитывает агрегат и повторяет сверку.
func (r *Repository) UpdatePaymentState(ctx context.Context, id int64, advanceAmount float64, paymentStatus domain.PaymentStatus, version int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("advance_amount", advanceAmount).
		Set("payment_status", paymentStatus).
		Set("version", version+1).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "version": version}).
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

	return nil
}

// execExpectingRow выполняет update и возвращает ErrBookingNotFound,
// если ни одна строка не была затронута
func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, query string, args []interface{}, method string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку в доменную модель
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var cateringJSON, serviceJSON []byte
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.VenueID,
		&booking.EventName,
		&booking.GuestCount,
		&booking.EventStart,
		&booking.EventEnd,
		&booking.Status,
		&booking.TotalAmount,
		&booking.AdvanceAmount,
		&booking.PaymentStatus,
		&cateringJSON,
		&serviceJSON,
		&booking.Notes,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&booking.Version,
		&booking.CreatedBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	if len(cateringJSON) > 0 {
		var vendor domain.VendorAssignment
		if err := json.Unmarshal(cateringJSON, &vendor); err != nil {
			return nil, fmt.Errorf("decode catering vendor: %v", err)
		}
		booking.CateringVendor = &vendor
	}
	if len(serviceJSON) > 0 {
		if err := json.Unmarshal(serviceJSON, &booking.ServiceVendors); err != nil {
			return nil, fmt.Errorf("decode service vendors: %v", err)
		}
	}

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// encodeVendors сериализует данные поставщиков в JSONB
func encodeVendors(booking *domain.Booking) ([]byte, []byte, error) {
	var cateringJSON []byte
	if booking.CateringVendor != nil {
		data, err := json.Marshal(booking.CateringVendor)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: catering vendor: %v", ErrEncodeVendors, err)
		}
		cateringJSON = data
	}

	var serviceJSON []byte
	if len(booking.ServiceVendors) > 0 {
		data, err := json.Marshal(booking.ServiceVendors)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: service vendors: %v", ErrEncodeVendors, err)
		}
		serviceJSON = data
	}

	return cateringJSON, serviceJSON, nil
}

// isConflictViolation проверяет нарушение unique или exclusion constraint
func isConflictViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation || pqErr.Code == pqExclusionViolation
	}
	return false
}
