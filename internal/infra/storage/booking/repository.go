package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-DayBooking/internal/domain"
	"github.com/m04kA/SMC-DayBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-DayBooking/pkg/sqlbuilder"
	"github.com/m04kA/SMC-DayBooking/pkg/types"
)

const tableBookings = "bookings"

var bookingColumns = []string{
	"id",
	"employee_email",
	"employee_name",
	"booking_date",
	"status",
	"pin_code",
	"created_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db      DBExecutor
	dialect sqlbuilder.Dialect
	sb      squirrel.StatementBuilderType
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor, dialect sqlbuilder.Dialect) *Repository {
	return &Repository{
		db:      db,
		dialect: dialect,
		sb:      sqlbuilder.New(dialect),
	}
}

// Create создает новое бронирование.
// Если в контексте передана активная транзакция (через context.Value), использует её.
// Нарушение ограничений хранилища возвращается как ErrActiveBookingExists / ErrDateFullyBooked.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Insert(tableBookings).
		Columns(
			"employee_email",
			"employee_name",
			"booking_date",
			"status",
			"pin_code",
			"created_at",
		).
		Values(
			booking.EmployeeEmail,
			booking.EmployeeName,
			booking.BookingDate,
			booking.Status,
			booking.PinCode,
			r.timestampArg(booking.CreatedAt),
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID); err != nil {
		if constraintErr := classifyConstraint(err); constraintErr != nil {
			return nil, fmt.Errorf("%w: Create - %v", constraintErr, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// ListByEmailAndPIN получает бронирования сотрудника по email (без учета регистра) и PIN,
// отсортированные по дате бронирования по возрастанию
func (r *Repository) ListByEmailAndPIN(ctx context.Context, email, pin string) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Select(bookingColumns...).
		From(tableBookings).
		Where(emailEq(email)).
		Where(squirrel.Eq{"pin_code": pin}).
		OrderBy("booking_date ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByEmailAndPIN - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByEmailAndPIN - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// CountActiveForEmail количество активных бронирований сотрудника
func (r *Repository) CountActiveForEmail(ctx context.Context, email string) (int, error) {
	return r.count(ctx, "CountActiveForEmail", squirrel.And{
		emailEq(email),
		squirrel.Eq{"status": domain.StatusActive},
	})
}

// HasActiveForEmail есть ли у сотрудника активное бронирование
func (r *Repository) HasActiveForEmail(ctx context.Context, email string) (bool, error) {
	n, err := r.CountActiveForEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountActiveOnDate количество активных бронирований на дату
func (r *Repository) CountActiveOnDate(ctx context.Context, date types.Date) (int, error) {
	return r.count(ctx, "CountActiveOnDate", squirrel.And{
		squirrel.Eq{"booking_date": date},
		squirrel.Eq{"status": domain.StatusActive},
	})
}

// CountActiveByDate группирует активные бронирования по дате.
// from/to включительно, nil - без ограничения.
func (r *Repository) CountActiveByDate(ctx context.Context, from, to *types.Date) (map[types.Date]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.sb.Select("booking_date", "COUNT(*)").
		From(tableBookings).
		Where(squirrel.Eq{"status": domain.StatusActive})

	if from != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *from})
	}
	if to != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *to})
	}

	query, args, err := selectBuilder.GroupBy("booking_date").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CountActiveByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountActiveByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[types.Date]int)
	for rows.Next() {
		var (
			date  types.Date
			count int
		)
		if err := rows.Scan(&date, &count); err != nil {
			return nil, fmt.Errorf("%w: CountActiveByDate - scan row: %v", ErrScanRow, err)
		}
		counts[date] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountActiveByDate - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// Delete физически удаляет бронирование и возвращает удаленную запись
func (r *Repository) Delete(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.deleteReturning(ctx, "Delete", squirrel.Eq{"id": id})
}

// DeleteOwned удаляет бронирование, только если email и PIN совпадают с владельцем
func (r *Repository) DeleteOwned(ctx context.Context, id int64, email, pin string) (*domain.Booking, error) {
	return r.deleteReturning(ctx, "DeleteOwned", squirrel.And{
		squirrel.Eq{"id": id},
		emailEq(email),
		squirrel.Eq{"pin_code": pin},
	})
}

// DeleteBefore удаляет все бронирования с датой строго раньше date, независимо от статуса
func (r *Repository) DeleteBefore(ctx context.Context, date types.Date) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Delete(tableBookings).
		Where(squirrel.Lt{"booking_date": date}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteBefore - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execAffected(ctx, executor, "DeleteBefore", query, args)
}

// ExpireBefore переводит активные бронирования с датой строго раньше date в статус used
func (r *Repository) ExpireBefore(ctx context.Context, date types.Date) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Update(tableBookings).
		Set("status", domain.StatusUsed).
		Where(squirrel.Lt{"booking_date": date}).
		Where(squirrel.Eq{"status": domain.StatusActive}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: ExpireBefore - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffected(ctx, executor, "ExpireBefore", query, args)
}

// LockForAdmission берет транзакционные advisory-блокировки на email и дату.
// Порядок фиксирован (email, затем дата), чтобы не было взаимных блокировок.
// В SQLite писатели и так сериализованы (BEGIN IMMEDIATE), блокировка не нужна.
func (r *Repository) LockForAdmission(ctx context.Context, email string, date types.Date) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return fmt.Errorf("%w: LockForAdmission - must run inside a transaction", ErrTransaction)
	}

	if r.dialect != sqlbuilder.Postgres {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)
	keys := []string{
		domain.LockKeyEmailPrefix + domain.NormalizeEmail(email),
		domain.LockKeyDatePrefix + date.String(),
	}

	for _, key := range keys {
		query, args, err := r.sb.Select().
			Column(squirrel.Expr("pg_advisory_xact_lock(hashtext(?))", key)).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: LockForAdmission - build lock query: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: LockForAdmission - lock %s: %v", ErrExecQuery, key, err)
		}
	}

	return nil
}

// Helper methods

func (r *Repository) count(ctx context.Context, op string, where squirrel.Sqlizer) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Select("COUNT(*)").
		From(tableBookings).
		Where(where).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: %s - build count query: %v", ErrBuildQuery, op, err)
	}

	var n int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %s - scan count: %v", ErrScanRow, op, err)
	}

	return n, nil
}

func (r *Repository) deleteReturning(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Delete(tableBookings).
		Where(where).
		Suffix("RETURNING id, employee_email, employee_name, booking_date, status, pin_code, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build delete query: %v", ErrBuildQuery, op, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute delete: %v", ErrExecQuery, op, err)
	}

	return booking, nil
}

func (r *Repository) execAffected(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) (int64, error) {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	return rowsAffected, nil
}

// emailEq сравнение email без учета регистра
func emailEq(email string) squirrel.Sqlizer {
	return squirrel.Expr("lower(employee_email) = ?", domain.NormalizeEmail(email))
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking   domain.Booking
		createdAt nullTimestamp
	)

	err := row.Scan(
		&booking.ID,
		&booking.EmployeeEmail,
		&booking.EmployeeName,
		&booking.BookingDate,
		&booking.Status,
		&booking.PinCode,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if !domain.IsValidBookingStatus(booking.Status) {
		return nil, fmt.Errorf("unknown booking status %q", booking.Status)
	}

	booking.CreatedAt = createdAt.Time
	return &booking, nil
}

// timestampArg значение created_at для вставки.
// SQLite хранит TEXT, поэтому время пишется в UTC в RFC3339Nano.
func (r *Repository) timestampArg(t time.Time) interface{} {
	if r.dialect == sqlbuilder.SQLite {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return t
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
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
