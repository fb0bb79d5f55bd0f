package booking

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/m04kA/SMC-DayBooking/internal/config"
	"github.com/m04kA/SMC-DayBooking/internal/domain"
	"github.com/m04kA/SMC-DayBooking/internal/infra/storage/migrations"
	"github.com/m04kA/SMC-DayBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-DayBooking/pkg/logger"
	"github.com/m04kA/SMC-DayBooking/pkg/sqlbuilder"
	"github.com/m04kA/SMC-DayBooking/pkg/txmanager"
	"github.com/m04kA/SMC-DayBooking/pkg/types"
)

func setupRepository(t *testing.T) (*Repository, *dbmetrics.DB) {
	t.Helper()

	raw, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	raw.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = raw.Close() })

	db := dbmetrics.Wrap(raw, nil)
	require.NoError(t, migrations.Apply(context.Background(), db, sqlbuilder.SQLite, logger.Nop()))

	return NewRepository(db, sqlbuilder.SQLite), db
}

func newBooking(email, date string) *domain.Booking {
	return &domain.Booking{
		EmployeeEmail: email,
		EmployeeName:  "Test Employee",
		BookingDate:   types.MustParseDate(date),
		Status:        domain.StatusActive,
		PinCode:       "1234",
		CreatedAt:     time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC),
	}
}

func mustCreate(t *testing.T, repo *Repository, b *domain.Booking) *domain.Booking {
	t.Helper()
	created, err := repo.Create(context.Background(), b)
	require.NoError(t, err)
	return created
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	created := mustCreate(t, repo, newBooking("anna@sap.com", "2026-10-20"))
	require.NotZero(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "anna@sap.com", got.EmployeeEmail)
	assert.Equal(t, "Test Employee", got.EmployeeName)
	assert.Equal(t, "2026-10-20", got.BookingDate.String())
	assert.Equal(t, domain.StatusActive, got.Status)
	assert.Equal(t, "1234", got.PinCode)
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt))
}

func TestRepository_GetByIDNotFound(t *testing.T) {
	repo, _ := setupRepository(t)

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_ActiveEmailUniqueIndex(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	mustCreate(t, repo, newBooking("anna@sap.com", "2026-10-20"))

	// регистр email не важен
	_, err := repo.Create(ctx, newBooking("ANNA@SAP.COM", "2026-10-21"))
	assert.ErrorIs(t, err, ErrActiveBookingExists)

	// неактивная запись не мешает
	used := newBooking("anna@sap.com", "2026-10-13")
	used.Status = domain.StatusUsed
	mustCreate(t, repo, used)

	has, err := repo.HasActiveForEmail(ctx, "Anna@Sap.com")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestRepository_CapacityTrigger(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	for i := 0; i < domain.MaxActiveBookingsPerDay; i++ {
		mustCreate(t, repo, newBooking(fmt.Sprintf("user%d@sap.com", i), "2026-10-20"))
	}

	_, err := repo.Create(ctx, newBooking("late@sap.com", "2026-10-20"))
	assert.ErrorIs(t, err, ErrDateFullyBooked)

	n, err := repo.CountActiveOnDate(ctx, types.MustParseDate("2026-10-20"))
	require.NoError(t, err)
	assert.Equal(t, domain.MaxActiveBookingsPerDay, n)

	// на другую дату место есть
	mustCreate(t, repo, newBooking("late@sap.com", "2026-10-21"))
}

func TestRepository_ListByEmailAndPIN(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	later := newBooking("anna@sap.com", "2026-10-27")
	mustCreate(t, repo, later)

	earlier := newBooking("anna@sap.com", "2026-10-13")
	earlier.Status = domain.StatusUsed
	mustCreate(t, repo, earlier)

	other := newBooking("anna@sap.com", "2026-10-06")
	other.Status = domain.StatusUsed
	other.PinCode = "9999"
	mustCreate(t, repo, other)

	bookings, err := repo.ListByEmailAndPIN(ctx, " ANNA@sap.com ", "1234")
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, "2026-10-13", bookings[0].BookingDate.String())
	assert.Equal(t, "2026-10-27", bookings[1].BookingDate.String())

	empty, err := repo.ListByEmailAndPIN(ctx, "nobody@sap.com", "1234")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRepository_CountActiveByDate(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	mustCreate(t, repo, newBooking("a@sap.com", "2026-10-20"))
	mustCreate(t, repo, newBooking("b@sap.com", "2026-10-20"))
	mustCreate(t, repo, newBooking("c@sap.com", "2026-10-21"))
	mustCreate(t, repo, newBooking("d@sap.com", "2026-11-01"))

	used := newBooking("e@sap.com", "2026-10-21")
	used.Status = domain.StatusUsed
	mustCreate(t, repo, used)

	all, err := repo.CountActiveByDate(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, 2, all[types.MustParseDate("2026-10-20")])
	assert.Equal(t, 1, all[types.MustParseDate("2026-10-21")])

	from := types.MustParseDate("2026-10-01")
	to := types.MustParseDate("2026-10-31")
	october, err := repo.CountActiveByDate(ctx, &from, &to)
	require.NoError(t, err)
	assert.Len(t, october, 2)
	_, ok := october[types.MustParseDate("2026-11-01")]
	assert.False(t, ok)
}

func TestRepository_Delete(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	created := mustCreate(t, repo, newBooking("anna@sap.com", "2026-10-20"))

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Equal(t, "2026-10-20", deleted.BookingDate.String())

	_, err = repo.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	// после отмены можно забронировать снова
	mustCreate(t, repo, newBooking("anna@sap.com", "2026-10-21"))
}

func TestRepository_DeleteOwned(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	created := mustCreate(t, repo, newBooking("anna@sap.com", "2026-10-20"))

	_, err := repo.DeleteOwned(ctx, created.ID, "anna@sap.com", "0000")
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = repo.DeleteOwned(ctx, created.ID, "boris@sap.com", "1234")
	assert.ErrorIs(t, err, ErrBookingNotFound)

	deleted, err := repo.DeleteOwned(ctx, created.ID, "Anna@SAP.com", "1234")
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
}

func TestRepository_DeleteBefore(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()
	today := types.MustParseDate("2026-10-19")

	mustCreate(t, repo, newBooking("a@sap.com", "2026-10-12"))
	used := newBooking("b@sap.com", "2026-10-13")
	used.Status = domain.StatusUsed
	mustCreate(t, repo, used)
	mustCreate(t, repo, newBooking("c@sap.com", "2026-10-19"))
	mustCreate(t, repo, newBooking("d@sap.com", "2026-10-20"))

	n, err := repo.DeleteBefore(ctx, today)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	// повторный запуск ничего не меняет
	n, err = repo.DeleteBefore(ctx, today)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	all, err := repo.CountActiveByDate(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRepository_ExpireBefore(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()
	today := types.MustParseDate("2026-10-19")

	past := mustCreate(t, repo, newBooking("a@sap.com", "2026-10-12"))
	future := mustCreate(t, repo, newBooking("b@sap.com", "2026-10-20"))

	n, err := repo.ExpireBefore(ctx, today)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = repo.ExpireBefore(ctx, today)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	got, err := repo.GetByID(ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUsed, got.Status)

	got, err = repo.GetByID(ctx, future.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, got.Status)

	// истекшая запись освобождает email
	mustCreate(t, repo, newBooking("a@sap.com", "2026-10-21"))
}

func TestRepository_LockForAdmissionRequiresTransaction(t *testing.T) {
	repo, db := setupRepository(t)
	ctx := context.Background()
	date := types.MustParseDate("2026-10-20")

	err := repo.LockForAdmission(ctx, "anna@sap.com", date)
	assert.ErrorIs(t, err, ErrTransaction)

	tm := txmanager.NewTransactionManager(db)
	err = tm.Do(ctx, func(ctx context.Context) error {
		if err := repo.LockForAdmission(ctx, "anna@sap.com", date); err != nil {
			return err
		}
		_, err := repo.Create(ctx, newBooking("anna@sap.com", "2026-10-20"))
		return err
	})
	require.NoError(t, err)

	n, err := repo.CountActiveOnDate(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRepository_CreateRollsBackInTransaction(t *testing.T) {
	repo, db := setupRepository(t)
	ctx := context.Background()

	tm := txmanager.NewTransactionManager(db)
	err := tm.Do(ctx, func(ctx context.Context) error {
		if _, err := repo.Create(ctx, newBooking("anna@sap.com", "2026-10-20")); err != nil {
			return err
		}
		_, err := repo.Create(ctx, newBooking("anna@sap.com", "2026-10-21"))
		return err
	})
	require.ErrorIs(t, err, ErrActiveBookingExists)

	n, err := repo.CountActiveForEmail(ctx, "anna@sap.com")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRepository_RoundTripWithConfiguredDSN(t *testing.T) {
	dbCfg := config.Default().Database
	dbCfg.Driver = string(sqlbuilder.SQLite)
	dbCfg.Path = filepath.Join(t.TempDir(), "bookings.db")

	raw, err := sql.Open(sqlbuilder.SQLite.DriverName(), dbCfg.DSN())
	require.NoError(t, err)
	raw.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = raw.Close() })

	db := dbmetrics.Wrap(raw, nil)
	ctx := context.Background()
	require.NoError(t, migrations.Apply(ctx, db, sqlbuilder.SQLite, logger.Nop()))
	repo := NewRepository(db, sqlbuilder.SQLite)

	// время как в usecase: локальная зона и монотонные часы
	b := newBooking("anna@sap.com", "2026-10-20")
	b.CreatedAt = time.Now()
	created := mustCreate(t, repo, b)

	list, err := repo.ListByEmailAndPIN(ctx, "ANNA@sap.com", "1234")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.True(t, list[0].CreatedAt.Equal(created.CreatedAt))

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-20", got.BookingDate.String())

	deleted, err := repo.DeleteOwned(ctx, created.ID, "anna@sap.com", "1234")
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	list, err = repo.ListByEmailAndPIN(ctx, "anna@sap.com", "1234")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRepository_ScanRejectsUnknownStatus(t *testing.T) {
	repo, db := setupRepository(t)
	ctx := context.Background()

	// таблица без CHECK, чтобы записать неизвестный статус
	_, err := db.ExecContext(ctx, "DROP TABLE bookings")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `CREATE TABLE bookings (
		id INTEGER PRIMARY KEY, employee_email TEXT, employee_name TEXT,
		booking_date TEXT, status TEXT, pin_code TEXT, created_at TEXT)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO bookings VALUES (1, 'a@sap.com', 'A', '2026-10-20', 'archived', '1234', '2026-10-19 09:30:00')`)
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, 1)
	assert.ErrorIs(t, err, ErrScanRow)
}
