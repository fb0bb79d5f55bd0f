package bookings

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/m04kA/SMC-DayBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-DayBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-DayBooking/internal/infra/storage/migrations"
	"github.com/m04kA/SMC-DayBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-DayBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-DayBooking/pkg/logger"
	"github.com/m04kA/SMC-DayBooking/pkg/sqlbuilder"
	"github.com/m04kA/SMC-DayBooking/pkg/types"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) ListByEmailAndPIN(ctx context.Context, email, pin string) ([]*domain.Booking, error) {
	args := m.Called(ctx, email, pin)
	if b, ok := args.Get(0).([]*domain.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if b, ok := args.Get(0).(*domain.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) Delete(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if b, ok := args.Get(0).(*domain.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) DeleteOwned(ctx context.Context, id int64, email, pin string) (*domain.Booking, error) {
	args := m.Called(ctx, id, email, pin)
	if b, ok := args.Get(0).(*domain.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

type eventRecorder struct {
	events []domain.BookingEvent
}

func (r *eventRecorder) PublishWithGracefulDegradation(_ context.Context, event domain.BookingEvent) {
	r.events = append(r.events, event)
}

type cancelCounter struct{ n int }

func (c *cancelCounter) IncCancellation() { c.n++ }

func seedSQLite(t *testing.T) *bookingRepo.Repository {
	t.Helper()

	raw, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	raw.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = raw.Close() })

	db := dbmetrics.Wrap(raw, nil)
	require.NoError(t, migrations.Apply(context.Background(), db, sqlbuilder.SQLite, logger.Nop()))
	return bookingRepo.NewRepository(db, sqlbuilder.SQLite)
}

func TestLookup_ScenarioD(t *testing.T) {
	repo := seedSQLite(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Booking{
		EmployeeEmail: "a@sap.com",
		EmployeeName:  "Ann",
		BookingDate:   types.MustParseDate("2026-10-20"),
		Status:        domain.StatusActive,
		PinCode:       "1234",
		CreatedAt:     time.Now().UTC(),
	})
	require.NoError(t, err)

	svc := NewService(repo, &eventRecorder{}, &cancelCounter{}, logger.Nop())

	found, err := svc.Lookup(ctx, &models.LookupRequest{Email: "a@sap.com", PIN: "1234"})
	require.NoError(t, err)
	require.Equal(t, 1, found.Total)
	assert.Equal(t, "Ann", found.Bookings[0].EmployeeName)
	assert.Equal(t, "2026-10-20", found.Bookings[0].BookingDate.String())

	empty, err := svc.Lookup(ctx, &models.LookupRequest{Email: "a@sap.com", PIN: "9999"})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Total)
	assert.NotNil(t, empty.Bookings)
}

func TestLookup_InvalidInput(t *testing.T) {
	svc := NewService(&mockRepo{}, &eventRecorder{}, &cancelCounter{}, logger.Nop())

	_, err := svc.Lookup(context.Background(), &models.LookupRequest{Email: "a@sap.com", PIN: " "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLookup_RepositoryError(t *testing.T) {
	repo := &mockRepo{}
	repo.On("ListByEmailAndPIN", mock.Anything, "a@sap.com", "1234").Return(nil, errors.New("timeout")).Once()
	svc := NewService(repo, &eventRecorder{}, &cancelCounter{}, logger.Nop())

	_, err := svc.Lookup(context.Background(), &models.LookupRequest{Email: "a@sap.com", PIN: "1234"})
	assert.ErrorIs(t, err, ErrInternal)
	repo.AssertExpectations(t)
}

func TestCancelOwned(t *testing.T) {
	repo := seedSQLite(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Booking{
		EmployeeEmail: "a@sap.com",
		EmployeeName:  "Ann",
		BookingDate:   types.MustParseDate("2026-10-20"),
		Status:        domain.StatusActive,
		PinCode:       "1234",
		CreatedAt:     time.Now().UTC(),
	})
	require.NoError(t, err)

	events := &eventRecorder{}
	counter := &cancelCounter{}
	svc := NewService(repo, events, counter, logger.Nop())

	_, err = svc.CancelOwned(ctx, &models.CancelOwnedRequest{BookingID: created.ID, Email: "b@sap.com", PIN: "1234"})
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.Empty(t, events.events)

	resp, err := svc.CancelOwned(ctx, &models.CancelOwnedRequest{BookingID: created.ID, Email: "A@sap.com", PIN: "1234"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, resp.ID)
	assert.Equal(t, 1, counter.n)
	require.Len(t, events.events, 1)
	assert.Equal(t, domain.EventBookingCancelled, events.events[0].Type)
	assert.Equal(t, created.ID, events.events[0].BookingID)

	found, err := svc.Lookup(ctx, &models.LookupRequest{Email: "a@sap.com", PIN: "1234"})
	require.NoError(t, err)
	assert.Equal(t, 0, found.Total)
}

func TestCancelOwned_InvalidInput(t *testing.T) {
	svc := NewService(&mockRepo{}, &eventRecorder{}, &cancelCounter{}, logger.Nop())

	_, err := svc.CancelOwned(context.Background(), &models.CancelOwnedRequest{BookingID: 0, Email: "a@sap.com", PIN: "1234"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancelByID(t *testing.T) {
	repo := &mockRepo{}
	deleted := &domain.Booking{ID: 5, EmployeeEmail: "a@sap.com", BookingDate: types.MustParseDate("2026-10-20")}
	repo.On("Delete", mock.Anything, int64(5)).Return(deleted, nil).Once()
	repo.On("Delete", mock.Anything, int64(6)).Return(nil, bookingRepo.ErrBookingNotFound).Once()
	repo.On("Delete", mock.Anything, int64(7)).Return(nil, errors.New("conn refused")).Once()

	events := &eventRecorder{}
	svc := NewService(repo, events, &cancelCounter{}, logger.Nop())
	ctx := context.Background()

	resp, err := svc.CancelByID(ctx, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 5, resp.ID)
	assert.Len(t, events.events, 1)

	_, err = svc.CancelByID(ctx, 6)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = svc.CancelByID(ctx, 7)
	assert.ErrorIs(t, err, ErrInternal)

	_, err = svc.CancelByID(ctx, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	repo.AssertExpectations(t)
}

func TestGetByID(t *testing.T) {
	repo := &mockRepo{}
	found := &domain.Booking{ID: 5, EmployeeEmail: "a@sap.com", BookingDate: types.MustParseDate("2026-10-20"), PinCode: "1234"}
	repo.On("GetByID", mock.Anything, int64(5)).Return(found, nil).Once()
	repo.On("GetByID", mock.Anything, int64(6)).Return(nil, bookingRepo.ErrBookingNotFound).Once()
	repo.On("GetByID", mock.Anything, int64(7)).Return(nil, errors.New("conn refused")).Once()

	svc := NewService(repo, &eventRecorder{}, &cancelCounter{}, logger.Nop())
	ctx := context.Background()

	resp, err := svc.GetByID(ctx, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 5, resp.ID)
	assert.Equal(t, "2026-10-20", resp.BookingDate.String())

	_, err = svc.GetByID(ctx, 6)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = svc.GetByID(ctx, 7)
	assert.ErrorIs(t, err, ErrInternal)

	_, err = svc.GetByID(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	repo.AssertExpectations(t)
}
