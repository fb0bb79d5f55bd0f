package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DayBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-DayBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-DayBooking/internal/usecase/sweep_retention"
	"github.com/m04kA/SMC-DayBooking/pkg/logger"
	"github.com/m04kA/SMC-DayBooking/pkg/types"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) LockForAdmission(ctx context.Context, email string, date types.Date) error {
	return m.Called(ctx, email, date).Error(0)
}

func (m *mockRepo) HasActiveForEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) CountActiveOnDate(ctx context.Context, date types.Date) (int, error) {
	args := m.Called(ctx, date)
	return args.Int(0), args.Error(1)
}

func (m *mockRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	args := m.Called(ctx, booking)
	if b, ok := args.Get(0).(*domain.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSweeper struct{ mock.Mock }

func (m *mockSweeper) Execute(ctx context.Context) (*sweep_retention.Response, error) {
	args := m.Called(ctx)
	if r, ok := args.Get(0).(*sweep_retention.Response); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishWithGracefulDegradation(ctx context.Context, event domain.BookingEvent) {
	m.Called(ctx, event)
}

type mockMetrics struct{ mock.Mock }

func (m *mockMetrics) IncAdmission(outcome string) {
	m.Called(outcome)
}

// passthroughTx выполняет fn без настоящей транзакции
type passthroughTx struct{ err error }

func (p passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.err != nil {
		return p.err
	}
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

// понедельник
var testNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

type fixture struct {
	uc        *UseCase
	repo      *mockRepo
	sweeper   *mockSweeper
	publisher *mockPublisher
	metrics   *mockMetrics
}

func newFixture(t *testing.T, tx TransactionManager) *fixture {
	t.Helper()
	f := &fixture{
		repo:      &mockRepo{},
		sweeper:   &mockSweeper{},
		publisher: &mockPublisher{},
		metrics:   &mockMetrics{},
	}
	if tx == nil {
		tx = passthroughTx{}
	}
	f.uc = NewUseCase(f.repo, f.sweeper, tx, f.publisher, f.metrics,
		domain.DefaultAdmissionPolicy(), time.UTC, logger.Nop()).
		WithTimeProvider(fixedTime{now: testNow})
	t.Cleanup(func() {
		f.repo.AssertExpectations(t)
		f.sweeper.AssertExpectations(t)
		f.publisher.AssertExpectations(t)
		f.metrics.AssertExpectations(t)
	})
	return f
}

func validRequest() *Request {
	return &Request{
		Email: "a@sap.com",
		Name:  "Ann",
		Date:  "2026-10-20", // вторник
		PIN:   "1234",
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t, nil)
	date := types.MustParseDate("2026-10-20")

	f.sweeper.On("Execute", mock.Anything).Return(&sweep_retention.Response{}, nil).Once()
	f.repo.On("LockForAdmission", mock.Anything, "a@sap.com", date).Return(nil).Once()
	f.repo.On("HasActiveForEmail", mock.Anything, "a@sap.com").Return(false, nil).Once()
	f.repo.On("CountActiveOnDate", mock.Anything, date).Return(2, nil).Once()
	f.repo.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.EmployeeEmail == "a@sap.com" &&
			b.EmployeeName == "Ann" &&
			b.BookingDate == date &&
			b.Status == domain.StatusActive &&
			b.PinCode == "1234" &&
			b.CreatedAt.Equal(testNow)
	})).Return(&domain.Booking{
		ID:            10,
		EmployeeEmail: "a@sap.com",
		EmployeeName:  "Ann",
		BookingDate:   date,
		Status:        domain.StatusActive,
		PinCode:       "1234",
		CreatedAt:     testNow,
	}, nil).Once()
	f.metrics.On("IncAdmission", outcomeAccepted).Once()
	f.publisher.On("PublishWithGracefulDegradation", mock.Anything, mock.MatchedBy(func(e domain.BookingEvent) bool {
		return e.Type == domain.EventBookingCreated && e.BookingID == 10
	})).Once()

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.EqualValues(t, 10, resp.ID)
	assert.Equal(t, "2026-10-20", resp.BookingDate.String())
	assert.Equal(t, "active", resp.Status)
}

func TestExecute_ValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{"empty email", func(r *Request) { r.Email = "  " }, ErrMissingFields},
		{"empty name", func(r *Request) { r.Name = "" }, ErrMissingFields},
		{"empty date", func(r *Request) { r.Date = "" }, ErrMissingFields},
		{"empty pin", func(r *Request) { r.PIN = "" }, ErrMissingFields},
		// пустое поле важнее неверного домена
		{"missing beats domain", func(r *Request) { r.Email = "a@gmail.com"; r.PIN = "" }, ErrMissingFields},
		{"foreign domain", func(r *Request) { r.Email = "a@gmail.com" }, ErrInvalidEmailDomain},
		{"domain beats pin", func(r *Request) { r.Email = "a@gmail.com"; r.PIN = "12" }, ErrInvalidEmailDomain},
		{"short pin", func(r *Request) { r.PIN = "123" }, ErrInvalidPIN},
		{"letters in pin", func(r *Request) { r.PIN = "12a4" }, ErrInvalidPIN},
		{"pin beats date", func(r *Request) { r.PIN = "12345"; r.Date = "2020-01-01" }, ErrInvalidPIN},
		{"bad date format", func(r *Request) { r.Date = "20.10.2026" }, ErrInvalidDate},
		{"past date", func(r *Request) { r.Date = "2026-10-18" }, ErrDateInPast},
		{"past beats weekday", func(r *Request) { r.Date = "2026-10-16" }, ErrDateInPast},
		{"today", func(r *Request) { r.Date = "2026-10-19" }, ErrSameDayNotAllowed},
		{"thursday", func(r *Request) { r.Date = "2026-10-22" }, ErrWeekdayNotAllowed},
		{"friday", func(r *Request) { r.Date = "2026-10-23" }, ErrWeekdayNotAllowed},
		{"saturday", func(r *Request) { r.Date = "2026-10-24" }, ErrWeekdayNotAllowed},
		{"long name", func(r *Request) { r.Name = strings.Repeat("я", domain.MaxNameLength+1) }, ErrInvalidName},
		{"domain beats long name", func(r *Request) {
			r.Name = strings.Repeat("я", domain.MaxNameLength+1)
			r.Email = "a@gmail.com"
		}, ErrInvalidEmailDomain},
		{"weekday beats long name", func(r *Request) {
			r.Name = strings.Repeat("я", domain.MaxNameLength+1)
			r.Date = "2026-10-22"
		}, ErrWeekdayNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			f.metrics.On("IncAdmission", outcomeInvalid).Once()

			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			f.sweeper.AssertNotCalled(t, "Execute", mock.Anything)
		})
	}
}

func TestExecute_UppercaseDomainAccepted(t *testing.T) {
	f := newFixture(t, nil)

	f.sweeper.On("Execute", mock.Anything).Return(&sweep_retention.Response{}, nil).Once()
	f.repo.On("LockForAdmission", mock.Anything, "Ann@SAP.COM", mock.Anything).Return(nil).Once()
	f.repo.On("HasActiveForEmail", mock.Anything, "Ann@SAP.COM").Return(true, nil).Once()
	f.metrics.On("IncAdmission", outcomeExclusivity).Once()

	req := validRequest()
	req.Email = " Ann@SAP.COM "

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrActiveBookingExists)
}

func TestExecute_SameDayAllowedByPolicy(t *testing.T) {
	f := newFixture(t, nil)
	f.uc.policy.AllowSameDay = true
	today := types.MustParseDate("2026-10-19")

	f.sweeper.On("Execute", mock.Anything).Return(&sweep_retention.Response{}, nil).Once()
	f.repo.On("LockForAdmission", mock.Anything, "a@sap.com", today).Return(nil).Once()
	f.repo.On("HasActiveForEmail", mock.Anything, "a@sap.com").Return(false, nil).Once()
	f.repo.On("CountActiveOnDate", mock.Anything, today).Return(3, nil).Once()
	f.metrics.On("IncAdmission", outcomeCapacity).Once()

	req := validRequest()
	req.Date = "2026-10-19"

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDateFullyBooked)
}

func TestExecute_SweepFailure(t *testing.T) {
	f := newFixture(t, nil)

	f.sweeper.On("Execute", mock.Anything).Return(nil, errors.New("db down")).Once()
	f.metrics.On("IncAdmission", outcomeError).Once()

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_StoreFailures(t *testing.T) {
	date := types.MustParseDate("2026-10-20")
	storeErr := errors.New("connection reset")

	tests := []struct {
		name  string
		setup func(f *fixture)
	}{
		{"lock", func(f *fixture) {
			f.repo.On("LockForAdmission", mock.Anything, "a@sap.com", date).Return(storeErr).Once()
		}},
		{"exclusivity check", func(f *fixture) {
			f.repo.On("LockForAdmission", mock.Anything, "a@sap.com", date).Return(nil).Once()
			f.repo.On("HasActiveForEmail", mock.Anything, "a@sap.com").Return(false, storeErr).Once()
		}},
		{"capacity check", func(f *fixture) {
			f.repo.On("LockForAdmission", mock.Anything, "a@sap.com", date).Return(nil).Once()
			f.repo.On("HasActiveForEmail", mock.Anything, "a@sap.com").Return(false, nil).Once()
			f.repo.On("CountActiveOnDate", mock.Anything, date).Return(0, storeErr).Once()
		}},
		{"insert", func(f *fixture) {
			f.repo.On("LockForAdmission", mock.Anything, "a@sap.com", date).Return(nil).Once()
			f.repo.On("HasActiveForEmail", mock.Anything, "a@sap.com").Return(false, nil).Once()
			f.repo.On("CountActiveOnDate", mock.Anything, date).Return(0, nil).Once()
			f.repo.On("Create", mock.Anything, mock.Anything).Return(nil, storeErr).Once()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			f.sweeper.On("Execute", mock.Anything).Return(&sweep_retention.Response{}, nil).Once()
			f.metrics.On("IncAdmission", outcomeError).Once()
			tt.setup(f)

			_, err := f.uc.Execute(context.Background(), validRequest())
			assert.ErrorIs(t, err, ErrInternal)
		})
	}
}

func TestExecute_TransactionBeginFailure(t *testing.T) {
	f := newFixture(t, passthroughTx{err: errors.New("begin: too many connections")})

	f.sweeper.On("Execute", mock.Anything).Return(&sweep_retention.Response{}, nil).Once()
	f.metrics.On("IncAdmission", outcomeError).Once()

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_StoreGuardsMappedToConflicts(t *testing.T) {
	date := types.MustParseDate("2026-10-20")

	tests := []struct {
		name    string
		repoErr error
		wantErr error
		outcome string
	}{
		{"unique index", bookingRepo.ErrActiveBookingExists, ErrActiveBookingExists, outcomeExclusivity},
		{"capacity trigger", bookingRepo.ErrDateFullyBooked, ErrDateFullyBooked, outcomeCapacity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			f.sweeper.On("Execute", mock.Anything).Return(&sweep_retention.Response{}, nil).Once()
			f.repo.On("LockForAdmission", mock.Anything, "a@sap.com", date).Return(nil).Once()
			f.repo.On("HasActiveForEmail", mock.Anything, "a@sap.com").Return(false, nil).Once()
			f.repo.On("CountActiveOnDate", mock.Anything, date).Return(1, nil).Once()
			f.repo.On("Create", mock.Anything, mock.Anything).
				Return(nil, fmt.Errorf("%w: Create - pq: violation", tt.repoErr)).Once()
			f.metrics.On("IncAdmission", tt.outcome).Once()

			_, err := f.uc.Execute(context.Background(), validRequest())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NotErrorIs(t, err, ErrInternal)
		})
	}
}
