package get_calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DayBooking/internal/domain"
	"github.com/m04kA/SMC-DayBooking/pkg/logger"
	"github.com/m04kA/SMC-DayBooking/pkg/types"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) CountActiveByDate(ctx context.Context, from, to *types.Date) (map[types.Date]int, error) {
	args := m.Called(ctx, from, to)
	if c, ok := args.Get(0).(map[types.Date]int); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func newUseCase(repo BookingRepository) *UseCase {
	return NewUseCase(repo, domain.DefaultAdmissionPolicy(), time.UTC, logger.Nop()).
		WithTimeProvider(fixedTime{now: time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)})
}

func TestExecute(t *testing.T) {
	repo := &mockRepo{}
	first := types.MustParseDate("2026-10-01")
	last := types.MustParseDate("2026-10-31")
	repo.On("CountActiveByDate", mock.Anything, &first, &last).Return(map[types.Date]int{
		types.MustParseDate("2026-10-20"): 3,
		types.MustParseDate("2026-10-25"): 1,
	}, nil).Once()

	resp, err := newUseCase(repo).Execute(context.Background(), &Request{Year: 2026, Month: 10})
	require.NoError(t, err)
	require.Len(t, resp.Days, 31)
	assert.Equal(t, time.October, resp.Month)
	assert.Equal(t, "2026-10-19", resp.Today.String())

	for i, d := range resp.Days {
		assert.Equal(t, i+1, d.Date.Day())
	}

	assert.True(t, resp.Days[18].IsToday)
	assert.False(t, resp.Days[18].Bookable)

	full := resp.Days[19]
	assert.Equal(t, 3, full.Count)
	assert.True(t, full.IsFull)
	assert.Equal(t, 0, full.Remaining)
	assert.False(t, full.Bookable)

	sunday := resp.Days[24]
	assert.Equal(t, time.Sunday, sunday.Weekday)
	assert.Equal(t, 1, sunday.Count)
	assert.Equal(t, 2, sunday.Remaining)
	assert.True(t, sunday.Bookable)

	// пустая дата получает 0
	assert.Equal(t, 0, resp.Days[0].Count)
	assert.Equal(t, 3, resp.Days[0].Remaining)

	repo.AssertExpectations(t)
}

func TestExecute_InvalidMonth(t *testing.T) {
	uc := newUseCase(&mockRepo{})

	for _, req := range []*Request{
		{Year: 2026, Month: 0},
		{Year: 2026, Month: 13},
		{Year: 1999, Month: 5},
	} {
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestExecute_RepositoryError(t *testing.T) {
	repo := &mockRepo{}
	repo.On("CountActiveByDate", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("down")).Once()

	_, err := newUseCase(repo).Execute(context.Background(), &Request{Year: 2026, Month: 11})
	assert.ErrorIs(t, err, ErrInternal)
}
