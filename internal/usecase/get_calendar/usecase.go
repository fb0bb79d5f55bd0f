package get_calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-DayBooking/internal/domain"
	"github.com/m04kA/SMC-DayBooking/pkg/types"
)

// UseCase use case для получения карты загрузки месяца
type UseCase struct {
	bookingRepo  BookingRepository
	policy       domain.AdmissionPolicy
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	policy domain.AdmissionPolicy,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.Local
	}

	return &UseCase{
		bookingRepo:  bookingRepo,
		policy:       policy,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения карты загрузки
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetCalendar: year=%d, month=%d", req.Year, req.Month)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetCalendar: validation failed: %v", err)
		return nil, err
	}

	// 2. Границы месяца
	month := time.Month(req.Month)
	first := types.NewDate(req.Year, month, 1)
	last := first.LastOfMonth()
	today := types.DateOf(uc.timeProvider.Now().In(uc.location))

	// 3. Количество активных бронирований по датам месяца
	counts, err := uc.bookingRepo.CountActiveByDate(ctx, &first, &last)
	if err != nil {
		uc.logger.Error("GetCalendar: failed to count bookings for %d-%02d: %v", req.Year, req.Month, err)
		return nil, fmt.Errorf("%w: failed to count bookings: %v", ErrInternal, err)
	}

	// 4. Строим карту, где у каждой даты есть значение
	occupancy := domain.BuildMonthOccupancy(req.Year, month, counts, today, uc.policy)

	days := make([]Day, 0, len(occupancy.Days))
	for _, d := range occupancy.Days {
		days = append(days, Day{
			Date:      d.Date,
			Weekday:   d.Date.Weekday(),
			Count:     d.Count,
			Capacity:  d.Capacity,
			Remaining: d.Remaining(),
			IsFull:    d.IsFull,
			IsToday:   d.Date.Equal(today),
			Bookable:  d.Bookable,
		})
	}

	uc.logger.Info("GetCalendar: built %d days for %d-%02d, %d dates with bookings",
		len(days), req.Year, req.Month, len(counts))

	return &Response{
		Year:  req.Year,
		Month: month,
		Today: today,
		Days:  days,
	}, nil
}
