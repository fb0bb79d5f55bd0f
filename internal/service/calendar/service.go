package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-DayBooking/internal/domain"
	"github.com/m04kA/SMC-DayBooking/internal/service/calendar/models"
	"github.com/m04kA/SMC-DayBooking/pkg/types"
)

// Service сервис витрин календаря.
// Данные пересчитываются из хранилища на каждый вызов и не участвуют в допуске бронирований.
type Service struct {
	bookingRepo  BookingRepository
	policy       domain.AdmissionPolicy
	retention    domain.RetentionPolicy
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса календаря
func NewService(
	bookingRepo BookingRepository,
	policy domain.AdmissionPolicy,
	retention domain.RetentionPolicy,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.Local
	}

	return &Service{
		bookingRepo:  bookingRepo,
		policy:       policy,
		retention:    retention,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// FullyBookedDates индекс заполненных дат: count >= capacity и date >= today, по возрастанию
func (s *Service) FullyBookedDates(ctx context.Context) (*models.FullyBookedResponse, error) {
	today := s.today()

	counts, err := s.bookingRepo.CountActiveByDate(ctx, &today, nil)
	if err != nil {
		s.logger.Error("FullyBookedDates: repository error: %v", err)
		return nil, fmt.Errorf("%w: FullyBookedDates - repository error: %v", ErrInternal, err)
	}

	dates := domain.BuildFullyBookedIndex(counts, today, s.policy.Capacity)
	s.logger.Info("FullyBookedDates: %d fully booked dates from %s", len(dates), today)

	return &models.FullyBookedResponse{
		Dates: dates,
		Today: today,
	}, nil
}

// Policy публичное представление правил допуска
func (s *Service) Policy() *models.PolicyResponse {
	today := s.today()

	weekdays := make([]string, 0, len(s.policy.AllowedWeekdays))
	for _, wd := range s.policy.AllowedWeekdays {
		weekdays = append(weekdays, wd.String())
	}

	return &models.PolicyResponse{
		EmailDomain:     s.policy.EmailDomain,
		AllowedWeekdays: weekdays,
		AllowSameDay:    s.policy.AllowSameDay,
		Capacity:        s.policy.Capacity,
		PinLength:       domain.PinLength,
		Today:           today,
		EarliestDate:    s.policy.EarliestDate(today),
		Timezone:        s.location.String(),
		RetentionPolicy: string(s.retention),
	}
}

func (s *Service) today() types.Date {
	return types.DateOf(s.timeProvider.Now().In(s.location))
}
