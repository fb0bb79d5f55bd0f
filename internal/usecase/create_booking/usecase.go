package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/SMC-DayBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-DayBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-DayBooking/pkg/types"
)

var tracer = otel.Tracer("day-booking/usecase/create_booking")

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	sweeper      RetentionSweeper
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      Metrics
	policy       domain.AdmissionPolicy
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	sweeper RetentionSweeper,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	policy domain.AdmissionPolicy,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.Local
	}

	return &UseCase{
		bookingRepo:  bookingRepo,
		sweeper:      sweeper,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
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

// Execute выполняет use case создания бронирования.
// Проверки исключительности и вместимости выполняются в одной транзакции под
// блокировками email и даты, а индекс и триггер в БД страхуют вставку.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "CreateBooking.Execute")
	defer span.End()

	in := normalizeRequest(req)
	uc.logger.Info("CreateBooking: email=%s, date=%s", in.Email, in.Date)

	// 1-5. Валидация входных данных
	now := uc.timeProvider.Now()
	today := types.DateOf(now.In(uc.location))

	date, err := validateRequest(in, uc.policy, today)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, uc.reject(span, outcomeInvalid, err)
	}
	span.SetAttributes(attribute.String("booking.date", date.String()))

	// 6. Очистка прошедших бронирований, чтобы они не попали в подсчеты
	if _, err := uc.sweeper.Execute(ctx); err != nil {
		uc.logger.Error("CreateBooking: retention sweep failed: %v", err)
		return nil, uc.fail(span, fmt.Errorf("%w: retention sweep: %v", ErrInternal, err))
	}

	var result *domain.Booking

	// 7-9. Проверки и вставка в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.bookingRepo.LockForAdmission(txCtx, in.Email, date); err != nil {
			uc.logger.Error("CreateBooking: failed to lock email=%s, date=%s: %v", in.Email, date, err)
			return fmt.Errorf("%w: lock for admission: %v", ErrInternal, err)
		}

		// 7. Исключительность: не больше одного активного бронирования на сотрудника
		hasActive, err := uc.bookingRepo.HasActiveForEmail(txCtx, in.Email)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check active booking for email=%s: %v", in.Email, err)
			return fmt.Errorf("%w: check active booking: %v", ErrInternal, err)
		}
		if hasActive {
			uc.logger.Warn("CreateBooking: email=%s already has an active booking", in.Email)
			return ErrActiveBookingExists
		}

		// 8. Вместимость даты
		count, err := uc.bookingRepo.CountActiveOnDate(txCtx, date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to count bookings on %s: %v", date, err)
			return fmt.Errorf("%w: count bookings: %v", ErrInternal, err)
		}
		if count >= uc.policy.Capacity {
			uc.logger.Warn("CreateBooking: date %s is fully booked, %d/%d", date, count, uc.policy.Capacity)
			return ErrDateFullyBooked
		}

		uc.logger.Info("CreateBooking: date %s available, %d/%d spots taken", date, count, uc.policy.Capacity)

		// 9. Единственная запись в операции
		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			EmployeeEmail: in.Email,
			EmployeeName:  in.Name,
			BookingDate:   date,
			Status:        domain.StatusActive,
			PinCode:       in.PIN,
			CreatedAt:     now.UTC(),
		})
		if err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrActiveBookingExists):
				uc.logger.Warn("CreateBooking: unique index rejected email=%s", in.Email)
				return ErrActiveBookingExists
			case errors.Is(err, bookingRepo.ErrDateFullyBooked):
				uc.logger.Warn("CreateBooking: capacity trigger rejected date=%s", date)
				return ErrDateFullyBooked
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrActiveBookingExists):
			return nil, uc.reject(span, outcomeExclusivity, err)
		case errors.Is(err, ErrDateFullyBooked):
			return nil, uc.reject(span, outcomeCapacity, err)
		case errors.Is(err, ErrInternal):
			return nil, uc.fail(span, err)
		}
		// ошибка begin/commit транзакции
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, uc.fail(span, fmt.Errorf("%w: transaction: %v", ErrInternal, err))
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)
	uc.metrics.IncAdmission(outcomeAccepted)
	span.SetAttributes(attribute.Int64("booking.id", result.ID))

	uc.publisher.PublishWithGracefulDegradation(ctx, domain.NewBookingEvent(domain.EventBookingCreated, result, now))

	return &Response{
		ID:            result.ID,
		EmployeeEmail: result.EmployeeEmail,
		EmployeeName:  result.EmployeeName,
		BookingDate:   result.BookingDate,
		Status:        string(result.Status),
		CreatedAt:     result.CreatedAt,
	}, nil
}

// reject бизнес-отказ: не ошибка сервиса, span остается успешным
func (uc *UseCase) reject(span trace.Span, outcome string, err error) error {
	uc.metrics.IncAdmission(outcome)
	span.SetAttributes(attribute.String("booking.outcome", outcome))
	return err
}

func (uc *UseCase) fail(span trace.Span, err error) error {
	uc.metrics.IncAdmission(outcomeError)
	span.RecordError(err)
	span.SetStatus(codes.Error, "admission failed")
	return err
}
