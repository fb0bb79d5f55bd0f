package sweep_retention

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/SMC-DayBooking/internal/domain"
	"github.com/m04kA/SMC-DayBooking/pkg/types"
)

var tracer = otel.Tracer("day-booking/usecase/sweep_retention")

// UseCase очистка прошедших бронирований.
// Политики delete и expire взаимоисключающие, выбирается одна при старте.
type UseCase struct {
	bookingRepo  BookingRepository
	publisher    EventPublisher
	metrics      Metrics
	policy       domain.RetentionPolicy
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	publisher EventPublisher,
	metrics Metrics,
	policy domain.RetentionPolicy,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.Local
	}

	return &UseCase{
		bookingRepo:  bookingRepo,
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

// Execute применяет политику к записям с датой раньше сегодняшней.
// Идемпотентна: повторный вызов в тот же день ничего не меняет.
func (uc *UseCase) Execute(ctx context.Context) (*Response, error) {
	ctx, span := tracer.Start(ctx, "SweepRetention.Execute")
	defer span.End()

	cutoff := types.DateOf(uc.timeProvider.Now().In(uc.location))
	span.SetAttributes(
		attribute.String("retention.policy", string(uc.policy)),
		attribute.String("retention.cutoff", cutoff.String()),
	)

	var (
		affected int64
		err      error
	)

	switch uc.policy {
	case domain.RetentionDelete:
		affected, err = uc.bookingRepo.DeleteBefore(ctx, cutoff)
	case domain.RetentionExpire:
		affected, err = uc.bookingRepo.ExpireBefore(ctx, cutoff)
	default:
		span.SetStatus(codes.Error, "unknown policy")
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, uc.policy)
	}

	if err != nil {
		uc.logger.Error("SweepRetention: policy=%s, cutoff=%s: %v", uc.policy, cutoff, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "sweep failed")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	span.SetAttributes(attribute.Int64("retention.affected", affected))

	if affected > 0 {
		uc.logger.Info("SweepRetention: policy=%s, cutoff=%s, affected=%d", uc.policy, cutoff, affected)
		uc.metrics.AddSwept(string(uc.policy), affected)
		uc.publisher.PublishWithGracefulDegradation(ctx, domain.BookingEvent{
			Type:       domain.EventBookingsSwept,
			Affected:   affected,
			OccurredAt: uc.timeProvider.Now(),
		})
	}

	return &Response{
		Policy:   uc.policy,
		Cutoff:   cutoff,
		Affected: affected,
	}, nil
}

// Run запускает очистку по таймеру до отмены ctx. interval <= 0 отключает цикл.
func (uc *UseCase) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		uc.logger.Info("SweepRetention: background loop disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	uc.logger.Info("SweepRetention: background loop started, interval=%s", interval)

	for {
		select {
		case <-ctx.Done():
			uc.logger.Info("SweepRetention: background loop stopped")
			return
		case <-ticker.C:
			if _, err := uc.Execute(ctx); err != nil {
				uc.logger.Warn("SweepRetention: background run failed: %v", err)
			}
		}
	}
}
