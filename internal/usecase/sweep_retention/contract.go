package sweep_retention

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DayBooking/internal/domain"
	"github.com/m04kA/SMC-DayBooking/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	DeleteBefore(ctx context.Context, date types.Date) (int64, error)
	ExpireBefore(ctx context.Context, date types.Date) (int64, error)
}

// EventPublisher интерфейс публикации событий
type EventPublisher interface {
	PublishWithGracefulDegradation(ctx context.Context, event domain.BookingEvent)
}

// Metrics интерфейс метрик
type Metrics interface {
	AddSwept(policy string, n int64)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
