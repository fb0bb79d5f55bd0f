package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DayBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByEmailAndPIN(ctx context.Context, email, pin string) ([]*domain.Booking, error)
	Delete(ctx context.Context, id int64) (*domain.Booking, error)
	DeleteOwned(ctx context.Context, id int64, email, pin string) (*domain.Booking, error)
}

// EventPublisher интерфейс публикации событий
type EventPublisher interface {
	PublishWithGracefulDegradation(ctx context.Context, event domain.BookingEvent)
}

// Metrics интерфейс метрик
type Metrics interface {
	IncCancellation()
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
