package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DayBooking/internal/domain"
	"github.com/m04kA/SMC-DayBooking/internal/usecase/sweep_retention"
	"github.com/m04kA/SMC-DayBooking/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	LockForAdmission(ctx context.Context, email string, date types.Date) error
	HasActiveForEmail(ctx context.Context, email string) (bool, error)
	CountActiveOnDate(ctx context.Context, date types.Date) (int, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// RetentionSweeper очистка прошедших бронирований перед подсчетами
type RetentionSweeper interface {
	Execute(ctx context.Context) (*sweep_retention.Response, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс публикации событий
type EventPublisher interface {
	PublishWithGracefulDegradation(ctx context.Context, event domain.BookingEvent)
}

// Metrics интерфейс метрик
type Metrics interface {
	IncAdmission(outcome string)
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
