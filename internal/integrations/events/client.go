package events

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-DayBooking/internal/domain"
)

// Client публикует события изменения бронирований для подписчиков (обновление календаря в UI)
type Client struct {
	publisher Publisher
	timeout   time.Duration
	log       Logger
}

// NewClient создает новый экземпляр клиента событий
func NewClient(publisher Publisher, timeout time.Duration, log Logger) *Client {
	return &Client{
		publisher: publisher,
		timeout:   timeout,
		log:       log,
	}
}

// Publish отправляет событие с routing key, равным типу события
func (c *Client) Publish(ctx context.Context, event domain.BookingEvent) error {
	if event.Type == "" {
		return fmt.Errorf("%w: empty event type", ErrInvalidEvent)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	msg := newMessage(event)
	if err := c.publisher.PublishJSON(ctx, string(event.Type), msg); err != nil {
		return fmt.Errorf("%w: routing key %s: %v", ErrPublish, event.Type, err)
	}

	return nil
}

// PublishWithGracefulDegradation публикует событие, не прерывая вызывающую операцию.
// Бронирование уже зафиксировано в БД, поэтому недоступность брокера только логируется.
func (c *Client) PublishWithGracefulDegradation(ctx context.Context, event domain.BookingEvent) {
	// отмена HTTP запроса не должна отменять публикацию уже зафиксированного изменения
	ctx = context.WithoutCancel(ctx)

	if err := c.Publish(ctx, event); err != nil {
		c.log.Error("Events: failed to publish %s (booking id=%d): %v", event.Type, event.BookingID, err)
		return
	}

	c.log.Info("Events: published %s (booking id=%d, affected=%d)", event.Type, event.BookingID, event.Affected)
}
