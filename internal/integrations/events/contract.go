package events

import "context"

// Publisher транспорт сообщений (mq.Publisher или mq.NopPublisher)
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
