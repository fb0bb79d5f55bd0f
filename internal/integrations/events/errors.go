package events

import "errors"

var (
	// ErrInvalidEvent возвращается для события без типа
	ErrInvalidEvent = errors.New("events client: invalid event")

	// ErrPublish возвращается, когда брокер не принял сообщение
	ErrPublish = errors.New("events client: publish failed")
)
