package events

import (
	"time"

	"github.com/m04kA/SMC-DayBooking/internal/domain"
)

// schemaVersion версия формата сообщения для подписчиков
const schemaVersion = 1

// Message тело сообщения в exchange
type Message struct {
	Version       int     `json:"version"`
	Type          string  `json:"type"`
	BookingID     int64   `json:"booking_id,omitempty"`
	EmployeeEmail string  `json:"employee_email,omitempty"`
	BookingDate   *string `json:"booking_date,omitempty"`
	Affected      int64   `json:"affected,omitempty"`
	OccurredAt    string  `json:"occurred_at"`
}

func newMessage(event domain.BookingEvent) Message {
	msg := Message{
		Version:       schemaVersion,
		Type:          string(event.Type),
		BookingID:     event.BookingID,
		EmployeeEmail: event.EmployeeEmail,
		Affected:      event.Affected,
		OccurredAt:    event.OccurredAt.UTC().Format(time.RFC3339),
	}

	if event.BookingDate != nil {
		date := event.BookingDate.String()
		msg.BookingDate = &date
	}

	return msg
}
