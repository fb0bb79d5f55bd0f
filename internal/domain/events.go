package domain

import (
	"time"

	"github.com/m04kA/SMC-DayBooking/pkg/types"
)

// BookingEventType тип события для подписчиков (обновление календаря в UI)
type BookingEventType string

const (
	EventBookingCreated   BookingEventType = "booking.created"
	EventBookingCancelled BookingEventType = "booking.cancelled"
	EventBookingsSwept    BookingEventType = "booking.swept"
)

// BookingEvent событие изменения набора бронирований
type BookingEvent struct {
	Type          BookingEventType `json:"type"`
	BookingID     int64            `json:"bookingId,omitempty"`
	EmployeeEmail string           `json:"employeeEmail,omitempty"`
	BookingDate   *types.Date      `json:"bookingDate,omitempty"`
	Affected      int64            `json:"affected,omitempty"`
	OccurredAt    time.Time        `json:"occurredAt"`
}

// NewBookingEvent событие по одному бронированию
func NewBookingEvent(eventType BookingEventType, b *Booking, at time.Time) BookingEvent {
	date := b.BookingDate
	return BookingEvent{
		Type:          eventType,
		BookingID:     b.ID,
		EmployeeEmail: NormalizeEmail(b.EmployeeEmail),
		BookingDate:   &date,
		OccurredAt:    at,
	}
}
