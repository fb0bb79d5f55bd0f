package domain

import "time"

// Business rules
const (
	MaxActiveBookingsPerDay = 3 // продублировано в триггере bookings_date_capacity
	PinLength               = 4
	DefaultEmailDomain      = "@sap.com"
	MaxNameLength           = 200
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DefaultAllowedWeekdays дни недели, на которые разрешено бронирование (Sunday-first)
var DefaultAllowedWeekdays = []time.Weekday{
	time.Sunday,
	time.Monday,
	time.Tuesday,
	time.Wednesday,
}

// Advisory lock key prefixes (совпадают с ключами в триггере Postgres)
const (
	LockKeyDatePrefix  = "booking:date:"
	LockKeyEmailPrefix = "booking:email:"
)
