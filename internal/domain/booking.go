package domain

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-DayBooking/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusActive BookingStatus = "active"
	StatusUsed   BookingStatus = "used"
)

// Booking represents a single day reservation of an employee
type Booking struct {
	ID            int64
	EmployeeEmail string
	EmployeeName  string
	BookingDate   types.Date
	Status        BookingStatus
	PinCode       string // 4 цифры, общий секрет для самостоятельной отмены (не учетные данные)
	CreatedAt     time.Time
}

// IsActive returns true if the booking still counts toward capacity and exclusivity
func (b *Booking) IsActive() bool {
	return b.Status == StatusActive
}

// NormalizeEmail приводит email к виду для сравнения
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidBookingStatus проверяет значение статуса
func IsValidBookingStatus(s BookingStatus) bool {
	return s == StatusActive || s == StatusUsed
}
