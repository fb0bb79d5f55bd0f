package models

import (
	"time"

	"github.com/m04kA/SMC-DayBooking/internal/domain"
	"github.com/m04kA/SMC-DayBooking/pkg/types"
)

// Request модели

// LookupRequest поиск бронирований сотрудника по email и PIN
type LookupRequest struct {
	Email string
	PIN   string
}

// CancelOwnedRequest отмена бронирования владельцем
type CancelOwnedRequest struct {
	BookingID int64
	Email     string
	PIN       string
}

// Response модели

// BookingResponse бронирование для отображения
type BookingResponse struct {
	ID            int64      `json:"id"`
	EmployeeEmail string     `json:"employeeEmail"`
	EmployeeName  string     `json:"employeeName"`
	BookingDate   types.Date `json:"bookingDate"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// FromDomainBooking конвертирует domain модель в response. PIN наружу не отдается.
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:            b.ID,
		EmployeeEmail: b.EmployeeEmail,
		EmployeeName:  b.EmployeeName,
		BookingDate:   b.BookingDate,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
	}
}

// FromDomainBookings конвертирует список, сохраняя порядок
func FromDomainBookings(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
		Total:    len(bookings),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}
