package create_booking

import (
	"time"

	createBooking "github.com/m04kA/SMC-DayBooking/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	BookingDate string `json:"bookingDate"` // "2026-10-20"
	PIN         string `json:"pin"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64  `json:"id"`
	EmployeeEmail string `json:"employeeEmail"`
	EmployeeName  string `json:"employeeName"`
	BookingDate   string `json:"bookingDate"`
	Status        string `json:"status"`
	CreatedAt     string `json:"createdAt"`
	Message       string `json:"message"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Дата передается строкой: ее разбор входит в порядок проверок use case.
func (r *CreateBookingRequest) ToUseCaseRequest() *createBooking.Request {
	return &createBooking.Request{
		Email: r.Email,
		Name:  r.Name,
		Date:  r.BookingDate,
		PIN:   r.PIN,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:            resp.ID,
		EmployeeEmail: resp.EmployeeEmail,
		EmployeeName:  resp.EmployeeName,
		BookingDate:   resp.BookingDate.String(),
		Status:        resp.Status,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
		Message:       msgCreated,
	}
}
