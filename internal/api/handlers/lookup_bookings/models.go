package lookup_bookings

import (
	"time"

	"github.com/m04kA/SMC-DayBooking/internal/service/bookings/models"
)

// LookupRequest HTTP request model. Email и PIN передаются в теле, а не в query string.
// Проверяется только наличие полей: неверный формат дает пустой результат.
type LookupRequest struct {
	Email string `json:"email" validate:"required"`
	PIN   string `json:"pin" validate:"required"`
}

// BookingItem HTTP response model
type BookingItem struct {
	ID           int64  `json:"id"`
	EmployeeName string `json:"employeeName"`
	BookingDate  string `json:"bookingDate"`
	Status       string `json:"status"`
	CreatedAt    string `json:"createdAt"`
}

// LookupResponse HTTP response model
type LookupResponse struct {
	Bookings []BookingItem `json:"bookings"`
	Total    int           `json:"total"`
	Message  string        `json:"message,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *LookupRequest) ToServiceRequest() *models.LookupRequest {
	return &models.LookupRequest{
		Email: r.Email,
		PIN:   r.PIN,
	}
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(resp *models.BookingListResponse) *LookupResponse {
	out := &LookupResponse{
		Bookings: make([]BookingItem, 0, len(resp.Bookings)),
		Total:    resp.Total,
	}

	for _, b := range resp.Bookings {
		out.Bookings = append(out.Bookings, BookingItem{
			ID:           b.ID,
			EmployeeName: b.EmployeeName,
			BookingDate:  b.BookingDate.String(),
			Status:       b.Status,
			CreatedAt:    b.CreatedAt.Format(time.RFC3339),
		})
	}

	if resp.Total == 0 {
		out.Message = msgNotFound
	}

	return out
}
