package cancel_booking

import (
	"github.com/m04kA/SMC-DayBooking/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Email string `json:"email" validate:"required,email"`
	PIN   string `json:"pin" validate:"required,len=4,number"`
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	ID          int64  `json:"id"`
	BookingDate string `json:"bookingDate"`
	Message     string `json:"message"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(bookingID int64) *models.CancelOwnedRequest {
	return &models.CancelOwnedRequest{
		BookingID: bookingID,
		Email:     r.Email,
		PIN:       r.PIN,
	}
}
