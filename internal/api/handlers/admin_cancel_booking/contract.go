package admin_cancel_booking

import (
	"context"

	"github.com/m04kA/SMC-DayBooking/internal/service/bookings/models"
)

type BookingService interface {
	CancelByID(ctx context.Context, id int64) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
