package get_fully_booked

import (
	"context"

	"github.com/m04kA/SMC-DayBooking/internal/service/calendar/models"
)

type CalendarService interface {
	FullyBookedDates(ctx context.Context) (*models.FullyBookedResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
