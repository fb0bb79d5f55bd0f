package get_fully_booked

import (
	"github.com/m04kA/SMC-DayBooking/internal/service/calendar/models"
)

// FullyBookedResponse HTTP response model
type FullyBookedResponse struct {
	Today string   `json:"today"`
	Dates []string `json:"dates"`
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(resp *models.FullyBookedResponse) *FullyBookedResponse {
	dates := make([]string, 0, len(resp.Dates))
	for _, d := range resp.Dates {
		dates = append(dates, d.String())
	}

	return &FullyBookedResponse{
		Today: resp.Today.String(),
		Dates: dates,
	}
}
