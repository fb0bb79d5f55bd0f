package get_calendar

import (
	getCalendar "github.com/m04kA/SMC-DayBooking/internal/usecase/get_calendar"
)

// CalendarResponse HTTP response model
type CalendarResponse struct {
	Year  int        `json:"year"`
	Month int        `json:"month"`
	Today string     `json:"today"`
	Days  []DayModel `json:"days"`
}

// DayModel загрузка одной даты
type DayModel struct {
	Date      string `json:"date"`
	Weekday   string `json:"weekday"`
	Count     int    `json:"count"`
	Capacity  int    `json:"capacity"`
	Remaining int    `json:"remaining"`
	IsFull    bool   `json:"isFull"`
	IsToday   bool   `json:"isToday"`
	Bookable  bool   `json:"bookable"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getCalendar.Response) *CalendarResponse {
	days := make([]DayModel, 0, len(resp.Days))
	for _, d := range resp.Days {
		days = append(days, DayModel{
			Date:      d.Date.String(),
			Weekday:   d.Weekday.String(),
			Count:     d.Count,
			Capacity:  d.Capacity,
			Remaining: d.Remaining,
			IsFull:    d.IsFull,
			IsToday:   d.IsToday,
			Bookable:  d.Bookable,
		})
	}

	return &CalendarResponse{
		Year:  resp.Year,
		Month: int(resp.Month),
		Today: resp.Today.String(),
		Days:  days,
	}
}
