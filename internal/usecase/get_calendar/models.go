package get_calendar

import (
	"time"

	"github.com/m04kA/SMC-DayBooking/pkg/types"
)

// Request модель запроса карты загрузки месяца
type Request struct {
	Year  int
	Month int // 1-12
}

// Response карта загрузки: каждая дата месяца по порядку
type Response struct {
	Year  int
	Month time.Month
	Today types.Date
	Days  []Day
}

// Day загрузка одной даты
type Day struct {
	Date      types.Date
	Weekday   time.Weekday
	Count     int  // активных бронирований
	Capacity  int  // мест на дату
	Remaining int  // свободных мест
	IsFull    bool // Count >= Capacity
	IsToday   bool
	Bookable  bool // дату можно выбрать в форме
}
