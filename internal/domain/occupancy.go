package domain

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-DayBooking/pkg/types"
)

// DayOccupancy загрузка одной даты в календаре
type DayOccupancy struct {
	Date     types.Date
	Count    int  // активных бронирований
	Capacity int  // максимум на дату
	IsFull   bool // Count >= Capacity
	Bookable bool // дату можно выбрать в форме (не прошлое, разрешенный день, не заполнена)
}

// Remaining свободные места
func (d *DayOccupancy) Remaining() int {
	if d.Count >= d.Capacity {
		return 0
	}
	return d.Capacity - d.Count
}

// MonthOccupancy карта загрузки одного месяца
type MonthOccupancy struct {
	Year  int
	Month time.Month
	Days  []DayOccupancy // все даты месяца по порядку
}

// Counts карта дата -> количество, для каждой даты месяца (0 по умолчанию)
func (m *MonthOccupancy) Counts() map[types.Date]int {
	counts := make(map[types.Date]int, len(m.Days))
	for _, d := range m.Days {
		counts[d.Date] = d.Count
	}
	return counts
}

// BuildFullyBookedIndex даты с count >= capacity и date >= today, по возрастанию
func BuildFullyBookedIndex(counts map[types.Date]int, today types.Date, capacity int) []types.Date {
	dates := make([]types.Date, 0)
	for date, count := range counts {
		if count >= capacity && !date.Before(today) {
			dates = append(dates, date)
		}
	}

	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})

	return dates
}

// BuildMonthOccupancy строит загрузку для каждой даты месяца
func BuildMonthOccupancy(
	year int,
	month time.Month,
	counts map[types.Date]int,
	today types.Date,
	policy AdmissionPolicy,
) *MonthOccupancy {
	first := types.NewDate(year, month, 1)
	last := first.LastOfMonth()

	result := &MonthOccupancy{
		Year:  year,
		Month: month,
		Days:  make([]DayOccupancy, 0, last.Day()),
	}

	for date := first; !date.After(last); date = date.AddDays(1) {
		count := counts[date]
		full := count >= policy.Capacity
		result.Days = append(result.Days, DayOccupancy{
			Date:     date,
			Count:    count,
			Capacity: policy.Capacity,
			IsFull:   full,
			Bookable: !full && policy.IsBookableDate(date, today),
		})
	}

	return result
}
