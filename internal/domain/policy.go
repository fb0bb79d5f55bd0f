package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-DayBooking/pkg/types"
)

// AdmissionPolicy правила допуска бронирования
type AdmissionPolicy struct {
	EmailDomain     string         // суффикс email, например "@sap.com"
	AllowedWeekdays []time.Weekday // разрешенные дни недели
	AllowSameDay    bool           // можно ли бронировать на сегодня
	Capacity        int            // максимум активных бронирований на дату
}

// DefaultAdmissionPolicy политика по умолчанию
func DefaultAdmissionPolicy() AdmissionPolicy {
	return AdmissionPolicy{
		EmailDomain:     DefaultEmailDomain,
		AllowedWeekdays: append([]time.Weekday(nil), DefaultAllowedWeekdays...),
		AllowSameDay:    false,
		Capacity:        MaxActiveBookingsPerDay,
	}
}

// HasEmailDomain проверяет суффикс email без учета регистра
func (p AdmissionPolicy) HasEmailDomain(email string) bool {
	return strings.HasSuffix(NormalizeEmail(email), strings.ToLower(p.EmailDomain))
}

// IsWeekdayAllowed проверяет, что дата приходится на разрешенный день недели
func (p AdmissionPolicy) IsWeekdayAllowed(date types.Date) bool {
	wd := date.Weekday()
	for _, allowed := range p.AllowedWeekdays {
		if allowed == wd {
			return true
		}
	}
	return false
}

// EarliestDate первая дата, на которую можно бронировать относительно today
func (p AdmissionPolicy) EarliestDate(today types.Date) types.Date {
	if p.AllowSameDay {
		return today
	}
	return today.AddDays(1)
}

// IsBookableDate дата не в прошлом, удовлетворяет правилу "сегодня" и дню недели
func (p AdmissionPolicy) IsBookableDate(date, today types.Date) bool {
	return !date.Before(p.EarliestDate(today)) && p.IsWeekdayAllowed(date)
}

// RetentionPolicy политика обработки прошедших бронирований
type RetentionPolicy string

const (
	// RetentionDelete физически удаляет записи с датой раньше сегодняшней
	RetentionDelete RetentionPolicy = "delete"
	// RetentionExpire переводит active -> used, ничего не удаляя
	RetentionExpire RetentionPolicy = "expire"
)

// ParseRetentionPolicy разбирает значение из конфигурации
func ParseRetentionPolicy(s string) (RetentionPolicy, error) {
	switch RetentionPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case RetentionDelete:
		return RetentionDelete, nil
	case RetentionExpire:
		return RetentionExpire, nil
	default:
		return "", fmt.Errorf("unknown retention policy %q (expected delete or expire)", s)
	}
}

// ParseWeekday разбирает имя дня недели ("sunday", "Mon", ...)
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		full := strings.ToLower(wd.String())
		if name == full || (len(name) == 3 && strings.HasPrefix(full, name)) {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}
