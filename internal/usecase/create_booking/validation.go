package create_booking

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-DayBooking/internal/domain"
	"github.com/m04kA/SMC-DayBooking/pkg/types"
)

// normalizeRequest обрезает пробелы во всех полях
func normalizeRequest(req *Request) Request {
	return Request{
		Email: strings.TrimSpace(req.Email),
		Name:  strings.TrimSpace(req.Name),
		Date:  strings.TrimSpace(req.Date),
		PIN:   strings.TrimSpace(req.PIN),
	}
}

// validateRequest проверяет поля запроса без обращения к хранилищу.
// Порядок проверок фиксирован: срабатывает первая нарушенная.
func validateRequest(req Request, policy domain.AdmissionPolicy, today types.Date) (types.Date, error) {
	if req.Email == "" || req.Name == "" || req.Date == "" || req.PIN == "" {
		return types.Date{}, ErrMissingFields
	}

	if !policy.HasEmailDomain(req.Email) {
		return types.Date{}, fmt.Errorf("%w: expected %s", ErrInvalidEmailDomain, policy.EmailDomain)
	}

	if !isValidPIN(req.PIN) {
		return types.Date{}, ErrInvalidPIN
	}

	date, err := types.ParseDate(req.Date)
	if err != nil {
		return types.Date{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	if err := validateDate(date, today, policy); err != nil {
		return types.Date{}, err
	}

	// ограничение колонки, проверяется после правил допуска
	if utf8.RuneCountInString(req.Name) > domain.MaxNameLength {
		return types.Date{}, fmt.Errorf("%w: max %d characters", ErrInvalidName, domain.MaxNameLength)
	}

	return date, nil
}

// validateDate проверяет, что дата не в прошлом и приходится на разрешенный день недели
func validateDate(date, today types.Date, policy domain.AdmissionPolicy) error {
	if date.Before(today) {
		return fmt.Errorf("%w: %s is before %s", ErrDateInPast, date, today)
	}

	if date.Equal(today) && !policy.AllowSameDay {
		return ErrSameDayNotAllowed
	}

	if !policy.IsWeekdayAllowed(date) {
		return fmt.Errorf("%w: %s", ErrWeekdayNotAllowed, date.Weekday())
	}

	return nil
}

// isValidPIN ровно PinLength десятичных цифр
func isValidPIN(pin string) bool {
	if len(pin) != domain.PinLength {
		return false
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return false
		}
	}
	return true
}
