package create_booking

import "errors"

var (
	// ErrMissingFields возвращается, когда одно из полей email, name, date, pin пустое
	ErrMissingFields = errors.New("create_booking: all fields are required")

	// ErrInvalidName возвращается, когда имя длиннее допустимого
	ErrInvalidName = errors.New("create_booking: employee name is too long")

	// ErrInvalidEmailDomain возвращается, когда email не принадлежит домену организации
	ErrInvalidEmailDomain = errors.New("create_booking: email must belong to the organization domain")

	// ErrInvalidPIN возвращается, когда PIN не состоит ровно из 4 цифр
	ErrInvalidPIN = errors.New("create_booking: pin must be exactly 4 digits")

	// ErrInvalidDate возвращается, когда дату не удалось разобрать (ожидается YYYY-MM-DD)
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateInPast возвращается для даты раньше сегодняшней
	ErrDateInPast = errors.New("create_booking: booking date is in the past")

	// ErrSameDayNotAllowed возвращается для сегодняшней даты, если бронирование на сегодня запрещено
	ErrSameDayNotAllowed = errors.New("create_booking: same-day booking is not allowed")

	// ErrWeekdayNotAllowed возвращается, когда дата приходится на запрещенный день недели
	ErrWeekdayNotAllowed = errors.New("create_booking: booking is not allowed on this weekday")

	// ErrActiveBookingExists возвращается, когда у сотрудника уже есть активное бронирование
	ErrActiveBookingExists = errors.New("create_booking: employee already has an active booking")

	// ErrDateFullyBooked возвращается, когда на дату нет свободных мест
	ErrDateFullyBooked = errors.New("create_booking: date is fully booked")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
