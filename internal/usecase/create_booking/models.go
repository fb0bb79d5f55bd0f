package create_booking

import (
	"time"

	"github.com/m04kA/SMC-DayBooking/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	Email string // корпоративный email сотрудника
	Name  string // отображаемое имя
	Date  string // дата бронирования в формате YYYY-MM-DD
	PIN   string // 4 цифры для самостоятельной отмены
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID            int64
	EmployeeEmail string
	EmployeeName  string
	BookingDate   types.Date
	Status        string
	CreatedAt     time.Time
}

// Результаты допуска для метрик
const (
	outcomeAccepted    = "accepted"
	outcomeInvalid     = "rejected_validation"
	outcomeExclusivity = "rejected_exclusivity"
	outcomeCapacity    = "rejected_capacity"
	outcomeError       = "error"
)
