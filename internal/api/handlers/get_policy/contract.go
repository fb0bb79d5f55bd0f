package get_policy

import (
	"github.com/m04kA/SMC-DayBooking/internal/service/calendar/models"
)

type PolicyService interface {
	Policy() *models.PolicyResponse
}
