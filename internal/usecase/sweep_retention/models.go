package sweep_retention

import (
	"github.com/m04kA/SMC-DayBooking/internal/domain"
	"github.com/m04kA/SMC-DayBooking/pkg/types"
)

// Response результат одного прохода очистки
type Response struct {
	Policy   domain.RetentionPolicy
	Cutoff   types.Date // записи с датой строго раньше cutoff
	Affected int64
}
