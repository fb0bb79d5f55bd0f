package models

import (
	"github.com/m04kA/SMC-DayBooking/pkg/types"
)

// FullyBookedResponse даты без свободных мест, начиная с сегодняшней
type FullyBookedResponse struct {
	Dates []types.Date `json:"dates"`
	Today types.Date   `json:"today"`
}

// PolicyResponse правила бронирования для подсказок в форме
type PolicyResponse struct {
	EmailDomain     string     `json:"emailDomain"`
	AllowedWeekdays []string   `json:"allowedWeekdays"`
	AllowSameDay    bool       `json:"allowSameDay"`
	Capacity        int        `json:"capacity"`
	PinLength       int        `json:"pinLength"`
	Today           types.Date `json:"today"`
	EarliestDate    types.Date `json:"earliestDate"`
	Timezone        string     `json:"timezone"`
	RetentionPolicy string     `json:"retentionPolicy"`
}
