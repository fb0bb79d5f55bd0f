package run_retention_sweep

import (
	sweepRetention "github.com/m04kA/SMC-DayBooking/internal/usecase/sweep_retention"
)

// SweepResponse HTTP response model
type SweepResponse struct {
	Policy   string `json:"policy"`
	Cutoff   string `json:"cutoff"`
	Affected int64  `json:"affected"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *sweepRetention.Response) *SweepResponse {
	return &SweepResponse{
		Policy:   string(resp.Policy),
		Cutoff:   resp.Cutoff.String(),
		Affected: resp.Affected,
	}
}
