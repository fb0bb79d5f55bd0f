package run_retention_sweep

import (
	"context"

	sweepRetention "github.com/m04kA/SMC-DayBooking/internal/usecase/sweep_retention"
)

type SweepRetentionUseCase interface {
	Execute(ctx context.Context) (*sweepRetention.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
