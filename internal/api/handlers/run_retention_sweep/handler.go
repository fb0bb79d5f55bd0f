package run_retention_sweep

import (
	"net/http"

	"github.com/m04kA/SMC-DayBooking/internal/api/handlers"
)

type Handler struct {
	useCase SweepRetentionUseCase
	logger  Logger
}

func NewHandler(useCase SweepRetentionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/retention/sweep
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.useCase.Execute(r.Context())
	if err != nil {
		h.logger.Error("POST /admin/retention/sweep - Sweep failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /admin/retention/sweep - policy=%s, cutoff=%s, affected=%d",
		result.Policy, result.Cutoff, result.Affected)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
