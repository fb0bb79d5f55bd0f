package get_policy

import (
	"net/http"

	"github.com/m04kA/SMC-DayBooking/internal/api/handlers"
)

type Handler struct {
	service PolicyService
}

func NewHandler(service PolicyService) *Handler {
	return &Handler{service: service}
}

// Handle GET /api/v1/policy
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.service.Policy())
}
