package get_fully_booked

import (
	"net/http"

	"github.com/m04kA/SMC-DayBooking/internal/api/handlers"
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/calendar/fully-booked
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.FullyBookedDates(r.Context())
	if err != nil {
		h.logger.Error("GET /calendar/fully-booked - Failed to build index: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /calendar/fully-booked - %d dates", len(result.Dates))
	handlers.RespondJSON(w, http.StatusOK, FromServiceResponse(result))
}
