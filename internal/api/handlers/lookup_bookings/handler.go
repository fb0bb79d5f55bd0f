package lookup_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DayBooking/internal/api/handlers"
	"github.com/m04kA/SMC-DayBooking/internal/service/bookings"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "укажите email и PIN"
	msgNotFound           = "бронирования не найдены"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/lookup
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req LookupRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/lookup - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.ValidateStruct(&req); err != nil {
		h.logger.Warn("POST /bookings/lookup - Validation failed: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInput)
		return
	}

	result, err := h.service.Lookup(r.Context(), req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings/lookup - Failed to lookup bookings: email=%s, error=%v", req.Email, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Пустой результат не ошибка: 200 с сообщением
	h.logger.Info("POST /bookings/lookup - Found %d bookings: email=%s", result.Total, req.Email)
	handlers.RespondJSON(w, http.StatusOK, FromServiceResponse(result))
}
