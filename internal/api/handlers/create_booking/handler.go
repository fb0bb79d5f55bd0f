package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DayBooking/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-DayBooking/internal/usecase/create_booking"
)

const (
	msgCreated             = "бронирование создано"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingFields       = "заполните все поля: email, имя, дату и PIN"
	msgInvalidName         = "имя слишком длинное"
	msgInvalidEmailDomain  = "используйте корпоративный email"
	msgInvalidPIN          = "PIN должен состоять ровно из 4 цифр"
	msgInvalidDate         = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgDateInPast          = "нельзя забронировать прошедшую дату"
	msgSameDayNotAllowed   = "бронирование на сегодня недоступно, выберите дату в будущем"
	msgWeekdayNotAllowed   = "бронирование доступно только с воскресенья по среду"
	msgActiveBookingExists = "у вас уже есть активное бронирование, сначала отмените его"
	msgDateFullyBooked     = "на выбранную дату нет свободных мест"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, createBooking.ErrMissingFields):
			handlers.RespondBadRequest(w, msgMissingFields)

		case errors.Is(err, createBooking.ErrInvalidName):
			handlers.RespondBadRequest(w, msgInvalidName)

		case errors.Is(err, createBooking.ErrInvalidEmailDomain):
			handlers.RespondBadRequest(w, msgInvalidEmailDomain)

		case errors.Is(err, createBooking.ErrInvalidPIN):
			handlers.RespondBadRequest(w, msgInvalidPIN)

		case errors.Is(err, createBooking.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, createBooking.ErrDateInPast):
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createBooking.ErrSameDayNotAllowed):
			handlers.RespondBadRequest(w, msgSameDayNotAllowed)

		case errors.Is(err, createBooking.ErrWeekdayNotAllowed):
			handlers.RespondBadRequest(w, msgWeekdayNotAllowed)

		case errors.Is(err, createBooking.ErrActiveBookingExists):
			h.logger.Warn("POST /bookings - Active booking exists: email=%s", req.Email)
			handlers.RespondConflict(w, msgActiveBookingExists)

		case errors.Is(err, createBooking.ErrDateFullyBooked):
			h.logger.Warn("POST /bookings - Date fully booked: date=%s", req.BookingDate)
			handlers.RespondConflict(w, msgDateFullyBooked)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: email=%s, date=%s, error=%v",
				req.Email, req.BookingDate, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, date=%s",
		result.ID, result.BookingDate)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
