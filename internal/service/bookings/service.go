package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-DayBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-DayBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-DayBooking/internal/service/bookings/models"
)

// Service сервис самостоятельного просмотра и отмены бронирований
type Service struct {
	bookingRepo  BookingRepository
	publisher    EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Lookup возвращает все бронирования сотрудника с указанными email и PIN
// по возрастанию даты. Пустой список не является ошибкой.
func (s *Service) Lookup(ctx context.Context, req *models.LookupRequest) (*models.BookingListResponse, error) {
	email := strings.TrimSpace(req.Email)
	pin := strings.TrimSpace(req.PIN)

	if email == "" || pin == "" {
		s.logger.Warn("Lookup: email and pin are required")
		return nil, fmt.Errorf("%w: email and pin are required", ErrInvalidInput)
	}

	s.logger.Info("Lookup: fetching bookings for email=%s", email)

	bookings, err := s.bookingRepo.ListByEmailAndPIN(ctx, email, pin)
	if err != nil {
		s.logger.Error("Lookup: repository error for email=%s: %v", email, err)
		return nil, fmt.Errorf("%w: Lookup - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Lookup: found %d bookings for email=%s", len(bookings), email)
	return models.FromDomainBookings(bookings), nil
}

// GetByID возвращает бронирование по ID без проверки владельца (администрирование)
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: booking id must be positive", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// CancelByID безусловно удаляет бронирование по ID.
// Используется администратором, владелец отменяет через CancelOwned.
func (s *Service) CancelByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: booking id must be positive", ErrInvalidInput)
	}

	s.logger.Info("CancelByID: deleting booking id=%d", id)

	deleted, err := s.bookingRepo.Delete(ctx, id)
	if err != nil {
		return nil, s.mapDeleteError("CancelByID", id, err)
	}

	return s.cancelled(ctx, "CancelByID", deleted), nil
}

// CancelOwned удаляет бронирование, только если email и PIN принадлежат владельцу.
// Чужое бронирование неотличимо от несуществующего.
func (s *Service) CancelOwned(ctx context.Context, req *models.CancelOwnedRequest) (*models.BookingResponse, error) {
	email := strings.TrimSpace(req.Email)
	pin := strings.TrimSpace(req.PIN)

	if req.BookingID <= 0 || email == "" || pin == "" {
		s.logger.Warn("CancelOwned: invalid input for booking id=%d", req.BookingID)
		return nil, fmt.Errorf("%w: booking id, email and pin are required", ErrInvalidInput)
	}

	s.logger.Info("CancelOwned: deleting booking id=%d for email=%s", req.BookingID, email)

	deleted, err := s.bookingRepo.DeleteOwned(ctx, req.BookingID, email, pin)
	if err != nil {
		return nil, s.mapDeleteError("CancelOwned", req.BookingID, err)
	}

	return s.cancelled(ctx, "CancelOwned", deleted), nil
}

// Helper methods

func (s *Service) mapDeleteError(op string, id int64, err error) error {
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		s.logger.Warn("%s: booking id=%d not found", op, id)
		return ErrBookingNotFound
	}
	s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

func (s *Service) cancelled(ctx context.Context, op string, deleted *domain.Booking) *models.BookingResponse {
	s.logger.Info("%s: successfully deleted booking id=%d (date=%s)", op, deleted.ID, deleted.BookingDate)
	s.metrics.IncCancellation()
	s.publisher.PublishWithGracefulDegradation(ctx,
		domain.NewBookingEvent(domain.EventBookingCancelled, deleted, s.timeProvider.Now()))
	return models.FromDomainBooking(deleted)
}
