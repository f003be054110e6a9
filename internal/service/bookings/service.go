package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/akosarev/ABS-SlotService/internal/domain"
	bookingRepo "github.com/akosarev/ABS-SlotService/internal/infra/storage/booking"
	"github.com/akosarev/ABS-SlotService/internal/integrations/notifier"
	"github.com/akosarev/ABS-SlotService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo    BookingRepository
	notifierClient NotifierClient
	logger         Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	notifierClient NotifierClient,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:    bookingRepo,
		notifierClient: notifierClient,
		logger:         logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь может видеть только своё бронирование
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if booking.UserID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по бизнесу и включает отменённые
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, includeCancelled=%v",
		req.UserID, req.IncludeCancelled)

	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByUser(ctx, domain.UserBookingsFilter{
		UserID:           req.UserID,
		BusinessID:       req.BusinessID,
		IncludeCancelled: req.IncludeCancelled,
	})
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetBusinessBookings получает бронирования бизнеса с гибкой фильтрацией
// Поддерживает фильтрацию по услуге и периоду дат
//
// Примеры использования:
// - Все активные бронирования: GetBusinessBookings(ctx, &GetBusinessBookingsRequest{BusinessID: 123})
// - Бронирования на дату: StartDate и EndDate указывают на одну дату
// - Бронирования за период: StartDate и EndDate указывают на разные даты
// - Включая отменённые: IncludeCancelled = true
func (s *Service) GetBusinessBookings(ctx context.Context, req *models.GetBusinessBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetBusinessBookings: fetching bookings for business=%d", req.BusinessID)
	if req.ServiceID != nil {
		logMsg += fmt.Sprintf(", service=%d", *req.ServiceID)
	}
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s",
			req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.IncludeCancelled {
		logMsg += ", includeCancelled=true"
	}
	s.logger.Info(logMsg)

	if req.BusinessID <= 0 {
		return nil, fmt.Errorf("%w: business_id is required", ErrInvalidInput)
	}

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByBusinessWithFilter(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("GetBusinessBookings: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetBusinessBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBusinessBookings: successfully fetched %d bookings for business=%d", len(bookings), req.BusinessID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование (мягкое удаление)
// Пользователь может отменить только своё бронирование; отменённое
// бронирование сразу освобождает вместимость слота
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if booking.UserID != req.UserID {
		s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", req.UserID, bookingID)
		return ErrAccessDenied
	}

	if booking.IsDeleted() {
		s.logger.Warn("Cancel: booking id=%d is already cancelled", bookingID)
		return ErrAlreadyCancelled
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			// Конкурентная отмена успела раньше
			s.logger.Warn("Cancel: booking id=%d not found during cancellation", bookingID)
			return ErrAlreadyCancelled
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)

	// Уведомление best effort: сбой не откатывает отмену
	if s.notifierClient != nil {
		event := &notifier.CancellationEvent{
			Reference: booking.Reference,
			UserID:    booking.UserID,
		}
		if req.CancellationReason != "" {
			event.Reason = &req.CancellationReason
		}
		if err := s.notifierClient.BookingCancelled(ctx, event); err != nil {
			s.logger.Warn("Cancel: notification for booking %s failed: %v", booking.Reference, err)
		}
	}

	return nil
}
