package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/akosarev/ABS-SlotService/internal/domain"
	bookingRepo "github.com/akosarev/ABS-SlotService/internal/infra/storage/booking"
	serviceRepo "github.com/akosarev/ABS-SlotService/internal/infra/storage/service"
	"github.com/akosarev/ABS-SlotService/internal/integrations/notifier"
	"github.com/akosarev/ABS-SlotService/pkg/timeutil"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo    BookingRepository
	serviceRepo    ServiceRepository
	notifierClient NotifierClient
	txManager      TransactionManager
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	notifierClient NotifierClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		serviceRepo:    serviceRepo,
		notifierClient: notifierClient,
		txManager:      txManager,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет use case создания бронирования
//
// Проверки применяются строго по порядку, первая неудачная побеждает.
// Проверки вместимости и дневного лимита выполняются внутри serializable
// транзакции с блокировкой бронирований дня (FOR UPDATE), чтобы два
// конкурентных запроса не заняли последнее место одновременно.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// 2. Загрузка таймзоны бизнеса и нормализация даты
	loc, err := timeutil.LoadLocation(req.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimezone, req.Timezone, err)
	}

	now := uc.timeProvider.Now().In(loc)
	bookingDate := timeutil.DayStart(req.Date, loc)

	if bookingDate.Before(timeutil.DayStart(now, loc)) {
		return nil, fmt.Errorf("%w: %s", ErrDateInPast, bookingDate.Format(domain.DateFormat))
	}

	// 3. Получение услуги
	svc, err := uc.serviceRepo.GetByID(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			return nil, fmt.Errorf("%w: service_id=%d", ErrServiceNotFound, req.ServiceID)
		}
		uc.logger.Error("create_booking: failed to get service %d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !svc.Active {
		return nil, fmt.Errorf("%w: service_id=%d is inactive", ErrServiceNotFound, req.ServiceID)
	}

	// 4. Вычисление окончания слота: если не задано явно, берем
	// начало плюс длительность услуги
	endTime := req.EndTime
	if endTime.IsZero() {
		endTime, err = req.StartTime.AddMinutes(svc.DurationMinutes)
		if err != nil {
			return nil, fmt.Errorf("%w: start_time + duration exceeds the day: %v", ErrInvalidInput, err)
		}
	}

	startMinutes, err := req.StartTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: start_time: %v", ErrInvalidInput, err)
	}
	endMinutes, err := endTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: end_time: %v", ErrInvalidInput, err)
	}

	if endMinutes <= startMinutes {
		return nil, fmt.Errorf("%w: %s..%s", ErrInvalidTimeRange, req.StartTime, endTime)
	}

	groupCount := req.GroupCount
	if groupCount == 0 {
		groupCount = 1
	}

	booking := &domain.Booking{
		Reference:  uuid.NewString(),
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		UserID:     req.UserID,
		Date:       bookingDate,
		StartTime:  req.StartTime,
		EndTime:    endTime,
		GroupCount: groupCount,
		Status:     domain.StatusConfirmed,
		Notes:      req.Notes,
	}

	// 5. Проверки занятости и создание - атомарно
	var created *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5a. Точный дубликат: тот же пользователь, та же услуга,
		// тот же день и то же время начала
		exists, err := uc.bookingRepo.ExistsExact(txCtx, req.BusinessID, req.UserID, bookingDate, req.StartTime)
		if err != nil {
			return fmt.Errorf("%w: failed to check duplicate: %v", ErrInternal, err)
		}
		if exists {
			return fmt.Errorf("%w: user_id=%d date=%s start=%s",
				ErrDuplicateBooking, req.UserID, bookingDate.Format(domain.DateFormat), req.StartTime)
		}

		// 5b. Повторная проверка вместимости по свежим данным
		// (бронирования дня блокируются FOR UPDATE)
		dayBookings, err := uc.bookingRepo.GetForDay(txCtx, domain.DayBookingsFilter{
			BusinessID: req.BusinessID,
			ServiceID:  req.ServiceID,
			Date:       bookingDate,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to get day bookings: %v", ErrInternal, err)
		}

		booked, err := countOverlappingGroup(startMinutes, endMinutes, svc.BufferMinutes, dayBookings)
		if err != nil {
			return fmt.Errorf("%w: corrupted booking times: %v", ErrInternal, err)
		}

		if booked+groupCount > svc.Capacity() {
			return fmt.Errorf("%w: %d/%d places taken, requested %d",
				ErrSlotNotAvailable, booked, svc.Capacity(), groupCount)
		}

		// 5c. Повторная проверка дневного лимита пользователя
		if svc.HasUserDailyLimit() {
			count, err := uc.bookingRepo.CountActiveByUserAndDate(txCtx, req.BusinessID, req.UserID, bookingDate)
			if err != nil {
				return fmt.Errorf("%w: failed to count user bookings: %v", ErrInternal, err)
			}
			if count >= *svc.MaxBookingsPerUserPerDay {
				return fmt.Errorf("%w: %d of %d", ErrUserLimitReached, count, *svc.MaxBookingsPerUserPerDay)
			}
		}

		// 5d. Создание бронирования; уникальный индекс закрывает
		// гонку дубликатов, пропущенную проверкой 5a
		created, err = uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrDuplicateBooking) {
				return fmt.Errorf("%w: user_id=%d date=%s start=%s",
					ErrDuplicateBooking, req.UserID, bookingDate.Format(domain.DateFormat), req.StartTime)
			}
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("create_booking: booking %d (%s) created for user %d, %s %s..%s",
		created.ID, created.Reference, created.UserID,
		created.Date.Format(domain.DateFormat), created.StartTime, created.EndTime)

	// 6. Уведомление отправляется по принципу best effort: его сбой
	// не отменяет уже зафиксированное бронирование
	uc.notifyConfirmed(ctx, created, svc)

	return &Response{Booking: created}, nil
}

func (uc *UseCase) notifyConfirmed(ctx context.Context, booking *domain.Booking, svc *domain.Service) {
	if uc.notifierClient == nil {
		return
	}

	event := &notifier.BookingEvent{
		Reference:   booking.Reference,
		BusinessID:  booking.BusinessID,
		ServiceID:   booking.ServiceID,
		ServiceName: svc.Name,
		UserID:      booking.UserID,
		Date:        booking.Date.Format(domain.DateFormat),
		StartTime:   string(booking.StartTime),
		EndTime:     string(booking.EndTime),
		GroupCount:  booking.GroupCount,
	}

	if err := uc.notifierClient.BookingConfirmed(ctx, event); err != nil {
		uc.logger.Warn("create_booking: notification for booking %s failed: %v", booking.Reference, err)
	}
}
