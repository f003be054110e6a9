package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/akosarev/ABS-SlotService/internal/domain"
	serviceRepo "github.com/akosarev/ABS-SlotService/internal/infra/storage/service"
	"github.com/akosarev/ABS-SlotService/pkg/timeutil"
)

// UseCase use case для получения доступных слотов бронирования
type UseCase struct {
	serviceRepo  ServiceRepository
	scheduleRepo ScheduleRepository
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	serviceRepo ServiceRepository,
	scheduleRepo ScheduleRepository,
	bookingRepo BookingRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		serviceRepo:  serviceRepo,
		scheduleRepo: scheduleRepo,
		bookingRepo:  bookingRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
//
// Вычисление выполняется только на чтение и не имеет побочных эффектов;
// при ошибке хранилища частичный список слотов не возвращается никогда.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: business=%d, service=%d, date=%s, tz=%s",
		req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat), req.Timezone)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Применяем значения по умолчанию к параметрам политики
	granularity := req.GranularityMinutes
	if granularity <= 0 {
		granularity = domain.DefaultSlotGranularityMinutes
	}
	minAdvance := req.MinAdvanceMinutes
	if minAdvance < 0 {
		minAdvance = domain.DefaultMinAdvanceMinutes
	}
	maxDays := req.MaxDaysInFuture
	if maxDays <= 0 {
		maxDays = domain.DefaultMaxDaysInFuture
	}

	// 3. Загружаем таймзону и текущее время
	loc, err := timeutil.LoadLocation(req.Timezone)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: invalid timezone %q: %v", req.Timezone, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimezone, err)
	}
	now := uc.timeProvider.Now()

	// 4. Получаем услугу; неактивная или чужая услуга неотличима от отсутствующей
	service, err := uc.serviceRepo.GetByID(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found for business id=%d", req.ServiceID, req.BusinessID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.Active {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 5. Валидация даты относительно окна бронирования
	if err := validateDateWindow(req.Date, now, loc, minAdvance, maxDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date window validation failed: %v", err)
		return nil, err
	}

	// 6. Разрешаем действующие окна: исключения полностью переопределяют
	// недельное расписание на эту дату
	exceptions, err := uc.scheduleRepo.GetExceptionsByDate(ctx, req.BusinessID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get exceptions: %v", err)
		return nil, fmt.Errorf("%w: failed to get exceptions: %v", ErrInternal, err)
	}

	var recurring []*domain.AvailabilityWindow
	if len(exceptions) == 0 {
		recurring, err = uc.scheduleRepo.GetWindowsByWeekday(ctx, req.BusinessID, timeutil.ISOWeekday(req.Date))
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to get recurring windows: %v", err)
			return nil, fmt.Errorf("%w: failed to get recurring windows: %v", ErrInternal, err)
		}
	}

	windows, allDayEvents, err := resolveEffectiveWindows(req.Date, recurring, exceptions)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve windows: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve windows: %v", ErrInternal, err)
	}

	response := &Response{
		Date:                req.Date,
		Timezone:            loc.String(),
		SlotDurationMinutes: service.DurationMinutes,
		BufferMinutes:       service.BufferMinutes,
		Slots:               []Slot{},
		AllDayEvents:        allDayEvents,
		Labels:              []string{},
	}

	// День закрыт (явное исключение или нет недельных окон) - пустой список, не ошибка
	if len(windows) == 0 {
		uc.logger.Info("GetAvailableSlots: business=%d closed on %s", req.BusinessID, req.Date.Format(domain.DateFormat))
		return response, nil
	}

	// 7. Загружаем бронирования дня и строим занятые интервалы с буфером
	bookings, err := uc.bookingRepo.GetForDay(ctx, domain.DayBookingsFilter{
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		Date:       req.Date,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	busy, err := bufferedBusy(bookings, service.BufferMinutes)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to build busy intervals: %v", err)
		return nil, fmt.Errorf("%w: failed to build busy intervals: %v", ErrInternal, err)
	}

	// 8. Снимок дневного лимита пользователя: читается один раз до обхода,
	// чтобы результат был детерминированной функцией загруженных данных
	userLimitReached := false
	if req.RequestingUserID != nil && service.HasUserDailyLimit() {
		count, err := uc.bookingRepo.CountActiveByUserAndDate(ctx, req.BusinessID, *req.RequestingUserID, req.Date)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to count user bookings: %v", err)
			return nil, fmt.Errorf("%w: failed to count user bookings: %v", ErrInternal, err)
		}
		userLimitReached = count >= *service.MaxBookingsPerUserPerDay
	}

	// 9. Подготавливаем blackout-периоды услуги
	blackouts, err := blackoutWindows(service.BlackoutPeriods)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to build blackout windows: %v", err)
		return nil, fmt.Errorf("%w: failed to build blackout windows: %v", ErrInternal, err)
	}

	// 10. Генерируем слоты
	slots, err := generateSlots(dayContext{
		date:               req.Date,
		loc:                loc,
		durationMinutes:    service.DurationMinutes,
		bufferMinutes:      service.BufferMinutes,
		granularityMinutes: granularity,
		groupSize:          service.GroupSize,
		advanceCutoff:      timeutil.AddMinutes(now, minAdvance),
		blackouts:          blackouts,
		busy:               busy,
		userLimitReached:   userLimitReached,
	}, windows)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	response.Slots = slots
	response.Labels = distinctLabels(slots)
	response.NextAvailableSlot = firstBookable(slots)

	uc.logger.Info("GetAvailableSlots: generated %d slots for business=%d, service=%d, date=%s",
		len(slots), req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return response, nil
}

// distinctLabels возвращает уникальные метки частей дня в порядке появления
func distinctLabels(slots []Slot) []string {
	labels := make([]string, 0, 3)
	seen := make(map[string]struct{}, 3)

	for _, slot := range slots {
		if _, ok := seen[slot.Label]; ok {
			continue
		}
		seen[slot.Label] = struct{}{}
		labels = append(labels, slot.Label)
	}

	return labels
}

// firstBookable возвращает копию первого доступного для бронирования слота
func firstBookable(slots []Slot) *Slot {
	for i := range slots {
		if slots[i].IsBookable {
			slot := slots[i]
			return &slot
		}
	}
	return nil
}
