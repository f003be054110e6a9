package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/akosarev/ABS-SlotService/internal/domain"
	"github.com/akosarev/ABS-SlotService/internal/service/schedule/models"
	"github.com/akosarev/ABS-SlotService/pkg/types"
)

// Горизонт выборки исключений по умолчанию, когда период не задан
const defaultExceptionHorizonDays = 90

// Service сервис для работы с расписаниями доступности
type Service struct {
	scheduleRepo ScheduleRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetSchedule получает полное расписание бизнеса: регулярные окна по дням
// недели и исключения в заданном периоде (по умолчанию ближайшие 90 дней)
func (s *Service) GetSchedule(ctx context.Context, req *models.GetScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: fetching schedule for business=%d", req.BusinessID)

	if req.BusinessID <= 0 {
		return nil, fmt.Errorf("%w: business_id is required", ErrInvalidInput)
	}

	windows, err := s.scheduleRepo.GetAllWindows(ctx, req.BusinessID)
	if err != nil {
		s.logger.Error("GetSchedule: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	from := time.Now()
	if req.From != nil {
		from = *req.From
	}
	to := from.AddDate(0, 0, defaultExceptionHorizonDays)
	if req.To != nil {
		to = *req.To
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: period end is before period start", ErrInvalidInput)
	}

	exceptions, err := s.scheduleRepo.ListExceptionsInRange(ctx, req.BusinessID, from, to)
	if err != nil {
		s.logger.Error("GetSchedule: failed to list exceptions for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetSchedule: business=%d has %d windows, %d exceptions",
		req.BusinessID, len(windows), len(exceptions))

	return &models.ScheduleResponse{
		BusinessID: req.BusinessID,
		Weekdays:   models.FromDomainWindows(windows),
		Exceptions: models.FromDomainExceptions(exceptions),
	}, nil
}

// UpdateWeekday заменяет все окна доступности дня недели
// Пустой список окон закрывает день недели
//
// Пересекающиеся окна допускаются: при генерации слотов каждое окно
// обходится независимо
func (s *Service) UpdateWeekday(ctx context.Context, req *models.UpdateWeekdayRequest) error {
	s.logger.Info("UpdateWeekday: replacing windows for business=%d, weekday=%d (%d windows)",
		req.BusinessID, req.Weekday, len(req.Windows))

	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: business_id is required", ErrInvalidInput)
	}

	if req.Weekday < domain.MinWeekday || req.Weekday > domain.MaxWeekday {
		return fmt.Errorf("%w: got %d", ErrInvalidWeekday, req.Weekday)
	}

	ranges, err := s.parseWindows(req.Windows)
	if err != nil {
		s.logger.Warn("UpdateWeekday: invalid windows for business=%d: %v", req.BusinessID, err)
		return err
	}

	// Замена выполняется в транзакции: удаление и вставка атомарны
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.scheduleRepo.ReplaceWindowsForWeekday(txCtx, req.BusinessID, req.Weekday, ranges)
	})
	if err != nil {
		s.logger.Error("UpdateWeekday: repository error for business=%d: %v", req.BusinessID, err)
		return fmt.Errorf("%w: UpdateWeekday - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateWeekday: successfully replaced windows for business=%d, weekday=%d",
		req.BusinessID, req.Weekday)
	return nil
}

// SetException устанавливает исключение на дату, заменяя существующие
// исключения этой даты
func (s *Service) SetException(ctx context.Context, req *models.SetExceptionRequest) error {
	s.logger.Info("SetException: setting exception for business=%d, date=%s, available=%v",
		req.BusinessID, req.Date.Format(domain.DateFormat), req.IsAvailable)

	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: business_id is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.IsAvailable && len(req.Windows) == 0 {
		return fmt.Errorf("%w: available exception requires at least one window", ErrInvalidException)
	}

	ranges, err := s.parseWindows(req.Windows)
	if err != nil {
		s.logger.Warn("SetException: invalid windows for business=%d: %v", req.BusinessID, err)
		return err
	}

	exceptions := buildExceptions(req, ranges)

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.scheduleRepo.DeleteExceptionsByDate(txCtx, req.BusinessID, req.Date); err != nil {
			return err
		}
		for _, exception := range exceptions {
			if _, err := s.scheduleRepo.CreateException(txCtx, exception); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("SetException: repository error for business=%d: %v", req.BusinessID, err)
		return fmt.Errorf("%w: SetException - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetException: successfully set %d exception(s) for business=%d, date=%s",
		len(exceptions), req.BusinessID, req.Date.Format(domain.DateFormat))
	return nil
}

// ClearExceptions удаляет все исключения на дату, возвращая её под
// регулярное расписание
func (s *Service) ClearExceptions(ctx context.Context, businessID int64, date time.Time) error {
	s.logger.Info("ClearExceptions: clearing exceptions for business=%d, date=%s",
		businessID, date.Format(domain.DateFormat))

	if businessID <= 0 {
		return fmt.Errorf("%w: business_id is required", ErrInvalidInput)
	}

	deleted, err := s.scheduleRepo.DeleteExceptionsByDate(ctx, businessID, date)
	if err != nil {
		s.logger.Error("ClearExceptions: repository error for business=%d: %v", businessID, err)
		return fmt.Errorf("%w: ClearExceptions - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ClearExceptions: removed %d exception(s) for business=%d", deleted, businessID)
	return nil
}

// Вспомогательные методы

// parseWindows валидирует и конвертирует входные окна
func (s *Service) parseWindows(inputs []models.TimeRangeInput) ([]domain.TimeRange, error) {
	ranges := make([]domain.TimeRange, 0, len(inputs))

	for i, input := range inputs {
		start, err := types.NewTimeStringFromString(input.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: window %d start: %v", ErrInvalidWindow, i, err)
		}
		end, err := types.NewTimeStringFromString(input.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: window %d end: %v", ErrInvalidWindow, i, err)
		}

		if !start.IsBefore(end) {
			return nil, fmt.Errorf("%w: window %d: start %s must be before end %s",
				ErrInvalidWindow, i, start, end)
		}

		ranges = append(ranges, domain.TimeRange{StartTime: start, EndTime: end})
	}

	return ranges, nil
}

// buildExceptions строит строки исключений: одна строка без окон для
// закрытия всего дня, иначе строка на каждое окно
func buildExceptions(req *models.SetExceptionRequest, ranges []domain.TimeRange) []*domain.AvailabilityException {
	if len(ranges) == 0 {
		return []*domain.AvailabilityException{{
			BusinessID:  req.BusinessID,
			Date:        req.Date,
			IsAvailable: req.IsAvailable,
			Reason:      req.Reason,
		}}
	}

	exceptions := make([]*domain.AvailabilityException, 0, len(ranges))
	for _, r := range ranges {
		start := r.StartTime
		end := r.EndTime
		exceptions = append(exceptions, &domain.AvailabilityException{
			BusinessID:  req.BusinessID,
			Date:        req.Date,
			StartTime:   &start,
			EndTime:     &end,
			IsAvailable: req.IsAvailable,
			Reason:      req.Reason,
		})
	}
	return exceptions
}
