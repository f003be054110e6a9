package get_available_slots

import (
	"context"
	"time"

	"github.com/akosarev/ABS-SlotService/internal/domain"
)

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	// GetByID получает услугу бизнеса вместе с blackout-периодами
	GetByID(ctx context.Context, businessID, serviceID int64) (*domain.Service, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	// GetWindowsByWeekday получает недельные окна доступности (ISO weekday, пн=1)
	GetWindowsByWeekday(ctx context.Context, businessID int64, weekday int) ([]*domain.AvailabilityWindow, error)
	// GetExceptionsByDate получает дата-специфичные исключения
	GetExceptionsByDate(ctx context.Context, businessID int64, date time.Time) ([]*domain.AvailabilityException, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetForDay получает неудалённые бронирования услуги на дату
	GetForDay(ctx context.Context, filter domain.DayBookingsFilter) ([]*domain.Booking, error)
	// CountActiveByUserAndDate подсчитывает неудалённые бронирования пользователя на дату
	CountActiveByUserAndDate(ctx context.Context, businessID, userID int64, date time.Time) (int, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
