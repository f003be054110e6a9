package schedule

import (
	"context"
	"time"

	"github.com/akosarev/ABS-SlotService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetAllWindows(ctx context.Context, businessID int64) ([]*domain.AvailabilityWindow, error)
	ReplaceWindowsForWeekday(ctx context.Context, businessID int64, weekday int, windows []domain.TimeRange) error
	ListExceptionsInRange(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.AvailabilityException, error)
	CreateException(ctx context.Context, exception *domain.AvailabilityException) (*domain.AvailabilityException, error)
	DeleteExceptionsByDate(ctx context.Context, businessID int64, date time.Time) (int64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
