package create_booking

import (
	"context"
	"time"

	"github.com/akosarev/ABS-SlotService/internal/domain"
	"github.com/akosarev/ABS-SlotService/internal/integrations/notifier"
	"github.com/akosarev/ABS-SlotService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetForDay(ctx context.Context, filter domain.DayBookingsFilter) ([]*domain.Booking, error)
	CountActiveByUserAndDate(ctx context.Context, businessID, userID int64, date time.Time) (int, error)
	ExistsExact(ctx context.Context, businessID, userID int64, date time.Time, startTime types.TimeString) (bool, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, businessID, serviceID int64) (*domain.Service, error)
}

// NotifierClient интерфейс клиента сервиса уведомлений
type NotifierClient interface {
	BookingConfirmed(ctx context.Context, event *notifier.BookingEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
