package domain

import (
	"time"

	"github.com/akosarev/ABS-SlotService/pkg/types"
)

// TimeRange локальное окно времени в пределах одного дня, [StartTime, EndTime)
type TimeRange struct {
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Service represents a bookable service of a business
type Service struct {
	ID         int64
	BusinessID int64
	Name       string

	DurationMinutes int // длительность одного бронирования, > 0
	BufferMinutes   int // обязательный простой после бронирования, >= 0

	// GroupSize максимальная суммарная вместимость слота (по group_count).
	// nil или <= 1 - слот эксклюзивный: одно бронирование занимает его целиком.
	GroupSize *int

	// MaxBookingsPerUserPerDay лимит активных бронирований пользователя в день.
	// nil - без лимита.
	MaxBookingsPerUserPerDay *int

	// BlackoutPeriods окна, в которые услуга не бронируется, повторяются каждый
	// день работы услуги (локальное время)
	BlackoutPeriods []TimeRange

	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsGroupService returns true if the slot can hold more than one booking
func (s *Service) IsGroupService() bool {
	return s.GroupSize != nil && *s.GroupSize > 1
}

// Capacity returns the slot capacity; exclusive services have capacity 1
func (s *Service) Capacity() int {
	if s.IsGroupService() {
		return *s.GroupSize
	}
	return 1
}

// HasUserDailyLimit returns true if the service caps bookings per user per day
func (s *Service) HasUserDailyLimit() bool {
	return s.MaxBookingsPerUserPerDay != nil && *s.MaxBookingsPerUserPerDay > 0
}
