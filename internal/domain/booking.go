package domain

import (
	"time"

	"github.com/akosarev/ABS-SlotService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no_show"
)

// Booking represents a client booking of a service slot
//
// Бронирование занимает интервал [StartTime, EndTime) плюс буфер услуги с обеих
// сторон при расчёте конфликтов. Отмена - мягкое удаление (DeletedAt); мягко
// удалённые бронирования не участвуют ни в расчёте занятости, ни в лимитах.
type Booking struct {
	ID         int64
	Reference  string // публичный UUID для внешних систем
	BusinessID int64
	ServiceID  int64
	UserID     int64
	Date       time.Time
	StartTime  types.TimeString
	EndTime    types.TimeString
	GroupCount int // количество мест, занимаемых бронированием (>= 1)
	Status     BookingStatus

	Notes              *string
	CancellationReason *string

	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDeleted returns true if the booking has been soft-deleted (cancelled)
func (b *Booking) IsDeleted() bool {
	return b.DeletedAt != nil
}

// CountsTowardCapacity returns true if the booking participates in
// capacity, conflict and per-user limit calculations
func (b *Booking) CountsTowardCapacity() bool {
	return b.DeletedAt == nil
}

// EffectiveGroupCount returns the group count, defaulting to 1 when unset
func (b *Booking) EffectiveGroupCount() int {
	if b.GroupCount < 1 {
		return 1
	}
	return b.GroupCount
}

// DayBookingsFilter фильтр бронирований на конкретный день
type DayBookingsFilter struct {
	BusinessID int64
	ServiceID  int64
	Date       time.Time
}

// UserBookingsFilter фильтр бронирований пользователя
type UserBookingsFilter struct {
	UserID           int64
	BusinessID       *int64 // опционально, nil - по всем бизнесам
	IncludeCancelled bool
}

// BusinessBookingsFilter фильтр бронирований бизнеса (для staff-интерфейса)
type BusinessBookingsFilter struct {
	BusinessID       int64
	ServiceID        *int64     // опционально
	StartDate        *time.Time // начало периода, опционально
	EndDate          *time.Time // конец периода, опционально
	IncludeCancelled bool
}
