package domain

import (
	"time"

	"github.com/akosarev/ABS-SlotService/pkg/types"
)

// AvailabilityWindow повторяющееся недельное окно доступности бизнеса
// Weekday в нумерации ISO: понедельник = 1, воскресенье = 7.
// На один день недели допускается несколько непересекающихся окон (смены).
type AvailabilityWindow struct {
	ID         int64
	BusinessID int64
	Weekday    int
	StartTime  types.TimeString
	EndTime    types.TimeString
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AvailabilityException дата-специфичное переопределение недельного расписания
//
// Если на дату есть хотя бы одно исключение, недельные окна для этой даты
// игнорируются полностью: действуют только окна исключений с IsAvailable=true.
// Исключение без времени начала/конца с IsAvailable=false закрывает весь день.
type AvailabilityException struct {
	ID          int64
	BusinessID  int64
	Date        time.Time
	StartTime   *types.TimeString
	EndTime     *types.TimeString
	IsAvailable bool
	Reason      *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsAllDayClosure returns true if the exception closes the entire date
func (e *AvailabilityException) IsAllDayClosure() bool {
	return !e.IsAvailable && e.StartTime == nil && e.EndTime == nil
}

// HasWindow returns true if the exception carries a concrete time window
func (e *AvailabilityException) HasWindow() bool {
	return e.StartTime != nil && e.EndTime != nil
}
