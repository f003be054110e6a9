package models

import (
	"time"

	"github.com/akosarev/ABS-SlotService/internal/domain"
)

// Request модели

// TimeRangeInput окно времени в формате "HH:MM"
type TimeRangeInput struct {
	StartTime string `json:"startTime"` // "09:00"
	EndTime   string `json:"endTime"`   // "18:00"
}

// UpdateWeekdayRequest запрос на замену окон доступности дня недели
// Пустой список окон делает день недели закрытым
type UpdateWeekdayRequest struct {
	BusinessID int64            `json:"businessId"`
	Weekday    int              `json:"weekday"` // ISO: 1 = понедельник, 7 = воскресенье
	Windows    []TimeRangeInput `json:"windows"`
}

// SetExceptionRequest запрос на установку исключения на дату
//
// Исключение полностью заменяет регулярное расписание на эту дату:
// - IsAvailable=false без окон: бизнес закрыт весь день
// - IsAvailable=true с окнами: особые часы работы
type SetExceptionRequest struct {
	BusinessID  int64            `json:"businessId"`
	Date        time.Time        `json:"date"`
	IsAvailable bool             `json:"isAvailable"`
	Windows     []TimeRangeInput `json:"windows,omitempty"`
	Reason      *string          `json:"reason,omitempty"`
}

// GetScheduleRequest запрос на получение расписания бизнеса
type GetScheduleRequest struct {
	BusinessID int64      `json:"businessId"`
	From       *time.Time `json:"from,omitempty"` // Начало периода для исключений
	To         *time.Time `json:"to,omitempty"`   // Конец периода для исключений
}

// Response модели

// WindowResponse окно доступности
type WindowResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// WeekdayWindowsResponse окна доступности одного дня недели
type WeekdayWindowsResponse struct {
	Weekday int              `json:"weekday"`
	Windows []WindowResponse `json:"windows"`
}

// ExceptionResponse исключение из регулярного расписания
type ExceptionResponse struct {
	ID          int64   `json:"id"`
	Date        string  `json:"date"` // "2026-04-15"
	IsAvailable bool    `json:"isAvailable"`
	StartTime   *string `json:"startTime,omitempty"`
	EndTime     *string `json:"endTime,omitempty"`
	Reason      *string `json:"reason,omitempty"`
}

// ScheduleResponse полное расписание бизнеса
type ScheduleResponse struct {
	BusinessID int64                    `json:"businessId"`
	Weekdays   []WeekdayWindowsResponse `json:"weekdays"`
	Exceptions []ExceptionResponse      `json:"exceptions"`
}

// Методы конвертации

// FromDomainWindows группирует окна по дням недели
// Дни недели без окон опускаются
func FromDomainWindows(windows []*domain.AvailabilityWindow) []WeekdayWindowsResponse {
	byWeekday := make(map[int][]WindowResponse)
	for _, w := range windows {
		byWeekday[w.Weekday] = append(byWeekday[w.Weekday], WindowResponse{
			StartTime: string(w.StartTime),
			EndTime:   string(w.EndTime),
		})
	}

	result := make([]WeekdayWindowsResponse, 0, len(byWeekday))
	for weekday := domain.MinWeekday; weekday <= domain.MaxWeekday; weekday++ {
		if ws, ok := byWeekday[weekday]; ok {
			result = append(result, WeekdayWindowsResponse{Weekday: weekday, Windows: ws})
		}
	}

	return result
}

// FromDomainExceptions конвертирует исключения в DTO
func FromDomainExceptions(exceptions []*domain.AvailabilityException) []ExceptionResponse {
	result := make([]ExceptionResponse, 0, len(exceptions))
	for _, e := range exceptions {
		resp := ExceptionResponse{
			ID:          e.ID,
			Date:        e.Date.Format(domain.DateFormat),
			IsAvailable: e.IsAvailable,
			Reason:      e.Reason,
		}
		if e.StartTime != nil {
			start := string(*e.StartTime)
			resp.StartTime = &start
		}
		if e.EndTime != nil {
			end := string(*e.EndTime)
			resp.EndTime = &end
		}
		result = append(result, resp)
	}
	return result
}
