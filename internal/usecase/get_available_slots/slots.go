package get_available_slots

import (
	"fmt"
	"time"

	"github.com/akosarev/ABS-SlotService/internal/domain"
	"github.com/akosarev/ABS-SlotService/pkg/timeutil"
	"github.com/akosarev/ABS-SlotService/pkg/types"
)

// Причины недоступности/частичной занятости слота
const (
	reasonFullyBooked        = "Fully booked"
	reasonPartiallyBookedFmt = "Partially booked (%d/%d)"
	reasonUserLimitReached   = "User booking limit reached for this day"
)

// window полуоткрытый интервал [start, end) в минутах от начала суток
type window struct {
	start int
	end   int
}

// busyInterval занятый интервал с учётом буфера и количеством занятых мест
type busyInterval struct {
	start      int
	end        int
	groupCount int
}

// dayContext подготовленные входные данные генерации слотов на один день
type dayContext struct {
	date time.Time
	loc  *time.Location

	durationMinutes    int
	bufferMinutes      int
	granularityMinutes int
	groupSize          *int

	// advanceCutoff абсолютный момент now + minAdvanceMinutes:
	// слоты, заканчивающиеся строго раньше него, не выдаются
	advanceCutoff time.Time

	blackouts []window
	busy      []busyInterval

	// userLimitReached дневной лимит пользователя уже исчерпан - все
	// в остальном доступные слоты помечаются недоступными
	userLimitReached bool
}

// resolveEffectiveWindows вычисляет действующие окна доступности на дату
//
// Наличие хотя бы одного исключения полностью переопределяет недельное
// расписание: действуют только окна исключений с isAvailable=true. Исключение
// без времени с isAvailable=false закрывает день целиком и попадает в события.
// Недоступные исключения с временем не дают ни окон, ни событий.
func resolveEffectiveWindows(
	date time.Time,
	recurring []*domain.AvailabilityWindow,
	exceptions []*domain.AvailabilityException,
) ([]window, []AllDayEvent, error) {
	windows := make([]window, 0)
	allDayEvents := make([]AllDayEvent, 0)

	if len(exceptions) > 0 {
		for _, exception := range exceptions {
			if exception.IsAllDayClosure() {
				allDayEvents = append(allDayEvents, AllDayEvent{
					Date:   date,
					Reason: exception.Reason,
				})
				continue
			}
			if exception.IsAvailable && exception.HasWindow() {
				w, err := newWindow(*exception.StartTime, *exception.EndTime)
				if err != nil {
					return nil, nil, err
				}
				windows = append(windows, w)
			}
		}
		return windows, allDayEvents, nil
	}

	for _, availabilityWindow := range recurring {
		w, err := newWindow(availabilityWindow.StartTime, availabilityWindow.EndTime)
		if err != nil {
			return nil, nil, err
		}
		windows = append(windows, w)
	}

	return windows, allDayEvents, nil
}

// blackoutWindows конвертирует blackout-периоды услуги в минутные интервалы
func blackoutWindows(periods []domain.TimeRange) ([]window, error) {
	blackouts := make([]window, 0, len(periods))
	for _, period := range periods {
		w, err := newWindow(period.StartTime, period.EndTime)
		if err != nil {
			return nil, err
		}
		blackouts = append(blackouts, w)
	}
	return blackouts, nil
}

// bufferedBusy строит занятые интервалы из бронирований с расширением на буфер
// с обеих сторон: [start - buffer, end + buffer)
func bufferedBusy(bookings []*domain.Booking, bufferMinutes int) ([]busyInterval, error) {
	busy := make([]busyInterval, 0, len(bookings))

	for _, booking := range bookings {
		// Мягко удалённые бронирования не занимают места
		if !booking.CountsTowardCapacity() {
			continue
		}

		start, err := booking.StartTime.Minutes()
		if err != nil {
			return nil, err
		}
		end, err := booking.EndTime.Minutes()
		if err != nil {
			return nil, err
		}

		busy = append(busy, busyInterval{
			start:      start - bufferMinutes,
			end:        end + bufferMinutes,
			groupCount: booking.EffectiveGroupCount(),
		})
	}

	return busy, nil
}

// generateSlots обходит действующие окна и генерирует слоты
//
// Слоты выдаются в порядке обхода окон, внутри окна - в хронологическом порядке
// курсора. Пересекающиеся окна дают дублирующиеся/чередующиеся кандидаты - это
// сохраняемое поведение, дедупликация не выполняется.
func generateSlots(day dayContext, windows []window) ([]Slot, error) {
	slots := make([]Slot, 0)

	for _, w := range windows {
		windowSlots, err := walkWindow(day, w)
		if err != nil {
			return nil, err
		}
		slots = append(slots, windowSlots...)
	}

	return slots, nil
}

// walkWindow шагает по окну с шагом granularityMinutes и собирает кандидатов
// Обход ведётся в локальном настенном времени: на датах перехода на летнее
// время границы слотов не смещаются и не дублируются
func walkWindow(day dayContext, w window) ([]Slot, error) {
	slots := make([]Slot, 0)

	for cursor := w.start; cursor+day.durationMinutes+day.bufferMinutes <= w.end; cursor += day.granularityMinutes {
		slotStart := cursor
		slotEnd := cursor + day.durationMinutes

		// Пропускаем кандидаты, пересекающие blackout-период
		if overlapsAnyBlackout(slotStart, slotEnd, day.blackouts) {
			continue
		}

		startLocal, err := types.NewTimeStringFromMinutes(slotStart)
		if err != nil {
			return nil, err
		}
		endLocal, err := types.NewTimeStringFromMinutes(slotEnd)
		if err != nil {
			return nil, err
		}

		startAbs, err := timeutil.AtTime(day.date, startLocal, day.loc)
		if err != nil {
			return nil, err
		}
		endAbs, err := timeutil.AtTime(day.date, endLocal, day.loc)
		if err != nil {
			return nil, err
		}

		// Пропускаем слоты, заканчивающиеся раньше минимального окна бронирования
		if endAbs.Before(day.advanceCutoff) {
			continue
		}

		bookedCount := countOverlappingGroup(slotStart, slotEnd, day.bufferMinutes, day.busy)
		bookable, reason := slotEligibility(bookedCount, day.groupSize)

		// Дневной лимит пользователя гасит в остальном доступные слоты
		if bookable && day.userLimitReached {
			bookable = false
			reason = reasonUserLimitReached
		}

		slots = append(slots, Slot{
			StartLocal:  startLocal,
			EndLocal:    endLocal,
			StartUTC:    startAbs.UTC(),
			EndUTC:      endAbs.UTC(),
			IsBookable:  bookable,
			Reason:      reason,
			BookedCount: bookedCount,
			Label:       domain.SlotLabelForHour(slotStart / 60),
		})
	}

	return slots, nil
}

// countOverlappingGroup суммирует group_count бронирований, чьи буферизованные
// интервалы пересекаются с [slotStart, slotEnd + buffer)
func countOverlappingGroup(slotStart, slotEnd, bufferMinutes int, busy []busyInterval) int {
	total := 0
	for _, b := range busy {
		if timeutil.OverlapsMinutes(slotStart, slotEnd+bufferMinutes, b.start, b.end) {
			total += b.groupCount
		}
	}
	return total
}

// slotEligibility определяет доступность слота по занятости и вместимости
//
// Слот без пересекающихся бронирований доступен всегда. При наличии занятости:
// услуга без групповой вместимости эксклюзивна - слот занят полностью; при
// групповой вместимости слот занят при bookedCount >= groupSize и частично
// доступен при 0 < bookedCount < groupSize.
func slotEligibility(bookedCount int, groupSize *int) (bool, string) {
	if bookedCount == 0 {
		return true, ""
	}

	if groupSize == nil || *groupSize <= 1 {
		return false, reasonFullyBooked
	}

	if bookedCount >= *groupSize {
		return false, reasonFullyBooked
	}

	return true, fmt.Sprintf(reasonPartiallyBookedFmt, bookedCount, *groupSize)
}

// overlapsAnyBlackout проверяет пересечение кандидата с любым blackout-периодом
func overlapsAnyBlackout(slotStart, slotEnd int, blackouts []window) bool {
	for _, b := range blackouts {
		if timeutil.OverlapsMinutes(slotStart, slotEnd, b.start, b.end) {
			return true
		}
	}
	return false
}

func newWindow(start, end types.TimeString) (window, error) {
	startMinutes, err := start.Minutes()
	if err != nil {
		return window{}, err
	}
	endMinutes, err := end.Minutes()
	if err != nil {
		return window{}, err
	}
	return window{start: startMinutes, end: endMinutes}, nil
}
