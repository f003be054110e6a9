// Package timeutil зонно-зависимая арифметика дат и интервалов
//
// Все вычисления слотов ведутся в локальном настенном времени запрошенной зоны:
// на датах перехода на летнее/зимнее время окно 09:00-17:00 может быть длиннее или
// короче на час в абсолютном времени, но границы слотов в локальном времени при
// этом не пропускаются и не дублируются.
package timeutil

import (
	"fmt"
	"time"

	"github.com/akosarev/ABS-SlotService/pkg/types"
)

// LoadLocation загружает IANA зону по имени; пустое имя трактуется как UTC
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}

// AtTime возвращает абсолютный момент: настенное время hm в день date в зоне loc
// Дата берётся по компонентам год/месяц/день, исходная зона date игнорируется.
// Несуществующее настенное время (пропуск при переходе на летнее время)
// сдвигается вперёд на величину пропуска: "02:30" в день перехода 02:00->03:00
// даёт 03:30.
func AtTime(date time.Time, hm types.TimeString, loc *time.Location) (time.Time, error) {
	m, err := hm.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := date.Date()
	t := time.Date(y, mo, d, 0, m, 0, 0, loc)

	// Внутри пропуска time.Date возвращает момент с настенным временем,
	// отличным от запрошенного - корректируем на разницу
	expected := m % types.MinutesPerDay
	if actual := t.Hour()*60 + t.Minute(); actual != expected {
		t = t.Add(time.Duration(expected-actual) * time.Minute)
	}

	return t, nil
}

// DayStart возвращает начало суток для t в зоне loc
func DayStart(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// SameDay проверяет, что два момента приходятся на один календарный день
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Overlaps проверяет пересечение полуоткрытых интервалов [aStart, aEnd) и [bStart, bEnd)
// Граничащие интервалы (aEnd == bStart) пересечением не считаются
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// OverlapsMinutes проверяет пересечение полуоткрытых интервалов, заданных в минутах от начала суток
func OverlapsMinutes(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// AddMinutes сдвигает момент на m минут (абсолютное смещение)
func AddMinutes(t time.Time, m int) time.Time {
	return t.Add(time.Duration(m) * time.Minute)
}

// MinutesBetween возвращает целую разницу b - a в минутах
func MinutesBetween(a, b time.Time) int {
	return int(b.Sub(a) / time.Minute)
}

// ISOWeekday возвращает день недели в нумерации ISO: понедельник = 1, воскресенье = 7
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
