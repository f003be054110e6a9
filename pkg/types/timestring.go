package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// TimeString время в формате "HH:MM" (локальное время дня, без даты и зоны)
// Используется для хранения времени начала/конца слотов и окон доступности.
// Специальное значение "24:00" допустимо как маркер конца дня для правых границ окон.
type TimeString string

const (
	// MinutesPerDay количество минут в сутках
	MinutesPerDay = 24 * 60

	timeStringLayout = "15:04"
)

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени
	ErrInvalidTimeString = errors.New("invalid time string format, expected HH:MM")

	// ErrTimeOutOfRange возвращается, когда время выходит за пределы суток
	ErrTimeOutOfRange = errors.New("time is out of day range")
)

// NewTimeString создает TimeString из time.Time (берёт только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeStringLayout))
}

// NewTimeStringFromString создает TimeString из строки с валидацией формата
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// NewTimeStringFromMinutes создает TimeString из количества минут от начала суток
// Допустимый диапазон: [0, 1440], где 1440 соответствует "24:00"
func NewTimeStringFromMinutes(m int) (TimeString, error) {
	if m < 0 || m > MinutesPerDay {
		return "", fmt.Errorf("%w: %d minutes", ErrTimeOutOfRange, m)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", m/60, m%60)), nil
}

// String возвращает строковое представление времени
func (t TimeString) String() string {
	return string(t)
}

// IsZero проверяет, что значение не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет корректность формата HH:MM
// Часы и минуты обязаны быть двузначными: time.Parse принимает "9:00",
// а лексикографическое сравнение IsBefore/IsAfter на таких значениях ломается
func (t TimeString) Validate() error {
	if t == "24:00" {
		return nil
	}
	if len(t) != 5 {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	if _, err := time.Parse(timeStringLayout, string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// Minutes возвращает количество минут от начала суток
func (t TimeString) Minutes() (int, error) {
	if t == "24:00" {
		return MinutesPerDay, nil
	}
	parsed, err := time.Parse(timeStringLayout, string(t))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// AddMinutes возвращает время, сдвинутое на m минут вперед (или назад при m < 0)
// Возвращает ошибку, если результат выходит за пределы суток
func (t TimeString) AddMinutes(m int) (TimeString, error) {
	current, err := t.Minutes()
	if err != nil {
		return "", err
	}
	return NewTimeStringFromMinutes(current + m)
}

// Sub возвращает разницу t - other в минутах
func (t TimeString) Sub(other TimeString) (int, error) {
	a, err := t.Minutes()
	if err != nil {
		return 0, err
	}
	b, err := other.Minutes()
	if err != nil {
		return 0, err
	}
	return a - b, nil
}

// IsBefore проверяет, что t строго раньше other
// Для корректного формата HH:MM лексикографическое сравнение совпадает с хронологическим
func (t TimeString) IsBefore(other TimeString) bool {
	return string(t) < string(other)
}

// IsAfter проверяет, что t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return string(t) > string(other)
}

// Hour возвращает час (0-23) начала
func (t TimeString) Hour() (int, error) {
	m, err := t.Minutes()
	if err != nil {
		return 0, err
	}
	return m / 60, nil
}

// Value реализует driver.Valuer для записи в БД
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return string(t), nil
}

// Scan реализует sql.Scanner для чтения из БД
// Postgres TIME приходит как строка "HH:MM:SS", []byte или time.Time в зависимости от драйвера
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("%w: unsupported source type %T", ErrInvalidTimeString, src)
	}
}

func (t *TimeString) scanString(s string) error {
	// Отрезаем секунды, если они есть ("10:00:00" -> "10:00")
	if len(s) > 5 {
		s = s[:5]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
