package get_available_slots

import (
	"time"

	"github.com/akosarev/ABS-SlotService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	BusinessID int64     // ID бизнеса
	ServiceID  int64     // ID услуги
	Date       time.Time // Дата (без времени), трактуется в Timezone
	Timezone   string    // IANA имя зоны; пустое - UTC

	// GranularityMinutes шаг генерации кандидатов; <= 0 - значение по умолчанию.
	// Шаг меньше длительности услуги даёт перекрывающиеся кандидаты - это
	// осознанное поведение, клиент получает более мелкую сетку выбора начала.
	GranularityMinutes int

	// RequestingUserID пользователь, для которого проверяется дневной лимит
	// бронирований; nil - лимит не проверяется
	RequestingUserID *int64

	// MinAdvanceMinutes минимальное время до начала слота; < 0 - значение по умолчанию
	MinAdvanceMinutes int

	// MaxDaysInFuture горизонт бронирования в днях; <= 0 - значение по умолчанию
	MaxDaysInFuture int
}

// Slot модель вычисленного временного слота
// Инвариант: EndLocal - StartLocal == длительность услуги
type Slot struct {
	StartLocal  types.TimeString // Локальное время начала ("09:00")
	EndLocal    types.TimeString // Локальное время конца ("09:30")
	StartUTC    time.Time        // Абсолютный момент начала в UTC
	EndUTC      time.Time        // Абсолютный момент конца в UTC
	IsBookable  bool             // Можно ли бронировать слот
	Reason      string           // Причина недоступности или частичной занятости
	BookedCount int              // Суммарный group_count пересекающихся бронирований
	Label       string           // Morning / Afternoon / Evening
}

// AllDayEvent событие закрытия всего дня (исключение без времени с isAvailable=false)
type AllDayEvent struct {
	Date   time.Time
	Reason *string
}

// Response модель ответа со списком слотов
type Response struct {
	Date                time.Time     // Дата, на которую запрашивались слоты
	Timezone            string        // Зона, в которой вычислены локальные времена
	SlotDurationMinutes int           // Длительность каждого слота
	BufferMinutes       int           // Буфер услуги
	Slots               []Slot        // Слоты в порядке обхода окон и курсора
	AllDayEvents        []AllDayEvent // События закрытия всего дня
	Labels              []string      // Уникальные метки частей дня в порядке появления
	NextAvailableSlot   *Slot         // Первый доступный для бронирования слот
}
