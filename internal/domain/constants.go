package domain

// Default booking policy values
const (
	DefaultSlotGranularityMinutes = 30
	DefaultMinAdvanceMinutes      = 60 // 1 час
	DefaultMaxDaysInFuture        = 90
	DefaultTimezone               = "UTC"
)

// Business validation constants
const (
	MinDurationMinutes    = 5
	MaxDurationMinutes    = 480 // 8 часов
	MinGranularityMinutes = 5
	MaxGranularityMinutes = 240
	MinWeekday            = 1 // понедельник
	MaxWeekday            = 7 // воскресенье
	MaxGroupSize          = 100
	MaxNotesLength        = 500
	MaxReasonLength       = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Slot labels by local hour of day
const (
	LabelMorning   = "Morning"   // [00:00, 12:00)
	LabelAfternoon = "Afternoon" // [12:00, 17:00)
	LabelEvening   = "Evening"   // [17:00, 24:00)
)

// SlotLabelForHour возвращает метку части дня для локального часа начала слота
func SlotLabelForHour(hour int) string {
	switch {
	case hour < 12:
		return LabelMorning
	case hour < 17:
		return LabelAfternoon
	default:
		return LabelEvening
	}
}
