package create_booking

import "errors"

var (
	// ErrInvalidInput невалидные входные данные
	ErrInvalidInput = errors.New("create_booking: invalid input")

	// ErrInvalidTimeRange время окончания не позже времени начала
	ErrInvalidTimeRange = errors.New("create_booking: end time must be after start time")

	// ErrInvalidTimezone неизвестная таймзона
	ErrInvalidTimezone = errors.New("create_booking: invalid timezone")

	// ErrServiceNotFound услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrDateInPast дата бронирования в прошлом
	ErrDateInPast = errors.New("create_booking: booking date is in the past")

	// ErrDuplicateBooking точный дубликат существующего бронирования
	ErrDuplicateBooking = errors.New("create_booking: duplicate booking")

	// ErrSlotNotAvailable слот занят (нет свободной вместимости)
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrUserLimitReached достигнут дневной лимит бронирований пользователя
	ErrUserLimitReached = errors.New("create_booking: user booking limit reached for this day")

	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("create_booking: internal error")
)
