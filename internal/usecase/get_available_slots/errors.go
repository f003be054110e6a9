package get_available_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInvalidTimezone возвращается при неизвестном имени таймзоны
	ErrInvalidTimezone = errors.New("get_available_slots: invalid timezone")

	// ErrServiceNotFound возвращается, когда услуга не найдена, неактивна
	// или принадлежит другому бизнесу
	ErrServiceNotFound = errors.New("get_available_slots: service not found")

	// ErrDateTooSoon возвращается, когда дата раньше минимального окна бронирования
	ErrDateTooSoon = errors.New("get_available_slots: date is too soon to book")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение maxDaysInFuture
	ErrDateTooFarInFuture = errors.New("get_available_slots: date is too far in the future")

	// ErrInternal возвращается при внутренних ошибках usecase
	// Ошибки хранилища пробрасываются через него без частичных результатов
	ErrInternal = errors.New("get_available_slots: internal error")
)
