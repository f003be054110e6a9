package schedule

import "errors"

var (
	// ErrInvalidWeekday возвращается при дне недели вне диапазона 1..7
	ErrInvalidWeekday = errors.New("weekday must be between 1 (Monday) and 7 (Sunday)")

	// ErrInvalidWindow возвращается при некорректном окне доступности
	ErrInvalidWindow = errors.New("invalid availability window")

	// ErrInvalidException возвращается при некорректном исключении
	ErrInvalidException = errors.New("invalid availability exception")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
