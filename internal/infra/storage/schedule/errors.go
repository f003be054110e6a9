package schedule

import "errors"

var (
	// ErrWindowNotFound возвращается, когда окно доступности не найдено
	ErrWindowNotFound = errors.New("schedule.repository: availability window not found")

	// ErrExceptionNotFound возвращается, когда исключение не найдено
	ErrExceptionNotFound = errors.New("schedule.repository: availability exception not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
