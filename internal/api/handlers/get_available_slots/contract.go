package get_available_slots

import (
	"context"

	getAvailableSlots "github.com/akosarev/ABS-SlotService/internal/usecase/get_available_slots"
)

type GetAvailableSlotsUseCase interface {
	Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error)
}

// Policy политика бронирования из конфигурации сервиса
// Нулевой шаг и горизонт заменяются умолчаниями на уровне use case
type Policy struct {
	GranularityMinutes int
	MinAdvanceMinutes  int
	MaxDaysInFuture    int
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
