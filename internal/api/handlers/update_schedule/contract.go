package update_schedule

import (
	"context"

	"github.com/akosarev/ABS-SlotService/internal/service/schedule/models"
)

type ScheduleService interface {
	UpdateWeekday(ctx context.Context, req *models.UpdateWeekdayRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
