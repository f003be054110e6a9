package set_exception

import (
	"context"
	"time"

	"github.com/akosarev/ABS-SlotService/internal/service/schedule/models"
)

type ScheduleService interface {
	SetException(ctx context.Context, req *models.SetExceptionRequest) error
	ClearExceptions(ctx context.Context, businessID int64, date time.Time) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
