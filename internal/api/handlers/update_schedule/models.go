package update_schedule

import (
	"github.com/akosarev/ABS-SlotService/internal/service/schedule/models"
)

// UpdateWeekdayRequest HTTP request model
// Тело содержит полный новый список окон дня недели; пустой список
// закрывает день
type UpdateWeekdayRequest struct {
	Windows []models.TimeRangeInput `json:"windows"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateWeekdayRequest) ToServiceRequest(businessID int64, weekday int) *models.UpdateWeekdayRequest {
	return &models.UpdateWeekdayRequest{
		BusinessID: businessID,
		Weekday:    weekday,
		Windows:    r.Windows,
	}
}
