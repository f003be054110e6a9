package set_exception

import (
	"time"

	"github.com/akosarev/ABS-SlotService/internal/domain"
	"github.com/akosarev/ABS-SlotService/internal/service/schedule/models"
)

// SetExceptionRequest HTTP request model
type SetExceptionRequest struct {
	Date        string                  `json:"date"` // "2026-04-15"
	IsAvailable bool                    `json:"isAvailable"`
	Windows     []models.TimeRangeInput `json:"windows,omitempty"`
	Reason      *string                 `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *SetExceptionRequest) ToServiceRequest(businessID int64) (*models.SetExceptionRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &models.SetExceptionRequest{
		BusinessID:  businessID,
		Date:        date,
		IsAvailable: r.IsAvailable,
		Windows:     r.Windows,
		Reason:      r.Reason,
	}, nil
}
