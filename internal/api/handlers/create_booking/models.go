package create_booking

import (
	"time"

	"github.com/akosarev/ABS-SlotService/internal/domain"
	createBooking "github.com/akosarev/ABS-SlotService/internal/usecase/create_booking"
	"github.com/akosarev/ABS-SlotService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	BusinessID int64   `json:"businessId"`
	ServiceID  int64   `json:"serviceId"`
	Date       string  `json:"date"`      // "2026-04-15"
	StartTime  string  `json:"startTime"` // "10:00"
	EndTime    string  `json:"endTime,omitempty"`
	Timezone   string  `json:"timezone,omitempty"`
	GroupCount int     `json:"groupCount,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	ID         int64   `json:"id"`
	Reference  string  `json:"reference"`
	BusinessID int64   `json:"businessId"`
	ServiceID  int64   `json:"serviceId"`
	UserID     int64   `json:"userId"`
	Date       string  `json:"date"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	GroupCount int     `json:"groupCount"`
	Status     string  `json:"status"`
	Notes      *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	var endTime types.TimeString
	if r.EndTime != "" {
		endTime, err = types.NewTimeStringFromString(r.EndTime)
		if err != nil {
			return nil, err
		}
	}

	return &createBooking.Request{
		BusinessID: r.BusinessID,
		ServiceID:  r.ServiceID,
		UserID:     userID,
		Date:       date,
		Timezone:   r.Timezone,
		StartTime:  startTime,
		EndTime:    endTime,
		GroupCount: r.GroupCount,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	b := resp.Booking
	return &CreateBookingResponse{
		ID:         b.ID,
		Reference:  b.Reference,
		BusinessID: b.BusinessID,
		ServiceID:  b.ServiceID,
		UserID:     b.UserID,
		Date:       b.Date.Format(domain.DateFormat),
		StartTime:  string(b.StartTime),
		EndTime:    string(b.EndTime),
		GroupCount: b.EffectiveGroupCount(),
		Status:     string(b.Status),
		Notes:      b.Notes,
	}
}
