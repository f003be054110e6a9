package models

import (
	"time"

	"github.com/akosarev/ABS-SlotService/internal/domain"
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID           int64  `json:"userId"`
	BusinessID       *int64 `json:"businessId,omitempty"`       // Фильтр по бизнесу (опционально)
	IncludeCancelled bool   `json:"includeCancelled,omitempty"` // Включить отменённые бронирования
}

// GetBusinessBookingsRequest запрос на получение бронирований бизнеса
type GetBusinessBookingsRequest struct {
	BusinessID       int64      `json:"businessId"`
	ServiceID        *int64     `json:"serviceId,omitempty"` // Фильтр по услуге (опционально)
	StartDate        *time.Time `json:"startDate,omitempty"` // Начало периода (опционально)
	EndDate          *time.Time `json:"endDate,omitempty"`   // Конец периода (опционально)
	IncludeCancelled bool       `json:"includeCancelled,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBusinessBookingsRequest) ToDomainFilter() domain.BusinessBookingsFilter {
	return domain.BusinessBookingsFilter{
		BusinessID:       r.BusinessID,
		ServiceID:        r.ServiceID,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		IncludeCancelled: r.IncludeCancelled,
	}
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         int64  `json:"id"`
	Reference  string `json:"reference"`
	BusinessID int64  `json:"businessId"`
	ServiceID  int64  `json:"serviceId"`
	UserID     int64  `json:"userId"`
	Date       string `json:"date"`      // "2026-04-15"
	StartTime  string `json:"startTime"` // "10:00"
	EndTime    string `json:"endTime"`   // "10:30"
	GroupCount int    `json:"groupCount"`
	Status     string `json:"status"`

	Notes              *string `json:"notes,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		Reference:          b.Reference,
		BusinessID:         b.BusinessID,
		ServiceID:          b.ServiceID,
		UserID:             b.UserID,
		Date:               b.Date.Format(domain.DateFormat),
		StartTime:          string(b.StartTime),
		EndTime:            string(b.EndTime),
		GroupCount:         b.EffectiveGroupCount(),
		Status:             string(b.Status),
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	// Конвертируем время отмены в строку ISO 8601
	if b.DeletedAt != nil {
		cancelledStr := b.DeletedAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}
