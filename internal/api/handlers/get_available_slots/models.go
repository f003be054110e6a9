package get_available_slots

import (
	"time"

	"github.com/akosarev/ABS-SlotService/internal/domain"
	getAvailableSlots "github.com/akosarev/ABS-SlotService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date                string          `json:"date"`
	BusinessID          int64           `json:"businessId"`
	ServiceID           int64           `json:"serviceId"`
	Timezone            string          `json:"timezone"`
	SlotDurationMinutes int             `json:"slotDurationMinutes"`
	BufferMinutes       int             `json:"bufferMinutes"`
	Slots               []AvailableSlot `json:"slots"`
	AllDayEvents        []AllDayEvent   `json:"allDayEvents,omitempty"`
	Labels              []string        `json:"labels,omitempty"`
	NextAvailableSlot   *AvailableSlot  `json:"nextAvailableSlot,omitempty"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime   string `json:"startTime"` // "09:00" в таймзоне бизнеса
	EndTime     string `json:"endTime"`   // "09:30"
	StartUTC    string `json:"startUtc"`  // ISO 8601
	EndUTC      string `json:"endUtc"`    // ISO 8601
	IsBookable  bool   `json:"isBookable"`
	Reason      string `json:"reason,omitempty"` // Причина недоступности
	BookedCount int    `json:"bookedCount"`
	Label       string `json:"label"`
}

// AllDayEvent модель закрытия всего дня
type AllDayEvent struct {
	Date   string  `json:"date"`
	Reason *string `json:"reason,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(businessID, serviceID int64, resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i := range resp.Slots {
		slots[i] = fromUseCaseSlot(&resp.Slots[i])
	}

	events := make([]AllDayEvent, len(resp.AllDayEvents))
	for i, event := range resp.AllDayEvents {
		events[i] = AllDayEvent{
			Date:   event.Date.Format(domain.DateFormat),
			Reason: event.Reason,
		}
	}

	result := &AvailableSlotsResponse{
		Date:                resp.Date.Format(domain.DateFormat),
		BusinessID:          businessID,
		ServiceID:           serviceID,
		Timezone:            resp.Timezone,
		SlotDurationMinutes: resp.SlotDurationMinutes,
		BufferMinutes:       resp.BufferMinutes,
		Slots:               slots,
		AllDayEvents:        events,
		Labels:              resp.Labels,
	}

	if resp.NextAvailableSlot != nil {
		next := fromUseCaseSlot(resp.NextAvailableSlot)
		result.NextAvailableSlot = &next
	}

	return result
}

func fromUseCaseSlot(slot *getAvailableSlots.Slot) AvailableSlot {
	return AvailableSlot{
		StartTime:   string(slot.StartLocal),
		EndTime:     string(slot.EndLocal),
		StartUTC:    slot.StartUTC.Format(time.RFC3339),
		EndUTC:      slot.EndUTC.Format(time.RFC3339),
		IsBookable:  slot.IsBookable,
		Reason:      slot.Reason,
		BookedCount: slot.BookedCount,
		Label:       slot.Label,
	}
}
