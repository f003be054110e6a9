package create_booking

import (
	"fmt"

	"github.com/akosarev/ABS-SlotService/internal/domain"
	"github.com/akosarev/ABS-SlotService/pkg/timeutil"
)

// validateRequest проверяет обязательные поля запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}

	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: business_id must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: service_id must be positive", ErrInvalidInput)
	}

	if req.UserID <= 0 {
		return fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: start_time is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start_time: %v", ErrInvalidInput, err)
	}

	if !req.EndTime.IsZero() {
		if err := req.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: end_time: %v", ErrInvalidInput, err)
		}
	}

	if req.GroupCount < 0 {
		return fmt.Errorf("%w: group_count must not be negative", ErrInvalidInput)
	}

	return nil
}

// countOverlappingGroup суммирует занятые места всех бронирований,
// пересекающих слот [slotStart, slotEnd+buffer) в минутах от полуночи.
// Интервалы бронирований уже расширены буфером с обеих сторон.
func countOverlappingGroup(slotStart, slotEnd, bufferMinutes int, bookings []*domain.Booking) (int, error) {
	probeEnd := slotEnd + bufferMinutes

	total := 0
	for _, booking := range bookings {
		if !booking.CountsTowardCapacity() {
			continue
		}

		busyStart, err := booking.StartTime.Minutes()
		if err != nil {
			return 0, err
		}
		busyEnd, err := booking.EndTime.Minutes()
		if err != nil {
			return 0, err
		}

		busyStart -= bufferMinutes
		busyEnd += bufferMinutes

		if timeutil.OverlapsMinutes(slotStart, probeEnd, busyStart, busyEnd) {
			total += booking.EffectiveGroupCount()
		}
	}

	return total, nil
}
