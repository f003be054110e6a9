package get_available_slots

import (
	"fmt"
	"time"

	"github.com/akosarev/ABS-SlotService/internal/domain"
	"github.com/akosarev/ABS-SlotService/pkg/timeutil"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID is required", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.GranularityMinutes > 0 &&
		(req.GranularityMinutes < domain.MinGranularityMinutes || req.GranularityMinutes > domain.MaxGranularityMinutes) {
		return fmt.Errorf("%w: granularity must be between %d and %d minutes",
			ErrInvalidInput, domain.MinGranularityMinutes, domain.MaxGranularityMinutes)
	}

	return nil
}

// validateDateWindow проверяет, что дата попадает в окно бронирования
//
// Проверка минимального окна ведётся по началу дня: дата отклоняется как
// слишком ранняя, только если весь её день раньше дня момента now+minAdvance.
// Отсечка отдельных слотов внутри дня выполняется при обходе окон.
func validateDateWindow(date, now time.Time, loc *time.Location, minAdvanceMinutes, maxDaysInFuture int) error {
	requestedDay := timeutil.DayStart(date, loc)

	earliestAllowed := timeutil.DayStart(timeutil.AddMinutes(now.In(loc), minAdvanceMinutes), loc)
	if requestedDay.Before(earliestAllowed) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrDateTooSoon, minAdvanceMinutes)
	}

	latestAllowed := timeutil.DayStart(now.In(loc), loc).AddDate(0, 0, maxDaysInFuture)
	if requestedDay.After(latestAllowed) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, maxDaysInFuture)
	}

	return nil
}
