package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akosarev/ABS-SlotService/internal/domain"
	serviceRepo "github.com/akosarev/ABS-SlotService/internal/infra/storage/service"
	"github.com/akosarev/ABS-SlotService/pkg/types"
)

type fakeServiceRepo struct {
	service *domain.Service
	err     error
}

func (f *fakeServiceRepo) GetByID(_ context.Context, _, _ int64) (*domain.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.service, nil
}

type fakeScheduleRepo struct {
	windows    []*domain.AvailabilityWindow
	exceptions []*domain.AvailabilityException

	windowsCalled bool
}

func (f *fakeScheduleRepo) GetWindowsByWeekday(_ context.Context, _ int64, _ int) ([]*domain.AvailabilityWindow, error) {
	f.windowsCalled = true
	return f.windows, nil
}

func (f *fakeScheduleRepo) GetExceptionsByDate(_ context.Context, _ int64, _ time.Time) ([]*domain.AvailabilityException, error) {
	return f.exceptions, nil
}

type fakeBookingRepo struct {
	bookings  []*domain.Booking
	userCount int
}

func (f *fakeBookingRepo) GetForDay(_ context.Context, _ domain.DayBookingsFilter) ([]*domain.Booking, error) {
	return f.bookings, nil
}

func (f *fakeBookingRepo) CountActiveByUserAndDate(_ context.Context, _, _ int64, _ time.Time) (int, error) {
	return f.userCount, nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func activeService() *domain.Service {
	return &domain.Service{
		ID:              10,
		BusinessID:      1,
		Name:            "Haircut",
		DurationMinutes: 30,
		BufferMinutes:   0,
		Active:          true,
	}
}

// Запрос на среду 2026-04-15, "сейчас" - утро 14-го
func newTestUseCase(services *fakeServiceRepo, schedules *fakeScheduleRepo, bookings *fakeBookingRepo) *UseCase {
	uc := NewUseCase(services, schedules, bookings, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2026, 4, 14, 8, 0, 0, 0, time.UTC)}
	return uc
}

func defaultRequest() *Request {
	return &Request{
		BusinessID:         1,
		ServiceID:          10,
		Date:               time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC),
		GranularityMinutes: 30,
	}
}

func TestUseCase_Execute_Success(t *testing.T) {
	schedules := &fakeScheduleRepo{
		windows: []*domain.AvailabilityWindow{
			{Weekday: 3, StartTime: "09:00", EndTime: "10:00"},
		},
	}
	uc := newTestUseCase(&fakeServiceRepo{service: activeService()}, schedules, &fakeBookingRepo{})

	resp, err := uc.Execute(context.Background(), defaultRequest())
	require.NoError(t, err)

	assert.Equal(t, "UTC", resp.Timezone)
	assert.Equal(t, 30, resp.SlotDurationMinutes)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, []string{domain.LabelMorning}, resp.Labels)

	require.NotNil(t, resp.NextAvailableSlot)
	assert.Equal(t, types.TimeString("09:00"), resp.NextAvailableSlot.StartLocal)
}

func TestUseCase_Execute_ClosedDayReturnsEmptyList(t *testing.T) {
	schedules := &fakeScheduleRepo{
		exceptions: []*domain.AvailabilityException{
			{IsAvailable: false, Reason: strPtr("Renovation")},
		},
	}
	uc := newTestUseCase(&fakeServiceRepo{service: activeService()}, schedules, &fakeBookingRepo{})

	resp, err := uc.Execute(context.Background(), defaultRequest())
	require.NoError(t, err)

	assert.Empty(t, resp.Slots)
	assert.Nil(t, resp.NextAvailableSlot)
	require.Len(t, resp.AllDayEvents, 1)
	assert.Equal(t, "Renovation", *resp.AllDayEvents[0].Reason)
}

func TestUseCase_Execute_ExceptionSkipsRecurringLookup(t *testing.T) {
	schedules := &fakeScheduleRepo{
		windows: []*domain.AvailabilityWindow{
			{Weekday: 3, StartTime: "09:00", EndTime: "18:00"},
		},
		exceptions: []*domain.AvailabilityException{
			{StartTime: tsPtr("10:00"), EndTime: tsPtr("11:00"), IsAvailable: true},
		},
	}
	uc := newTestUseCase(&fakeServiceRepo{service: activeService()}, schedules, &fakeBookingRepo{})

	resp, err := uc.Execute(context.Background(), defaultRequest())
	require.NoError(t, err)

	// Недельное расписание на дату с исключением не запрашивается вовсе
	assert.False(t, schedules.windowsCalled)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, types.TimeString("10:00"), resp.Slots[0].StartLocal)
}

func TestUseCase_Execute_ServiceNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeServiceRepo{err: serviceRepo.ErrServiceNotFound}, &fakeScheduleRepo{}, &fakeBookingRepo{})

	_, err := uc.Execute(context.Background(), defaultRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestUseCase_Execute_InactiveServiceNotFound(t *testing.T) {
	svc := activeService()
	svc.Active = false
	uc := newTestUseCase(&fakeServiceRepo{service: svc}, &fakeScheduleRepo{}, &fakeBookingRepo{})

	_, err := uc.Execute(context.Background(), defaultRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestUseCase_Execute_InvalidTimezone(t *testing.T) {
	uc := newTestUseCase(&fakeServiceRepo{service: activeService()}, &fakeScheduleRepo{}, &fakeBookingRepo{})

	req := defaultRequest()
	req.Timezone = "Atlantis/Lost"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimezone)
}

func TestUseCase_Execute_DateTooSoon(t *testing.T) {
	uc := newTestUseCase(&fakeServiceRepo{service: activeService()}, &fakeScheduleRepo{}, &fakeBookingRepo{})

	req := defaultRequest()
	req.Date = time.Date(2026, 4, 13, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDateTooSoon)
}

func TestUseCase_Execute_DateTooFarInFuture(t *testing.T) {
	uc := newTestUseCase(&fakeServiceRepo{service: activeService()}, &fakeScheduleRepo{}, &fakeBookingRepo{})

	req := defaultRequest()
	req.Date = time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 120)
	req.MaxDaysInFuture = 30

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestUseCase_Execute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&fakeServiceRepo{service: activeService()}, &fakeScheduleRepo{}, &fakeBookingRepo{})

	req := defaultRequest()
	req.ServiceID = 0

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUseCase_Execute_UserDailyLimitReached(t *testing.T) {
	svc := activeService()
	svc.MaxBookingsPerUserPerDay = intPtr(2)

	schedules := &fakeScheduleRepo{
		windows: []*domain.AvailabilityWindow{
			{Weekday: 3, StartTime: "09:00", EndTime: "10:00"},
		},
	}
	bookings := &fakeBookingRepo{userCount: 2}
	uc := newTestUseCase(&fakeServiceRepo{service: svc}, schedules, bookings)

	req := defaultRequest()
	req.RequestingUserID = int64Ptr(42)

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)

	for _, slot := range resp.Slots {
		assert.False(t, slot.IsBookable)
		assert.Equal(t, reasonUserLimitReached, slot.Reason)
	}
	assert.Nil(t, resp.NextAvailableSlot)
}

func TestUseCase_Execute_AnonymousRequestIgnoresUserLimit(t *testing.T) {
	svc := activeService()
	svc.MaxBookingsPerUserPerDay = intPtr(1)

	schedules := &fakeScheduleRepo{
		windows: []*domain.AvailabilityWindow{
			{Weekday: 3, StartTime: "09:00", EndTime: "10:00"},
		},
	}
	uc := newTestUseCase(&fakeServiceRepo{service: svc}, schedules, &fakeBookingRepo{userCount: 5})

	resp, err := uc.Execute(context.Background(), defaultRequest())
	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)
	assert.True(t, resp.Slots[0].IsBookable)
}

func TestUseCase_Execute_BookingsMarkSlotsUnavailable(t *testing.T) {
	schedules := &fakeScheduleRepo{
		windows: []*domain.AvailabilityWindow{
			{Weekday: 3, StartTime: "09:00", EndTime: "10:00"},
		},
	}
	bookings := &fakeBookingRepo{
		bookings: []*domain.Booking{
			{StartTime: "09:00", EndTime: "09:30", GroupCount: 1},
		},
	}
	uc := newTestUseCase(&fakeServiceRepo{service: activeService()}, schedules, bookings)

	resp, err := uc.Execute(context.Background(), defaultRequest())
	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)

	assert.False(t, resp.Slots[0].IsBookable)
	assert.True(t, resp.Slots[1].IsBookable)

	require.NotNil(t, resp.NextAvailableSlot)
	assert.Equal(t, types.TimeString("09:30"), resp.NextAvailableSlot.StartLocal)
}
