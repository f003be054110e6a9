package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akosarev/ABS-SlotService/internal/domain"
	bookingRepo "github.com/akosarev/ABS-SlotService/internal/infra/storage/booking"
	serviceRepo "github.com/akosarev/ABS-SlotService/internal/infra/storage/service"
	"github.com/akosarev/ABS-SlotService/internal/integrations/notifier"
	"github.com/akosarev/ABS-SlotService/pkg/types"
)

func intPtr(v int) *int { return &v }

type fakeBookingRepo struct {
	exists      bool
	dayBookings []*domain.Booking
	userCount   int
	createErr   error

	created *domain.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	stored := *booking
	stored.ID = 100
	stored.CreatedAt = time.Date(2026, 4, 14, 8, 0, 0, 0, time.UTC)
	stored.UpdatedAt = stored.CreatedAt
	f.created = &stored
	return &stored, nil
}

func (f *fakeBookingRepo) GetForDay(_ context.Context, _ domain.DayBookingsFilter) ([]*domain.Booking, error) {
	return f.dayBookings, nil
}

func (f *fakeBookingRepo) CountActiveByUserAndDate(_ context.Context, _, _ int64, _ time.Time) (int, error) {
	return f.userCount, nil
}

func (f *fakeBookingRepo) ExistsExact(_ context.Context, _, _ int64, _ time.Time, _ types.TimeString) (bool, error) {
	return f.exists, nil
}

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

type inlineTxManager struct{}

func (inlineTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeNotifier struct {
	event *notifier.BookingEvent
	err   error
}

func (f *fakeNotifier) BookingConfirmed(_ context.Context, event *notifier.BookingEvent) error {
	f.event = event
	return f.err
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

func newTestUseCase(bookings *fakeBookingRepo, services *fakeServiceRepo, notif *fakeNotifier) *UseCase {
	var client NotifierClient
	if notif != nil {
		client = notif
	}
	uc := NewUseCase(bookings, services, client, inlineTxManager{}, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2026, 4, 14, 8, 0, 0, 0, time.UTC)}
	return uc
}

func defaultRequest() *Request {
	return &Request{
		BusinessID: 1,
		ServiceID:  10,
		UserID:     42,
		Date:       time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC),
		StartTime:  "09:00",
	}
}

func TestUseCase_Execute_Success(t *testing.T) {
	bookings := &fakeBookingRepo{}
	notif := &fakeNotifier{}
	uc := newTestUseCase(bookings, &fakeServiceRepo{service: activeService()}, notif)

	resp, err := uc.Execute(context.Background(), defaultRequest())
	require.NoError(t, err)
	require.NotNil(t, resp.Booking)

	booking := resp.Booking
	assert.Equal(t, int64(100), booking.ID)
	assert.NotEmpty(t, booking.Reference)
	assert.Equal(t, types.TimeString("09:00"), booking.StartTime)
	// Окончание вычислено из длительности услуги
	assert.Equal(t, types.TimeString("09:30"), booking.EndTime)
	assert.Equal(t, 1, booking.GroupCount)
	assert.Equal(t, domain.StatusConfirmed, booking.Status)

	// Уведомление отправлено с данными созданного бронирования
	require.NotNil(t, notif.event)
	assert.Equal(t, booking.Reference, notif.event.Reference)
	assert.Equal(t, "Haircut", notif.event.ServiceName)
	assert.Equal(t, "2026-04-15", notif.event.Date)
}

func TestUseCase_Execute_ExplicitEndTime(t *testing.T) {
	bookings := &fakeBookingRepo{}
	uc := newTestUseCase(bookings, &fakeServiceRepo{service: activeService()}, nil)

	req := defaultRequest()
	req.EndTime = "10:00"

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("10:00"), resp.Booking.EndTime)
}

func TestUseCase_Execute_InvalidTimeRange(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeServiceRepo{service: activeService()}, nil)

	req := defaultRequest()
	req.EndTime = "09:00"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestUseCase_Execute_DateInPast(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeServiceRepo{service: activeService()}, nil)

	req := defaultRequest()
	req.Date = time.Date(2026, 4, 13, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDateInPast)
}

func TestUseCase_Execute_SameDayIsNotPast(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeServiceRepo{service: activeService()}, nil)

	req := defaultRequest()
	req.Date = time.Date(2026, 4, 14, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
}

func TestUseCase_Execute_ServiceNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeServiceRepo{err: serviceRepo.ErrServiceNotFound}, nil)

	_, err := uc.Execute(context.Background(), defaultRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestUseCase_Execute_InactiveService(t *testing.T) {
	svc := activeService()
	svc.Active = false
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeServiceRepo{service: svc}, nil)

	_, err := uc.Execute(context.Background(), defaultRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestUseCase_Execute_ExactDuplicate(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{exists: true}, &fakeServiceRepo{service: activeService()}, nil)

	_, err := uc.Execute(context.Background(), defaultRequest())
	assert.ErrorIs(t, err, ErrDuplicateBooking)
}

func TestUseCase_Execute_SlotTakenExclusiveService(t *testing.T) {
	bookings := &fakeBookingRepo{
		dayBookings: []*domain.Booking{
			{UserID: 7, StartTime: "09:00", EndTime: "09:30", GroupCount: 1},
		},
	}
	uc := newTestUseCase(bookings, &fakeServiceRepo{service: activeService()}, nil)

	_, err := uc.Execute(context.Background(), defaultRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestUseCase_Execute_AdjacentBookingDoesNotConflict(t *testing.T) {
	bookings := &fakeBookingRepo{
		dayBookings: []*domain.Booking{
			{UserID: 7, StartTime: "09:30", EndTime: "10:00", GroupCount: 1},
		},
	}
	uc := newTestUseCase(bookings, &fakeServiceRepo{service: activeService()}, nil)

	_, err := uc.Execute(context.Background(), defaultRequest())
	require.NoError(t, err)
}

func TestUseCase_Execute_BufferMakesAdjacentConflict(t *testing.T) {
	svc := activeService()
	svc.BufferMinutes = 15

	bookings := &fakeBookingRepo{
		dayBookings: []*domain.Booking{
			{UserID: 7, StartTime: "09:30", EndTime: "10:00", GroupCount: 1},
		},
	}
	uc := newTestUseCase(bookings, &fakeServiceRepo{service: svc}, nil)

	_, err := uc.Execute(context.Background(), defaultRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestUseCase_Execute_GroupServiceCapacity(t *testing.T) {
	svc := activeService()
	svc.GroupSize = intPtr(3)

	bookings := &fakeBookingRepo{
		dayBookings: []*domain.Booking{
			{UserID: 7, StartTime: "09:00", EndTime: "09:30", GroupCount: 2},
		},
	}

	// Одно место ещё свободно
	uc := newTestUseCase(bookings, &fakeServiceRepo{service: svc}, nil)
	resp, err := uc.Execute(context.Background(), defaultRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Booking.GroupCount)

	// На два места запрос уже не помещается
	req := defaultRequest()
	req.GroupCount = 2
	uc = newTestUseCase(bookings, &fakeServiceRepo{service: svc}, nil)
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestUseCase_Execute_CancelledBookingFreesSlot(t *testing.T) {
	deleted := time.Date(2026, 4, 13, 12, 0, 0, 0, time.UTC)
	bookings := &fakeBookingRepo{
		dayBookings: []*domain.Booking{
			{UserID: 7, StartTime: "09:00", EndTime: "09:30", GroupCount: 1, DeletedAt: &deleted},
		},
	}
	uc := newTestUseCase(bookings, &fakeServiceRepo{service: activeService()}, nil)

	_, err := uc.Execute(context.Background(), defaultRequest())
	require.NoError(t, err)
}

func TestUseCase_Execute_UserDailyLimitReached(t *testing.T) {
	svc := activeService()
	svc.MaxBookingsPerUserPerDay = intPtr(2)

	uc := newTestUseCase(&fakeBookingRepo{userCount: 2}, &fakeServiceRepo{service: svc}, nil)

	_, err := uc.Execute(context.Background(), defaultRequest())
	assert.ErrorIs(t, err, ErrUserLimitReached)
}

func TestUseCase_Execute_UniqueIndexRace(t *testing.T) {
	bookings := &fakeBookingRepo{createErr: bookingRepo.ErrDuplicateBooking}
	uc := newTestUseCase(bookings, &fakeServiceRepo{service: activeService()}, nil)

	_, err := uc.Execute(context.Background(), defaultRequest())
	assert.ErrorIs(t, err, ErrDuplicateBooking)
}

func TestUseCase_Execute_NotificationFailureIsNotFatal(t *testing.T) {
	notif := &fakeNotifier{err: notifier.ErrServiceDegraded}
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeServiceRepo{service: activeService()}, notif)

	resp, err := uc.Execute(context.Background(), defaultRequest())
	require.NoError(t, err)
	assert.NotNil(t, resp.Booking)
}

func TestUseCase_Execute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{name: "missing user", mutate: func(req *Request) { req.UserID = 0 }},
		{name: "missing business", mutate: func(req *Request) { req.BusinessID = 0 }},
		{name: "missing date", mutate: func(req *Request) { req.Date = time.Time{} }},
		{name: "missing start time", mutate: func(req *Request) { req.StartTime = "" }},
		{name: "malformed start time", mutate: func(req *Request) { req.StartTime = "9am" }},
		{name: "negative group count", mutate: func(req *Request) { req.GroupCount = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestUseCase(&fakeBookingRepo{}, &fakeServiceRepo{service: activeService()}, nil)

			req := defaultRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
