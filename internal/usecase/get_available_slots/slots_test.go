package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akosarev/ABS-SlotService/internal/domain"
	"github.com/akosarev/ABS-SlotService/pkg/types"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func int64Ptr(v int64) *int64 { return &v }
func tsPtr(v string) *types.TimeString {
	ts := types.TimeString(v)
	return &ts
}

// testDay среда 2026-04-15 в UTC
func testDay(t *testing.T) (time.Time, *time.Location) {
	t.Helper()
	return time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC), time.UTC
}

func TestGenerateSlots_BasicWindow(t *testing.T) {
	date, loc := testDay(t)

	day := dayContext{
		date:               date,
		loc:                loc,
		durationMinutes:    30,
		bufferMinutes:      0,
		granularityMinutes: 30,
	}

	slots, err := generateSlots(day, []window{{start: 540, end: 600}}) // 09:00-10:00
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.Equal(t, types.TimeString("09:00"), slots[0].StartLocal)
	assert.Equal(t, types.TimeString("09:30"), slots[0].EndLocal)
	assert.Equal(t, types.TimeString("09:30"), slots[1].StartLocal)
	assert.Equal(t, types.TimeString("10:00"), slots[1].EndLocal)

	for _, slot := range slots {
		assert.True(t, slot.IsBookable)
		assert.Empty(t, slot.Reason)
		assert.Zero(t, slot.BookedCount)
		assert.Equal(t, domain.LabelMorning, slot.Label)
	}
}

func TestGenerateSlots_GranularityFinerThanDuration(t *testing.T) {
	date, loc := testDay(t)

	day := dayContext{
		date:               date,
		loc:                loc,
		durationMinutes:    30,
		bufferMinutes:      0,
		granularityMinutes: 15,
	}

	// Шаг 15 минут при длительности 30 даёт перекрывающихся кандидатов
	slots, err := generateSlots(day, []window{{start: 540, end: 600}})
	require.NoError(t, err)
	require.Len(t, slots, 3)

	assert.Equal(t, types.TimeString("09:00"), slots[0].StartLocal)
	assert.Equal(t, types.TimeString("09:15"), slots[1].StartLocal)
	assert.Equal(t, types.TimeString("09:30"), slots[2].StartLocal)
}

func TestGenerateSlots_BufferShrinksWindow(t *testing.T) {
	date, loc := testDay(t)

	day := dayContext{
		date:               date,
		loc:                loc,
		durationMinutes:    30,
		bufferMinutes:      10,
		granularityMinutes: 30,
	}

	// Слот 09:30-10:00 не помещается: буфер должен влезать в окно
	slots, err := generateSlots(day, []window{{start: 540, end: 600}})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, types.TimeString("09:00"), slots[0].StartLocal)
}

func TestGenerateSlots_ExclusiveServiceFullyBooked(t *testing.T) {
	date, loc := testDay(t)

	day := dayContext{
		date:               date,
		loc:                loc,
		durationMinutes:    30,
		bufferMinutes:      0,
		granularityMinutes: 30,
		busy:               []busyInterval{{start: 540, end: 570, groupCount: 1}},
	}

	slots, err := generateSlots(day, []window{{start: 540, end: 600}})
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.False(t, slots[0].IsBookable)
	assert.Equal(t, reasonFullyBooked, slots[0].Reason)
	assert.Equal(t, 1, slots[0].BookedCount)

	// Граничащее бронирование не задевает второй слот
	assert.True(t, slots[1].IsBookable)
	assert.Zero(t, slots[1].BookedCount)
}

func TestGenerateSlots_GroupServicePartiallyBooked(t *testing.T) {
	date, loc := testDay(t)

	day := dayContext{
		date:               date,
		loc:                loc,
		durationMinutes:    60,
		bufferMinutes:      0,
		granularityMinutes: 60,
		groupSize:          intPtr(3),
		busy:               []busyInterval{{start: 540, end: 600, groupCount: 2}},
	}

	slots, err := generateSlots(day, []window{{start: 540, end: 600}})
	require.NoError(t, err)
	require.Len(t, slots, 1)

	assert.True(t, slots[0].IsBookable)
	assert.Equal(t, 2, slots[0].BookedCount)
	assert.Equal(t, "Partially booked (2/3)", slots[0].Reason)
}

func TestGenerateSlots_GroupServiceFull(t *testing.T) {
	date, loc := testDay(t)

	day := dayContext{
		date:               date,
		loc:                loc,
		durationMinutes:    60,
		bufferMinutes:      0,
		granularityMinutes: 60,
		groupSize:          intPtr(3),
		busy: []busyInterval{
			{start: 540, end: 600, groupCount: 2},
			{start: 540, end: 600, groupCount: 1},
		},
	}

	slots, err := generateSlots(day, []window{{start: 540, end: 600}})
	require.NoError(t, err)
	require.Len(t, slots, 1)

	assert.False(t, slots[0].IsBookable)
	assert.Equal(t, 3, slots[0].BookedCount)
	assert.Equal(t, reasonFullyBooked, slots[0].Reason)
}

func TestGenerateSlots_BlackoutExcludesCandidates(t *testing.T) {
	date, loc := testDay(t)

	day := dayContext{
		date:               date,
		loc:                loc,
		durationMinutes:    30,
		bufferMinutes:      0,
		granularityMinutes: 30,
		blackouts:          []window{{start: 720, end: 780}}, // 12:00-13:00
	}

	slots, err := generateSlots(day, []window{{start: 690, end: 810}}) // 11:30-13:30
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.Equal(t, types.TimeString("11:30"), slots[0].StartLocal)
	assert.Equal(t, types.TimeString("13:00"), slots[1].StartLocal)
}

func TestGenerateSlots_AdvanceCutoffSkipsPastSlots(t *testing.T) {
	date, loc := testDay(t)

	day := dayContext{
		date:               date,
		loc:                loc,
		durationMinutes:    30,
		bufferMinutes:      0,
		granularityMinutes: 30,
		// Слоты, заканчивающиеся раньше 09:45, отсекаются
		advanceCutoff: time.Date(2026, 4, 15, 9, 45, 0, 0, loc),
	}

	slots, err := generateSlots(day, []window{{start: 540, end: 660}}) // 09:00-11:00
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, types.TimeString("09:30"), slots[0].StartLocal)
}

func TestGenerateSlots_UserLimitSuppressesBookableSlots(t *testing.T) {
	date, loc := testDay(t)

	day := dayContext{
		date:               date,
		loc:                loc,
		durationMinutes:    30,
		bufferMinutes:      0,
		granularityMinutes: 30,
		userLimitReached:   true,
		busy:               []busyInterval{{start: 540, end: 570, groupCount: 1}},
	}

	slots, err := generateSlots(day, []window{{start: 540, end: 600}})
	require.NoError(t, err)
	require.Len(t, slots, 2)

	// Занятый слот сохраняет исходную причину
	assert.False(t, slots[0].IsBookable)
	assert.Equal(t, reasonFullyBooked, slots[0].Reason)

	// Свободный слот гасится лимитом пользователя
	assert.False(t, slots[1].IsBookable)
	assert.Equal(t, reasonUserLimitReached, slots[1].Reason)
}

func TestGenerateSlots_Labels(t *testing.T) {
	date, loc := testDay(t)

	day := dayContext{
		date:               date,
		loc:                loc,
		durationMinutes:    60,
		bufferMinutes:      0,
		granularityMinutes: 240,
	}

	slots, err := generateSlots(day, []window{{start: 660, end: 1320}}) // 11:00-22:00
	require.NoError(t, err)
	require.Len(t, slots, 3)

	assert.Equal(t, domain.LabelMorning, slots[0].Label)   // 11:00
	assert.Equal(t, domain.LabelAfternoon, slots[1].Label) // 15:00
	assert.Equal(t, domain.LabelEvening, slots[2].Label)   // 19:00
}

func TestGenerateSlots_DSTSpringForwardKeepsWallClock(t *testing.T) {
	// 2026-03-08 в Нью-Йорке переход на летнее время: 02:00 -> 03:00.
	// Границы слотов в настенном времени не смещаются и не дублируются.
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	date := time.Date(2026, 3, 8, 0, 0, 0, 0, loc)

	day := dayContext{
		date:               date,
		loc:                loc,
		durationMinutes:    60,
		bufferMinutes:      0,
		granularityMinutes: 60,
	}

	slots, err := generateSlots(day, []window{{start: 60, end: 240}}) // 01:00-04:00
	require.NoError(t, err)
	require.Len(t, slots, 3)

	assert.Equal(t, types.TimeString("01:00"), slots[0].StartLocal)
	assert.Equal(t, types.TimeString("02:00"), slots[1].StartLocal)
	assert.Equal(t, types.TimeString("03:00"), slots[2].StartLocal)

	// 01:00 EST = 06:00 UTC; несуществующее 02:00 нормализуется в 03:00 EDT = 07:00 UTC
	assert.Equal(t, time.Date(2026, 3, 8, 6, 0, 0, 0, time.UTC), slots[0].StartUTC)
	assert.Equal(t, time.Date(2026, 3, 8, 7, 0, 0, 0, time.UTC), slots[1].StartUTC)
	assert.Equal(t, time.Date(2026, 3, 8, 7, 0, 0, 0, time.UTC), slots[2].StartUTC)

	// Слот, упирающийся в пропуск, сохраняет полный час абсолютной длительности
	assert.Equal(t, time.Hour, slots[0].EndUTC.Sub(slots[0].StartUTC))
}

func TestGenerateSlots_OverlappingWindowsKeepDuplicates(t *testing.T) {
	date, loc := testDay(t)

	day := dayContext{
		date:               date,
		loc:                loc,
		durationMinutes:    30,
		bufferMinutes:      0,
		granularityMinutes: 30,
	}

	slots, err := generateSlots(day, []window{
		{start: 540, end: 600},
		{start: 570, end: 630},
	})
	require.NoError(t, err)
	require.Len(t, slots, 4)

	// Кандидат 09:30 встречается в обоих окнах - дедупликация не выполняется
	assert.Equal(t, types.TimeString("09:30"), slots[1].StartLocal)
	assert.Equal(t, types.TimeString("09:30"), slots[2].StartLocal)
}

func TestResolveEffectiveWindows_RecurringOnly(t *testing.T) {
	date, _ := testDay(t)

	recurring := []*domain.AvailabilityWindow{
		{Weekday: 3, StartTime: "09:00", EndTime: "13:00"},
		{Weekday: 3, StartTime: "14:00", EndTime: "18:00"},
	}

	windows, events, err := resolveEffectiveWindows(date, recurring, nil)
	require.NoError(t, err)
	assert.Empty(t, events)
	require.Len(t, windows, 2)
	assert.Equal(t, window{start: 540, end: 780}, windows[0])
	assert.Equal(t, window{start: 840, end: 1080}, windows[1])
}

func TestResolveEffectiveWindows_ExceptionOverridesRecurring(t *testing.T) {
	date, _ := testDay(t)

	recurring := []*domain.AvailabilityWindow{
		{Weekday: 3, StartTime: "09:00", EndTime: "18:00"},
	}
	exceptions := []*domain.AvailabilityException{
		{Date: date, StartTime: tsPtr("10:00"), EndTime: tsPtr("12:00"), IsAvailable: true},
	}

	windows, events, err := resolveEffectiveWindows(date, recurring, exceptions)
	require.NoError(t, err)
	assert.Empty(t, events)
	require.Len(t, windows, 1)
	assert.Equal(t, window{start: 600, end: 720}, windows[0])
}

func TestResolveEffectiveWindows_AllDayClosure(t *testing.T) {
	date, _ := testDay(t)

	recurring := []*domain.AvailabilityWindow{
		{Weekday: 3, StartTime: "09:00", EndTime: "18:00"},
	}
	exceptions := []*domain.AvailabilityException{
		{Date: date, IsAvailable: false, Reason: strPtr("Public holiday")},
	}

	windows, events, err := resolveEffectiveWindows(date, recurring, exceptions)
	require.NoError(t, err)
	assert.Empty(t, windows)
	require.Len(t, events, 1)
	require.NotNil(t, events[0].Reason)
	assert.Equal(t, "Public holiday", *events[0].Reason)
}

func TestResolveEffectiveWindows_UnavailableWithTimesYieldsNothing(t *testing.T) {
	date, _ := testDay(t)

	exceptions := []*domain.AvailabilityException{
		{Date: date, StartTime: tsPtr("09:00"), EndTime: tsPtr("12:00"), IsAvailable: false},
	}

	windows, events, err := resolveEffectiveWindows(date, nil, exceptions)
	require.NoError(t, err)
	assert.Empty(t, windows)
	assert.Empty(t, events)
}

func TestBufferedBusy(t *testing.T) {
	deleted := time.Date(2026, 4, 14, 10, 0, 0, 0, time.UTC)

	bookings := []*domain.Booking{
		{StartTime: "09:00", EndTime: "09:30", GroupCount: 2},
		{StartTime: "10:00", EndTime: "10:30", GroupCount: 1, DeletedAt: &deleted},
		{StartTime: "11:00", EndTime: "11:30"}, // group_count не задан
	}

	busy, err := bufferedBusy(bookings, 15)
	require.NoError(t, err)
	require.Len(t, busy, 2)

	assert.Equal(t, busyInterval{start: 525, end: 585, groupCount: 2}, busy[0])
	assert.Equal(t, busyInterval{start: 645, end: 705, groupCount: 1}, busy[1])
}

func TestSlotEligibility(t *testing.T) {
	tests := []struct {
		name        string
		bookedCount int
		groupSize   *int
		wantOK      bool
		wantReason  string
	}{
		{name: "free slot", bookedCount: 0, wantOK: true},
		{name: "exclusive occupied", bookedCount: 1, wantOK: false, wantReason: reasonFullyBooked},
		{name: "group size one occupied", bookedCount: 1, groupSize: intPtr(1), wantOK: false, wantReason: reasonFullyBooked},
		{name: "group partially booked", bookedCount: 2, groupSize: intPtr(5), wantOK: true, wantReason: "Partially booked (2/5)"},
		{name: "group full", bookedCount: 5, groupSize: intPtr(5), wantOK: false, wantReason: reasonFullyBooked},
		{name: "group overbooked", bookedCount: 7, groupSize: intPtr(5), wantOK: false, wantReason: reasonFullyBooked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := slotEligibility(tt.bookedCount, tt.groupSize)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestCountOverlappingGroup(t *testing.T) {
	busy := []busyInterval{
		{start: 540, end: 570, groupCount: 2},
		{start: 570, end: 600, groupCount: 1},
	}

	// [09:00, 09:30) задевает только первый интервал
	assert.Equal(t, 2, countOverlappingGroup(540, 570, 0, busy))

	// Буфер расширяет зону проверки вправо до 09:45 и задевает второй
	assert.Equal(t, 3, countOverlappingGroup(540, 570, 15, busy))

	// [08:00, 08:30) не задевает ничего
	assert.Equal(t, 0, countOverlappingGroup(480, 510, 0, busy))
}
