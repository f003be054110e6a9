package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akosarev/ABS-SlotService/pkg/types"
)

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = LoadLocation("Europe/Moscow")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())

	_, err = LoadLocation("Mars/Olympus")
	assert.Error(t, err)
}

func TestISOWeekday(t *testing.T) {
	// 2026-04-13 понедельник, 2026-04-19 воскресенье
	monday := time.Date(2026, 4, 13, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 4, 19, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, ISOWeekday(monday))
	assert.Equal(t, 3, ISOWeekday(monday.AddDate(0, 0, 2)))
	assert.Equal(t, 7, ISOWeekday(sunday))
}

func TestOverlapsMinutes(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		want                       bool
	}{
		{name: "disjoint", aStart: 540, aEnd: 570, bStart: 600, bEnd: 630, want: false},
		{name: "touching borders do not overlap", aStart: 540, aEnd: 570, bStart: 570, bEnd: 600, want: false},
		{name: "partial overlap", aStart: 540, aEnd: 580, bStart: 570, bEnd: 600, want: true},
		{name: "containment", aStart: 540, aEnd: 660, bStart: 570, bEnd: 600, want: true},
		{name: "identical", aStart: 540, aEnd: 570, bStart: 540, bEnd: 570, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OverlapsMinutes(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
		})
	}
}

func TestDayStart(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	// 22:30 UTC уже следующий день по Москве (UTC+3)
	utc := time.Date(2026, 4, 15, 22, 30, 0, 0, time.UTC)
	start := DayStart(utc, loc)

	assert.Equal(t, time.Date(2026, 4, 16, 0, 0, 0, 0, loc), start)
}

func TestAtTime(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	date := time.Date(2026, 4, 15, 0, 0, 0, 0, loc)
	at, err := AtTime(date, types.TimeString("09:30"), loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 4, 15, 9, 30, 0, 0, loc), at)

	_, err = AtTime(date, types.TimeString("bad"), loc)
	assert.Error(t, err)
}

func TestAtTime_DSTSpringForward(t *testing.T) {
	// 2026-03-08 в Нью-Йорке часы переводятся с 02:00 на 03:00.
	// Настенное время 02:30 не существует, time.Date нормализует его в 03:30 EDT.
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	date := time.Date(2026, 3, 8, 0, 0, 0, 0, loc)

	at, err := AtTime(date, types.TimeString("02:30"), loc)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-08T03:30:00-04:00", at.Format(time.RFC3339))

	// Граница пропуска: "02:00" сдвигается в 03:00 EDT, а не совпадает
	// по абсолютному времени с 01:00 EST
	atGapStart, err := AtTime(date, types.TimeString("02:00"), loc)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-08T03:00:00-04:00", atGapStart.Format(time.RFC3339))

	// Настенные времена до и после перехода отображаются без сдвига
	before, err := AtTime(date, types.TimeString("01:00"), loc)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-08T01:00:00-05:00", before.Format(time.RFC3339))

	// Слот 01:00-02:00 сохраняет полный час абсолютной длительности
	assert.Equal(t, 60*time.Minute, atGapStart.Sub(before))

	after, err := AtTime(date, types.TimeString("04:00"), loc)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-08T04:00:00-04:00", after.Format(time.RFC3339))
}

func TestMinutesBetween(t *testing.T) {
	a := time.Date(2026, 4, 15, 9, 0, 0, 0, time.UTC)
	b := time.Date(2026, 4, 15, 10, 30, 0, 0, time.UTC)

	assert.Equal(t, 90, MinutesBetween(a, b))
	assert.Equal(t, -90, MinutesBetween(b, a))
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	b := time.Date(2026, 4, 15, 23, 59, 0, 0, time.UTC)
	c := time.Date(2026, 4, 16, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(a, c))
}
