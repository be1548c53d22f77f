package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDayKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Valid key", "2024-06-05", false},
		{"Leap day", "2024-02-29", false},
		{"Empty string", "", true},
		{"Non-canonical month", "2024-6-05", true},
		{"Missing zero padding", "2024-06-5", true},
		{"Impossible date", "2023-02-29", true},
		{"Timestamp instead of day", "2024-06-05T10:00:00Z", true},
		{"Garbage", "not-a-date", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ParseDayKey(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDayKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DayKey(tt.input), key)
		})
	}
}

func TestDayKeyArithmetic(t *testing.T) {
	t.Run("Diff is positive when receiver is later", func(t *testing.T) {
		assert.Equal(t, 4, DayKey("2024-06-05").Diff(DayKey("2024-06-01")))
		assert.Equal(t, -4, DayKey("2024-06-01").Diff(DayKey("2024-06-05")))
		assert.Equal(t, 0, DayKey("2024-06-05").Diff(DayKey("2024-06-05")))
	})

	t.Run("Diff is exact across a DST transition", func(t *testing.T) {
		// US clocks spring forward on 2024-03-10.
		assert.Equal(t, 2, DayKey("2024-03-11").Diff(DayKey("2024-03-09")))
	})

	t.Run("Diff spans a year boundary", func(t *testing.T) {
		assert.Equal(t, 1, DayKey("2025-01-01").Diff(DayKey("2024-12-31")))
	})

	t.Run("AddDays crosses month boundaries", func(t *testing.T) {
		assert.Equal(t, DayKey("2024-07-01"), DayKey("2024-06-30").AddDays(1))
		assert.Equal(t, DayKey("2024-02-29"), DayKey("2024-03-01").AddDays(-1))
	})

	t.Run("Before follows calendar order", func(t *testing.T) {
		assert.True(t, DayKey("2024-06-01").Before(DayKey("2024-06-02")))
		assert.False(t, DayKey("2024-06-02").Before(DayKey("2024-06-02")))
	})

	t.Run("Weekday resolves", func(t *testing.T) {
		assert.Equal(t, time.Wednesday, DayKey("2024-06-05").Weekday())
	})
}

func TestTodayAndDaysAgo(t *testing.T) {
	assert.Equal(t, Today(), DaysAgo(0))

	yesterday := DaysAgo(1)
	assert.Equal(t, 1, Today().Diff(yesterday))
}

func TestResolveDateForWeekday(t *testing.T) {
	// 2024-06-05 is a Wednesday.
	wednesday := time.Date(2024, 6, 5, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		weekday   int
		weekStart int
		want      DayKey
	}{
		{"Monday with Monday start", 1, WeekStartMonday, "2024-06-03"},
		{"Sunday with Monday start lands at week end", 0, WeekStartMonday, "2024-06-09"},
		{"Sunday with Sunday start lands at week start", 0, WeekStartSunday, "2024-06-02"},
		{"Same day resolves to itself", 3, WeekStartSunday, "2024-06-05"},
		{"Saturday with Sunday start", 6, WeekStartSunday, "2024-06-08"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveDateForWeekday(tt.weekday, tt.weekStart, wednesday)
			assert.Equal(t, tt.want, got)
		})
	}
}
