package schedule_test

import (
	"testing"
	"time"

	"github.com/tidyops/cleanops_backend/internal/utils/schedule"
	"github.com/stretchr/testify/assert"
)

func TestParseDurationMinutes(t *testing.T) {
	testCases := []struct {
		input    string
		expected int
	}{
		{"2h", 120},
		{"1h", 60},
		{"45m", 45},
		{"1h30m", 90},
		{"10h15m", 615},
		{"0h", schedule.DefaultDurationMinutes},
		{"0m", schedule.DefaultDurationMinutes},
		{"0h0m", schedule.DefaultDurationMinutes},
		{"", schedule.DefaultDurationMinutes},
		{"abc", schedule.DefaultDurationMinutes},
		{"2", schedule.DefaultDurationMinutes},
		{"h30", schedule.DefaultDurationMinutes},
		{"1.5h", schedule.DefaultDurationMinutes},
		{"30m1h", schedule.DefaultDurationMinutes},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, schedule.ParseDurationMinutes(tc.input))
		})
	}
}

func TestOverlaps(t *testing.T) {
	// 09:00-11:00 vs 10:00-11:00 overlap
	assert.True(t, schedule.Overlaps(540, 660, 600, 660))
	// back-to-back is not an overlap
	assert.False(t, schedule.Overlaps(540, 660, 660, 720))
	assert.False(t, schedule.Overlaps(660, 720, 540, 660))
	// containment
	assert.True(t, schedule.Overlaps(540, 720, 600, 630))
	// identical
	assert.True(t, schedule.Overlaps(540, 660, 540, 660))
	// disjoint
	assert.False(t, schedule.Overlaps(540, 600, 720, 780))
}

func TestSplitAcrossMidnight(t *testing.T) {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("within a single day", func(t *testing.T) {
		segs := schedule.SplitAcrossMidnight(date, 9*60, 120)
		assert.Len(t, segs, 1)
		assert.Equal(t, date, segs[0].Date)
		assert.Equal(t, 540, segs[0].StartMinute)
		assert.Equal(t, 660, segs[0].EndMinute)
	})

	t.Run("crossing midnight", func(t *testing.T) {
		// 23:00 + 3h -> 23:00-24:00 and 00:00-02:00 next day
		segs := schedule.SplitAcrossMidnight(date, 23*60, 180)
		assert.Len(t, segs, 2)
		assert.Equal(t, 1380, segs[0].StartMinute)
		assert.Equal(t, 1440, segs[0].EndMinute)
		assert.Equal(t, date.AddDate(0, 0, 1), segs[1].Date)
		assert.Equal(t, 0, segs[1].StartMinute)
		assert.Equal(t, 120, segs[1].EndMinute)
	})

	t.Run("ending exactly at midnight stays one segment", func(t *testing.T) {
		segs := schedule.SplitAcrossMidnight(date, 22*60, 120)
		assert.Len(t, segs, 1)
		assert.Equal(t, 1440, segs[0].EndMinute)
	})
}

func TestParseStartTime(t *testing.T) {
	m, ok := schedule.ParseStartTime("09:30")
	assert.True(t, ok)
	assert.Equal(t, 570, m)

	_, ok = schedule.ParseStartTime("25:00")
	assert.False(t, ok)

	_, ok = schedule.ParseStartTime("nine")
	assert.False(t, ok)
}

func TestFormatMinute(t *testing.T) {
	assert.Equal(t, "09:30", schedule.FormatMinute(570))
	assert.Equal(t, "00:00", schedule.FormatMinute(0))
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	b := time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)
	c := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	assert.True(t, schedule.SameDay(a, b))
	assert.False(t, schedule.SameDay(a, c))
}
