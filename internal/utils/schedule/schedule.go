// Package schedule holds the pure time-grid arithmetic used by the scheduling
// engine: duration string parsing, interval overlap and the read-time projection
// of midnight-crossing jobs onto calendar days.
package schedule

import (
	"regexp"
	"strconv"
	"time"
)

// DefaultDurationMinutes is used when a duration string cannot be parsed or
// yields zero.
const DefaultDurationMinutes = 120

const minutesPerDay = 24 * 60

var durationPattern = regexp.MustCompile(`^(?:(\d+)h)?(?:(\d+)m)?$`)

// ParseDurationMinutes parses duration strings of the form "<n>h", "<n>m" or
// "<n>h<n>m" into a minute count. Anything unparseable or zero-yielding comes
// back as DefaultDurationMinutes.
func ParseDurationMinutes(s string) int {
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return DefaultDurationMinutes
	}
	total := 0
	if m[1] != "" {
		hours, err := strconv.Atoi(m[1])
		if err != nil {
			return DefaultDurationMinutes
		}
		total += hours * 60
	}
	if m[2] != "" {
		mins, err := strconv.Atoi(m[2])
		if err != nil {
			return DefaultDurationMinutes
		}
		total += mins
	}
	if total <= 0 {
		return DefaultDurationMinutes
	}
	return total
}

// Overlaps reports whether the half-open minute intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Back-to-back intervals (aEnd == bStart) do not.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// Segment is one calendar-day slice of a job for display.
type Segment struct {
	Date        time.Time // midnight of the day the segment renders on
	StartMinute int       // minutes from midnight, inclusive
	EndMinute   int       // minutes from midnight, exclusive, <= 1440
}

// SplitAcrossMidnight projects a job interval onto calendar days. A job whose
// start plus duration extends past 24:00 renders as two segments: the
// originating day up to 24:00 and a continuation from 00:00 on the next day.
// This is a display projection only; the stored row stays single and
// authoritative.
func SplitAcrossMidnight(date time.Time, startMinute, durationMinutes int) []Segment {
	end := startMinute + durationMinutes
	if end <= minutesPerDay {
		return []Segment{{Date: date, StartMinute: startMinute, EndMinute: end}}
	}
	segments := []Segment{{Date: date, StartMinute: startMinute, EndMinute: minutesPerDay}}
	overflow := end - minutesPerDay
	day := date.AddDate(0, 0, 1)
	for overflow > minutesPerDay {
		segments = append(segments, Segment{Date: day, StartMinute: 0, EndMinute: minutesPerDay})
		overflow -= minutesPerDay
		day = day.AddDate(0, 0, 1)
	}
	segments = append(segments, Segment{Date: day, StartMinute: 0, EndMinute: overflow})
	return segments
}

// ParseStartTime converts an "HH:MM" clock string to minutes from midnight.
func ParseStartTime(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// FormatMinute renders minutes-from-midnight back to "HH:MM".
func FormatMinute(m int) string {
	return time.Date(0, 1, 1, 0, m, 0, 0, time.UTC).Format("15:04")
}

// SameDay reports whether two timestamps fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
