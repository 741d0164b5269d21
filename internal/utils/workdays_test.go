package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsWorkday(t *testing.T) {
	calendar := NewWorkdayCalendar(
		[]string{"2026-08-19"}, // a Wednesday holiday
		[]string{"2026-08-22"}, // a Saturday make-up shift
		false,
	)

	assert.True(t, calendar.IsWorkday("2026-08-17"))  // Monday
	assert.False(t, calendar.IsWorkday("2026-08-19")) // holiday
	assert.True(t, calendar.IsWorkday("2026-08-22"))  // extra workday beats weekend
	assert.False(t, calendar.IsWorkday("2026-08-23")) // Sunday
	assert.False(t, calendar.IsWorkday("not-a-date"))
}

func TestIsWorkdayIncludeWeekends(t *testing.T) {
	calendar := NewWorkdayCalendar(nil, nil, true)
	assert.True(t, calendar.IsWorkday("2026-08-22"))
	assert.True(t, calendar.IsWorkday("2026-08-23"))
}

func TestWorkdaysBetween(t *testing.T) {
	calendar := NewWorkdayCalendar([]string{"2026-08-19"}, nil, false)

	start := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)

	days := calendar.WorkdaysBetween(start, end)
	assert.Equal(t, []string{"2026-08-17", "2026-08-18", "2026-08-20", "2026-08-21"}, days)
}
