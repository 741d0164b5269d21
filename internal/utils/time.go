package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatDate formats a time.Time as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseDate parses a date string in YYYY-MM-DD format
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse("2006-01-02", dateStr)
}

// ParseClockMinutes parses an "HH:MM" or "HH:MM:SS" clock string into
// minutes since midnight (0-1439).
func ParseClockMinutes(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid clock string %q", clock)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", clock, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", clock, err)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("clock %q out of range", clock)
	}
	return hours*60 + minutes, nil
}

// FormatClockMinutes renders minutes since midnight as "HH:MM". Fractional
// minutes are truncated, not rounded.
func FormatClockMinutes(minutes float64) string {
	total := int(minutes)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// CalculateWeekRange calculates the Monday (start) and Sunday (end) of the
// week containing the given date. If the given date is already a Monday it
// returns that Monday and the following Sunday.
func CalculateWeekRange(date time.Time) (monday time.Time, sunday time.Time) {
	// Go weekdays: 0 = Sunday ... 6 = Saturday; shift so Monday = 0
	weekday := int(date.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	daysFromMonday := weekday - 1

	monday = date.AddDate(0, 0, -daysFromMonday)
	monday = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, monday.Location())

	sunday = monday.AddDate(0, 0, 6)
	sunday = time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 23, 59, 59, 999999999, sunday.Location())

	return monday, sunday
}

// LastWeekRange returns the Monday and Sunday of the ISO week before the one
// containing now.
func LastWeekRange(now time.Time) (monday time.Time, sunday time.Time) {
	return CalculateWeekRange(now.AddDate(0, 0, -7))
}
