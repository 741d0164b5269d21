package utils

import "time"

// WorkdayCalendar decides which dates count as workdays. Holidays exclude a
// weekday; extra workdays include a weekend day (make-up shifts).
type WorkdayCalendar struct {
	holidays        map[string]bool
	extraWorkdays   map[string]bool
	includeWeekends bool
}

// NewWorkdayCalendar creates a calendar from YYYY-MM-DD date lists
func NewWorkdayCalendar(holidays, extraWorkdays []string, includeWeekends bool) *WorkdayCalendar {
	c := &WorkdayCalendar{
		holidays:        make(map[string]bool),
		extraWorkdays:   make(map[string]bool),
		includeWeekends: includeWeekends,
	}
	for _, d := range holidays {
		if d != "" {
			c.holidays[d] = true
		}
	}
	for _, d := range extraWorkdays {
		if d != "" {
			c.extraWorkdays[d] = true
		}
	}
	return c
}

// IsHoliday reports whether the date is a configured holiday
func (c *WorkdayCalendar) IsHoliday(dateStr string) bool {
	return c.holidays[dateStr]
}

// IsWorkday reports whether the date counts as a workday
func (c *WorkdayCalendar) IsWorkday(dateStr string) bool {
	if c.extraWorkdays[dateStr] {
		return true
	}
	if c.holidays[dateStr] {
		return false
	}
	date, err := ParseDate(dateStr)
	if err != nil {
		return false
	}
	weekday := date.Weekday()
	isWeekend := weekday == time.Saturday || weekday == time.Sunday
	if isWeekend {
		return c.includeWeekends
	}
	return true
}

// WorkdaysBetween lists the workdays in [start, end] as YYYY-MM-DD strings
func (c *WorkdayCalendar) WorkdaysBetween(start, end time.Time) []string {
	var days []string
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		dateStr := FormatDate(day)
		if c.IsWorkday(dateStr) {
			days = append(days, dateStr)
		}
	}
	return days
}
