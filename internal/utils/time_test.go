package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockMinutes(t *testing.T) {
	tests := []struct {
		clock   string
		want    int
		wantErr bool
	}{
		{"07:50", 470, false},
		{"07:50:00", 470, false},
		{"00:00", 0, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"nope", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			got, err := ParseClockMinutes(tt.clock)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatClockMinutesTruncates(t *testing.T) {
	assert.Equal(t, "07:52", FormatClockMinutes(472.5))
	assert.Equal(t, "07:52", FormatClockMinutes(472.99))
	assert.Equal(t, "08:00", FormatClockMinutes(480))
	assert.Equal(t, "00:00", FormatClockMinutes(0))
}

func TestCalculateWeekRange(t *testing.T) {
	// Wednesday 2026-08-26
	wednesday := time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)
	monday, sunday := CalculateWeekRange(wednesday)
	assert.Equal(t, "2026-08-24", FormatDate(monday))
	assert.Equal(t, "2026-08-30", FormatDate(sunday))

	// a Monday maps onto its own week
	monday2, sunday2 := CalculateWeekRange(time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026-08-24", FormatDate(monday2))
	assert.Equal(t, "2026-08-30", FormatDate(sunday2))

	// a Sunday belongs to the week that started six days earlier
	monday3, _ := CalculateWeekRange(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026-08-24", FormatDate(monday3))
}

func TestLastWeekRange(t *testing.T) {
	now := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)
	monday, sunday := LastWeekRange(now)
	assert.Equal(t, "2026-08-17", FormatDate(monday))
	assert.Equal(t, "2026-08-23", FormatDate(sunday))
}
