package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMorningWindowContains(t *testing.T) {
	window := DefaultMorningWindow

	tests := []struct {
		name    string
		minutes int
		want    bool
	}{
		{"lower bound 06:30 included", 390, true},
		{"upper bound 08:30 included", 510, true},
		{"one before upper bound", 509, true},
		{"one past upper bound", 511, false},
		{"one before lower bound", 389, false},
		{"midnight", 0, false},
		{"noon", 720, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, window.Contains(tt.minutes))
		})
	}
}

func TestIsLateAt(t *testing.T) {
	// 08:00 threshold: exactly on the threshold is on time
	assert.False(t, IsLateAt(480, 480))
	assert.True(t, IsLateAt(481, 480))
	assert.False(t, IsLateAt(479, 480))
}
