package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"09:30", 570, true},
		{"9:5", 545, true},
		{" 18:00 ", 1080, true},
		{"00:00", 0, true},
		{"bad", 0, false},
		{"", 0, false},
		{"10:00:00", 0, false},
		{"ab:cd", 0, false},
		{"10:", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseMinutes(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestOverlaps(t *testing.T) {
	assert.True(t, Overlaps("10:00", "12:00", "11:00", "13:00"))
	assert.True(t, Overlaps("11:00", "13:00", "10:00", "12:00"))
	assert.True(t, Overlaps("10:00", "12:00", "10:30", "11:00"))
	assert.False(t, Overlaps("10:00", "12:00", "12:00", "13:00"))
	assert.False(t, Overlaps("12:00", "13:00", "10:00", "12:00"))
	assert.False(t, Overlaps("10:00", "12:00", "08:00", "09:00"))
}

func TestOverlapsIgnoresIncompleteBounds(t *testing.T) {
	assert.False(t, Overlaps("10:00", "12:00", "", "13:00"))
	assert.False(t, Overlaps("10:00", "bad", "11:00", "13:00"))
	assert.False(t, Overlaps("", "", "", ""))
}
