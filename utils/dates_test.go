package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHumanizeTimeUntil(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{7 * 24 * time.Hour, "in 7 days"},
		{24 * time.Hour, "in 1 day"},
		{23 * time.Hour, "in 23 hours"},
		{time.Hour, "in 1 hour"},
		{59 * time.Minute, "soon"},
		{0, "soon"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HumanizeTimeUntil(tt.d), tt.d.String())
	}
}

func TestFormatDueDate(t *testing.T) {
	ts := time.Date(2025, 6, 4, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-04 at 09:30", FormatDueDate(ts))
}
