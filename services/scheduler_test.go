package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickTimeoutLeavesHeadroom(t *testing.T) {
	cases := []struct {
		interval time.Duration
		want     time.Duration
	}{
		{5 * time.Minute, 4 * time.Minute},
		{time.Minute, 48 * time.Second},
		{10 * time.Second, 8 * time.Second},
	}
	for _, tc := range cases {
		got := tickTimeout(tc.interval)
		assert.Equal(t, tc.want, got)
		assert.Less(t, got, tc.interval, "a tick must be cancelled before its next slot")
	}
}

func TestSchedulerStartStop(t *testing.T) {
	svc := newTestService(openTestDB(t))
	s := NewScheduler(svc, 5*time.Minute)

	require.NoError(t, s.Start())
	s.Stop()
}
