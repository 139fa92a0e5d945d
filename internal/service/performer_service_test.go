package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQualifiesLive(t *testing.T) {
	cases := []struct {
		name          string
		attempts      int64
		before, after int
		want          bool
	}{
		{"first attempt never qualifies", 1, 40, 80, false},
		{"second attempt with big gain", 2, 40, 60, true},
		{"gain exactly fifteen points", 2, 50, 65, true},
		{"gain of fourteen points", 2, 50, 64, false},
		{"regression never qualifies", 3, 80, 60, false},
		{"zero baseline with big jump", 2, 0, 20, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, qualifiesLive(tc.attempts, tc.before, tc.after))
		})
	}
}

func TestQualifiesBoard(t *testing.T) {
	cases := []struct {
		name          string
		prev, current int
		want          bool
	}{
		{"absolute gain of ten", 50, 60, true},
		{"absolute gain of nine without relative", 80, 89, false},
		{"relative gain of fifteen percent", 40, 46, true},
		{"small base small gain", 60, 65, false},
		{"zero base ignores relative rule", 0, 5, false},
		{"zero base with big absolute gain", 0, 10, true},
		{"regression", 70, 50, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, qualifiesBoard(tc.prev, tc.current))
		})
	}
}

func TestPerformerExpired(t *testing.T) {
	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

	assert.False(t, performerExpired(nil, now))

	exactly := now.Add(-7 * 24 * time.Hour)
	assert.False(t, performerExpired(&exactly, now), "恰好七天不算过期")

	past := now.Add(-7*24*time.Hour - time.Minute)
	assert.True(t, performerExpired(&past, now))

	fresh := now.Add(-time.Hour)
	assert.False(t, performerExpired(&fresh, now))
}
