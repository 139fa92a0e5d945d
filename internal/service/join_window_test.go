package service

import (
	"testing"
	"time"

	"skillcheck_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func scheduledTest(start time.Time, durationMinutes int) *model.Test {
	t := &model.Test{
		ScheduledAt:     start,
		DurationMinutes: durationMinutes,
		Status:          model.TestScheduled,
	}
	t.ID = "test-w"
	return t
}

func TestEvaluateJoinWindow(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	test := scheduledTest(start, 60)

	cases := []struct {
		name     string
		now      time.Time
		joinable bool
		ended    bool
	}{
		{"before scheduled start", start.Add(-time.Minute), false, false},
		{"exactly at start", start, true, false},
		{"five minutes in", start.Add(5 * time.Minute), true, false},
		{"exactly at window edge", start.Add(15 * time.Minute), true, false},
		{"one second past the window", start.Add(15*time.Minute + time.Second), false, false},
		{"mid test but window closed", start.Add(30 * time.Minute), false, false},
		{"exactly at planned end", start.Add(60 * time.Minute), false, false},
		{"past planned end", start.Add(61 * time.Minute), false, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := EvaluateJoinWindow(test, tc.now)
			assert.Equal(t, tc.joinable, w.Joinable, "joinable")
			assert.Equal(t, tc.ended, w.Ended, "ended")
		})
	}
}

// 窗口只看计划开始时间，短时测试在自身结束后窗口仍可能开着
func TestJoinWindowIndependentOfDuration(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	short := scheduledTest(start, 5)

	w := EvaluateJoinWindow(short, start.Add(10*time.Minute))
	assert.True(t, w.Joinable)
	assert.True(t, w.Ended)
}

func TestLifecycleDue(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	test := scheduledTest(start, 60)

	assert.False(t, lifecycleDue(test, start.Add(30*time.Minute)))
	assert.False(t, lifecycleDue(test, start.Add(60*time.Minute)))
	assert.True(t, lifecycleDue(test, start.Add(60*time.Minute+time.Second)))
}
