package service

import (
	"time"

	"skillcheck_backend/internal/model"
	"skillcheck_backend/internal/util"
)

// JoinWindowResult 加入窗口评估结果，供作答入口与日历读模型复用
type JoinWindowResult struct {
	Joinable bool `json:"joinable"`
	Ended    bool `json:"ended"`
}

// EvaluateJoinWindow 纯函数：now 是否落在 [计划开始, 计划开始+15min] 内，
// 以及测试是否已结束（超过计划开始+时长）
// 加入窗口与测试时长无关：时长只决定 ended
func EvaluateJoinWindow(test *model.Test, now time.Time) JoinWindowResult {
	windowEnd := test.ScheduledAt.Add(util.JoinWindow)
	return JoinWindowResult{
		Joinable: !now.Before(test.ScheduledAt) && !now.After(windowEnd),
		Ended:    now.After(test.EndsAt()),
	}
}
