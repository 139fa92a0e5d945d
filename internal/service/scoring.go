package service

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"skillcheck_backend/internal/model"
	"skillcheck_backend/internal/util"
)

// scoreAnswer 按题型比对单题答案
// single: 与标准答案全等；multiple: 集合比较（忽略顺序）；code: 始终判错（代码执行评分不在范围内）
// 未知题型返回 ErrUnknownQuestionType
func scoreAnswer(q *model.Question, answer string) (bool, error) {
	switch q.Type {
	case model.QuestionSingle:
		return answer == q.Answer, nil
	case model.QuestionMultiple:
		submitted, err := parseAnswerSet(answer)
		if err != nil {
			return false, util.ErrMalformedAnswer
		}
		return sameSet(submitted, q.CorrectSet()), nil
	case model.QuestionCode:
		return false, nil
	default:
		return false, util.ErrUnknownQuestionType
	}
}

// parseAnswerSet multiple 题型的提交值：JSON 数组或逗号分隔
func parseAnswerSet(answer string) ([]string, error) {
	trimmed := strings.TrimSpace(answer)
	if strings.HasPrefix(trimmed, "[") {
		var set []string
		if err := json.Unmarshal([]byte(trimmed), &set); err != nil {
			return nil, err
		}
		return set, nil
	}
	if trimmed == "" {
		return nil, nil
	}
	parts := strings.Split(trimmed, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, v := range a {
		seen[v]++
	}
	for _, v := range b {
		seen[v]--
		if seen[v] < 0 {
			return false
		}
	}
	return true
}

// addToBucket 按难度档累加得分，未知难度跳过分档但不影响总分
func addToBucket(sub *model.Submission, level string, points int) {
	switch level {
	case model.LevelBasic:
		sub.BasicScore += points
	case model.LevelIntermediate:
		sub.IntermediateScore += points
	case model.LevelExpert:
		sub.ExpertScore += points
	}
	sub.TotalScore += points
}

// successRate round(100 * 正确数 / 题目总数)，题目总数在首答时即固定
func successRate(correct, totalQuestions int) int {
	if totalQuestions == 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(totalQuestions)))
}

// estimateLevel 按各难度档的得分占比估算等级
// 从高档往低档判断：expert ≥ 70% → expert，否则 intermediate ≥ 70% → intermediate，
// 否则 basic ≥ 70% → basic，否则 beginner
func estimateLevel(sub *model.Submission, questions []model.Question) string {
	var basicAvail, intermediateAvail, expertAvail int
	for i := range questions {
		switch questions[i].Level {
		case model.LevelBasic:
			basicAvail += questions[i].Points
		case model.LevelIntermediate:
			intermediateAvail += questions[i].Points
		case model.LevelExpert:
			expertAvail += questions[i].Points
		}
	}

	if passes(sub.ExpertScore, expertAvail) {
		return model.EstimatedExpert
	}
	if passes(sub.IntermediateScore, intermediateAvail) {
		return model.EstimatedIntermediate
	}
	if passes(sub.BasicScore, basicAvail) {
		return model.EstimatedBasic
	}
	return model.EstimatedBeginner
}

func passes(earned, available int) bool {
	if available == 0 {
		return false
	}
	return earned*100 >= available*util.LevelPassPercent
}

// applyAnswer 作答核心状态机（无持久化副作用）
// 返回值 finalize 表示本次变更触发了定稿；appended 表示本次答案被记录
// 时间超限分支先于记录判定：迟到的答案不计分，仅触发定稿（见 finalizeNow）
func applyAnswer(sub *model.Submission, test *model.Test, q *model.Question, answer string, now time.Time) (finalize, appended bool, err error) {
	if sub.Finalized() {
		return false, false, util.ErrSubmissionFinalized
	}

	if timeExceeded(sub, test, now) {
		finalizeNow(sub, test, now)
		return true, false, nil
	}

	for i := range sub.Responses {
		if sub.Responses[i].QuestionContent == q.Content {
			return false, false, util.ErrDuplicateAnswer
		}
	}

	correct, err := scoreAnswer(q, answer)
	if err != nil {
		return false, false, err
	}

	sub.Responses = append(sub.Responses, model.Response{
		SubmissionID:    sub.ID,
		QuestionContent: q.Content,
		Answer:          answer,
		IsCorrect:       correct,
	})
	if correct {
		sub.CorrectCount++
		addToBucket(sub, q.Level, q.Points)
	}
	sub.SuccessRate = successRate(sub.CorrectCount, len(test.Questions))

	if len(sub.Responses) == len(test.Questions) {
		finalizeNow(sub, test, now)
		return true, true, nil
	}
	return false, true, nil
}

// timeExceeded 以本次作答的开始时间为基准，与加入窗口无关
func timeExceeded(sub *model.Submission, test *model.Test, now time.Time) bool {
	return now.Sub(sub.StartedAt) >= test.Duration()
}

// finalizeNow 一次性状态跃迁：置结束时间、耗时和估算等级
// 调用方必须先确认未定稿
func finalizeNow(sub *model.Submission, test *model.Test, now time.Time) {
	ended := now
	sub.EndedAt = &ended
	sub.ElapsedSeconds = int(now.Sub(sub.StartedAt).Seconds())
	sub.EstimatedLevel = estimateLevel(sub, test.Questions)
}
