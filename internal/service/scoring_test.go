package service

import (
	"encoding/json"
	"testing"
	"time"

	"skillcheck_backend/internal/model"
	"skillcheck_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTest(durationMinutes int, questions ...model.Question) *model.Test {
	t := &model.Test{
		Title:           "Go 基础测评",
		TechnologyID:    1,
		ScheduledAt:     time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		DurationMinutes: durationMinutes,
		Status:          model.TestScheduled,
		Questions:       questions,
	}
	t.ID = "test-1"
	for i := range t.Questions {
		t.Questions[i].TestID = t.ID
	}
	return t
}

func singleQ(content, answer, level string, points int) model.Question {
	return model.Question{
		Content: content,
		Type:    model.QuestionSingle,
		Level:   level,
		Answer:  answer,
		Points:  points,
	}
}

func openSubmission(test *model.Test, startedAt time.Time) *model.Submission {
	sub := &model.Submission{
		TestID:    test.ID,
		UserID:    7,
		StartedAt: startedAt,
	}
	sub.ID = "sub-1"
	return sub
}

func TestScoreAnswerSingle(t *testing.T) {
	q := singleQ("2+2=?", "4", model.LevelBasic, 5)

	correct, err := scoreAnswer(&q, "4")
	require.NoError(t, err)
	assert.True(t, correct)

	correct, err = scoreAnswer(&q, "5")
	require.NoError(t, err)
	assert.False(t, correct)
}

func TestScoreAnswerMultipleIgnoresOrder(t *testing.T) {
	q := model.Question{
		Content:   "哪些是 Go 关键字？",
		Type:      model.QuestionMultiple,
		Level:     model.LevelIntermediate,
		AnswerSet: json.RawMessage(`["func","go","defer"]`),
		Points:    10,
	}

	correct, err := scoreAnswer(&q, `["defer","func","go"]`)
	require.NoError(t, err)
	assert.True(t, correct)

	// 逗号分隔的提交格式同样接受
	correct, err = scoreAnswer(&q, "go, defer, func")
	require.NoError(t, err)
	assert.True(t, correct)

	// 子集不算对
	correct, err = scoreAnswer(&q, `["func","go"]`)
	require.NoError(t, err)
	assert.False(t, correct)

	// 重复元素不算对
	correct, err = scoreAnswer(&q, `["func","func","go"]`)
	require.NoError(t, err)
	assert.False(t, correct)
}

func TestScoreAnswerMultipleMalformed(t *testing.T) {
	q := model.Question{
		Content:   "多选",
		Type:      model.QuestionMultiple,
		AnswerSet: json.RawMessage(`["a"]`),
	}

	_, err := scoreAnswer(&q, `["unterminated`)
	assert.ErrorIs(t, err, util.ErrMalformedAnswer)
}

func TestScoreAnswerCodeAlwaysWrong(t *testing.T) {
	q := model.Question{Content: "写个快排", Type: model.QuestionCode, Answer: "whatever"}

	correct, err := scoreAnswer(&q, "whatever")
	require.NoError(t, err)
	assert.False(t, correct)
}

func TestScoreAnswerUnknownType(t *testing.T) {
	q := model.Question{Content: "?", Type: "essay"}

	_, err := scoreAnswer(&q, "x")
	assert.ErrorIs(t, err, util.ErrUnknownQuestionType)
}

func TestApplyAnswerBucketSumInvariant(t *testing.T) {
	test := buildTest(60,
		singleQ("q1", "a", model.LevelBasic, 5),
		singleQ("q2", "b", model.LevelIntermediate, 10),
		singleQ("q3", "c", model.LevelExpert, 20),
	)
	sub := openSubmission(test, test.ScheduledAt)
	now := test.ScheduledAt.Add(time.Minute)

	for i, answer := range []string{"a", "b", "c"} {
		_, appended, err := applyAnswer(sub, test, &test.Questions[i], answer, now)
		require.NoError(t, err)
		require.True(t, appended)
		assert.Equal(t, sub.TotalScore, sub.BasicScore+sub.IntermediateScore+sub.ExpertScore)
	}

	assert.Equal(t, 35, sub.TotalScore)
	assert.Equal(t, 5, sub.BasicScore)
	assert.Equal(t, 10, sub.IntermediateScore)
	assert.Equal(t, 20, sub.ExpertScore)
	assert.Equal(t, 100, sub.SuccessRate)
}

func TestApplyAnswerUnknownLevelSkipsBucket(t *testing.T) {
	test := buildTest(60,
		singleQ("q1", "a", "legendary", 8),
		singleQ("q2", "b", model.LevelBasic, 2),
	)
	sub := openSubmission(test, test.ScheduledAt)
	now := test.ScheduledAt.Add(time.Minute)

	_, _, err := applyAnswer(sub, test, &test.Questions[0], "a", now)
	require.NoError(t, err)

	// 未知难度档计入总分但不进任何分档
	assert.Equal(t, 8, sub.TotalScore)
	assert.Equal(t, 0, sub.BasicScore+sub.IntermediateScore+sub.ExpertScore)
}

func TestApplyAnswerDuplicateLeavesStateUnchanged(t *testing.T) {
	test := buildTest(60,
		singleQ("q1", "a", model.LevelBasic, 5),
		singleQ("q2", "b", model.LevelBasic, 5),
	)
	sub := openSubmission(test, test.ScheduledAt)
	now := test.ScheduledAt.Add(time.Minute)

	_, _, err := applyAnswer(sub, test, &test.Questions[0], "a", now)
	require.NoError(t, err)

	before := *sub
	_, appended, err := applyAnswer(sub, test, &test.Questions[0], "wrong", now)
	assert.ErrorIs(t, err, util.ErrDuplicateAnswer)
	assert.False(t, appended)
	assert.Equal(t, before.TotalScore, sub.TotalScore)
	assert.Equal(t, before.SuccessRate, sub.SuccessRate)
	assert.Equal(t, before.CorrectCount, sub.CorrectCount)
	assert.Len(t, sub.Responses, 1)
	assert.False(t, sub.Finalized())
}

func TestApplyAnswerSuccessRateMonotoneWhileOpen(t *testing.T) {
	test := buildTest(60,
		singleQ("q1", "a", model.LevelBasic, 5),
		singleQ("q2", "b", model.LevelBasic, 5),
		singleQ("q3", "c", model.LevelBasic, 5),
		singleQ("q4", "d", model.LevelBasic, 5),
	)
	sub := openSubmission(test, test.ScheduledAt)
	now := test.ScheduledAt.Add(time.Minute)

	prev := 0
	answers := []string{"a", "wrong", "c", "wrong"}
	for i := range answers {
		_, _, err := applyAnswer(sub, test, &test.Questions[i], answers[i], now)
		require.NoError(t, err)
		// 分母固定为题目总数，成功率只会随正确数上升
		assert.GreaterOrEqual(t, sub.SuccessRate, prev)
		prev = sub.SuccessRate
	}
	assert.Equal(t, 50, sub.SuccessRate)
}

func TestApplyAnswerFinalizesWhenAllAnswered(t *testing.T) {
	test := buildTest(60,
		singleQ("q1", "a", model.LevelBasic, 10),
		singleQ("q2", "b", model.LevelExpert, 10),
	)
	sub := openSubmission(test, test.ScheduledAt)
	now := test.ScheduledAt.Add(10 * time.Minute)

	finalize, _, err := applyAnswer(sub, test, &test.Questions[0], "a", now)
	require.NoError(t, err)
	assert.False(t, finalize)

	finalize, appended, err := applyAnswer(sub, test, &test.Questions[1], "wrong", now)
	require.NoError(t, err)
	assert.True(t, finalize)
	assert.True(t, appended)
	require.True(t, sub.Finalized())

	// 答对 1/2：总分 10 全部来自 basic 档，成功率 50，估算等级 basic
	assert.Equal(t, 10, sub.TotalScore)
	assert.Equal(t, 10, sub.BasicScore)
	assert.Equal(t, 50, sub.SuccessRate)
	assert.Equal(t, model.EstimatedBasic, sub.EstimatedLevel)
	assert.Equal(t, 600, sub.ElapsedSeconds)
}

func TestApplyAnswerTimeExceededFinalizesWithoutScoring(t *testing.T) {
	test := buildTest(30,
		singleQ("q1", "a", model.LevelBasic, 5),
		singleQ("q2", "b", model.LevelBasic, 5),
		singleQ("q3", "c", model.LevelBasic, 5),
	)
	sub := openSubmission(test, test.ScheduledAt)
	now := test.ScheduledAt.Add(5 * time.Minute)

	_, _, err := applyAnswer(sub, test, &test.Questions[0], "a", now)
	require.NoError(t, err)

	// 时长用尽后迟到的答案：触发定稿但不计入
	late := test.ScheduledAt.Add(31 * time.Minute)
	finalize, appended, err := applyAnswer(sub, test, &test.Questions[1], "b", late)
	require.NoError(t, err)
	assert.True(t, finalize)
	assert.False(t, appended)
	require.True(t, sub.Finalized())

	assert.Len(t, sub.Responses, 1)
	assert.Equal(t, 33, sub.SuccessRate)
	assert.Equal(t, 5, sub.TotalScore)
}

func TestApplyAnswerAfterFinalizationConflicts(t *testing.T) {
	test := buildTest(30, singleQ("q1", "a", model.LevelBasic, 5))
	sub := openSubmission(test, test.ScheduledAt)
	now := test.ScheduledAt.Add(time.Minute)

	finalize, _, err := applyAnswer(sub, test, &test.Questions[0], "a", now)
	require.NoError(t, err)
	require.True(t, finalize)
	endedAt := *sub.EndedAt

	_, _, err = applyAnswer(sub, test, &test.Questions[0], "a", now.Add(time.Second))
	assert.ErrorIs(t, err, util.ErrSubmissionFinalized)
	// 定稿只发生一次，结束时间不被改写
	assert.Equal(t, endedAt, *sub.EndedAt)
}

func TestEstimateLevelLadder(t *testing.T) {
	questions := []model.Question{
		singleQ("b1", "a", model.LevelBasic, 10),
		singleQ("i1", "a", model.LevelIntermediate, 10),
		singleQ("e1", "a", model.LevelExpert, 10),
	}

	cases := []struct {
		name                      string
		basic, intermediate, expert int
		want                      string
	}{
		{"all buckets passed picks expert", 10, 10, 10, model.EstimatedExpert},
		{"expert passed alone picks expert", 0, 0, 10, model.EstimatedExpert},
		{"intermediate passed picks intermediate", 0, 10, 0, model.EstimatedIntermediate},
		{"only basic passed picks basic", 10, 0, 0, model.EstimatedBasic},
		{"sixty nine percent is below the bar", 6, 0, 0, model.EstimatedBeginner},
		{"exactly seventy percent passes", 7, 0, 0, model.EstimatedBasic},
		{"nothing passed picks beginner", 0, 0, 0, model.EstimatedBeginner},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := &model.Submission{
				BasicScore:        tc.basic,
				IntermediateScore: tc.intermediate,
				ExpertScore:       tc.expert,
			}
			assert.Equal(t, tc.want, estimateLevel(sub, questions))
		})
	}
}

func TestEstimateLevelEmptyBucketNeverPasses(t *testing.T) {
	// 测试没有 expert 题时，expert 档不可能达标
	questions := []model.Question{
		singleQ("b1", "a", model.LevelBasic, 10),
	}
	sub := &model.Submission{BasicScore: 10}
	assert.Equal(t, model.EstimatedBasic, estimateLevel(sub, questions))
}

func TestSuccessRateRounding(t *testing.T) {
	assert.Equal(t, 0, successRate(0, 0))
	assert.Equal(t, 33, successRate(1, 3))
	assert.Equal(t, 67, successRate(2, 3))
	assert.Equal(t, 50, successRate(1, 2))
	assert.Equal(t, 100, successRate(3, 3))
}
