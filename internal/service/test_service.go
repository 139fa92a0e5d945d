package service

import (
	"encoding/json"
	"time"

	"skillcheck_backend/internal/model"
	"skillcheck_backend/internal/repository"
	"skillcheck_backend/pkg/logger"

	"go.uber.org/zap"
)

type TestService struct {
	Repo     *repository.TestRepository
	TechRepo *repository.TechnologyRepository

	now func() time.Time
}

func NewTestService(repo *repository.TestRepository, techRepo *repository.TechnologyRepository) *TestService {
	return &TestService{Repo: repo, TechRepo: techRepo, now: time.Now}
}

type QuestionRequest struct {
	Content   string          `json:"content" binding:"required"`
	Type      string          `json:"type" binding:"required"`
	Level     string          `json:"level" binding:"required"`
	Options   json.RawMessage `json:"options"`
	Answer    string          `json:"answer"`
	AnswerSet json.RawMessage `json:"answerSet"`
	Points    int             `json:"points"`
	Order     int             `json:"order"`
}

type TestRequest struct {
	Title           string            `json:"title" binding:"required"`
	Level           string            `json:"level"`
	TechnologyID    uint              `json:"technologyId" binding:"required"`
	ScheduledAt     time.Time         `json:"scheduledAt" binding:"required"`
	DurationMinutes int               `json:"durationMinutes" binding:"required"`
	Questions       []QuestionRequest `json:"questions"`
}

// CreateTest 管理端排期一场测试，题目随测试一次性创建后不可修改
func (s *TestService) CreateTest(creatorID uint, req TestRequest) (*model.Test, error) {
	if _, err := s.TechRepo.FindByID(req.TechnologyID); err != nil {
		return nil, err
	}

	test := &model.Test{
		Title:           req.Title,
		Level:           req.Level,
		TechnologyID:    req.TechnologyID,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Status:          model.TestScheduled,
		CreatorID:       creatorID,
	}
	if err := s.Repo.Create(test); err != nil {
		return nil, err
	}

	for i, qReq := range req.Questions {
		q := &model.Question{
			TestID:    test.ID,
			Content:   qReq.Content,
			Type:      qReq.Type,
			Level:     qReq.Level,
			Options:   qReq.Options,
			Answer:    qReq.Answer,
			AnswerSet: qReq.AnswerSet,
			Points:    qReq.Points,
			Order:     qReq.Order,
		}
		if q.Order == 0 {
			q.Order = i + 1
		}
		if err := s.Repo.CreateQuestion(q); err != nil {
			return nil, err
		}
	}
	return test, nil
}

type TestUpdateRequest struct {
	Title           *string    `json:"title"`
	Level           *string    `json:"level"`
	ScheduledAt     *time.Time `json:"scheduledAt"`
	DurationMinutes *int       `json:"durationMinutes"`
}

// UpdateTest 只允许改元信息，题目不经过本路径
func (s *TestService) UpdateTest(testID string, req TestUpdateRequest) (*model.Test, error) {
	test, err := s.Repo.FindByID(testID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		test.Title = *req.Title
	}
	if req.Level != nil {
		test.Level = *req.Level
	}
	if req.ScheduledAt != nil {
		test.ScheduledAt = *req.ScheduledAt
	}
	if req.DurationMinutes != nil {
		test.DurationMinutes = *req.DurationMinutes
	}
	if err := s.Repo.Update(test); err != nil {
		return nil, err
	}
	return test, nil
}

// CancelTest 显式取消（生命周期扫描之外唯一的状态写入方）
func (s *TestService) CancelTest(testID string) error {
	if _, err := s.Repo.FindByID(testID); err != nil {
		return err
	}
	return s.Repo.SetStatus(testID, model.TestCancelled)
}

func (s *TestService) GetTest(testID string) (*model.Test, error) {
	return s.Repo.FindByIDWithQuestions(testID)
}

func (s *TestService) ListTests(page, limit int, status string) ([]model.Test, int64, error) {
	return s.Repo.List(page, limit, status)
}

func (s *TestService) ListParticipations(testID string) ([]model.Participation, error) {
	if _, err := s.Repo.FindByID(testID); err != nil {
		return nil, err
	}
	return s.Repo.ListParticipations(testID)
}

// CalendarEntry 日历读模型的一行，窗口状态由评估器计算
type CalendarEntry struct {
	Test     model.Test `json:"test"`
	Joinable bool       `json:"joinable"`
	Ended    bool       `json:"ended"`
}

// Calendar 列出时间段内的测试并标注加入窗口状态
func (s *TestService) Calendar(from, to time.Time) ([]CalendarEntry, error) {
	tests, err := s.Repo.ListUpcoming(from, to)
	if err != nil {
		return nil, err
	}
	now := s.now()
	entries := make([]CalendarEntry, len(tests))
	for i := range tests {
		w := EvaluateJoinWindow(&tests[i], now)
		entries[i] = CalendarEntry{Test: tests[i], Joinable: w.Joinable, Ended: w.Ended}
	}
	return entries, nil
}

// lifecycleDue 测试计划结束时间已过即应收尾
func lifecycleDue(test *model.Test, now time.Time) bool {
	return now.After(test.EndsAt())
}

// SweepLifecycle 周期任务：计划结束时间已过的测试置为 completed
// 幂等：已 completed 的不再扫到，重复执行无副作用
func (s *TestService) SweepLifecycle() (int, error) {
	tests, err := s.Repo.ListUnfinished()
	if err != nil {
		return 0, err
	}
	now := s.now()
	flipped := 0
	for i := range tests {
		if tests[i].Status == model.TestCancelled {
			continue
		}
		if !lifecycleDue(&tests[i], now) {
			continue
		}
		if err := s.Repo.SetStatus(tests[i].ID, model.TestCompleted); err != nil {
			logger.Log.Error("lifecycle sweep failed",
				zap.String("testId", tests[i].ID), zap.Error(err))
			continue
		}
		flipped++
	}
	return flipped, nil
}
