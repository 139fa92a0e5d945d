package service

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"skillcheck_backend/internal/model"
	"skillcheck_backend/internal/repository"
	"skillcheck_backend/internal/util"
	"skillcheck_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// casRetries 乐观保存的内部重试上限，超过后向调用方返回可重试的冲突错误
const casRetries = 3

type SubmissionService struct {
	TestRepo  *repository.TestRepository
	SubRepo   *repository.SubmissionRepository
	UserRepo  *repository.UserRepository
	Performer *PerformerService
	DB        *gorm.DB

	now func() time.Time

	// 同一 (test, collaborator) 的作答串行化，不同协作者互不阻塞
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSubmissionService(
	testRepo *repository.TestRepository,
	subRepo *repository.SubmissionRepository,
	userRepo *repository.UserRepository,
	performer *PerformerService,
	db *gorm.DB,
) *SubmissionService {
	return &SubmissionService{
		TestRepo:  testRepo,
		SubRepo:   subRepo,
		UserRepo:  userRepo,
		Performer: performer,
		DB:        db,
		now:       time.Now,
		locks:     make(map[string]*sync.Mutex),
	}
}

// lockFor 键数量以参与记录为上界，不做清理
func (s *SubmissionService) lockFor(testID string, userID uint) *sync.Mutex {
	key := testID + ":" + strconv.FormatUint(uint64(userID), 10)
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.locks[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[key] = l
	return l
}

// AnswerResult 作答接口的返回摘要
type AnswerResult struct {
	TotalScore        int    `json:"totalScore"`
	SuccessRate       int    `json:"successRate"`
	BasicScore        int    `json:"basicScore"`
	IntermediateScore int    `json:"intermediateScore"`
	ExpertScore       int    `json:"expertScore"`
	EstimatedLevel    string `json:"estimatedLevel,omitempty"` // 仅定稿后返回
	Finalized         bool   `json:"finalized"`
	Recorded          bool   `json:"recorded"` // false 表示本次答案因超时未被计入
}

// RecordAnswer 记录一次作答并滚动更新汇总，必要时触发定稿
// 同题重复提交返回冲突；定稿后的提交返回冲突；测试/题目不存在返回 NotFound
func (s *SubmissionService) RecordAnswer(testID string, userID uint, questionContent, answer string) (*AnswerResult, error) {
	lock := s.lockFor(testID, userID)
	lock.Lock()
	defer lock.Unlock()

	test, err := s.TestRepo.FindByIDWithQuestions(testID)
	if err != nil {
		return nil, err
	}
	if test.Status == model.TestCancelled {
		return nil, util.ErrTestNotAvailable
	}

	var question *model.Question
	for i := range test.Questions {
		if test.Questions[i].Content == questionContent {
			question = &test.Questions[i]
			break
		}
	}
	if question == nil {
		return nil, util.ErrQuestionNotFound
	}

	now := s.now()

	sub, err := s.SubRepo.FindByTestAndUser(testID, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		// 惰性创建即视为加入，窗口外拒绝
		if w := EvaluateJoinWindow(test, now); !w.Joinable {
			return nil, util.ErrTestNotJoinable
		}
		sub = &model.Submission{
			TestID:    testID,
			UserID:    userID,
			StartedAt: now,
		}
		if err := s.SubRepo.Create(sub); err != nil {
			return nil, err
		}
	}

	var result *AnswerResult
	for attempt := 0; attempt < casRetries; attempt++ {
		finalize, appended, err := applyAnswer(sub, test, question, answer, now)
		if err != nil {
			return nil, err
		}

		err = s.DB.Transaction(func(tx *gorm.DB) error {
			if appended {
				resp := &sub.Responses[len(sub.Responses)-1]
				resp.SubmissionID = sub.ID
				if err := s.SubRepo.CreateResponse(tx, resp); err != nil {
					// 唯一索引兜底：另一实例已写入同题答案
					if isDuplicateKey(err) {
						return util.ErrDuplicateAnswer
					}
					return err
				}
			}
			if err := s.SubRepo.SaveCAS(tx, sub); err != nil {
				return err
			}
			if finalize {
				return s.runFinalization(tx, test, sub)
			}
			return nil
		})
		if err == nil {
			result = &AnswerResult{
				TotalScore:        sub.TotalScore,
				SuccessRate:       sub.SuccessRate,
				BasicScore:        sub.BasicScore,
				IntermediateScore: sub.IntermediateScore,
				ExpertScore:       sub.ExpertScore,
				Finalized:         finalize,
				Recorded:          appended,
			}
			if finalize {
				result.EstimatedLevel = sub.EstimatedLevel
			}
			return result, nil
		}
		if !errors.Is(err, util.ErrWriteConflict) {
			return nil, err
		}

		// 版本冲突：重读后整体重放（各子步骤幂等）
		logger.Log.Warn("submission write conflict, retrying",
			zap.String("testId", testID),
			zap.Uint("userId", userID),
			zap.Int("attempt", attempt+1))
		sub, err = s.SubRepo.FindByTestAndUser(testID, userID)
		if err != nil {
			return nil, err
		}
		if sub == nil {
			return nil, util.ErrSubmissionNotFound
		}
	}
	return nil, util.ErrWriteConflict
}

// runFinalization 跨实体一致性更新，在单事务内按序执行
// 每个子步骤自身幂等（upsert 或带去重的追加），失败后重放整个定稿是安全恢复方式
func (s *SubmissionService) runFinalization(tx *gorm.DB, test *model.Test, sub *model.Submission) error {
	// 1. upsert 测试侧参与记录（未显式加入的协作者在此补建）
	part, err := s.TestRepo.FindParticipation(tx, test.ID, sub.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		part = &model.Participation{
			TestID: test.ID,
			UserID: sub.UserID,
		}
	} else if err != nil {
		return err
	}
	if part.SuccessRate != nil {
		prev := *part.SuccessRate
		part.PreviousSuccessRate = &prev
	}
	score := sub.TotalScore
	rate := sub.SuccessRate
	started := sub.StartedAt
	part.TotalScore = &score
	part.SuccessRate = &rate
	part.StartedAt = &started
	part.EndedAt = sub.EndedAt
	part.ElapsedSeconds = sub.ElapsedSeconds
	if err := s.TestRepo.SaveParticipation(tx, part); err != nil {
		return err
	}

	// 2. 平均值从事务内新读数重算，禁止用内存旧值盲写
	if err := s.TestRepo.RecomputeAverages(tx, test.ID); err != nil {
		return err
	}

	// 3. 协作者参试历史（SubmissionID 去重）
	if err := s.UserRepo.AppendTestTaken(tx, &model.TestTaken{
		UserID:       sub.UserID,
		TestID:       test.ID,
		SubmissionID: sub.ID,
		Score:        sub.TotalScore,
		SuccessRate:  sub.SuccessRate,
		TakenAt:      *sub.EndedAt,
	}); err != nil {
		return err
	}

	// 4. 技术成功率历史（SubmissionID 去重）
	if err := s.UserRepo.AppendTechnologyRate(tx, &model.TechnologyRate{
		UserID:       sub.UserID,
		TechnologyID: test.TechnologyID,
		SubmissionID: sub.ID,
		SuccessRate:  sub.SuccessRate,
		RecordedAt:   *sub.EndedAt,
	}); err != nil {
		return err
	}

	// 5. 周之星实时检测
	return s.Performer.DetectLive(tx, sub.UserID, test.ID, test.TechnologyID, *sub.EndedAt)
}

// ForceFinalizeStale 周期任务：强制定稿超时未完成的作答
// 超时惰性检测意味着沉默的客户端会让作答永远悬置，这里兜底收尾
func (s *SubmissionService) ForceFinalizeStale() error {
	stale, err := s.SubRepo.ListStaleOpen()
	if err != nil {
		return err
	}
	for i := range stale {
		if err := s.forceFinalizeOne(stale[i].TestID, stale[i].UserID); err != nil {
			logger.Log.Error("force finalize failed",
				zap.String("testId", stale[i].TestID),
				zap.Uint("userId", stale[i].UserID),
				zap.Error(err))
		}
	}
	return nil
}

func (s *SubmissionService) forceFinalizeOne(testID string, userID uint) error {
	lock := s.lockFor(testID, userID)
	lock.Lock()
	defer lock.Unlock()

	test, err := s.TestRepo.FindByIDWithQuestions(testID)
	if err != nil {
		return err
	}
	sub, err := s.SubRepo.FindByTestAndUser(testID, userID)
	if err != nil {
		return err
	}
	if sub == nil || sub.Finalized() {
		return nil
	}
	now := s.now()
	if !timeExceeded(sub, test, now) {
		return nil
	}

	finalizeNow(sub, test, now)
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.SubRepo.SaveCAS(tx, sub); err != nil {
			return err
		}
		return s.runFinalization(tx, test, sub)
	})
}

// GetSubmission 协作者查询自己的作答
func (s *SubmissionService) GetSubmission(testID string, userID uint) (*model.Submission, error) {
	sub, err := s.SubRepo.FindByTestAndUser(testID, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, util.ErrSubmissionNotFound
	}
	return sub, nil
}

func (s *SubmissionService) ListByUser(userID uint) ([]model.Submission, error) {
	return s.SubRepo.ListByUser(userID)
}

func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
