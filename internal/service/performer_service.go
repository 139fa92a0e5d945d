package service

import (
	"context"
	"sort"
	"time"

	"skillcheck_backend/internal/model"
	"skillcheck_backend/internal/repository"
	"skillcheck_backend/internal/util"
	"skillcheck_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PerformerService struct {
	UserRepo  *repository.UserRepository
	TestRepo  *repository.TestRepository
	StatsRepo *repository.StatsRepository

	now func() time.Time
}

func NewPerformerService(userRepo *repository.UserRepository, testRepo *repository.TestRepository, statsRepo *repository.StatsRepository) *PerformerService {
	return &PerformerService{
		UserRepo:  userRepo,
		TestRepo:  testRepo,
		StatsRepo: statsRepo,
		now:       time.Now,
	}
}

// qualifiesLive 实时路径的达标判定：同一测试至少两次参试，
// 且最近两条技术成功率提升不少于 15 个百分点
// 不达标不摘标记，摘除只由过期清理负责
func qualifiesLive(attempts int64, before, after int) bool {
	return attempts >= util.PerformerMinAttempts && after-before >= util.PerformerMinGain
}

// qualifiesBoard 批量重算路径的独立启发式：绝对提升 ≥10 或相对提升 ≥15%
// 与实时路径的规则不同是既有行为，两套算法各自保留
func qualifiesBoard(previous, current int) bool {
	gain := current - previous
	if gain >= util.LeaderboardMinAbsGain {
		return true
	}
	if previous > 0 && float64(gain)/float64(previous) >= util.LeaderboardMinRelGain {
		return true
	}
	return false
}

// DetectLive 定稿路径内联执行的周之星检测，跑在定稿事务内
func (s *PerformerService) DetectLive(tx *gorm.DB, userID uint, testID string, technologyID uint, at time.Time) error {
	attempts, err := s.UserRepo.CountTestAttempts(tx, userID, testID)
	if err != nil {
		return err
	}

	rates, err := s.UserRepo.LatestTechnologyRates(tx, userID, technologyID, 2)
	if err != nil {
		return err
	}
	if len(rates) == 0 {
		return nil
	}
	after := rates[0].SuccessRate
	before := 0
	if len(rates) > 1 {
		before = rates[1].SuccessRate
	}

	if !qualifiesLive(attempts, before, after) {
		return nil
	}

	techID := technologyID
	since := at
	return tx.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_performer_of_week":  true,
			"performer_tech_id":     &techID,
			"performer_rate_before": before,
			"performer_rate_after":  after,
			"performer_since":       &since,
		}).Error
}

// performerExpired 标记时间距 now 超过有效期即过期，恰好等于有效期不算
func performerExpired(since *time.Time, now time.Time) bool {
	return since != nil && now.Sub(*since) > util.PerformerValidFor
}

// ClearExpiredPerformers 过期清理：标记超过 7 天的摘除
// 每个定稿周期至少跑一次（后台任务定时触发）
func (s *PerformerService) ClearExpiredPerformers() (int, error) {
	performers, err := s.UserRepo.ListPerformers()
	if err != nil {
		return 0, err
	}
	now := s.now()
	cleared := 0
	for i := range performers {
		if !performerExpired(performers[i].PerformerSince, now) {
			continue
		}
		if err := s.UserRepo.ClearPerformerFlag(performers[i].ID); err != nil {
			logger.Log.Error("clear performer flag failed",
				zap.Uint("userId", performers[i].ID), zap.Error(err))
			continue
		}
		cleared++
	}
	return cleared, nil
}

// RecomputeLeaderboard 批量重建物化榜单
// 榜单是读缓存副本，与各协作者的实时标记允许短暂不一致
func (s *PerformerService) RecomputeLeaderboard(ctx context.Context) (*model.PerformerBoard, error) {
	parts, err := s.TestRepo.ListScoredParticipations()
	if err != nil {
		return nil, err
	}

	entries := make([]model.PerformerEntry, 0)
	for i := range parts {
		p := &parts[i]
		if p.SuccessRate == nil || p.PreviousSuccessRate == nil {
			continue
		}
		prev, cur := *p.PreviousSuccessRate, *p.SuccessRate
		if !qualifiesBoard(prev, cur) {
			continue
		}

		entry := model.PerformerEntry{
			UserID:      p.UserID,
			TestID:      p.TestID,
			RateBefore:  prev,
			RateAfter:   cur,
			Improvement: cur - prev,
		}
		if p.EndedAt != nil {
			entry.RecordedAt = *p.EndedAt
		}
		if user, err := s.UserRepo.FindByID(p.UserID); err == nil {
			entry.UserName = user.Name
		}
		if test, err := s.TestRepo.FindByID(p.TestID); err == nil {
			entry.TechnologyID = test.TechnologyID
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Improvement != entries[j].Improvement {
			return entries[i].Improvement > entries[j].Improvement
		}
		return entries[i].RecordedAt.After(entries[j].RecordedAt)
	})

	board := &model.PerformerBoard{
		Entries:   entries,
		UpdatedAt: s.now(),
	}
	if err := s.StatsRepo.SavePerformerBoard(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

// GetLeaderboard 读物化榜单（Redis 优先，MySQL 兜底）
func (s *PerformerService) GetLeaderboard(ctx context.Context, limit int) (*model.PerformerBoard, error) {
	board, err := s.StatsRepo.GetPerformerBoard(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(board.Entries) > limit {
		board.Entries = board.Entries[:limit]
	}
	return board, nil
}
