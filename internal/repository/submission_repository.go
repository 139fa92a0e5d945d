package repository

import (
	"errors"

	"skillcheck_backend/internal/model"
	"skillcheck_backend/internal/util"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

// FindByTestAndUser 不存在时返回 (nil, nil)，由上层决定是否惰性创建
func (r *SubmissionRepository) FindByTestAndUser(testID string, userID uint) (*model.Submission, error) {
	var s model.Submission
	err := r.DB.Preload("Responses").
		Where("test_id = ? AND user_id = ?", testID, userID).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubmissionRepository) Create(s *model.Submission) error {
	return r.DB.Create(s).Error
}

func (r *SubmissionRepository) CreateResponse(tx *gorm.DB, resp *model.Response) error {
	return tx.Create(resp).Error
}

// SaveCAS 带版本号的乐观保存，版本不匹配返回 ErrWriteConflict
func (r *SubmissionRepository) SaveCAS(tx *gorm.DB, s *model.Submission) error {
	oldVersion := s.Version
	s.Version++
	result := tx.Model(&model.Submission{}).
		Where("id = ? AND version = ?", s.ID, oldVersion).
		Updates(map[string]interface{}{
			"ended_at":           s.EndedAt,
			"basic_score":        s.BasicScore,
			"intermediate_score": s.IntermediateScore,
			"expert_score":       s.ExpertScore,
			"total_score":        s.TotalScore,
			"correct_count":      s.CorrectCount,
			"success_rate":       s.SuccessRate,
			"elapsed_seconds":    s.ElapsedSeconds,
			"estimated_level":    s.EstimatedLevel,
			"version":            s.Version,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		s.Version = oldVersion
		return util.ErrWriteConflict
	}
	return nil
}

// ListStaleOpen 超过时长仍未定稿的作答，供周期扫描强制定稿
// 用 SQL 直接筛选避免全表载入
func (r *SubmissionRepository) ListStaleOpen() ([]model.Submission, error) {
	var subs []model.Submission
	err := r.DB.
		Joins("JOIN tests ON tests.id = submissions.test_id").
		Where("submissions.ended_at IS NULL").
		Where("submissions.started_at < DATE_SUB(NOW(), INTERVAL tests.duration_minutes MINUTE)").
		Find(&subs).Error
	return subs, err
}

func (r *SubmissionRepository) ListByUser(userID uint) ([]model.Submission, error) {
	var subs []model.Submission
	err := r.DB.Where("user_id = ?", userID).
		Order("started_at desc").
		Find(&subs).Error
	return subs, err
}

func (r *SubmissionRepository) ListByTest(testID string) ([]model.Submission, error) {
	var subs []model.Submission
	err := r.DB.Where("test_id = ?", testID).
		Order("started_at asc").
		Find(&subs).Error
	return subs, err
}
