package repository

import (
	"errors"
	"time"

	"skillcheck_backend/internal/model"
	"skillcheck_backend/internal/util"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_seen", time.Now()).
		Error
}

// AppendTestTaken 追加参试记录，SubmissionID 冲突时静默跳过（定稿重试安全）
func (r *UserRepository) AppendTestTaken(tx *gorm.DB, entry *model.TestTaken) error {
	var count int64
	if err := tx.Model(&model.TestTaken{}).
		Where("submission_id = ?", entry.SubmissionID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return tx.Create(entry).Error
}

// AppendTechnologyRate 追加技术成功率历史，幂等方式与 AppendTestTaken 相同
func (r *UserRepository) AppendTechnologyRate(tx *gorm.DB, entry *model.TechnologyRate) error {
	var count int64
	if err := tx.Model(&model.TechnologyRate{}).
		Where("submission_id = ?", entry.SubmissionID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return tx.Create(entry).Error
}

// CountTestAttempts 统计某协作者对同一测试的参试次数
func (r *UserRepository) CountTestAttempts(tx *gorm.DB, userID uint, testID string) (int64, error) {
	var count int64
	err := tx.Model(&model.TestTaken{}).
		Where("user_id = ? AND test_id = ?", userID, testID).
		Count(&count).Error
	return count, err
}

// LatestTechnologyRates 按时间倒序取最近 limit 条技术成功率历史
func (r *UserRepository) LatestTechnologyRates(tx *gorm.DB, userID, technologyID uint, limit int) ([]model.TechnologyRate, error) {
	var rates []model.TechnologyRate
	err := tx.Where("user_id = ? AND technology_id = ?", userID, technologyID).
		Order("recorded_at desc, id desc").
		Limit(limit).
		Find(&rates).Error
	return rates, err
}

func (r *UserRepository) ListTestsTaken(userID uint) ([]model.TestTaken, error) {
	var entries []model.TestTaken
	err := r.DB.Where("user_id = ?", userID).
		Order("taken_at desc").
		Find(&entries).Error
	return entries, err
}

// ListPerformers 列出当前全部周之星
func (r *UserRepository) ListPerformers() ([]model.User, error) {
	var users []model.User
	err := r.DB.Where("is_performer_of_week = ?", true).Find(&users).Error
	return users, err
}

// ClearPerformerFlag 摘除周之星标记并清空详情
func (r *UserRepository) ClearPerformerFlag(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_performer_of_week":  false,
			"performer_tech_id":     nil,
			"performer_rate_before": 0,
			"performer_rate_after":  0,
			"performer_since":       nil,
		}).Error
}
