package repository

import (
	"database/sql"
	"errors"
	"time"

	"skillcheck_backend/internal/model"
	"skillcheck_backend/internal/util"

	"gorm.io/gorm"
)

type TestRepository struct {
	DB *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{DB: db}
}

func (r *TestRepository) Create(test *model.Test) error {
	return r.DB.Create(test).Error
}

func (r *TestRepository) CreateQuestion(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *TestRepository) FindByID(id string) (*model.Test, error) {
	var t model.Test
	err := r.DB.Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrTestNotFound
	}
	return &t, err
}

// FindByIDWithQuestions 加载测试及其有序题目列表（题库视图）
func (r *TestRepository) FindByIDWithQuestions(id string) (*model.Test, error) {
	var t model.Test
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("`order` asc, created_at asc")
	}).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrTestNotFound
	}
	return &t, err
}

func (r *TestRepository) Update(test *model.Test) error {
	return r.DB.Save(test).Error
}

func (r *TestRepository) List(page, limit int, status string) ([]model.Test, int64, error) {
	var tests []model.Test
	var total int64
	query := r.DB.Model(&model.Test{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("scheduled_at desc").Offset(offset).Limit(limit).Find(&tests).Error
	return tests, total, err
}

// ListUpcoming 日历读模型用：按计划时间升序列出某时间段的测试
func (r *TestRepository) ListUpcoming(from, to time.Time) ([]model.Test, error) {
	var tests []model.Test
	err := r.DB.Where("scheduled_at BETWEEN ? AND ?", from, to).
		Where("status <> ?", model.TestCancelled).
		Order("scheduled_at asc").
		Find(&tests).Error
	return tests, err
}

// ListUnfinished 生命周期扫描用：所有非 completed 的测试
func (r *TestRepository) ListUnfinished() ([]model.Test, error) {
	var tests []model.Test
	err := r.DB.Where("status <> ?", model.TestCompleted).Find(&tests).Error
	return tests, err
}

func (r *TestRepository) SetStatus(id string, status string) error {
	return r.DB.Model(&model.Test{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// FindParticipation 查找某协作者在某测试的成绩汇总
func (r *TestRepository) FindParticipation(tx *gorm.DB, testID string, userID uint) (*model.Participation, error) {
	var p model.Participation
	err := tx.Where("test_id = ? AND user_id = ?", testID, userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return &p, err
}

func (r *TestRepository) SaveParticipation(tx *gorm.DB, p *model.Participation) error {
	return tx.Save(p).Error
}

func (r *TestRepository) ListParticipations(testID string) ([]model.Participation, error) {
	var ps []model.Participation
	err := r.DB.Where("test_id = ?", testID).Find(&ps).Error
	return ps, err
}

// ListScoredParticipations 批量重算用：所有已有分数的参与记录
func (r *TestRepository) ListScoredParticipations() ([]model.Participation, error) {
	var ps []model.Participation
	err := r.DB.Where("success_rate IS NOT NULL").Find(&ps).Error
	return ps, err
}

// RecomputeAverages 从事务内的新读数重算平均分，避免覆盖并发写入的旧值
func (r *TestRepository) RecomputeAverages(tx *gorm.DB, testID string) error {
	var row struct {
		AvgScore sql.NullFloat64
		AvgRate  sql.NullFloat64
	}
	err := tx.Model(&model.Participation{}).
		Select("AVG(total_score) as avg_score, AVG(success_rate) as avg_rate").
		Where("test_id = ? AND total_score IS NOT NULL", testID).
		Scan(&row).Error
	if err != nil {
		return err
	}
	return tx.Model(&model.Test{}).
		Where("id = ?", testID).
		Updates(map[string]interface{}{
			"average_score":        row.AvgScore.Float64,
			"average_success_rate": row.AvgRate.Float64,
		}).Error
}
