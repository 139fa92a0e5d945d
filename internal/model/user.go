package model

import (
	"time"
)

type UserRole string

const (
	Manager      UserRole = "manager"
	Collaborator UserRole = "collaborator"
	Admin        UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      UserRole  `gorm:"type:enum('manager','collaborator','admin');default:'collaborator'" json:"role"`
	Avatar    string    `gorm:"size:255" json:"avatar"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen  time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`

	// 周之星标记，详情字段仅在标记为 true 期间有意义
	IsPerformerOfWeek   bool       `gorm:"default:false" json:"isPerformerOfWeek"`
	PerformerTechID     *uint      `gorm:"type:bigint unsigned" json:"performerTechId,omitempty"`
	PerformerRateBefore int        `gorm:"default:0" json:"performerRateBefore"`
	PerformerRateAfter  int        `gorm:"default:0" json:"performerRateAfter"`
	PerformerSince      *time.Time `json:"performerSince,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// TestTaken 协作者参加测试的历史记录，只追加不修改
// SubmissionID 唯一约束保证同一次定稿重复执行不会重复落库
type TestTaken struct {
	BaseModel
	UserID       uint      `gorm:"index;type:bigint unsigned" json:"userId"`
	TestID       string    `gorm:"index;type:varchar(36)" json:"testId"`
	SubmissionID string    `gorm:"uniqueIndex;type:varchar(36)" json:"submissionId"`
	Score        int       `gorm:"default:0" json:"score"`
	SuccessRate  int       `gorm:"default:0" json:"successRate"`
	TakenAt      time.Time `json:"takenAt"`
}

func (TestTaken) TableName() string {
	return "tests_taken"
}

// TechnologyRate 协作者在某技术方向的成功率历史，只追加不修改
type TechnologyRate struct {
	BaseModel
	UserID       uint      `gorm:"index;type:bigint unsigned" json:"userId"`
	TechnologyID uint      `gorm:"index;type:bigint unsigned" json:"technologyId"`
	SubmissionID string    `gorm:"uniqueIndex;type:varchar(36)" json:"submissionId"`
	SuccessRate  int       `gorm:"default:0" json:"successRate"`
	RecordedAt   time.Time `json:"recordedAt"`
}

func (TechnologyRate) TableName() string {
	return "technology_rates"
}
