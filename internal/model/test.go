package model

import (
	"encoding/json"
	"time"
)

// 测试状态
const (
	TestScheduled = "scheduled"
	TestCompleted = "completed"
	TestCancelled = "cancelled"
)

// 题目类型
const (
	QuestionSingle   = "single"
	QuestionMultiple = "multiple"
	QuestionCode     = "code"
)

// 题目难度档
const (
	LevelBasic        = "basic"
	LevelIntermediate = "intermediate"
	LevelExpert       = "expert"
)

// swagger:model Test
type Test struct {
	UUIDBase
	Title           string    `gorm:"size:255;not null" json:"title"`
	Level           string    `gorm:"size:20" json:"level"`
	TechnologyID    uint      `gorm:"index;type:bigint unsigned" json:"technologyId"`
	ScheduledAt     time.Time `gorm:"index" json:"scheduledAt"`
	DurationMinutes int       `gorm:"default:0" json:"durationMinutes"`
	Status          string    `gorm:"size:20;default:'scheduled';index" json:"status"`
	CreatorID       uint      `gorm:"index;type:bigint unsigned" json:"creatorId"`

	// 平均值只由定稿流程重算，不允许其他路径覆盖
	AverageScore       float64 `gorm:"default:0" json:"averageScore"`
	AverageSuccessRate float64 `gorm:"default:0" json:"averageSuccessRate"`

	Questions      []Question      `gorm:"foreignKey:TestID" json:"questions,omitempty"`
	Participations []Participation `gorm:"foreignKey:TestID" json:"participations,omitempty"`
}

func (Test) TableName() string {
	return "tests"
}

// Duration 测试时长
func (t *Test) Duration() time.Duration {
	return time.Duration(t.DurationMinutes) * time.Minute
}

// EndsAt 计划结束时间（计划开始 + 时长）
func (t *Test) EndsAt() time.Time {
	return t.ScheduledAt.Add(t.Duration())
}

// Question 题目创建后不可修改，编辑走管理端 CRUD（不经过本引擎）
// swagger:model Question
type Question struct {
	UUIDBase
	TestID    string          `gorm:"index;type:varchar(36)" json:"testId"`
	Content   string          `gorm:"type:text;not null" json:"content"`
	Type      string          `gorm:"size:20;not null" json:"type"`  // single, multiple, code
	Level     string          `gorm:"size:20;not null" json:"level"` // basic, intermediate, expert
	Options   json.RawMessage `gorm:"type:json" json:"options,omitempty"`
	Answer    string          `gorm:"type:text" json:"answer"`             // single/code 的标准答案
	AnswerSet json.RawMessage `gorm:"type:json" json:"answerSet,omitempty"` // multiple 的标准答案集合
	Points    int             `gorm:"default:0" json:"points"`
	Order     int             `gorm:"default:0" json:"order"`
}

func (Question) TableName() string {
	return "questions"
}

// CorrectSet 解析 multiple 题型的标准答案集合
func (q *Question) CorrectSet() []string {
	var set []string
	if len(q.AnswerSet) > 0 {
		_ = json.Unmarshal(q.AnswerSet, &set)
	}
	return set
}

// Participation 测试侧的单个协作者成绩汇总
// 分数为空表示已加入但尚未定稿
type Participation struct {
	BaseModel
	TestID              string     `gorm:"index:idx_part_test_user,unique;type:varchar(36)" json:"testId"`
	UserID              uint       `gorm:"index:idx_part_test_user,unique;type:bigint unsigned" json:"userId"`
	TotalScore          *int       `json:"totalScore"`
	SuccessRate         *int       `json:"successRate"`
	PreviousSuccessRate *int       `json:"previousSuccessRate"` // 上一次定稿的成功率，供批量重算比较
	StartedAt           *time.Time `json:"startedAt"`
	EndedAt             *time.Time `json:"endedAt"`
	ElapsedSeconds      int        `gorm:"default:0" json:"elapsedSeconds"`
}

func (Participation) TableName() string {
	return "participations"
}
