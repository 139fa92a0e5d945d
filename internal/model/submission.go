package model

import "time"

// 估算等级
const (
	EstimatedBeginner     = "beginner"
	EstimatedBasic        = "basic"
	EstimatedIntermediate = "intermediate"
	EstimatedExpert       = "expert"
)

// Submission 一个协作者对一场测试的作答记录，首次作答时惰性创建
// EndedAt 为空表示进行中，置位即定稿，且只定稿一次
// swagger:model Submission
type Submission struct {
	UUIDBase
	TestID    string     `gorm:"index:idx_sub_test_user,unique;type:varchar(36)" json:"testId"`
	UserID    uint       `gorm:"index:idx_sub_test_user,unique;type:bigint unsigned" json:"userId"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt"`

	// 不变式：TotalScore = BasicScore + IntermediateScore + ExpertScore
	BasicScore        int `gorm:"default:0" json:"basicScore"`
	IntermediateScore int `gorm:"default:0" json:"intermediateScore"`
	ExpertScore       int `gorm:"default:0" json:"expertScore"`
	TotalScore        int `gorm:"default:0" json:"totalScore"`

	CorrectCount   int    `gorm:"default:0" json:"correctCount"`
	SuccessRate    int    `gorm:"default:0" json:"successRate"` // round(100*正确数/测试题目总数)
	ElapsedSeconds int    `gorm:"default:0" json:"elapsedSeconds"`
	EstimatedLevel string `gorm:"size:20" json:"estimatedLevel"` // 定稿时计算

	// 乐观锁版本号，保存时 CAS 比较
	Version int `gorm:"default:0" json:"-"`

	Responses []Response `gorm:"foreignKey:SubmissionID" json:"responses,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}

// Finalized 是否已定稿
func (s *Submission) Finalized() bool {
	return s.EndedAt != nil
}

// Response 单题作答，题目内容在同一 Submission 内唯一
type Response struct {
	BaseModel
	SubmissionID    string `gorm:"index:idx_resp_sub_question,unique;type:varchar(36)" json:"submissionId"`
	QuestionContent string `gorm:"index:idx_resp_sub_question,unique;size:500" json:"questionContent"`
	Answer          string `gorm:"type:text" json:"answer"`
	IsCorrect       bool   `gorm:"default:false" json:"isCorrect"`
}

func (Response) TableName() string {
	return "responses"
}
