package model

import (
	"encoding/json"
	"time"
)

const GlobalStatsPerformerKey = "performer_of_week"

// GlobalStats 物化的全局统计，单行按 Key 区分
// 周之星榜单是读优化副本，真实来源是各协作者自身的标记
type GlobalStats struct {
	Key       string          `gorm:"primaryKey;size:50" json:"key"`
	Data      json.RawMessage `gorm:"type:json" json:"data"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (GlobalStats) TableName() string {
	return "global_stats"
}

// PerformerEntry 榜单中的一条摘要
type PerformerEntry struct {
	UserID       uint      `json:"userId"`
	UserName     string    `json:"userName"`
	TestID       string    `json:"testId"`
	TechnologyID uint      `json:"technologyId"`
	RateBefore   int       `json:"rateBefore"`
	RateAfter    int       `json:"rateAfter"`
	Improvement  int       `json:"improvement"`
	RecordedAt   time.Time `json:"recordedAt"`
}

// PerformerBoard 批量重算产出的完整榜单
type PerformerBoard struct {
	Entries   []PerformerEntry `json:"entries"`
	UpdatedAt time.Time        `json:"updatedAt"`
}
