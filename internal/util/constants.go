package util

import "time"

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 文件上传相关常量
const (
	MimeImage       = "image/"
	MimeOctetStream = "application/octet-stream"
)

// 测试参与窗口与评分相关常量
const (
	// JoinWindow 测试开始后允许加入的窗口（与测试时长无关）
	JoinWindow = 15 * time.Minute

	// LevelPassPercent 估算等级时各难度档的通过线（得分占该档总分的百分比）
	LevelPassPercent = 70
)

// 周之星（Performer of the Week）相关阈值
const (
	// PerformerMinAttempts 同一测试至少参加次数
	PerformerMinAttempts = 2
	// PerformerMinGain 实时路径：最近两次成功率需提升的百分点
	PerformerMinGain = 15
	// PerformerValidFor 标记有效期，过期由清理任务摘除
	PerformerValidFor = 7 * 24 * time.Hour

	// 批量重算路径使用独立的启发式（绝对提升或相对提升二选一）
	LeaderboardMinAbsGain = 10
	LeaderboardMinRelGain = 0.15

	// PerformerCacheTTL 进步榜 Redis 读缓存的有效期
	PerformerCacheTTL = 10 * time.Minute
)
