package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"skillcheck_backend/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// StatsRepository 维护物化的全局统计（MySQL 为真实存储，Redis 为读缓存）
type StatsRepository struct {
	DB    *gorm.DB
	Cache *PerformerCache
}

func NewStatsRepository(db *gorm.DB, cache *PerformerCache) *StatsRepository {
	return &StatsRepository{DB: db, Cache: cache}
}

// SavePerformerBoard 覆盖写入榜单并刷新缓存
func (r *StatsRepository) SavePerformerBoard(ctx context.Context, board *model.PerformerBoard) error {
	data, err := json.Marshal(board)
	if err != nil {
		return err
	}

	stats := &model.GlobalStats{
		Key:       model.GlobalStatsPerformerKey,
		Data:      data,
		UpdatedAt: time.Now(),
	}
	if err := r.DB.Save(stats).Error; err != nil {
		return err
	}

	if r.Cache != nil {
		// 缓存失败不阻塞主流程
		_ = r.Cache.Set(ctx, board)
	}
	return nil
}

// GetPerformerBoard 优先读缓存，未命中回源 MySQL
func (r *StatsRepository) GetPerformerBoard(ctx context.Context) (*model.PerformerBoard, error) {
	if r.Cache != nil {
		if board, err := r.Cache.Get(ctx); err == nil && board != nil {
			return board, nil
		}
	}

	var stats model.GlobalStats
	err := r.DB.Where("`key` = ?", model.GlobalStatsPerformerKey).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.PerformerBoard{Entries: []model.PerformerEntry{}}, nil
	}
	if err != nil {
		return nil, err
	}

	var board model.PerformerBoard
	if err := json.Unmarshal(stats.Data, &board); err != nil {
		return nil, err
	}

	if r.Cache != nil {
		_ = r.Cache.Set(ctx, &board)
	}
	return &board, nil
}

const performerCacheKey = "stats:performer_of_week"

// PerformerCache 榜单的 Redis 读缓存
type PerformerCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewPerformerCache(client *redis.Client, ttl time.Duration) *PerformerCache {
	return &PerformerCache{Client: client, TTL: ttl}
}

func (c *PerformerCache) Set(ctx context.Context, board *model.PerformerBoard) error {
	data, err := json.Marshal(board)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, performerCacheKey, data, c.TTL).Err()
}

// Get 未命中返回 (nil, nil)
func (c *PerformerCache) Get(ctx context.Context) (*model.PerformerBoard, error) {
	data, err := c.Client.Get(ctx, performerCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var board model.PerformerBoard
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

func (c *PerformerCache) Invalidate(ctx context.Context) error {
	return c.Client.Del(ctx, performerCacheKey).Err()
}
