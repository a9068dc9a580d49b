// Package source 提供监控轮询使用的卡片数据源
// 三种实现对应三种部署形态：
//   - RedisCardSource: 直接读 wisefido-card-aggregator 写入的 full cache
//   - HTTPCardSource:  调用 wisefido-data 的 vital-focus API
//   - repository.CardRepository: 与后端数据库同机部署时直连 PostgreSQL
package source

import (
	"context"
	"encoding/json"
	"fmt"

	"wisefido-monitor/internal/config"
	"wisefido-monitor/internal/models"

	"go.uber.org/zap"
)

// CardSource 监控轮询的卡片数据源
type CardSource interface {
	// FetchCards 获取当前租户的全部卡片（含报警列表）
	FetchCards(ctx context.Context) ([]models.MonitorCard, error)
}

// RedisCardSource 从 Redis full cache 读取卡片
// 扫描 vital-focus:card:*:full（与 wisefido-data 的 GetCards 相同的键）
type RedisCardSource struct {
	config   *config.Config
	kv       KVStore
	logger   *zap.Logger
	tenantID string
}

// NewRedisCardSource 创建 Redis 卡片数据源
func NewRedisCardSource(cfg *config.Config, kv KVStore, logger *zap.Logger, tenantID string) *RedisCardSource {
	return &RedisCardSource{
		config:   cfg,
		kv:       kv,
		logger:   logger,
		tenantID: tenantID,
	}
}

// FetchCards 扫描并反序列化全部 full 卡片缓存
// 单个键解析失败只告警跳过，不影响其余卡片
func (s *RedisCardSource) FetchCards(ctx context.Context) ([]models.MonitorCard, error) {
	keys, err := s.kv.ScanKeys(ctx, s.config.Monitor.Cache.CardKeyPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan card keys: %w", err)
	}

	cards := make([]models.MonitorCard, 0, len(keys))
	for _, key := range keys {
		val, err := s.kv.Get(ctx, key)
		if err != nil {
			if err == ErrCacheMiss {
				// 键在 scan 和 get 之间过期，正常情况
				continue
			}
			return nil, fmt.Errorf("failed to get card cache %s: %w", key, err)
		}

		var card models.MonitorCard
		if err := json.Unmarshal([]byte(val), &card); err != nil {
			s.logger.Warn("Skipping malformed card cache entry",
				zap.String("key", key),
				zap.Error(err),
			)
			continue
		}

		// 租户过滤（full cache 是全局键空间）
		if s.tenantID != "" && card.TenantID != "" && card.TenantID != s.tenantID {
			continue
		}

		cards = append(cards, card)
	}

	return cards, nil
}
