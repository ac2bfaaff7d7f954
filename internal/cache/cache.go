// Package cache 提供供应商/模型列表查询的读缓存
package cache

import (
	"context"
	"encoding/json"
	"time"

	"aiplugin/internal/logger"
	"aiplugin/internal/metrics"

	"go.uber.org/zap"
)

// Cache 键值缓存
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// DeletePrefix 删除指定前缀的全部键
	DeletePrefix(ctx context.Context, prefix string) error
}

// ListCache 以 JSON 存取列表结果，缓存故障只记录日志不影响查询
type ListCache struct {
	backend Cache
	name    string
	ttl     time.Duration
}

// NewListCache ttl <= 0 或 backend 为 nil 时缓存关闭
func NewListCache(backend Cache, name string, ttl time.Duration) *ListCache {
	return &ListCache{backend: backend, name: name, ttl: ttl}
}

func (c *ListCache) enabled() bool {
	return c != nil && c.backend != nil && c.ttl > 0
}

func (c *ListCache) key(k string) string {
	return "aiplugin:" + c.name + ":" + k
}

// Load 命中时把缓存内容解码到 dest
func (c *ListCache) Load(ctx context.Context, key string, dest any) bool {
	if !c.enabled() {
		return false
	}
	raw, ok, err := c.backend.Get(ctx, c.key(key))
	if err != nil {
		logger.WithContext(ctx).Warn("读取缓存失败", zap.String("cache", c.name), zap.Error(err))
		return false
	}
	if !ok {
		metrics.CacheMisses.WithLabelValues(c.name).Inc()
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}
	metrics.CacheHits.WithLabelValues(c.name).Inc()
	return true
}

// Store 写入缓存
func (c *ListCache) Store(ctx context.Context, key string, value any) {
	if !c.enabled() {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.backend.Set(ctx, c.key(key), raw, c.ttl); err != nil {
		logger.WithContext(ctx).Warn("写入缓存失败", zap.String("cache", c.name), zap.Error(err))
	}
}

// Invalidate 清空该列表缓存的全部条目
func (c *ListCache) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.backend.DeletePrefix(ctx, c.key("")); err != nil {
		logger.WithContext(ctx).Warn("清理缓存失败", zap.String("cache", c.name), zap.Error(err))
	}
}
