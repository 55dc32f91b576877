package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Costeo-api/internal/application/analytics"
	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/pkg/config"
	"github.com/redis/go-redis/v9"
)

const (
	protectionKeyPrefix = "costeo:protection:"
	defaultReportTTL    = time.Minute
)

// ReportCache cache de reportes de protección por tenant.
// InvalidateAll se usa desde la CLI después de migraciones o cargas masivas.
type ReportCache interface {
	analytics.ReportCache
	InvalidateAll(ctx context.Context) (int, error)
	Close() error
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopReportCache struct{}

// NewReportCache devuelve el cache en Redis si está habilitado, o uno nulo que siempre falla el lookup.
func NewReportCache(cfg config.CacheConfig) (ReportCache, error) {
	if !cfg.Enabled {
		return NewNoopReportCache(), nil
	}
	client, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultReportTTL
	}
	return &redisReportCache{client: client, ttl: ttl}, nil
}

// NewNoopReportCache cache nulo (CACHE_ENABLED=false y tests).
func NewNoopReportCache() ReportCache {
	return noopReportCache{}
}

// ProtectionKey clave del reporte de un tenant.
func ProtectionKey(tenantID string) string {
	return protectionKeyPrefix + tenantID
}

func (c *redisReportCache) GetProtection(ctx context.Context, tenantID string) (*dto.ProtectionReportResponse, bool, error) {
	payload, err := c.client.Get(ctx, ProtectionKey(tenantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var report dto.ProtectionReportResponse
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, false, fmt.Errorf("decode protection report cache: %w", err)
	}
	return &report, true, nil
}

func (c *redisReportCache) SetProtection(ctx context.Context, tenantID string, report *dto.ProtectionReportResponse) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode protection report cache: %w", err)
	}
	if err := c.client.Set(ctx, ProtectionKey(tenantID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisReportCache) Invalidate(ctx context.Context, tenantID string) error {
	if err := c.client.Del(ctx, ProtectionKey(tenantID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (c *redisReportCache) InvalidateAll(ctx context.Context) (int, error) {
	return deleteByPrefix(ctx, c.client, protectionKeyPrefix)
}

func (c *redisReportCache) Close() error {
	return c.client.Close()
}

func (noopReportCache) GetProtection(context.Context, string) (*dto.ProtectionReportResponse, bool, error) {
	return nil, false, nil
}

func (noopReportCache) SetProtection(context.Context, string, *dto.ProtectionReportResponse) error {
	return nil
}

func (noopReportCache) Invalidate(context.Context, string) error { return nil }

func (noopReportCache) InvalidateAll(context.Context) (int, error) { return 0, nil }

func (noopReportCache) Close() error { return nil }
