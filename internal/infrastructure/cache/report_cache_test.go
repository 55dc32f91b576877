package cache_test

import (
	"context"
	"testing"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/cache"
	"github.com/jhoicas/Costeo-api/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReportCache_DisabledIsNoop(t *testing.T) {
	c, err := cache.NewReportCache(config.CacheConfig{Enabled: false})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.SetProtection(ctx, "t1", &dto.ProtectionReportResponse{HealthScore: 90}))
	got, ok, err := c.GetProtection(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, ok, "el cache nulo nunca acierta")
	assert.Nil(t, got)

	assert.NoError(t, c.Invalidate(ctx, "t1"))
	n, err := c.InvalidateAll(ctx)
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, c.Close())
}

func TestNewReportCache_InvalidURL(t *testing.T) {
	_, err := cache.NewReportCache(config.CacheConfig{Enabled: true, RedisURL: "http://no-es-redis"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid redis url")
}

func TestProtectionKey_PorTenant(t *testing.T) {
	assert.Equal(t, "costeo:protection:t1", cache.ProtectionKey("t1"))
	assert.NotEqual(t, cache.ProtectionKey("t1"), cache.ProtectionKey("t2"))
}
