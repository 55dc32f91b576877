package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/jhoicas/Costeo-api/pkg/config"
	"github.com/redis/go-redis/v9"
)

const (
	scanBatchSize = 100
	pingTimeout   = 5 * time.Second
)

// newRedisClient arma el cliente desde la configuración y verifica la conexión.
func newRedisClient(cfg config.CacheConfig) (*redis.Client, error) {
	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// buildRedisOptions usa REDIS_URL si existe; si no, host/puerto/clave/db por separado.
func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}
	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

// deleteByPrefix borra con SCAN + DEL en lotes todas las claves que empiezan con prefix.
func deleteByPrefix(ctx context.Context, client *redis.Client, prefix string) (int, error) {
	var cursor uint64
	deleted := 0
	for {
		keys, next, err := client.Scan(ctx, cursor, prefix+"*", scanBatchSize).Result()
		if err != nil {
			return deleted, fmt.Errorf("redis scan failed: %w", err)
		}
		if len(keys) > 0 {
			n, err := client.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("redis delete failed: %w", err)
			}
			deleted += int(n)
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}
