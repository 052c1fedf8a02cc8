// backend-go/internal/cache/performance.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vendorpulse/backend-go/internal/config"
	"github.com/vendorpulse/backend-go/internal/domain"
)

const (
	performanceKeyPrefix  = "vendor:performance:"
	defaultPerformanceTTL = time.Minute
)

// PerformanceCache is a read-through cache for vendor performance snapshots.
// The recomputation path invalidates a vendor's entry after every metric
// write; a short TTL bounds staleness if invalidation is missed.
type PerformanceCache interface {
	GetSnapshot(ctx context.Context, vendorCode string) (*domain.PerformanceSnapshot, bool, error)
	SetSnapshot(ctx context.Context, vendorCode string, snapshot *domain.PerformanceSnapshot) error
	Invalidate(ctx context.Context, vendorCode string) error
}

type redisPerformanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopPerformanceCache struct{}

func NewPerformanceCache(cfg config.CacheConfig) (PerformanceCache, error) {
	if !cfg.Enabled {
		return &noopPerformanceCache{}, nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.PerformanceTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultPerformanceTTL
	}

	return &redisPerformanceCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopPerformanceCache() PerformanceCache {
	return &noopPerformanceCache{}
}

func (c *redisPerformanceCache) GetSnapshot(ctx context.Context, vendorCode string) (*domain.PerformanceSnapshot, bool, error) {
	payload, err := c.client.Get(ctx, performanceKeyPrefix+vendorCode).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var snapshot domain.PerformanceSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, false, fmt.Errorf("decode performance snapshot cache: %w", err)
	}

	return &snapshot, true, nil
}

func (c *redisPerformanceCache) SetSnapshot(ctx context.Context, vendorCode string, snapshot *domain.PerformanceSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode performance snapshot cache: %w", err)
	}

	if err := c.client.Set(ctx, performanceKeyPrefix+vendorCode, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisPerformanceCache) Invalidate(ctx context.Context, vendorCode string) error {
	if err := c.client.Del(ctx, performanceKeyPrefix+vendorCode).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}

	return nil
}

func (n *noopPerformanceCache) GetSnapshot(ctx context.Context, vendorCode string) (*domain.PerformanceSnapshot, bool, error) {
	return nil, false, nil
}

func (n *noopPerformanceCache) SetSnapshot(ctx context.Context, vendorCode string, snapshot *domain.PerformanceSnapshot) error {
	return nil
}

func (n *noopPerformanceCache) Invalidate(ctx context.Context, vendorCode string) error {
	return nil
}

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
