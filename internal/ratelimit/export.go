package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/sfc-gh-jasvestis/reseller-billing-app/internal/config"
)

const keyExportClient = "export:csv:%s"

// ExportLimiter throttles CSV export downloads per client. A nil limiter
// means rate limiting is disabled and every request passes.
type ExportLimiter struct {
	enabled bool

	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewExportLimiter(cfg config.Config) (*ExportLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.ExportRate <= 0 || limitCfg.ExportBurst <= 0 {
		return nil, errors.New("export rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &ExportLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		rate:    limitCfg.ExportRate,
		burst:   limitCfg.ExportBurst,
	}, nil
}

func (l *ExportLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *ExportLimiter) Allow(ctx context.Context, clientKey string) (Result, error) {
	if !l.Enabled() {
		return Result{Allowed: true}, nil
	}
	key := fmt.Sprintf(keyExportClient, strings.TrimSpace(clientKey))
	return l.bucket.Allow(ctx, key, l.rate, l.burst)
}
