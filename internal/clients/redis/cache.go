package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/listora/listora-backend/internal/platform/envutil"
	"github.com/listora/listora-backend/internal/platform/logger"
)

// ErrCacheMiss is returned by GetJSON when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a small JSON cache over redis, used for the sitewide score report
// and other read-heavy aggregates. A broken cache is never fatal to callers.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) error
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type cache struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewCache(baseLog *logger.Logger) (Cache, error) {
	addr := strings.TrimSpace(envutil.String("REDIS_ADDR", ""))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &cache{
		log: baseLog.With("client", "RedisCache"),
		rdb: rdb,
	}, nil
}

func (c *cache) GetJSON(ctx context.Context, key string, out any) error {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (c *cache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, ttl).Err()
}

func (c *cache) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

func (c *cache) Close() error {
	return c.rdb.Close()
}
