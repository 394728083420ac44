package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Lynx-thelearner/BE-Wisata/internal/domain"
)

const (
	publishedKey = "borneo:wisata:published"
	versionKey   = "borneo:wisata:published:version"
)

// PublishedCache stores the public wisata listing. Every Invalidate bumps a
// version; Set only stores a listing read under the current version, so a
// listing loaded before a concurrent invalidation is never cached.
type PublishedCache interface {
	Get(ctx context.Context) ([]domain.Wisata, bool)
	Version(ctx context.Context) int64
	Set(ctx context.Context, items []domain.Wisata, version int64)
	Invalidate(ctx context.Context) error
}

// RedisPublishedCache is backed by a single redis key. A nil client turns
// every call into a miss or no-op.
type RedisPublishedCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisPublishedCache builds the cache.
func NewRedisPublishedCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisPublishedCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPublishedCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisPublishedCache) Get(ctx context.Context) ([]domain.Wisata, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, publishedKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("published cache read failed", zap.Error(err))
		}
		return nil, false
	}
	items, err := decode(raw)
	if err != nil {
		c.logger.Warn("published cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return items, true
}

// Version returns the current invalidation counter, or -1 when it cannot
// be read.
func (c *RedisPublishedCache) Version(ctx context.Context) int64 {
	if c == nil || c.client == nil {
		return -1
	}
	v, err := c.client.Get(ctx, versionKey).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return 0
	case err != nil:
		c.logger.Warn("published cache version read failed", zap.Error(err))
		return -1
	}
	return v
}

// Set stores items when no invalidation happened since version was read.
// The check and the write run under WATCH so a concurrent Invalidate aborts it.
func (c *RedisPublishedCache) Set(ctx context.Context, items []domain.Wisata, version int64) {
	if c == nil || c.client == nil || version < 0 {
		return
	}
	raw, err := encode(items)
	if err != nil {
		c.logger.Warn("published cache encode failed", zap.Error(err))
		return
	}
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, publishedKey, raw, c.ttl)
			return nil
		})
		return err
	}, versionKey)
	switch {
	case err == nil, errors.Is(err, errStale), errors.Is(err, redis.TxFailedErr):
	default:
		c.logger.Warn("published cache write failed", zap.Error(err))
	}
}

func (c *RedisPublishedCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey)
		pipe.Del(ctx, publishedKey)
		return nil
	})
	return err
}

var errStale = errors.New("published listing is stale")

func encode(items []domain.Wisata) ([]byte, error) {
	if items == nil {
		items = []domain.Wisata{}
	}
	return json.Marshal(items)
}

func decode(raw []byte) ([]domain.Wisata, error) {
	var items []domain.Wisata
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}
