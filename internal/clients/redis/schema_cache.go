package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/itinerum-backend/internal/platform/logger"
)

const defaultKeyPrefix = "itinerum:schema"

// SchemaCache stores encoded register schemas keyed by survey and revision.
type SchemaCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
	Key(parts ...string) string
	Client() goredis.UniversalClient
	Close() error
}

type SchemaCacheConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
}

type schemaCache struct {
	log    *logger.Logger
	rdb    goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewSchemaCache(log *logger.Logger, cfg SchemaCacheConfig) (SchemaCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return newSchemaCache(log, rdb, cfg), nil
}

func newSchemaCache(log *logger.Logger, rdb goredis.UniversalClient, cfg SchemaCacheConfig) *schemaCache {
	prefix := strings.TrimSpace(cfg.KeyPrefix)
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &schemaCache{
		log:    log.With("service", "RedisSchemaCache"),
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Key joins parts under the configured prefix.
func (c *schemaCache) Key(parts ...string) string {
	return c.prefix + ":" + strings.Join(parts, ":")
}

func (c *schemaCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, true, nil
}

func (c *schemaCache) Set(ctx context.Context, key string, payload []byte) error {
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	c.log.Debug("schema cached", "key", key, "ttl", c.ttl.String())
	return nil
}

func (c *schemaCache) Client() goredis.UniversalClient { return c.rdb }

func (c *schemaCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
