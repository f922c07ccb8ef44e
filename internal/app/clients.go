package app

import (
	"fmt"
	"strings"

	"github.com/yungbote/itinerum-backend/internal/clients/redis"
	"github.com/yungbote/itinerum-backend/internal/platform/logger"
)

type Clients struct {
	// SchemaCache is nil when REDIS_ADDR is unset.
	SchemaCache redis.SchemaCache
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	var cache redis.SchemaCache
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		c, err := redis.NewSchemaCache(log, redis.SchemaCacheConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.SchemaCacheTTL,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis schema cache: %w", err)
		}
		cache = c
	}

	return Clients{SchemaCache: cache}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.SchemaCache != nil {
		_ = c.SchemaCache.Close()
	}
}
