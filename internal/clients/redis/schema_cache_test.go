package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/itinerum-backend/internal/platform/logger"
)

func TestSchemaCacheKey(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = rdb.Close() })

	tests := []struct {
		prefix string
		parts  []string
		want   string
	}{
		{"", []string{"abc", "mtl-2018"}, "itinerum:schema:abc:mtl-2018"},
		{"custom", []string{"abc", "generic", "17"}, "custom:abc:generic:17"},
	}
	for _, tt := range tests {
		c := newSchemaCache(logger.Nop(), rdb, SchemaCacheConfig{KeyPrefix: tt.prefix})
		if got := c.Key(tt.parts...); got != tt.want {
			t.Fatalf("Key: want=%v got=%v", tt.want, got)
		}
		if c.ttl != 10*time.Minute {
			t.Fatalf("ttl: want=%v got=%v", 10*time.Minute, c.ttl)
		}
	}
}

func TestNewSchemaCacheRequiresAddr(t *testing.T) {
	if _, err := NewSchemaCache(logger.Nop(), SchemaCacheConfig{}); err == nil {
		t.Fatalf("expected error for empty address")
	}
	if _, err := NewSchemaCache(nil, SchemaCacheConfig{Addr: "localhost:6379"}); err == nil {
		t.Fatalf("expected error for nil logger")
	}
}

func TestSchemaCacheUnreachable(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	c := newSchemaCache(logger.Nop(), rdb, SchemaCacheConfig{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, ok, err := c.Get(ctx, c.Key("x")); err == nil || ok {
		t.Fatalf("Get: want error got ok=%v err=%v", ok, err)
	}
}
