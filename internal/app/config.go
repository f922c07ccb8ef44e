package app

import (
	"time"

	"github.com/yungbote/itinerum-backend/internal/data/db"
	"github.com/yungbote/itinerum-backend/internal/observability"
	"github.com/yungbote/itinerum-backend/internal/platform/envutil"
	"github.com/yungbote/itinerum-backend/internal/platform/logger"
)

const (
	RootV1 = "/mobile/v1"
	RootV2 = "/mobile/v2"
)

type Config struct {
	Port string

	Postgres db.PostgresConfig

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	SchemaCacheTTL time.Duration

	CoordinateBatchSize   int
	AssetsRoute           string
	DefaultAvatarFilename string
	// SurveyRevisionsFile replaces the embedded catalog when set.
	SurveyRevisionsFile string

	CORSOrigins []string

	MetricsEnabled bool
	Otel           observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	port := envutil.String("PORT", envutil.String("IT_MOBILE_PORT", "9001", log), log)

	return Config{
		Port: port,
		Postgres: db.PostgresConfig{
			DSN:             envutil.String("POSTGRES_DSN", "", log),
			Host:            envutil.String("POSTGRES_HOST", "localhost", log),
			Port:            envutil.String("POSTGRES_PORT", "5432", log),
			User:            envutil.String("POSTGRES_USER", "postgres", log),
			Password:        envutil.String("POSTGRES_PASSWORD", "", log),
			Name:            envutil.String("POSTGRES_NAME", "itinerum", log),
			SSLMode:         envutil.String("POSTGRES_SSLMODE", "disable", log),
			MaxOpenConns:    envutil.Int("POSTGRES_MAX_OPEN_CONNS", 25, log),
			MaxIdleConns:    envutil.Int("POSTGRES_MAX_IDLE_CONNS", 5, log),
			ConnMaxLifetime: time.Duration(envutil.Int("POSTGRES_CONN_MAX_LIFETIME_SECONDS", 1800, log)) * time.Second,
		},
		RedisAddr:             envutil.String("REDIS_ADDR", "", log),
		RedisPassword:         envutil.String("REDIS_PASSWORD", "", log),
		RedisDB:               envutil.Int("REDIS_DB", 0, log),
		SchemaCacheTTL:        time.Duration(envutil.Int("SCHEMA_CACHE_TTL_SECONDS", 600, log)) * time.Second,
		CoordinateBatchSize:   envutil.Int("COORDINATE_BATCH_SIZE", 5000, log),
		AssetsRoute:           envutil.String("ASSETS_ROUTE", "/assets", log),
		DefaultAvatarFilename: envutil.String("DEFAULT_AVATAR_FILENAME", "defaultAvatar.png", log),
		SurveyRevisionsFile:   envutil.String("SURVEY_REVISIONS_FILE", "", log),
		CORSOrigins:           envutil.List("CORS_ALLOW_ORIGINS", []string{"*"}, log),
		MetricsEnabled:        envutil.Bool("METRICS_ENABLED", true, log),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", observability.DefaultServiceName, log),
			Environment: envutil.String("APP_ENV", "development", log),
			Version:     envutil.String("APP_VERSION", "", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log)),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", true, log),
			SampleRatio: float64(envutil.Int("OTEL_SAMPLE_PERCENT", 100, log)) / 100,
		},
	}
}
