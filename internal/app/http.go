package app

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/itinerum-backend/internal/http"
	httpH "github.com/yungbote/itinerum-backend/internal/http/handlers"
	"github.com/yungbote/itinerum-backend/internal/observability"
	"github.com/yungbote/itinerum-backend/internal/platform/logger"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	MobileV1 *httpH.MobileHandler
	MobileV2 *httpH.MobileHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(pingDB(db)),
		MobileV1: httpH.NewMobileHandler(httpH.MobileHandlerDeps{
			Log:          log,
			Registration: services.Registration,
			Sync:         services.Sync,
			Version:      "v1",
			Root:         RootV1,
			StatusText:   httpH.StatusDeprecatedV1,
		}),
		MobileV2: httpH.NewMobileHandler(httpH.MobileHandlerDeps{
			Log:          log,
			Registration: services.Registration,
			Sync:         services.Sync,
			Version:      "v2",
			Root:         RootV2,
		}),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:         log,
		Metrics:     metrics,
		ServiceName: cfg.Otel.ServiceName,
		Tracing:     cfg.Otel.Enabled,
		CORSOrigins: cfg.CORSOrigins,
		Mobile: []http.MobileAPI{
			{Version: "v1", Root: RootV1, Handler: handlers.MobileV1},
			{Version: "v2", Root: RootV2, Handler: handlers.MobileV2},
		},
		HealthHandler: handlers.Health,
	})
}

func pingDB(db *gorm.DB) httpH.Pinger {
	if db == nil {
		return nil
	}
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
