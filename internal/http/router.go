package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/itinerum-backend/internal/http/handlers"
	httpMW "github.com/yungbote/itinerum-backend/internal/http/middleware"
	"github.com/yungbote/itinerum-backend/internal/observability"
	"github.com/yungbote/itinerum-backend/internal/platform/logger"
)

// MobileAPI mounts one version of the mobile routes under Root.
type MobileAPI struct {
	Version string
	Root    string
	Handler *httpH.MobileHandler
}

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	// Tracing adds the otelgin middleware.
	Tracing     bool
	CORSOrigins []string

	Mobile        []MobileAPI
	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Tracing {
		name := cfg.ServiceName
		if name == "" {
			name = observability.DefaultServiceName
		}
		r.Use(otelgin.Middleware(name))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	for _, api := range cfg.Mobile {
		if api.Handler == nil {
			continue
		}
		g := r.Group(api.Root, httpMW.AttachRequestContext(api.Version))
		{
			g.POST("/create", api.Handler.Create)
			g.POST("/update", api.Handler.Update)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "errors": []string{"Not found."}})
	})
	return r
}
