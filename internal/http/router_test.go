package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	httpH "github.com/yungbote/itinerum-backend/internal/http/handlers"
	"github.com/yungbote/itinerum-backend/internal/ingest"
	"github.com/yungbote/itinerum-backend/internal/observability"
	"github.com/yungbote/itinerum-backend/internal/services"
)

type stubSync struct{}

func (s *stubSync) SyncPayload(_ context.Context, _ map[string]any) (*services.SyncResult, error) {
	return &services.SyncResult{Outcome: services.SyncNoOp}, nil
}

func (s *stubSync) Sync(context.Context, *ingest.SyncRequest) (*services.SyncResult, error) {
	return &services.SyncResult{Outcome: services.SyncNoOp}, nil
}

func TestRouterMountsVersions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := observability.New()
	sync := &stubSync{}

	r := NewRouter(RouterConfig{
		Metrics: metrics,
		Mobile: []MobileAPI{
			{Version: "v1", Root: "/mobile/v1", Handler: httpH.NewMobileHandler(httpH.MobileHandlerDeps{Sync: sync, Version: "v1", Root: "/mobile/v1", StatusText: httpH.StatusDeprecatedV1})},
			{Version: "v2", Root: "/mobile/v2", Handler: httpH.NewMobileHandler(httpH.MobileHandlerDeps{Sync: sync, Version: "v2", Root: "/mobile/v2"})},
		},
		HealthHandler: httpH.NewHealthHandler(nil),
	})

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodPost, "/mobile/v1/update", `{"uuid":"d"}`, http.StatusOK},
		{http.MethodPost, "/mobile/v2/update", `{"uuid":"d"}`, http.StatusOK},
		{http.MethodGet, "/healthcheck", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodPost, "/mobile/v3/update", `{}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			r.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("status: want=%d got=%d body=%s", tt.status, rec.Code, rec.Body.String())
			}
			if rec.Header().Get("X-Request-Id") == "" {
				t.Fatalf("missing X-Request-Id header")
			}
		})
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `route="/mobile/v1/update"`) {
		t.Fatalf("metrics missing v1 route label:\n%s", rec.Body.String())
	}
}
