package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/yungbote/itinerum-backend/internal/http/response"
	"github.com/yungbote/itinerum-backend/internal/ingest"
	"github.com/yungbote/itinerum-backend/internal/platform/apierr"
	"github.com/yungbote/itinerum-backend/internal/services"
)

type fakeRegistration struct {
	got *ingest.RegisterRequest
	err error
}

func (f *fakeRegistration) Register(_ context.Context, req *ingest.RegisterRequest) (*services.RegisterPayload, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &services.RegisterPayload{
		User:       services.MsgUserRegistered,
		UUID:       req.User.UUID,
		SurveyName: "Test Survey",
	}, nil
}

type fakeSync struct {
	got    map[string]any
	result *services.SyncResult
	err    error
}

func (f *fakeSync) SyncPayload(_ context.Context, payload map[string]any) (*services.SyncResult, error) {
	f.got = payload
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeSync) Sync(context.Context, *ingest.SyncRequest) (*services.SyncResult, error) {
	return nil, errors.New("not used")
}

func newRouter(h *MobileHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/mobile/v2/create", h.Create)
	r.POST("/mobile/v2/update", h.Update)
	return r
}

func post(r http.Handler, path, body string) (*httptest.ResponseRecorder, response.Envelope) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	var env response.Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestCreate(t *testing.T) {
	reg := &fakeRegistration{}
	h := NewMobileHandler(MobileHandlerDeps{Registration: reg, Version: "v2", Root: "/mobile/v2/"})
	r := newRouter(h)

	rec, env := post(r, "/mobile/v2/create", `{
		"surveyName": "  Test Survey ",
		"user": {"uuid": "device-1", "model": "Pixel", "itinerumVersion": "1.4", "osVersion": "14", "os": "android"}
	}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: want=%d got=%d body=%s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != "/mobile/v2/create" {
		t.Fatalf("location: want=%v got=%v", "/mobile/v2/create", got)
	}
	if env.Status != response.StatusSuccess || env.Type != ResourceCreateUser {
		t.Fatalf("envelope: got status=%q type=%q", env.Status, env.Type)
	}
	if reg.got == nil {
		t.Fatalf("register not called")
	}
	if reg.got.SurveyName != "test survey" {
		t.Fatalf("survey name: want=%v got=%v", "test survey", reg.got.SurveyName)
	}
	if reg.got.User.ItinerumVersion != "1.4" || reg.got.User.OSVersion != "14" {
		t.Fatalf("device: got %+v", reg.got.User)
	}
	results, _ := env.Results.(map[string]any)
	if results["uuid"] != "device-1" || results["user"] != services.MsgUserRegistered {
		t.Fatalf("results: got %v", env.Results)
	}
}

func TestCreateErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		err     error
		status  int
		message string
	}{
		{"missing user", `{"surveyName":"test"}`, nil, http.StatusBadRequest, "Missing parameter (user)"},
		{"unknown survey", `{"surveyName":"nope","user":{"uuid":"d"}}`, apierr.Gone(services.ErrSurveyNotFound, services.MsgSurveyNotFound), http.StatusGone, services.MsgSurveyNotFound},
		{"not json", `{"surveyName":`, nil, http.StatusBadRequest, ""},
		{"empty body", ``, nil, http.StatusBadRequest, ""},
		{"array body", `[1,2]`, nil, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &fakeRegistration{err: tt.err}
			r := newRouter(NewMobileHandler(MobileHandlerDeps{Registration: reg, Version: "v2", Root: "/mobile/v2"}))

			rec, env := post(r, "/mobile/v2/create", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status: want=%d got=%d body=%s", tt.status, rec.Code, rec.Body.String())
			}
			if env.Status != "error" || len(env.Errors) == 0 {
				t.Fatalf("envelope: got %+v", env)
			}
			if tt.message != "" && env.Errors[0] != tt.message {
				t.Fatalf("message: want=%v got=%v", tt.message, env.Errors[0])
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	created := &services.SyncResult{
		Outcome: services.SyncCreated,
		Messages: services.SyncMessages{
			Survey:           services.MsgNoSurvey,
			Coordinates:      "New coordinates for device-1 inserted.",
			Prompts:          services.MsgNoPrompts,
			CancelledPrompts: services.MsgNoCancelled,
		},
	}
	noop := &services.SyncResult{Outcome: services.SyncNoOp, Messages: services.SyncMessages{
		Survey:           services.MsgNoSurvey,
		Coordinates:      services.MsgNoCoordinates,
		Prompts:          services.MsgNoPrompts,
		CancelledPrompts: services.MsgNoCancelled,
	}}

	tests := []struct {
		name   string
		result *services.SyncResult
		err    error
		status int
	}{
		{"created", created, nil, http.StatusCreated},
		{"no-op", noop, nil, http.StatusOK},
		{"unknown participant", nil, apierr.Gone(services.ErrParticipantNotFound, "Could not find survey for device-1."), http.StatusGone},
		{"validation", nil, apierr.BadRequest(nil, ingest.MsgMissingPromptUUID), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sync := &fakeSync{result: tt.result, err: tt.err}
			r := newRouter(NewMobileHandler(MobileHandlerDeps{Sync: sync, Version: "v2", Root: "/mobile/v2"}))

			rec, env := post(r, "/mobile/v2/update", `{"uuid":"device-1","coordinates":[]}`)
			if rec.Code != tt.status {
				t.Fatalf("status: want=%d got=%d body=%s", tt.status, rec.Code, rec.Body.String())
			}
			if env.Type != ResourceUpdateData {
				t.Fatalf("type: want=%v got=%v", ResourceUpdateData, env.Type)
			}
			if tt.err != nil {
				return
			}
			results, _ := env.Results.(map[string]any)
			if results["cancelledPrompts"] != services.MsgNoCancelled {
				t.Fatalf("results: got %v", env.Results)
			}
			if results["coordinates"] != tt.result.Messages.Coordinates {
				t.Fatalf("coordinates message: want=%v got=%v", tt.result.Messages.Coordinates, results["coordinates"])
			}
		})
	}
}

func TestUpdateSnakeCasesStreamsButKeepsSurveyLabels(t *testing.T) {
	sync := &fakeSync{result: &services.SyncResult{Outcome: services.SyncNoOp}}
	r := newRouter(NewMobileHandler(MobileHandlerDeps{Sync: sync, Version: "v2", Root: "/mobile/v2"}))

	rec, _ := post(r, "/mobile/v2/update", `{
		"uuid": "device-1",
		"survey": {"travelModeWork": 1, "Gender": 2},
		"cancelledPrompts": [{"uuid": "p1", "displayedAt": "2017-05-01T12:00:00", "isTravelling": false}]
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=%d got=%d", http.StatusOK, rec.Code)
	}

	survey, _ := sync.got[ingest.KeySurvey].(map[string]any)
	if _, ok := survey["travelModeWork"]; !ok {
		t.Fatalf("survey labels were renamed: %v", survey)
	}
	if n, ok := survey["Gender"].(json.Number); !ok || n.String() != "2" {
		t.Fatalf("numbers: want json.Number 2 got %T %v", survey["Gender"], survey["Gender"])
	}
	cancelled, _ := sync.got[ingest.KeyCancelled].([]any)
	if len(cancelled) != 1 {
		t.Fatalf("cancelled: want=1 got=%d (%v)", len(cancelled), sync.got)
	}
	rec0, _ := cancelled[0].(map[string]any)
	if _, ok := rec0["displayed_at"]; !ok {
		t.Fatalf("record keys not snake-cased: %v", rec0)
	}
	if _, ok := rec0["is_travelling"]; !ok {
		t.Fatalf("record keys not snake-cased: %v", rec0)
	}
}

func TestV1StatusText(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sync := &fakeSync{result: &services.SyncResult{Outcome: services.SyncNoOp}}
	h := NewMobileHandler(MobileHandlerDeps{Sync: sync, Version: "v1", Root: "/mobile/v1", StatusText: StatusDeprecatedV1})
	r := gin.New()
	r.POST("/mobile/v1/update", h.Update)

	rec, env := post(r, "/mobile/v1/update", `{"uuid":"device-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=%d got=%d", http.StatusOK, rec.Code)
	}
	if env.Status != StatusDeprecatedV1 {
		t.Fatalf("status text: want=%v got=%v", StatusDeprecatedV1, env.Status)
	}
	if got := rec.Header().Get("Location"); got != "/mobile/v1/update" {
		t.Fatalf("location: want=%v got=%v", "/mobile/v1/update", got)
	}
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name   string
		ping   Pinger
		status int
	}{
		{"no db", nil, http.StatusOK},
		{"db up", func(context.Context) error { return nil }, http.StatusOK},
		{"db down", func(context.Context) error { return errors.New("down") }, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/healthcheck", NewHealthHandler(tt.ping).HealthCheck)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
			if rec.Code != tt.status {
				t.Fatalf("status: want=%d got=%d", tt.status, rec.Code)
			}
		})
	}
}
