package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/yungbote/itinerum-backend/internal/platform/apierr"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	res := Resource{Type: "MobileUpdateData", Location: "/mobile/v2/update"}

	tests := []struct {
		name   string
		err    error
		status int
		errors []string
	}{
		{"gone", apierr.Gone(errors.New("x"), "Could not find survey for abc."), http.StatusGone, []string{"Could not find survey for abc."}},
		{"bad request", apierr.BadRequest(errors.New("x"), "UUID must be supplied. No action taken."), http.StatusBadRequest, []string{"UUID must be supplied. No action taken."}},
		{"plain", errors.New("boom"), http.StatusInternalServerError, []string{"Internal server error."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			RespondError(c, res, tt.err)

			if rec.Code != tt.status {
				t.Fatalf("status: want=%d got=%d", tt.status, rec.Code)
			}
			if got := rec.Header().Get("Location"); got != res.Location {
				t.Fatalf("Location: want=%q got=%q", res.Location, got)
			}
			var env Envelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Status != "error" || env.Type != res.Type {
				t.Fatalf("envelope: got=%+v", env)
			}
			if len(env.Errors) != len(tt.errors) || env.Errors[0] != tt.errors[0] {
				t.Fatalf("errors: want=%v got=%v", tt.errors, env.Errors)
			}
		})
	}
}

func TestRespondSuccessDefaultsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondSuccess(c, http.StatusCreated, Resource{Type: "MobileCreateUser"}, "", map[string]any{"uuid": "abc"})

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusCreated || env.Status != StatusSuccess || env.Errors != nil {
		t.Fatalf("want 201 success got=%d %+v", rec.Code, env)
	}
}
