package ingest

import (
	"testing"
	"time"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/itinerum-backend/internal/domain/aggregates"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2018-04-24T00:25:13-04:00", want: time.Date(2018, 4, 24, 4, 25, 13, 0, time.UTC)},
		{in: "2018-04-24T04:25:13.5Z", want: time.Date(2018, 4, 24, 4, 25, 13, 500000000, time.UTC)},
		{in: "2018-04-24T00:25:13-0400", want: time.Date(2018, 4, 24, 4, 25, 13, 0, time.UTC)},
		{in: "2018-04-24 00:25:13-04:00", want: time.Date(2018, 4, 24, 4, 25, 13, 0, time.UTC)},
		{in: "2018-04-24T00:25:13", wantErr: true},
		{in: "yesterday", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: %v", tt.in, err)
		}
		if !got.Equal(tt.want) {
			t.Fatalf("%q want=%v got=%v", tt.in, tt.want, got)
		}
	}
}

func coordinate(lat any, ts any) map[string]any {
	return map[string]any{
		"latitude":       lat,
		"longitude":      "-73.6289835571",
		"speed":          17.37,
		"h_accuracy":     16,
		"mode_detected":  "1",
		"acceleration_x": 0.10268011979651681,
		"timestamp":      ts,
	}
}

func TestParseFullPayload(t *testing.T) {
	payload := map[string]any{
		"uuid":   "p-1",
		"survey": map[string]any{"Gender": []any{"1"}},
		"coordinates": []any{
			coordinate("45.5088872928", "2018-04-24T00:25:13-04:00"),
			coordinate(45.53, "2018-04-24T00:25:28-04:00"),
		},
		"prompts": []any{map[string]any{
			"uuid":        "e-1",
			"prompt_num":  "0",
			"answer":      []any{"Walk"},
			"timestamp":   "2018-04-25T13:52:27-04:00",
			"recorded_at": "2018-04-25T13:53:00-04:00",
			"latitude":    "45.53",
			"longitude":   "-73.54",
			"prompt":      "How did you travel?",
		}},
		"cancelled_prompts": []any{map[string]any{
			"uuid":          "e-2",
			"displayed_at":  "2018-04-25T13:52:27-04:00",
			"cancelled_at":  nil,
			"is_travelling": nil,
			"latitude":      "45.53",
			"longitude":     "-73.54",
		}},
	}
	req, err := Parse(payload)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if req.ParticipantUUID != "p-1" || len(req.Coordinates) != 2 || len(req.Prompts) != 1 || len(req.Cancelled) != 1 {
		t.Fatalf("unexpected request: %+v", req)
	}
	if got := float64(*req.Coordinates[0].Latitude); got != 45.5088872928 {
		t.Fatalf("string latitude want=45.5088872928 got=%v", got)
	}
	if req.Prompts[0].DisplayedAt == nil {
		t.Fatalf("legacy timestamp not mapped to displayed_at")
	}
	if req.Cancelled[0].CancelledAt != nil || req.Cancelled[0].IsTravelling != nil {
		t.Fatalf("null cancelled fields should stay nil")
	}

	owner := Owner{SurveyID: uuid.New(), MobileID: uuid.New()}
	coords, prompts, cancelled, err := req.Models(owner)
	if err != nil {
		t.Fatalf("Models: %v", err)
	}
	if coords[1].Latitude != 45.53 || *coords[0].ModeDetected != 1 || coords[0].Altitude != nil {
		t.Fatalf("coordinate model wrong: %+v", coords[0])
	}
	if string(prompts[0].Response) != `["Walk"]` || prompts[0].MobileID != owner.MobileID {
		t.Fatalf("prompt model wrong: %+v", prompts[0])
	}
	if cancelled[0].PromptUUID != "e-2" {
		t.Fatalf("cancelled model wrong: %+v", cancelled[0])
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		message string
	}{
		{"missing participant", map[string]any{"coordinates": []any{}}, MsgMissingParticipant},
		{"blank participant", map[string]any{"uuid": "  "}, MsgMissingParticipant},
		{"prompt without uuid", map[string]any{"uuid": "p", "prompts": []any{map[string]any{
			"prompt_num": 0, "displayed_at": "2018-04-25T13:52:27-04:00", "recorded_at": "2018-04-25T13:52:27-04:00",
			"latitude": 1, "longitude": 1,
		}}}, MsgMissingPromptUUID},
		{"cancelled without uuid", map[string]any{"uuid": "p", "cancelled_prompts": []any{map[string]any{
			"uuid": "", "displayed_at": "2018-04-25T13:52:27-04:00", "latitude": 1, "longitude": 1,
		}}}, MsgMissingPromptUUID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.payload)
			if !domainagg.IsCode(err, domainagg.CodeValidation) {
				t.Fatalf("want validation got=%v", err)
			}
			if got := domainagg.MessageOf(err); got != tt.message {
				t.Fatalf("want=%q got=%q", tt.message, got)
			}
		})
	}
}

func TestParseRejectsMalformedRecords(t *testing.T) {
	bad := map[string]map[string]any{
		"naive timestamp":     {"uuid": "p", "coordinates": []any{coordinate(45.5, "2018-04-24T00:25:13")}},
		"missing timestamp":   {"uuid": "p", "coordinates": []any{coordinate(45.5, nil)}},
		"latitude range":      {"uuid": "p", "coordinates": []any{coordinate(145.5, "2018-04-24T00:25:13Z")}},
		"latitude not number": {"uuid": "p", "coordinates": []any{coordinate("north", "2018-04-24T00:25:13Z")}},
		"coordinates object":  {"uuid": "p", "coordinates": map[string]any{}},
		"survey list":         {"uuid": "p", "survey": []any{"x"}},
	}
	for name, payload := range bad {
		if _, err := Parse(payload); !domainagg.IsCode(err, domainagg.CodeValidation) {
			t.Fatalf("%s: want validation got=%v", name, err)
		}
	}
}

func TestParseEmpty(t *testing.T) {
	req, err := Parse(map[string]any{"uuid": "p", "survey": map[string]any{}, "coordinates": []any{}})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !req.Empty() {
		t.Fatalf("expected empty request")
	}
}
