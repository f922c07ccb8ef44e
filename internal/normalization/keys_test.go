package normalization

import (
	"reflect"
	"testing"
)

func TestToSnake(t *testing.T) {
	tests := map[string]string{
		"cancelledPrompts": "cancelled_prompts",
		"hAccuracy":        "h_accuracy",
		"accelerationX":    "acceleration_x",
		"displayedAt":      "displayed_at",
		"isTravelling":     "is_travelling",
		"surveyName":       "survey_name",
		"prompt_num":       "prompt_num",
		"uuid":             "uuid",
		"HTTPStatus":       "http_status",
		"osVersion":        "os_version",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			if got := ToSnake(in); got != want {
				t.Fatalf("ToSnake(%q): want=%q got=%q", in, want, got)
			}
		})
	}
}

func TestToCamel(t *testing.T) {
	tests := map[string]string{
		"default_avatar":      "defaultAvatar",
		"record_acceleration": "recordAcceleration",
		"max_prompts":         "maxPrompts",
		"cancelled_prompts":   "cancelledPrompts",
		"lang":                "lang",
		"colName":             "colName",
		"_leading":            "leading",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			if got := ToCamel(in); got != want {
				t.Fatalf("ToCamel(%q): want=%q got=%q", in, want, got)
			}
		})
	}
}

func TestRoundTripOfWireKeys(t *testing.T) {
	for _, k := range []string{"displayed_at", "h_accuracy", "acceleration_z", "terms_of_service"} {
		if got := ToSnake(ToCamel(k)); got != k {
			t.Fatalf("round trip %q: got=%q", k, got)
		}
	}
}

func TestSnakeKeysRecursesAndRespectsOpaque(t *testing.T) {
	in := map[string]any{
		"uuid": "p-1",
		"survey": map[string]any{
			"Gender":     "0",
			"memberType": "2",
		},
		"cancelledPrompts": []any{
			map[string]any{"displayedAt": "2018-01-01T00:00:00-05:00", "isTravelling": true},
		},
		"prompts": []any{
			map[string]any{"promptNum": 0, "answer": map[string]any{"someKey": 1}},
		},
	}
	got := SnakeKeys(in, "survey", "answer")

	want := map[string]any{
		"uuid": "p-1",
		"survey": map[string]any{
			"Gender":     "0",
			"memberType": "2",
		},
		"cancelled_prompts": []any{
			map[string]any{"displayed_at": "2018-01-01T00:00:00-05:00", "is_travelling": true},
		},
		"prompts": []any{
			map[string]any{"prompt_num": 0, "answer": map[string]any{"someKey": 1}},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SnakeKeys:\nwant=%#v\ngot=%#v", want, got)
	}
}

func TestCamelKeysLeavesScalarsAlone(t *testing.T) {
	if got := CamelKeys("plain_value"); got != "plain_value" {
		t.Fatalf("CamelKeys(scalar): got=%v", got)
	}
	got := CamelKeys(map[string]any{"prompt": map[string]any{"max_days": 14, "num_prompts": 0}})
	want := map[string]any{"prompt": map[string]any{"maxDays": 14, "numPrompts": 0}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CamelKeys: want=%v got=%v", want, got)
	}
}

func TestParseInputString(t *testing.T) {
	if got := ParseInputString("  ItinerumMTLTF2018\n"); got != "itinerummtltf2018" {
		t.Fatalf("ParseInputString: got=%q", got)
	}
	if s, ok := TrimmedString(" x "); !ok || s != "x" {
		t.Fatalf("TrimmedString: got=%q ok=%v", s, ok)
	}
	if _, ok := TrimmedString(3); ok {
		t.Fatalf("TrimmedString(int): expected ok=false")
	}
}
