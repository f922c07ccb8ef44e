package logger

import (
	"strings"
	"testing"
)

func TestSanitizeValue(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  interface{}
		want func(interface{}) bool
	}{
		{
			name: "email redacted",
			key:  "email",
			val:  "someone@example.com",
			want: func(v interface{}) bool { return v == "[REDACTED]" },
		},
		{
			name: "home location redacted",
			key:  "location_home",
			val:  map[string]interface{}{"latitude": 45.5},
			want: func(v interface{}) bool { return v == "[REDACTED]" },
		},
		{
			name: "participant uuid hashed",
			key:  "participant_uuid",
			val:  "0c7e0e4e-62b6-4fd4-9a33-b4c4a4e8c0aa",
			want: func(v interface{}) bool {
				s, ok := v.(string)
				return ok && strings.HasPrefix(s, "hash:") && len(s) == len("hash:")+12
			},
		},
		{
			name: "nested map sanitized",
			key:  "answers",
			val:  map[string]interface{}{"Email": "x@y.z", "Age": "25-34"},
			want: func(v interface{}) bool {
				m, ok := v.(map[string]interface{})
				return ok && m["Email"] == "[REDACTED]" && m["Age"] == "25-34"
			},
		},
		{
			name: "plain value untouched",
			key:  "survey",
			val:  "itinerummtlte2018",
			want: func(v interface{}) bool { return v == "itinerummtlte2018" },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeValue(tt.key, tt.val)
			if !tt.want(got) {
				t.Fatalf("sanitizeValue(%q): got=%v", tt.key, got)
			}
		})
	}
}

func TestHashValueStable(t *testing.T) {
	a := hashValue("abc")
	b := hashValue("abc")
	if a != b {
		t.Fatalf("hashValue: want stable output, got=%q and %q", a, b)
	}
	if hashValue("") != "" {
		t.Fatalf("hashValue: want empty for empty input")
	}
}
