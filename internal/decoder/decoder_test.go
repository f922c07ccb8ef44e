package decoder

import (
	"reflect"
	"testing"

	"github.com/goccy/go-json"

	domainagg "github.com/yungbote/itinerum-backend/internal/domain/aggregates"
	"github.com/yungbote/itinerum-backend/internal/schema"
)

func resolve(t *testing.T, name, lang string) *schema.Resolved {
	t.Helper()
	c, err := schema.DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	r, err := c.Resolve(schema.Definition{
		Name:     name,
		Language: lang,
		Questions: []schema.StoredQuestion{
			{Num: 0, Type: 2, Label: "pets", Prompt: "Pets?", Choices: []string{"Cat", "Dog"}},
			{Num: 1, Type: 3, Label: "household_size"},
			{Num: 2, Type: 98, Label: "tos"},
			{Num: 3, Type: 99, Label: "page_break"},
			{Num: 4, Type: 4, Label: "second_home"},
		},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return r
}

func TestDecodeOccupationByRevision(t *testing.T) {
	tests := []struct {
		survey string
		lang   string
		raw    any
		want   any
	}{
		{"kyle", "en", []any{"2"}, "A student"},
		{"kyle", "en", []any{"3"}, "Retired"},
		{"KYLE", "fr", json.Number("3"), "Retired"},
		{"itinerummtl", "en", []any{"3"}, "A student and a worker"},
		{"itinerummtl", "fr", 3, "Étudiant et travailleur"},
		{"itinerummtl", "de", "0", "A full-time worker"},
	}
	for _, tt := range tests {
		got, err := Decode(resolve(t, tt.survey, tt.lang), "member_type", tt.raw)
		if err != nil {
			t.Fatalf("%s/%v: %v", tt.survey, tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("%s/%v want=%v got=%v", tt.survey, tt.raw, tt.want, got)
		}
	}
}

func TestDecodeAltModeLeadingEntry(t *testing.T) {
	got, err := Decode(resolve(t, "itinerummtlte2018", "en"), "travel_mode_alt_work", []any{"0"})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "No" {
		t.Fatalf("want=No got=%v", got)
	}
}

func TestDecodeMultiSelectCodedList(t *testing.T) {
	r := resolve(t, "generic", "en")
	got, err := Decode(r, "travel_mode_alt_study", []any{"1", "3"})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []any{"Walk", "Public Transit"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want=%v got=%v", want, got)
	}
	got, err = Decode(r, "travel_mode_alt_study", []any{})
	if err != nil {
		t.Fatalf("Decode empty: %v", err)
	}
	if !reflect.DeepEqual(got, []any{}) {
		t.Fatalf("empty list want=[] got=%v", got)
	}
}

func TestDecodeRejectsMalformedAnswers(t *testing.T) {
	r := resolve(t, "generic", "en")
	tests := []struct {
		name  string
		label string
		raw   any
	}{
		{"out of range", "member_type", []any{"7"}},
		{"negative", "Gender", -1},
		{"unknown text", "Age", "ninety"},
		{"fractional index", "Age", 1.5},
		{"unknown label", "favourite_colour", "blue"},
		{"bad number", "household_size", "many"},
		{"geo without longitude", "location_home", map[string]any{"latitude": 45.5}},
		{"geo scalar", "second_home", "home"},
		{"bad boolean", "tos", "maybe"},
		{"page break answer", "page_break", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(r, tt.label, tt.raw)
			if !domainagg.IsCode(err, domainagg.CodeValidation) {
				t.Fatalf("want validation error got=%v", err)
			}
		})
	}
}

func TestDecodePassThrough(t *testing.T) {
	r := resolve(t, "generic", "en")
	geo := map[string]any{"latitude": 45.5, "longitude": -73.6}
	tests := []struct {
		name  string
		label string
		raw   any
		want  any
	}{
		{"email verbatim", "Email", []any{"a@b.c"}, "a@b.c"},
		{"custom list verbatim", "pets", []any{"Cat", "Dog"}, []any{"Cat", "Dog"}},
		{"choice text accepted", "Gender", "Female", "Female"},
		{"null answer", "page_break", nil, nil},
		{"number string", "household_size", "3", json.Number("3")},
		{"geo", "location_home", geo, geo},
		{"boolean string", "tos", "true", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(r, tt.label, tt.raw)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("want=%v got=%v", tt.want, got)
			}
		})
	}
}

func TestDecodeAllAbortsOnFirstFailure(t *testing.T) {
	r := resolve(t, "kyle", "en")
	out, err := DecodeAll(r, map[string]any{"member_type": []any{"2"}, "Email": "x@y.z"})
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if out["member_type"] != "A student" || out["Email"] != "x@y.z" {
		t.Fatalf("unexpected decode: %v", out)
	}
	if _, err := DecodeAll(r, map[string]any{"member_type": []any{"9"}}); err == nil {
		t.Fatalf("expected error")
	}
}
