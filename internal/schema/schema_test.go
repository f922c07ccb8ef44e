package schema

import (
	"reflect"
	"testing"
)

func mustCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	return c
}

func TestEveryQuestionTypeHasStrategy(t *testing.T) {
	for _, qt := range AllQuestionTypes {
		if qt.Strategy() == DecodeInvalid {
			t.Fatalf("type %d has no decode strategy", qt)
		}
		if qt != TypePageBreak && len(qt.Fields()) == 0 {
			t.Fatalf("type %d has no answer fields", qt)
		}
	}
	if _, err := ParseQuestionType(42); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestRevisionForName(t *testing.T) {
	c := mustCatalog(t)
	tests := []struct {
		name string
		want string
	}{
		{"kyle", "mtl-2018"},
		{"ItinerumMTLTE2018", "mtl-2018"},
		{" itinerummtltf2018ios ", "mtl-2018"},
		{"itinerummtl2019", GenericRevision},
		{"", GenericRevision},
	}
	for _, tt := range tests {
		if got := c.RevisionForName(tt.name); got != tt.want {
			t.Fatalf("RevisionForName(%q) want=%q got=%q", tt.name, tt.want, got)
		}
	}
}

func TestLegacyChoices(t *testing.T) {
	c := mustCatalog(t)
	tests := []struct {
		name     string
		revision string
		language string
		label    string
		index    int
		want     string
	}{
		{"generic en", GenericRevision, "en", "member_type", 3, "A student and a worker"},
		{"generic fr", GenericRevision, "fr", "member_type", 2, "Étudiant"},
		{"unknown language falls back", GenericRevision, "de", "member_type", 0, "A full-time worker"},
		{"revision override", "mtl-2018", "en", "member_type", 3, "Retired"},
		{"revision ignores language", "mtl-2018", "fr", "travel_mode_work", 0, "Car / Motorcyle"},
		{"revision alt list", "mtl-2018", "en", "travel_mode_alt_study", 0, "No"},
		{"revision without override", "mtl-2018", "fr", "Gender", 1, "Femme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, ok := c.LegacyChoices(tt.revision, tt.language, tt.label)
			if !ok {
				t.Fatalf("no choices")
			}
			if got := list[tt.index]; got != tt.want {
				t.Fatalf("want=%q got=%q", tt.want, got)
			}
		})
	}
	if _, ok := c.LegacyChoices(GenericRevision, "en", "favourite_colour"); ok {
		t.Fatalf("expected no choices for non-legacy label")
	}
}

func TestResolvePrependsMissingLegacyQuestions(t *testing.T) {
	c := mustCatalog(t)
	def := Definition{
		Name:     "commute",
		Language: "en",
		Questions: []StoredQuestion{
			{Num: 2, Type: 5, Label: "comments", Prompt: "Anything else?"},
			{Num: 1, Type: 100, Label: "Gender", Prompt: "Gender?"},
			{Num: 0, Type: 1, Label: "pets", Prompt: "Pets?", Choices: []string{"Cat", "Dog"}},
		},
		Prompts: []StoredQuestion{{Num: 0, Type: 1, Label: "trip_mode", Prompt: "Mode?", Choices: []string{"Walk", "Bus"}}},
	}
	r, err := c.Resolve(def)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Revision != GenericRevision {
		t.Fatalf("revision want=%q got=%q", GenericRevision, r.Revision)
	}
	want := []string{
		"location_home", "member_type", "location_work", "travel_mode_work", "travel_mode_alt_work",
		"location_study", "travel_mode_study", "travel_mode_alt_study", "Age", "Email",
		"pets", "Gender", "comments",
	}
	if got := r.Labels(); !reflect.DeepEqual(got, want) {
		t.Fatalf("labels want=%v got=%v", want, got)
	}
	g, ok := r.Question("Gender")
	if !ok || !g.Legacy || g.Prompt != "Gender?" || len(g.Choices) != 4 {
		t.Fatalf("stored legacy question not merged: %+v", g)
	}
	if g.Num != 11 {
		t.Fatalf("gender num want=11 got=%d", g.Num)
	}
	if len(r.Prompts) != 1 || r.Prompts[0].Label != "trip_mode" {
		t.Fatalf("prompts not resolved: %+v", r.Prompts)
	}
}

func TestResolveStampedRevisionWins(t *testing.T) {
	c := mustCatalog(t)
	r, err := c.Resolve(Definition{Name: "kyle", Revision: GenericRevision, Language: "en"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	q, _ := r.Question("member_type")
	if q.Choices[3] != "A student and a worker" {
		t.Fatalf("stamped generic revision ignored: %v", q.Choices)
	}
	r, err = c.Resolve(Definition{Name: "kyle", Language: "en"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	q, _ = r.Question("member_type")
	if q.Choices[3] != "Retired" {
		t.Fatalf("unstamped survey did not resolve by name: %v", q.Choices)
	}
	if _, err := c.Resolve(Definition{Name: "x", Revision: "mtl-2030"}); err == nil {
		t.Fatalf("expected unknown revision error")
	}
}

func TestResolveRejectsBadStoredQuestions(t *testing.T) {
	c := mustCatalog(t)
	cases := []Definition{
		{Name: "a", Questions: []StoredQuestion{{Num: 0, Type: 7, Label: "x"}}},
		{Name: "b", Questions: []StoredQuestion{{Num: 0, Type: 104, Label: "occupation_custom"}}},
		{Name: "c", Questions: []StoredQuestion{{Num: 0, Type: 1, Label: "x"}, {Num: 1, Type: 5, Label: "x"}}},
	}
	for _, def := range cases {
		if _, err := c.Resolve(def); err == nil {
			t.Fatalf("%s: expected error", def.Name)
		}
	}
}

func TestFormatQuestions(t *testing.T) {
	c := mustCatalog(t)
	r, err := c.Resolve(Definition{
		Name:     "s",
		Language: "en",
		Questions: []StoredQuestion{
			{Num: 0, Type: 1, Label: "blank", Prompt: "?", Choices: []string{""}},
			{Num: 1, Type: 99, Label: "break"},
		},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	byLabel := map[string]FormattedQuestion{}
	for _, f := range r.FormatQuestions() {
		byLabel[f.ColName] = f
	}
	if got := byLabel["location_home"].Fields; !reflect.DeepEqual(got, map[string]any{"latitude": nil, "longitude": nil}) {
		t.Fatalf("geo fields got=%v", got)
	}
	if got := byLabel["blank"].Fields["choices"]; !reflect.DeepEqual(got, []string{}) {
		t.Fatalf("blank choices got=%v", got)
	}
	if got := byLabel["break"].Fields; len(got) != 0 {
		t.Fatalf("page break fields got=%v", got)
	}
	if got := byLabel["Gender"].Fields["choices"].([]string); len(got) != 4 {
		t.Fatalf("gender choices got=%v", got)
	}
}

func TestLoadCatalogValidation(t *testing.T) {
	bad := map[string]string{
		"non legacy type": "default_stack:\n  - {type: 1, label: x}\n",
		"coded no choices": "default_stack:\n  - {type: 100, label: Gender}\n",
		"override unknown": "default_stack: []\nrevisions:\n  - {id: r1, names: [a], choices: {nope: [x]}}\n",
		"name twice":       "revisions:\n  - {id: r1, names: [a]}\n  - {id: r2, names: [A]}\n",
	}
	for name, raw := range bad {
		if _, err := LoadCatalog([]byte(raw)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
