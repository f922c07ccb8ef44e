package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Question is one resolved survey or prompt question.
type Question struct {
	Num      int
	Type     QuestionType
	Label    string
	Prompt   string
	Choices  []string
	Required bool
	// Legacy marks questions whose choices come from the catalog.
	Legacy bool
}

// Strategy is shorthand for q.Type.Strategy().
func (q Question) Strategy() DecodeStrategy { return q.Type.Strategy() }

// StoredQuestion is a question as persisted for one survey.
type StoredQuestion struct {
	Num      int
	Type     int
	Label    string
	Prompt   string
	Choices  []string
	Required bool
}

// Definition is everything stored about a survey's questions.
type Definition struct {
	Name     string
	Language string
	// Revision is the schema revision stamped at creation; empty means the
	// survey predates stamping and resolves by name.
	Revision  string
	Questions []StoredQuestion
	Prompts   []StoredQuestion
}

// Resolved is the effective question list of a survey.
type Resolved struct {
	Name      string
	Language  string
	Revision  string
	Questions []Question
	Prompts   []Question

	byLabel map[string]int
}

// Question looks up a survey question by label.
func (r *Resolved) Question(label string) (Question, bool) {
	if r == nil {
		return Question{}, false
	}
	idx, ok := r.byLabel[label]
	if !ok {
		return Question{}, false
	}
	return r.Questions[idx], true
}

// Labels returns the survey question labels in order.
func (r *Resolved) Labels() []string {
	out := make([]string, 0, len(r.Questions))
	for _, q := range r.Questions {
		out = append(out, q.Label)
	}
	return out
}

// Resolve merges a stored definition with the catalog. Legacy stack entries
// missing from the stored questions come first in catalog order, stored
// questions follow in question number order. Stored legacy labels take the
// catalog type and choices for the survey revision and language.
func (c *Catalog) Resolve(def Definition) (*Resolved, error) {
	revision := strings.TrimSpace(def.Revision)
	if revision == "" {
		revision = c.RevisionForName(def.Name)
	}
	if !c.HasRevision(revision) {
		return nil, fmt.Errorf("survey %q: unknown schema revision %q", def.Name, revision)
	}
	language := strings.ToLower(strings.TrimSpace(def.Language))
	if language == "" {
		language = DefaultLanguage
	}

	stored := append([]StoredQuestion(nil), def.Questions...)
	sort.SliceStable(stored, func(i, j int) bool { return stored[i].Num < stored[j].Num })

	present := make(map[string]bool, len(stored))
	for _, s := range stored {
		present[s.Label] = true
	}

	out := &Resolved{
		Name:     def.Name,
		Language: language,
		Revision: revision,
		byLabel:  map[string]int{},
	}
	add := func(q Question) error {
		if _, dup := out.byLabel[q.Label]; dup {
			return fmt.Errorf("survey %q: duplicate question label %q", def.Name, q.Label)
		}
		q.Num = len(out.Questions)
		out.byLabel[q.Label] = len(out.Questions)
		out.Questions = append(out.Questions, q)
		return nil
	}

	for _, lq := range c.stack {
		if present[lq.Label] {
			continue
		}
		q := Question{Type: lq.Type, Label: lq.Label, Prompt: lq.Prompt, Required: lq.Required, Legacy: true}
		q.Choices, _ = c.LegacyChoices(revision, language, lq.Label)
		if err := add(q); err != nil {
			return nil, err
		}
	}
	for _, s := range stored {
		q, err := c.resolveStored(revision, language, s)
		if err != nil {
			return nil, fmt.Errorf("survey %q: %w", def.Name, err)
		}
		if err := add(q); err != nil {
			return nil, err
		}
	}

	prompts := append([]StoredQuestion(nil), def.Prompts...)
	sort.SliceStable(prompts, func(i, j int) bool { return prompts[i].Num < prompts[j].Num })
	for _, p := range prompts {
		qt, err := ParseQuestionType(p.Type)
		if err != nil {
			return nil, fmt.Errorf("survey %q prompt %d: %w", def.Name, p.Num, err)
		}
		out.Prompts = append(out.Prompts, Question{
			Num:      p.Num,
			Type:     qt,
			Label:    p.Label,
			Prompt:   p.Prompt,
			Choices:  append([]string(nil), p.Choices...),
			Required: p.Required,
		})
	}
	return out, nil
}

func (c *Catalog) resolveStored(revision, language string, s StoredQuestion) (Question, error) {
	if lq, ok := c.Legacy(s.Label); ok {
		q := Question{Type: lq.Type, Label: lq.Label, Prompt: lq.Prompt, Required: lq.Required || s.Required, Legacy: true}
		if strings.TrimSpace(s.Prompt) != "" {
			q.Prompt = s.Prompt
		}
		q.Choices, _ = c.LegacyChoices(revision, language, lq.Label)
		return q, nil
	}
	qt, err := ParseQuestionType(s.Type)
	if err != nil {
		return Question{}, fmt.Errorf("question %q: %w", s.Label, err)
	}
	if qt.Legacy() {
		return Question{}, fmt.Errorf("question %q: legacy type %d without a catalog label", s.Label, s.Type)
	}
	return Question{
		Type:     qt,
		Label:    s.Label,
		Prompt:   s.Prompt,
		Choices:  append([]string(nil), s.Choices...),
		Required: s.Required,
	}, nil
}
