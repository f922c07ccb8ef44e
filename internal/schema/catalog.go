package schema

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// GenericRevision is the revision of every survey that is not listed in a
// catalog revision.
const GenericRevision = "generic"

// DefaultLanguage is used when a survey language has no choice list.
const DefaultLanguage = "en"

//go:embed catalog.yaml
var embeddedCatalog []byte

type catalogFile struct {
	DefaultStack []legacyEntry  `yaml:"default_stack"`
	Revisions    []revisionFile `yaml:"revisions"`
}

type legacyEntry struct {
	Type     int                 `yaml:"type"`
	Label    string              `yaml:"label"`
	Prompt   string              `yaml:"prompt"`
	Required bool                `yaml:"required"`
	Choices  map[string][]string `yaml:"choices"`
}

type revisionFile struct {
	ID      string              `yaml:"id"`
	Names   []string            `yaml:"names"`
	Choices map[string][]string `yaml:"choices"`
}

// LegacyQuestion is one entry of the mandatory default question stack.
type LegacyQuestion struct {
	Type     QuestionType
	Label    string
	Prompt   string
	Required bool
	// Choices by language code.
	Choices map[string][]string
}

// Revision overrides legacy choice lists for a family of named surveys.
type Revision struct {
	ID    string
	Names []string
	// Choices by legacy label; the same list serves every language.
	Choices map[string][]string
}

// Catalog is the immutable legacy question and revision data. Build one with
// LoadCatalog or DefaultCatalog and pass it to whatever needs it.
type Catalog struct {
	stack          []LegacyQuestion
	byLabel        map[string]int
	revisions      map[string]Revision
	revisionByName map[string]string
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = LoadCatalog(embeddedCatalog)
	})
	return defaultCatalog, defaultErr
}

// LoadCatalogFile reads a catalog YAML from disk.
func LoadCatalogFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return LoadCatalog(raw)
}

func LoadCatalog(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c := &Catalog{
		byLabel:        make(map[string]int, len(f.DefaultStack)),
		revisions:      make(map[string]Revision, len(f.Revisions)),
		revisionByName: map[string]string{},
	}
	for i, e := range f.DefaultStack {
		qt, err := ParseQuestionType(e.Type)
		if err != nil {
			return nil, fmt.Errorf("default_stack[%d]: %w", i, err)
		}
		if !qt.Legacy() {
			return nil, fmt.Errorf("default_stack[%d]: type %d is not a legacy type", i, e.Type)
		}
		label := strings.TrimSpace(e.Label)
		if label == "" {
			return nil, fmt.Errorf("default_stack[%d]: missing label", i)
		}
		if _, dup := c.byLabel[label]; dup {
			return nil, fmt.Errorf("default_stack[%d]: duplicate label %q", i, label)
		}
		if qt.Strategy() == DecodeCodedChoice && len(e.Choices[DefaultLanguage]) == 0 {
			return nil, fmt.Errorf("default_stack[%d]: coded question %q has no %s choices", i, label, DefaultLanguage)
		}
		c.byLabel[label] = len(c.stack)
		c.stack = append(c.stack, LegacyQuestion{
			Type:     qt,
			Label:    label,
			Prompt:   e.Prompt,
			Required: e.Required,
			Choices:  copyChoiceMap(e.Choices),
		})
	}
	for i, r := range f.Revisions {
		id := strings.TrimSpace(r.ID)
		if id == "" || id == GenericRevision {
			return nil, fmt.Errorf("revisions[%d]: invalid id %q", i, r.ID)
		}
		if _, dup := c.revisions[id]; dup {
			return nil, fmt.Errorf("revisions[%d]: duplicate id %q", i, id)
		}
		for label := range r.Choices {
			idx, ok := c.byLabel[label]
			if !ok || c.stack[idx].Type.Strategy() != DecodeCodedChoice {
				return nil, fmt.Errorf("revisions[%d]: %q is not a coded legacy label", i, label)
			}
		}
		rev := Revision{ID: id, Choices: copyChoiceMap(r.Choices)}
		for _, n := range r.Names {
			name := strings.ToLower(strings.TrimSpace(n))
			if name == "" {
				continue
			}
			if other, taken := c.revisionByName[name]; taken {
				return nil, fmt.Errorf("revisions[%d]: survey %q already assigned to %q", i, name, other)
			}
			c.revisionByName[name] = id
			rev.Names = append(rev.Names, name)
		}
		c.revisions[id] = rev
	}
	return c, nil
}

func copyChoiceMap(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[strings.ToLower(strings.TrimSpace(k))] = append([]string(nil), v...)
	}
	return out
}

// RevisionForName returns the schema revision a survey of this name gets at
// creation. Only names listed in the catalog match; everything else is generic.
func (c *Catalog) RevisionForName(name string) string {
	if id, ok := c.revisionByName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return id
	}
	return GenericRevision
}

// HasRevision reports whether id is generic or a catalog revision.
func (c *Catalog) HasRevision(id string) bool {
	if id == GenericRevision {
		return true
	}
	_, ok := c.revisions[id]
	return ok
}

// DefaultStack returns a copy of the legacy stack in order.
func (c *Catalog) DefaultStack() []LegacyQuestion {
	out := make([]LegacyQuestion, len(c.stack))
	copy(out, c.stack)
	return out
}

func (c *Catalog) Legacy(label string) (LegacyQuestion, bool) {
	idx, ok := c.byLabel[label]
	if !ok {
		return LegacyQuestion{}, false
	}
	return c.stack[idx], true
}

// LegacyChoices resolves the coded choice list for a legacy label. A revision
// override wins over the generic list; otherwise the survey language is used,
// falling back to English.
func (c *Catalog) LegacyChoices(revision, language, label string) ([]string, bool) {
	q, ok := c.Legacy(label)
	if !ok {
		return nil, false
	}
	if rev, ok := c.revisions[revision]; ok {
		if list, ok := rev.Choices[label]; ok {
			return list, true
		}
	}
	lang := strings.ToLower(strings.TrimSpace(language))
	if list, ok := q.Choices[lang]; ok && len(list) > 0 {
		return list, true
	}
	if list, ok := q.Choices[DefaultLanguage]; ok && len(list) > 0 {
		return list, true
	}
	return nil, false
}
