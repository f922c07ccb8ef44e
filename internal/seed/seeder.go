package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/itinerum-backend/internal/data/repos"
	types "github.com/yungbote/itinerum-backend/internal/domain"
	"github.com/yungbote/itinerum-backend/internal/domain/survey"
	"github.com/yungbote/itinerum-backend/internal/platform/dbctx"
	"github.com/yungbote/itinerum-backend/internal/platform/logger"
	"github.com/yungbote/itinerum-backend/internal/schema"
)

type SeederDeps struct {
	DB      *gorm.DB
	Log     *logger.Logger
	Surveys repos.SurveyRepo
	Catalog *schema.Catalog
	// WithDefaultStack writes the catalog's mandatory questions into the
	// survey's own question list instead of leaving them implicit.
	WithDefaultStack bool
	Now              func() time.Time
}

type Seeder struct {
	deps SeederDeps
	log  *logger.Logger
}

// Result reports what Upsert did for one survey.
type Result struct {
	SurveyID uuid.UUID
	Name     string
	Revision string
	Created  bool
}

func NewSeeder(deps SeederDeps) *Seeder {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Seeder{deps: deps, log: log.With("component", "Seeder")}
}

// Upsert creates the survey or replaces the definition of an existing one.
// The schema revision is stamped only on creation.
func (s *Seeder) Upsert(ctx context.Context, f File) (Result, error) {
	name := survey.NormalizeName(f.Name)

	var res Result
	err := s.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		existing, err := s.deps.Surveys.GetByName(dbc, name)
		if err != nil {
			return err
		}

		revision := s.deps.Catalog.RevisionForName(name)
		if existing != nil && existing.SchemaRevision != "" {
			revision = existing.SchemaRevision
		}
		questions, prompts := s.rows(f, revision)
		if err := s.validate(name, f.Language, revision, questions, prompts); err != nil {
			return err
		}

		if existing == nil {
			row := f.survey(name, revision)
			row.Questions = questions
			row.Prompts = prompts
			created, err := s.deps.Surveys.Create(dbc, row)
			if err != nil {
				return err
			}
			res = Result{SurveyID: created.ID, Name: name, Revision: revision, Created: true}
			return nil
		}

		updates := f.updates()
		updates["updated_at"] = s.deps.Now()
		if err := s.deps.Surveys.UpdateFields(dbc, existing.ID, updates); err != nil {
			return err
		}
		if err := s.deps.Surveys.ReplaceQuestions(dbc, existing.ID, questions, prompts); err != nil {
			return err
		}
		res = Result{SurveyID: existing.ID, Name: name, Revision: revision}
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("upsert survey %q: %w", name, err)
	}
	s.log.Info("Survey seeded", "survey", res.Name, "revision", res.Revision, "created", res.Created)
	return res, nil
}

// rows numbers the definition's questions, optionally preceded by the default
// stack for the survey's revision.
func (s *Seeder) rows(f File, revision string) ([]*types.SurveyQuestion, []*types.PromptQuestion) {
	var questions []*types.SurveyQuestion
	if s.deps.WithDefaultStack {
		for _, lq := range s.deps.Catalog.DefaultStack() {
			choices, _ := s.deps.Catalog.LegacyChoices(revision, f.Language, lq.Label)
			questions = append(questions, &types.SurveyQuestion{
				QuestionType:   int(lq.Type),
				QuestionLabel:  lq.Label,
				QuestionText:   lq.Prompt,
				AnswerRequired: lq.Required,
				Choices:        datatypes.NewJSONSlice(append([]string(nil), choices...)),
			})
		}
	}
	for _, q := range f.Questions {
		questions = append(questions, &types.SurveyQuestion{
			QuestionType:   q.Type,
			QuestionLabel:  q.Label,
			QuestionText:   q.Prompt,
			AnswerRequired: q.Required,
			Choices:        datatypes.NewJSONSlice(append([]string(nil), q.Choices...)),
		})
	}
	for i, q := range questions {
		q.QuestionNum = i
	}

	prompts := make([]*types.PromptQuestion, 0, len(f.Prompts))
	for i, p := range f.Prompts {
		prompts = append(prompts, &types.PromptQuestion{
			PromptNum:      i,
			PromptType:     p.Type,
			PromptLabel:    p.Label,
			PromptText:     p.Prompt,
			AnswerRequired: p.Required,
			Choices:        datatypes.NewJSONSlice(append([]string(nil), p.Choices...)),
		})
	}
	return questions, prompts
}

// validate resolves the definition so bad type codes and duplicate labels
// are rejected before anything is written.
func (s *Seeder) validate(name, language, revision string, questions []*types.SurveyQuestion, prompts []*types.PromptQuestion) error {
	def := schema.Definition{Name: name, Language: language, Revision: revision}
	for _, q := range questions {
		def.Questions = append(def.Questions, schema.StoredQuestion{
			Num: q.QuestionNum, Type: q.QuestionType, Label: q.QuestionLabel,
			Prompt: q.QuestionText, Choices: []string(q.Choices), Required: q.AnswerRequired,
		})
	}
	for _, p := range prompts {
		def.Prompts = append(def.Prompts, schema.StoredQuestion{
			Num: p.PromptNum, Type: p.PromptType, Label: p.PromptLabel,
			Prompt: p.PromptText, Choices: []string(p.Choices), Required: p.AnswerRequired,
		})
	}
	_, err := s.deps.Catalog.Resolve(def)
	return err
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func (f File) survey(name, revision string) *types.Survey {
	row := &types.Survey{
		Name:                       name,
		SchemaRevision:             revision,
		PrettyName:                 f.PrettyName,
		Language:                   f.Language,
		AboutText:                  f.AboutText,
		TermsOfService:             f.TermsOfService,
		ContactEmail:               f.ContactEmail,
		AvatarURI:                  f.AvatarURI,
		MaxSurveyDays:              f.MaxSurveyDays,
		MaxPrompts:                 f.MaxPrompts,
		GPSAccuracyThreshold:       f.GPSAccuracyThreshold,
		TripBreakInterval:          f.TripBreakInterval,
		TripBreakColdStartDistance: f.TripBreakColdStartDistance,
		TripSubwayBuffer:           f.TripSubwayBuffer,
		RecordAcceleration:         boolOr(f.RecordAcceleration, true),
		RecordMode:                 boolOr(f.RecordMode, true),
	}
	if row.PrettyName == "" {
		row.PrettyName = f.Name
	}
	row.ApplyDefaults()
	return row
}

func (f File) updates() map[string]interface{} {
	row := f.survey(survey.NormalizeName(f.Name), "")
	return map[string]interface{}{
		"pretty_name":                    row.PrettyName,
		"language":                       row.Language,
		"about_text":                     row.AboutText,
		"terms_of_service":               row.TermsOfService,
		"contact_email":                  row.ContactEmail,
		"avatar_uri":                     row.AvatarURI,
		"max_survey_days":                row.MaxSurveyDays,
		"max_prompts":                    row.MaxPrompts,
		"gps_accuracy_threshold":         row.GPSAccuracyThreshold,
		"trip_break_interval":            row.TripBreakInterval,
		"trip_break_cold_start_distance": row.TripBreakColdStartDistance,
		"trip_subway_buffer":             row.TripSubwayBuffer,
		"record_acceleration":            row.RecordAcceleration,
		"record_mode":                    row.RecordMode,
	}
}
