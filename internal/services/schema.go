package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	redisclient "github.com/yungbote/itinerum-backend/internal/clients/redis"
	"github.com/yungbote/itinerum-backend/internal/data/repos"
	types "github.com/yungbote/itinerum-backend/internal/domain"
	domainsurvey "github.com/yungbote/itinerum-backend/internal/domain/survey"
	"github.com/yungbote/itinerum-backend/internal/observability"
	"github.com/yungbote/itinerum-backend/internal/platform/apierr"
	"github.com/yungbote/itinerum-backend/internal/platform/dbctx"
	"github.com/yungbote/itinerum-backend/internal/platform/logger"
	"github.com/yungbote/itinerum-backend/internal/schema"
)

// SchemaService resolves a survey's effective questionnaire.
type SchemaService interface {
	FindSurvey(ctx context.Context, name string) (*types.Survey, error)
	GetSurvey(ctx context.Context, id uuid.UUID) (*types.Survey, error)
	Resolve(s *types.Survey) (*schema.Resolved, error)
	ResolveQuestions(s *types.Survey) ([]schema.Question, error)
	ResolvePrompts(s *types.Survey) ([]schema.Question, error)
	// Formatted returns the register schema, from cache when one is configured.
	Formatted(ctx context.Context, s *types.Survey) (schema.Formatted, error)
}

type SchemaServiceDeps struct {
	Log     *logger.Logger
	Surveys repos.SurveyRepo
	Catalog *schema.Catalog
	// Cache is optional.
	Cache   redisclient.SchemaCache
	Metrics *observability.Metrics
}

type schemaService struct {
	log     *logger.Logger
	surveys repos.SurveyRepo
	catalog *schema.Catalog
	cache   redisclient.SchemaCache
	metrics *observability.Metrics
	fills   singleflight.Group
}

func NewSchemaService(deps SchemaServiceDeps) SchemaService {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &schemaService{
		log:     log.With("service", "SchemaService"),
		surveys: deps.Surveys,
		catalog: deps.Catalog,
		cache:   deps.Cache,
		metrics: deps.Metrics,
	}
}

func (s *schemaService) FindSurvey(ctx context.Context, name string) (*types.Survey, error) {
	name = domainsurvey.NormalizeName(name)
	if name == "" {
		return nil, apierr.Gone(ErrSurveyNotFound, MsgSurveyNotFound)
	}
	survey, err := s.surveys.GetByName(dbctx.Context{Ctx: ctx}, name)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("find survey %q: %w", name, err))
	}
	if survey == nil {
		return nil, apierr.Gone(fmt.Errorf("%w: %s", ErrSurveyNotFound, name), MsgSurveyNotFound)
	}
	return survey, nil
}

func (s *schemaService) GetSurvey(ctx context.Context, id uuid.UUID) (*types.Survey, error) {
	survey, err := s.surveys.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("get survey %s: %w", id, err))
	}
	if survey == nil {
		return nil, apierr.Gone(fmt.Errorf("%w: %s", ErrSurveyNotFound, id), MsgSurveyNotFound)
	}
	return survey, nil
}

func (s *schemaService) Resolve(survey *types.Survey) (*schema.Resolved, error) {
	if survey == nil {
		return nil, apierr.Gone(ErrSurveyNotFound, MsgSurveyNotFound)
	}
	resolved, err := s.catalog.Resolve(DefinitionOf(survey))
	if err != nil {
		s.log.Error("survey schema could not be resolved", "survey", survey.Name, "error", err)
		return nil, apierr.Internal(err)
	}
	return resolved, nil
}

func (s *schemaService) ResolveQuestions(survey *types.Survey) ([]schema.Question, error) {
	resolved, err := s.Resolve(survey)
	if err != nil {
		return nil, err
	}
	return resolved.Questions, nil
}

func (s *schemaService) ResolvePrompts(survey *types.Survey) ([]schema.Question, error) {
	resolved, err := s.Resolve(survey)
	if err != nil {
		return nil, err
	}
	return resolved.Prompts, nil
}

func (s *schemaService) Formatted(ctx context.Context, survey *types.Survey) (schema.Formatted, error) {
	if s.cache == nil {
		resolved, err := s.Resolve(survey)
		if err != nil {
			return schema.Formatted{}, err
		}
		return resolved.Format(), nil
	}

	revision := s.revisionOf(survey)
	// updated_at invalidates entries when a survey is re-seeded.
	key := s.cache.Key(survey.ID.String(), revision, strconv.FormatInt(survey.UpdatedAt.UnixNano(), 10))
	v, err, _ := s.fills.Do(key, func() (any, error) {
		ctx, span := observability.StartSpan(ctx, "schema.formatted", attribute.String("cache.key", key))
		defer span.End()

		raw, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.metrics.IncSchemaCache("error")
			s.log.Warn("schema cache read failed", "key", key, "error", err)
		case ok:
			var f schema.Formatted
			if err := json.Unmarshal(raw, &f); err == nil {
				s.metrics.IncSchemaCache("hit")
				return f, nil
			}
			s.log.Warn("schema cache entry unreadable", "key", key)
		}
		s.metrics.IncSchemaCache("miss")

		resolved, err := s.Resolve(survey)
		if err != nil {
			return nil, err
		}
		f := resolved.Format()
		if raw, err := json.Marshal(f); err == nil {
			if err := s.cache.Set(ctx, key, raw); err != nil {
				s.log.Warn("schema cache write failed", "key", key, "error", err)
			}
		}
		return f, nil
	})
	if err != nil {
		return schema.Formatted{}, err
	}
	return v.(schema.Formatted), nil
}

func (s *schemaService) revisionOf(survey *types.Survey) string {
	if r := strings.TrimSpace(survey.SchemaRevision); r != "" {
		return r
	}
	return s.catalog.RevisionForName(survey.Name)
}

// DefinitionOf converts a stored survey into the resolver's input.
func DefinitionOf(survey *types.Survey) schema.Definition {
	def := schema.Definition{
		Name:     survey.Name,
		Language: survey.Language,
		Revision: survey.SchemaRevision,
	}
	for _, q := range survey.Questions {
		if q == nil {
			continue
		}
		def.Questions = append(def.Questions, schema.StoredQuestion{
			Num:      q.QuestionNum,
			Type:     q.QuestionType,
			Label:    q.QuestionLabel,
			Prompt:   q.QuestionText,
			Choices:  []string(q.Choices),
			Required: q.AnswerRequired,
		})
	}
	for _, p := range survey.Prompts {
		if p == nil {
			continue
		}
		def.Prompts = append(def.Prompts, schema.StoredQuestion{
			Num:      p.PromptNum,
			Type:     p.PromptType,
			Label:    p.PromptLabel,
			Prompt:   p.PromptText,
			Choices:  []string(p.Choices),
			Required: p.AnswerRequired,
		})
	}
	return def
}
