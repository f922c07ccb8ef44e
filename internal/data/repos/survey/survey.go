package survey

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/itinerum-backend/internal/domain"
	domainsurvey "github.com/yungbote/itinerum-backend/internal/domain/survey"
	"github.com/yungbote/itinerum-backend/internal/platform/dbctx"
	"github.com/yungbote/itinerum-backend/internal/platform/logger"
)

type SurveyRepo interface {
	Create(dbc dbctx.Context, s *types.Survey) (*types.Survey, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Survey, error)
	GetByName(dbc dbctx.Context, name string) (*types.Survey, error)
	ReplaceQuestions(dbc dbctx.Context, surveyID uuid.UUID, questions []*types.SurveyQuestion, prompts []*types.PromptQuestion) error
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	ListNames(dbc dbctx.Context) ([]string, error)
}

type surveyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSurveyRepo(db *gorm.DB, baseLog *logger.Logger) SurveyRepo {
	return &surveyRepo{db: db, log: baseLog.With("repo", "SurveyRepo")}
}

// Create inserts the survey with its questions and prompts.
func (r *surveyRepo) Create(dbc dbctx.Context, s *types.Survey) (*types.Survey, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if s == nil {
		return nil, nil
	}
	s.ApplyDefaults()
	if err := transaction.WithContext(dbc.Ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

func preloadSchema(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("question_num ASC") }).
		Preload("Prompts", func(db *gorm.DB) *gorm.DB { return db.Order("prompt_num ASC") })
}

func (r *surveyRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Survey, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Survey
	if err := preloadSchema(transaction.WithContext(dbc.Ctx)).
		Where("id = ?", id).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

// GetByName matches case-insensitively. Returns nil, nil when absent.
func (r *surveyRepo) GetByName(dbc dbctx.Context, name string) (*types.Survey, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	name = domainsurvey.NormalizeName(name)
	if name == "" {
		return nil, nil
	}
	var out []*types.Survey
	if err := preloadSchema(transaction.WithContext(dbc.Ctx)).
		Where("LOWER(name) = ?", name).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

// ReplaceQuestions swaps the survey's question and prompt lists.
func (r *surveyRepo) ReplaceQuestions(dbc dbctx.Context, surveyID uuid.UUID, questions []*types.SurveyQuestion, prompts []*types.PromptQuestion) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Transaction(func(txx *gorm.DB) error {
		if err := txx.Where("survey_id = ?", surveyID).Delete(&types.SurveyQuestion{}).Error; err != nil {
			return err
		}
		if err := txx.Where("survey_id = ?", surveyID).Delete(&types.PromptQuestion{}).Error; err != nil {
			return err
		}
		for _, q := range questions {
			q.SurveyID = surveyID
		}
		for _, p := range prompts {
			p.SurveyID = surveyID
		}
		if len(questions) > 0 {
			if err := txx.Omit(clause.Associations).Create(&questions).Error; err != nil {
				return err
			}
		}
		if len(prompts) > 0 {
			if err := txx.Omit(clause.Associations).Create(&prompts).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *surveyRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.Survey{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *surveyRepo) ListNames(dbc dbctx.Context) ([]string, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var names []string
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Survey{}).
		Order("name ASC").
		Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}
	return names, nil
}
