package mobile

import (
	"reflect"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/itinerum-backend/internal/domain"
	"github.com/yungbote/itinerum-backend/internal/platform/dbctx"
	"github.com/yungbote/itinerum-backend/internal/platform/logger"
)

// UpsertOutcome reports what a survey response upsert did.
type UpsertOutcome struct {
	Created bool
	Changed bool
}

type SurveyResponseRepo interface {
	GetByMobileID(dbc dbctx.Context, mobileID uuid.UUID) (*types.SurveyResponse, error)
	Upsert(dbc dbctx.Context, surveyID, mobileID uuid.UUID, answers map[string]any, knownLabels []string) (*types.SurveyResponse, UpsertOutcome, error)
	Count(dbc dbctx.Context, mobileID uuid.UUID) (int64, error)
}

type surveyResponseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSurveyResponseRepo(db *gorm.DB, baseLog *logger.Logger) SurveyResponseRepo {
	return &surveyResponseRepo{db: db, log: baseLog.With("repo", "SurveyResponseRepo")}
}

func (r *surveyResponseRepo) GetByMobileID(dbc dbctx.Context, mobileID uuid.UUID) (*types.SurveyResponse, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if mobileID == uuid.Nil {
		return nil, nil
	}
	var out []*types.SurveyResponse
	if err := transaction.WithContext(dbc.Ctx).
		Where("mobile_id = ?", mobileID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

// Upsert merges answers into the participant's single response, keyed by
// label. Keys outside knownLabels are dropped so the stored map only ever
// holds labels of the participant's survey.
func (r *surveyResponseRepo) Upsert(dbc dbctx.Context, surveyID, mobileID uuid.UUID, answers map[string]any, knownLabels []string) (*types.SurveyResponse, UpsertOutcome, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	known := make(map[string]struct{}, len(knownLabels))
	for _, l := range knownLabels {
		known[l] = struct{}{}
	}

	existing, err := r.GetByMobileID(dbctx.Context{Ctx: dbc.Ctx, Tx: transaction}, mobileID)
	if err != nil {
		return nil, UpsertOutcome{}, err
	}

	merged := datatypes.JSONMap{}
	if existing != nil {
		for k, v := range existing.Response {
			if _, ok := known[k]; ok {
				merged[k] = v
			}
		}
	}
	for k, v := range answers {
		if _, ok := known[k]; ok {
			merged[k] = v
		}
	}

	if existing == nil {
		row := &types.SurveyResponse{SurveyID: surveyID, MobileID: mobileID, Response: merged}
		if err := transaction.WithContext(dbc.Ctx).Create(row).Error; err != nil {
			return nil, UpsertOutcome{}, err
		}
		return row, UpsertOutcome{Created: true, Changed: true}, nil
	}
	if sameAnswers(existing.Response, merged) {
		return existing, UpsertOutcome{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.SurveyResponse{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{"response": merged}).Error; err != nil {
		return nil, UpsertOutcome{}, err
	}
	existing.Response = merged
	return existing, UpsertOutcome{Changed: true}, nil
}

func (r *surveyResponseRepo) Count(dbc dbctx.Context, mobileID uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.SurveyResponse{}).
		Where("mobile_id = ?", mobileID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// Stored values come back from JSON, so compare through a JSON round trip.
func sameAnswers(stored, next datatypes.JSONMap) bool {
	a, errA := stored.MarshalJSON()
	b, errB := next.MarshalJSON()
	if errA != nil || errB != nil {
		return false
	}
	var ma, mb map[string]any
	if err := json.Unmarshal(a, &ma); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &mb); err != nil {
		return false
	}
	return reflect.DeepEqual(ma, mb)
}
