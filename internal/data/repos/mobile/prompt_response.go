package mobile

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/itinerum-backend/internal/domain"
	"github.com/yungbote/itinerum-backend/internal/platform/dbctx"
	"github.com/yungbote/itinerum-backend/internal/platform/logger"
)

type PromptResponseRepo interface {
	GetByUUIDs(dbc dbctx.Context, promptUUIDs []string) ([]*types.PromptResponse, error)
	Create(dbc dbctx.Context, rows []*types.PromptResponse) ([]*types.PromptResponse, error)
	UpdateAnswer(dbc dbctx.Context, id uuid.UUID, row *types.PromptResponse, editedAt time.Time) error
	ListByMobileID(dbc dbctx.Context, mobileID uuid.UUID) ([]*types.PromptResponse, error)
	Count(dbc dbctx.Context, mobileID uuid.UUID) (int64, error)
}

type promptResponseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPromptResponseRepo(db *gorm.DB, baseLog *logger.Logger) PromptResponseRepo {
	return &promptResponseRepo{db: db, log: baseLog.With("repo", "PromptResponseRepo")}
}

func (r *promptResponseRepo) GetByUUIDs(dbc dbctx.Context, promptUUIDs []string) ([]*types.PromptResponse, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.PromptResponse
	if len(promptUUIDs) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("prompt_uuid IN ?", promptUUIDs).
		Order("prompt_uuid ASC, prompt_num ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *promptResponseRepo) Create(dbc dbctx.Context, rows []*types.PromptResponse) ([]*types.PromptResponse, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.PromptResponse{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateAnswer rewrites the answer fields of an existing row in place and
// stamps edited_at. displayed_at stays as first recorded.
func (r *promptResponseRepo) UpdateAnswer(dbc dbctx.Context, id uuid.UUID, row *types.PromptResponse, editedAt time.Time) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || row == nil {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.PromptResponse{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"response":    row.Response,
			"recorded_at": row.RecordedAt,
			"latitude":    row.Latitude,
			"longitude":   row.Longitude,
			"edited_at":   editedAt,
		}).Error
}

func (r *promptResponseRepo) ListByMobileID(dbc dbctx.Context, mobileID uuid.UUID) ([]*types.PromptResponse, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.PromptResponse
	if err := transaction.WithContext(dbc.Ctx).
		Where("mobile_id = ?", mobileID).
		Order("displayed_at ASC, prompt_uuid ASC, prompt_num ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *promptResponseRepo) Count(dbc dbctx.Context, mobileID uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.PromptResponse{}).
		Where("mobile_id = ?", mobileID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
