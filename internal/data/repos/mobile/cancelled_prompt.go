package mobile

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/itinerum-backend/internal/domain"
	"github.com/yungbote/itinerum-backend/internal/platform/dbctx"
	"github.com/yungbote/itinerum-backend/internal/platform/logger"
)

type CancelledPromptRepo interface {
	GetByUUIDs(dbc dbctx.Context, promptUUIDs []string) ([]*types.CancelledPromptResponse, error)
	// InsertIgnoreDuplicate inserts row unless its prompt UUID already has a
	// cancelled row. It reports whether a row was written.
	InsertIgnoreDuplicate(dbc dbctx.Context, row *types.CancelledPromptResponse) (bool, error)
	DeleteByUUIDs(dbc dbctx.Context, promptUUIDs []string) (int64, error)
	ListByMobileID(dbc dbctx.Context, mobileID uuid.UUID) ([]*types.CancelledPromptResponse, error)
	Count(dbc dbctx.Context, mobileID uuid.UUID) (int64, error)
}

type cancelledPromptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCancelledPromptRepo(db *gorm.DB, baseLog *logger.Logger) CancelledPromptRepo {
	return &cancelledPromptRepo{db: db, log: baseLog.With("repo", "CancelledPromptRepo")}
}

func (r *cancelledPromptRepo) GetByUUIDs(dbc dbctx.Context, promptUUIDs []string) ([]*types.CancelledPromptResponse, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.CancelledPromptResponse
	if len(promptUUIDs) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("prompt_uuid IN ?", promptUUIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *cancelledPromptRepo) InsertIgnoreDuplicate(dbc dbctx.Context, row *types.CancelledPromptResponse) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return false, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "prompt_uuid"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *cancelledPromptRepo) DeleteByUUIDs(dbc dbctx.Context, promptUUIDs []string) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(promptUUIDs) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("prompt_uuid IN ?", promptUUIDs).
		Delete(&types.CancelledPromptResponse{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *cancelledPromptRepo) ListByMobileID(dbc dbctx.Context, mobileID uuid.UUID) ([]*types.CancelledPromptResponse, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.CancelledPromptResponse
	if err := transaction.WithContext(dbc.Ctx).
		Where("mobile_id = ?", mobileID).
		Order("displayed_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *cancelledPromptRepo) Count(dbc dbctx.Context, mobileID uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.CancelledPromptResponse{}).
		Where("mobile_id = ?", mobileID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
