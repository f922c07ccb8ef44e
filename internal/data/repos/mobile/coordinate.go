package mobile

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/itinerum-backend/internal/domain"
	"github.com/yungbote/itinerum-backend/internal/platform/dbctx"
	"github.com/yungbote/itinerum-backend/internal/platform/logger"
)

// statementRows caps rows per INSERT statement; 14 columns per row keeps this
// under the sqlite and postgres bind parameter limits.
const statementRows = 1000

type CoordinateRepo interface {
	CreateBatch(dbc dbctx.Context, rows []*types.MobileCoordinate) (int64, error)
	ListByMobileID(dbc dbctx.Context, mobileID uuid.UUID) ([]*types.MobileCoordinate, error)
	Count(dbc dbctx.Context, mobileID uuid.UUID) (int64, error)
}

type coordinateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCoordinateRepo(db *gorm.DB, baseLog *logger.Logger) CoordinateRepo {
	return &coordinateRepo{db: db, log: baseLog.With("repo", "CoordinateRepo")}
}

// CreateBatch inserts rows in the given order and returns the affected count.
func (r *coordinateRepo) CreateBatch(dbc dbctx.Context, rows []*types.MobileCoordinate) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).CreateInBatches(rows, statementRows)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// ListByMobileID returns a participant's points in insertion order.
func (r *coordinateRepo) ListByMobileID(dbc dbctx.Context, mobileID uuid.UUID) ([]*types.MobileCoordinate, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.MobileCoordinate
	if err := transaction.WithContext(dbc.Ctx).
		Where("mobile_id = ?", mobileID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *coordinateRepo) Count(dbc dbctx.Context, mobileID uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.MobileCoordinate{}).
		Where("mobile_id = ?", mobileID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
