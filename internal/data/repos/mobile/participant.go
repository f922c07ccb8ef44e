package mobile

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/itinerum-backend/internal/domain"
	domainmobile "github.com/yungbote/itinerum-backend/internal/domain/mobile"
	"github.com/yungbote/itinerum-backend/internal/platform/dbctx"
	"github.com/yungbote/itinerum-backend/internal/platform/logger"
)

type ParticipantRepo interface {
	Create(dbc dbctx.Context, u *types.MobileUser) (*types.MobileUser, error)
	GetByUUID(dbc dbctx.Context, deviceUUID string) (*types.MobileUser, error)
	UpdateDeviceFields(dbc dbctx.Context, u *types.MobileUser) error
	Count(dbc dbctx.Context, surveyID uuid.UUID) (int64, error)
}

type participantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewParticipantRepo(db *gorm.DB, baseLog *logger.Logger) ParticipantRepo {
	return &participantRepo{db: db, log: baseLog.With("repo", "ParticipantRepo")}
}

func (r *participantRepo) Create(dbc dbctx.Context, u *types.MobileUser) (*types.MobileUser, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if u == nil {
		return nil, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Omit("Survey").Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// GetByUUID returns nil, nil for an unknown device UUID.
func (r *participantRepo) GetByUUID(dbc dbctx.Context, deviceUUID string) (*types.MobileUser, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	deviceUUID = strings.TrimSpace(deviceUUID)
	if deviceUUID == "" {
		return nil, nil
	}
	var out []*types.MobileUser
	if err := transaction.WithContext(dbc.Ctx).
		Where("uuid = ?", deviceUUID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

// UpdateDeviceFields writes only the device descriptor columns of u.
func (r *participantRepo) UpdateDeviceFields(dbc dbctx.Context, u *types.MobileUser) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if u == nil || u.ID == uuid.Nil {
		return nil
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = time.Now().UTC()
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.MobileUser{}).
		Where("id = ?", u.ID).
		Select(domainmobile.DeviceFields).
		Updates(map[string]interface{}{
			"model":            u.Model,
			"itinerum_version": u.ItinerumVersion,
			"os":               u.OS,
			"os_version":       u.OSVersion,
			"updated_at":       u.UpdatedAt,
		}).Error
}

func (r *participantRepo) Count(dbc dbctx.Context, surveyID uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	q := transaction.WithContext(dbc.Ctx).Model(&types.MobileUser{})
	if surveyID != uuid.Nil {
		q = q.Where("survey_id = ?", surveyID)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
