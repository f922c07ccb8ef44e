package mobile

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/itinerum-backend/internal/domain/survey"
)

// MobileUser is a survey participant, identified by the UUID generated on the
// device at install time.
type MobileUser struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SurveyID uuid.UUID      `gorm:"type:uuid;not null;index" json:"survey_id"`
	Survey   *survey.Survey `gorm:"constraint:OnDelete:CASCADE;foreignKey:SurveyID;references:ID" json:"survey,omitempty"`

	UUID            string `gorm:"column:uuid;not null;uniqueIndex" json:"uuid"`
	Model           string `gorm:"column:model" json:"model"`
	ItinerumVersion string `gorm:"column:itinerum_version" json:"itinerum_version"`
	OS              string `gorm:"column:os" json:"os"`
	OSVersion       string `gorm:"column:os_version" json:"os_version"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (MobileUser) TableName() string { return "mobile_users" }

func (u *MobileUser) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// DeviceFields are the only columns a repeat registration may overwrite.
var DeviceFields = []string{"model", "itinerum_version", "os", "os_version", "updated_at"}
