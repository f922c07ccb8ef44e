package mobile

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SurveyResponse holds one participant's decoded answers keyed by question label.
type SurveyResponse struct {
	ID       uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	SurveyID uuid.UUID         `gorm:"type:uuid;not null;index" json:"survey_id"`
	MobileID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex" json:"mobile_id"`
	Response datatypes.JSONMap `gorm:"column:response" json:"response"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (SurveyResponse) TableName() string { return "survey_responses" }

func (r *SurveyResponse) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
