package mobile

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PromptResponse is one answered sub-question of a displayed mode prompt,
// keyed by (PromptUUID, PromptNum).
type PromptResponse struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SurveyID uuid.UUID `gorm:"type:uuid;not null;index" json:"survey_id"`
	MobileID uuid.UUID `gorm:"type:uuid;not null;index" json:"mobile_id"`

	PromptUUID string         `gorm:"column:prompt_uuid;not null;index:idx_prompt_uuid_num,unique,priority:1" json:"prompt_uuid"`
	PromptNum  int            `gorm:"column:prompt_num;not null;index:idx_prompt_uuid_num,unique,priority:2" json:"prompt_num"`
	Response   datatypes.JSON `gorm:"column:response" json:"response"`

	DisplayedAt time.Time  `gorm:"column:displayed_at;not null" json:"displayed_at"`
	RecordedAt  time.Time  `gorm:"column:recorded_at;not null" json:"recorded_at"`
	EditedAt    *time.Time `gorm:"column:edited_at" json:"edited_at,omitempty"`
	Latitude    float64    `gorm:"column:latitude;type:numeric(16,10)" json:"latitude"`
	Longitude   float64    `gorm:"column:longitude;type:numeric(16,10)" json:"longitude"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (PromptResponse) TableName() string { return "prompt_responses" }

func (p *PromptResponse) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// CancelledPromptResponse is a prompt the participant saw but dismissed. At
// most one row per PromptUUID, and never alongside a PromptResponse of the
// same UUID.
type CancelledPromptResponse struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SurveyID uuid.UUID `gorm:"type:uuid;not null;index" json:"survey_id"`
	MobileID uuid.UUID `gorm:"type:uuid;not null;index" json:"mobile_id"`

	PromptUUID   string     `gorm:"column:prompt_uuid;not null;uniqueIndex" json:"prompt_uuid"`
	Latitude     float64    `gorm:"column:latitude;type:numeric(16,10)" json:"latitude"`
	Longitude    float64    `gorm:"column:longitude;type:numeric(16,10)" json:"longitude"`
	DisplayedAt  time.Time  `gorm:"column:displayed_at;not null" json:"displayed_at"`
	CancelledAt  *time.Time `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	IsTravelling *bool      `gorm:"column:is_travelling" json:"is_travelling,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (CancelledPromptResponse) TableName() string { return "cancelled_prompt_responses" }

func (c *CancelledPromptResponse) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
