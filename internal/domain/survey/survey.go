package survey

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Tunable defaults handed to the mobile app on registration.
const (
	DefaultMaxSurveyDays              = 14
	DefaultMaxPrompts                 = 20
	DefaultGPSAccuracyThreshold       = 50
	DefaultTripBreakInterval          = 360
	DefaultTripBreakColdStartDistance = 750
	DefaultTripSubwayBuffer           = 300
)

type Survey struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	// SchemaRevision pins the legacy decode tables; stamped once at creation.
	SchemaRevision string `gorm:"column:schema_revision;not null;default:''" json:"schema_revision"`
	PrettyName     string `gorm:"column:pretty_name" json:"pretty_name"`
	Language       string `gorm:"column:language;size:2;not null" json:"language"`
	AboutText      string `gorm:"column:about_text" json:"about_text"`
	TermsOfService string `gorm:"column:terms_of_service" json:"terms_of_service"`
	ContactEmail   string `gorm:"column:contact_email" json:"contact_email"`
	AvatarURI      string `gorm:"column:avatar_uri" json:"avatar_uri"`

	MaxSurveyDays              int  `gorm:"column:max_survey_days;not null" json:"max_survey_days"`
	MaxPrompts                 int  `gorm:"column:max_prompts;not null" json:"max_prompts"`
	GPSAccuracyThreshold       int  `gorm:"column:gps_accuracy_threshold;not null" json:"gps_accuracy_threshold"`
	TripBreakInterval          int  `gorm:"column:trip_break_interval;not null" json:"trip_break_interval"`
	TripBreakColdStartDistance int  `gorm:"column:trip_break_cold_start_distance;not null" json:"trip_break_cold_start_distance"`
	TripSubwayBuffer           int  `gorm:"column:trip_subway_buffer;not null" json:"trip_subway_buffer"`
	RecordAcceleration         bool `gorm:"column:record_acceleration;not null" json:"record_acceleration"`
	RecordMode                 bool `gorm:"column:record_mode;not null" json:"record_mode"`

	Questions []*SurveyQuestion `gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	Prompts   []*PromptQuestion `gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE" json:"prompts,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Survey) TableName() string { return "surveys" }

func (s *Survey) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.Name = NormalizeName(s.Name)
	return nil
}

// ApplyDefaults fills zero tunables with platform defaults. Booleans are not
// touched; callers decide those explicitly.
func (s *Survey) ApplyDefaults() {
	if s.MaxSurveyDays == 0 {
		s.MaxSurveyDays = DefaultMaxSurveyDays
	}
	if s.MaxPrompts == 0 {
		s.MaxPrompts = DefaultMaxPrompts
	}
	if s.GPSAccuracyThreshold == 0 {
		s.GPSAccuracyThreshold = DefaultGPSAccuracyThreshold
	}
	if s.TripBreakInterval == 0 {
		s.TripBreakInterval = DefaultTripBreakInterval
	}
	if s.TripBreakColdStartDistance == 0 {
		s.TripBreakColdStartDistance = DefaultTripBreakColdStartDistance
	}
	if s.TripSubwayBuffer == 0 {
		s.TripSubwayBuffer = DefaultTripSubwayBuffer
	}
	if strings.TrimSpace(s.Language) == "" {
		s.Language = "en"
	}
}

// NormalizeName is the canonical stored form of a survey name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type SurveyQuestion struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	SurveyID       uuid.UUID                   `gorm:"type:uuid;not null;index:idx_survey_question_num,unique,priority:1" json:"survey_id"`
	QuestionNum    int                         `gorm:"column:question_num;not null;index:idx_survey_question_num,unique,priority:2" json:"question_num"`
	QuestionType   int                         `gorm:"column:question_type;not null" json:"question_type"`
	QuestionLabel  string                      `gorm:"column:question_label;not null" json:"question_label"`
	QuestionText   string                      `gorm:"column:question_text" json:"question_text"`
	AnswerRequired bool                        `gorm:"column:answer_required;not null" json:"answer_required"`
	Choices        datatypes.JSONSlice[string] `gorm:"column:choices" json:"choices"`
}

func (SurveyQuestion) TableName() string { return "survey_questions" }

func (q *SurveyQuestion) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

type PromptQuestion struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	SurveyID       uuid.UUID                   `gorm:"type:uuid;not null;index:idx_survey_prompt_num,unique,priority:1" json:"survey_id"`
	PromptNum      int                         `gorm:"column:prompt_num;not null;index:idx_survey_prompt_num,unique,priority:2" json:"prompt_num"`
	PromptType     int                         `gorm:"column:prompt_type;not null" json:"prompt_type"`
	PromptLabel    string                      `gorm:"column:prompt_label;not null" json:"prompt_label"`
	PromptText     string                      `gorm:"column:prompt_text" json:"prompt_text"`
	AnswerRequired bool                        `gorm:"column:answer_required;not null" json:"answer_required"`
	Choices        datatypes.JSONSlice[string] `gorm:"column:choices" json:"choices"`
}

func (PromptQuestion) TableName() string { return "prompt_questions" }

func (p *PromptQuestion) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
