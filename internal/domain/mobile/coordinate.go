package mobile

import (
	"time"

	"github.com/google/uuid"
)

// MobileCoordinate is one telemetry sample. Rows are insert-only; ID follows
// submission order.
type MobileCoordinate struct {
	ID       int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SurveyID uuid.UUID `gorm:"type:uuid;not null;index:idx_coordinate_survey_ts,priority:1" json:"survey_id"`
	MobileID uuid.UUID `gorm:"type:uuid;not null;index:idx_coordinate_mobile_ts,priority:1" json:"mobile_id"`

	Latitude      float64  `gorm:"column:latitude;type:numeric(10,7);not null" json:"latitude"`
	Longitude     float64  `gorm:"column:longitude;type:numeric(10,7);not null" json:"longitude"`
	Altitude      *float64 `gorm:"column:altitude;type:numeric(10,6)" json:"altitude,omitempty"`
	Speed         *float64 `gorm:"column:speed;type:numeric(10,6)" json:"speed,omitempty"`
	Direction     *float64 `gorm:"column:direction;type:numeric(10,6)" json:"direction,omitempty"`
	HAccuracy     *float64 `gorm:"column:h_accuracy" json:"h_accuracy,omitempty"`
	VAccuracy     *float64 `gorm:"column:v_accuracy" json:"v_accuracy,omitempty"`
	AccelerationX *float64 `gorm:"column:acceleration_x" json:"acceleration_x,omitempty"`
	AccelerationY *float64 `gorm:"column:acceleration_y" json:"acceleration_y,omitempty"`
	AccelerationZ *float64 `gorm:"column:acceleration_z" json:"acceleration_z,omitempty"`
	ModeDetected  *int     `gorm:"column:mode_detected" json:"mode_detected,omitempty"`
	PointType     *int     `gorm:"column:point_type" json:"point_type,omitempty"`

	Timestamp time.Time `gorm:"column:timestamp;not null;index:idx_coordinate_survey_ts,priority:2;index:idx_coordinate_mobile_ts,priority:2" json:"timestamp"`
}

func (MobileCoordinate) TableName() string { return "mobile_coordinates" }
