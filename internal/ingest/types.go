// Package ingest parses a key-normalized sync payload into typed records.
// Everything here is validated before the first database write.
package ingest

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// FlexFloat accepts a JSON number or a numeric string. Older iOS builds send
// coordinates as strings.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", s)
		}
		*f = FlexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("invalid number %s", string(b))
	}
	*f = FlexFloat(v)
	return nil
}

func (f *FlexFloat) Ptr() *float64 {
	if f == nil {
		return nil
	}
	v := float64(*f)
	return &v
}

// FlexInt accepts an integer or an integer string.
type FlexInt int

func (i *FlexInt) UnmarshalJSON(b []byte) error {
	var f FlexFloat
	if err := f.UnmarshalJSON(b); err != nil {
		return err
	}
	if float64(f) != float64(int(f)) {
		return fmt.Errorf("invalid integer %s", string(b))
	}
	*i = FlexInt(int(f))
	return nil
}

func (i *FlexInt) Ptr() *int {
	if i == nil {
		return nil
	}
	v := int(*i)
	return &v
}

// Timestamp is an ISO-8601 time that must carry a zone offset.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-0700",
}

// ParseTimestamp parses s, rejecting values without an offset.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q: expected ISO-8601 with timezone offset", s)
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("invalid timestamp %s", string(b))
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t *Timestamp) Ptr() *time.Time {
	if t == nil {
		return nil
	}
	v := t.Time
	return &v
}

// Coordinate is one telemetry point.
type Coordinate struct {
	Latitude      *FlexFloat `json:"latitude" validate:"required,latitude"`
	Longitude     *FlexFloat `json:"longitude" validate:"required,longitude"`
	Altitude      *FlexFloat `json:"altitude"`
	Speed         *FlexFloat `json:"speed"`
	Direction     *FlexFloat `json:"direction"`
	HAccuracy     *FlexFloat `json:"h_accuracy"`
	VAccuracy     *FlexFloat `json:"v_accuracy"`
	AccelerationX *FlexFloat `json:"acceleration_x"`
	AccelerationY *FlexFloat `json:"acceleration_y"`
	AccelerationZ *FlexFloat `json:"acceleration_z"`
	ModeDetected  *FlexInt   `json:"mode_detected"`
	PointType     *FlexInt   `json:"point_type"`
	Timestamp     *Timestamp `json:"timestamp" validate:"required"`
}

// PromptAnswer is one answered sub-question of a displayed prompt.
type PromptAnswer struct {
	UUID        string     `json:"uuid"`
	PromptNum   *FlexInt   `json:"prompt_num" validate:"required,gte=0"`
	Answer      any        `json:"answer"`
	DisplayedAt *Timestamp `json:"displayed_at" validate:"required"`
	RecordedAt  *Timestamp `json:"recorded_at" validate:"required"`
	Latitude    *FlexFloat `json:"latitude" validate:"required,latitude"`
	Longitude   *FlexFloat `json:"longitude" validate:"required,longitude"`
}

// CancelledPrompt is a prompt dismissed without a full answer.
type CancelledPrompt struct {
	UUID         string     `json:"uuid"`
	DisplayedAt  *Timestamp `json:"displayed_at" validate:"required"`
	CancelledAt  *Timestamp `json:"cancelled_at"`
	IsTravelling *bool      `json:"is_travelling"`
	Latitude     *FlexFloat `json:"latitude" validate:"required,latitude"`
	Longitude    *FlexFloat `json:"longitude" validate:"required,longitude"`
}

// SyncRequest is a parsed sync payload. A nil stream was absent.
type SyncRequest struct {
	ParticipantUUID string
	SurveyAnswers   map[string]any
	Coordinates     []Coordinate
	Prompts         []PromptAnswer
	Cancelled       []CancelledPrompt
}

// Empty reports whether no stream carries any data.
func (r *SyncRequest) Empty() bool {
	return len(r.SurveyAnswers) == 0 && len(r.Coordinates) == 0 && len(r.Prompts) == 0 && len(r.Cancelled) == 0
}
