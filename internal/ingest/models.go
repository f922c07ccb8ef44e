package ingest

import (
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/itinerum-backend/internal/domain/mobile"
)

// Owner identifies the participant rows are written for.
type Owner struct {
	SurveyID uuid.UUID
	MobileID uuid.UUID
}

func (c Coordinate) Model(o Owner) *mobile.MobileCoordinate {
	return &mobile.MobileCoordinate{
		SurveyID:      o.SurveyID,
		MobileID:      o.MobileID,
		Latitude:      float64(*c.Latitude),
		Longitude:     float64(*c.Longitude),
		Altitude:      c.Altitude.Ptr(),
		Speed:         c.Speed.Ptr(),
		Direction:     c.Direction.Ptr(),
		HAccuracy:     c.HAccuracy.Ptr(),
		VAccuracy:     c.VAccuracy.Ptr(),
		AccelerationX: c.AccelerationX.Ptr(),
		AccelerationY: c.AccelerationY.Ptr(),
		AccelerationZ: c.AccelerationZ.Ptr(),
		ModeDetected:  c.ModeDetected.Ptr(),
		PointType:     c.PointType.Ptr(),
		Timestamp:     c.Timestamp.Time,
	}
}

func (p PromptAnswer) Model(o Owner) (*mobile.PromptResponse, error) {
	answer, err := json.Marshal(p.Answer)
	if err != nil {
		return nil, err
	}
	return &mobile.PromptResponse{
		SurveyID:    o.SurveyID,
		MobileID:    o.MobileID,
		PromptUUID:  p.UUID,
		PromptNum:   int(*p.PromptNum),
		Response:    datatypes.JSON(answer),
		DisplayedAt: p.DisplayedAt.Time,
		RecordedAt:  p.RecordedAt.Time,
		Latitude:    float64(*p.Latitude),
		Longitude:   float64(*p.Longitude),
	}, nil
}

func (c CancelledPrompt) Model(o Owner) *mobile.CancelledPromptResponse {
	return &mobile.CancelledPromptResponse{
		SurveyID:     o.SurveyID,
		MobileID:     o.MobileID,
		PromptUUID:   c.UUID,
		Latitude:     float64(*c.Latitude),
		Longitude:    float64(*c.Longitude),
		DisplayedAt:  c.DisplayedAt.Time,
		CancelledAt:  c.CancelledAt.Ptr(),
		IsTravelling: c.IsTravelling,
	}
}

// Models converts every parsed stream for owner o.
func (r *SyncRequest) Models(o Owner) ([]*mobile.MobileCoordinate, []*mobile.PromptResponse, []*mobile.CancelledPromptResponse, error) {
	coords := make([]*mobile.MobileCoordinate, 0, len(r.Coordinates))
	for _, c := range r.Coordinates {
		coords = append(coords, c.Model(o))
	}
	prompts := make([]*mobile.PromptResponse, 0, len(r.Prompts))
	for _, p := range r.Prompts {
		m, err := p.Model(o)
		if err != nil {
			return nil, nil, nil, err
		}
		prompts = append(prompts, m)
	}
	cancelled := make([]*mobile.CancelledPromptResponse, 0, len(r.Cancelled))
	for _, c := range r.Cancelled {
		cancelled = append(cancelled, c.Model(o))
	}
	return coords, prompts, cancelled, nil
}
