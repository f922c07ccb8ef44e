package ingest

import (
	"errors"

	"github.com/goccy/go-json"

	domainagg "github.com/yungbote/itinerum-backend/internal/domain/aggregates"
	"github.com/yungbote/itinerum-backend/internal/domain/survey"
	"github.com/yungbote/itinerum-backend/internal/validation"
)

const registerOp = "ingest.ParseRegister"

// Device is the descriptor a phone sends when it registers.
type Device struct {
	UUID            string     `json:"uuid" validate:"required"`
	Model           string     `json:"model"`
	ItinerumVersion string     `json:"itinerum_version"`
	OS              string     `json:"os"`
	OSVersion       string     `json:"os_version"`
	CreatedAt       *Timestamp `json:"created_at"`
}

type RegisterRequest struct {
	SurveyName string `json:"survey_name" validate:"required"`
	User       Device `json:"user"`
}

// ParseRegister decodes a snake-cased register payload. The survey name comes
// back in its canonical lookup form.
func ParseRegister(payload map[string]any) (*RegisterRequest, error) {
	if _, ok := payload["user"].(map[string]any); !ok {
		return nil, domainagg.Validationf(registerOp, "Missing parameter (user)")
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, domainagg.Validationf(registerOp, "%v", err)
	}
	var req RegisterRequest
	if err := json.Unmarshal(b, &req); err != nil {
		return nil, domainagg.Validationf(registerOp, "%v", err)
	}
	req.SurveyName = survey.NormalizeName(req.SurveyName)

	if err := validation.Struct(&req); err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, domainagg.Validationf(registerOp, "%s", verrs.Error())
		}
		return nil, domainagg.Validationf(registerOp, "%v", err)
	}
	return &req, nil
}
