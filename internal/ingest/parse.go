package ingest

import (
	"errors"

	"github.com/goccy/go-json"

	domainagg "github.com/yungbote/itinerum-backend/internal/domain/aggregates"
	"github.com/yungbote/itinerum-backend/internal/normalization"
	"github.com/yungbote/itinerum-backend/internal/validation"
)

const parseOp = "ingest.Parse"

const (
	MsgMissingParticipant = "UUID must be supplied. No action taken."
	MsgMissingPromptUUID  = "Missing parameter (uuid): A prompt uuid must be supplied for each event."
)

// Stream keys of a snake-cased sync payload.
const (
	KeyUUID        = "uuid"
	KeySurvey      = "survey"
	KeyCoordinates = "coordinates"
	KeyPrompts     = "prompts"
	KeyCancelled   = "cancelled_prompts"
)

// Parse turns a snake-cased sync payload into a SyncRequest. Any malformed
// record fails the whole payload.
func Parse(payload map[string]any) (*SyncRequest, error) {
	participant, _ := normalization.TrimmedString(payload[KeyUUID])
	if participant == "" {
		return nil, domainagg.Validationf(parseOp, MsgMissingParticipant)
	}
	req := &SyncRequest{ParticipantUUID: participant}

	if raw, ok := payload[KeySurvey]; ok && raw != nil {
		answers, ok := raw.(map[string]any)
		if !ok {
			return nil, domainagg.Validationf(parseOp, "survey must be an object of answers")
		}
		req.SurveyAnswers = answers
	}
	if err := decodeStream(payload[KeyCoordinates], KeyCoordinates, &req.Coordinates); err != nil {
		return nil, err
	}
	if err := decodeStream(promptRecords(payload[KeyPrompts]), KeyPrompts, &req.Prompts); err != nil {
		return nil, err
	}
	if err := decodeStream(payload[KeyCancelled], KeyCancelled, &req.Cancelled); err != nil {
		return nil, err
	}

	for _, p := range req.Prompts {
		if p.UUID == "" {
			return nil, domainagg.Validationf(parseOp, MsgMissingPromptUUID)
		}
	}
	for _, c := range req.Cancelled {
		if c.UUID == "" {
			return nil, domainagg.Validationf(parseOp, MsgMissingPromptUUID)
		}
	}
	for i := range req.Coordinates {
		if err := validateRecord(KeyCoordinates, i, &req.Coordinates[i]); err != nil {
			return nil, err
		}
	}
	for i := range req.Prompts {
		if err := validateRecord(KeyPrompts, i, &req.Prompts[i]); err != nil {
			return nil, err
		}
	}
	for i := range req.Cancelled {
		if err := validateRecord(KeyCancelled, i, &req.Cancelled[i]); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// promptRecords renames the legacy "timestamp" key to "displayed_at".
func promptRecords(raw any) any {
	list, ok := raw.([]any)
	if !ok {
		return raw
	}
	out := make([]any, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			out[i] = item
			continue
		}
		if ts, legacy := m["timestamp"]; legacy {
			if _, has := m["displayed_at"]; !has {
				cp := make(map[string]any, len(m))
				for k, v := range m {
					cp[k] = v
				}
				cp["displayed_at"] = ts
				delete(cp, "timestamp")
				m = cp
			}
		}
		out[i] = m
	}
	return out
}

func decodeStream(raw any, name string, dst any) error {
	if raw == nil {
		return nil
	}
	if _, ok := raw.([]any); !ok {
		return domainagg.Validationf(parseOp, "%s must be a list", name)
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return domainagg.Validationf(parseOp, "%s: %v", name, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return domainagg.Validationf(parseOp, "%s: %v", name, err)
	}
	return nil
}

func validateRecord(stream string, idx int, rec any) error {
	err := validation.Struct(rec)
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return domainagg.Validationf(parseOp, "%s[%d]: %s", stream, idx, verrs.Error())
	}
	return domainagg.Validationf(parseOp, "%s[%d]: %v", stream, idx, err)
}
