// Package decoder turns raw survey answers into the values stored on a
// participant's survey response.
package decoder

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	domainagg "github.com/yungbote/itinerum-backend/internal/domain/aggregates"
	"github.com/yungbote/itinerum-backend/internal/schema"
)

const op = "decoder.Decode"

// Decode converts one raw answer for label using the resolved survey schema.
// Unknown labels and out-of-range coded answers are validation errors.
func Decode(resolved *schema.Resolved, label string, raw any) (any, error) {
	q, ok := resolved.Question(label)
	if !ok {
		return nil, domainagg.Validationf(op, "Unknown survey question: %s", label)
	}
	raw = unwrapSingle(raw)
	if raw == nil {
		return nil, nil
	}
	switch q.Strategy() {
	case schema.DecodeVerbatim:
		return raw, nil
	case schema.DecodeCodedChoice:
		return decodeCoded(q, raw)
	case schema.DecodeNumber:
		return decodeNumber(q, raw)
	case schema.DecodeGeoPair:
		return decodeGeo(q, raw)
	case schema.DecodeBoolean:
		return decodeBool(q, raw)
	case schema.DecodeNone:
		return nil, domainagg.Validationf(op, "Question %s does not accept an answer.", q.Label)
	default:
		return nil, domainagg.Validationf(op, "Question %s has an unsupported type %d.", q.Label, q.Type)
	}
}

// DecodeAll decodes every answer, keyed by its original label. The first
// failure aborts the whole map.
func DecodeAll(resolved *schema.Resolved, answers map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(answers))
	for label, raw := range answers {
		v, err := Decode(resolved, label, raw)
		if err != nil {
			return nil, err
		}
		out[label] = v
	}
	return out, nil
}

func unwrapSingle(raw any) any {
	if list, ok := raw.([]any); ok && len(list) == 1 {
		return list[0]
	}
	return raw
}

func decodeCoded(q schema.Question, raw any) (any, error) {
	if len(q.Choices) == 0 {
		return raw, nil
	}
	if list, ok := raw.([]any); ok {
		out := make([]any, 0, len(list))
		for _, item := range list {
			text, err := codedText(q, item)
			if err != nil {
				return nil, err
			}
			out = append(out, text)
		}
		return out, nil
	}
	return codedText(q, raw)
}

func codedText(q schema.Question, raw any) (string, error) {
	if s, ok := raw.(string); ok {
		trimmed := strings.TrimSpace(s)
		if _, err := strconv.Atoi(trimmed); err != nil {
			// Clients that already send the choice text.
			for _, c := range q.Choices {
				if c == s {
					return s, nil
				}
			}
			return "", domainagg.Validationf(op, "Invalid answer for %s: %q", q.Label, s)
		}
	}
	idx, ok := asIndex(raw)
	if !ok {
		return "", domainagg.Validationf(op, "Invalid answer for %s: %v", q.Label, raw)
	}
	if idx < 0 || idx >= len(q.Choices) {
		return "", domainagg.Validationf(op, "Answer index %d out of range for %s.", idx, q.Label)
	}
	return q.Choices[idx], nil
}

func asIndex(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func decodeNumber(q schema.Question, raw any) (any, error) {
	switch v := raw.(type) {
	case json.Number:
		if _, err := v.Float64(); err != nil {
			return nil, domainagg.Validationf(op, "Invalid number for %s: %s", q.Label, v)
		}
		return v, nil
	case float64, int, int64:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return nil, domainagg.Validationf(op, "Invalid number for %s: %q", q.Label, v)
		}
		return json.Number(s), nil
	default:
		return nil, domainagg.Validationf(op, "Invalid number for %s: %v", q.Label, raw)
	}
}

func decodeGeo(q schema.Question, raw any) (any, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, domainagg.Validationf(op, "Invalid location for %s: expected latitude and longitude.", q.Label)
	}
	for _, k := range []string{"latitude", "longitude"} {
		if _, ok := m[k]; !ok {
			return nil, domainagg.Validationf(op, "Invalid location for %s: missing %s.", q.Label, k)
		}
	}
	return m, nil
}

func decodeBool(q schema.Question, raw any) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, domainagg.Validationf(op, "Invalid answer for %s: %q", q.Label, v)
		}
		return b, nil
	default:
		return nil, domainagg.Validationf(op, "Invalid answer for %s: %v", q.Label, raw)
	}
}
