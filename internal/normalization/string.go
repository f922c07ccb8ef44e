package normalization

import (
	"strings"
)

// ParseInputString lower-cases and trims free-form identifiers such as survey
// names typed into the app.
func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// TrimmedString returns the trimmed string form of a decoded JSON scalar.
// Non-string values yield "", false.
func TrimmedString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}
