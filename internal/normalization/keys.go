package normalization

import (
	"regexp"
	"strings"
)

var (
	firstCap = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	allCap   = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// ToSnake converts camelCase (or PascalCase) to snake_case. Names already in
// snake_case are returned unchanged.
func ToSnake(name string) string {
	s := firstCap.ReplaceAllString(name, "${1}_${2}")
	s = allCap.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(s)
}

// ToCamel converts snake_case to lowerCamelCase. Names without underscores are
// returned unchanged apart from lower-casing the first rune.
func ToCamel(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	b.Grow(len(name))
	first := true
	for _, p := range parts {
		if p == "" {
			continue
		}
		if first {
			b.WriteString(strings.ToLower(p[:1]))
			b.WriteString(p[1:])
			first = false
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	if first {
		return name
	}
	return b.String()
}

// RenameKeys walks maps and slices and rewrites every map key with fn. Values
// under a key whose renamed form is listed in opaque are copied as-is; this is
// how survey answer maps keep their administrator-chosen labels.
func RenameKeys(v any, fn func(string) string, opaque ...string) any {
	skip := make(map[string]struct{}, len(opaque))
	for _, k := range opaque {
		skip[k] = struct{}{}
	}
	return renameKeys(v, fn, skip)
}

func renameKeys(v any, fn func(string) string, skip map[string]struct{}) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			nk := fn(k)
			if _, ok := skip[nk]; ok {
				out[nk] = val
				continue
			}
			out[nk] = renameKeys(val, fn, skip)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = renameKeys(val, fn, skip)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = renameKeys(val, fn, skip)
		}
		return out
	default:
		return v
	}
}

// SnakeKeys is RenameKeys with ToSnake.
func SnakeKeys(v any, opaque ...string) any {
	return RenameKeys(v, ToSnake, opaque...)
}

// CamelKeys is RenameKeys with ToCamel.
func CamelKeys(v any, opaque ...string) any {
	return RenameKeys(v, ToCamel, opaque...)
}
