package grading

import "strings"

// normalize applies the text-answer comparison rules: leading/trailing
// whitespace is ignored and comparison is case-insensitive. Interior
// whitespace is significant.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// toStringSlice accepts []string directly or a decoded JSON array.
// Non-string elements mark the whole value malformed.
func toStringSlice(v interface{}) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return t, true
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func toSet(arr []string) map[string]struct{} {
	m := make(map[string]struct{}, len(arr))
	for _, s := range arr {
		m[s] = struct{}{}
	}
	return m
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
