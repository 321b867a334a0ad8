package yamltree

import (
	"strconv"

	"github.com/goccy/go-yaml"
)

// AsMap returns the node as an ordered map and true, if it is one.
func AsMap(v any) (yaml.MapSlice, bool) {
	m, ok := v.(yaml.MapSlice)
	return m, ok
}

// AsSequence returns the node as a sequence and true, if it is one.
func AsSequence(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

// AsString returns the node as a string and true, if it is exactly a string
// (no coercion — use AsStringLike for loosely-typed fields).
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// AsBool returns the node as a bool and true, if it is one.
func AsBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// IsNumber reports whether the node is a YAML number (int/int64/uint64/float64).
func IsNumber(v any) bool {
	switch v.(type) {
	case int, int64, uint64, float64:
		return true
	default:
		return false
	}
}

// AsNumber returns the node's numeric value as a float64 and true, if it is a number.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// IsStringLike reports whether the node is a boolean, number, or string —
// the "string-like" scalar kinds GitHub Actions coerces wherever a string is
// contextually expected.
func IsStringLike(v any) bool {
	switch v.(type) {
	case string, bool, int, int64, uint64, float64:
		return true
	default:
		return false
	}
}

// AsStringLike stringifies a string-like node using the host's shortest
// canonical representation: "true"/"false" for booleans, digits with no
// leading zeros for integral numbers, and the shortest round-tripping
// decimal otherwise. Returns ok=false for non-string-like nodes.
func AsStringLike(v any) (string, bool) {
	switch n := v.(type) {
	case string:
		return n, true
	case bool:
		if n {
			return "true", true
		}
		return "false", true
	case int:
		return strconv.FormatInt(int64(n), 10), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	case float64:
		if n == float64(int64(n)) {
			return strconv.FormatInt(int64(n), 10), true
		}
		return strconv.FormatFloat(n, 'f', -1, 64), true
	default:
		return "", false
	}
}

// IsNull reports whether the node is YAML null.
func IsNull(v any) bool {
	return v == nil
}

// MapGet looks up a key in an ordered map, returning the value and true if present.
func MapGet(m yaml.MapSlice, key string) (any, bool) {
	for _, item := range m {
		if k, ok := item.Key.(string); ok && k == key {
			return item.Value, true
		}
	}
	return nil, false
}

// MapKeys returns the ordered list of string keys in a map, skipping any
// non-string keys (which YAML permits but this system never produces).
func MapKeys(m yaml.MapSlice) []string {
	keys := make([]string, 0, len(m))
	for _, item := range m {
		if k, ok := item.Key.(string); ok {
			keys = append(keys, k)
		}
	}
	return keys
}
