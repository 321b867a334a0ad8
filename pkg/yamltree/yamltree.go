// Package yamltree adapts github.com/goccy/go-yaml into the generic dynamic
// tree the schema reader (pkg/reader) walks: nested maps, sequences, and
// scalars of heterogeneous type, with insertion order preserved the way
// github/gh-aw's pkg/workflow/yaml.go preserves it for marshaling, except
// here it's needed on the decode side so that on.*.inputs iteration order
// matches the source document.
package yamltree

import (
	"github.com/eighty4/wfguard/pkg/logger"
	"github.com/goccy/go-yaml"
)

var log = logger.New("yamltree:yamltree")

// Decode parses a UTF-8 YAML string into a generic dynamic tree. Maps decode
// as yaml.MapSlice (order-preserving), sequences as []any, and scalars as
// bool, int64/uint64/float64, string, or nil.
func Decode(src string) (any, error) {
	log.Printf("Decoding YAML document: size=%d bytes", len(src))
	var v any
	if err := yaml.UnmarshalWithOptions([]byte(src), &v, yaml.UseOrderedMap()); err != nil {
		log.Printf("Decode failed: %v", err)
		return nil, err
	}
	return v, nil
}

// Kind returns a human-readable dynamic type name for a tree node, used to
// interpolate into the "This <type> YAML is simply..." domain error message.
func Kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case yaml.MapSlice:
		return "map"
	case []any:
		return "sequence"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int64, uint64, float64:
		return "number"
	default:
		return "unknown"
	}
}
