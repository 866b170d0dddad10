package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// SchemaKind classifies a SchemaValue.
type SchemaKind int

const (
	// SchemaAbsent means no expected-elements declaration was made.
	SchemaAbsent SchemaKind = iota

	// SchemaList is an ordered list of element specs.
	SchemaList

	// SchemaMap is a keyed map of element specs.
	SchemaMap

	// SchemaInvalid is any other shape; it always fails structural
	// compatibility with the concrete type name in the diagnostic.
	SchemaInvalid
)

// String returns the kind name used in diagnostics.
func (k SchemaKind) String() string {
	switch k {
	case SchemaAbsent:
		return "absent"
	case SchemaList:
		return "list"
	case SchemaMap:
		return "map"
	default:
		return "invalid"
	}
}

// ElementSpec declares one expected structured element.
type ElementSpec struct {
	// Type is the element's type label (e.g. "indicator", "baseline").
	Type string

	// Required marks the element as mandatory. Defaults to false.
	Required bool

	// Minimum is the numeric threshold for the element. Defaults to 0.
	Minimum float64
}

// SchemaValue is a tagged variant over the three legitimate shapes of
// an expected-elements declaration: absent, ordered list, or keyed
// map. Anything else is carried as SchemaInvalid together with the
// concrete type name that failed classification.
//
// The zero value is the absent schema.
type SchemaValue struct {
	kind        SchemaKind
	list        []ElementSpec
	keyed       map[string]ElementSpec
	invalidType string
}

// AbsentSchema returns the absent declaration.
func AbsentSchema() SchemaValue {
	return SchemaValue{kind: SchemaAbsent}
}

// ListSchema returns an ordered-list declaration. The slice is copied.
func ListSchema(specs ...ElementSpec) SchemaValue {
	out := make([]ElementSpec, len(specs))
	copy(out, specs)
	return SchemaValue{kind: SchemaList, list: out}
}

// MapSchema returns a keyed-map declaration. The map is copied.
func MapSchema(specs map[string]ElementSpec) SchemaValue {
	out := make(map[string]ElementSpec, len(specs))
	for k, v := range specs {
		out[k] = v
	}
	return SchemaValue{kind: SchemaMap, keyed: out}
}

// InvalidSchema returns an invalid declaration carrying the concrete
// type name that failed classification.
func InvalidSchema(typeName string) SchemaValue {
	return SchemaValue{kind: SchemaInvalid, invalidType: typeName}
}

// Kind returns the variant's classification.
func (s SchemaValue) Kind() SchemaKind { return s.kind }

// IsAbsent reports whether no declaration was made.
func (s SchemaValue) IsAbsent() bool { return s.kind == SchemaAbsent }

// List returns the ordered element specs. Only meaningful for
// SchemaList; the returned slice is a copy.
func (s SchemaValue) List() []ElementSpec {
	out := make([]ElementSpec, len(s.list))
	copy(out, s.list)
	return out
}

// Map returns the keyed element specs. Only meaningful for SchemaMap;
// the returned map is a copy.
func (s SchemaValue) Map() map[string]ElementSpec {
	out := make(map[string]ElementSpec, len(s.keyed))
	for k, v := range s.keyed {
		out[k] = v
	}
	return out
}

// Keys returns the sorted key set of a map declaration.
func (s SchemaValue) Keys() []string {
	keys := make([]string, 0, len(s.keyed))
	for k := range s.keyed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the element count: list length, map size, or 0.
func (s SchemaValue) Len() int {
	switch s.kind {
	case SchemaList:
		return len(s.list)
	case SchemaMap:
		return len(s.keyed)
	default:
		return 0
	}
}

// InvalidType returns the concrete type name carried by an invalid
// declaration.
func (s SchemaValue) InvalidType() string { return s.invalidType }

// schemaElementJSON is the wire form of one element spec.
type schemaElementJSON struct {
	Type     string  `json:"type"`
	Required bool    `json:"required"`
	Minimum  float64 `json:"minimum"`
}

// MarshalJSON encodes the declaration as null (absent), an array
// (list) or an object (map). Invalid declarations cannot be encoded.
func (s SchemaValue) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case SchemaAbsent:
		return []byte("null"), nil
	case SchemaList:
		out := make([]schemaElementJSON, 0, len(s.list))
		for _, e := range s.list {
			out = append(out, schemaElementJSON(e))
		}
		return json.Marshal(out)
	case SchemaMap:
		out := make(map[string]schemaElementJSON, len(s.keyed))
		for k, e := range s.keyed {
			out[k] = schemaElementJSON(e)
		}
		return json.Marshal(out)
	default:
		return nil, fmt.Errorf("cannot encode invalid schema value (%s)", s.invalidType)
	}
}

// UnmarshalJSON decodes null, array or object forms; any other JSON
// shape yields an invalid declaration carrying the offending type.
func (s *SchemaValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ClassifySchema(raw)
	return nil
}

// ClassifySchema converts a decoded document value (from JSON or YAML)
// into a SchemaValue using the fixed precedence absent -> list -> map
// -> invalid. List items and map values must themselves decode into
// element specs; anything else makes the whole value invalid.
func ClassifySchema(v any) SchemaValue {
	switch val := v.(type) {
	case nil:
		return AbsentSchema()
	case []any:
		specs := make([]ElementSpec, 0, len(val))
		for _, item := range val {
			spec, ok := decodeElementSpec(item)
			if !ok {
				return InvalidSchema(fmt.Sprintf("%T", item))
			}
			specs = append(specs, spec)
		}
		return ListSchema(specs...)
	case map[string]any:
		specs := make(map[string]ElementSpec, len(val))
		for k, item := range val {
			spec, ok := decodeElementSpec(item)
			if !ok {
				return InvalidSchema(fmt.Sprintf("%T", item))
			}
			specs[k] = spec
		}
		return MapSchema(specs)
	default:
		return InvalidSchema(fmt.Sprintf("%T", v))
	}
}

// decodeElementSpec reads an element spec from a decoded map. Missing
// fields take their documented defaults (required=false, minimum=0).
func decodeElementSpec(v any) (ElementSpec, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return ElementSpec{}, false
	}
	spec := ElementSpec{}
	if t, ok := m["type"].(string); ok {
		spec.Type = t
	}
	if r, ok := m["required"].(bool); ok {
		spec.Required = r
	}
	switch n := m["minimum"].(type) {
	case float64:
		spec.Minimum = n
	case int:
		spec.Minimum = float64(n)
	case int64:
		spec.Minimum = float64(n)
	}
	return spec, true
}
