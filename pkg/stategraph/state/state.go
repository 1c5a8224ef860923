package state

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors for state construction and merging.
var (
	// ErrUnknownField indicates a value was supplied for an undeclared field.
	ErrUnknownField = errors.New("field not declared in schema")

	// ErrFieldType indicates a value does not match the declared field kind.
	ErrFieldType = errors.New("value does not match field kind")

	// ErrNilSchema indicates a State was requested without a schema.
	ErrNilSchema = errors.New("schema cannot be nil")
)

// Update is a partial state update: the subset of fields a node intends to
// change. Merging replaces each named field wholesale; a node that wants to
// accumulate into a list must read the existing list, build a new one, and
// return it (see Append).
type Update map[string]any

// State is the shared value threaded through one graph run. It is owned by
// the executor between node calls; nodes receive it read-only and must
// return an Update rather than mutate it.
type State struct {
	schema *Schema
	values map[string]any
}

// New creates a State bound to schema, populated from initial.
// Fields absent from initial take the schema default, then the kind's
// zero value. Undeclared or ill-typed initial fields are an error.
func New(schema *Schema, initial map[string]any) (*State, error) {
	if schema == nil {
		return nil, ErrNilSchema
	}

	values := make(map[string]any, schema.Len())
	for name, v := range initial {
		f, ok := schema.Field(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
		norm, err := normalize(f, v)
		if err != nil {
			return nil, err
		}
		values[name] = norm
	}

	// Fill remaining fields from defaults.
	for _, f := range schema.fields {
		if _, ok := values[f.Name]; ok {
			continue
		}
		if f.Default != nil {
			norm, err := normalize(f, f.Default)
			if err != nil {
				return nil, fmt.Errorf("default for %s: %w", f.Name, err)
			}
			values[f.Name] = norm
			continue
		}
		values[f.Name] = zeroValue(f)
	}

	return &State{schema: schema, values: values}, nil
}

// Apply merges an update into the state: whole-value replacement per field.
// Returns an error without modifying the state if any field is undeclared
// or ill-typed.
func (s *State) Apply(u Update) error {
	if len(u) == 0 {
		return nil
	}

	// Validate the whole update before touching state, so a bad update
	// leaves the state unchanged.
	normalized := make(map[string]any, len(u))
	for name, v := range u {
		f, ok := s.schema.Field(name)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
		norm, err := normalize(f, v)
		if err != nil {
			return err
		}
		normalized[name] = norm
	}

	for name, v := range normalized {
		s.values[name] = v
	}
	return nil
}

// Schema returns the schema the state is bound to.
func (s *State) Schema() *Schema {
	return s.schema
}

// Get returns the raw value for a field and whether it is declared.
func (s *State) Get(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Has reports whether the field is declared.
func (s *State) Has(name string) bool {
	return s.schema.Has(name)
}

// String returns the string field value, or "" for other kinds.
func (s *State) String(name string) string {
	v, _ := s.values[name].(string)
	return v
}

// Float returns the number field value, or 0 for other kinds.
func (s *State) Float(name string) float64 {
	v, _ := s.values[name].(float64)
	return v
}

// Int returns the number field value truncated to int.
func (s *State) Int(name string) int {
	return int(s.Float(name))
}

// Bool returns the boolean field value, or false for other kinds.
func (s *State) Bool(name string) bool {
	v, _ := s.values[name].(bool)
	return v
}

// List returns a copy of the list field value, or nil for other kinds.
func (s *State) List(name string) []any {
	v, ok := s.values[name].([]any)
	if !ok {
		return nil
	}
	out := make([]any, len(v))
	copy(out, v)
	return out
}

// Strings returns the list field as strings, skipping non-string elements.
func (s *State) Strings(name string) []string {
	v, ok := s.values[name].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(v))
	for _, item := range v {
		if str, ok := item.(string); ok {
			out = append(out, str)
		}
	}
	return out
}

// Nested returns a copy of the nested field value, or nil for other kinds.
func (s *State) Nested(name string) map[string]any {
	v, ok := s.values[name].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]any, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Raw returns a shallow copy of all field values, keyed by name.
// Useful for condition evaluation and logging.
func (s *State) Raw() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Clone returns an independent copy of the state. List and nested values
// are copied one level deep, which covers every representation the schema
// can produce.
func (s *State) Clone() *State {
	values := make(map[string]any, len(s.values))
	for k, v := range s.values {
		switch val := v.(type) {
		case []any:
			cp := make([]any, len(val))
			copy(cp, val)
			values[k] = cp
		case map[string]any:
			cp := make(map[string]any, len(val))
			for mk, mv := range val {
				cp[mk] = mv
			}
			values[k] = cp
		default:
			values[k] = v
		}
	}
	return &State{schema: s.schema, values: values}
}

// MarshalJSON serializes field values in schema declaration order.
func (s *State) MarshalJSON() ([]byte, error) {
	// Build an ordered JSON object by hand; map marshaling would sort keys.
	var buf []byte
	buf = append(buf, '{')
	for i, f := range s.schema.fields {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.values[f.Name])
		if err != nil {
			return nil, fmt.Errorf("marshal field %s: %w", f.Name, err)
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, val...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// Append builds an Update that appends items to a list field, reading the
// existing list from s. This is the read-then-write accumulation pattern
// packaged as a helper; the merge rule itself stays whole-value replacement.
func Append(s *State, name string, items ...any) Update {
	existing := s.List(name)
	combined := make([]any, 0, len(existing)+len(items))
	combined = append(combined, existing...)
	combined = append(combined, items...)
	return Update{name: combined}
}
