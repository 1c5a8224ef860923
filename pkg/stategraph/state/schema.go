package state

import (
	"fmt"
	"strings"
)

// Kind identifies the semantic type of a state field.
type Kind int

const (
	// KindString holds a single string value.
	KindString Kind = iota
	// KindNumber holds a float64. Integer inputs are normalized.
	KindNumber
	// KindBool holds a boolean.
	KindBool
	// KindList holds an ordered slice of elements of a single element kind.
	KindList
	// KindNested holds a map of values described by a sub-schema.
	KindNested
)

// String returns the kind name for error messages and logs.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindNested:
		return "nested"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Field describes one declared state field.
type Field struct {
	// Name is the field key, unique within its schema.
	Name string
	// Kind is the field's semantic type.
	Kind Kind
	// Elem is the element kind for KindList fields.
	Elem Kind
	// Sub is the sub-schema for KindNested fields.
	Sub *Schema
	// Default is the initial value when the caller supplies none.
	// A nil Default means the kind's zero value.
	Default any
}

// FieldOption configures a declared field.
type FieldOption func(*Field)

// Default sets the field's default value, used when an initial state
// does not supply one. The value must match the field kind; NewState
// validates defaults the same way it validates caller input.
func Default(v any) FieldOption {
	return func(f *Field) {
		f.Default = v
	}
}

// Schema is the fixed field set for a graph's state, declared once at
// build time. Fields keep declaration order.
//
// Schema is a builder: chain the typed declaration methods, then hand the
// schema to stategraph.New. It is not safe for concurrent mutation, and
// must not be modified once a graph using it has been compiled.
//
// Example:
//
//	schema := state.NewSchema().
//	    String("query").
//	    Number("quality_score").
//	    Number("iteration").
//	    List("findings", state.KindString)
type Schema struct {
	fields []Field
	index  map[string]int
}

// NewSchema creates an empty schema.
func NewSchema() *Schema {
	return &Schema{index: make(map[string]int)}
}

// String declares a string field.
func (s *Schema) String(name string, opts ...FieldOption) *Schema {
	return s.add(Field{Name: name, Kind: KindString}, opts)
}

// Number declares a numeric field. Values are stored as float64.
func (s *Schema) Number(name string, opts ...FieldOption) *Schema {
	return s.add(Field{Name: name, Kind: KindNumber}, opts)
}

// Bool declares a boolean field.
func (s *Schema) Bool(name string, opts ...FieldOption) *Schema {
	return s.add(Field{Name: name, Kind: KindBool}, opts)
}

// List declares a list field whose elements all have kind elem.
// Nested lists are not supported as element kinds.
func (s *Schema) List(name string, elem Kind, opts ...FieldOption) *Schema {
	if elem == KindList || elem == KindNested {
		panic(fmt.Sprintf("state: list %q: unsupported element kind %s", name, elem))
	}
	return s.add(Field{Name: name, Kind: KindList, Elem: elem}, opts)
}

// Nested declares a field holding values described by sub.
func (s *Schema) Nested(name string, sub *Schema, opts ...FieldOption) *Schema {
	if sub == nil {
		panic(fmt.Sprintf("state: nested %q: nil sub-schema", name))
	}
	return s.add(Field{Name: name, Kind: KindNested, Sub: sub}, opts)
}

// add appends a field declaration. Panics on API misuse: declaration
// happens once at startup, so a bad field name is a programming error.
func (s *Schema) add(f Field, opts []FieldOption) *Schema {
	if f.Name == "" {
		panic("state: field name cannot be empty")
	}
	if strings.ContainsAny(f.Name, " \t\n\r") {
		panic(fmt.Sprintf("state: field name %q cannot contain whitespace", f.Name))
	}
	if _, exists := s.index[f.Name]; exists {
		panic(fmt.Sprintf("state: duplicate field: %s", f.Name))
	}
	for _, opt := range opts {
		opt(&f)
	}
	s.index[f.Name] = len(s.fields)
	s.fields = append(s.fields, f)
	return s
}

// Field returns the declaration for name and whether it exists.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Has reports whether the field is declared.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Names returns the field names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Len returns the number of declared fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

// zeroValue returns the kind's zero value for a field.
func zeroValue(f Field) any {
	switch f.Kind {
	case KindString:
		return ""
	case KindNumber:
		return float64(0)
	case KindBool:
		return false
	case KindList:
		return []any{}
	case KindNested:
		m := make(map[string]any, f.Sub.Len())
		for _, sub := range f.Sub.fields {
			if sub.Default != nil {
				v, err := normalize(sub, sub.Default)
				if err == nil {
					m[sub.Name] = v
					continue
				}
			}
			m[sub.Name] = zeroValue(sub)
		}
		return m
	default:
		return nil
	}
}

// normalize validates v against the field declaration and converts it to
// the canonical in-memory representation (float64 numbers, []any lists,
// map[string]any nested values).
func normalize(f Field, v any) (any, error) {
	switch f.Kind {
	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, kindError(f, v)
		}
		return s, nil

	case KindNumber:
		switch n := v.(type) {
		case float64:
			return n, nil
		case float32:
			return float64(n), nil
		case int:
			return float64(n), nil
		case int32:
			return float64(n), nil
		case int64:
			return float64(n), nil
		default:
			return nil, kindError(f, v)
		}

	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, kindError(f, v)
		}
		return b, nil

	case KindList:
		items, err := toSlice(v)
		if err != nil {
			return nil, kindError(f, v)
		}
		elem := Field{Name: f.Name, Kind: f.Elem}
		out := make([]any, len(items))
		for i, item := range items {
			norm, err := normalize(elem, item)
			if err != nil {
				return nil, fmt.Errorf("%w: element %d", err, i)
			}
			out[i] = norm
		}
		return out, nil

	case KindNested:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, kindError(f, v)
		}
		out := make(map[string]any, f.Sub.Len())
		for name, val := range m {
			sub, declared := f.Sub.Field(name)
			if !declared {
				return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, f.Name, name)
			}
			norm, err := normalize(sub, val)
			if err != nil {
				return nil, fmt.Errorf("%s.%w", f.Name, err)
			}
			out[name] = norm
		}
		for _, sub := range f.Sub.fields {
			if _, ok := out[sub.Name]; !ok {
				out[sub.Name] = zeroValue(sub)
			}
		}
		return out, nil

	default:
		return nil, kindError(f, v)
	}
}

// toSlice accepts the list representations callers plausibly hand us.
func toSlice(v any) ([]any, error) {
	switch items := v.(type) {
	case []any:
		return items, nil
	case []string:
		out := make([]any, len(items))
		for i, s := range items {
			out[i] = s
		}
		return out, nil
	case []float64:
		out := make([]any, len(items))
		for i, n := range items {
			out[i] = n
		}
		return out, nil
	case []int:
		out := make([]any, len(items))
		for i, n := range items {
			out[i] = n
		}
		return out, nil
	case []bool:
		out := make([]any, len(items))
		for i, b := range items {
			out[i] = b
		}
		return out, nil
	default:
		return nil, fmt.Errorf("not a list: %T", v)
	}
}

func kindError(f Field, v any) error {
	return fmt.Errorf("%w: field %q expects %s, got %T", ErrFieldType, f.Name, f.Kind, v)
}
