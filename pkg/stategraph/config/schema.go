package config

import (
	"fmt"

	"github.com/jmallon/stategraph/pkg/stategraph/state"
)

// SchemaFromConfig builds a state schema from the "state" section of a
// config file. The section is a sequence of field declarations:
//
//	state:
//	  - name: topic
//	    type: string
//	  - name: iteration
//	    type: number
//	    default: 0
//	  - name: findings
//	    type: list
//	    elem: string
//
// Supported types are string, number, bool, and list. List fields take an
// elem type of string, number, or bool. Nested fields are declared in
// code, not config files.
func SchemaFromConfig(c Config) (*state.Schema, error) {
	fields := c.Slice("state")
	if len(fields) == 0 {
		return nil, fmt.Errorf("config: missing or empty state section")
	}

	schema := state.NewSchema()
	seen := make(map[string]bool, len(fields))
	for i, fc := range fields {
		name := fc.String("name", "")
		if name == "" {
			return nil, fmt.Errorf("config: state field %d: missing name", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("config: state field %q declared twice", name)
		}
		seen[name] = true
		typ := fc.String("type", "")

		var opts []state.FieldOption
		if fc.Has("default") {
			opts = append(opts, state.Default(fc.Any("default", nil)))
		}

		switch typ {
		case "string":
			schema.String(name, opts...)
		case "number":
			schema.Number(name, opts...)
		case "bool":
			schema.Bool(name, opts...)
		case "list":
			elem, err := elemKind(fc.String("elem", "string"))
			if err != nil {
				return nil, fmt.Errorf("config: state field %q: %w", name, err)
			}
			schema.List(name, elem, opts...)
		default:
			return nil, fmt.Errorf("config: state field %q: unknown type %q", name, typ)
		}
	}
	return schema, nil
}

func elemKind(typ string) (state.Kind, error) {
	switch typ {
	case "string":
		return state.KindString, nil
	case "number":
		return state.KindNumber, nil
	case "bool":
		return state.KindBool, nil
	default:
		return 0, fmt.Errorf("unknown list element type %q", typ)
	}
}
