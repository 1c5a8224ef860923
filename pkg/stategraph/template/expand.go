package template

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	// bracePattern matches ${name}. Names are alphanumeric plus underscore
	// and must not start with a digit.
	bracePattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

	// barePattern matches $name up to the next non-word character, so $db
	// never matches inside $dbname.
	barePattern = regexp.MustCompile(`\$([a-zA-Z_][a-zA-Z0-9_]*)(?:\b|$)`)
)

// Expander substitutes ${name} and $name placeholders in strings.
//
// Construct with NewExpander and configure with Option functions. An
// Expander is safe for concurrent use after construction.
type Expander struct {
	missing     MissingAction
	braceStyle  bool
	bareStyle   bool
	envFallback bool
}

// NewExpander creates an Expander.
//
// Defaults: missing placeholders are kept as-is, both ${name} and $name
// styles are enabled, and the process environment is not consulted.
func NewExpander(opts ...Option) *Expander {
	e := &Expander{
		missing:    MissingKeep,
		braceStyle: true,
		bareStyle:  true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand substitutes placeholders in s from vars.
//
// An error is returned only when the Expander was built with MissingError
// and at least one placeholder has no value.
func (e *Expander) Expand(s string, vars map[string]any) (string, error) {
	if s == "" {
		return "", nil
	}

	var missing []string
	replace := func(match, name string) string {
		if val, ok := e.lookup(name, vars); ok {
			return val
		}
		switch e.missing {
		case MissingEmpty:
			return ""
		case MissingError:
			missing = append(missing, name)
			return match
		default:
			return match
		}
	}

	result := s
	// Brace form first so ${port} is consumed before $port can match.
	if e.braceStyle {
		result = bracePattern.ReplaceAllStringFunc(result, func(match string) string {
			return replace(match, match[2:len(match)-1])
		})
	}
	if e.bareStyle {
		result = barePattern.ReplaceAllStringFunc(result, func(match string) string {
			return replace(match, match[1:])
		})
	}

	if len(missing) > 0 {
		return result, &UndefinedVariableError{Names: missing}
	}
	return result, nil
}

// lookup resolves name against vars, then the process environment when
// env fallback is enabled.
func (e *Expander) lookup(name string, vars map[string]any) (string, bool) {
	if val, ok := vars[name]; ok {
		return fmt.Sprintf("%v", val), true
	}
	if e.envFallback {
		if val, ok := os.LookupEnv(name); ok {
			return val, true
		}
	}
	return "", false
}

// ExpandMap substitutes placeholders in every string value of m, recursing
// into nested maps and slices. Non-string values pass through unchanged.
// The input map is not modified.
func (e *Expander) ExpandMap(m map[string]any, vars map[string]any) (map[string]any, error) {
	if m == nil {
		return nil, nil
	}
	result := make(map[string]any, len(m))
	for k, v := range m {
		expanded, err := e.expandValue(v, vars)
		if err != nil {
			return nil, err
		}
		result[k] = expanded
	}
	return result, nil
}

func (e *Expander) expandValue(v any, vars map[string]any) (any, error) {
	switch val := v.(type) {
	case string:
		return e.Expand(val, vars)
	case map[string]any:
		return e.ExpandMap(val, vars)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			expanded, err := e.expandValue(item, vars)
			if err != nil {
				return nil, err
			}
			out[i] = expanded
		}
		return out, nil
	default:
		return v, nil
	}
}

// UndefinedVariableError reports placeholders that had no value when the
// Expander was built with MissingError.
type UndefinedVariableError struct {
	Names []string
}

func (e *UndefinedVariableError) Error() string {
	if len(e.Names) == 1 {
		return fmt.Sprintf("undefined variable: %s", e.Names[0])
	}
	return fmt.Sprintf("undefined variables: %s", strings.Join(e.Names, ", "))
}

var defaultExpander = NewExpander()

// Expand substitutes placeholders in s using the default expander, which
// keeps missing placeholders as-is and so never fails.
func Expand(s string, vars map[string]any) string {
	result, _ := defaultExpander.Expand(s, vars)
	return result
}

// ExpandMap substitutes placeholders in all string values of m using the
// default expander.
func ExpandMap(m map[string]any, vars map[string]any) map[string]any {
	result, _ := defaultExpander.ExpandMap(m, vars)
	return result
}
