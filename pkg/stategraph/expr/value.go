package expr

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Resolve turns one side of a comparison into a value: a quoted string,
// boolean, null, or number literal, or a variable lookup. An unquoted
// identifier that is not a variable resolves to itself as a string.
func Resolve(s string, vars map[string]any) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	// Quoted string literal (single or double quotes).
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}

	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	case "null", "nil":
		return nil
	}

	// Number literal, via json.Number for precise parsing.
	var num json.Number
	if err := json.Unmarshal([]byte(s), &num); err == nil {
		if i, err := num.Int64(); err == nil {
			return i
		}
		if f, err := num.Float64(); err == nil {
			return f
		}
	}

	if vars != nil {
		if val, ok := vars[s]; ok {
			return val
		}
	}

	return s
}

// IsTruthy reports whether a value counts as true: nil is false, booleans
// are themselves, empty strings and zero numbers are false, empty lists
// are false, everything else is true.
func IsTruthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	case []any:
		return len(val) > 0
	case []string:
		return len(val) > 0
	default:
		return true
	}
}

// ToFloat64 converts a value for numeric comparison. Strings parse with
// strconv; inconvertible values become 0.
func ToFloat64(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case bool:
		if val {
			return 1
		}
		return 0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
