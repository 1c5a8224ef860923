package config

import (
	"time"
)

// Config wraps a map[string]any for type-safe value extraction.
// All accessors return the supplied default if the key is missing or the
// value cannot be converted to the requested type.
type Config struct {
	data map[string]any
}

// New creates a Config from the given map. A nil map yields an empty
// Config.
func New(data map[string]any) Config {
	if data == nil {
		data = make(map[string]any)
	}
	return Config{data: data}
}

// String returns the string value for key, or defaultVal.
func (c Config) String(key, defaultVal string) string {
	if s, ok := c.data[key].(string); ok {
		return s
	}
	return defaultVal
}

// Bool returns the boolean value for key, or defaultVal.
func (c Config) Bool(key string, defaultVal bool) bool {
	if b, ok := c.data[key].(bool); ok {
		return b
	}
	return defaultVal
}

// Int returns the integer value for key, or defaultVal.
//
// Accepts int, int64, and float64 without a fractional part.
func (c Config) Int(key string, defaultVal int) int {
	switch val := c.data[key].(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		if val == float64(int(val)) {
			return int(val)
		}
	}
	return defaultVal
}

// Float returns the float64 value for key, or defaultVal.
func (c Config) Float(key string, defaultVal float64) float64 {
	switch val := c.data[key].(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	}
	return defaultVal
}

// Duration returns the duration value for key, or defaultVal.
//
// Accepts a time.ParseDuration string, a number of seconds, or a
// time.Duration.
func (c Config) Duration(key string, defaultVal time.Duration) time.Duration {
	switch val := c.data[key].(type) {
	case string:
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	case float64:
		return time.Duration(val * float64(time.Second))
	case int:
		return time.Duration(val) * time.Second
	case int64:
		return time.Duration(val) * time.Second
	case time.Duration:
		return val
	}
	return defaultVal
}

// StringSlice returns the string slice for key, or defaultVal.
// A []any converts element-wise; any non-string element yields defaultVal.
func (c Config) StringSlice(key string, defaultVal []string) []string {
	switch val := c.data[key].(type) {
	case []string:
		return val
	case []any:
		result := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return defaultVal
			}
			result = append(result, s)
		}
		return result
	}
	return defaultVal
}

// Section returns the nested Config under key. Missing or non-map values
// yield an empty Config.
func (c Config) Section(key string) Config {
	if m, ok := c.data[key].(map[string]any); ok {
		return New(m)
	}
	return New(nil)
}

// Slice returns the list of nested Configs under key, for sections shaped
// like YAML sequences of mappings. Non-map elements are skipped.
func (c Config) Slice(key string) []Config {
	items, ok := c.data[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Config, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, New(m))
		}
	}
	return out
}

// Any returns the raw value for key, or defaultVal.
func (c Config) Any(key string, defaultVal any) any {
	if v, ok := c.data[key]; ok {
		return v
	}
	return defaultVal
}

// Has reports whether key exists.
func (c Config) Has(key string) bool {
	_, ok := c.data[key]
	return ok
}

// Raw returns the underlying map. The returned map must not be modified.
func (c Config) Raw() map[string]any {
	return c.data
}
