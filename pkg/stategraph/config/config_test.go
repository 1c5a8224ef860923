package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfig_String tests string extraction.
func TestConfig_String(t *testing.T) {
	cfg := New(map[string]any{"name": "workflow", "count": 3})

	assert.Equal(t, "workflow", cfg.String("name", "default"))
	assert.Equal(t, "default", cfg.String("missing", "default"))
	assert.Equal(t, "default", cfg.String("count", "default")) // wrong type
}

// TestConfig_Bool tests boolean extraction.
func TestConfig_Bool(t *testing.T) {
	cfg := New(map[string]any{"enabled": true, "name": "x"})

	assert.True(t, cfg.Bool("enabled", false))
	assert.False(t, cfg.Bool("missing", false))
	assert.True(t, cfg.Bool("missing", true))
	assert.False(t, cfg.Bool("name", false)) // wrong type
}

// TestConfig_Int tests integer extraction and coercion.
func TestConfig_Int(t *testing.T) {
	cfg := New(map[string]any{
		"int":      5,
		"int64":    int64(6),
		"whole":    7.0,
		"fraction": 7.5,
		"string":   "8",
	})

	assert.Equal(t, 5, cfg.Int("int", 0))
	assert.Equal(t, 6, cfg.Int("int64", 0))
	assert.Equal(t, 7, cfg.Int("whole", 0))
	// Fractional floats would lose precision, keep the default.
	assert.Equal(t, 0, cfg.Int("fraction", 0))
	assert.Equal(t, 0, cfg.Int("string", 0))
	assert.Equal(t, 9, cfg.Int("missing", 9))
}

// TestConfig_Float tests float extraction.
func TestConfig_Float(t *testing.T) {
	cfg := New(map[string]any{"ratio": 0.8, "count": 3})

	assert.Equal(t, 0.8, cfg.Float("ratio", 0))
	assert.Equal(t, 3.0, cfg.Float("count", 0))
	assert.Equal(t, 1.5, cfg.Float("missing", 1.5))
}

// TestConfig_Duration tests duration parsing and coercion.
func TestConfig_Duration(t *testing.T) {
	cfg := New(map[string]any{
		"parsed":  "30s",
		"seconds": 5,
		"float":   1.5,
		"bad":     "not a duration",
	})

	assert.Equal(t, 30*time.Second, cfg.Duration("parsed", time.Second))
	assert.Equal(t, 5*time.Second, cfg.Duration("seconds", time.Second))
	assert.Equal(t, 1500*time.Millisecond, cfg.Duration("float", time.Second))
	assert.Equal(t, time.Second, cfg.Duration("bad", time.Second))
	assert.Equal(t, time.Minute, cfg.Duration("missing", time.Minute))
}

// TestConfig_StringSlice tests slice extraction.
func TestConfig_StringSlice(t *testing.T) {
	cfg := New(map[string]any{
		"typed": []string{"a", "b"},
		"anys":  []any{"c", "d"},
		"mixed": []any{"e", 1},
	})

	assert.Equal(t, []string{"a", "b"}, cfg.StringSlice("typed", nil))
	assert.Equal(t, []string{"c", "d"}, cfg.StringSlice("anys", nil))
	assert.Nil(t, cfg.StringSlice("mixed", nil))
	assert.Equal(t, []string{"x"}, cfg.StringSlice("missing", []string{"x"}))
}

// TestConfig_Section tests nested section access.
func TestConfig_Section(t *testing.T) {
	cfg := New(map[string]any{
		"trace": map[string]any{"db": "runs.db"},
	})

	assert.Equal(t, "runs.db", cfg.Section("trace").String("db", ""))
	assert.Equal(t, "fallback", cfg.Section("missing").String("db", "fallback"))
}

// TestConfig_Slice tests sequence-of-mappings access.
func TestConfig_Slice(t *testing.T) {
	cfg := New(map[string]any{
		"state": []any{
			map[string]any{"name": "topic"},
			map[string]any{"name": "iteration"},
			"not a map",
		},
	})

	sections := cfg.Slice("state")
	require.Len(t, sections, 2)
	assert.Equal(t, "topic", sections[0].String("name", ""))
	assert.Equal(t, "iteration", sections[1].String("name", ""))
	assert.Nil(t, cfg.Slice("missing"))
}

// TestFromYAML tests YAML parsing.
func TestFromYAML(t *testing.T) {
	cfg, err := FromYAML([]byte(`
step_limit: 50
tracing: true
trace:
  db: runs.db
`))
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Int("step_limit", 0))
	assert.True(t, cfg.Bool("tracing", false))
	assert.Equal(t, "runs.db", cfg.Section("trace").String("db", ""))
}

// TestFromYAML_Invalid tests malformed YAML.
func TestFromYAML_Invalid(t *testing.T) {
	_, err := FromYAML([]byte("{ not yaml"))
	assert.Error(t, err)
}

// TestFromJSON tests JSON parsing.
func TestFromJSON(t *testing.T) {
	cfg, err := FromJSON([]byte(`{"step_limit": 50, "name": "wf"}`))
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Int("step_limit", 0))
	assert.Equal(t, "wf", cfg.String("name", ""))
}

// TestFromFile tests extension detection.
func TestFromFile_UnsupportedExtension(t *testing.T) {
	_, err := FromFile("config.toml")
	assert.ErrorContains(t, err, "unsupported config file extension")
}

// TestConfig_Expand tests placeholder substitution.
func TestConfig_Expand(t *testing.T) {
	cfg := New(map[string]any{
		"db":    "file:${dir}/trace.db",
		"limit": 50,
		"nested": map[string]any{
			"topic": "$subject",
		},
	})

	expanded, err := cfg.Expand(map[string]any{
		"dir":     "/var/data",
		"subject": "go",
	})
	require.NoError(t, err)

	assert.Equal(t, "file:/var/data/trace.db", expanded.String("db", ""))
	assert.Equal(t, 50, expanded.Int("limit", 0))
	assert.Equal(t, "go", expanded.Section("nested").String("topic", ""))
}

// TestConfig_Expand_MissingVariable tests that unresolved placeholders fail.
func TestConfig_Expand_MissingVariable(t *testing.T) {
	cfg := New(map[string]any{"db": "${nowhere}"})

	_, err := cfg.Expand(nil)
	assert.ErrorContains(t, err, "undefined variable")
}
