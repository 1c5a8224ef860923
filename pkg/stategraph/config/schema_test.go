package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmallon/stategraph/pkg/stategraph/state"
)

// TestSchemaFromConfig tests building a schema from a YAML state section.
func TestSchemaFromConfig(t *testing.T) {
	cfg, err := FromYAML([]byte(`
state:
  - name: topic
    type: string
  - name: iteration
    type: number
    default: 0
  - name: max_iterations
    type: number
    default: 3
  - name: done
    type: bool
  - name: findings
    type: list
    elem: string
`))
	require.NoError(t, err)

	schema, err := SchemaFromConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"topic", "iteration", "max_iterations", "done", "findings"}, schema.Names())

	f, ok := schema.Field("findings")
	require.True(t, ok)
	assert.Equal(t, state.KindList, f.Kind)
	assert.Equal(t, state.KindString, f.Elem)

	// Defaults survive into fresh states.
	st, err := state.New(schema, nil)
	require.NoError(t, err)
	assert.Equal(t, 3.0, st.Float("max_iterations"))
}

// TestSchemaFromConfig_MissingSection tests that an absent state section
// fails.
func TestSchemaFromConfig_MissingSection(t *testing.T) {
	_, err := SchemaFromConfig(New(map[string]any{"other": 1}))
	assert.ErrorContains(t, err, "missing or empty state section")
}

// TestSchemaFromConfig_MissingName tests that a field needs a name.
func TestSchemaFromConfig_MissingName(t *testing.T) {
	cfg := New(map[string]any{
		"state": []any{map[string]any{"type": "string"}},
	})
	_, err := SchemaFromConfig(cfg)
	assert.ErrorContains(t, err, "missing name")
}

// TestSchemaFromConfig_UnknownType tests type validation.
func TestSchemaFromConfig_UnknownType(t *testing.T) {
	cfg := New(map[string]any{
		"state": []any{map[string]any{"name": "x", "type": "decimal"}},
	})
	_, err := SchemaFromConfig(cfg)
	assert.ErrorContains(t, err, `unknown type "decimal"`)
}

// TestSchemaFromConfig_UnknownElemType tests list element validation.
func TestSchemaFromConfig_UnknownElemType(t *testing.T) {
	cfg := New(map[string]any{
		"state": []any{map[string]any{"name": "xs", "type": "list", "elem": "list"}},
	})
	_, err := SchemaFromConfig(cfg)
	assert.ErrorContains(t, err, `unknown list element type "list"`)
}

// TestSchemaFromConfig_DuplicateField tests duplicate detection.
func TestSchemaFromConfig_DuplicateField(t *testing.T) {
	cfg := New(map[string]any{
		"state": []any{
			map[string]any{"name": "x", "type": "number"},
			map[string]any{"name": "x", "type": "string"},
		},
	})
	_, err := SchemaFromConfig(cfg)
	assert.ErrorContains(t, err, `declared twice`)
}

// TestSchemaFromConfig_ListDefaultsToStringElem tests the elem default.
func TestSchemaFromConfig_ListDefaultsToStringElem(t *testing.T) {
	cfg := New(map[string]any{
		"state": []any{map[string]any{"name": "xs", "type": "list"}},
	})

	schema, err := SchemaFromConfig(cfg)
	require.NoError(t, err)

	f, ok := schema.Field("xs")
	require.True(t, ok)
	assert.Equal(t, state.KindString, f.Elem)
}
