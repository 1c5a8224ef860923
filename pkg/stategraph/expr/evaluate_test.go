package expr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEval_Comparisons tests the built-in binary operators.
func TestEval_Comparisons(t *testing.T) {
	vars := map[string]any{
		"score":     0.9,
		"iteration": 3,
		"category":  "billing",
		"enabled":   true,
	}

	testCases := []struct {
		condition string
		want      bool
	}{
		{"score >= 0.8", true},
		{"score >= 0.9", true},
		{"score > 0.9", false},
		{"score <= 1", true},
		{"score < 0.5", false},
		{"iteration >= 3", true},
		{"iteration > 3", false},
		{`category == "billing"`, true},
		{`category == "technical"`, false},
		{`category != "technical"`, true},
		{"enabled == true", true},
		{"iteration == 3", true},
	}

	for _, tc := range testCases {
		t.Run(tc.condition, func(t *testing.T) {
			got, err := Eval(tc.condition, vars)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// TestEval_VariableToVariable tests comparing two variables.
func TestEval_VariableToVariable(t *testing.T) {
	vars := map[string]any{"iteration": 3.0, "max_iterations": 3.0}

	got, err := Eval("iteration >= max_iterations", vars)
	require.NoError(t, err)
	assert.True(t, got)
}

// TestEval_Contains tests the substring operator.
func TestEval_Contains(t *testing.T) {
	vars := map[string]any{"subject": "invoice overdue"}

	got, err := Eval(`subject contains "invoice"`, vars)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = Eval(`subject contains "refund"`, vars)
	require.NoError(t, err)
	assert.False(t, got)
}

// TestEval_Connectives tests and/or/not combinations.
func TestEval_Connectives(t *testing.T) {
	vars := map[string]any{"score": 0.9, "iteration": 1}

	testCases := []struct {
		condition string
		want      bool
	}{
		{"score >= 0.8 and iteration >= 3", false},
		{"score >= 0.8 or iteration >= 3", true},
		{"not score >= 0.8", false},
		{"!iteration >= 3", true},
		{"score < 0.5 or iteration < 3 and score > 0.5", true},
	}

	for _, tc := range testCases {
		t.Run(tc.condition, func(t *testing.T) {
			got, err := Eval(tc.condition, vars)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// TestEval_QuotedLiterals tests that connective and operator tokens
// inside quoted strings never split the condition.
func TestEval_QuotedLiterals(t *testing.T) {
	vars := map[string]any{
		"category": "spam or phish",
		"note":     "ready and waiting",
		"op":       "a == b",
	}

	testCases := []struct {
		condition string
		want      bool
	}{
		{`category == "spam or phish"`, true},
		{`category == "spam"`, false},
		{`note == 'ready and waiting'`, true},
		{`op contains "=="`, true},
		{`category == "spam or phish" and note == 'ready and waiting'`, true},
		{`category == "ham" or category == "spam or phish"`, true},
	}

	for _, tc := range testCases {
		t.Run(tc.condition, func(t *testing.T) {
			got, err := Eval(tc.condition, vars)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// TestEval_BareTruthiness tests single-value conditions.
func TestEval_BareTruthiness(t *testing.T) {
	vars := map[string]any{
		"done":    true,
		"pending": false,
		"name":    "x",
		"blank":   "",
		"items":   []any{"a"},
		"empty":   []any{},
		"count":   0.0,
	}

	testCases := []struct {
		condition string
		want      bool
	}{
		{"done", true},
		{"pending", false},
		{"name", true},
		{"blank", false},
		{"items", true},
		{"empty", false},
		{"count", false},
		{"", false},
	}

	for _, tc := range testCases {
		t.Run("cond="+tc.condition, func(t *testing.T) {
			got, err := Eval(tc.condition, vars)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// TestEval_CustomOperator tests operator extension.
func TestEval_CustomOperator(t *testing.T) {
	evaluator := New(WithOperator("startswith", func(l, r any) bool {
		ls, _ := l.(string)
		rs, _ := r.(string)
		return strings.HasPrefix(ls, rs)
	}))

	vars := map[string]any{"path": "/api/users"}

	got, err := evaluator.Eval(`path startswith "/api"`, vars)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = evaluator.Eval(`path startswith "/admin"`, vars)
	require.NoError(t, err)
	assert.False(t, got)
}

// TestResolve tests literal and variable resolution.
func TestResolve(t *testing.T) {
	vars := map[string]any{"x": 42.0, "s": "hello"}

	assert.Equal(t, "literal", Resolve(`"literal"`, vars))
	assert.Equal(t, "literal", Resolve(`'literal'`, vars))
	assert.Equal(t, true, Resolve("true", vars))
	assert.Equal(t, false, Resolve("false", vars))
	assert.Nil(t, Resolve("null", vars))
	assert.Equal(t, int64(7), Resolve("7", vars))
	assert.Equal(t, 2.5, Resolve("2.5", vars))
	assert.Equal(t, 42.0, Resolve("x", vars))
	assert.Equal(t, "hello", Resolve("s", vars))
	assert.Equal(t, "unknown", Resolve("unknown", vars))
}

// TestToFloat64 tests numeric conversion for comparisons.
func TestToFloat64(t *testing.T) {
	assert.Equal(t, 1.5, ToFloat64(1.5))
	assert.Equal(t, 3.0, ToFloat64(3))
	assert.Equal(t, 3.0, ToFloat64(int64(3)))
	assert.Equal(t, 1.0, ToFloat64(true))
	assert.Equal(t, 0.0, ToFloat64(false))
	assert.Equal(t, 2.5, ToFloat64("2.5"))
	assert.Equal(t, 0.0, ToFloat64("not a number"))
	assert.Equal(t, 0.0, ToFloat64(nil))
}
