package stategraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmallon/stategraph/pkg/stategraph/state"
)

// TestRulesRouter_FirstMatchWins tests ordered rule evaluation.
func TestRulesRouter_FirstMatchWins(t *testing.T) {
	router := RulesRouter([]Rule{
		{When: "quality_score >= 0.8", Label: "summarize"},
		{When: "iteration >= max_iterations", Label: "summarize"},
	}, "search")

	st, err := state.New(researchSchema(), map[string]any{
		"quality_score": 0.9,
		"iteration":     1,
	})
	require.NoError(t, err)

	label, err := router(testCtx(), st)
	require.NoError(t, err)
	assert.Equal(t, "summarize", label)
}

// TestRulesRouter_Fallback tests that no matching rule yields the fallback.
func TestRulesRouter_Fallback(t *testing.T) {
	router := RulesRouter([]Rule{
		{When: "quality_score >= 0.8", Label: "summarize"},
	}, "search")

	st, err := state.New(researchSchema(), map[string]any{
		"quality_score": 0.2,
	})
	require.NoError(t, err)

	label, err := router(testCtx(), st)
	require.NoError(t, err)
	assert.Equal(t, "search", label)
}

// TestRulesRouter_VariableComparison tests comparing two state fields.
func TestRulesRouter_VariableComparison(t *testing.T) {
	router := RulesRouter([]Rule{
		{When: "iteration >= max_iterations", Label: "stop"},
	}, "go")

	st, err := state.New(researchSchema(), map[string]any{
		"iteration": 3,
	})
	require.NoError(t, err)

	// iteration 3 >= max_iterations default 3.
	label, err := router(testCtx(), st)
	require.NoError(t, err)
	assert.Equal(t, "stop", label)
}

// TestRulesRouter_StringEquality tests string comparison against a literal.
func TestRulesRouter_StringEquality(t *testing.T) {
	schema := state.NewSchema().String("category")
	router := RulesRouter([]Rule{
		{When: `category == "billing"`, Label: "billing"},
		{When: `category == "technical"`, Label: "technical"},
	}, "general")

	testCases := []struct {
		category string
		want     string
	}{
		{"billing", "billing"},
		{"technical", "technical"},
		{"other", "general"},
	}

	for _, tc := range testCases {
		t.Run(tc.category, func(t *testing.T) {
			st, err := state.New(schema, map[string]any{"category": tc.category})
			require.NoError(t, err)

			label, err := router(testCtx(), st)
			require.NoError(t, err)
			assert.Equal(t, tc.want, label)
		})
	}
}

// TestRulesRouter_EmptyFallback_Panics tests that an empty fallback panics.
func TestRulesRouter_EmptyFallback_Panics(t *testing.T) {
	assert.Panics(t, func() {
		RulesRouter(nil, "")
	})
}

// TestRulesRouter_IncompleteRule_Panics tests that rules need both parts.
func TestRulesRouter_IncompleteRule_Panics(t *testing.T) {
	assert.Panics(t, func() {
		RulesRouter([]Rule{{When: "x > 1"}}, "fallback")
	})
	assert.Panics(t, func() {
		RulesRouter([]Rule{{Label: "somewhere"}}, "fallback")
	})
}

// TestRulesRouter_InGraph tests a rules router driving a loop end to end.
func TestRulesRouter_InGraph(t *testing.T) {
	step := func(ctx Context, s *state.State) (state.Update, error) {
		return state.Update{"iteration": s.Float("iteration") + 1}, nil
	}

	compiled, err := New(researchSchema()).
		AddNode("work", step).
		AddConditionalEdges("work",
			RulesRouter([]Rule{
				{When: "iteration >= max_iterations", Label: "stop"},
			}, "continue"),
			map[string]string{
				"continue": "work",
				"stop":     END,
			}).
		SetEntry("work").
		Compile()
	require.NoError(t, err)

	final, err := compiled.Invoke(testCtx(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3.0, final.Float("iteration"))
}
