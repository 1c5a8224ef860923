package stategraph

import (
	"fmt"

	"github.com/jmallon/stategraph/pkg/stategraph/expr"
	"github.com/jmallon/stategraph/pkg/stategraph/state"
)

// Rule is one declarative routing rule: when the condition holds against
// the current state, the router returns Label.
type Rule struct {
	// When is an expr condition over state fields, e.g.
	// "quality_score >= 0.8 or iteration >= 3".
	When string
	// Label is the route label returned when the condition holds.
	Label string
}

// RulesRouter builds a RouterFunc from an ordered rule list: the first
// rule whose condition holds wins, and fallback is returned when none do.
// It covers the common loop-exit pattern of threshold checks and
// iteration counters without a hand-written router.
//
// Panics if fallback is empty. The labels still need entries in the
// conditional edge's mapping, like any router's.
//
// Example:
//
//	router := stategraph.RulesRouter([]stategraph.Rule{
//	    {When: "quality_score >= 0.8", Label: "summarize"},
//	    {When: "iteration >= max_iterations", Label: "summarize"},
//	}, "search")
func RulesRouter(rules []Rule, fallback string) RouterFunc {
	if fallback == "" {
		panic("stategraph: rules router fallback label cannot be empty")
	}
	for i, r := range rules {
		if r.When == "" || r.Label == "" {
			panic(fmt.Sprintf("stategraph: rule %d must have both a condition and a label", i))
		}
	}

	evaluator := expr.New()
	return func(ctx Context, s *state.State) (string, error) {
		vars := s.Raw()
		for _, r := range rules {
			ok, err := evaluator.Eval(r.When, vars)
			if err != nil {
				return "", fmt.Errorf("evaluate %q: %w", r.When, err)
			}
			if ok {
				return r.Label, nil
			}
		}
		return fallback, nil
	}
}
