package stategraph

import "github.com/jmallon/stategraph/pkg/stategraph/state"

// END is the terminal marker. Use it as an edge target or conditional
// route target to signal successful completion of an invocation.
const END = "__end__"

// NodeFunc is the signature for all step functions.
// A node receives the execution context and the current state, and returns
// a partial update naming only the fields it intends to change.
//
// Nodes must not mutate the state they are given; the executor owns it.
// A node that accumulates into a list field reads the existing value and
// returns a new list (see state.Append).
//
// Example:
//
//	func addApple(ctx stategraph.Context, s *state.State) (state.Update, error) {
//	    return state.Update{
//	        "items": append(s.Strings("items"), "apple"),
//	        "total": s.Float("total") + 5,
//	    }, nil
//	}
type NodeFunc func(ctx Context, s *state.State) (state.Update, error)

// RouterFunc decides where a conditional edge goes. It receives the state
// after the preceding node's update has been merged and returns a route
// label, which the edge's label mapping resolves to a target node or END.
//
// Routers must be pure with respect to engine state: same state, same label.
//
// Example:
//
//	func shouldContinue(ctx stategraph.Context, s *state.State) (string, error) {
//	    if s.Float("quality_score") >= 0.8 || s.Int("iteration") >= 3 {
//	        return "summarize", nil
//	    }
//	    return "search", nil
//	}
type RouterFunc func(ctx Context, s *state.State) (string, error)
