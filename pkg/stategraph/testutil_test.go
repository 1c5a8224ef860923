package stategraph

import (
	"context"

	"github.com/jmallon/stategraph/pkg/stategraph/state"
)

// Shared schemas used across tests

// counterSchema has a single numeric field.
func counterSchema() *state.Schema {
	return state.NewSchema().Number("x")
}

// trackingSchema records node visits in a list field.
func trackingSchema() *state.Schema {
	return state.NewSchema().
		List("visited", state.KindString).
		Number("x")
}

// researchSchema mirrors an iterative refinement workflow.
func researchSchema() *state.Schema {
	return state.NewSchema().
		String("topic").
		List("findings", state.KindString).
		Number("quality_score").
		Number("iteration").
		Number("max_iterations", state.Default(3)).
		String("summary")
}

// Helper node functions

// incrementX adds one to the x field.
func incrementX(ctx Context, s *state.State) (state.Update, error) {
	return state.Update{"x": s.Float("x") + 1}, nil
}

// noUpdate returns an empty update.
func noUpdate(ctx Context, s *state.State) (state.Update, error) {
	return state.Update{}, nil
}

// makeTrackingNode returns a node that appends its name to the visited list.
func makeTrackingNode(name string) NodeFunc {
	return func(ctx Context, s *state.State) (state.Update, error) {
		return state.Update{"visited": append(s.Strings("visited"), name)}, nil
	}
}

// makeFailingNode returns a node that always fails with err.
func makeFailingNode(err error) NodeFunc {
	return func(ctx Context, s *state.State) (state.Update, error) {
		return nil, err
	}
}

// makePanicNode returns a node that panics with value.
func makePanicNode(value any) NodeFunc {
	return func(ctx Context, s *state.State) (state.Update, error) {
		panic(value)
	}
}

// testCtx creates a plain execution context for tests.
func testCtx() Context {
	return NewContext(context.Background())
}

// linearGraph builds a minimal graph a -> b -> END over the tracking
// schema.
func linearGraph() *Graph {
	return New(trackingSchema()).
		AddNode("a", makeTrackingNode("a")).
		AddNode("b", makeTrackingNode("b")).
		AddEdge("a", "b").
		AddEdge("b", END).
		SetEntry("a")
}
