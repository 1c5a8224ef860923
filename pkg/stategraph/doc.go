/*
Package stategraph provides a schema-typed, graph-based workflow
execution engine.

# Overview

stategraph is a Go library for declaring named processing steps over a
shared, typed state, wiring them together with fixed and conditional
transitions, and executing the resulting graph to completion. Loops are
first-class: cycles in the graph express iterative refinement, with exit
conditions carried in state and checked by router functions, backed by a
hard step ceiling so a misconfigured graph can never hang.

The state's field set is declared once, up front, as a schema. Each node
returns a partial update naming only the fields it changes; the executor
merges updates with whole-value replacement per field and routes on the
merged state, so loop-exit conditions always see up-to-date values.

# Basic Usage

Declare a schema, build a graph, compile it once, and invoke it as many
times as needed:

	schema := state.NewSchema().
	    List("items", state.KindString).
	    Number("total")

	addApple := func(ctx stategraph.Context, s *state.State) (state.Update, error) {
	    return state.Update{
	        "items": append(s.Strings("items"), "apple"),
	        "total": s.Float("total") + 5,
	    }, nil
	}

	graph := stategraph.New(schema).
	    AddNode("add_apple", addApple).
	    AddEdge("add_apple", stategraph.END).
	    SetEntry("add_apple")

	compiled, err := graph.Compile()
	if err != nil {
	    log.Fatal(err)
	}

	ctx := stategraph.NewContext(context.Background())
	final, err := compiled.Invoke(ctx, map[string]any{"total": 0})

# Loops

A conditional edge routes through a label mapping. Routers see the state
after the preceding node's update is merged:

	graph.AddConditionalEdges("evaluate",
	    stategraph.RulesRouter([]stategraph.Rule{
	        {When: "quality_score >= 0.8", Label: "summarize"},
	        {When: "iteration >= max_iterations", Label: "summarize"},
	    }, "search"),
	    map[string]string{
	        "search":    "search",
	        "summarize": "summarize",
	    })

# Concurrency

A CompiledGraph is immutable and safe for concurrent reuse: each Invoke
owns its state and step counter, so independent invocations never
observe each other. A single invocation is strictly sequential: one
node at a time.
*/
package stategraph
