package stategraph

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jmallon/stategraph/pkg/stategraph/state"
)

// conditionalEdge pairs a router with its label-to-target mapping.
type conditionalEdge struct {
	router  RouterFunc
	targets map[string]string
}

// labels returns the mapped labels in sorted order.
func (ce conditionalEdge) labels() []string {
	out := make([]string, 0, len(ce.targets))
	for label := range ce.targets {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// Graph is a mutable builder for workflow graphs over a state schema.
// Chain AddNode, AddEdge, AddConditionalEdges, and SetEntry to define the
// workflow, then call Compile to obtain an immutable CompiledGraph.
//
// API misuse (empty or reserved keys, nil functions) panics immediately.
// Structural problems (duplicate nodes, conflicting edges, references to
// nodes that are never declared) are recorded and reported together by
// Compile, so edges may reference nodes declared later.
//
// Graph is NOT safe for concurrent building. Construct it from a single
// goroutine and share only the CompiledGraph.
//
// Example:
//
//	graph := stategraph.New(schema).
//	    AddNode("search", search).
//	    AddNode("evaluate", evaluate).
//	    AddEdge("search", "evaluate").
//	    AddConditionalEdges("evaluate", shouldContinue, map[string]string{
//	        "search":    "search",
//	        "summarize": stategraph.END,
//	    }).
//	    SetEntry("search")
//
//	compiled, err := graph.Compile()
type Graph struct {
	mu          sync.Mutex
	schema      *state.Schema
	nodes       map[string]NodeFunc
	nodeOrder   []string
	edges       map[string]string
	conditional map[string]conditionalEdge
	entryPoint  string
	entrySet    bool
	errs        []error
}

// New creates a graph builder for the given state schema.
// The schema fixes the field set for every run of the compiled graph.
func New(schema *state.Schema) *Graph {
	if schema == nil {
		panic("stategraph: schema cannot be nil")
	}
	return &Graph{
		schema:      schema,
		nodes:       make(map[string]NodeFunc),
		edges:       make(map[string]string),
		conditional: make(map[string]conditionalEdge),
	}
}

// AddNode registers a named step function.
// Returns the graph for method chaining.
//
// Panics if key is empty, reserved ("end" or "__end__", case-insensitive),
// contains whitespace, or fn is nil. A duplicate key is recorded and fails
// Compile with ErrDuplicateNode.
func (g *Graph) AddNode(key string, fn NodeFunc) *Graph {
	validateKey(key)
	if fn == nil {
		panic("stategraph: node function cannot be nil")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.nodes[key]; exists {
		g.errs = append(g.errs, fmt.Errorf("%w: %s", ErrDuplicateNode, key))
		return g
	}

	g.nodes[key] = fn
	g.nodeOrder = append(g.nodeOrder, key)
	return g
}

// AddEdge registers a fixed transition from one node to another.
// The target may be a node key or stategraph.END.
// Returns the graph for method chaining.
//
// Node existence is checked at Compile, so edges may be added before the
// nodes they reference. A second outgoing edge for from, fixed or
// conditional, is recorded and fails Compile with ErrConflictingEdge.
func (g *Graph) AddEdge(from, to string) *Graph {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.hasOutgoing(from) {
		g.errs = append(g.errs, fmt.Errorf("%w: %s", ErrConflictingEdge, from))
		return g
	}

	g.edges[from] = to
	return g
}

// AddConditionalEdges registers a conditional transition group: router is
// invoked with the merged state after from executes, and the label it
// returns is resolved through labelToTarget. Targets may be node keys or
// stategraph.END. Every label the router can return must be mapped; an
// unmapped label fails the invocation with ErrUnroutableLabel.
// Returns the graph for method chaining.
//
// Panics if router is nil or labelToTarget is empty. Conflict and
// unknown-key rules match AddEdge.
func (g *Graph) AddConditionalEdges(from string, router RouterFunc, labelToTarget map[string]string) *Graph {
	if router == nil {
		panic("stategraph: router function cannot be nil")
	}
	if len(labelToTarget) == 0 {
		panic("stategraph: label mapping cannot be empty")
	}

	targets := make(map[string]string, len(labelToTarget))
	for label, to := range labelToTarget {
		targets[label] = to
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.hasOutgoing(from) {
		g.errs = append(g.errs, fmt.Errorf("%w: %s", ErrConflictingEdge, from))
		return g
	}

	g.conditional[from] = conditionalEdge{router: router, targets: targets}
	return g
}

// SetEntry designates the first node to run. It must be called exactly
// once: omitting it fails Compile with ErrNoEntryPoint, and a second call
// is recorded and fails Compile with ErrEntryRedeclared.
// Returns the graph for method chaining.
func (g *Graph) SetEntry(key string) *Graph {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.entrySet {
		g.errs = append(g.errs, fmt.Errorf("%w: %s then %s", ErrEntryRedeclared, g.entryPoint, key))
		return g
	}

	g.entryPoint = key
	g.entrySet = true
	return g
}

// hasOutgoing reports whether from already has an outgoing edge group.
// Callers must hold g.mu.
func (g *Graph) hasOutgoing(from string) bool {
	if _, ok := g.edges[from]; ok {
		return true
	}
	_, ok := g.conditional[from]
	return ok
}

// validateKey panics on node keys that can never be valid.
func validateKey(key string) {
	if key == "" {
		panic("stategraph: node key cannot be empty")
	}
	lower := strings.ToLower(key)
	if lower == "end" || lower == "__end__" {
		panic("stategraph: node key cannot be reserved word 'END'")
	}
	if strings.ContainsAny(key, " \t\n\r") {
		panic("stategraph: node key cannot contain whitespace")
	}
}
