package stategraph

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jmallon/stategraph/pkg/stategraph/registry"
)

// Compile validates the accumulated graph and returns an immutable
// CompiledGraph. All violations found are joined into one error; use
// errors.Is against the sentinel errors to identify specific failures.
//
// Validation checks:
//  1. No structural errors were recorded while building (duplicate nodes,
//     conflicting edges, redeclared entry)
//  2. The entry point is set and references an existing node
//  3. Every edge source and target references an existing node (or END
//     for targets), regardless of declaration order
//  4. Every conditional label target references an existing node or END
//  5. Every node has exactly one outgoing edge group
//
// Nodes unreachable from the entry point are logged as warnings but do
// not fail compilation.
func (g *Graph) Compile() (*CompiledGraph, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	errs := make([]error, len(g.errs))
	copy(errs, g.errs)

	// Entry point.
	if !g.entrySet {
		errs = append(errs, ErrNoEntryPoint)
	} else if _, ok := g.nodes[g.entryPoint]; !ok {
		errs = append(errs, fmt.Errorf("%w: entry point %q", ErrUnknownNode, g.entryPoint))
	}

	// Fixed edge endpoints. Sources and targets are resolved lazily here
	// so declaration order never matters.
	for _, from := range sortedKeys(g.edges) {
		to := g.edges[from]
		if _, ok := g.nodes[from]; !ok {
			errs = append(errs, fmt.Errorf("%w: edge source %q", ErrUnknownNode, from))
		}
		if to != END {
			if _, ok := g.nodes[to]; !ok {
				errs = append(errs, fmt.Errorf("%w: edge target %q", ErrUnknownNode, to))
			}
		}
	}

	// Conditional edge endpoints and label targets.
	for _, from := range sortedKeys(g.conditional) {
		ce := g.conditional[from]
		if _, ok := g.nodes[from]; !ok {
			errs = append(errs, fmt.Errorf("%w: conditional edge source %q", ErrUnknownNode, from))
		}
		for _, label := range ce.labels() {
			to := ce.targets[label]
			if to == END {
				continue
			}
			if _, ok := g.nodes[to]; !ok {
				errs = append(errs, fmt.Errorf("%w: target %q for label %q from %q", ErrUnknownNode, to, label, from))
			}
		}
	}

	// Every node needs exactly one outgoing edge group. Conflicts were
	// recorded at add time; absence is only visible now.
	for _, key := range g.nodeOrder {
		if !g.hasOutgoing(key) {
			errs = append(errs, fmt.Errorf("%w: %s", ErrNoOutgoingEdge, key))
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	g.warnUnreachableNodes()

	return g.buildCompiledGraph(), nil
}

// warnUnreachableNodes logs nodes not reachable from the entry point.
// Unreachable nodes are suspicious but harmless: the executor can never
// visit them, so they are a warning rather than a compile failure.
func (g *Graph) warnUnreachableNodes() {
	reachable := g.findReachableNodes()
	for _, key := range g.nodeOrder {
		if !reachable[key] {
			slog.Warn("node is unreachable from entry point", "node", key)
		}
	}
}

// findReachableNodes returns the nodes reachable from the entry point.
// Conditional edges contribute every mapped label target, since any of
// them may be chosen at runtime.
func (g *Graph) findReachableNodes() map[string]bool {
	reachable := make(map[string]bool)
	queue := []string{g.entryPoint}
	reachable[g.entryPoint] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		visit := func(target string) {
			if target != END && !reachable[target] {
				reachable[target] = true
				queue = append(queue, target)
			}
		}

		if to, ok := g.edges[current]; ok {
			visit(to)
		}
		if ce, ok := g.conditional[current]; ok {
			for _, to := range ce.targets {
				visit(to)
			}
		}
	}

	return reachable
}

// buildCompiledGraph snapshots the builder into an immutable form.
// Callers must hold g.mu and have validated the graph.
func (g *Graph) buildCompiledGraph() *CompiledGraph {
	nodes := registry.New[string, NodeFunc]()
	for key, fn := range g.nodes {
		nodes.MustRegister(key, fn)
	}

	routers := registry.New[string, conditionalEdge]()
	for from, ce := range g.conditional {
		targets := make(map[string]string, len(ce.targets))
		for label, to := range ce.targets {
			targets[label] = to
		}
		routers.MustRegister(from, conditionalEdge{router: ce.router, targets: targets})
	}

	edges := make(map[string]string, len(g.edges))
	for from, to := range g.edges {
		edges[from] = to
	}

	order := make([]string, len(g.nodeOrder))
	copy(order, g.nodeOrder)

	return &CompiledGraph{
		schema:     g.schema,
		nodes:      nodes,
		routers:    routers,
		edges:      edges,
		nodeOrder:  order,
		entryPoint: g.entryPoint,
	}
}

// sortedKeys returns map keys sorted for deterministic validation output.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
