package stategraph

import (
	"sort"

	"github.com/jmallon/stategraph/pkg/stategraph/registry"
	"github.com/jmallon/stategraph/pkg/stategraph/state"
)

// CompiledGraph is the immutable, validated, executable form of a graph.
// It is created by Graph.Compile and cannot be modified afterwards, which
// makes it safe to share: any number of Invoke calls may run concurrently
// against the same CompiledGraph, each with its own state and step counter.
type CompiledGraph struct {
	schema     *state.Schema
	nodes      *registry.Registry[string, NodeFunc]
	routers    *registry.Registry[string, conditionalEdge]
	edges      map[string]string
	nodeOrder  []string
	entryPoint string
}

// Schema returns the state schema every invocation is validated against.
func (cg *CompiledGraph) Schema() *state.Schema {
	return cg.schema
}

// EntryPoint returns the entry node key.
func (cg *CompiledGraph) EntryPoint() string {
	return cg.entryPoint
}

// NodeIDs returns all node keys in declaration order.
func (cg *CompiledGraph) NodeIDs() []string {
	ids := make([]string, len(cg.nodeOrder))
	copy(ids, cg.nodeOrder)
	return ids
}

// HasNode reports whether a node exists in the graph.
func (cg *CompiledGraph) HasNode(key string) bool {
	return cg.nodes.Has(key)
}

// IsConditional reports whether the node's outgoing edge is conditional.
func (cg *CompiledGraph) IsConditional(key string) bool {
	return cg.routers.Has(key)
}

// Successors returns the possible next nodes from key: the fixed edge
// target, or every conditional label target, sorted. END is included when
// the node can terminate. Returns nil for unknown nodes.
func (cg *CompiledGraph) Successors(key string) []string {
	if to, ok := cg.edges[key]; ok {
		return []string{to}
	}
	ce, ok := cg.routers.Get(key)
	if !ok {
		return nil
	}
	seen := make(map[string]bool, len(ce.targets))
	out := make([]string, 0, len(ce.targets))
	for _, to := range ce.targets {
		if !seen[to] {
			seen[to] = true
			out = append(out, to)
		}
	}
	sort.Strings(out)
	return out
}

// Labels returns the sorted route labels mapped on the node's conditional
// edge, or nil if the node has no conditional edge.
func (cg *CompiledGraph) Labels(key string) []string {
	ce, ok := cg.routers.Get(key)
	if !ok {
		return nil
	}
	return ce.labels()
}

// getNode returns the step function for key. Internal to the executor.
func (cg *CompiledGraph) getNode(key string) (NodeFunc, bool) {
	return cg.nodes.Get(key)
}

// getConditional returns the conditional edge for key. Internal to the
// executor.
func (cg *CompiledGraph) getConditional(key string) (conditionalEdge, bool) {
	return cg.routers.Get(key)
}
