package stategraph

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/jmallon/stategraph/pkg/stategraph/event"
	"github.com/jmallon/stategraph/pkg/stategraph/observability"
	"github.com/jmallon/stategraph/pkg/stategraph/state"
	"github.com/jmallon/stategraph/pkg/stategraph/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Invoke executes the graph against a fresh state built from initial,
// returning the final state after the terminal marker is reached.
//
// Execution flow:
//  1. Build the state from initial values, schema defaults filling gaps
//  2. Start at the entry point
//  3. Check for cancellation, then the step ceiling
//  4. Call the node's step function and merge its partial update
//  5. Determine the next node via the fixed edge, or by calling the
//     router with the already-merged state and resolving its label
//  6. Repeat until END
//
// Any node or router failure aborts the invocation with the node key and
// step count attached; the engine performs no retries. The CompiledGraph
// stays valid for further invocations after a failure.
//
// Example:
//
//	ctx := stategraph.NewContext(context.Background())
//	final, err := compiled.Invoke(ctx, map[string]any{"x": 0})
func (cg *CompiledGraph) Invoke(ctx Context, initial map[string]any, opts ...InvokeOption) (result *state.State, invokeErr error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	cfg := defaultInvokeConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	runID := cfg.runID
	if runID == "" {
		runID = ctx.RunID()
	}

	st, err := state.New(cg.schema, initial)
	if err != nil {
		return nil, fmt.Errorf("initial state: %w", err)
	}

	startTime := time.Now()
	logger := ctx.Logger()

	observability.LogInvokeStart(logger, runID, cg.entryPoint)
	publish(cfg.bus, event.New(event.TypeInvokeStarted, runID))

	// Invocation-level span.
	var execCtx context.Context = ctx
	var invokeSpan oteltrace.Span
	if cfg.tracingEnabled {
		execCtx, invokeSpan = cfg.spans.StartInvokeSpan(ctx, runID)
		defer func() {
			cfg.spans.EndSpanWithError(invokeSpan, invokeErr)
		}()
	}

	var steps int
	result, steps, invokeErr = cg.run(execCtx, ctx, st, runID, &cfg)

	duration := time.Since(startTime)
	durationMs := float64(duration.Milliseconds())
	cfg.metrics.RecordInvocation(ctx, invokeErr == nil, duration)

	if invokeErr != nil {
		observability.LogInvokeError(logger, runID, invokeErr, durationMs, lastNodeOf(invokeErr))
		publish(cfg.bus, event.New(event.TypeInvokeFailed, runID).WithError(invokeErr))
		// State accumulated so far is discarded; only the error surfaces.
		return nil, invokeErr
	}

	observability.LogInvokeComplete(logger, runID, durationMs, steps)
	publish(cfg.bus, event.New(event.TypeInvokeCompleted, runID))
	return result, nil
}

// run is the executor loop. tracingCtx carries span context; ctx is the
// stategraph Context handed to nodes and routers.
func (cg *CompiledGraph) run(tracingCtx context.Context, ctx Context, st *state.State, runID string, cfg *invokeConfig) (*state.State, int, error) {
	logger := ctx.Logger()
	current := cg.entryPoint
	steps := 0

	for current != END {
		// Cancellation is checked between nodes; in-flight external calls
		// observe the same context directly.
		select {
		case <-ctx.Done():
			return nil, steps, &CancellationError{
				NodeID: current,
				Step:   steps,
				Cause:  context.Cause(ctx),
			}
		default:
		}

		steps++
		if steps > cfg.stepLimit {
			return nil, steps, &StepLimitError{
				Limit:      cfg.stepLimit,
				LastNodeID: current,
			}
		}

		observability.LogNodeStart(logger, current, steps)
		publish(cfg.bus, event.New(event.TypeNodeStarted, runID).WithNode(current, steps))

		nodeTracingCtx := tracingCtx
		var nodeSpan oteltrace.Span
		if cfg.tracingEnabled {
			nodeTracingCtx, nodeSpan = cfg.spans.StartNodeSpan(tracingCtx, current)
		}

		nodeStart := time.Now()
		update, nodeErr := cg.executeNode(ctx, runID, current, steps, st)
		nodeDuration := time.Since(nodeStart)

		// Merge before routing: routers must observe the node's update.
		if nodeErr == nil {
			if applyErr := st.Apply(update); applyErr != nil {
				nodeErr = &NodeError{NodeID: current, Step: steps, Op: "merge", Err: applyErr}
			}
		}

		cfg.metrics.RecordNodeExecution(nodeTracingCtx, current, nodeDuration, nodeErr)
		if cfg.tracingEnabled {
			cfg.spans.EndSpanWithError(nodeSpan, nodeErr)
		}

		if nodeErr != nil {
			observability.LogNodeError(logger, current, nodeErr)
			publish(cfg.bus, event.New(event.TypeNodeFailed, runID).WithNode(current, steps).WithError(nodeErr))
			return nil, steps, nodeErr
		}

		observability.LogNodeComplete(logger, current, float64(nodeDuration.Milliseconds()))
		publish(cfg.bus, event.New(event.TypeNodeCompleted, runID).WithNode(current, steps))

		next, label, err := cg.nextNode(ctx, st, current, steps, cfg, runID)
		if err != nil {
			return nil, steps, err
		}

		if cfg.recorder != nil {
			if err := cg.recordStep(ctx, cfg, runID, current, next, label, steps, st, nodeDuration); err != nil {
				return nil, steps, err
			}
		}

		current = next
	}

	return st, steps, nil
}

// executeNode calls a step function with panic recovery.
func (cg *CompiledGraph) executeNode(ctx Context, runID, nodeID string, step int, st *state.State) (update state.Update, err error) {
	fn, exists := cg.getNode(nodeID)
	if !exists {
		// Unreachable after a successful Compile.
		return nil, &NodeError{
			NodeID: nodeID,
			Step:   step,
			Op:     "lookup",
			Err:    fmt.Errorf("%w: %s", ErrUnknownNode, nodeID),
		}
	}

	nodeCtx := ctx
	if ec, ok := ctx.(*executionContext); ok {
		nodeCtx = ec.withNodeID(runID, nodeID)
	}

	defer func() {
		if r := recover(); r != nil {
			update = nil
			err = &PanicError{
				NodeID: nodeID,
				Value:  r,
				Stack:  string(debug.Stack()),
			}
		}
	}()

	update, err = fn(nodeCtx, st)
	if err != nil {
		return nil, &NodeError{
			NodeID: nodeID,
			Step:   step,
			Op:     "execute",
			Err:    err,
		}
	}

	return update, nil
}

// nextNode determines the node after current. For conditional edges the
// router sees the merged state and its label is resolved through the
// edge's mapping. Returns the target and the route label ("" for fixed
// edges).
func (cg *CompiledGraph) nextNode(ctx Context, st *state.State, current string, step int, cfg *invokeConfig, runID string) (next, label string, err error) {
	if to, ok := cg.edges[current]; ok {
		return to, "", nil
	}

	ce, ok := cg.getConditional(current)
	if !ok {
		// Unreachable after a successful Compile.
		return "", "", &RouterError{
			FromNode: current,
			Step:     step,
			Err:      ErrNoOutgoingEdge,
		}
	}

	routerCtx := ctx
	if ec, isExec := ctx.(*executionContext); isExec {
		routerCtx = ec.withNodeID(runID, current)
	}

	label, err = callRouter(ce.router, routerCtx, st, current)
	if err != nil {
		return "", "", &RouterError{
			FromNode: current,
			Step:     step,
			Err:      err,
		}
	}

	target, mapped := ce.targets[label]
	if !mapped {
		return "", "", &RouterError{
			FromNode: current,
			Label:    label,
			Step:     step,
			Err:      ErrUnroutableLabel,
		}
	}

	observability.LogRouteDecision(ctx.Logger(), current, label, target)
	cfg.metrics.RecordRouteDecision(ctx, current, label)
	publish(cfg.bus, event.New(event.TypeRouteDecided, runID).WithNode(current, step).WithRoute(label, target))

	return target, label, nil
}

// callRouter invokes a router with panic recovery.
func callRouter(router RouterFunc, ctx Context, st *state.State, nodeID string) (label string, err error) {
	defer func() {
		if r := recover(); r != nil {
			label = ""
			err = &PanicError{
				NodeID: nodeID,
				Value:  r,
				Stack:  string(debug.Stack()),
			}
		}
	}()
	return router(ctx, st)
}

// recordStep appends one execution trace record. Failures are logged and
// swallowed unless the invocation opted into fatal trace errors.
func (cg *CompiledGraph) recordStep(ctx Context, cfg *invokeConfig, runID, nodeID, next, label string, step int, st *state.State, d time.Duration) error {
	snapshot, err := json.Marshal(st)
	if err != nil {
		if cfg.traceFatal {
			return fmt.Errorf("trace snapshot at node %s: %w", nodeID, err)
		}
		observability.LogTraceError(ctx.Logger(), nodeID, err)
		return nil
	}

	rec := trace.New(runID, step, nodeID, next, snapshot).
		WithLabel(label).
		WithDuration(d)

	if err := cfg.recorder.Append(rec); err != nil {
		if cfg.traceFatal {
			return fmt.Errorf("trace append at node %s: %w", nodeID, err)
		}
		observability.LogTraceError(ctx.Logger(), nodeID, err)
		return nil
	}

	cfg.metrics.RecordTraceAppend(ctx, nodeID, int64(len(snapshot)))
	return nil
}

// publish sends an event when a bus is configured.
func publish(bus event.Bus, evt event.Event) {
	if bus != nil {
		bus.Publish(evt)
	}
}

// lastNodeOf extracts the failing node key from an invocation error.
func lastNodeOf(err error) string {
	switch e := err.(type) {
	case *NodeError:
		return e.NodeID
	case *RouterError:
		return e.FromNode
	case *StepLimitError:
		return e.LastNodeID
	case *CancellationError:
		return e.NodeID
	case *PanicError:
		return e.NodeID
	default:
		return ""
	}
}
