// Package observability provides structured logging, metrics, and tracing
// for stategraph invocations.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// Metrics and tracing are opt-in and have no-op implementations when
// disabled.
package observability

import (
	"log/slog"
)

// LogInvokeStart logs the start of an invocation.
func LogInvokeStart(logger *slog.Logger, runID, entry string) {
	if logger == nil {
		return
	}
	logger.Info("invocation starting",
		slog.String("run_id", runID),
		slog.String("entry", entry),
	)
}

// LogInvokeComplete logs successful completion of an invocation.
func LogInvokeComplete(logger *slog.Logger, runID string, durationMs float64, steps int) {
	if logger == nil {
		return
	}
	logger.Info("invocation completed",
		slog.String("run_id", runID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("steps", steps),
	)
}

// LogInvokeError logs invocation failure.
func LogInvokeError(logger *slog.Logger, runID string, err error, durationMs float64, lastNode string) {
	if logger == nil {
		return
	}
	logger.Error("invocation failed",
		slog.String("run_id", runID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
		slog.String("last_node", lastNode),
	)
}

// LogNodeStart logs node execution start.
func LogNodeStart(logger *slog.Logger, nodeID string, step int) {
	if logger == nil {
		return
	}
	logger.Debug("node starting",
		slog.String("node_id", nodeID),
		slog.Int("step", step),
	)
}

// LogNodeComplete logs successful node completion.
func LogNodeComplete(logger *slog.Logger, nodeID string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("node completed",
		slog.String("node_id", nodeID),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogNodeError logs node execution failure.
func LogNodeError(logger *slog.Logger, nodeID string, err error) {
	if logger == nil {
		return
	}
	logger.Error("node failed",
		slog.String("node_id", nodeID),
		slog.String("error", err.Error()),
	)
}

// LogRouteDecision logs a conditional edge decision.
func LogRouteDecision(logger *slog.Logger, fromNode, label, target string) {
	if logger == nil {
		return
	}
	logger.Debug("route decided",
		slog.String("from_node", fromNode),
		slog.String("label", label),
		slog.String("target", target),
	)
}

// LogTraceError logs a non-fatal execution trace recording failure.
func LogTraceError(logger *slog.Logger, nodeID string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("trace record failed",
		slog.String("node_id", nodeID),
		slog.String("error", err.Error()),
	)
}
