package config

import (
	"github.com/jmallon/stategraph/pkg/stategraph"
	"github.com/jmallon/stategraph/pkg/stategraph/observability"
)

// InvokeOptionsFromConfig derives invocation options from runtime tuning
// keys:
//
//	step_limit: 50
//	metrics: true
//	tracing: true
//
// step_limit maps to stategraph.WithStepLimit; metrics and tracing, when
// true, enable the OpenTelemetry recorders. Absent keys contribute no
// option, so engine defaults apply. The returned slice can be extended
// with further options before passing it to Invoke.
//
// Example:
//
//	opts := config.InvokeOptionsFromConfig(cfg)
//	final, err := compiled.Invoke(ctx, initial, opts...)
func InvokeOptionsFromConfig(c Config) []stategraph.InvokeOption {
	var opts []stategraph.InvokeOption

	if c.Has("step_limit") {
		opts = append(opts, stategraph.WithStepLimit(c.Int("step_limit", stategraph.DefaultStepLimit)))
	}
	if c.Bool("metrics", false) {
		opts = append(opts, stategraph.WithMetrics(observability.NewMetricsRecorder()))
	}
	if c.Bool("tracing", false) {
		opts = append(opts, stategraph.WithTracing(observability.NewSpanManager()))
	}

	return opts
}
