package template

// MissingAction controls what happens when a placeholder has no value.
type MissingAction int

const (
	// MissingKeep leaves the placeholder text unchanged. Default.
	MissingKeep MissingAction = iota

	// MissingEmpty replaces the placeholder with an empty string.
	MissingEmpty

	// MissingError makes Expand return an UndefinedVariableError.
	MissingError
)

// Option configures an Expander.
type Option func(*Expander)

// WithMissingAction sets how unresolved placeholders are handled.
func WithMissingAction(action MissingAction) Option {
	return func(e *Expander) {
		e.missing = action
	}
}

// WithBraceStyle enables or disables ${name} expansion. Enabled by default.
func WithBraceStyle(enabled bool) Option {
	return func(e *Expander) {
		e.braceStyle = enabled
	}
}

// WithBareStyle enables or disables $name expansion. Enabled by default.
func WithBareStyle(enabled bool) Option {
	return func(e *Expander) {
		e.bareStyle = enabled
	}
}

// WithEnvFallback makes the expander consult the process environment for
// names not present in the vars map. Disabled by default.
func WithEnvFallback(enabled bool) Option {
	return func(e *Expander) {
		e.envFallback = enabled
	}
}
