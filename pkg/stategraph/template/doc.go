/*
Package template substitutes ${name} and $name placeholders in strings
and nested config maps.

The config package uses it to resolve placeholders in graph definitions
loaded from YAML, so a single file can be parameterized per environment:

	exp := template.NewExpander(template.WithEnvFallback(true))
	dsn, err := exp.Expand("file:${TRACE_DB}?mode=rwc", nil)

Missing placeholders are kept as-is by default. Use WithMissingAction to
blank them or to fail with an UndefinedVariableError instead.
*/
package template
