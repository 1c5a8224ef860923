// Package expr evaluates small boolean conditions against state values.
//
// Conditions compare state fields to literals or to each other:
//
//	ok, err := expr.Eval("quality_score >= 0.8", st.Raw())
//	ok, err = expr.Eval("iteration < 3 and status != 'done'", st.Raw())
//
// Supported operators: ==, !=, <, >, <=, >=, contains, and, or, not/!.
// A bare identifier evaluates to the truthiness of its value. Equality
// compares textual forms; the ordering operators compare numerically.
//
// The stategraph package builds declarative routers on top of this: an
// ordered list of condition/label rules replaces a hand-written router
// function for the common threshold-and-counter loop exits.
package expr
