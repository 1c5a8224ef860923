package expr

import (
	"fmt"
	"strings"
)

// BinaryOp compares two resolved values.
type BinaryOp func(left, right any) bool

// builtinOps are tried in order; longer operators first so ">=" wins
// over ">".
var builtinOps = []struct {
	token   string
	compare BinaryOp
}{
	{"==", func(l, r any) bool { return textOf(l) == textOf(r) }},
	{"!=", func(l, r any) bool { return textOf(l) != textOf(r) }},
	{">=", func(l, r any) bool { return ToFloat64(l) >= ToFloat64(r) }},
	{"<=", func(l, r any) bool { return ToFloat64(l) <= ToFloat64(r) }},
	{">", func(l, r any) bool { return ToFloat64(l) > ToFloat64(r) }},
	{"<", func(l, r any) bool { return ToFloat64(l) < ToFloat64(r) }},
	{" contains ", func(l, r any) bool { return strings.Contains(textOf(l), textOf(r)) }},
}

// textOf renders a value for textual equality comparison.
func textOf(v any) string {
	return fmt.Sprintf("%v", v)
}

// Evaluator evaluates boolean conditions, optionally extended with
// custom operators. The zero value has no custom operators; Eval uses it.
type Evaluator struct {
	customOps map[string]BinaryOp
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithOperator registers a custom binary operator, referenced in
// conditions as "left <name> right". Names must not collide with the
// built-in operator tokens.
func WithOperator(name string, fn BinaryOp) Option {
	return func(e *Evaluator) {
		if e.customOps == nil {
			e.customOps = make(map[string]BinaryOp)
		}
		e.customOps[name] = fn
	}
}

// New creates an Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Eval evaluates a condition using the default evaluator.
func Eval(condition string, vars map[string]any) (bool, error) {
	return New().Eval(condition, vars)
}

// Eval evaluates a condition against the provided variables.
//
// Grammar, loosest-binding first: "a or b", "a and b", "not a" / "!a",
// then a single binary comparison or a bare truthy value. Quoted string
// literals are atomic: connective and operator tokens inside quotes, as
// in `category == "spam or phish"`, never split the condition.
func (e *Evaluator) Eval(condition string, vars map[string]any) (bool, error) {
	condition = strings.TrimSpace(condition)
	if condition == "" {
		return false, nil
	}

	// Negation prefixes.
	if rest, ok := strings.CutPrefix(condition, "not "); ok {
		result, err := e.Eval(rest, vars)
		return !result, err
	}
	if rest, ok := strings.CutPrefix(condition, "!"); ok {
		result, err := e.Eval(rest, vars)
		return !result, err
	}

	// Boolean connectives. "or" splits first so it binds loosest:
	// "a and b or c" reads as (a and b) or (c).
	if left, right, ok := cutOutsideQuotes(condition, " or "); ok {
		l, err := e.Eval(left, vars)
		if err != nil {
			return false, err
		}
		r, err := e.Eval(right, vars)
		if err != nil {
			return false, err
		}
		return l || r, nil
	}
	if left, right, ok := cutOutsideQuotes(condition, " and "); ok {
		l, err := e.Eval(left, vars)
		if err != nil {
			return false, err
		}
		r, err := e.Eval(right, vars)
		if err != nil {
			return false, err
		}
		return l && r, nil
	}

	// Binary comparison.
	for _, op := range builtinOps {
		if left, right, ok := cutOutsideQuotes(condition, op.token); ok {
			return op.compare(Resolve(left, vars), Resolve(right, vars)), nil
		}
	}
	for name, fn := range e.customOps {
		if left, right, ok := cutOutsideQuotes(condition, " "+name+" "); ok {
			return fn(Resolve(left, vars), Resolve(right, vars)), nil
		}
	}

	// Bare value: truthiness.
	return IsTruthy(Resolve(condition, vars)), nil
}

// cutOutsideQuotes is strings.Cut restricted to the first occurrence of
// sep outside single- or double-quoted literals.
func cutOutsideQuotes(s, sep string) (left, right string, found bool) {
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		if c == '\'' || c == '"' {
			quote = c
			continue
		}
		if strings.HasPrefix(s[i:], sep) {
			return s[:i], s[i+len(sep):], true
		}
	}
	return s, "", false
}
