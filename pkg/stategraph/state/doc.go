// Package state provides the typed state container threaded through a
// graph run.
//
// A Schema declares the full field set up front: every field has a name, a
// Kind, and an optional default. A State is a set of values bound to a
// schema. Nodes never mutate a State directly; they return a partial Update
// naming only the fields they want to change, and the executor merges it
// with whole-value replacement per field (last write wins).
//
// Updates may only touch declared fields, and values must match the declared
// kind. Both rules are enforced at merge time so a misbehaving node fails
// its invocation instead of silently corrupting state.
package state
