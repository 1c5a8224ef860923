// Package registry provides a generic thread-safe registry with
// register-once semantics.
//
// Registry is designed for read-heavy workloads using sync.RWMutex: the
// engine registers node and router functions once at compile time, then
// looks them up on every step of every invocation. Re-registering a key
// returns ErrDuplicate, which is how duplicate node identifiers are
// rejected eagerly.
//
// # Basic Usage
//
//	r := registry.New[string, NodeFunc]()
//	if err := r.Register("search", searchNode); err != nil {
//	    // duplicate key
//	}
//
//	fn, ok := r.Get("search")
package registry
