// Package registry maps stable function paths to task functions and their
// assigned queues. Registration is idempotent per function; the registry
// lives for the whole process and entries are never removed.
package registry

import (
	"context"
	"reflect"
	"runtime"
	"sort"
	"strings"
	"sync"
)

// Func is the shape of a registrable task function. Positional arguments
// arrive as a fixed-length []any and keyword arguments as a string-keyed
// map, exactly as they were decoded from the envelope.
type Func func(ctx context.Context, args []any, kwargs map[string]any) error

// Entry binds one registered function to its queue. The queue is fixed at
// first registration and never changes for a given path.
type Entry struct {
	// Path is the entry's primary key: the function's fully qualified
	// name as reported by the runtime.
	Path string

	// Queue is the destination queue for every invocation of Path.
	Queue string

	// Func is the function invoked by the consumer loop.
	Func Func
}

// Registry is a process-wide function table. It is safe for concurrent
// use: consumer loops resolve while producers register.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Register binds fn to queue and returns its entry. Registering the same
// function again returns the existing entry unchanged, even if a
// different queue is given: entries are keyed by function path, not by
// queue.
func (r *Registry) Register(fn Func, queue string) *Entry {
	path := FuncPath(fn)

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[path]; ok {
		return e
	}
	e := &Entry{Path: path, Queue: queue, Func: fn}
	r.entries[path] = e
	return e
}

// Resolve returns the entry for the given function path.
// Returns false if no function is registered under that path.
func (r *Registry) Resolve(path string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[path]
	return e, ok
}

// Paths returns all registered function paths, sorted.
func (r *Registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	paths := make([]string, 0, len(r.entries))
	for path := range r.entries {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Queues returns the distinct queue names across all entries, sorted.
// Each queue appears once no matter how many functions it serves.
func (r *Registry) Queues() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{}, len(r.entries))
	queues := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		if _, ok := seen[e.Queue]; ok {
			continue
		}
		seen[e.Queue] = struct{}{}
		queues = append(queues, e.Queue)
	}
	sort.Strings(queues)
	return queues
}

// FuncPath computes the stable identifier for fn: the fully qualified
// name the runtime reports for its code pointer (import path plus
// function name). Two different functions sharing a short name in
// different packages therefore get different paths, and the same
// function always gets the same path. Method values carry a "-fm"
// suffix which is stripped so bound and unbound forms agree.
func FuncPath(fn Func) string {
	pc := reflect.ValueOf(fn).Pointer()
	name := runtime.FuncForPC(pc).Name()
	return strings.TrimSuffix(name, "-fm")
}
