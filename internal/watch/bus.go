// Package watch implements the directory watch bus: callback
// registration keyed on (owner, watched_path), snapshot-then-invoke
// notification, and reentrant-safe unregistration.
package watch

import (
	"sync"

	"github.com/pkg/errors"
)

// Action is the kind of change a notification reports.
type Action uint8

const (
	ActionAdded Action = iota
	ActionRemoved
	ActionModified
	ActionRenamed
)

// Change is one entry of a notification. A rename delivers two
// Changes (old-name removed, new-name added) in a single Notify call.
type Change struct {
	RelativePath string
	Action       Action
}

// Callback receives the watched path and the batch of changes under it.
type Callback func(watchedPath string, changes []Change)

// registration tracks one watcher's interest in a directory.
type registration struct {
	owner       string
	watchedPath string
	callback    Callback
	cookie      interface{}

	mu       sync.Mutex
	active   bool
	inFlight int
	drained  *sync.Cond
}

func newRegistration(owner, watchedPath string, cb Callback, cookie interface{}) *registration {
	r := &registration{owner: owner, watchedPath: watchedPath, callback: cb, cookie: cookie, active: true}
	r.drained = sync.NewCond(&r.mu)
	return r
}

// Bus is the directory watch bus: one per Forest.
type Bus struct {
	mu    sync.Mutex
	byKey map[string]*registration
}

func NewBus() *Bus {
	return &Bus{byKey: make(map[string]*registration)}
}

func key(owner, watchedPath string) string { return owner + "\x00" + watchedPath }

// ErrExists and ErrNotFound mirror the vfs package's sentinel errors
// without importing it (watch has no reason to depend on vfs).
var (
	ErrExists   = errors.New("watch: registration exists")
	ErrNotFound = errors.New("watch: registration not found")
)

// Register adds a watch, failing with ErrExists if (owner,
// watchedPath) is already registered and active.
func (b *Bus) Register(owner, watchedPath string, cb Callback, cookie interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	k := key(owner, watchedPath)
	if existing, ok := b.byKey[k]; ok && existing.active {
		return ErrExists
	}
	b.byKey[k] = newRegistration(owner, watchedPath, cb, cookie)
	return nil
}

// Unregister deactivates a watch and waits for any in-flight
// notification to drain to zero. Callers inside the registration's
// own callback must use UnregisterFromCallback instead, or this
// deadlocks against its own in-flight count.
func (b *Bus) Unregister(owner, watchedPath string) error {
	return b.unregister(owner, watchedPath, 0)
}

// UnregisterFromCallback is Unregister's reentrant variant: call it
// when a watch callback wants to unregister itself from within its
// own invocation. It waits for in_flight <= 1 (the caller's own
// in-progress invocation) rather than draining to zero, avoiding the
// deadlock Unregister would hit if called naively from inside a
// callback.
func (b *Bus) UnregisterFromCallback(owner, watchedPath string) error {
	return b.unregister(owner, watchedPath, 1)
}

func (b *Bus) unregister(owner, watchedPath string, threshold int) error {
	b.mu.Lock()
	k := key(owner, watchedPath)
	r, ok := b.byKey[k]
	if !ok || !r.active {
		b.mu.Unlock()
		return ErrNotFound
	}
	delete(b.byKey, k)
	b.mu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = false
	for r.inFlight > threshold {
		r.drained.Wait()
	}
	return nil
}

// Notify snapshots matching
// registrations under the bus lock, then invoke callbacks outside it.
func (b *Bus) Notify(watchedPath string, changes []Change) {
	b.mu.Lock()
	var matched []*registration
	for _, r := range b.byKey {
		if r.watchedPath == watchedPath && r.active {
			r.mu.Lock()
			r.inFlight++
			r.mu.Unlock()
			matched = append(matched, r)
		}
	}
	b.mu.Unlock()

	for _, r := range matched {
		r.callback(watchedPath, changes)
		r.mu.Lock()
		r.inFlight--
		if r.inFlight <= 1 {
			r.drained.Broadcast()
		}
		r.mu.Unlock()
	}
}
