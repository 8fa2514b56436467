// Package scopeguard provides a single deferred action that runs at most
// once, and can be cancelled before it runs: a small building block for
// wherever a cleanup needs to be armed early and either fired once or
// dismissed once the operation it guards succeeds.
package scopeguard

import "sync"

// Guard runs its action exactly once, either when Run is called explicitly
// or never, if Dismiss is called first. It is safe for concurrent use.
type Guard struct {
	mu       sync.Mutex
	action   func()
	disarmed bool
}

// New returns a Guard that will invoke action the first time Run is
// called, unless Dismiss is called first.
func New(action func()) *Guard {
	return &Guard{action: action}
}

// Run invokes the action if it has not already run and has not been
// dismissed. Safe to call multiple times; only the first call has effect.
func (g *Guard) Run() {
	g.mu.Lock()
	if g.disarmed || g.action == nil {
		g.mu.Unlock()
		return
	}
	action := g.action
	g.action = nil
	g.disarmed = true
	g.mu.Unlock()
	action()
}

// Dismiss prevents the action from ever running. Safe to call after Run;
// it is a no-op in that case.
func (g *Guard) Dismiss() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.disarmed = true
	g.action = nil
}
