// Package task drives a problem.Problem through a small lifecycle —
// NotPerformed, InProgress, Finished — synchronously or asynchronously,
// and exposes its outcome via a resultslot.Slot.
package task

import (
	"context"
	"sync"

	"github.com/chartwell-labs/stockcore/problem"
	"github.com/chartwell-labs/stockcore/resultslot"
	"github.com/chartwell-labs/stockcore/stateengine"
	"github.com/joeycumines/logiface"
)

// State is one of the three lifecycle states a Task moves through.
type State int

const (
	NotPerformed State = iota
	InProgress
	Finished
)

func (s State) String() string {
	switch s {
	case NotPerformed:
		return "not-performed"
	case InProgress:
		return "in-progress"
	case Finished:
		return "finished"
	default:
		return "invalid"
	}
}

// Action drives a Task's internal state machine.
type Action int

const (
	Begin Action = iota
	Abort
	Finish
	Reset
)

func (a Action) String() string {
	switch a {
	case Begin:
		return "begin"
	case Abort:
		return "abort"
	case Finish:
		return "finish"
	case Reset:
		return "reset"
	default:
		return "invalid"
	}
}

// CompletionCallback is invoked once a Task reaches the Finished state,
// either as part of the transition or immediately if the Task is already
// Finished by the time it's registered.
type CompletionCallback[I any, O any] func(t *Task[I, O])

// Task drives a single problem.Problem through its lifecycle. It is safe
// for concurrent use. The zero value is not usable; construct one with
// New.
type Task[I any, O any] struct {
	mu      sync.Mutex
	input   I
	compute problem.ComputeFunc[I, O]
	sm      *stateengine.Machine[State, Action]
	slot    resultslot.Slot[O]
	onDone  CompletionCallback[I, O]
	log     *logiface.Logger[logiface.Event]
}

// Option configures a Task at construction.
type Option[I any, O any] func(*Task[I, O])

// WithLogger attaches a structured logger observing state transitions. A
// nil logger (the default) disables logging entirely.
func WithLogger[I any, O any](log *logiface.Logger[logiface.Event]) Option[I, O] {
	return func(t *Task[I, O]) {
		t.log = log
	}
}

// New constructs a Task that will run compute(input) when performed.
func New[I any, O any](input I, compute problem.ComputeFunc[I, O], opts ...Option[I, O]) *Task[I, O] {
	t := &Task[I, O]{
		input:   input,
		compute: compute,
		sm:      stateengine.New[State, Action](),
	}
	t.sm.AddTransition(NotPerformed, Begin, InProgress)
	t.sm.AddTransition(InProgress, Finish, Finished)
	t.sm.AddTransition(InProgress, Abort, NotPerformed)
	t.sm.AddTransition(Finished, Reset, NotPerformed)
	t.sm.SetEntryHook(Finished, func(h *stateengine.Handle[State, Action]) {
		if t.onDone != nil {
			t.onDone(t)
		}
	})
	t.sm.Initialize(NotPerformed)

	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Task[I, O]) logEvent(msg string) {
	if t.log == nil {
		return
	}
	t.log.Info().Log(msg)
}

// State returns the Task's current lifecycle state.
func (t *Task[I, O]) State() State {
	return t.sm.GetState()
}

// SetCompletionCallback registers cb to run once the Task reaches
// Finished. If the Task is already Finished, cb runs immediately, before
// SetCompletionCallback returns.
func (t *Task[I, O]) SetCompletionCallback(cb CompletionCallback[I, O]) {
	// Register and check the state under the machine's lock, which the
	// Finished entry hook also runs under, so a concurrent Finish either
	// sees cb or has already happened, never both.
	h := t.sm.Lock()
	t.onDone = cb
	alreadyFinished := h.State() == Finished
	h.Unlock()

	if alreadyFinished && cb != nil {
		cb(t)
	}
}

// perform runs the problem and records its outcome, transitioning to
// Finished regardless of success or failure.
func (t *Task[I, O]) perform() {
	p := problem.New(t.input, t.compute)
	out, err := p.Solve()

	t.mu.Lock()
	if err != nil {
		t.slot.SetFailure(err)
	} else {
		t.slot.SetSuccess(out)
	}
	t.mu.Unlock()

	// Dispatch outside t.mu: the Finished entry hook may invoke the
	// completion callback, which is free to call back into Output, which
	// needs t.mu itself. The callback runs with the state machine's lock
	// held, so it must not call Wait or Settled.
	_ = t.sm.Dispatch(Finish)

	t.logEvent("task finished")
}

// PerformSync dispatches Begin, runs the problem synchronously, and
// returns its outcome once Finished.
func (t *Task[I, O]) PerformSync() (O, error) {
	t.mu.Lock()
	if err := t.sm.Dispatch(Begin); err != nil {
		t.mu.Unlock()
		var zero O
		return zero, err
	}
	t.mu.Unlock()

	t.logEvent("task started (sync)")
	t.perform()
	return t.Output()
}

// PerformAsync dispatches Begin and spawns a goroutine to run the problem
// in the background, returning immediately. The goroutine itself does not
// hold Task's bookkeeping lock for the duration of the computation — only
// the state dispatch and slot write are synchronized.
func (t *Task[I, O]) PerformAsync() error {
	t.mu.Lock()
	if err := t.sm.Dispatch(Begin); err != nil {
		t.mu.Unlock()
		return err
	}
	t.mu.Unlock()

	t.logEvent("task started (async)")
	go t.perform()
	return nil
}

// Wait blocks until the Task reaches Finished, or ctx is cancelled, then
// returns its outcome.
func (t *Task[I, O]) Wait(ctx context.Context) (O, error) {
	if err := t.sm.WaitForEntry(ctx, Finished); err != nil {
		var zero O
		return zero, err
	}
	return t.Output()
}

// Settled waits for the Task to reach Finished, like Wait, but
// additionally guarantees that any completion callback triggered by the
// transition has finished running before returning. Dispatch notifies
// WaitForEntry's waiters before running the Finished entry hook, so Wait
// alone can return while a completion callback is still in flight;
// Settled re-acquires the underlying state machine's lock, which the
// dispatching goroutine holds for the duration of the entry hook, forcing
// the two to line up.
func (t *Task[I, O]) Settled(ctx context.Context) (O, error) {
	if err := t.sm.WaitForEntry(ctx, Finished); err != nil {
		var zero O
		return zero, err
	}
	h := t.sm.Lock()
	h.Unlock()
	return t.Output()
}

// Output returns the Task's current outcome. Before the Task has
// finished, this returns resultslot.ErrNotReady.
func (t *Task[I, O]) Output() (O, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.slot.Value()
}

// Reset dispatches Reset, returning the Task to NotPerformed and clearing
// its recorded outcome, so it can be performed again.
func (t *Task[I, O]) Reset() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.sm.Dispatch(Reset); err != nil {
		return err
	}
	t.slot.Reset()
	return nil
}
