// Package registry implements a process-wide handle registry for
// asynchronous ticker-quote fetches, exposing a small C-style API (opaque
// handles, explicit init/cleanup) atop task.Task and quote.TickerProblem.
//
// A Handle is a weak reference: an opaque key into the Registry's
// internal task table, rather than a pointer into it, so a caller can
// never dereference storage the Registry has already disposed of.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chartwell-labs/stockcore/decoder"
	"github.com/chartwell-labs/stockcore/quote"
	"github.com/chartwell-labs/stockcore/scopeguard"
	"github.com/chartwell-labs/stockcore/sweeplist"
	"github.com/chartwell-labs/stockcore/task"
	"github.com/chartwell-labs/stockcore/transport"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/joeycumines/logiface"
)

// Handle is an opaque reference to an in-flight or completed asynchronous
// fetch, obtained from FetchAsync.
type Handle struct {
	id uuid.UUID
}

// ErrNotInitialized is returned by any operation performed before Init.
var ErrNotInitialized = errors.New("registry: not initialized")

// ErrAlreadyInitialized is returned by Init if called twice without an
// intervening Reset.
var ErrAlreadyInitialized = errors.New("registry: already initialized")

// ErrUnknownHandle is returned when a Handle does not refer to any
// tracked fetch, either because it was never valid or because it has
// already been disposed of.
var ErrUnknownHandle = errors.New("registry: unknown handle")

// ErrDisposeWhileInProgress is returned by AsyncDispose when the fetch a
// Handle refers to has not yet finished.
var ErrDisposeWhileInProgress = errors.New("registry: cannot dispose of a fetch still in progress")

// ErrCleanupWhileInProgress is returned by Cleanup if any tracked fetch
// has not yet finished; no handles are disposed of in that case.
var ErrCleanupWhileInProgress = errors.New("registry: one or more fetches still in progress")

type trackedTask = task.Task[string, map[string]string]

// Registry is a process-wide table of in-flight and completed ticker
// fetches. The zero value is not usable; construct one with New.
type Registry struct {
	mu sync.Mutex

	initialized  bool
	testMode     bool
	testBehavior quote.Behavior
	transport    transport.Transport
	decoder      decoder.ResponseDecoder
	urlTemplate  string
	bufferSize   int

	tasks     map[uuid.UUID]*trackedTask
	namecache map[string]string

	log *logiface.Logger[logiface.Event]
}

// Option configures a Registry at construction.
type Option func(*Registry)

// WithTransport overrides the Transport used for real (non-test) fetches.
func WithTransport(tr transport.Transport) Option {
	return func(r *Registry) { r.transport = tr }
}

// WithDecoder overrides the ResponseDecoder used to parse fetch responses.
func WithDecoder(dec decoder.ResponseDecoder) Option {
	return func(r *Registry) { r.decoder = dec }
}

// WithURLTemplate overrides the {STOCK}-templated URL used for real
// fetches.
func WithURLTemplate(tmpl string) Option {
	return func(r *Registry) { r.urlTemplate = tmpl }
}

// WithBufferSize overrides the response buffer size used for real
// fetches.
func WithBufferSize(size int) Option {
	return func(r *Registry) { r.bufferSize = size }
}

// WithLogger attaches a structured logger observing registry operations.
func WithLogger(log *logiface.Logger[logiface.Event]) Option {
	return func(r *Registry) { r.log = log }
}

// New constructs an uninitialized Registry; call Init before using it.
func New(opts ...Option) *Registry {
	r := &Registry{
		transport: transport.NewHTTPTransport(),
		decoder:   decoder.JSONQuoteDecoder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) logEvent(msg string, fields map[string]string) {
	if r.log == nil {
		return
	}
	b := r.log.Info()
	for k, v := range fields {
		b = b.Str(k, v)
	}
	b.Log(msg)
}

// Init prepares the Registry for use. It returns ErrAlreadyInitialized if
// called twice without an intervening Reset.
func (r *Registry) Init() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.initialized {
		return ErrAlreadyInitialized
	}
	r.initialized = true
	r.tasks = make(map[uuid.UUID]*trackedTask)
	r.namecache = make(map[string]string)
	r.logEvent("registry initialized", nil)
	return nil
}

// Reset tears the Registry back down to its uninitialized state,
// discarding all tracked tasks regardless of whether they've finished.
// Unlike Cleanup, Reset is unconditional; it exists for test isolation.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.initialized = false
	r.tasks = nil
	r.namecache = nil
	r.testMode = false
}

// SetTestMode enables or disables test mode. While enabled, FetchAsync and
// FetchSync use the configured test Behavior instead of performing a real
// network fetch.
func (r *Registry) SetTestMode(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.testMode = enabled
}

// SetTestBehavior selects which canned Behavior test-mode fetches use.
func (r *Registry) SetTestBehavior(behavior quote.Behavior) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.testBehavior = behavior
}

// OpenHandleCount returns the number of fetches currently tracked,
// finished or not.
func (r *Registry) OpenHandleCount() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return 0, ErrNotInitialized
	}
	return len(r.tasks), nil
}

func (r *Registry) behaviorLocked() quote.Behavior {
	if r.testMode {
		return r.testBehavior
	}
	return quote.BehaviorNormal
}

func (r *Registry) newTickerProblem() *quote.TickerProblem {
	return quote.New(r.behaviorLocked(), r.transport, r.decoder, r.urlTemplate, r.bufferSize)
}

// fetchSyncLocked performs a synchronous fetch assuming r.mu is already
// held by the caller. It exists so TickerToName can perform its own
// synchronous fetch while already holding the registry lock, without
// needing a recursive mutex: Go has none in the standard library, so
// instead of re-acquiring, callers that already hold the lock call this
// unexported, non-locking twin of FetchSync directly. On success it
// writes the resolved company name into the ticker→name cache, so any
// successful synchronous fetch — whether via FetchSync or TickerToName —
// populates the cache the same way.
func (r *Registry) fetchSyncLocked(ctx context.Context, ticker string) (map[string]string, error) {
	tp := r.newTickerProblem()
	tsk := task.New(ticker, tp.ComputeFunc(ctx))
	out, err := tsk.PerformSync()
	if err == nil {
		r.namecache[ticker] = out["companyname"]
	}
	return out, err
}

// FetchSync performs a synchronous fetch for ticker and returns its
// decoded quote fields once complete.
func (r *Registry) FetchSync(ctx context.Context, ticker string) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return nil, ErrNotInitialized
	}
	return r.fetchSyncLocked(ctx, ticker)
}

// FetchAsync starts an asynchronous fetch for ticker and returns a Handle
// referring to it immediately, without waiting for completion.
func (r *Registry) FetchAsync(ctx context.Context, ticker string) (Handle, error) {
	r.mu.Lock()
	if !r.initialized {
		r.mu.Unlock()
		return Handle{}, ErrNotInitialized
	}
	tp := r.newTickerProblem()
	tsk := task.New(ticker, tp.ComputeFunc(ctx))
	id := uuid.New()
	r.tasks[id] = tsk

	// If PerformAsync fails to even start, the entry must not linger in
	// r.tasks as a handle that can never complete or be disposed of.
	untrack := scopeguard.New(func() {
		r.mu.Lock()
		delete(r.tasks, id)
		r.mu.Unlock()
	})
	defer untrack.Run()

	tsk.SetCompletionCallback(func(t *trackedTask) {
		out, err := t.Output()
		if err == nil {
			r.mu.Lock()
			r.namecache[ticker] = out["companyname"]
			r.mu.Unlock()
		}
	})
	r.mu.Unlock()

	if err := tsk.PerformAsync(); err != nil {
		return Handle{}, err
	}
	untrack.Dismiss()
	r.logEvent("async fetch started", map[string]string{"ticker": ticker})
	return Handle{id: id}, nil
}

func (r *Registry) lookupLocked(h Handle) (*trackedTask, error) {
	tsk, ok := r.tasks[h.id]
	if !ok {
		return nil, ErrUnknownHandle
	}
	return tsk, nil
}

// RegisterCallback arranges for cb to be invoked once the fetch h refers
// to completes, or immediately if it already has.
func (r *Registry) RegisterCallback(h Handle, cb func(map[string]string, error)) error {
	r.mu.Lock()
	if !r.initialized {
		r.mu.Unlock()
		return ErrNotInitialized
	}
	tsk, err := r.lookupLocked(h)
	r.mu.Unlock()
	if err != nil {
		return err
	}

	tsk.SetCompletionCallback(func(t *trackedTask) {
		out, err := t.Output()
		cb(out, err)
	})
	return nil
}

// IsComplete reports whether the fetch h refers to has finished.
func (r *Registry) IsComplete(h Handle) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return false, ErrNotInitialized
	}
	tsk, err := r.lookupLocked(h)
	if err != nil {
		return false, err
	}
	return tsk.State() == task.Finished, nil
}

// AsyncResult returns the current outcome of the fetch h refers to,
// without blocking. It returns resultslot.ErrNotReady (via Task.Output)
// if the fetch has not yet finished.
func (r *Registry) AsyncResult(h Handle) (map[string]string, error) {
	r.mu.Lock()
	if !r.initialized {
		r.mu.Unlock()
		return nil, ErrNotInitialized
	}
	tsk, err := r.lookupLocked(h)
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return tsk.Output()
}

// AsyncWait blocks until the fetch h refers to finishes, or ctx is
// cancelled, then returns its outcome. The registry lock is released
// before blocking so unrelated registry operations aren't serialized
// behind a single slow fetch.
func (r *Registry) AsyncWait(ctx context.Context, h Handle) (map[string]string, error) {
	r.mu.Lock()
	if !r.initialized {
		r.mu.Unlock()
		return nil, ErrNotInitialized
	}
	tsk, err := r.lookupLocked(h)
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return tsk.Settled(ctx)
}

// AsyncDispose removes the fetch h refers to from the registry, freeing
// its tracked state. It returns ErrDisposeWhileInProgress if the fetch
// has not yet finished. AsyncDispose holds the registry lock for the
// entire check-then-remove sequence, so no other goroutine can observe
// the handle in a half-removed state.
func (r *Registry) AsyncDispose(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return ErrNotInitialized
	}
	tsk, err := r.lookupLocked(h)
	if err != nil {
		return err
	}
	if tsk.State() != task.Finished {
		return ErrDisposeWhileInProgress
	}
	delete(r.tasks, h.id)
	return nil
}

// WaitAll blocks until every currently tracked fetch has finished (and, by
// using Task.Settled rather than Task.Wait, until each one's completion
// callback has finished running too), or ctx is cancelled. It visits every
// tracked fetch rather than stopping at the first failure, aggregating
// every failure into a single error via multierror.
func (r *Registry) WaitAll(ctx context.Context) error {
	r.mu.Lock()
	if !r.initialized {
		r.mu.Unlock()
		return ErrNotInitialized
	}
	tasks := make([]*trackedTask, 0, len(r.tasks))
	for _, tsk := range r.tasks {
		tasks = append(tasks, tsk)
	}
	r.mu.Unlock()

	var result *multierror.Error
	for _, tsk := range tasks {
		if _, err := tsk.Settled(ctx); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Cleanup disposes of every tracked fetch that has finished. If any
// tracked fetch has not finished, Cleanup disposes of none of them and
// returns ErrCleanupWhileInProgress rather than partially clean up.
func (r *Registry) Cleanup() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return ErrNotInitialized
	}

	disposals := sweeplist.New(func(id uuid.UUID) {
		delete(r.tasks, id)
	})
	for id, tsk := range r.tasks {
		if tsk.State() != task.Finished {
			return ErrCleanupWhileInProgress
		}
		disposals.Add(id)
	}
	disposals.Run()
	return nil
}

// TickerToName resolves ticker to its issuer's display name, using a
// cached value if one is available, else performing a synchronous fetch
// to populate the cache. It calls fetchSyncLocked directly rather than
// going back through FetchSync, since the lock it already holds is not
// re-entrant.
func (r *Registry) TickerToName(ctx context.Context, ticker string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return "", ErrNotInitialized
	}
	if name, ok := r.namecache[ticker]; ok {
		return name, nil
	}
	out, err := r.fetchSyncLocked(ctx, ticker)
	if err != nil {
		return "", fmt.Errorf("registry: resolving name for %q: %w", ticker, err)
	}
	return out["companyname"], nil
}
