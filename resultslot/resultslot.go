// Package resultslot provides Slot, a generic, non-self-synchronizing
// holder of a result code, a value, and an error. Callers (task.Task in
// particular) are responsible for any locking; Slot itself performs none.
package resultslot

import (
	"errors"

	"github.com/chartwell-labs/stockcore/resultcode"
)

// ErrNotReady is returned by Value when no result has been recorded yet.
var ErrNotReady = errors.New("resultslot: result is not available")

// Slot holds the outcome of an operation that produces a value of type R
// or fails with an error. It is not safe for concurrent use without
// external synchronization.
type Slot[R any] struct {
	ready bool
	code  resultcode.Code
	value R
	err   error
}

// Ready reports whether a result has been recorded.
func (s *Slot[R]) Ready() bool {
	return s.ready
}

// Code returns the result code currently stored, resultcode.Unknown if no
// result has been recorded yet.
func (s *Slot[R]) Code() resultcode.Code {
	return s.code
}

// Value returns the stored value. It returns ErrNotReady if no result has
// been recorded yet, or the stored error if the result code is
// resultcode.Failure.
func (s *Slot[R]) Value() (R, error) {
	var zero R
	if !s.ready {
		return zero, ErrNotReady
	}
	if s.code == resultcode.Failure {
		return zero, s.err
	}
	return s.value, nil
}

// Err returns the error stored alongside a Failure result, or nil.
func (s *Slot[R]) Err() error {
	return s.err
}

// SetSuccess records a successful result.
func (s *Slot[R]) SetSuccess(value R) {
	s.value = value
	s.err = nil
	s.code = resultcode.Success
	s.ready = true
}

// SetFailure records a failed result with its associated error.
func (s *Slot[R]) SetFailure(err error) {
	var zero R
	s.value = zero
	s.err = err
	s.code = resultcode.Failure
	s.ready = true
}

// Reset clears the slot back to its initial, not-ready state.
func (s *Slot[R]) Reset() {
	var zero R
	s.value = zero
	s.err = nil
	s.code = resultcode.Unknown
	s.ready = false
}
