package problem_test

import (
	"errors"
	"testing"

	"github.com/chartwell-labs/stockcore/problem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveSuccess(t *testing.T) {
	p := problem.New(21, func(i int) (int, error) {
		return i * 2, nil
	})

	out, err := p.Solve()
	require.NoError(t, err)
	assert.Equal(t, 42, out)
}

func TestSolveWrapsComputeError(t *testing.T) {
	inner := errors.New("bad input")
	p := problem.New(0, func(int) (int, error) {
		return 0, inner
	})

	_, err := p.Solve()
	require.Error(t, err)
	var abort *problem.AbortError
	require.ErrorAs(t, err, &abort)
	assert.ErrorIs(t, err, inner)
}

func TestSolveRecoversFromPanic(t *testing.T) {
	p := problem.New(0, func(int) (int, error) {
		panic("kaboom")
	})

	_, err := p.Solve()
	require.Error(t, err)
	var abort *problem.AbortError
	require.ErrorAs(t, err, &abort)
}

func TestSolvePreservesAbortErrorFromCompute(t *testing.T) {
	original := &problem.AbortError{Message: "custom failure"}
	p := problem.New(0, func(int) (int, error) {
		return 0, original
	})

	_, err := p.Solve()
	assert.Same(t, original, err)
}

func TestInput(t *testing.T) {
	p := problem.New("AAPL", func(s string) (int, error) {
		return len(s), nil
	})
	assert.Equal(t, "AAPL", p.Input())
}
