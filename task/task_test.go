package task_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chartwell-labs/stockcore/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformSyncSuccess(t *testing.T) {
	tsk := task.New(5, func(i int) (int, error) {
		return i * i, nil
	})

	out, err := tsk.PerformSync()
	require.NoError(t, err)
	assert.Equal(t, 25, out)
	assert.Equal(t, task.Finished, tsk.State())
}

func TestPerformSyncFailure(t *testing.T) {
	boom := errors.New("boom")
	tsk := task.New(0, func(int) (int, error) {
		return 0, boom
	})

	_, err := tsk.PerformSync()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, task.Finished, tsk.State())
}

func TestPerformAsyncAndWait(t *testing.T) {
	tsk := task.New("AAPL", func(s string) (string, error) {
		time.Sleep(10 * time.Millisecond)
		return "Apple Inc.", nil
	})

	require.NoError(t, tsk.PerformAsync())
	assert.Equal(t, task.InProgress, tsk.State())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	out, err := tsk.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", out)
}

func TestWaitTimesOutIfNeverPerformed(t *testing.T) {
	tsk := task.New(1, func(int) (int, error) { return 1, nil })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := tsk.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestReset(t *testing.T) {
	tsk := task.New(2, func(i int) (int, error) { return i, nil })
	_, err := tsk.PerformSync()
	require.NoError(t, err)

	require.NoError(t, tsk.Reset())
	assert.Equal(t, task.NotPerformed, tsk.State())

	_, err = tsk.Output()
	require.Error(t, err)
}

func TestCompletionCallbackFiresOnFinish(t *testing.T) {
	tsk := task.New(3, func(i int) (int, error) { return i + 1, nil })

	done := make(chan int, 1)
	tsk.SetCompletionCallback(func(tk *task.Task[int, int]) {
		out, err := tk.Output()
		require.NoError(t, err)
		done <- out
	})

	_, err := tsk.PerformSync()
	require.NoError(t, err)

	select {
	case out := <-done:
		assert.Equal(t, 4, out)
	case <-time.After(time.Second):
		t.Fatal("completion callback never fired")
	}
}

func TestCompletionCallbackFiresImmediatelyIfAlreadyFinished(t *testing.T) {
	tsk := task.New(10, func(i int) (int, error) { return i, nil })
	_, err := tsk.PerformSync()
	require.NoError(t, err)

	called := false
	tsk.SetCompletionCallback(func(t *task.Task[int, int]) {
		called = true
	})

	assert.True(t, called)
}

func TestDoubleBeginIsInvalidTransition(t *testing.T) {
	tsk := task.New(1, func(int) (int, error) {
		time.Sleep(50 * time.Millisecond)
		return 1, nil
	})
	require.NoError(t, tsk.PerformAsync())

	err := tsk.PerformAsync()
	assert.Error(t, err)
}
