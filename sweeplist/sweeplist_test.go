package sweeplist_test

import (
	"testing"

	"github.com/chartwell-labs/stockcore/sweeplist"
	"github.com/stretchr/testify/assert"
)

func TestListRunsInInsertionOrder(t *testing.T) {
	var seen []int
	l := sweeplist.New(func(i int) { seen = append(seen, i) })
	l.Add(1)
	l.Add(2)
	l.Add(3)
	l.Run()

	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestListRunTwiceOnlyActsOnce(t *testing.T) {
	calls := 0
	l := sweeplist.New(func(string) { calls++ })
	l.Add("a")
	l.Run()
	l.Run()
	assert.Equal(t, 1, calls)
}

func TestListTypicalDeferUsage(t *testing.T) {
	disposed := map[string]bool{}
	func() {
		l := sweeplist.New(func(name string) { disposed[name] = true })
		defer l.Run()
		l.Add("resource-a")
		l.Add("resource-b")
	}()

	assert.True(t, disposed["resource-a"])
	assert.True(t, disposed["resource-b"])
}
