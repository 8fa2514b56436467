package quote_test

import (
	"context"
	"testing"
	"time"

	"github.com/chartwell-labs/stockcore/decoder"
	"github.com/chartwell-labs/stockcore/quote"
	"github.com/chartwell-labs/stockcore/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocessURLSubstitutesFirstOccurrence(t *testing.T) {
	p := quote.New(quote.BehaviorFakeSuccess, nil, nil, "https://x.test/{STOCK}/{STOCK}", 0)
	assert.Equal(t, "https://x.test/AAPL/{STOCK}", p.PreprocessURL("AAPL"))
}

func TestFakeSuccessBehaviorDecodes(t *testing.T) {
	p := quote.New(quote.BehaviorFakeSuccess, nil, decoder.JSONQuoteDecoder{}, "", 0)
	tsk := task.New("AAPL", p.ComputeFunc(context.Background()))

	out, err := tsk.PerformSync()
	require.NoError(t, err)
	assert.Equal(t, "99.99", out["response"])
	assert.Equal(t, "Test Inc.", out["companyname"])
}

func TestFakeNotFoundBehaviorFails(t *testing.T) {
	p := quote.New(quote.BehaviorFakeNotFound, nil, decoder.JSONQuoteDecoder{}, "", 0)
	tsk := task.New("ZZZZ", p.ComputeFunc(context.Background()))

	_, err := tsk.PerformSync()
	assert.Error(t, err)
}

func TestHangingBehaviorRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	p := quote.New(quote.BehaviorHanging, nil, decoder.JSONQuoteDecoder{}, "", 0)
	tsk := task.New("AAPL", p.ComputeFunc(ctx))

	_, err := tsk.PerformSync()
	assert.Error(t, err)
}
