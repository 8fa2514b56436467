// Package quote fetches a single ticker's quote by composing a
// transport.Transport (network fetch) and a decoder.ResponseDecoder (JSON
// parse) behind a URL template, with test-only canned responses for
// exercising the rest of the system without a real network call.
package quote

import (
	"context"
	"strings"

	"github.com/chartwell-labs/stockcore/decoder"
	"github.com/chartwell-labs/stockcore/fixedbuffer"
	"github.com/chartwell-labs/stockcore/problem"
	"github.com/chartwell-labs/stockcore/transport"
)

// DefaultURLTemplate is the URL template used if none is supplied. It
// contains the single {STOCK} placeholder; PreprocessURL replaces only
// the first occurrence.
const DefaultURLTemplate = "https://example-quote-provider.invalid/quote?symbols={STOCK}"

// placeholder is the token PreprocessURL substitutes.
const placeholder = "{STOCK}"

// Behavior selects how a TickerProblem obtains its response, letting
// tests exercise the decoder and task machinery without a real network
// call.
type Behavior int

const (
	// BehaviorNormal performs the real fetch against the configured
	// Transport.
	BehaviorNormal Behavior = iota
	// BehaviorFakeSuccess returns a canned, well-formed quote response
	// without touching the network.
	BehaviorFakeSuccess
	// BehaviorFakeNotFound returns a canned response shaped like the
	// provider's empty-result response for an unrecognized ticker.
	BehaviorFakeNotFound
	// BehaviorHanging blocks until its context is cancelled, for
	// exercising Task.Wait's timeout path deterministically.
	BehaviorHanging
)

// fakeSuccessResponse and fakeNotFoundResponse are canned responses shaped
// so the default JSONQuoteDecoder can parse them unchanged.
const fakeSuccessResponse = `{"query":{"count":1,"results":{"quote":{"LastTradePriceOnly":"99.99","Name":"Test Inc."}}}}`

const fakeNotFoundResponse = `{"query":{"count":0,"results":null}}`

// TickerProblem fetches and decodes a single ticker's quote. Construct one
// with New and obtain a problem.ComputeFunc for it via ComputeFunc, to
// drive it from a task.Task.
type TickerProblem struct {
	behavior    Behavior
	transport   transport.Transport
	decoder     decoder.ResponseDecoder
	urlTemplate string
	bufferSize  int
}

// New returns a TickerProblem using tr and dec to perform BehaviorNormal
// fetches, substituting the ticker into urlTemplate (DefaultURLTemplate if
// empty). bufferSize bounds the response size (DefaultBufferSize if zero
// or negative).
func New(behavior Behavior, tr transport.Transport, dec decoder.ResponseDecoder, urlTemplate string, bufferSize int) *TickerProblem {
	if urlTemplate == "" {
		urlTemplate = DefaultURLTemplate
	}
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if dec == nil {
		dec = decoder.JSONQuoteDecoder{}
	}
	return &TickerProblem{
		behavior:    behavior,
		transport:   tr,
		decoder:     dec,
		urlTemplate: urlTemplate,
		bufferSize:  bufferSize,
	}
}

// DefaultBufferSize is the response buffer size used when none is given,
// ample for a single-ticker quote response.
const DefaultBufferSize = 4096

// PreprocessURL substitutes the first occurrence of the {STOCK} token in
// the TickerProblem's URL template with ticker. Only the first occurrence
// is replaced, never a global replace.
func (p *TickerProblem) PreprocessURL(ticker string) string {
	return strings.Replace(p.urlTemplate, placeholder, ticker, 1)
}

// ComputeFunc returns a problem.ComputeFunc suitable for driving a
// task.Task[string, map[string]string]: calling it with a ticker performs
// the fetch-then-decode sequence according to the TickerProblem's
// configured Behavior, honoring ctx for cancellation.
func (p *TickerProblem) ComputeFunc(ctx context.Context) problem.ComputeFunc[string, map[string]string] {
	return func(ticker string) (map[string]string, error) {
		return p.fetch(ctx, ticker)
	}
}

func (p *TickerProblem) fetch(ctx context.Context, ticker string) (map[string]string, error) {
	switch p.behavior {
	case BehaviorFakeSuccess:
		return p.decoder.Decode(append([]byte(fakeSuccessResponse), 0))
	case BehaviorFakeNotFound:
		return p.decoder.Decode(append([]byte(fakeNotFoundResponse), 0))
	case BehaviorHanging:
		<-ctx.Done()
		return nil, ctx.Err()
	default:
		url := p.PreprocessURL(ticker)
		buf := fixedbuffer.New(p.bufferSize)
		if err := p.transport.Fetch(ctx, url, buf); err != nil {
			return nil, err
		}
		return p.decoder.Decode(buf.Contents())
	}
}
