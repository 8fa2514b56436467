// Package transport fetches a URL's body into a fixed-capacity buffer.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chartwell-labs/stockcore/fixedbuffer"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
)

// Transport fetches the contents of url into buf, appending a trailing NUL
// byte. Implementations must not write more than buf's capacity.
type Transport interface {
	Fetch(ctx context.Context, url string, buf *fixedbuffer.FixedBuffer) error
}

// HTTPTransport is the default Transport, backed by a retrying HTTP
// client. The zero value is not usable; construct one with NewHTTPTransport.
type HTTPTransport struct {
	client *retryablehttp.Client
}

// NewHTTPTransport returns an HTTPTransport with sane production defaults:
// a pooled, connection-reusing HTTP client (cleanhttp), three retries with
// exponential backoff, and a quiet logger (retryablehttp logs to stderr by
// default, which is too noisy for a library).
func NewHTTPTransport() *HTTPTransport {
	client := retryablehttp.NewClient()
	client.HTTPClient = cleanhttp.DefaultPooledClient()
	client.RetryMax = 3
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.Logger = nil
	return &HTTPTransport{client: client}
}

// Fetch performs an HTTP GET against url and copies the response body into
// buf, followed by a single trailing NUL byte. It returns an error if the
// request fails, the response is not a 2xx, or the body (plus its
// terminator) does not fit in buf.
func (t *HTTPTransport) Fetch(ctx context.Context, url string, buf *fixedbuffer.FixedBuffer) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("transport: building request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("transport: fetching %q: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("transport: unexpected status %d fetching %q", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("transport: reading response body: %w", err)
	}

	if err := buf.Append(body); err != nil {
		return fmt.Errorf("transport: response too large for buffer: %w", err)
	}
	if err := buf.Append([]byte{0}); err != nil {
		return fmt.Errorf("transport: no room for terminator: %w", err)
	}
	return nil
}
