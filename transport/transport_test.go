package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chartwell-labs/stockcore/fixedbuffer"
	"github.com/chartwell-labs/stockcore/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTransportFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hello":"world"}`))
	}))
	defer srv.Close()

	tr := transport.NewHTTPTransport()
	buf := fixedbuffer.New(256)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, tr.Fetch(ctx, srv.URL, buf))
	contents := buf.Contents()
	require.NotEmpty(t, contents)
	assert.Equal(t, byte(0), contents[len(contents)-1])
	assert.Contains(t, string(contents), `"hello":"world"`)
}

func TestHTTPTransportFetchTooLargeForBuffer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 64))
	}))
	defer srv.Close()

	tr := transport.NewHTTPTransport()
	buf := fixedbuffer.New(8)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := tr.Fetch(ctx, srv.URL, buf)
	assert.Error(t, err)
}

func TestHTTPTransportFetchNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	tr := transport.NewHTTPTransport()
	buf := fixedbuffer.New(64)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := tr.Fetch(ctx, srv.URL, buf)
	assert.Error(t, err)
}
