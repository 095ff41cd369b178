package walrus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nopLogger satisfies Logger for tests
type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Debug(msg string, keysAndValues ...interface{}) {}

// fakeWriter is a scriptable NativeWriter
type fakeWriter struct {
	blobID string
	err    error
	resets int
	calls  int
}

func (f *fakeWriter) WriteBlob(ctx context.Context, req WriteRequest) (string, error) {
	f.calls++
	return f.blobID, f.err
}

func (f *fakeWriter) Reset() { f.resets++ }

func alwaysFailing(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, opts Options) *Client {
	t.Helper()
	return NewClient(opts, nopLogger{})
}

func TestStore_RelaySuccess(t *testing.T) {
	var gotPath string
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "3", r.FormValue("epochs"))
		assert.Equal(t, "report.pdf", r.FormValue("identifier"))
		assert.Equal(t, "standard", r.FormValue("plan"))

		fmt.Fprint(w, `{"blobId":"relay-blob-1"}`)
	}))
	defer relay.Close()

	c := newTestClient(t, Options{
		RelayURL:     relay.URL,
		PublisherURL: alwaysFailing(t).URL,
	})

	blobID := c.Store(context.Background(), []byte("payload"), StoreOptions{
		Identifier:    "report.pdf",
		Epochs:        3,
		ChosenTierKey: "standard",
	})

	assert.Equal(t, "relay-blob-1", blobID)
	assert.Equal(t, "/v1/upload", gotPath)
}

func TestStore_RelayFallsThroughCandidatePaths(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `{"newlyCreated":{"blobObject":{"blobId":"third-path-blob"}}}`)
	}))
	defer relay.Close()

	c := newTestClient(t, Options{
		RelayURL:     relay.URL,
		PublisherURL: alwaysFailing(t).URL,
	})

	blobID := c.Store(context.Background(), []byte("payload"), StoreOptions{Epochs: 1})
	assert.Equal(t, "third-path-blob", blobID)
}

func TestStore_PublisherFallback(t *testing.T) {
	publisher := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/v1/store", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("epochs"))
		assert.Equal(t, "image/png", r.Header.Get("Content-Type"))

		fmt.Fprint(w, `{"alreadyCertified":{"blobId":"publisher-blob"}}`)
	}))
	defer publisher.Close()

	c := newTestClient(t, Options{
		RelayURL:     alwaysFailing(t).URL,
		PublisherURL: publisher.URL,
	})

	blobID := c.Store(context.Background(), []byte("payload"), StoreOptions{
		Epochs:      2,
		ContentType: "image/png",
	})

	assert.Equal(t, "publisher-blob", blobID)
}

func TestStore_AllTiersFailMintsSynthetic(t *testing.T) {
	failing := alwaysFailing(t)

	c := newTestClient(t, Options{
		RelayURL:     failing.URL,
		PublisherURL: failing.URL,
	})

	blobID := c.Store(context.Background(), []byte("payload"), StoreOptions{Epochs: 1})

	assert.True(t, IsSynthetic(blobID))
	assert.Equal(t, "#", c.BlobURL(blobID))
}

func TestStore_NativeWriteWinsWithSigner(t *testing.T) {
	writer := &fakeWriter{blobID: "native-blob"}

	c := newTestClient(t, Options{NativeWriter: writer})

	blobID := c.Store(context.Background(), []byte("payload"), StoreOptions{
		Epochs:        1,
		SignerAddress: "0xabc",
	})

	assert.Equal(t, "native-blob", blobID)
	assert.Equal(t, 1, writer.calls)
}

func TestStore_NativeSkippedWithoutSigner(t *testing.T) {
	writer := &fakeWriter{blobID: "native-blob"}

	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"blobId":"relay-blob"}`)
	}))
	defer relay.Close()

	c := newTestClient(t, Options{NativeWriter: writer, RelayURL: relay.URL})

	blobID := c.Store(context.Background(), []byte("payload"), StoreOptions{Epochs: 1})

	assert.Equal(t, "relay-blob", blobID)
	assert.Zero(t, writer.calls)
}

func TestStore_RetryableNativeErrorResetsAndFallsThrough(t *testing.T) {
	writer := &fakeWriter{err: &RetryableError{Err: errors.New("conn reset")}}

	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"blobId":"relay-after-reset"}`)
	}))
	defer relay.Close()

	c := newTestClient(t, Options{NativeWriter: writer, RelayURL: relay.URL})

	blobID := c.Store(context.Background(), []byte("payload"), StoreOptions{
		Epochs:        1,
		SignerAddress: "0xabc",
	})

	assert.Equal(t, "relay-after-reset", blobID)
	assert.Equal(t, 1, writer.resets)
}

func TestStore_PlainNativeErrorDoesNotReset(t *testing.T) {
	writer := &fakeWriter{err: errors.New("bad request")}

	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"blobId":"relay-blob"}`)
	}))
	defer relay.Close()

	c := newTestClient(t, Options{NativeWriter: writer, RelayURL: relay.URL})

	blobID := c.Store(context.Background(), []byte("payload"), StoreOptions{
		Epochs:        1,
		SignerAddress: "0xabc",
	})

	assert.Equal(t, "relay-blob", blobID)
	assert.Zero(t, writer.resets)
}

func TestDelete_SkipsSyntheticIDs(t *testing.T) {
	// No server configured: a network call would fail loudly
	c := newTestClient(t, Options{PublisherURL: "http://127.0.0.1:0"})

	assert.NoError(t, c.Delete(context.Background(), SyntheticID()))
	assert.NoError(t, c.Delete(context.Background(), ""))
}

func TestBlobURLs(t *testing.T) {
	c := newTestClient(t, Options{
		AggregatorURL: "https://agg.example",
		ExplorerURL:   "https://scan.example/home",
	})

	assert.Equal(t, "https://agg.example/v1/some-blob", c.BlobURL("some-blob"))
	assert.Equal(t, "https://scan.example/home?q=some-blob", c.ExplorerBlobURL("some-blob"))

	synthetic := SyntheticID()
	assert.Equal(t, "#", c.BlobURL(synthetic))
	assert.Equal(t, "https://scan.example/home", c.ExplorerBlobURL(synthetic))
}
