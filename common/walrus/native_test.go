package walrus

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeReq() WriteRequest {
	return WriteRequest{
		Content:       []byte("payload"),
		Identifier:    "file.bin",
		Epochs:        1,
		SignerAddress: "0xabc",
	}
}

func TestRPCWriter_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":{"blobId":"native-blob"}}`)
	}))
	defer srv.Close()

	w := newRPCWriter(srv.URL, srv.Client(), nopLogger{})

	blobID, err := w.WriteBlob(context.Background(), writeReq())
	require.NoError(t, err)
	assert.Equal(t, "native-blob", blobID)
}

func TestRPCWriter_TransportErrorIsRetryable(t *testing.T) {
	// Server torn down before the call so the connection is refused
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	w := newRPCWriter(url, &http.Client{Timeout: time.Second}, nopLogger{})

	_, err := w.WriteBlob(context.Background(), writeReq())
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
}

func TestRPCWriter_ServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	w := newRPCWriter(srv.URL, srv.Client(), nopLogger{})

	_, err := w.WriteBlob(context.Background(), writeReq())
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
}

func TestRPCWriter_ClientErrorIsNotRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	w := newRPCWriter(srv.URL, srv.Client(), nopLogger{})

	_, err := w.WriteBlob(context.Background(), writeReq())
	require.Error(t, err)
	assert.False(t, IsRetryable(err))
}
