package walrus

import (
	"net/http"
	"sync"
	"time"
)

// Logger interface for walrus client logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
}

// Options configures a Client
type Options struct {
	PublisherURL  string
	AggregatorURL string
	RelayURL      string
	FullnodeURL   string
	ExplorerURL   string
	HTTPTimeout   time.Duration

	// NativeWriter overrides the lazily constructed default writer.
	// Tests inject fakes here.
	NativeWriter NativeWriter
}

// Client talks to the Walrus blob store through its publisher, aggregator
// and relay surfaces. All upload paths degrade instead of failing: see Store.
type Client struct {
	publisherURL  string
	aggregatorURL string
	relayURL      string
	fullnodeURL   string
	explorerURL   string

	http   *http.Client
	logger Logger

	// Lazily initialized native writer, shared process-wide through this
	// client instance. Guarded by nativeMu.
	nativeMu     sync.Mutex
	nativeWriter NativeWriter
	nativeCtor   func() NativeWriter
}

// NewClient creates a walrus client
func NewClient(opts Options, logger Logger) *Client {
	timeout := opts.HTTPTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		publisherURL:  opts.PublisherURL,
		aggregatorURL: opts.AggregatorURL,
		relayURL:      opts.RelayURL,
		fullnodeURL:   opts.FullnodeURL,
		explorerURL:   opts.ExplorerURL,
		http:          &http.Client{Timeout: timeout},
		logger:        logger,
	}

	if opts.NativeWriter != nil {
		c.nativeWriter = opts.NativeWriter
	} else {
		c.nativeCtor = func() NativeWriter {
			return newRPCWriter(opts.FullnodeURL, c.http, logger)
		}
	}

	return c
}

// native returns the native writer, constructing it on first use
func (c *Client) native() NativeWriter {
	c.nativeMu.Lock()
	defer c.nativeMu.Unlock()

	if c.nativeWriter == nil {
		c.nativeWriter = c.nativeCtor()
	}
	return c.nativeWriter
}

// resetNative drops connection state of the native writer so the next use
// starts from a fresh client
func (c *Client) resetNative() {
	c.nativeMu.Lock()
	defer c.nativeMu.Unlock()

	if c.nativeWriter != nil {
		c.nativeWriter.Reset()
	}
}
