package bootstrap

import (
	"github.com/anhkhoavan24-art/SuiClouds/common/config"
	"github.com/anhkhoavan24-art/SuiClouds/common/db"
	"github.com/anhkhoavan24-art/SuiClouds/common/logger"
)

// Option configures the bootstrap process
type Option func(*options)

type options struct {
	skipDB       bool
	skipCache    bool
	customLogger *logger.Logger
	customConfig *config.Config
	dbInitHook   func(*db.DB) error
}

// WithoutDB skips database initialization
func WithoutDB() Option {
	return func(o *options) {
		o.skipDB = true
	}
}

// WithoutCache skips cache initialization
func WithoutCache() Option {
	return func(o *options) {
		o.skipCache = true
	}
}

// WithLogger supplies a pre-built logger
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		o.customLogger = l
	}
}

// WithConfig supplies a pre-built configuration
func WithConfig(c *config.Config) Option {
	return func(o *options) {
		o.customConfig = c
	}
}

// WithDBInitHook runs fn once the database pool is up, before anything else
// uses it. Migrations go here.
func WithDBInitHook(fn func(*db.DB) error) Option {
	return func(o *options) {
		o.dbInitHook = fn
	}
}

func defaultOptions() *options {
	return &options{}
}
