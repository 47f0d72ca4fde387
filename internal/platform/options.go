package platform

import (
	"log/slog"

	"github.com/cladam/medi/pkg/core"
)

// options holds the internal configuration for the medi service.
type options struct {
	logger      *slog.Logger
	searchLimit int
	store       core.Store
	index       core.SearchIndex
}

// Option defines a functional option for configuring medi.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		searchLimit: core.DefaultSearchLimit,
	}
}

// WithLogger sets the logger for the service and the adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSearchLimit overrides the maximum number of search results.
func WithSearchLimit(limit int) Option {
	return func(o *options) {
		o.searchLimit = limit
	}
}

// WithStore injects a custom primary store (e.g. a fake in tests).
// If provided, the default bbolt adapter is skipped.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithIndex injects a custom search index.
// If provided, the default bleve adapter is skipped.
func WithIndex(index core.SearchIndex) Option {
	return func(o *options) {
		o.index = index
	}
}
