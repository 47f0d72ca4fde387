package medi

import (
	"log/slog"

	"github.com/cladam/medi/internal/platform"
	"github.com/cladam/medi/pkg/core"
)

// Version of medi. Overridable at build time via -ldflags.
var Version = "0.4.0"

// Option is a functional option for configuring medi.
type Option = platform.Option

// WithLogger sets the logger for the service and the adapters.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithSearchLimit overrides the maximum number of search results.
func WithSearchLimit(limit int) Option {
	return platform.WithSearchLimit(limit)
}

// WithStore injects a custom primary store (e.g. a fake in tests).
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithIndex injects a custom search index.
func WithIndex(index core.SearchIndex) Option {
	return platform.WithIndex(index)
}

// Open prepares the data directory (store, index, process lock) and
// returns the service plus a close function. The close function must
// be called before the process exits; until then the data directory is
// locked against other medi processes.
func Open(dataDir string, opts ...Option) (*core.Service, func() error, error) {
	return platform.Open(dataDir, opts...)
}
