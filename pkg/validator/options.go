package validator

import (
	"log/slog"
	"runtime"

	"github.com/aretw0/fwlint/pkg/adapters/fs"
	"github.com/aretw0/fwlint/pkg/core"
)

// DefaultMinSize is the byte threshold below which a document is reported as undersized.
const DefaultMinSize int64 = 100

// options holds the internal configuration for a Validator.
type options struct {
	pattern   string
	ignore    []string
	minSize   int64
	workers   int
	rules     core.Checker
	decoders  map[string]core.Decoder
	cacheSize int
	filter    func(rel string) bool
	logger    *slog.Logger
}

// Option defines a functional option for configuring a Validator.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		pattern:  fs.DefaultPattern,
		minSize:  DefaultMinSize,
		workers:  runtime.NumCPU(),
		decoders: fs.DefaultDecoders(),
	}
}

// WithLogger sets the logger for the validator.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPattern sets the doublestar pattern selecting the documents of the collection.
func WithPattern(pattern string) Option {
	return func(o *options) {
		o.pattern = pattern
	}
}

// WithIgnore excludes paths matching any of the given doublestar patterns.
func WithIgnore(patterns ...string) Option {
	return func(o *options) {
		o.ignore = append(o.ignore, patterns...)
	}
}

// WithMinSize sets the minimum document size in bytes.
func WithMinSize(threshold int64) Option {
	return func(o *options) {
		o.minSize = threshold
	}
}

// WithWorkers bounds the number of documents validated concurrently.
// Values below 1 select runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = runtime.NumCPU()
		}
		o.workers = n
	}
}

// WithRules adds a content checker that runs after the schema.
func WithRules(rules core.Checker) Option {
	return func(o *options) {
		o.rules = rules
	}
}

// WithDecoders replaces the decoders keyed by file extension (e.g. ".yml").
func WithDecoders(decoders map[string]core.Decoder) Option {
	return func(o *options) {
		o.decoders = decoders
	}
}

// WithCacheSize enables the per-process result cache holding up to n entries.
// Zero disables it.
func WithCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}

// WithPathFilter restricts a run to the collected paths for which keep returns true.
func WithPathFilter(keep func(rel string) bool) Option {
	return func(o *options) {
		o.filter = keep
	}
}
