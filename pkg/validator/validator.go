// Package validator checks a collection of structured documents.
//
// For every collected file it folds four checks into one result: the file
// must parse, conform to the schema, reach the minimum size and satisfy the
// configured content rules. Document-level problems never stop a run; they
// are recorded in the report and the run moves on to the next file.
package validator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/fwlint/pkg/adapters/fs"
	"github.com/aretw0/fwlint/pkg/core"
)

// Validator runs the validation fold over a collection.
// It is safe for concurrent use; concurrent runs share the result cache.
type Validator struct {
	schema    core.Checker
	rules     core.Checker
	collector *fs.Collector
	decoders  map[string]core.Decoder
	minSize   int64
	workers   int
	filter    func(rel string) bool
	cache     *resultCache
	logger    *slog.Logger

	mu         sync.RWMutex
	runs       int
	lastRoot   string
	lastReport *core.Report
}

// New creates a validator checking documents against schema.
func New(schema core.Checker, opts ...Option) (*Validator, error) {
	if schema == nil {
		return nil, errors.New("validator: schema is required")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.minSize < 0 {
		return nil, fmt.Errorf("validator: minimum size must not be negative, got %d", o.minSize)
	}

	collector, err := fs.NewCollector(o.pattern, o.ignore, o.logger)
	if err != nil {
		return nil, fmt.Errorf("validator: %w", err)
	}
	cache, err := newResultCache(o.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("validator: result cache: %w", err)
	}

	return &Validator{
		schema:    schema,
		rules:     o.rules,
		collector: collector,
		decoders:  o.decoders,
		minSize:   o.minSize,
		workers:   o.workers,
		filter:    o.filter,
		cache:     cache,
		logger:    o.logger,
	}, nil
}

// Collector returns the collector used to enumerate documents.
func (v *Validator) Collector() *fs.Collector {
	return v.collector
}

// MinSize returns the configured size threshold in bytes.
func (v *Validator) MinSize() int64 {
	return v.minSize
}

// Collect enumerates the documents under root, sorted by relative path.
func (v *Validator) Collect(ctx context.Context, root string) ([]string, error) {
	return v.collector.Collect(ctx, root)
}

// Parse reads the file at path and decodes it with the decoder registered
// for its extension. Malformed content yields a *core.ParseError.
func (v *Validator) Parse(path string) (*core.Document, error) {
	return parse(path, v.decoders)
}

// Run validates every document under root and aggregates the results.
//
// The returned error is reserved for problems with the run itself: an
// unenumerable root or a cancelled context.
func (v *Validator) Run(ctx context.Context, root string) (*core.Report, error) {
	return v.RunFiltered(ctx, root, v.filter)
}

// RunFiltered is Run restricted to the collected paths keep accepts.
// A nil keep accepts every path.
func (v *Validator) RunFiltered(ctx context.Context, root string, keep func(rel string) bool) (*core.Report, error) {
	startedAt := time.Now()
	id := uuid.NewString()
	logger := v.logger.With("run", id)

	paths, err := v.collector.Collect(ctx, root)
	if err != nil {
		return nil, err
	}
	if keep != nil {
		kept := paths[:0]
		for _, p := range paths {
			if keep(p) {
				kept = append(kept, p)
			}
		}
		paths = kept
	}
	logger.Info("validation started", "root", root, "documents", len(paths), "workers", v.workers)

	results := make([]core.Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.workers)
	for i, rel := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = v.check(root, rel)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := core.NewReport(id, root, startedAt, results)
	report.Duration = time.Since(startedAt)

	for _, res := range report.Results {
		if res.Passed() {
			logger.Debug("document passed", "path", res.Path, "size", res.Size)
			continue
		}
		for _, viol := range res.Violations {
			logger.Debug("violation", "path", res.Path, "kind", viol.Kind, "pointer", viol.Pointer, "message", viol.Message)
		}
		logger.Warn("document failed", "path", res.Path, "violations", len(res.Violations))
	}
	logger.Info("validation finished",
		"total", report.Total,
		"passed", report.Passed,
		"failed", report.Failed,
		"duration", report.Duration,
	)

	v.mu.Lock()
	v.runs++
	v.lastRoot = root
	v.lastReport = report
	v.mu.Unlock()

	return report, nil
}

// check folds every validation step for one document into a single result.
func (v *Validator) check(root, rel string) core.Result {
	res := core.Result{Path: rel}
	path := filepath.Join(root, filepath.FromSlash(rel))

	info, err := os.Stat(path)
	if err != nil {
		res.Violations = []core.Violation{ioViolation(err)}
		return res
	}
	res.Size = info.Size()

	key := newCacheKey(path, info.Size(), info.ModTime())
	if cached, ok := v.cache.get(key); ok {
		return cached
	}

	doc, err := v.Parse(path)
	var pe *core.ParseError
	switch {
	case errors.As(err, &pe):
		res.Violations = append(res.Violations, core.Violation{
			Kind:    core.KindParse,
			Message: pe.Err.Error(),
		})
	case errors.Is(err, core.ErrUnsupportedFormat):
		res.Violations = append(res.Violations, core.Violation{
			Kind:    core.KindParse,
			Message: err.Error(),
		})
	case err != nil:
		res.Violations = []core.Violation{ioViolation(err)}
		return res
	}

	size := res.Size
	if doc != nil {
		size = doc.Size()
		res.Size = size
	}
	if size < v.minSize {
		res.Violations = append(res.Violations, core.SizeViolation(size, v.minSize))
	}

	if doc != nil {
		res.Violations = append(res.Violations, v.schema.Check(doc)...)
		if v.rules != nil {
			res.Violations = append(res.Violations, v.rules.Check(doc)...)
		}
	}
	core.SortViolations(res.Violations)

	v.cache.add(key, res)
	return res
}

// PurgeCache drops every memoized result.
func (v *Validator) PurgeCache() {
	v.cache.purge()
}

// Collect enumerates the files under root whose relative path matches
// pattern, in lexicographic order.
func Collect(ctx context.Context, root, pattern string) ([]string, error) {
	c, err := fs.NewCollector(pattern, nil, nil)
	if err != nil {
		return nil, err
	}
	return c.Collect(ctx, root)
}

// Parse decodes the file at path with the default decoders.
func Parse(path string) (*core.Document, error) {
	return parse(path, fs.DefaultDecoders())
}

// Validate checks a parsed document against schema and returns every
// violation in a deterministic order.
func Validate(doc *core.Document, schema core.Checker) []core.Violation {
	out := schema.Check(doc)
	core.SortViolations(out)
	return out
}

// CheckMinimumSize reports whether the file at path is at least threshold
// bytes long, along with its actual size.
func CheckMinimumSize(path string, threshold int64) (bool, int64, error) {
	size, err := fs.FileSize(path)
	if err != nil {
		return false, 0, err
	}
	return size >= threshold, size, nil
}

func parse(path string, decoders map[string]core.Decoder) (*core.Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decoder, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q (%s)", core.ErrUnsupportedFormat, ext, path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	trees, err := decoder.Decode(raw)
	if err != nil {
		return nil, &core.ParseError{Path: path, Err: err}
	}
	return &core.Document{Path: path, Raw: raw, Trees: trees}, nil
}

func ioViolation(err error) core.Violation {
	return core.Violation{Kind: core.KindIO, Message: err.Error()}
}
