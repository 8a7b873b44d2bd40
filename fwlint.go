package fwlint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/fwlint/pkg/config"
	"github.com/aretw0/fwlint/pkg/core"
	"github.com/aretw0/fwlint/pkg/layout"
	"github.com/aretw0/fwlint/pkg/rules"
	"github.com/aretw0/fwlint/pkg/schema"
	"github.com/aretw0/fwlint/pkg/validator"
)

// ErrConfig marks errors caused by the configuration rather than by the
// documents under validation.
var ErrConfig = errors.New("configuration error")

// Linter bundles the components assembled from a Config.
type Linter struct {
	Config    config.Config
	Schema    *schema.Schema
	Rules     rules.Set
	Validator *validator.Validator
	Logger    *slog.Logger
}

// CheckOptions selects the optional parts of a check.
type CheckOptions struct {
	// Layout adds the collection layout findings to the report.
	Layout bool
	// Only restricts the run to the given root-relative paths when non-nil.
	Only map[string]bool
}

// New validates cfg and wires a Linter. Every error it returns matches ErrConfig.
func New(cfg config.Config, logger *slog.Logger, opts ...validator.Option) (*Linter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, configError(err)
	}

	sch, err := LoadSchema(cfg.Schema)
	if err != nil {
		return nil, configError(err)
	}
	set, err := BuildRules(cfg.Rules)
	if err != nil {
		return nil, configError(err)
	}

	base := []validator.Option{
		validator.WithLogger(logger),
		validator.WithPattern(cfg.Pattern),
		validator.WithIgnore(cfg.Ignore...),
		validator.WithIgnore("**/"+config.FileName),
		validator.WithMinSize(cfg.MinSize),
		validator.WithWorkers(cfg.Workers),
		validator.WithCacheSize(cfg.CacheSize),
	}
	if len(set) > 0 {
		base = append(base, validator.WithRules(set))
	}
	v, err := validator.New(sch, append(base, opts...)...)
	if err != nil {
		return nil, configError(err)
	}

	logger.Debug("linter ready",
		"root", cfg.Root,
		"schema", sch.Location,
		"rules", set.Names(),
		"min_size", cfg.MinSize,
	)
	return &Linter{
		Config:    cfg,
		Schema:    sch,
		Rules:     set,
		Validator: v,
		Logger:    logger,
	}, nil
}

// LoadSchema loads the schema file at path, or the built-in framework
// schema when path is empty.
func LoadSchema(path string) (*schema.Schema, error) {
	if path == "" {
		return schema.Default()
	}
	return schema.Load(path)
}

// BuildRules compiles the enabled builtin rules followed by the jq rules.
// Builtins run in the order they are listed.
func BuildRules(cfg config.Rules) (rules.Set, error) {
	set, err := rules.Builtin(cfg.Enabled...)
	if err != nil {
		return nil, err
	}

	for _, r := range cfg.JQ {
		jq, err := rules.NewJQ(r.Name, r.Expr, r.Message)
		if err != nil {
			return nil, err
		}
		set = append(set, jq)
	}
	return set, nil
}

// Check validates the collection at Config.Root.
func (l *Linter) Check(ctx context.Context, opts CheckOptions) (*core.Report, error) {
	root := l.Config.Root

	if opts.Only != nil {
		l.Logger.Debug("restricting run", "paths", len(opts.Only))
	}
	report, err := l.run(ctx, root, opts.Only)
	if err != nil {
		return nil, err
	}

	if opts.Layout {
		findings, err := l.Layout(ctx)
		if err != nil {
			return nil, err
		}
		report.Layout = findings
	}
	return report, nil
}

func (l *Linter) run(ctx context.Context, root string, only map[string]bool) (*core.Report, error) {
	if only == nil {
		return l.Validator.Run(ctx, root)
	}
	return l.Validator.RunFiltered(ctx, root, func(rel string) bool { return only[rel] })
}

// Layout checks the structure of the collection at Config.Root.
func (l *Linter) Layout(ctx context.Context) ([]core.Finding, error) {
	docs, err := l.Validator.Collect(ctx, l.Config.Root)
	if err != nil {
		return nil, err
	}
	findings := layout.Check(l.Config.Root, docs, l.Config.Layout)
	for _, f := range findings {
		if !f.Passed {
			l.Logger.Warn("layout check failed", "check", f.Check, "message", f.Message)
		}
	}
	return findings, nil
}

func configError(err error) error {
	return fmt.Errorf("%w: %w", ErrConfig, err)
}
