package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/fwlint"
	"github.com/aretw0/fwlint/pkg/adapters/fs"
	"github.com/aretw0/fwlint/pkg/core"
	"github.com/aretw0/fwlint/pkg/git"
	"github.com/aretw0/fwlint/pkg/report"
)

// runFlags are the validation settings a command line may override.
type runFlags struct {
	schema  string
	pattern string
	minSize int64
	workers int
	format  string
	output  string
	layout  bool
	changed bool
	noColor bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.schema, "schema", "", "Schema file, JSON or YAML (default: built-in framework schema)")
	flags.StringVar(&f.pattern, "pattern", "", "Doublestar pattern selecting documents (default \"**/*.{yml,yaml}\")")
	flags.Int64Var(&f.minSize, "min-size", 0, "Minimum document size in bytes (default 100)")
	flags.IntVar(&f.workers, "workers", 0, "Documents validated concurrently (default: number of CPUs)")
	flags.StringVar(&f.format, "format", "text", "Report format: text or json")
	flags.StringVar(&f.output, "output", "", "Write the report to a file instead of stdout")
	flags.BoolVar(&f.layout, "layout", false, "Also check the collection layout")
	flags.BoolVar(&f.changed, "changed", false, "Only validate documents changed according to git")
	flags.BoolVar(&f.noColor, "no-color", false, "Disable colored output")
}

// apply overlays the flags the user set explicitly.
func (f *runFlags) apply(cmd *cobra.Command, a *app) {
	flags := cmd.Flags()
	if flags.Changed("schema") {
		a.cfg.Schema = f.schema
	}
	if flags.Changed("pattern") {
		a.cfg.Pattern = f.pattern
	}
	if flags.Changed("min-size") {
		a.cfg.MinSize = f.minSize
	}
	if flags.Changed("workers") {
		a.cfg.Workers = f.workers
	}
}

func (a *app) checkCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "check [root]",
		Short: "Validate every document of a collection",
		Long: `Validate every document of a collection and print one line per document.

Exit status is 0 when every document passes, 1 when at least one document
(or an enabled layout check) fails and 2 on configuration errors.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.apply(cmd, a)
			format, err := report.ParseFormat(f.format)
			if err != nil {
				return configErr(err)
			}
			linter, err := a.linter()
			if err != nil {
				return err
			}

			opts := fwlint.CheckOptions{Layout: f.layout}
			if f.changed {
				changed, err := git.NewClient(a.cfg.Root, a.logger).Changed(cmd.Context())
				if err != nil {
					return configErr(fmt.Errorf("listing changed files: %w", err))
				}
				opts.Only = changed
			}

			rep, err := linter.Check(cmd.Context(), opts)
			if err != nil {
				return configErr(err)
			}
			if err := a.writeReport(rep, format, f); err != nil {
				return configErr(err)
			}
			if !rep.OK() {
				return &exitError{code: exitViolation}
			}
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func (a *app) writeReport(rep *core.Report, format report.Format, f runFlags) error {
	opts := report.Options{Format: format, Color: a.color(f)}
	if f.output == "" {
		return report.Write(a.stdout, rep, opts)
	}

	err := fs.WriteAtomic(f.output, 0644, func(w io.Writer) error {
		return report.Write(w, rep, opts)
	})
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	a.logger.Info("report written", "path", f.output)
	return nil
}

// color reports whether the text report may be styled. Styling is further
// dropped by the renderer when stdout is not a terminal.
func (a *app) color(f runFlags) bool {
	if f.noColor || f.output != "" {
		return false
	}
	if _, ok := a.stdout.(*os.File); !ok {
		return false
	}
	if _, ok := a.lookup("NO_COLOR"); ok {
		return false
	}
	return true
}
