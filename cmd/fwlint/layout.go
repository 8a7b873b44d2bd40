package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aretw0/fwlint/pkg/core"
	"github.com/aretw0/fwlint/pkg/report"
)

func (a *app) layoutCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "layout [root]",
		Short: "Check the directory layout of a collection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(f.format)
			if err != nil {
				return configErr(err)
			}
			linter, err := a.linter()
			if err != nil {
				return err
			}

			started := time.Now()
			findings, err := linter.Layout(cmd.Context())
			if err != nil {
				return configErr(err)
			}
			rep := core.NewReport(uuid.NewString(), a.cfg.Root, started, nil)
			rep.Layout = findings
			rep.Duration = time.Since(started)

			if err := a.writeReport(rep, format, f); err != nil {
				return configErr(err)
			}
			if !rep.OK() {
				return &exitError{code: exitViolation}
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.format, "format", "text", "Report format: text or json")
	flags.StringVar(&f.output, "output", "", "Write the report to a file instead of stdout")
	flags.BoolVar(&f.noColor, "no-color", false, "Disable colored output")
	return cmd
}
