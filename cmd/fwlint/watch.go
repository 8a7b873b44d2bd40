package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/fwlint"
	"github.com/aretw0/fwlint/pkg/core"
	"github.com/aretw0/fwlint/pkg/report"
)

func (a *app) watchCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "watch [root]",
		Short: "Validate a collection and re-validate it on every change",
		Args:  cobra.MaximumNArgs(1),
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

			var writeErr error
			err = linter.Watch(cmd.Context(), fwlint.CheckOptions{Layout: f.layout}, func(rep *core.Report) {
				if err := a.writeReport(rep, format, f); err != nil && writeErr == nil {
					writeErr = err
					a.logger.Error("failed to write report", "error", err)
				}
				if format == report.FormatText && f.output == "" {
					fmt.Fprintln(a.stdout)
				}
			})
			if err != nil {
				return configErr(err)
			}
			if writeErr != nil {
				return configErr(writeErr)
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().Lookup("changed").Hidden = true
	return cmd
}
