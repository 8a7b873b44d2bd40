package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/fwlint"
)

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of fwlint",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "fwlint version %s\n", fwlint.Version)
		},
	}
}
