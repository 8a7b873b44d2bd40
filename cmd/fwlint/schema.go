package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/fwlint/pkg/schema"
)

func (a *app) schemaCmd() *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the built-in framework schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			render := schema.DefaultJSON
			if asYAML {
				render = schema.DefaultYAML
			}
			out, err := render()
			if err != nil {
				return err
			}
			if _, err := a.stdout.Write(out); err != nil {
				return err
			}
			if !asYAML {
				_, err = a.stdout.Write([]byte("\n"))
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print YAML instead of JSON")
	return cmd
}
