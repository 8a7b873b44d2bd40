package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/fwlint"
)

func (a *app) diagramCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "diagram [root]",
		Short: "Print the linter topology as a Mermaid diagram",
		Long: `Print the components wired for a collection (validator, schema, rules,
cache) as a Mermaid graph. With --check a validation run happens first and
its outcome is part of the diagram; the exit status does not depend on it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			linter, err := a.linter()
			if err != nil {
				return err
			}
			if check {
				if _, err := linter.Check(cmd.Context(), fwlint.CheckOptions{}); err != nil {
					return configErr(err)
				}
			}
			_, err = fmt.Fprint(a.stdout, linter.Diagram())
			return err
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Validate the collection before drawing")
	return cmd
}
