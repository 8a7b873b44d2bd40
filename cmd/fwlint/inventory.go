package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/aretw0/fwlint/pkg/adapters/fs"
)

func (a *app) inventoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inventory [root]",
		Short: "List every file of a collection with its size and sha256",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := fs.Inventory(cmd.Context(), a.cfg.Root, nil)
			if err != nil {
				return configErr(err)
			}
			if entries == nil {
				entries = []fs.InventoryEntry{}
			}
			enc := json.NewEncoder(a.stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		},
	}
}
