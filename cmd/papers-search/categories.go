// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/papers-search/internal/filters"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List journal category ids for --category",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		defaults := filters.DefaultCategories()
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%-8s  %-30s  %s\n", "ID", "Category", "Default")
		for _, c := range filters.Catalog() {
			mark := ""
			if defaults.Has(c.ID) {
				mark = "yes"
			}
			fmt.Fprintf(w, "%-8s  %-30s  %s\n", c.ID, c.Label, mark)
		}
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}
