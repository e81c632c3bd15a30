package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Save the default listings and reviews where none were saved yet",
		Long: `Save the built-in listings and testimonials under keys that were never written.
Existing records are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			if err := catalog.Seed(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded: %d properties, %d testimonials\n",
				len(catalog.Properties(cmd.Context())), len(catalog.Testimonials(cmd.Context())))
			return nil
		},
	}
}
