package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/estate"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of estate",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "estate version %s\n", estate.Version)
		},
	}
}
