package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	estatelifecycle "github.com/aretw0/estate/pkg/adapters/lifecycle"
	"github.com/aretw0/estate/pkg/core"
)

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [pattern]",
		Short: "Print changes made to the store by other processes",
		Long: `Print every change to keys matching pattern (default "*") until interrupted.
Only the fs and redis adapters can report changes.`,
		Example: "  estate watch properties",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := "*"
			if len(args) == 1 {
				pattern = args[0]
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			catalog, err := a.openCatalog(ctx)
			if err != nil {
				return err
			}

			source := estatelifecycle.NewSource(catalog.Store(), pattern)
			if err := source.Start(ctx); err != nil {
				return err
			}
			a.logger.Info("watching for changes", "pattern", pattern)

			out := cmd.OutOrStdout()
			for ev := range source.Events() {
				e, ok := ev.(core.Event)
				if !ok || a.jsonOut || a.yamlOut {
					if err := a.render(out, ev, func(w io.Writer) error {
						_, err := fmt.Fprintln(w, ev)
						return err
					}); err != nil {
						return err
					}
					continue
				}
				fmt.Fprintf(out, "%s  %-6s %s (%d bytes)\n",
					time.Unix(e.Timestamp, 0).Format("15:04:05"), e.Type, e.Key, len(e.Value))
			}
			return nil
		},
	}
	return cmd
}
