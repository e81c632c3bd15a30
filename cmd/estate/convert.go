package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aretw0/estate/pkg/units"
)

func newConvertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <value> <from> <to>",
		Short: "Convert an area between sqm, hectares, acres and plot",
		Long: `Convert an area, rounded to 4 decimals.
A value that is not a number counts as 0. A "plot" is counted as one square
meter, and unknown units are treated as sqm.`,
		Example: "  estate convert 5 hectares acres",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := units.ParseValue(args[0])
			from, to := units.Unit(args[1]), units.Unit(args[2])
			if u, ok := units.ParseUnit(args[1]); ok {
				from = u
			} else {
				a.logger.Warn("unknown unit treated as sqm", "unit", args[1])
			}
			if u, ok := units.ParseUnit(args[2]); ok {
				to = u
			} else {
				a.logger.Warn("unknown unit treated as sqm", "unit", args[2])
			}

			result := units.Quantity{Value: value, Unit: from}.In(to)
			return a.render(cmd.OutOrStdout(), result, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, result)
				return err
			})
		},
	}
}
