package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/estate/pkg/suggest"
)

func newSuggestCmd(a *app) *cobra.Command {
	var (
		userType string
		count    int
	)

	cmd := &cobra.Command{
		Use:   "suggest <query>",
		Short: "Ask the language model for property search suggestions",
		Long: `Ask the language model for property search suggestions.
Needs GEMINI_API_KEY. Without it, or when the model cannot be reached, the
list is empty.`,
		Example: `  estate suggest "plot near Lusaka" --user-type investor`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ut, err := suggest.ParseUserType(userType)
			if err != nil {
				return err
			}

			var gen suggest.Generator
			if a.cfg.Suggest.APIKey != "" {
				g, err := suggest.NewGemini(cmd.Context(), a.cfg.Suggest.APIKey, a.cfg.Suggest.Model)
				if err != nil {
					a.logger.Error("language model unavailable", "error", err)
				} else {
					gen = g
				}
			}

			svc := suggest.NewService(gen, suggest.WithLogger(a.logger), suggest.WithCount(count))
			suggestions, err := svc.Suggest(cmd.Context(), strings.Join(args, " "), ut)
			if err != nil {
				return err
			}

			resp := suggest.Response{Suggestions: suggestions}
			return a.render(cmd.OutOrStdout(), resp, func(w io.Writer) error {
				if len(suggestions) == 0 {
					_, err := fmt.Fprintln(w, "No suggestions")
					return err
				}
				for _, s := range suggestions {
					fmt.Fprintf(w, "- %s\n", s)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&userType, "user-type", string(suggest.Residential), "investor or residential")
	cmd.Flags().IntVar(&count, "count", suggest.DefaultCount, "Number of suggestions to ask for")
	return cmd
}
