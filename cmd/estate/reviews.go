package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newReviewsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reviews",
		Aliases: []string{"testimonials"},
		Short:   "Manage client testimonials",
	}
	cmd.AddCommand(newReviewsListCmd(a), newReviewsAddCmd(a), newReviewsDeleteCmd(a))
	return cmd
}

func newReviewsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List testimonials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			ts := catalog.Testimonials(cmd.Context())
			return a.render(cmd.OutOrStdout(), ts, func(w io.Writer) error {
				return printTestimonials(w, ts)
			})
		},
	}
}

func newReviewsAddCmd(a *app) *cobra.Command {
	var (
		name    string
		rating  int
		comment string
	)

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a testimonial",
		Example: `  estate reviews add --name "Jane Doe" --rating 5 --comment "Great service"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			t, err := catalog.AddTestimonial(cmd.Context(), name, rating, comment)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), t, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Testimonial added: %s (%s)\n", t.ID, t.Name)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Client name")
	cmd.Flags().IntVar(&rating, "rating", 5, "Rating from 1 to 5")
	cmd.Flags().StringVar(&comment, "comment", "", "Review text")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("comment")
	return cmd
}

func newReviewsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a testimonial",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			if err := catalog.DeleteTestimonial(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Testimonial deleted: %s\n", args[0])
			return nil
		},
	}
}
