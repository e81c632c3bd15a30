package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/estate/pkg/listings"
)

func newContentCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Show or edit the site copy",
	}
	cmd.AddCommand(newContentShowCmd(a), newContentSetCmd(a), newContentResetCmd(a))
	return cmd
}

func printContent(w io.Writer, c listings.SiteContent) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Headline:\t%s\n", c.HeroHeadline)
	fmt.Fprintf(tw, "Subheadline:\t%s\n", c.HeroSubheadline)
	fmt.Fprintf(tw, "Phone:\t%s\n", c.ContactPhone)
	fmt.Fprintf(tw, "Email:\t%s\n", c.ContactEmail)
	fmt.Fprintf(tw, "Address:\t%s\n", c.ContactAddress)
	return tw.Flush()
}

func newContentShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the site copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			c := catalog.SiteContent(cmd.Context())
			return a.render(cmd.OutOrStdout(), c, func(w io.Writer) error {
				return printContent(w, c)
			})
		},
	}
}

func newContentSetCmd(a *app) *cobra.Command {
	var next listings.SiteContent

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change fields of the site copy",
		Long:  "Change the fields given as flags. Other fields keep their value.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			c := catalog.SiteContent(cmd.Context())
			changed := cmd.Flags().Changed
			if changed("headline") {
				c.HeroHeadline = next.HeroHeadline
			}
			if changed("subheadline") {
				c.HeroSubheadline = next.HeroSubheadline
			}
			if changed("phone") {
				c.ContactPhone = next.ContactPhone
			}
			if changed("email") {
				c.ContactEmail = next.ContactEmail
			}
			if changed("address") {
				c.ContactAddress = next.ContactAddress
			}

			if err := catalog.SaveSiteContent(cmd.Context(), c); err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), c, func(w io.Writer) error {
				return printContent(w, c)
			})
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&next.HeroHeadline, "headline", "", "Hero headline")
	fl.StringVar(&next.HeroSubheadline, "subheadline", "", "Hero subheadline")
	fl.StringVar(&next.ContactPhone, "phone", "", "Contact phone")
	fl.StringVar(&next.ContactEmail, "email", "", "Contact email")
	fl.StringVar(&next.ContactAddress, "address", "", "Contact address")
	return cmd
}

func newContentResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default site copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			if err := catalog.ResetSiteContent(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Site content reset to defaults")
			return nil
		},
	}
}
