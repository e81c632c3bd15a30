package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/estate/pkg/listings"
)

// render prints v as JSON or YAML when asked, otherwise with text.
func (a *app) render(w io.Writer, v any, text func(io.Writer) error) error {
	switch {
	case a.jsonOut:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case a.yamlOut:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(w)
	}
}

func printProperties(w io.Writer, props []listings.Property) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tSTATUS\tPRICE\tSIZE\tTITLE")
	for _, p := range props {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Type, p.Status, formatPrice(p.Price), p.Size, p.Title)
	}
	return tw.Flush()
}

func printProperty(w io.Writer, p listings.Property) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	row := func(k, v string) {
		if v != "" {
			fmt.Fprintf(tw, "%s:\t%s\n", k, v)
		}
	}
	row("ID", p.ID)
	row("Title", p.Title)
	row("Type", string(p.Type))
	row("Status", string(p.Status))
	row("Price", formatPrice(p.Price))
	row("Location", p.Location)
	row("Size", p.Size.String())
	if p.Bedrooms > 0 {
		row("Bedrooms", fmt.Sprint(p.Bedrooms))
	}
	if p.Bathrooms > 0 {
		row("Bathrooms", fmt.Sprint(p.Bathrooms))
	}
	row("Zoning", p.Zoning)
	row("Amenities", strings.Join(p.Amenities, ", "))
	row("Agent", fmt.Sprintf("%s (%s, %s)", p.Agent.Name, p.Agent.Phone, p.Agent.Email))
	row("Coordinates", fmt.Sprintf("%g, %g", p.Coordinates.Lat, p.Coordinates.Lng))
	row("Description", p.Description)
	row("Investment", p.InvestmentPotential)
	return tw.Flush()
}

func printTestimonials(w io.Writer, ts []listings.Testimonial) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tRATING\tNAME\tCOMMENT")
	for _, t := range ts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, stars(t.Rating), t.Name, truncate(t.Comment, 60))
	}
	return tw.Flush()
}

func formatPrice(p listings.Price) string {
	return fmt.Sprintf("%s %s", p.Currency, humanize(p.Amount))
}

// humanize groups the integer digits of an amount in thousands.
func humanize(amount float64) string {
	s := fmt.Sprintf("%.0f", amount)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("*", n) + strings.Repeat(".", 5-n)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
