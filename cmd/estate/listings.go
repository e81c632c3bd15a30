package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/estate/pkg/listings"
	"github.com/aretw0/estate/pkg/units"
)

func newListingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "listings",
		Aliases: []string{"properties"},
		Short:   "Browse and manage property listings",
	}
	cmd.AddCommand(
		newListingsListCmd(a),
		newListingsShowCmd(a),
		newListingsAddCmd(a),
		newListingsUpdateCmd(a),
		newListingsDeleteCmd(a),
		newListingsSearchCmd(a),
		newListingsStatsCmd(a),
		newListingsNearbyCmd(a),
	)
	return cmd
}

func newListingsListCmd(a *app) *cobra.Command {
	var featured int
	var propType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every listing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.openCatalog(cmd.Context())
			if err != nil {
				return err
			}

			var props []listings.Property
			switch {
			case featured > 0:
				t, ok := listings.ParsePropertyType(propType)
				if !ok {
					return fmt.Errorf("--featured needs --type, one of %s", typeNames())
				}
				props = catalog.Featured(cmd.Context(), t, featured)
			case propType != "":
				props = catalog.Search(cmd.Context(), listings.Filter{Type: propType})
			default:
				props = catalog.Properties(cmd.Context())
			}

			return a.render(cmd.OutOrStdout(), props, func(w io.Writer) error {
				return printProperties(w, props)
			})
		},
	}
	cmd.Flags().StringVar(&propType, "type", "", "Only list this property type")
	cmd.Flags().IntVar(&featured, "featured", 0, "Only list the first N listings of --type")
	return cmd
}

func newListingsShowCmd(a *app) *cobra.Command {
	var unit string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			p, err := catalog.Property(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if unit != "" {
				u, ok := units.ParseUnit(unit)
				if !ok {
					return fmt.Errorf("unknown unit %q", unit)
				}
				p.Size = p.Size.In(u)
			}
			return a.render(cmd.OutOrStdout(), p, func(w io.Writer) error {
				return printProperty(w, p)
			})
		},
	}
	cmd.Flags().StringVar(&unit, "unit", "", "Show the size in this unit")
	return cmd
}

// propertyFlags binds the editable fields of a listing.
type propertyFlags struct {
	title, propType, status, location string
	price                             float64
	currency                          string
	size                              string
	unit                              string
	bedrooms, bathrooms               float64
	zoning, description, investment   string
	amenities                         string
	lat, lng                          float64
	agentName, agentPhone, agentEmail string
}

func (f *propertyFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.title, "title", "", "Listing title")
	fl.StringVar(&f.propType, "type", "", "Commercial, Residential, Land or Mine")
	fl.StringVar(&f.status, "status", "", `"For Sale", "For Rent" or "Sold"`)
	fl.StringVar(&f.location, "location", "", "Location")
	fl.Float64Var(&f.price, "price", 0, "Price amount")
	fl.StringVar(&f.currency, "currency", "", "USD or ZMW")
	fl.StringVar(&f.size, "size", "", "Size value (anything that is not a number counts as 0)")
	fl.StringVar(&f.unit, "unit", "", "Size unit: sqm, hectares, acres or plot")
	fl.Float64Var(&f.bedrooms, "bedrooms", 0, "Number of bedrooms")
	fl.Float64Var(&f.bathrooms, "bathrooms", 0, "Number of bathrooms")
	fl.StringVar(&f.zoning, "zoning", "", "Zoning")
	fl.StringVar(&f.description, "description", "", "Description")
	fl.StringVar(&f.investment, "investment", "", "Investment potential")
	fl.StringVar(&f.amenities, "amenities", "", "Comma separated amenities")
	fl.Float64Var(&f.lat, "lat", 0, "Latitude")
	fl.Float64Var(&f.lng, "lng", 0, "Longitude")
	fl.StringVar(&f.agentName, "agent-name", "", "Agent name")
	fl.StringVar(&f.agentPhone, "agent-phone", "", "Agent phone")
	fl.StringVar(&f.agentEmail, "agent-email", "", "Agent email")
}

func (f *propertyFlags) propertyType() (listings.PropertyType, error) {
	if f.propType == "" {
		return "", nil
	}
	t, ok := listings.ParsePropertyType(f.propType)
	if !ok {
		return "", fmt.Errorf("unknown property type %q, want one of %s", f.propType, typeNames())
	}
	return t, nil
}

func (f *propertyFlags) quantity() units.Quantity {
	return units.Quantity{Value: units.ParseValue(f.size), Unit: units.Unit(strings.ToLower(f.unit))}
}

func newListingsAddCmd(a *app) *cobra.Command {
	var f propertyFlags

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a listing",
		Example: `  estate listings add --title "Farm Plot" --location Chongwe --type land --size 2 --unit acres`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			t, err := f.propertyType()
			if err != nil {
				return err
			}

			d := listings.Draft{
				Title:               f.title,
				Type:                t,
				Status:              listings.PropertyStatus(f.status),
				Price:               listings.Price{Amount: f.price, Currency: listings.Currency(strings.ToUpper(f.currency))},
				Location:            f.location,
				Size:                f.quantity(),
				Bedrooms:            f.bedrooms,
				Bathrooms:           f.bathrooms,
				Zoning:              f.zoning,
				Description:         f.description,
				InvestmentPotential: f.investment,
				Amenities:           f.amenities,
			}
			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng") {
				d.Coordinates = &listings.Coordinates{Lat: f.lat, Lng: f.lng}
			}
			if f.agentName != "" {
				d.Agent = &listings.Agent{Name: f.agentName, Phone: f.agentPhone, Email: f.agentEmail}
			}

			p, err := catalog.AddProperty(cmd.Context(), d)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), p, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Property added: %s (%s)\n", p.ID, p.Title)
				return err
			})
		},
	}
	f.bind(cmd)
	return cmd
}

func newListingsUpdateCmd(a *app) *cobra.Command {
	var f propertyFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a listing",
		Long:  "Change the fields given as flags. Other fields keep their value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			p, err := catalog.Property(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			changed := cmd.Flags().Changed
			if changed("title") {
				p.Title = f.title
			}
			if changed("type") {
				t, err := f.propertyType()
				if err != nil {
					return err
				}
				p.Type = t
			}
			if changed("status") {
				p.Status = listings.PropertyStatus(f.status)
			}
			if changed("location") {
				p.Location = f.location
			}
			if changed("price") {
				p.Price.Amount = f.price
			}
			if changed("currency") {
				p.Price.Currency = listings.Currency(strings.ToUpper(f.currency))
			}
			if changed("size") {
				p.Size.Value = units.ParseValue(f.size)
			}
			if changed("unit") {
				p.Size.Unit = units.Unit(strings.ToLower(f.unit))
			}
			if changed("bedrooms") {
				p.Bedrooms = f.bedrooms
			}
			if changed("bathrooms") {
				p.Bathrooms = f.bathrooms
			}
			if changed("zoning") {
				p.Zoning = f.zoning
			}
			if changed("description") {
				p.Description = f.description
			}
			if changed("investment") {
				p.InvestmentPotential = f.investment
			}
			if changed("amenities") {
				p.Amenities = listings.ParseAmenities(f.amenities)
			}
			if changed("lat") {
				p.Coordinates.Lat = f.lat
			}
			if changed("lng") {
				p.Coordinates.Lng = f.lng
			}
			if changed("agent-name") {
				p.Agent.Name = f.agentName
			}
			if changed("agent-phone") {
				p.Agent.Phone = f.agentPhone
			}
			if changed("agent-email") {
				p.Agent.Email = f.agentEmail
			}

			if err := catalog.UpdateProperty(cmd.Context(), p); err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), p, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Property updated: %s\n", p.ID)
				return err
			})
		},
	}
	f.bind(cmd)
	return cmd
}

func newListingsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			if err := catalog.DeleteProperty(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Property deleted: %s\n", args[0])
			return nil
		},
	}
}

func newListingsSearchCmd(a *app) *cobra.Command {
	var propType string

	cmd := &cobra.Command{
		Use:   "search [term]",
		Short: "Search listings by title or location",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			f := listings.Filter{Type: propType}
			if len(args) == 1 {
				f.Term = args[0]
			}
			props := catalog.Search(cmd.Context(), f)
			return a.render(cmd.OutOrStdout(), props, func(w io.Writer) error {
				return printProperties(w, props)
			})
		},
	}
	cmd.Flags().StringVar(&propType, "type", listings.AllTypes, `Property type, or "all"`)
	return cmd
}

type stats struct {
	Total        int                           `json:"total" yaml:"total"`
	ByType       map[listings.PropertyType]int `json:"byType" yaml:"byType"`
	Testimonials int                           `json:"testimonials" yaml:"testimonials"`
}

func newListingsStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count listings per type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			s := stats{
				ByType:       catalog.CountByType(cmd.Context()),
				Testimonials: len(catalog.Testimonials(cmd.Context())),
			}
			for _, n := range s.ByType {
				s.Total += n
			}

			return a.render(cmd.OutOrStdout(), s, func(w io.Writer) error {
				fmt.Fprintf(w, "Total properties: %d\n", s.Total)
				for _, t := range listings.PropertyTypes() {
					fmt.Fprintf(w, "  %s: %d\n", t, s.ByType[t])
				}
				_, err := fmt.Fprintf(w, "Testimonials: %d\n", s.Testimonials)
				return err
			})
		},
	}
}

func newListingsNearbyCmd(a *app) *cobra.Command {
	var precision int

	cmd := &cobra.Command{
		Use:   "nearby <lat> <lng>",
		Short: "List listings in or next to the geohash cell of a point",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid latitude %q: %w", args[0], err)
			}
			lng, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid longitude %q: %w", args[1], err)
			}
			catalog, err := a.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			props := catalog.Nearby(cmd.Context(), lat, lng, precision)
			return a.render(cmd.OutOrStdout(), props, func(w io.Writer) error {
				return printProperties(w, props)
			})
		},
	}
	cmd.Flags().IntVar(&precision, "precision", listings.DefaultGeohashPrecision, "Geohash length; smaller means a larger area")
	return cmd
}

func typeNames() string {
	var names []string
	for _, t := range listings.PropertyTypes() {
		names = append(names, string(t))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
