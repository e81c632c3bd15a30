package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"
)

// status is the observable state of the opened store and its medium.
type status struct {
	Store  any            `json:"store" yaml:"store"`
	Medium any            `json:"medium,omitempty" yaml:"medium,omitempty"`
	Keys   []string       `json:"keys" yaml:"keys"`
	Type   string         `json:"mediumType" yaml:"mediumType"`
	Sizes  map[string]int `json:"sizes" yaml:"sizes"`
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of the store and its medium",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			store := catalog.Store()

			st := status{Store: store.State(), Type: "none", Sizes: map[string]int{}}
			if m := store.Medium(); m != nil {
				if intro, ok := m.(introspection.Introspectable); ok {
					st.Medium = intro.State()
				}
				if comp, ok := m.(introspection.Component); ok {
					st.Type = comp.ComponentType()
				}
			}

			keys, err := store.Keys(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list keys: %w", err)
			}
			sort.Strings(keys)
			st.Keys = keys
			for _, k := range keys {
				if v, ok, err := store.Read(cmd.Context(), k); err == nil && ok {
					st.Sizes[k] = len(v)
				}
			}

			return a.render(cmd.OutOrStdout(), st, func(w io.Writer) error {
				fmt.Fprintf(w, "Medium: %s\n", st.Type)
				fmt.Fprintf(w, "Store:  %+v\n", st.Store)
				if st.Medium != nil {
					fmt.Fprintf(w, "State:  %+v\n", st.Medium)
				}
				fmt.Fprintf(w, "Keys:   %d\n", len(keys))
				for _, k := range keys {
					fmt.Fprintf(w, "  %s (%d bytes)\n", k, st.Sizes[k])
				}
				return nil
			})
		},
	}
}
