package main

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/joefazee/globeguide/internal/formatter"
	"github.com/joefazee/globeguide/internal/listing"
	"github.com/joefazee/globeguide/models"
)

type listOptions struct {
	search   string
	region   string
	sort     string
	desc     bool
	page     int
	pageSize int
}

func (o listOptions) query() (listing.Query, error) {
	q := listing.NewQuery()
	q.SetSearch(o.search)
	if o.region != "" {
		r, err := models.ParseRegion(o.region)
		if err != nil {
			return q, fmt.Errorf("--region: %w", err)
		}
		q.SetRegion(r)
	}
	key, err := listing.ParseSortKey(o.sort)
	if err != nil {
		return q, fmt.Errorf("--sort: %w", err)
	}
	dir := listing.Ascending
	if o.desc {
		dir = listing.Descending
	}
	q.SetSort(key, dir)
	if err := q.SetPageSize(o.pageSize); err != nil {
		return q, fmt.Errorf("--page-size: %w", err)
	}
	q.Page = o.page
	return q, nil
}

func newListCmd() *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of the country list",
		Example: `  globeguide list --region europe --sort population --desc
  globeguide list --search land --page 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := opts.query()
			if err != nil {
				return err
			}
			return withClient(cmd, func(ctx context.Context, c *client) error {
				countries, err := c.countries.All(ctx)
				if err != nil {
					return err
				}
				res := listing.Run(countries, q)
				out := cmd.OutOrStdout()
				if res.Total == 0 {
					fmt.Fprintln(out, "No countries match.")
					return nil
				}
				printCountries(out, res.Page, c.format)
				fmt.Fprintf(out, "%s · page %d/%d\n", res.Label(), res.CurrentPage, res.TotalPages)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.search, "search", "", "case-insensitive name filter")
	f.StringVar(&opts.region, "region", "", "Africa, Americas, Asia, Europe, Oceania or Antarctic")
	f.StringVar(&opts.sort, "sort", string(listing.SortByName), "name, population or region")
	f.BoolVar(&opts.desc, "desc", false, "sort descending")
	f.IntVar(&opts.page, "page", 1, "page number")
	f.IntVar(&opts.pageSize, "page-size", listing.DefaultPageSize, "12, 24, 48 or 96")
	return cmd
}

func newFavoritesCmd() *cobra.Command {
	var toggle string
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Print or change the signed-in user's favorite countries",
		Example: `  globeguide favorites
  globeguide favorites --toggle JPN`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(ctx context.Context, c *client) error {
				id := c.identity.Current()
				if id == nil {
					return errNotSignedIn
				}
				c.favorites.SetUser(id)
				out := cmd.OutOrStdout()

				if toggle != "" {
					code := models.NormalizeCode(toggle)
					on, err := c.favorites.Toggle(ctx, code)
					if err != nil {
						return err
					}
					if on {
						fmt.Fprintf(out, "Added %s to favorites.\n", code)
					} else {
						fmt.Fprintf(out, "Removed %s from favorites.\n", code)
					}
					return nil
				}

				view, err := c.favorites.Refresh(ctx, c.countries)
				if err != nil {
					return err
				}
				if len(view.Favorites) == 0 {
					fmt.Fprintln(out, "No favorites yet.")
					return nil
				}
				printCountries(out, view.Favorites, c.format)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&toggle, "toggle", "", "add or remove a 3-letter country code")
	return cmd
}

func printCountries(w io.Writer, countries []models.Country, f *formatter.Formatter) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("CODE", "NAME", "CAPITAL", "REGION", "POPULATION")
	for _, c := range countries {
		t.Row(c.Code(), c.CommonName(), formatter.List(c.Capital), string(c.Region), f.Population(c.Population))
	}
	fmt.Fprintln(w, t.Render())
}
