package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"brewbook/internal/api"
	"brewbook/internal/app"
)

var errIndexDisabled = errors.New("the search index is disabled; set index.enabled = true in the config")

func newIndexCommand(ctx *commandContext) *cobra.Command {
	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Maintain the recipe search index",
	}
	indexCmd.AddCommand(newIndexRebuildCommand(ctx))
	indexCmd.AddCommand(newIndexSearchCommand(ctx))
	return indexCmd
}

func newIndexRebuildCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the index from stored recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.openApp(cmd, app.Options{})
			if err != nil {
				return err
			}
			if a.Index == nil {
				return errIndexDisabled
			}
			n, err := a.RebuildIndex(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, api.RebuildResponse{Indexed: n, Driver: a.Index.Driver()})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d recipes (%s)\n", n, a.Index.Driver())
			return nil
		},
	}
}

func newIndexSearchCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search indexed recipes by name or style",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.openApp(cmd, app.Options{})
			if err != nil {
				return err
			}
			if a.Index == nil {
				return errIndexDisabled
			}
			query := strings.TrimSpace(strings.Join(args, " "))
			results, err := a.Index.Search(cmd.Context(), query, limit)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, api.SearchResponse{Query: query, Results: results})
			}
			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, "No matching recipes")
				return nil
			}
			rows := make([][]string, 0, len(results))
			for _, s := range results {
				rows = append(rows, []string{
					s.Slug,
					s.Name,
					s.Style,
					formatString(s.ABV),
					formatFloat(s.IBU),
					formatString(s.ColorHex),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Slug", "Name", "Style", "ABV", "IBU", "Color"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				shouldColorize(out),
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of results (0 for all)")
	return cmd
}
