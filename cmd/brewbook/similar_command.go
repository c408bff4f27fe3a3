package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"brewbook/internal/api"
	"brewbook/internal/app"
)

func newSimilarCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "similar <slug>",
		Short: "List recipes sharing style and ingredients with a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.openApp(cmd, app.Options{SkipIndex: true})
			if err != nil {
				return err
			}
			slug := slugArg(args[0])
			matches, err := a.Catalog.Similar(cmd.Context(), slug, limit)
			if err != nil {
				return err
			}

			resp := api.SimilarResponse{Slug: slug, Matches: make([]api.SimilarMatch, 0, len(matches))}
			for _, m := range matches {
				resp.Matches = append(resp.Matches, api.SimilarMatch{
					Slug:  m.Recipe.Slug,
					Name:  m.Recipe.Metadata.Name,
					Style: m.Recipe.Metadata.Style,
					Score: m.Score,
				})
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, resp)
			}

			out := cmd.OutOrStdout()
			if len(resp.Matches) == 0 {
				fmt.Fprintln(out, "No similar recipes")
				return nil
			}
			rows := make([][]string, 0, len(resp.Matches))
			for _, m := range resp.Matches {
				rows = append(rows, []string{m.Slug, m.Name, m.Style, strconv.FormatFloat(m.Score, 'f', 2, 64)})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Slug", "Name", "Style", "Score"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
				shouldColorize(out),
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Maximum number of matches")
	return cmd
}
