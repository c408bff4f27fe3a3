package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"brewbook/internal/api"
	"brewbook/internal/app"
	"brewbook/internal/catalog"
	"brewbook/internal/fileutil"
	"brewbook/internal/recipe"
	"brewbook/internal/textutil"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.openApp(cmd, app.Options{SkipIndex: true})
			if err != nil {
				return err
			}
			recipes, err := a.Catalog.List(cmd.Context())
			if err != nil {
				return err
			}
			if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
				filtered := recipes[:0]
				for _, r := range recipes {
					if strings.Contains(strings.ToLower(r.Metadata.Name), q) || strings.Contains(strings.ToLower(r.Metadata.Style), q) {
						filtered = append(filtered, r)
					}
				}
				recipes = filtered
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, api.RecipeListResponse{Recipes: recipes})
			}
			out := cmd.OutOrStdout()
			if len(recipes) == 0 {
				fmt.Fprintln(out, "No recipes found")
				return nil
			}
			rows := make([][]string, 0, len(recipes))
			for _, r := range recipes {
				rows = append(rows, []string{
					r.Slug,
					r.Metadata.Name,
					r.Metadata.Style,
					formatString(r.Stats.ABV),
					formatFloat(r.Stats.IBU),
					formatFloat(r.Stats.ColorSRM),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Slug", "Name", "Style", "ABV", "IBU", "SRM"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
				shouldColorize(out),
			))
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Only list recipes whose name or style contains this text")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <slug>",
		Short: "Show a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.openApp(cmd, app.Options{SkipIndex: true})
			if err != nil {
				return err
			}
			r, err := a.Catalog.Get(cmd.Context(), slugArg(args[0]))
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, r)
			}
			out := cmd.OutOrStdout()
			renderRecipe(out, r, a.Colors.Lookup, shouldColorize(out))
			return nil
		},
	}
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	cmd := &cobra.Command{
		Use:   "export <slug>",
		Short: "Write a recipe as an interchange document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.openApp(cmd, app.Options{SkipIndex: true})
			if err != nil {
				return err
			}
			slug := slugArg(args[0])
			data, err := a.Catalog.Export(cmd.Context(), slug)
			if err != nil {
				return err
			}
			if strings.TrimSpace(outputPath) == "" || outputPath == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			target := outputPath
			if info, statErr := os.Stat(outputPath); statErr == nil && info.IsDir() {
				r, err := a.Catalog.Get(cmd.Context(), slug)
				if err != nil {
					return err
				}
				target = outputTarget(outputPath, exportFileName(r))
			}
			if err := fileutil.WriteFileAtomic(target, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s to %s\n", slug, target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination file or directory (default stdout)")
	return cmd
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	var slug string
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import an interchange document into the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			a, err := ctx.openApp(cmd, app.Options{})
			if err != nil {
				return err
			}
			target := strings.TrimSpace(slug)
			saved, err := a.Catalog.Import(cmd.Context(), data, target, overwrite)
			if err != nil {
				if catalog.KindOf(err) == catalog.KindConflict {
					return fmt.Errorf("%w (use --overwrite to replace it)", err)
				}
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, saved)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s as %s\n", filepath.Base(args[0]), saved.Slug)
			return nil
		},
	}
	cmd.Flags().StringVar(&slug, "slug", "", "Slug to store the recipe under (default derived from its name)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing recipe with the same slug")
	return cmd
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <slug>",
		Short: "Delete a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.openApp(cmd, app.Options{})
			if err != nil {
				return err
			}
			if err := a.Catalog.Delete(cmd.Context(), slugArg(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

// slugArg normalizes a user-supplied slug, deriving one from a display name
// when the argument contains spaces.
// exportFileName names an exported document after the recipe's display name.
func exportFileName(r *recipe.Recipe) string {
	base := textutil.SanitizeFileName(r.Metadata.Name)
	if base == "" {
		base = r.Slug
	}
	return base + ".xml"
}

func slugArg(arg string) string {
	trimmed := strings.TrimSpace(arg)
	if strings.ContainsAny(trimmed, " \t") {
		return recipe.SlugFromName(trimmed)
	}
	return trimmed
}
