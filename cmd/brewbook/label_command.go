package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"brewbook/internal/app"
	"brewbook/internal/fileutil"
	"brewbook/internal/label"
)

func newLabelCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var width, height int
	cmd := &cobra.Command{
		Use:   "label <slug>",
		Short: "Render a printable SVG label",
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
			summary := label.FromRecipe(r, a.Colors)
			if ctx.jsonOutput() {
				return writeJSON(cmd, summary)
			}
			opts := label.DefaultOptions()
			if width > 0 {
				opts.Width = width
			}
			if height > 0 {
				opts.Height = height
			}
			data, err := label.RenderSVG(summary, opts)
			if err != nil {
				return err
			}
			if strings.TrimSpace(outputPath) == "" || outputPath == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			target := outputTarget(outputPath, label.FileName(summary))
			if err := fileutil.WriteFileAtomic(target, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote label for %s to %s\n", r.Slug, target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination SVG file or directory (default stdout)")
	cmd.Flags().IntVar(&width, "width", 0, "Label width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "Label height in pixels")
	return cmd
}
