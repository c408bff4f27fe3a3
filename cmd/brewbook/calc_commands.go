package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"brewbook/internal/api"
	"brewbook/internal/app"
	"brewbook/internal/brewcalc"
	"brewbook/internal/recipe"
	"brewbook/internal/srm"
)

func newCalcCommand(ctx *commandContext) *cobra.Command {
	calcCmd := &cobra.Command{
		Use:   "calc",
		Short: "Brewing calculators",
	}
	calcCmd.AddCommand(newCalcABVCommand(ctx))
	calcCmd.AddCommand(newCalcIBUCommand(ctx))
	calcCmd.AddCommand(newCalcGravityCommand(ctx))
	calcCmd.AddCommand(newCalcColorCommand(ctx))
	return calcCmd
}

const undefinedResult = "undefined"

func newCalcABVCommand(ctx *commandContext) *cobra.Command {
	var og, fg string
	cmd := &cobra.Command{
		Use:   "abv",
		Short: "Alcohol by volume from original and final gravity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ogVal, fgVal := recipe.ParseStat(og), recipe.ParseStat(fg)
			abv, ok := brewcalc.ABVFromPointers(ogVal, fgVal)
			if ctx.jsonOutput() {
				return writeJSON(cmd, api.ABVResponse{OG: ogVal, FG: fgVal, ABV: api.String(abv, ok)})
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), undefinedResult)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s%%\n", abv)
			return nil
		},
	}
	cmd.Flags().StringVar(&og, "og", "", "Original gravity (e.g. 1.050)")
	cmd.Flags().StringVar(&fg, "fg", "", "Final gravity (e.g. 1.010)")
	return cmd
}

func newCalcIBUCommand(ctx *commandContext) *cobra.Command {
	var og string
	var volume float64
	var hopSpecs []string
	cmd := &cobra.Command{
		Use:   "ibu [slug]",
		Short: "Tinseth bitterness estimate for a stored recipe or explicit hops",
		Long: "Estimate IBU with the Tinseth formula. Pass a recipe slug to use its hops and OG, " +
			"or describe additions with --hop use:grams:alpha:minutes (repeatable).",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			resp := api.IBUResponse{BoilVolumeL: cfg.Brewing.DefaultBoilVolumeL}
			if cmd.Flags().Changed("volume") {
				resp.BoilVolumeL = volume
			}

			var hops []brewcalc.HopAddition
			if len(args) == 1 {
				a, err := ctx.openApp(cmd, app.Options{SkipIndex: true})
				if err != nil {
					return err
				}
				r, err := a.Catalog.Get(cmd.Context(), slugArg(args[0]))
				if err != nil {
					return err
				}
				resp.Slug = r.Slug
				resp.OG = r.Stats.OG
				hops = brewcalc.HopAdditions(r.Hops)
			}
			for _, spec := range hopSpecs {
				hop, err := parseHopSpec(spec)
				if err != nil {
					return err
				}
				hops = append(hops, hop)
			}
			if value := recipe.ParseStat(og); value != nil {
				resp.OG = value
			}
			for _, h := range hops {
				if h.Use == recipe.HopUseBoil {
					resp.BoilHops++
				}
			}
			if resp.OG != nil {
				resp.IBU = api.Float(brewcalc.TinsethIBU(hops, *resp.OG, resp.BoilVolumeL))
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, resp)
			}
			out := cmd.OutOrStdout()
			if resp.IBU == nil {
				fmt.Fprintln(out, undefinedResult)
				return nil
			}
			fmt.Fprintf(out, "%s IBU\n", formatFloat(resp.IBU))
			return nil
		},
	}
	cmd.Flags().StringVar(&og, "og", "", "Original gravity (overrides the recipe's)")
	cmd.Flags().Float64Var(&volume, "volume", 0, "Post-boil volume in liters (default from config)")
	cmd.Flags().StringArrayVar(&hopSpecs, "hop", nil, "Hop addition as use:grams:alpha:minutes, e.g. Boil:28:5.5:60")
	return cmd
}

// parseHopSpec reads "use:grams:alpha:minutes". The use is matched
// case-insensitively against the known hop uses.
func parseHopSpec(spec string) (brewcalc.HopAddition, error) {
	parts := strings.Split(strings.TrimSpace(spec), ":")
	if len(parts) != 4 {
		return brewcalc.HopAddition{}, fmt.Errorf("invalid hop %q: want use:grams:alpha:minutes", spec)
	}
	nums := make([]float64, 3)
	for i, raw := range parts[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return brewcalc.HopAddition{}, fmt.Errorf("invalid hop %q: %q is not a number", spec, raw)
		}
		nums[i] = v
	}
	return brewcalc.HopAddition{
		Use:          normalizeHopUse(parts[0]),
		AmountGrams:  nums[0],
		AlphaPercent: nums[1],
		TimeMinutes:  nums[2],
	}, nil
}

func normalizeHopUse(value string) recipe.HopUse {
	trimmed := strings.TrimSpace(value)
	for _, use := range []recipe.HopUse{recipe.HopUseBoil, recipe.HopUseDryHop, recipe.HopUseWhirlpool, recipe.HopUseAroma, recipe.HopUseFirstWort} {
		if strings.EqualFold(trimmed, string(use)) {
			return use
		}
	}
	return recipe.HopUse(trimmed)
}

func newCalcGravityCommand(ctx *commandContext) *cobra.Command {
	var sg, temp string
	var calibration float64
	cmd := &cobra.Command{
		Use:   "gravity",
		Short: "Correct a hydrometer reading for sample temperature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			resp := api.GravityResponse{
				Measured:         recipe.ParseStat(sg),
				SampleTempC:      recipe.ParseStat(temp),
				CalibrationTempC: cfg.Brewing.CalibrationTempC,
			}
			if cmd.Flags().Changed("calibration") {
				resp.CalibrationTempC = calibration
			}
			if resp.Measured != nil && resp.SampleTempC != nil {
				resp.Corrected = api.Float(brewcalc.CorrectGravityC(*resp.Measured, *resp.SampleTempC, resp.CalibrationTempC))
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, resp)
			}
			if resp.Corrected == nil {
				fmt.Fprintln(cmd.OutOrStdout(), undefinedResult)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(*resp.Corrected, 'f', 3, 64))
			return nil
		},
	}
	cmd.Flags().StringVar(&sg, "sg", "", "Measured specific gravity")
	cmd.Flags().StringVar(&temp, "temp", "", "Sample temperature in Celsius")
	cmd.Flags().Float64Var(&calibration, "calibration", 0, "Hydrometer calibration temperature in Celsius (default from config)")
	return cmd
}

func newCalcColorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "color <srm>",
		Short: "Display color for an SRM value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
			if err != nil {
				return fmt.Errorf("srm must be a number: %q", args[0])
			}
			a, err := ctx.openApp(cmd, app.Options{SkipIndex: true})
			if err != nil {
				return err
			}
			resp := api.ColorResponse{SRM: value, Hex: srm.FallbackHex}
			if entry, ok := a.Colors.Match(value); ok {
				resp.Hex = entry.Hex
				resp.Description = entry.Description
				resp.Matched = true
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, resp)
			}
			out := cmd.OutOrStdout()
			line := resp.Hex
			if resp.Description != "" {
				line += " " + resp.Description
			}
			if shouldColorize(out) {
				if c, err := srm.ParseHex(resp.Hex); err == nil {
					line = fmt.Sprintf("\x1b[48;2;%d;%d;%dm    %s %s", c.R, c.G, c.B, ansiReset, line)
				}
			}
			fmt.Fprintln(out, line)
			return nil
		},
	}
}
