package main

import (
	"fmt"
	"io"
	"strings"

	"brewbook/internal/recipe"
)

func sectionHeader(title string, colorize bool) string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	if colorize {
		return ansiBold + line + ansiReset
	}
	return line
}

func valueText(v *recipe.ValueUnit) string {
	if v == nil {
		return "-"
	}
	return v.String()
}

func renderRecipe(out io.Writer, r *recipe.Recipe, lookup func(float64) string, colorize bool) {
	fmt.Fprintln(out, sectionHeader(r.Metadata.Name, colorize))
	fields := [][2]string{
		{"Slug", r.Slug},
		{"Style", formatString(r.Metadata.Style)},
		{"Author", formatString(r.Metadata.Author)},
		{"Batch size", valueText(r.Metadata.BatchSize)},
		{"Boil time", valueText(r.Metadata.BoilTime)},
		{"Efficiency", valueText(r.Metadata.Efficiency)},
		{"OG", formatFloat(r.Stats.OG)},
		{"FG", formatFloat(r.Stats.FG)},
		{"ABV", formatString(r.Stats.ABV)},
		{"IBU", formatFloat(r.Stats.IBU)},
		{"Color", colorText(r.Stats.ColorSRM, lookup)},
	}
	for _, f := range fields {
		fmt.Fprintf(out, "  %-12s %s\n", f[0]+":", f[1])
	}

	if len(r.Fermentables) > 0 {
		rows := make([][]string, 0, len(r.Fermentables))
		for _, f := range r.Fermentables {
			rows = append(rows, []string{f.Name, string(f.Type), f.Amount.String()})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, sectionHeader("Fermentables", colorize))
		fmt.Fprintln(out, renderTable([]string{"Name", "Type", "Amount"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}, colorize))
	}
	if len(r.Hops) > 0 {
		rows := make([][]string, 0, len(r.Hops))
		for _, h := range r.Hops {
			rows = append(rows, []string{h.Name, string(h.Use), h.Amount.String(), h.Time.String(), valueText(h.Alpha)})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, sectionHeader("Hops", colorize))
		fmt.Fprintln(out, renderTable([]string{"Name", "Use", "Amount", "Time", "Alpha"}, rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight}, colorize))
	}
	if len(r.Yeasts) > 0 {
		rows := make([][]string, 0, len(r.Yeasts))
		for _, y := range r.Yeasts {
			rows = append(rows, []string{y.Name, string(y.Type), formatString(string(y.Form)), valueText(y.Attenuation)})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, sectionHeader("Yeasts", colorize))
		fmt.Fprintln(out, renderTable([]string{"Name", "Type", "Form", "Attenuation"}, rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight}, colorize))
	}
	if len(r.Miscs) > 0 {
		rows := make([][]string, 0, len(r.Miscs))
		for _, m := range r.Miscs {
			rows = append(rows, []string{m.Name, string(m.Use), m.Amount.String(), valueText(m.Time)})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, sectionHeader("Miscellaneous", colorize))
		fmt.Fprintln(out, renderTable([]string{"Name", "Use", "Amount", "Time"}, rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight}, colorize))
	}
	if len(r.Mash.Steps) > 0 {
		rows := make([][]string, 0, len(r.Mash.Steps))
		for _, s := range r.Mash.Steps {
			rows = append(rows, []string{s.Name, string(s.Type), s.StepTemp.String(), s.StepTime.String(), s.Description})
		}
		title := "Mash"
		if name := strings.TrimSpace(r.Mash.Name); name != "" {
			title += ": " + name
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, sectionHeader(title, colorize))
		fmt.Fprintln(out, renderTable([]string{"Step", "Type", "Temp", "Time", "Notes"}, rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft}, colorize))
	}
	if notes := strings.TrimSpace(r.Notes); notes != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, sectionHeader("Notes", colorize))
		fmt.Fprintln(out, notes)
	}
}

func colorText(srmValue *float64, lookup func(float64) string) string {
	if srmValue == nil {
		return "-"
	}
	text := formatFloat(srmValue) + " SRM"
	if lookup != nil {
		text += " " + lookup(*srmValue)
	}
	return text
}
