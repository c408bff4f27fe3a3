package interchange

import (
	"bytes"
	"encoding/xml"
	"errors"
	"strconv"
	"strings"

	"brewbook/internal/recipe"
)

// Encode serializes r into a complete document, XML declaration included.
func Encode(r *recipe.Recipe) ([]byte, error) {
	if r == nil {
		return nil, &EncodeError{Err: errors.New("nil recipe")}
	}
	doc := toDocument(r)

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, &EncodeError{Slug: r.Slug, Err: err}
	}
	if err := enc.Close(); err != nil {
		return nil, &EncodeError{Slug: r.Slug, Err: err}
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func toDocument(r *recipe.Recipe) *xmlDocument {
	doc := &xmlDocument{
		Metadata: xmlMetadata{
			Name:       r.Metadata.Name,
			Author:     optionalString(r.Metadata.Author),
			Style:      r.Metadata.Style,
			BatchSize:  encodeOptional(r.Metadata.BatchSize),
			BoilTime:   encodeOptional(r.Metadata.BoilTime),
			Efficiency: encodeOptional(r.Metadata.Efficiency),
		},
		Notes: optionalString(r.Notes),
		Stats: encodeStats(r.Stats),
	}

	if len(r.Fermentables) > 0 {
		doc.Fermentables = &xmlFermentables{Items: make([]xmlFermentable, 0, len(r.Fermentables))}
		for _, f := range r.Fermentables {
			doc.Fermentables.Items = append(doc.Fermentables.Items, xmlFermentable{
				Name:   f.Name,
				Amount: encodeValue(f.Amount),
				Type:   string(f.Type),
			})
		}
	}
	if len(r.Hops) > 0 {
		doc.Hops = &xmlHops{Items: make([]xmlHop, 0, len(r.Hops))}
		for _, h := range r.Hops {
			doc.Hops.Items = append(doc.Hops.Items, xmlHop{
				Name:   h.Name,
				Amount: encodeValue(h.Amount),
				Use:    string(h.Use),
				Time:   encodeValue(h.Time),
				Alpha:  encodeOptional(h.Alpha),
			})
		}
	}
	if len(r.Yeasts) > 0 {
		doc.Yeasts = &xmlYeasts{Items: make([]xmlYeast, 0, len(r.Yeasts))}
		for _, y := range r.Yeasts {
			doc.Yeasts.Items = append(doc.Yeasts.Items, xmlYeast{
				Name:        y.Name,
				Type:        string(y.Type),
				Form:        optionalString(string(y.Form)),
				Attenuation: encodeOptional(y.Attenuation),
			})
		}
	}
	if len(r.Miscs) > 0 {
		doc.Miscs = &xmlMiscs{Items: make([]xmlMisc, 0, len(r.Miscs))}
		for _, m := range r.Miscs {
			doc.Miscs.Items = append(doc.Miscs.Items, xmlMisc{
				Name:   m.Name,
				Amount: encodeValue(m.Amount),
				Use:    string(m.Use),
				Time:   encodeOptional(m.Time),
			})
		}
	}
	if strings.TrimSpace(r.Mash.Name) != "" || len(r.Mash.Steps) > 0 {
		doc.Mash = &xmlMash{Name: r.Mash.Name}
		if len(r.Mash.Steps) > 0 {
			doc.Mash.Steps = &xmlMashSteps{Items: make([]xmlMashStep, 0, len(r.Mash.Steps))}
			for _, s := range r.Mash.Steps {
				doc.Mash.Steps.Items = append(doc.Mash.Steps.Items, xmlMashStep{
					Name:        s.Name,
					Type:        string(s.Type),
					StepTemp:    encodeValue(s.StepTemp),
					StepTime:    encodeValue(s.StepTime),
					Description: optionalString(s.Description),
				})
			}
		}
	}
	return doc
}

func encodeStats(s recipe.Stats) *xmlStats {
	if s.IsEmpty() {
		return nil
	}
	return &xmlStats{
		OG:       formatStat(s.OG),
		FG:       formatStat(s.FG),
		ABV:      optionalString(s.ABV),
		IBU:      formatStat(s.IBU),
		ColorSRM: formatStat(s.ColorSRM),
	}
}

func formatStat(v *float64) *string {
	if v == nil {
		return nil
	}
	text := formatNumber(*v)
	return &text
}

func encodeValue(v recipe.ValueUnit) *xmlValue {
	out := &xmlValue{Text: formatNumber(v.Value)}
	if v.Unit != "" {
		unit := v.Unit
		out.Unit = &unit
	}
	return out
}

func encodeOptional(v *recipe.ValueUnit) *xmlValue {
	if v == nil {
		return nil
	}
	return encodeValue(*v)
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
