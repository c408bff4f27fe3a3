package interchange

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"brewbook/internal/recipe"
)

// Decode parses a recipe document. The slug is left empty; callers assign the
// identifier of the backing document.
func Decode(data []byte) (*recipe.Recipe, error) {
	if err := checkWellFormed(data); err != nil {
		return nil, err
	}

	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &DecodeError{Kind: KindStructure, Err: err}
	}
	return fromDocument(&doc)
}

// DecodeSlug decodes data and stamps the resulting recipe with slug. Errors
// name the slug as their source.
func DecodeSlug(slug string, data []byte) (*recipe.Recipe, error) {
	r, err := Decode(data)
	if err != nil {
		return nil, attachSource(err, slug)
	}
	r.Slug = slug
	return r, nil
}

// DecodeFile reads and decodes a document from disk. The slug defaults to the
// file name without extension.
func DecodeFile(path string) (*recipe.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DecodeError{Kind: KindRead, Source: path, Err: err}
	}
	r, err := Decode(data)
	if err != nil {
		return nil, attachSource(err, path)
	}
	r.Slug = slugFromPath(path)
	return r, nil
}

func attachSource(err error, source string) error {
	var de *DecodeError
	if errors.As(err, &de) && de.Source == "" {
		de.Source = source
	}
	return err
}

// checkWellFormed runs a full token pass so that semantic extraction never
// starts on a broken document. It also checks the root element name.
func checkWellFormed(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return &DecodeError{Kind: KindMalformed, Err: errors.New("empty document")}
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var root string
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return &DecodeError{Kind: KindMalformed, Err: err}
		}
		if start, ok := tok.(xml.StartElement); ok && root == "" {
			root = start.Name.Local
		}
	}
	if root == "" {
		return &DecodeError{Kind: KindMalformed, Err: errors.New("no root element")}
	}
	if root != rootElement {
		return &DecodeError{Kind: KindStructure, Err: fmt.Errorf("root element <%s>, want <%s>", root, rootElement)}
	}
	return nil
}

func fromDocument(doc *xmlDocument) (*recipe.Recipe, error) {
	out := recipe.New("")

	out.Metadata.Name = strings.TrimSpace(doc.Metadata.Name)
	out.Metadata.Style = strings.TrimSpace(doc.Metadata.Style)
	out.Metadata.Author = optionalText(doc.Metadata.Author)
	out.Metadata.BatchSize = optionalValue(doc.Metadata.BatchSize)
	out.Metadata.BoilTime = optionalValue(doc.Metadata.BoilTime)
	out.Metadata.Efficiency = optionalValue(doc.Metadata.Efficiency)

	if doc.Fermentables != nil {
		for i, item := range doc.Fermentables.Items {
			f, err := decodeFermentable(i, item)
			if err != nil {
				return nil, err
			}
			out.Fermentables = append(out.Fermentables, f)
		}
	}
	if doc.Hops != nil {
		for i, item := range doc.Hops.Items {
			h, err := decodeHop(i, item)
			if err != nil {
				return nil, err
			}
			out.Hops = append(out.Hops, h)
		}
	}
	if doc.Yeasts != nil {
		for _, item := range doc.Yeasts.Items {
			out.Yeasts = append(out.Yeasts, decodeYeast(item))
		}
	}
	if doc.Miscs != nil {
		for i, item := range doc.Miscs.Items {
			m, err := decodeMisc(i, item)
			if err != nil {
				return nil, err
			}
			out.Miscs = append(out.Miscs, m)
		}
	}
	if doc.Mash != nil {
		out.Mash.Name = strings.TrimSpace(doc.Mash.Name)
		if doc.Mash.Steps != nil {
			for i, item := range doc.Mash.Steps.Items {
				s, err := decodeMashStep(i, item)
				if err != nil {
					return nil, err
				}
				out.Mash.Steps = append(out.Mash.Steps, s)
			}
		}
	}

	if doc.Notes != nil {
		out.Notes = strings.TrimSpace(*doc.Notes)
	}
	if doc.Stats != nil {
		out.Stats = decodeStats(doc.Stats)
	}
	return out, nil
}

func decodeFermentable(i int, item xmlFermentable) (recipe.Fermentable, error) {
	amount, err := requiredValue(item.Amount, indexed("fermentables", i, "amount"))
	if err != nil {
		return recipe.Fermentable{}, err
	}
	return recipe.Fermentable{
		Name:   strings.TrimSpace(item.Name),
		Amount: amount,
		Type:   recipe.FermentableType(strings.TrimSpace(item.Type)),
	}, nil
}

func decodeHop(i int, item xmlHop) (recipe.Hop, error) {
	amount, err := requiredValue(item.Amount, indexed("hops", i, "amount"))
	if err != nil {
		return recipe.Hop{}, err
	}
	timing, err := requiredValue(item.Time, indexed("hops", i, "time"))
	if err != nil {
		return recipe.Hop{}, err
	}
	return recipe.Hop{
		Name:   strings.TrimSpace(item.Name),
		Amount: amount,
		Use:    recipe.HopUse(strings.TrimSpace(item.Use)),
		Time:   timing,
		Alpha:  optionalValue(item.Alpha),
	}, nil
}

func decodeYeast(item xmlYeast) recipe.Yeast {
	return recipe.Yeast{
		Name:        strings.TrimSpace(item.Name),
		Type:        recipe.YeastType(strings.TrimSpace(item.Type)),
		Form:        recipe.YeastForm(optionalText(item.Form)),
		Attenuation: optionalValue(item.Attenuation),
	}
}

func decodeMisc(i int, item xmlMisc) (recipe.Misc, error) {
	amount, err := requiredValue(item.Amount, indexed("miscs", i, "amount"))
	if err != nil {
		return recipe.Misc{}, err
	}
	return recipe.Misc{
		Name:   strings.TrimSpace(item.Name),
		Amount: amount,
		Use:    recipe.MiscUse(strings.TrimSpace(item.Use)),
		Time:   optionalValue(item.Time),
	}, nil
}

func decodeMashStep(i int, item xmlMashStep) (recipe.MashStep, error) {
	temp, err := requiredValue(item.StepTemp, indexed("mash.mashSteps", i, "stepTemp"))
	if err != nil {
		return recipe.MashStep{}, err
	}
	timing, err := requiredValue(item.StepTime, indexed("mash.mashSteps", i, "stepTime"))
	if err != nil {
		return recipe.MashStep{}, err
	}
	return recipe.MashStep{
		Name:        strings.TrimSpace(item.Name),
		Type:        recipe.MashStepType(strings.TrimSpace(item.Type)),
		StepTemp:    temp,
		StepTime:    timing,
		Description: optionalText(item.Description),
	}, nil
}

func decodeStats(stats *xmlStats) recipe.Stats {
	out := recipe.Stats{
		OG:       statValue(stats.OG),
		FG:       statValue(stats.FG),
		IBU:      statValue(stats.IBU),
		ColorSRM: statValue(stats.ColorSRM),
	}
	if stats.ABV != nil {
		out.ABV = strings.TrimSpace(*stats.ABV)
	}
	return out
}

func statValue(text *string) *float64 {
	if text == nil {
		return nil
	}
	return recipe.ParseStat(*text)
}

// parseQuantity applies the quantity rule: a unit attribute yields that unit,
// kept verbatim, and a coerced number (blank text is zero); without one the
// whole text is the value and the unit is empty. A missing element, or blank
// text without a unit, is absent (nil), never zero.
func parseQuantity(v *xmlValue) (*recipe.ValueUnit, error) {
	if v == nil {
		return nil, nil
	}
	unit := ""
	if v.Unit != nil {
		unit = *v.Unit
	}
	text := strings.TrimSpace(v.Text)
	if text == "" {
		if v.Unit == nil {
			return nil, nil
		}
		return &recipe.ValueUnit{Value: 0, Unit: unit}, nil
	}
	number, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(number) || math.IsInf(number, 0) {
		return nil, fmt.Errorf("non-finite number %q", text)
	}
	return &recipe.ValueUnit{Value: number, Unit: unit}, nil
}

// optionalValue treats an unparseable quantity as absent, like stats.
func optionalValue(v *xmlValue) *recipe.ValueUnit {
	out, err := parseQuantity(v)
	if err != nil {
		return nil
	}
	return out
}

func requiredValue(v *xmlValue, field string) (recipe.ValueUnit, error) {
	out, err := parseQuantity(v)
	if err != nil {
		return recipe.ValueUnit{}, &DecodeError{Kind: KindInvalidValue, Field: field, Err: err}
	}
	if out == nil {
		return recipe.ValueUnit{}, &DecodeError{Kind: KindMissingField, Field: field}
	}
	return *out, nil
}

func optionalText(text *string) string {
	if text == nil {
		return ""
	}
	return strings.TrimSpace(*text)
}

func indexed(section string, i int, field string) string {
	return section + "[" + strconv.Itoa(i) + "]." + field
}

func slugFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
