package label

import (
	"strings"

	"brewbook/internal/recipe"
	"brewbook/internal/srm"
	"brewbook/internal/textutil"
)

const maxListed = 3

// Colors resolves an SRM reading to a table entry.
type Colors interface {
	Match(v float64) (srm.Entry, bool)
}

// Summary is the label view of a recipe.
type Summary struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Style       string   `json:"style,omitempty"`
	IBU         *float64 `json:"ibu"`
	ColorSRM    *float64 `json:"colorSrm"`
	ColorHex    string   `json:"colorHex"`
	ColorName   string   `json:"colorName,omitempty"`
	ABV         string   `json:"abv,omitempty"`
	Ingredients string   `json:"ingredients,omitempty"`
}

// FromRecipe summarizes r. A nil colors or a missing color stat yields the
// fallback swatch.
func FromRecipe(r *recipe.Recipe, colors Colors) Summary {
	s := Summary{
		Slug:     r.Slug,
		Name:     strings.TrimSpace(r.Metadata.Name),
		Style:    strings.TrimSpace(r.Metadata.Style),
		IBU:      r.Stats.IBU,
		ColorSRM: r.Stats.ColorSRM,
		ColorHex: srm.FallbackHex,
		ABV:      strings.TrimSpace(r.Stats.ABV),
	}
	if s.Name == "" {
		s.Name = r.Slug
	}
	if r.Stats.ColorSRM != nil && colors != nil {
		if entry, ok := colors.Match(*r.Stats.ColorSRM); ok {
			s.ColorHex = entry.Hex
			s.ColorName = entry.Description
		}
	}
	s.Ingredients = Ingredients(r)
	return s
}

// FileName is the download name for a label, built from the display name.
// It falls back to the slug when the name has no usable characters.
func FileName(s Summary) string {
	base := textutil.SanitizeFileName(s.Name)
	if base == "" {
		base = s.Slug
	}
	return base + ".svg"
}

// Ingredients lists up to three fermentables in document order followed by
// up to three distinct hop names.
func Ingredients(r *recipe.Recipe) string {
	names := make([]string, 0, 2*maxListed)
	names = appendDistinct(names, maxListed, len(r.Fermentables), func(i int) string {
		return r.Fermentables[i].Name
	})
	names = appendDistinct(names, maxListed, len(r.Hops), func(i int) string {
		return r.Hops[i].Name
	})
	return strings.Join(names, ", ")
}

func appendDistinct(dst []string, limit, n int, name func(int) string) []string {
	seen := make(map[string]struct{}, limit)
	for i := 0; i < n && len(seen) < limit; i++ {
		value := strings.TrimSpace(name(i))
		if value == "" {
			continue
		}
		key := strings.ToLower(value)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dst = append(dst, value)
	}
	return dst
}
