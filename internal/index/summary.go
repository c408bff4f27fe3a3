package index

import (
	"time"

	"brewbook/internal/recipe"
)

// ColorLookup maps an SRM value to a display hex color.
type ColorLookup interface {
	Lookup(srm float64) string
}

// Summary is one indexed recipe.
type Summary struct {
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Style     string    `json:"style"`
	Author    string    `json:"author,omitempty"`
	OG        *float64  `json:"og"`
	FG        *float64  `json:"fg"`
	ABV       string    `json:"abv,omitempty"`
	IBU       *float64  `json:"ibu"`
	ColorSRM  *float64  `json:"colorSrm"`
	ColorHex  string    `json:"colorHex,omitempty"`
	HopCount  int       `json:"hopCount"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SummaryFromRecipe extracts the indexed fields from r. The color hex is left
// empty when the recipe has no color stat or colors is nil.
func SummaryFromRecipe(r *recipe.Recipe, colors ColorLookup, now time.Time) Summary {
	s := Summary{
		Slug:      r.Slug,
		Name:      r.Metadata.Name,
		Style:     r.Metadata.Style,
		Author:    r.Metadata.Author,
		OG:        r.Stats.OG,
		FG:        r.Stats.FG,
		ABV:       r.Stats.ABV,
		IBU:       r.Stats.IBU,
		ColorSRM:  r.Stats.ColorSRM,
		HopCount:  len(r.Hops),
		UpdatedAt: now.UTC(),
	}
	if r.Stats.ColorSRM != nil && colors != nil {
		s.ColorHex = colors.Lookup(*r.Stats.ColorSRM)
	}
	return s
}
