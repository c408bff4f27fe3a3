package api

import (
	"time"

	"brewbook/internal/brewcalc"
	"brewbook/internal/index"
	"brewbook/internal/recipe"
)

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// FormatTime renders t in the payload timestamp format, or "" for zero.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RecipeListResponse wraps the recipe listing.
type RecipeListResponse struct {
	Recipes []*recipe.Recipe `json:"recipes"`
}

// SearchResponse wraps index search results.
type SearchResponse struct {
	Query   string          `json:"query"`
	Results []index.Summary `json:"results"`
}

// SimilarMatch is one recipe ranked by shared style and ingredients.
type SimilarMatch struct {
	Slug  string  `json:"slug"`
	Name  string  `json:"name"`
	Style string  `json:"style"`
	Score float64 `json:"score"`
}

// SimilarResponse lists the recipes closest to Slug, best first.
type SimilarResponse struct {
	Slug    string         `json:"slug"`
	Matches []SimilarMatch `json:"matches"`
}

// RebuildResponse reports an index rebuild.
type RebuildResponse struct {
	Indexed int    `json:"indexed"`
	Driver  string `json:"driver"`
}

// ABVResponse reports an ABV calculation. ABV is null when undefined.
type ABVResponse struct {
	OG  *float64 `json:"og"`
	FG  *float64 `json:"fg"`
	ABV *string  `json:"abv"`
}

// IBURequest is the body accepted by POST /api/calc/ibu.
type IBURequest struct {
	OG          *float64               `json:"og"`
	BoilVolumeL *float64               `json:"boilVolumeL"`
	Hops        []brewcalc.HopAddition `json:"hops"`
}

// IBUResponse reports a Tinseth estimate. IBU is null when undefined.
type IBUResponse struct {
	Slug        string   `json:"slug,omitempty"`
	OG          *float64 `json:"og"`
	BoilVolumeL float64  `json:"boilVolumeL"`
	BoilHops    int      `json:"boilHops"`
	IBU         *float64 `json:"ibu"`
}

// GravityResponse reports a temperature-corrected gravity reading.
type GravityResponse struct {
	Measured         *float64 `json:"measured"`
	SampleTempC      *float64 `json:"sampleTempC"`
	CalibrationTempC float64  `json:"calibrationTempC"`
	Corrected        *float64 `json:"corrected"`
}

// ColorResponse reports the display color for an SRM value.
type ColorResponse struct {
	SRM         float64 `json:"srm"`
	Hex         string  `json:"hex"`
	Description string  `json:"description,omitempty"`
	Matched     bool    `json:"matched"`
}

// StatusResponse describes the running server.
type StatusResponse struct {
	Storage   string      `json:"storage"`
	Index     IndexStatus `json:"index"`
	Colors    ColorStatus `json:"colors"`
	StartedAt string      `json:"startedAt"`
	Uptime    string      `json:"uptime"`
}

// IndexStatus summarizes the summary index.
type IndexStatus struct {
	Enabled bool   `json:"enabled"`
	Driver  string `json:"driver,omitempty"`
	Count   int    `json:"count"`
	Error   string `json:"error,omitempty"`
}

// ColorStatus summarizes the loaded SRM table.
type ColorStatus struct {
	Entries int    `json:"entries"`
	Source  string `json:"source"`
	Error   string `json:"error,omitempty"`
}

// Float returns a pointer to v when ok, else nil.
func Float(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}

// String returns a pointer to v when ok, else nil.
func String(v string, ok bool) *string {
	if !ok {
		return nil
	}
	return &v
}
