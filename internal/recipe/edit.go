package recipe

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseStat coerces a numeric-looking string into a number. Empty or
// non-numeric input returns nil so the stat is omitted rather than zeroed.
func ParseStat(value string) *float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return nil
	}
	return &parsed
}

// FlexNumber accepts a JSON number, a numeric string, an empty string, or
// null. Anything that is not a finite number decodes to "absent".
type FlexNumber struct {
	value *float64
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexNumber) UnmarshalJSON(data []byte) error {
	f.value = nil
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		f.value = ParseStat(s)
		return nil
	}
	f.value = ParseStat(string(trimmed))
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f FlexNumber) MarshalJSON() ([]byte, error) {
	if f.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*f.value)
}

// Ptr returns the parsed number or nil.
func (f FlexNumber) Ptr() *float64 {
	if f.value == nil {
		return nil
	}
	v := *f.value
	return &v
}

// Flex wraps a number for building edit payloads in code.
func Flex(v float64) FlexNumber {
	return FlexNumber{value: &v}
}

// EditStats mirrors Stats with lenient numeric fields, as submitted by forms.
type EditStats struct {
	OG       FlexNumber `json:"og"`
	FG       FlexNumber `json:"fg"`
	ABV      string     `json:"abv"`
	IBU      FlexNumber `json:"ibu"`
	ColorSRM FlexNumber `json:"colorSrm"`
}

// EditRequest is the edit payload accepted by the HTTP API. It is structurally
// compatible with Recipe except for the lenient stats block.
type EditRequest struct {
	Slug         string        `json:"slug,omitempty"`
	Metadata     Metadata      `json:"metadata"`
	Fermentables []Fermentable `json:"fermentables"`
	Hops         []Hop         `json:"hops"`
	Yeasts       []Yeast       `json:"yeasts"`
	Miscs        []Misc        `json:"miscs"`
	Mash         Mash          `json:"mash"`
	Notes        string        `json:"notes"`
	Stats        EditStats     `json:"stats"`
}

// Recipe converts the payload into a normalized recipe under slug. When slug
// is empty the payload's own slug is used, then one derived from the name.
func (e EditRequest) Recipe(slug string) *Recipe {
	if strings.TrimSpace(slug) == "" {
		slug = strings.TrimSpace(e.Slug)
	}
	if slug == "" {
		slug = SlugFromName(e.Metadata.Name)
	}
	out := &Recipe{
		Slug:         slug,
		Metadata:     e.Metadata,
		Fermentables: e.Fermentables,
		Hops:         e.Hops,
		Yeasts:       e.Yeasts,
		Miscs:        e.Miscs,
		Mash:         e.Mash,
		Notes:        e.Notes,
		Stats: Stats{
			OG:       e.Stats.OG.Ptr(),
			FG:       e.Stats.FG.Ptr(),
			ABV:      strings.TrimSpace(e.Stats.ABV),
			IBU:      e.Stats.IBU.Ptr(),
			ColorSRM: e.Stats.ColorSRM.Ptr(),
		},
	}
	out.Normalize()
	return out.Clone()
}
