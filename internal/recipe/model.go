package recipe

import (
	"strconv"
	"strings"
)

// ValueUnit pairs a numeric quantity with its unit of measure.
type ValueUnit struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// NewValue returns a pointer to a ValueUnit, convenient for optional fields.
func NewValue(value float64, unit string) *ValueUnit {
	return &ValueUnit{Value: value, Unit: unit}
}

// String renders the quantity as "value unit" (or just the value when unitless).
func (v ValueUnit) String() string {
	formatted := strconv.FormatFloat(v.Value, 'f', -1, 64)
	if strings.TrimSpace(v.Unit) == "" {
		return formatted
	}
	return formatted + " " + v.Unit
}

// FermentableType enumerates known fermentable kinds. Unknown values are kept as-is.
type FermentableType string

const (
	FermentableGrain   FermentableType = "Grain"
	FermentableSugar   FermentableType = "Sugar"
	FermentableExtract FermentableType = "Extract"
	FermentableAdjunct FermentableType = "Adjunct"
)

// HopUse enumerates where a hop addition happens.
type HopUse string

const (
	HopUseBoil      HopUse = "Boil"
	HopUseDryHop    HopUse = "Dry Hop"
	HopUseWhirlpool HopUse = "Whirlpool"
	HopUseAroma     HopUse = "Aroma"
	HopUseFirstWort HopUse = "First Wort"
)

// YeastType enumerates yeast families.
type YeastType string

const (
	YeastAle       YeastType = "Ale"
	YeastLager     YeastType = "Lager"
	YeastWine      YeastType = "Wine"
	YeastChampagne YeastType = "Champagne"
	YeastOther     YeastType = "Other"
)

// YeastForm enumerates how yeast is packaged.
type YeastForm string

const (
	YeastLiquid YeastForm = "Liquid"
	YeastDry    YeastForm = "Dry"
)

// MiscUse enumerates when a misc ingredient is added.
type MiscUse string

const (
	MiscUseBoil         MiscUse = "Boil"
	MiscUseMash         MiscUse = "Mash"
	MiscUseFermentation MiscUse = "Fermentation"
	MiscUseBottling     MiscUse = "Bottling"
)

// MashStepType enumerates mash step techniques.
type MashStepType string

const (
	MashInfusion    MashStepType = "Infusion"
	MashTemperature MashStepType = "Temperature"
	MashDecoction   MashStepType = "Decoction"
)

// Metadata holds descriptive recipe fields.
type Metadata struct {
	Name       string     `json:"name"`
	Author     string     `json:"author,omitempty"`
	Style      string     `json:"style"`
	BatchSize  *ValueUnit `json:"batchSize,omitempty"`
	BoilTime   *ValueUnit `json:"boilTime,omitempty"`
	Efficiency *ValueUnit `json:"efficiency,omitempty"`
}

// Fermentable is a sugar source contributing to gravity.
type Fermentable struct {
	Name   string          `json:"name"`
	Amount ValueUnit       `json:"amount"`
	Type   FermentableType `json:"type"`
}

// Hop is a single hop addition.
type Hop struct {
	Name   string     `json:"name"`
	Amount ValueUnit  `json:"amount"`
	Use    HopUse     `json:"use"`
	Time   ValueUnit  `json:"time"`
	Alpha  *ValueUnit `json:"alpha,omitempty"`
}

// Yeast is a pitched culture.
type Yeast struct {
	Name        string     `json:"name"`
	Type        YeastType  `json:"type"`
	Form        YeastForm  `json:"form,omitempty"`
	Attenuation *ValueUnit `json:"attenuation,omitempty"`
}

// Misc covers finings, salts, spices and other additions.
type Misc struct {
	Name   string     `json:"name"`
	Amount ValueUnit  `json:"amount"`
	Use    MiscUse    `json:"use"`
	Time   *ValueUnit `json:"time,omitempty"`
}

// MashStep is one rest of the mash schedule.
type MashStep struct {
	Name        string       `json:"name"`
	Type        MashStepType `json:"type"`
	StepTemp    ValueUnit    `json:"stepTemp"`
	StepTime    ValueUnit    `json:"stepTime"`
	Description string       `json:"description,omitempty"`
}

// Mash groups the mash schedule.
type Mash struct {
	Name  string     `json:"name"`
	Steps []MashStep `json:"mashSteps"`
}

// Stats holds measured or derived brewing numbers. Nil means not provided.
// ABV is kept as the formatted string produced by the calculator.
type Stats struct {
	OG       *float64 `json:"og,omitempty"`
	FG       *float64 `json:"fg,omitempty"`
	ABV      string   `json:"abv,omitempty"`
	IBU      *float64 `json:"ibu,omitempty"`
	ColorSRM *float64 `json:"colorSrm,omitempty"`
}

// IsEmpty reports whether no stat is populated.
func (s Stats) IsEmpty() bool {
	return s.OG == nil && s.FG == nil && strings.TrimSpace(s.ABV) == "" && s.IBU == nil && s.ColorSRM == nil
}

// Recipe is the normalized aggregate decoded from one interchange document.
type Recipe struct {
	Slug         string        `json:"slug"`
	Metadata     Metadata      `json:"metadata"`
	Fermentables []Fermentable `json:"fermentables"`
	Hops         []Hop         `json:"hops"`
	Yeasts       []Yeast       `json:"yeasts"`
	Miscs        []Misc        `json:"miscs"`
	Mash         Mash          `json:"mash"`
	Notes        string        `json:"notes,omitempty"`
	Stats        Stats         `json:"stats"`
}

// New returns an empty recipe with non-nil collections.
func New(slug string) *Recipe {
	return &Recipe{
		Slug:         slug,
		Fermentables: []Fermentable{},
		Hops:         []Hop{},
		Yeasts:       []Yeast{},
		Miscs:        []Misc{},
		Mash:         Mash{Steps: []MashStep{}},
	}
}

// Clone returns a deep copy so callers can mutate without sharing children.
func (r *Recipe) Clone() *Recipe {
	if r == nil {
		return nil
	}
	out := *r
	out.Metadata.BatchSize = cloneValue(r.Metadata.BatchSize)
	out.Metadata.BoilTime = cloneValue(r.Metadata.BoilTime)
	out.Metadata.Efficiency = cloneValue(r.Metadata.Efficiency)

	out.Fermentables = append([]Fermentable{}, r.Fermentables...)
	out.Hops = make([]Hop, len(r.Hops))
	for i, hop := range r.Hops {
		hop.Alpha = cloneValue(hop.Alpha)
		out.Hops[i] = hop
	}
	out.Yeasts = make([]Yeast, len(r.Yeasts))
	for i, yeast := range r.Yeasts {
		yeast.Attenuation = cloneValue(yeast.Attenuation)
		out.Yeasts[i] = yeast
	}
	out.Miscs = make([]Misc, len(r.Miscs))
	for i, misc := range r.Miscs {
		misc.Time = cloneValue(misc.Time)
		out.Miscs[i] = misc
	}
	out.Mash.Steps = append([]MashStep{}, r.Mash.Steps...)

	out.Stats.OG = cloneFloat(r.Stats.OG)
	out.Stats.FG = cloneFloat(r.Stats.FG)
	out.Stats.IBU = cloneFloat(r.Stats.IBU)
	out.Stats.ColorSRM = cloneFloat(r.Stats.ColorSRM)
	return &out
}

// Normalize replaces nil collections with empty slices.
func (r *Recipe) Normalize() {
	if r.Fermentables == nil {
		r.Fermentables = []Fermentable{}
	}
	if r.Hops == nil {
		r.Hops = []Hop{}
	}
	if r.Yeasts == nil {
		r.Yeasts = []Yeast{}
	}
	if r.Miscs == nil {
		r.Miscs = []Misc{}
	}
	if r.Mash.Steps == nil {
		r.Mash.Steps = []MashStep{}
	}
}

func cloneValue(v *ValueUnit) *ValueUnit {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
