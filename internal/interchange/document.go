package interchange

import "encoding/xml"

const rootElement = "recipe"

// xmlValue is a quantity element: text carries the number, the optional unit
// attribute carries the unit.
type xmlValue struct {
	Unit *string `xml:"unit,attr,omitempty"`
	Text string  `xml:",chardata"`
}

type xmlDocument struct {
	XMLName      xml.Name         `xml:"recipe"`
	Metadata     xmlMetadata      `xml:"metadata"`
	Fermentables *xmlFermentables `xml:"fermentables,omitempty"`
	Hops         *xmlHops         `xml:"hops,omitempty"`
	Yeasts       *xmlYeasts       `xml:"yeasts,omitempty"`
	Miscs        *xmlMiscs        `xml:"miscs,omitempty"`
	Mash         *xmlMash         `xml:"mash,omitempty"`
	Notes        *string          `xml:"notes,omitempty"`
	Stats        *xmlStats        `xml:"stats,omitempty"`
}

type xmlMetadata struct {
	Name       string    `xml:"name"`
	Author     *string   `xml:"author,omitempty"`
	Style      string    `xml:"style"`
	BatchSize  *xmlValue `xml:"batchSize,omitempty"`
	BoilTime   *xmlValue `xml:"boilTime,omitempty"`
	Efficiency *xmlValue `xml:"efficiency,omitempty"`
}

type xmlFermentables struct {
	Items []xmlFermentable `xml:"fermentable"`
}

type xmlFermentable struct {
	Name   string    `xml:"name"`
	Amount *xmlValue `xml:"amount"`
	Type   string    `xml:"type"`
}

type xmlHops struct {
	Items []xmlHop `xml:"hop"`
}

type xmlHop struct {
	Name   string    `xml:"name"`
	Amount *xmlValue `xml:"amount"`
	Use    string    `xml:"use"`
	Time   *xmlValue `xml:"time"`
	Alpha  *xmlValue `xml:"alpha,omitempty"`
}

type xmlYeasts struct {
	Items []xmlYeast `xml:"yeast"`
}

type xmlYeast struct {
	Name        string    `xml:"name"`
	Type        string    `xml:"type"`
	Form        *string   `xml:"form,omitempty"`
	Attenuation *xmlValue `xml:"attenuation,omitempty"`
}

type xmlMiscs struct {
	Items []xmlMisc `xml:"misc"`
}

type xmlMisc struct {
	Name   string    `xml:"name"`
	Amount *xmlValue `xml:"amount"`
	Use    string    `xml:"use"`
	Time   *xmlValue `xml:"time,omitempty"`
}

type xmlMash struct {
	Name  string        `xml:"name"`
	Steps *xmlMashSteps `xml:"mashSteps,omitempty"`
}

type xmlMashSteps struct {
	Items []xmlMashStep `xml:"mashStep"`
}

type xmlMashStep struct {
	Name        string    `xml:"name"`
	Type        string    `xml:"type"`
	StepTemp    *xmlValue `xml:"stepTemp"`
	StepTime    *xmlValue `xml:"stepTime"`
	Description *string   `xml:"description,omitempty"`
}

type xmlStats struct {
	OG       *string `xml:"og,omitempty"`
	FG       *string `xml:"fg,omitempty"`
	ABV      *string `xml:"abv,omitempty"`
	IBU      *string `xml:"ibu,omitempty"`
	ColorSRM *string `xml:"colorSrm,omitempty"`
}
