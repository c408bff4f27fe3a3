package testsupport

import "brewbook/internal/recipe"

// SampleRecipe returns a fully populated recipe with at least one entry in
// every ingredient list and every optional field set.
func SampleRecipe(slug string) *recipe.Recipe {
	r := recipe.New(slug)
	r.Metadata = recipe.Metadata{
		Name:       "Citra Pale Ale",
		Author:     "Test Brewer",
		Style:      "American Pale Ale",
		BatchSize:  recipe.NewValue(20, "L"),
		BoilTime:   recipe.NewValue(60, "min"),
		Efficiency: recipe.NewValue(72, "%"),
	}
	r.Fermentables = []recipe.Fermentable{
		{Name: "Pale Malt", Amount: recipe.ValueUnit{Value: 4.5, Unit: "kg"}, Type: recipe.FermentableGrain},
		{Name: "Crystal 40", Amount: recipe.ValueUnit{Value: 0.25, Unit: "kg"}, Type: recipe.FermentableGrain},
	}
	r.Hops = []recipe.Hop{
		{
			Name:   "Citra",
			Amount: recipe.ValueUnit{Value: 28, Unit: "g"},
			Use:    recipe.HopUseBoil,
			Time:   recipe.ValueUnit{Value: 60, Unit: "min"},
			Alpha:  recipe.NewValue(12.5, "%"),
		},
		{
			Name:   "Citra",
			Amount: recipe.ValueUnit{Value: 50, Unit: "g"},
			Use:    recipe.HopUseDryHop,
			Time:   recipe.ValueUnit{Value: 3, Unit: "day"},
		},
	}
	r.Yeasts = []recipe.Yeast{
		{Name: "US-05", Type: recipe.YeastAle, Form: recipe.YeastDry, Attenuation: recipe.NewValue(78, "%")},
	}
	r.Miscs = []recipe.Misc{
		{Name: "Whirlfloc", Amount: recipe.ValueUnit{Value: 1, Unit: "tablet"}, Use: recipe.MiscUseBoil, Time: recipe.NewValue(15, "min")},
	}
	r.Mash = recipe.Mash{
		Name: "Single Infusion",
		Steps: []recipe.MashStep{
			{Name: "Saccharification", Type: recipe.MashInfusion, StepTemp: recipe.ValueUnit{Value: 66, Unit: "C"}, StepTime: recipe.ValueUnit{Value: 60, Unit: "min"}, Description: "Hold at 66C"},
			{Name: "Mash Out", Type: recipe.MashTemperature, StepTemp: recipe.ValueUnit{Value: 76, Unit: "C"}, StepTime: recipe.ValueUnit{Value: 10, Unit: "min"}},
		},
	}
	r.Notes = "Dry hop after primary fermentation."
	r.Stats = recipe.Stats{
		OG:       recipe.Float(1.05),
		FG:       recipe.Float(1.01),
		ABV:      "5.25",
		IBU:      recipe.Float(38.2),
		ColorSRM: recipe.Float(6),
	}
	return r
}

// MinimalRecipe returns a recipe with only a name and style; every optional
// section is empty.
func MinimalRecipe(slug, name string) *recipe.Recipe {
	r := recipe.New(slug)
	r.Metadata.Name = name
	r.Metadata.Style = "Table Beer"
	return r
}
