package brewcalc

import (
	"math"

	"brewbook/internal/recipe"
)

// HopAddition is the calculator's view of one hop addition. Units are fixed:
// grams, alpha acid percent, and boil minutes.
type HopAddition struct {
	Use          recipe.HopUse `json:"use"`
	AmountGrams  float64       `json:"amountGrams"`
	AlphaPercent float64       `json:"alphaPercent"`
	TimeMinutes  float64       `json:"timeMinutes"`
}

// HopAdditions maps recipe hops into calculator inputs. Values are copied
// verbatim; no unit conversion happens, so callers must supply grams and
// minutes. A missing alpha becomes 0 and the hop contributes nothing.
func HopAdditions(hops []recipe.Hop) []HopAddition {
	out := make([]HopAddition, 0, len(hops))
	for _, hop := range hops {
		addition := HopAddition{
			Use:         hop.Use,
			AmountGrams: hop.Amount.Value,
			TimeMinutes: hop.Time.Value,
		}
		if hop.Alpha != nil {
			addition.AlphaPercent = hop.Alpha.Value
		}
		out = append(out, addition)
	}
	return out
}

// TinsethIBU estimates bitterness with the Tinseth utilization model.
//
// Only boil additions contribute: Tinseth models isomerization during the
// boil, so dry hop, whirlpool, aroma, and first wort additions are filtered
// out on purpose. The total is rounded to one decimal. The result is
// undefined when boilVolumeL <= 0, og <= 0, or hops is empty.
func TinsethIBU(hops []HopAddition, og, boilVolumeL float64) (float64, bool) {
	if len(hops) == 0 || !finite(og) || !finite(boilVolumeL) || og <= 0 || boilVolumeL <= 0 {
		return 0, false
	}

	bigness := 1.65 * math.Pow(0.000125, og-1)
	total := 0.0
	for _, hop := range hops {
		if hop.Use != recipe.HopUseBoil {
			continue
		}
		if hop.AmountGrams <= 0 || hop.AlphaPercent <= 0 || hop.TimeMinutes <= 0 {
			continue
		}
		boilTimeFactor := (1 - math.Exp(-0.04*hop.TimeMinutes)) / 4.15
		utilization := bigness * boilTimeFactor
		mgAlphaAcidsPerLiter := (hop.AlphaPercent / 100 * hop.AmountGrams * 1000) / boilVolumeL
		total += utilization * mgAlphaAcidsPerLiter
	}
	return roundTo(total, 1), true
}
