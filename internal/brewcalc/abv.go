package brewcalc

import "strconv"

// abvFactor converts a gravity drop into percent alcohol by volume.
const abvFactor = 131.25

// ABV returns (og-fg)*131.25 formatted to two decimals. It is defined only
// when og > fg > 0.
func ABV(og, fg float64) (string, bool) {
	if !finite(og) || !finite(fg) || fg <= 0 || og <= fg {
		return "", false
	}
	return strconv.FormatFloat((og-fg)*abvFactor, 'f', 2, 64), true
}

// ABVFromPointers is ABV for optional stats.
func ABVFromPointers(og, fg *float64) (string, bool) {
	if og == nil || fg == nil {
		return "", false
	}
	return ABV(*og, *fg)
}
