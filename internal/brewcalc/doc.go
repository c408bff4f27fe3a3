// Package brewcalc holds the derived brewing metrics: alcohol by volume,
// Tinseth bitterness, and hydrometer temperature correction.
//
// Every function is pure. Inputs that cannot produce a meaningful number
// return ok=false rather than zero or an error, so callers can render
// "unknown" distinctly from a computed 0.
package brewcalc
