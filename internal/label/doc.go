// Package label builds printable bottle labels from recipes.
//
// A Summary condenses a recipe to the handful of values that fit on a label:
// name, bitterness, color, strength and a short ingredient line. RenderSVG
// turns a Summary into a standalone SVG document.
package label
