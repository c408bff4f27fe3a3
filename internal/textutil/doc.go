// Package textutil provides text normalization helpers for identifiers and
// file names.
//
// The primary use cases are:
//   - Deriving URL- and filesystem-safe recipe slugs from display names
//   - Sanitizing download file names for exported documents and labels
//   - Term fingerprints for ranking recipes by shared ingredients
//
// Slugs fold accents through Unicode decomposition so "Märzen" and "Marzen"
// map to the same identifier.
package textutil
