// Package recipe defines the normalized in-memory recipe model shared by the
// decoder, encoder, calculators, and HTTP layer.
//
// Quantities are carried as ValueUnit pairs. Units are preserved verbatim and
// never converted; callers that combine quantities own unit consistency. An
// absent optional quantity is a nil *ValueUnit, which keeps "not provided"
// distinct from a measured zero.
//
// A Recipe owns its child collections exclusively. It is rebuilt from its
// backing document on every read and replaced wholesale on save.
package recipe
