// Package preflight runs environment checks before brewbook is used: data
// directories, the recipe store, the summary index, the color table and a
// running API server.
package preflight
