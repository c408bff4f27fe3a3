// Package server exposes the recipe catalog over a JSON HTTP API.
//
// Routes cover recipe CRUD, interchange export and import, brewing
// calculators, SRM color lookup, printable labels, similar recipes, the log
// tail, status and Prometheus metrics. A bearer token guards every /api route when configured, and a
// lock file keeps a single server per data directory.
package server
