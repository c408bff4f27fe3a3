// Package index maintains a rebuildable summary table of recipes for search.
//
// Documents in storage stay authoritative; the index holds one row per recipe
// with the fields listings need (name, style, stats, color hex) so searches
// avoid decoding every document. SQLite (modernc.org/sqlite) is the default
// engine and Postgres (pgx) is available for shared deployments. Index
// implements catalog.Invalidator so saves and deletes keep it current.
package index
