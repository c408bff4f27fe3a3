// Command brewbook manages a catalog of beer recipes stored as XML
// interchange documents.
//
// Subcommands list, show, import, export and delete recipes, run the brewing
// calculators, render printable labels, rank similar recipes, maintain the
// search index, and start the HTTP API server. `doctor` checks the
// environment and `logs` tails the log file. Every command reads the same
// TOML configuration as the server, so the CLI and a running server share
// one catalog.
package main
