// Package api defines the transport payloads shared by the HTTP server and
// the CLI's JSON output.
//
// Calculator payloads use pointer fields so an undefined result encodes as
// null rather than 0.
package api
