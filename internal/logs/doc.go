// Package logs reads the brewbook log file for `brewbook logs` and the
// server's /api/logs endpoint.
//
// Reads are offset based: a negative offset returns the last N lines and the
// offset of the end of the file, which callers pass back to receive only new
// lines. Follow mode polls until a line arrives, the wait elapses or the
// context ends.
package logs
