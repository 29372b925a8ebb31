// Package cli implements the soccer-cal command-line interface.
//
// It wires the configured schedule source into the processing pipeline and
// exposes fetch (print upcoming games), download (write .ics files), and
// serve (HTTP API) commands.
package cli
