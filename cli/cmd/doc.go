// Package cmd implements the gwbasic subcommands: run, repl, fmt, and init.
//
// Commands receive their [context.Context] from kong. The parsed
// [kong.Context] and the process [Streams] travel in it, which lets tests
// drive a command against buffers without a terminal.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"

	// ConfigSection is the top-level key of the configuration file whose
	// entries supply flag defaults.
	ConfigSection = "gwbasic"

	// MaxDepthIdentifier is the kong variable identifier containing the
	// default GOSUB and FOR nesting limit.
	MaxDepthIdentifier = "maxDepth"
)
