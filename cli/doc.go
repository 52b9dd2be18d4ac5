// Package cli contains the command line interface for gwbasic.
//
// # Usage
//
// Running the binary with program files runs them; run is the default
// command:
//
//	gwbasic hello.bas
//	gwbasic run --seed=1 --trace hello.bas
//	gwbasic repl hello.bas
//	gwbasic fmt json hello.bas
//
// # Configuration
//
// Flag defaults are read from config.json and config.yaml in the user
// configuration directory (see [pkg.ConfigDir]). The YAML file keeps its
// values under a top-level gwbasic key, and nested keys are joined with
// hyphens:
//
//	gwbasic:
//	  log:
//	    level: debug
//	  max-depth: 512
//
// gwbasic init writes such a file from the current flag values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --[no-]log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize output on a terminal
//
// TRON output is logged at trace level in addition to being printed.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o gwbasic .
//
// Then:
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: the pprof
//     directory under [pkg.CacheDir])
package cli
