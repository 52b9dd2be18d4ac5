// Package log is the structured logger shared by the interpreter and its
// command line front end. It is a thin layer over [log/slog] that adds a
// trace level, value-typed configuration, and a terminal-friendly handler.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("program loaded", slog.Int("lines", 42))
//
// The zero [Logger] discards everything, so a component may hold one without
// checking whether a caller configured it.
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("Kitchen"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a logger with further options applied. The package
// level functions ([Info], [DebugContext], ...) use a default logger that
// [Config] reconfigures in place.
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug]. The interpreter logs each executed
// line at trace level while TRON is active, which is far too chatty for
// ordinary debugging.
//
// # Pretty Output
//
// With [WithPretty] enabled (the default) records are styled with lipgloss.
// Text records are unquoted key=value lines and JSON records are indented.
// Colors are used only when the output is a terminal. Structured values such
// as interpreter errors are flattened into dotted keys.
package log
