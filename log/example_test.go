package log_test

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ardnew/gwbasic/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Info("program loaded", slog.Int("lines", 42))
	logger.Debug("not shown at the default level")
	// Output:
	// level=INFO msg="program loaded" lines=42
}

func Example_trace() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger = logger.With(slog.String("mode", "run"))
	logger.Trace("trace", slog.Int("line", 20))
	// Output:
	// level=TRACE msg=trace mode=run line=20
}

func ExampleParseLevel() {
	for _, s := range []string{"trace", "WARN", "info+2"} {
		fmt.Println(log.ParseLevel(s))
	}
	// Output:
	// trace
	// warn
	// info+2
}
