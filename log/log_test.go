package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

type groupValue struct{}

func (groupValue) LogValue() slog.Value {
	return slog.GroupValue(slog.String("error", "Syntax error"), slog.Int("line", 20))
}

func TestLogger_Make_Defaults(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf)

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Errorf("expected defaults, got %v %v", l.Level(), l.Format())
	}

	if l.caller != DefaultCaller || l.pretty != DefaultPretty {
		t.Errorf("expected default flags, got %+v", l.config)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name   string
		logFn  func(Logger, string, ...slog.Attr)
		min    Level
		logged bool
	}{
		{"trace at trace", Logger.Trace, LevelTrace, true},
		{"trace at debug", Logger.Trace, LevelDebug, false},
		{"debug at info", Logger.Debug, LevelInfo, false},
		{"info at info", Logger.Info, LevelInfo, true},
		{"warn at error", Logger.Warn, LevelError, false},
		{"error at debug", Logger.Error, LevelDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.logFn(Make(&buf, WithLevel(tt.min)), "message")

			if logged := buf.Len() > 0; logged != tt.logged {
				t.Errorf("expected logged=%v, got %q", tt.logged, buf.String())
			}
		})
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatJSON), WithPretty(false), WithLevel(LevelTrace))
	l.With(slog.String("component", "exec")).TraceContext(t.Context(), "trace", slog.Int("line", 30))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, buf.String())
	}

	want := map[string]any{
		"level":     "TRACE",
		"msg":       "trace",
		"component": "exec",
		"line":      float64(30),
	}

	for k, v := range want {
		if entry[k] != v {
			t.Errorf("expected %s=%v, got %v", k, v, entry[k])
		}
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithCaller(true), WithFormat(FormatText), WithPretty(false)).Info("here")

	if !strings.Contains(buf.String(), "log_test.go:") {
		t.Errorf("expected caller to be this file, got %q", buf.String())
	}

	buf.Reset()
	Make(&buf, WithFormat(FormatText), WithPretty(false)).Info("here")

	if strings.Contains(buf.String(), "source=") {
		t.Errorf("expected no caller, got %q", buf.String())
	}
}

func TestLogger_Wrap(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithFormat(FormatText), WithPretty(false), WithTimeLayout("none"))
	debug := base.Wrap(WithLevel(LevelDebug))

	base.Debug("hidden")
	debug.Debug("shown")

	if got := buf.String(); got != "level=DEBUG msg=shown\n" {
		t.Errorf("unexpected output %q", got)
	}

	if base.Level() != LevelInfo || debug.Level() != LevelDebug {
		t.Errorf("Wrap must not modify the receiver: %v %v", base.Level(), debug.Level())
	}

	var zero Logger

	if w := zero.Wrap(WithOutput(&buf)); w.Logger == nil {
		t.Error("expected Wrap of the zero logger to build a working logger")
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var l Logger

	l.Trace("x")
	l.Debug("x")
	l.InfoContext(t.Context(), "x")
	l.Warn("x")
	l.Error("x")

	if l.With(slog.String("k", "v")).Logger != nil {
		t.Error("expected With on the zero logger to stay a no-op")
	}

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Error("expected zero logger to report defaults")
	}
}

func TestLogger_PrettyText(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatText), WithTimeLayout("none"))
	l = l.With(slog.String("phase", "run"))
	l.Warn("stopped",
		slog.String("reason", "two words"),
		slog.Bool("ok", false),
		slog.Any("err", groupValue{}),
		slog.Any("cause", errors.New("boom")),
	)

	want := "level=WARN msg=stopped phase=run reason=two words ok=false " +
		"err.error=Syntax error err.line=20 cause=boom\n"
	if got := buf.String(); got != want {
		t.Errorf("expected\n%q\ngot\n%q", want, got)
	}
}

func TestLogger_PrettyJSON(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatJSON), WithTimeLayout("none"))
	l.Info("loaded", slog.Int("lines", 3), slog.Any("err", groupValue{}))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected pretty JSON to stay valid JSON: %v\n%s", err, buf.String())
	}

	if entry["msg"] != "loaded" || entry["lines"] != float64(3) || entry["err.line"] != float64(20) {
		t.Errorf("unexpected entry %v", entry)
	}

	if !strings.Contains(buf.String(), "\n  \"msg\": ") {
		t.Errorf("expected indented output, got %s", buf.String())
	}
}

func TestLogger_PrettyGroup(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatText), WithTimeLayout("none"))
	g := slog.New(l.Handler().WithGroup("file")).With(slog.Int("n", 1))
	g.Info("open", slog.String("mode", "I"))

	if got := buf.String(); got != "level=INFO msg=open file.n=1 file.mode=I\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatText))

	var wg sync.WaitGroup

	for i := range 50 {
		wg.Go(func() {
			l.Info("concurrent", slog.Int("id", i))
		})
	}

	wg.Wait()

	if lines := strings.Count(buf.String(), "\n"); lines != 50 {
		t.Errorf("expected 50 lines, got %d", lines)
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	var buf bytes.Buffer

	l := Make(&buf, WithPretty(false))

	for b.Loop() {
		l.Info("benchmark", slog.Int("line", 10))
	}
}

func BenchmarkLogger_InfoPretty(b *testing.B) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatText))

	for b.Loop() {
		l.Info("benchmark", slog.Int("line", 10))
	}
}
