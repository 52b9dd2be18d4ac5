package lang

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"kind only", ErrSyntax, "Syntax error"},
		{"with detail", ErrType.Errorf("Cannot convert %q", "x"), `Type error: Cannot convert "x"`},
		{"wrapped", ErrIO.Wrap(io.ErrUnexpectedEOF), "I/O error: unexpected EOF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	err := ErrRuntime.Errorf("boom").With(slog.Int("line", 10))

	if !errors.Is(err, ErrRuntime) {
		t.Error("expected derived error to match its kind")
	}

	if errors.Is(err, ErrSyntax) {
		t.Error("expected derived error not to match another kind")
	}

	if err.Kind() != ErrRuntime {
		t.Errorf("expected kind ErrRuntime, got %v", err.Kind())
	}

	if err.Detail() != "boom" {
		t.Errorf("expected detail boom, got %q", err.Detail())
	}
}

func TestError_WrapError(t *testing.T) {
	orig := ErrType.Errorf("x")
	if got := WrapError(orig); got != orig {
		t.Errorf("expected *Error to be returned as-is")
	}

	got := WrapError(io.EOF)
	if !errors.Is(got, ErrRuntime) || !errors.Is(got, io.EOF) {
		t.Errorf("expected runtime error wrapping io.EOF, got %v", got)
	}
}

func TestError_With(t *testing.T) {
	base := ErrIO.Errorf("x")
	a := base.With(slog.String("a", "1"))
	b := a.With(slog.String("b", "2"))

	if len(base.Attrs()) != 0 || len(a.Attrs()) != 1 || len(b.Attrs()) != 2 {
		t.Errorf("expected With to copy attributes, got %d/%d/%d",
			len(base.Attrs()), len(a.Attrs()), len(b.Attrs()))
	}
}

func TestError_WithLine(t *testing.T) {
	err := withLine(ErrRuntime.Errorf("x"), 20)
	err = withLine(err, 30)

	var ee *Error
	if !errors.As(err, &ee) {
		t.Fatalf("expected *Error, got %T", err)
	}

	var lines []int64
	for _, a := range ee.Attrs() {
		if a.Key == "line" {
			lines = append(lines, a.Value.Int64())
		}
	}

	if len(lines) != 1 || lines[0] != 20 {
		t.Errorf("expected the first line to stick, got %v", lines)
	}

	if got := withLine(io.EOF, 10); got != io.EOF {
		t.Errorf("expected foreign errors to pass through, got %v", got)
	}
}

func TestError_LogValue(t *testing.T) {
	v := ErrDivisionByZero.Errorf("in MOD").With(slog.Int("line", 5)).LogValue()

	if v.Kind() != slog.KindGroup {
		t.Fatalf("expected group value, got %s", v.Kind())
	}

	keys := map[string]bool{}
	for _, a := range v.Group() {
		keys[a.Key] = true
	}

	for _, k := range []string{"error", "cause", "line"} {
		if !keys[k] {
			t.Errorf("expected key %q in %v", k, keys)
		}
	}
}
