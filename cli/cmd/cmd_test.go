package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/gwbasic/lang"
)

func writeProgram(t *testing.T, dir, name, text string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestOpenSources(t *testing.T) {
	dir := t.TempDir()
	a := writeProgram(t, dir, "a.bas", "10 PRINT 1\n")
	b := writeProgram(t, dir, "b.bas", "20 PRINT 2\n")

	link := filepath.Join(dir, "link.bas")
	if err := os.Symlink(a, link); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		paths     []string
		want      string
		wantStdin bool
	}{
		{"none reads stdin", nil, "30 PRINT 3\n", true},
		{"single file", []string{a}, "10 PRINT 1\n", false},
		{"in order", []string{b, a}, "20 PRINT 2\n10 PRINT 1\n", false},
		{"duplicate skipped", []string{a, a}, "10 PRINT 1\n", false},
		{"symlink skipped", []string{a, link}, "10 PRINT 1\n", false},
		{"stdin last", []string{"-", a}, "10 PRINT 1\n30 PRINT 3\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := OpenSources(tt.paths, strings.NewReader("30 PRINT 3\n"))
			if err != nil {
				t.Fatalf("OpenSources() error = %v", err)
			}
			defer src.Close()

			if src.UsesStdin() != tt.wantStdin {
				t.Errorf("UsesStdin() = %v, want %v", src.UsesStdin(), tt.wantStdin)
			}

			data, err := io.ReadAll(src.Reader())
			if err != nil {
				t.Fatal(err)
			}

			if string(data) != tt.want {
				t.Errorf("Reader() = %q, want %q", data, tt.want)
			}
		})
	}
}

func TestOpenSources_Missing(t *testing.T) {
	_, err := OpenSources([]string{filepath.Join(t.TempDir(), "nope.bas")}, nil)
	if !errors.Is(err, ErrOpenSource) {
		t.Fatalf("OpenSources() error = %v, want ErrOpenSource", err)
	}

	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("OpenSources() error = %v, want it to wrap os.ErrNotExist", err)
	}
}

func TestSources_Load(t *testing.T) {
	dir := t.TempDir()
	path := writeProgram(t, dir, "hello.bas", "10 PRINT \"HELLO\"\n20 END\n")

	src, err := OpenSources([]string{path}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	var out bytes.Buffer

	sess := lang.New(lang.WithOutput(&out))
	if err := src.Load(context.Background(), sess); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := sess.Lines(); len(got) != 2 || got[0] != 10 || got[1] != 20 {
		t.Errorf("Lines() = %v, want [10 20]", got)
	}
}

func TestStreamsFrom(t *testing.T) {
	s := streamsFrom(context.Background())
	if s.In != os.Stdin || s.Out != os.Stdout || s.Err != os.Stderr {
		t.Error("streamsFrom() without streams should return the process streams")
	}

	var out bytes.Buffer

	s = streamsFrom(WithStreams(context.Background(), Streams{Out: &out}))
	if s.Out != &out {
		t.Error("streamsFrom() should return the configured output")
	}

	if s.In != os.Stdin {
		t.Error("streamsFrom() should default a nil input to stdin")
	}
}

func TestError(t *testing.T) {
	cause := errors.New("boom")
	err := ErrRunProgram.With(sourceAttr("a.bas")).Wrap(cause)

	if got, want := err.Error(), "run program: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if !errors.Is(err, ErrRunProgram) || !errors.Is(err, cause) {
		t.Error("errors.Is should match both the sentinel and the cause")
	}

	if errors.Is(err, ErrLoadProgram) {
		t.Error("errors.Is should not match a different sentinel")
	}

	attrs := err.LogValue().Group()
	if len(attrs) != 3 || attrs[2].Key != "source" {
		t.Errorf("LogValue() = %v, want error, cause, and source", attrs)
	}
}
