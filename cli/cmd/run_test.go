package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/gwbasic/lang"
)

func runProgram(t *testing.T, r *Run, program, input string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	if r.DataDir == "" {
		r.DataDir = dir
	}

	if r.MaxDepth == 0 {
		r.MaxDepth = lang.DefaultMaxDepth
	}

	if r.Sources == nil {
		r.Sources = []string{writeProgram(t, dir, "prog.bas", program)}
	}

	var out bytes.Buffer

	ctx := WithStreams(context.Background(), Streams{
		In:  strings.NewReader(input),
		Out: &out,
		Err: &out,
	})

	err := r.Run(ctx)

	return out.String(), err
}

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		run     Run
		program string
		input   string
		want    string
	}{
		{
			name:    "print",
			run:     Run{Seed: -1},
			program: "10 PRINT \"HI\"\n20 END\n",
			want:    "HI\n",
		},
		{
			name:    "input from stdin",
			run:     Run{Seed: -1},
			program: "10 INPUT A$\n20 PRINT A$\n",
			input:   "hello\n",
			want:    "? hello\n",
		},
		{
			name:    "stop when",
			run:     Run{Seed: -1, StopWhen: "I >= 3"},
			program: "10 I = 0\n20 I = I + 1\n30 PRINT I\n40 GOTO 20\n",
			want:    "1\n2\n",
		},
		{
			name:    "stop when on line",
			run:     Run{Seed: -1, StopWhen: "line == 30"},
			program: "10 PRINT 1\n20 PRINT 2\n30 PRINT 3\n",
			want:    "1\n2\n",
		},
		{
			name:    "trace",
			run:     Run{Seed: -1, Trace: true},
			program: "10 PRINT 1\n20 PRINT 2\n",
			want:    "[10]1\n[20]2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runProgram(t, &tt.run, tt.program, tt.input)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("Run() output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRun_Seed(t *testing.T) {
	const program = "10 PRINT RND(1); RND(1)\n"

	first, err := runProgram(t, &Run{Seed: 7}, program, "")
	if err != nil {
		t.Fatal(err)
	}

	second, err := runProgram(t, &Run{Seed: 7}, program, "")
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Errorf("same seed gave %q and %q", first, second)
	}
}

func TestRun_StdinSource(t *testing.T) {
	got, err := runProgram(t, &Run{Seed: -1, Sources: []string{}}, "", "10 PRINT 5\n")
	if err != nil {
		t.Fatal(err)
	}

	if got != "5\n" {
		t.Errorf("Run() output = %q, want %q", got, "5\n")
	}
}

func TestRun_DataDir(t *testing.T) {
	dir := t.TempDir()

	const program = "10 OPEN \"out.txt\" FOR OUTPUT AS #1\n" +
		"20 PRINT #1, \"SAVED\"\n" +
		"30 CLOSE #1\n"

	if _, err := runProgram(t, &Run{Seed: -1, DataDir: dir}, program, ""); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "SAVED\n" {
		t.Errorf("file contents = %q, want %q", data, "SAVED\n")
	}
}

func TestRun_ScreenDump(t *testing.T) {
	got, err := runProgram(t, &Run{Seed: -1, ScreenDump: true}, "10 PSET (0, 0)\n", "")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(got, "#") {
		t.Errorf("screen dump should start with the plotted point, got %q", got)
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name     string
		run      Run
		program  string
		sentinel error
		cause    error
	}{
		{"runtime", Run{Seed: -1}, "10 PRINT 1/0\n", ErrRunProgram, lang.ErrDivisionByZero},
		{"syntax", Run{Seed: -1}, "10 PRINT (\n", ErrLoadProgram, lang.ErrSyntax},
		{"bad stop expression", Run{Seed: -1, StopWhen: "I >="}, "10 END\n", ErrStopWhen, nil},
		{"missing file", Run{Seed: -1, Sources: []string{"/nonexistent/prog.bas"}}, "", ErrOpenSource, os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runProgram(t, &tt.run, tt.program, "")
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("Run() error = %v, want %v", err, tt.sentinel)
			}

			if tt.cause != nil && !errors.Is(err, tt.cause) {
				t.Errorf("Run() error = %v, want cause %v", err, tt.cause)
			}
		})
	}
}
