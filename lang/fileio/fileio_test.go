package fileio

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/ardnew/gwbasic/lang"
)

func TestManager_WriteRead(t *testing.T) {
	fs := memfs.New()
	m := New(fs)

	if err := m.Open(1, "out.txt", lang.ModeOutput); err != nil {
		t.Fatalf("open: %v", err)
	}

	for _, line := range []string{"alpha", "beta"} {
		if err := m.WriteLine(1, line); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	if loc, _ := m.Loc(1); loc != 2 {
		t.Errorf("expected 2 records written, got %d", loc)
	}

	if size, _ := m.Lof(1); size != int64(len("alpha\nbeta\n")) {
		t.Errorf("expected size %d, got %d", len("alpha\nbeta\n"), size)
	}

	if err := m.Close(1); err != nil {
		t.Fatalf("close: %v", err)
	}

	if err := m.Open(1, "out.txt", lang.ModeInput); err != nil {
		t.Fatalf("open: %v", err)
	}

	var got []string

	for {
		eof, err := m.EOF(1)
		if err != nil {
			t.Fatalf("eof: %v", err)
		}

		if eof {
			break
		}

		line, err := m.ReadLine(1)
		if err != nil {
			t.Fatalf("read: %v", err)
		}

		got = append(got, line)
	}

	if strings.Join(got, ",") != "alpha,beta" {
		t.Errorf("expected alpha,beta, got %v", got)
	}

	if _, err := m.ReadLine(1); !errors.Is(err, lang.ErrIO) || !strings.Contains(err.Error(), "Input past end") {
		t.Errorf("expected input past end, got %v", err)
	}
}

func TestManager_Append(t *testing.T) {
	fs := memfs.New()
	if err := util.WriteFile(fs, "log.txt", []byte("one\n"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	m := New(fs)

	if err := m.Open(3, "log.txt", lang.ModeAppend); err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := m.WriteLine(3, "two"); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := m.CloseAll(); err != nil {
		t.Fatalf("close all: %v", err)
	}

	data, err := util.ReadFile(fs, "log.txt")
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	if string(data) != "one\ntwo\n" {
		t.Errorf("expected appended content, got %q", data)
	}
}

func TestManager_Errors(t *testing.T) {
	fs := memfs.New()
	m := New(fs)

	if err := m.Open(1, "missing.txt", lang.ModeInput); !errors.Is(err, lang.ErrIO) ||
		!strings.Contains(err.Error(), "Cannot open file: missing.txt") {
		t.Errorf("expected open failure, got %v", err)
	}

	if err := m.Open(1, "a.txt", lang.ModeOutput); err != nil {
		t.Fatalf("open: %v", err)
	}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"already open", m.Open(1, "b.txt", lang.ModeOutput), "File #1 is already open"},
		{"read from output", func() error { _, err := m.ReadLine(1); return err }(), "not open for reading"},
		{"close unopened", m.Close(9), "File #9 is not open"},
		{"write unopened", m.WriteLine(9, "x"), "File #9 is not open"},
		{"loc unopened", func() error { _, err := m.Loc(9); return err }(), "File #9 is not open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, lang.ErrIO) || !strings.Contains(tt.err.Error(), tt.want) {
				t.Errorf("expected %q, got %v", tt.want, tt.err)
			}
		})
	}

	if eof, err := m.EOF(1); err != nil || !eof {
		t.Errorf("expected output file to report end, got %v (%v)", eof, err)
	}

	if err := m.Open(2, "a.txt", lang.ModeInput); err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := m.WriteLine(2, "x"); !errors.Is(err, lang.ErrIO) || !strings.Contains(err.Error(), "not open for writing") {
		t.Errorf("expected write to input file to fail, got %v", err)
	}
}

func TestManager_Numbers(t *testing.T) {
	m := New(memfs.New())

	for _, n := range []int{3, 1, 2} {
		if err := m.Open(n, "f", lang.ModeRandom); err != nil {
			t.Fatalf("open %d: %v", n, err)
		}
	}

	if got := m.Numbers(); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("expected [1 2 3], got %v", got)
	}

	if err := m.CloseAll(); err != nil {
		t.Fatalf("close all: %v", err)
	}

	if len(m.Numbers()) != 0 {
		t.Errorf("expected no open files, got %v", m.Numbers())
	}
}

func TestSession(t *testing.T) {
	fs := memfs.New()
	if err := util.WriteFile(fs, "in.txt", []byte("3\n4\n"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	var out bytes.Buffer

	s := lang.New(lang.WithFiles(New(fs)), lang.WithOutput(&out))

	err := s.LoadString(t.Context(), `10 OPEN "in.txt" FOR INPUT AS #1
20 OPEN "O", #2, "sum.txt"
30 WHILE NOT EOF(1): INPUT #1, N: T = T + N: WEND
40 PRINT #2, "total"; T
50 PRINT LOC(1); LOF(1)
60 CLOSE
T = 0`)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := s.Run(t.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if out.String() != "2 4\n" {
		t.Errorf("expected LOC and LOF 2 4, got %q", out.String())
	}

	data, err := util.ReadFile(fs, "sum.txt")
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	if string(data) != "total 7\n" {
		t.Errorf("expected total 7, got %q", data)
	}
}
