package repl

import (
	"slices"
	"testing"

	"github.com/ardnew/gwbasic/lang"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "PRI", 3, "PRI", 0, 3},
		{"after space", "10 PRI", 6, "PRI", 3, 6},
		{"after paren", "PRINT LEN(A", 11, "A", 10, 11},
		{"after comma", "MID$(A$, ST", 11, "ST", 9, 11},
		{"after colon", "A=1:PR", 6, "PR", 4, 6},
		{"after semicolon", "PRINT A;B", 9, "B", 8, 9},
		{"after operator", "X=Y^ZZ", 6, "ZZ", 4, 6},
		{"empty at boundary", "PRINT ", 6, "", 6, 6},
		{"mid word", "PRINT", 2, "PRINT", 0, 5},
		{"at start", "GOTO", 0, "GOTO", 0, 4},
		{"cursor past end", "RUN", 10, "RUN", 0, 3},
		// Type sigils belong to the identifier.
		{"string sigil", "A$", 2, "A$", 0, 2},
		{"integer sigil", "X=I%", 4, "I%", 2, 4},
		{"function sigil", "PRINT CHR$", 10, "CHR$", 6, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestInString(t *testing.T) {
	tests := []struct {
		input  string
		offset int
		want   bool
	}{
		{`PRINT "HEL`, 7, true},
		{`PRINT "HI"; A`, 12, false},
		{`10 REM PRI`, 7, true},
		{`10 ' PRI`, 5, true},
		{`10 REMARK`, 3, false},
		{`PRINT "'" + A`, 12, false},
	}

	for _, tt := range tests {
		if got := inString(tt.input, tt.offset); got != tt.want {
			t.Errorf("inString(%q, %d) = %v, want %v", tt.input, tt.offset, got, tt.want)
		}
	}
}

func TestBasicCandidates(t *testing.T) {
	sess := lang.New()
	sess.SetVar("TOTAL", lang.IntegerValue(1))

	names := basicCandidates(sess)

	for _, want := range []string{"PRINT", "GOSUB", "MID$", "TOTAL"} {
		if !slices.Contains(names, want) {
			t.Errorf("candidates missing %q", want)
		}
	}

	if !slices.IsSorted(names) {
		t.Error("candidates should be sorted")
	}
}

func TestComputeMatches(t *testing.T) {
	tests := []struct {
		name  string
		mode  inputMode
		input string
		want  string // best match, or "" for none
	}{
		{"keyword", modeBasic, "GOS", "GOSUB"},
		{"lower case", modeBasic, "10 gosu", "GOSUB"},
		{"function", modeBasic, "PRINT LEF", "LEFT$"},
		{"line number", modeBasic, "10", ""},
		{"inside string", modeBasic, `PRINT "GOS`, ""},
		{"empty word", modeBasic, "PRINT ", ""},
		{"command", modeCtrl, "qu", "quit"},
		{"command no keywords", modeCtrl, "GOS", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel(t)
			if tt.mode == modeCtrl {
				m = m.switchToMode(modeCtrl)
			}

			m.input.SetValue(tt.input)
			m.input.SetCursor(len(tt.input))

			matches, _, _ := m.computeMatches()

			switch {
			case tt.want == "" && len(matches) > 0:
				t.Errorf("expected no matches, got %q first", matches[0].Str)
			case tt.want != "" && len(matches) == 0:
				t.Errorf("expected %q, got no matches", tt.want)
			case tt.want != "" && matches[0].Str != tt.want:
				t.Errorf("best match = %q, want %q", matches[0].Str, tt.want)
			}
		})
	}
}

func TestRenderCandidateBar(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("LE")
	m.input.SetCursor(2)

	matches, _, _ := m.computeMatches()
	if len(matches) < 2 {
		t.Fatalf("expected several matches for LE, got %d", len(matches))
	}

	if bar := renderCandidateBar(matches, m.sess.Registry(), -1, false, 200); bar == "" {
		t.Error("expected a candidate bar")
	}

	if bar := renderCandidateBar(matches, m.sess.Registry(), -1, false, 0); bar != "" {
		t.Errorf("zero width should render nothing, got %q", bar)
	}
}
