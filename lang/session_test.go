package lang

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/ardnew/gwbasic/log"
)

// runProgram loads src into a fresh session, runs it, and returns the output.
func runProgram(t *testing.T, src string, opts ...Option) (string, error) {
	t.Helper()

	var out bytes.Buffer

	s := New(append([]Option{WithOutput(&out), WithSeed(1)}, opts...)...)

	if err := s.LoadString(t.Context(), src); err != nil {
		return out.String(), err
	}

	err := s.Run(t.Context())

	return out.String(), err
}

func TestSession_Programs(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "sum",
			src:  "10 LET A=2\n20 LET B=3\n30 PRINT A+B",
			want: "5\n",
		},
		{
			name: "for counts up and leaves the variable past the end",
			src:  "10 FOR I=1 TO 5\n20 PRINT I\n30 NEXT\n40 PRINT I",
			want: "1\n2\n3\n4\n5\n6\n",
		},
		{
			name: "mod of the smallest integer by minus one",
			src:  "10 PRINT -2147483648 MOD -1",
			want: "0\n",
		},
		{
			name: "for counts down",
			src:  "10 FOR I=5 TO 1 STEP -1: PRINT I: NEXT I",
			want: "5\n4\n3\n2\n1\n",
		},
		{
			name: "for body runs at least once",
			src:  "10 FOR I=5 TO 1: PRINT I: NEXT",
			want: "5\n",
		},
		{
			name: "nested for",
			src:  "10 FOR I=1 TO 2\n20 FOR J=1 TO 2\n30 PRINT I*10+J\n40 NEXT J\n50 NEXT I",
			want: "11\n12\n21\n22\n",
		},
		{
			name: "next with several names",
			src:  "10 FOR I=1 TO 2: FOR J=1 TO 3: NEXT J, I: PRINT I; J",
			want: "3 4\n",
		},
		{
			name: "goto backward",
			src:  "10 I=0\n20 I=I+1\n30 IF I<3 THEN 20\n40 PRINT I",
			want: "3\n",
		},
		{
			name: "goto forward",
			src:  "10 GOTO 30\n20 PRINT \"skipped\"\n30 PRINT \"here\"",
			want: "here\n",
		},
		{
			name: "gosub",
			src:  "10 GOSUB 100\n20 PRINT \"back\"\n30 END\n100 PRINT \"sub\"\n110 RETURN",
			want: "sub\nback\n",
		},
		{
			name: "gosub resumes mid-line",
			src:  "10 GOSUB 100: PRINT 2\n20 END\n100 PRINT 1: RETURN",
			want: "1\n2\n",
		},
		{
			name: "while",
			src:  "10 I=0\n20 WHILE I<3: I=I+1: PRINT I: WEND: PRINT \"done\"",
			want: "1\n2\n3\ndone\n",
		},
		{
			name: "while false skips body",
			src:  "10 WHILE 0: PRINT 1: WEND: PRINT 2",
			want: "2\n",
		},
		{
			name: "if else",
			src:  "10 A=1\n20 IF A THEN PRINT \"yes\" ELSE PRINT \"no\"\n30 IF A-1 THEN PRINT \"yes\" ELSE PRINT \"no\"",
			want: "yes\nno\n",
		},
		{
			name: "if string truthiness",
			src:  "10 IF \"\" THEN PRINT 1\n20 IF \"x\" THEN PRINT 2",
			want: "2\n",
		},
		{
			name: "string concatenation",
			src:  "10 PRINT \"foo\" + \"bar\"\n20 PRINT \"foo\" + 3",
			want: "foobar\nfoo3\n",
		},
		{
			name: "print separators",
			src:  "10 PRINT 1; \"a\", 2",
			want: "1 a 2\n",
		},
		{
			name: "empty print",
			src:  "10 PRINT",
			want: "\n",
		},
		{
			name: "data and restore",
			src:  "10 DATA 1,2\n20 READ A\n30 RESTORE\n40 READ B\n50 PRINT A;B",
			want: "1 1\n",
		},
		{
			name: "restore to line",
			src:  "10 DATA 1\n20 DATA 2, \"x\"\n30 RESTORE 20\n40 READ A, B$\n50 PRINT A; B$",
			want: "2 x\n",
		},
		{
			name: "data after read",
			src:  "10 READ A$\n20 PRINT A$\n30 DATA hello",
			want: "HELLO\n",
		},
		{
			name: "swap",
			src:  "10 A=1: B=2: SWAP A,B: PRINT A;B",
			want: "2 1\n",
		},
		{
			name: "end stops cleanly",
			src:  "10 PRINT 1\n20 STOP\n30 PRINT 2",
			want: "1\n",
		},
		{
			name: "integer division and modulo",
			src:  "10 PRINT 7 \\ 2; 7.9 \\ 2; -7 MOD 3; 7 MOD 3",
			want: "3 3 -1 1\n",
		},
		{
			name: "division",
			src:  "10 PRINT 1/4",
			want: "0.25\n",
		},
		{
			name: "unary minus binds before power",
			src:  "10 PRINT -2^2",
			want: "4\n",
		},
		{
			name: "logical operators",
			src:  "10 PRINT 5 AND 3; 5 OR 3; 5 XOR 3; NOT 0; 0 IMP 0; 0 EQV 0",
			want: "1 7 6 -1 -1 -1\n",
		},
		{
			name: "comparisons",
			src:  "10 PRINT 1 = 1.0; \"A\" < \"B\"; \"B\" <= \"A\"; 2 <> 3",
			want: "-1 -1 0 -1\n",
		},
		{
			name: "builtins",
			src:  "10 PRINT LEFT$(\"HELLO\",2); RIGHT$(\"HELLO\",2); MID$(\"HELLO\",2,3)",
			want: "HE LO ELL\n",
		},
		{
			name: "lines run in numeric order",
			src:  "30 PRINT 3\n10 PRINT 1\n20 PRINT 2",
			want: "1\n2\n3\n",
		},
		{
			name: "replaced line",
			src:  "10 PRINT 1\n10 PRINT 3",
			want: "3\n",
		},
		{
			name: "deleted line",
			src:  "10 PRINT 1\n20 PRINT 2\n10",
			want: "2\n",
		},
		{
			name: "remarks",
			src:  "10 REM nothing: PRINT 1\n20 PRINT 2 ' trailing",
			want: "2\n",
		},
		{
			name: "trace",
			src:  "10 TRON\n20 PRINT 1\n30 TROFF\n40 PRINT 2",
			want: "[20]1\n[30]2\n",
		},
		{
			name: "type suffixes are distinct names",
			src:  "10 A%=1: A$=\"s\": PRINT A%; A$",
			want: "1 s\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runProgram(t, tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected output %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSession_Errors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		kind   *Error
		want   string
		output string
	}{
		{"division by zero", "10 PRINT 1/0", ErrDivisionByZero, "Division by zero", ""},
		{"integer division by zero", "10 PRINT 7 \\ 0", ErrDivisionByZero, "Division by zero", ""},
		{"modulo by zero", "10 PRINT 7 MOD 0", ErrDivisionByZero, "Division by zero", ""},
		{"undefined variable", "10 PRINT A", ErrUndefined, "Undefined: Variable A not defined", ""},
		{"next without for", "10 NEXT", ErrRuntime, "Runtime error: NEXT without FOR", ""},
		{"return without gosub", "10 RETURN", ErrRuntime, "RETURN without GOSUB", ""},
		{"next mismatch", "10 FOR I=1 TO 2\n20 NEXT J", ErrRuntime, "expected I, got J", ""},
		{"missing goto target", "10 GOTO 99", ErrLineNumber, "Line number error: Line 99 not found", ""},
		{"missing gosub target", "10 GOSUB 99", ErrLineNumber, "Line 99 not found", ""},
		{"missing restore target", "10 RESTORE 99", ErrLineNumber, "Line 99 not found", ""},
		{"out of data", "10 DATA 1,2,3\n20 READ A,B,C\n30 PRINT A;B;C\n40 READ D", ErrRuntime, "Out of DATA", "1 2 3\n"},
		{"swap undefined", "10 A=1: SWAP A,B", ErrUndefined, "Variable B not defined", ""},
		{"string comparison with number", "10 PRINT \"A\" < 1", ErrType, "Type error: ", ""},
		{"string arithmetic", "10 PRINT \"A\" * 2", ErrType, "Cannot convert", ""},
		{"unknown function", "10 PRINT FOO(1)", ErrUndefined, "Function FOO not defined", ""},
		{"arity", "10 PRINT LEN()", ErrRuntime, "LEN requires 1 argument(s)", ""},
		{"screen missing", "10 CLS", ErrIO, "no screen attached", ""},
		{"files missing", "10 CLOSE", ErrIO, "no file manager attached", ""},
		{"print to file without manager", "10 PRINT #1, X", ErrIO, "no file manager attached", ""},
		{"integer division overflow", "10 PRINT -2147483648 \\ -1", ErrType, "Overflow", ""},
		{"input past end", "10 INPUT A", ErrIO, "Input past end", "? "},
		{"gosub depth", "10 GOSUB 10", ErrOutOfMemory, "Out of memory", ""},
		{"for depth", "10 FOR A=1 TO 2: FOR B=1 TO 2: FOR C=1 TO 2: FOR D=1 TO 2: FOR E=1 TO 2", ErrOutOfMemory, "Out of memory", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runProgram(t, tt.src, WithMaxDepth(4))
			if err == nil {
				t.Fatal("expected error")
			}

			if !errors.Is(err, tt.kind) {
				t.Errorf("expected %v, got %v", tt.kind, err)
			}

			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %q", tt.want, err.Error())
			}

			if got != tt.output {
				t.Errorf("expected output %q, got %q", tt.output, got)
			}
		})
	}
}

func TestSession_ErrorLine(t *testing.T) {
	_, err := runProgram(t, "10 PRINT 1\n20 PRINT X")

	var ee *Error
	if !errors.As(err, &ee) {
		t.Fatalf("expected *Error, got %T", err)
	}

	line := int64(-1)
	for _, a := range ee.Attrs() {
		if a.Key == "line" {
			line = a.Value.Int64()
		}
	}

	if line != 20 {
		t.Errorf("expected error on line 20, got %d", line)
	}
}

func TestSession_Variables(t *testing.T) {
	s := New()

	if err := s.Exec(t.Context(), "LET A = 5"); err != nil {
		t.Fatalf("exec: %v", err)
	}

	if v, ok := s.Var("a"); !ok || v != IntegerValue(5) {
		t.Errorf("expected A = Integer 5, got %v (%v)", v, ok)
	}

	s.SetVar("b$", StringValue("x"))

	vars := s.Vars()
	if vars["B$"] != StringValue("x") {
		t.Errorf("expected B$ = x, got %v", vars["B$"])
	}

	vars["A"] = IntegerValue(0)
	if v, _ := s.Var("A"); v != IntegerValue(5) {
		t.Error("expected Vars to return a copy")
	}
}

func TestSession_Direct(t *testing.T) {
	var out bytes.Buffer

	s := New(WithOutput(&out))
	ctx := t.Context()

	for _, line := range []string{
		"20 PRINT A",
		"10 A = 1",
		"PRINT 1 + 1",
		"PRINT 3: END: PRINT 4",
	} {
		if err := s.Exec(ctx, line); err != nil {
			t.Fatalf("exec %q: %v", line, err)
		}
	}

	if want := "2\n3\n"; out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}

	if got := s.Lines(); !slices.Equal(got, []int{10, 20}) {
		t.Errorf("expected lines [10 20], got %v", got)
	}

	if s.CurrentLine() != -1 {
		t.Errorf("expected direct mode, got line %d", s.CurrentLine())
	}

	out.Reset()

	if err := s.Exec(ctx, "RUN"); err != nil {
		t.Fatalf("run: %v", err)
	}

	if err := s.Exec(ctx, "PRINT A"); err != nil {
		t.Fatalf("print: %v", err)
	}

	if want := "1\n1\n"; out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}

	if err := s.Exec(ctx, "CLEAR"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if err := s.Exec(ctx, "PRINT A"); !errors.Is(err, ErrUndefined) {
		t.Errorf("expected CLEAR to erase variables, got %v", err)
	}
}

func TestSession_RunStatementClearsVariables(t *testing.T) {
	var out bytes.Buffer

	s := New(WithOutput(&out))
	ctx := t.Context()

	if err := s.LoadString(ctx, "10 PRINT B\nB = 7"); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run kept variables, expected success: %v", err)
	}

	if err := s.Exec(ctx, "RUN"); !errors.Is(err, ErrUndefined) {
		t.Errorf("expected RUN to clear variables, got %v", err)
	}

	if out.String() != "7\n" {
		t.Errorf("expected 7, got %q", out.String())
	}
}

func TestSession_DirectGoto(t *testing.T) {
	var out bytes.Buffer

	s := New(WithOutput(&out))

	if err := s.LoadString(t.Context(), "10 PRINT 1\n20 PRINT 2\nGOTO 20"); err != nil {
		t.Fatalf("load: %v", err)
	}

	if out.String() != "2\n" {
		t.Errorf("expected 2, got %q", out.String())
	}
}

func TestSession_DirectData(t *testing.T) {
	var out bytes.Buffer

	s := New(WithOutput(&out))
	ctx := t.Context()

	for _, line := range []string{"DATA 4, 5", "READ A, B", "PRINT A + B"} {
		if err := s.Exec(ctx, line); err != nil {
			t.Fatalf("exec %q: %v", line, err)
		}
	}

	if out.String() != "9\n" {
		t.Errorf("expected 9, got %q", out.String())
	}
}

func TestSession_ListAndNew(t *testing.T) {
	var out bytes.Buffer

	s := New(WithOutput(&out))
	ctx := t.Context()

	if err := s.LoadString(ctx, "20 print   2\n10 print 1 :a=1"); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := s.Exec(ctx, "LIST"); err != nil {
		t.Fatalf("list: %v", err)
	}

	if want := "10 PRINT 1: A = 1\n20 PRINT 2\n"; out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}

	out.Reset()

	if err := s.Exec(ctx, "LIST 20-"); err != nil {
		t.Fatalf("list: %v", err)
	}

	if want := "20 PRINT 2\n"; out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}

	if stmts, ok := s.Line(10); !ok || len(stmts) != 2 {
		t.Errorf("expected line 10 with 2 statements, got %v", stmts)
	}

	if err := s.Exec(ctx, "NEW"); err != nil {
		t.Fatalf("new: %v", err)
	}

	if len(s.Lines()) != 0 {
		t.Errorf("expected empty program, got %v", s.Lines())
	}

	if _, ok := s.Var("A"); ok {
		t.Error("expected NEW to erase variables")
	}
}

func TestSession_Program(t *testing.T) {
	s := New()

	if err := s.LoadString(t.Context(), "20 END\n10 PRINT 1"); err != nil {
		t.Fatalf("load: %v", err)
	}

	var buf bytes.Buffer
	if err := s.Program().Format(t.Context(), &buf); err != nil {
		t.Fatalf("format: %v", err)
	}

	if want := "10 PRINT 1\n20 END\n"; buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestSession_Input(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		input string
		want  string
	}{
		{
			name:  "prompt and fields",
			src:   "10 INPUT \"N\"; N, S$\n20 PRINT N; S$; N + 1",
			input: "5, hello\n",
			want:  "N? 5 hello 6\n",
		},
		{
			name:  "continuation",
			src:   "10 INPUT A, B\n20 PRINT A + B",
			input: "1\n2\n",
			want:  "? ?? 3\n",
		},
		{
			name:  "no trailing newline",
			src:   "10 INPUT A$\n20 PRINT A$",
			input: "last",
			want:  "? last\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runProgram(t, tt.src, WithInput(strings.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSession_Screen(t *testing.T) {
	scr := new(fakeScreen)

	got, err := runProgram(t, `10 CLS: SCREEN 1: COLOR 4: COLOR , 2: LOCATE 3, 5
20 PSET (1, 2): LINE (0, 0)-(3, 3), 2: CIRCLE (5, 5), 2, 1
30 BEEP: SOUND 440, 1.5
40 PRINT CSRLIN; POS(0)`, WithScreen(scr))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"cls",
		"mode 1",
		"color 4 -1",
		"color -1 2",
		"locate 2 4",
		"pset 1 2 -1",
		"line 0 0 3 3 2",
		"circle 5 5 2 1",
		"beep",
		"sound 440 1.5",
	}

	if !slices.Equal(scr.calls, want) {
		t.Errorf("expected calls\n%q\ngot\n%q", want, scr.calls)
	}

	if got != "3 5\n" {
		t.Errorf("expected cursor 3 5, got %q", got)
	}
}

func TestSession_Files(t *testing.T) {
	files := newFakeFiles("7", "seven")

	got, err := runProgram(t, `10 OPEN "out.txt" FOR OUTPUT AS #1
20 PRINT #1, "a"; 2
30 CLOSE #1
40 OPEN "I", #2, "in.txt"
50 INPUT #2, N
60 INPUT #2, S$
70 PRINT N; S$; EOF(2)
80 CLOSE`, WithFiles(files))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"open 1 out.txt OUTPUT",
		"write 1 a 2",
		"close 1",
		"open 2 in.txt INPUT",
		"closeall",
	}

	if !slices.Equal(files.calls, want) {
		t.Errorf("expected calls\n%q\ngot\n%q", want, files.calls)
	}

	if got != "7 seven -1\n" {
		t.Errorf("expected output %q, got %q", "7 seven -1\n", got)
	}
}

func TestSession_FileErrorsPropagate(t *testing.T) {
	_, err := runProgram(t, `10 OPEN "a" FOR INPUT AS 1: OPEN "b" FOR INPUT AS 1`,
		WithFiles(newFakeFiles()))
	if !errors.Is(err, ErrIO) || !strings.Contains(err.Error(), "File #1 is already open") {
		t.Errorf("expected already-open error, got %v", err)
	}
}

func TestSession_Randomness(t *testing.T) {
	const src = "10 PRINT RND(1); RND(1); RND(0)"

	a, err := runProgram(t, src, WithSeed(99))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	b, err := runProgram(t, src, WithSeed(99))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if a != b {
		t.Errorf("expected equal seeds to print equal output, got %q and %q", a, b)
	}

	fields := strings.Fields(a)
	if len(fields) != 3 || fields[1] != fields[2] {
		t.Errorf("expected RND(0) to repeat the last value, got %q", a)
	}

	c, err := runProgram(t, "10 RANDOMIZE 5: PRINT RND", WithSeed(1))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	d, err := runProgram(t, "10 RANDOMIZE 5: PRINT RND", WithSeed(2))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if c != d {
		t.Errorf("expected RANDOMIZE to reseed, got %q and %q", c, d)
	}
}

func TestSession_Timer(t *testing.T) {
	clock := func() time.Time { return time.Date(2024, 5, 1, 0, 2, 3, 0, time.UTC) }

	got, err := runProgram(t, "10 PRINT TIMER", WithClock(clock))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if got != "123\n" {
		t.Errorf("expected 123, got %q", got)
	}
}

func TestSession_InterruptStops(t *testing.T) {
	count := 0

	stop := func(context.Context, *Session) (bool, error) {
		count++

		return count > 5, nil
	}

	if _, err := runProgram(t, "10 GOTO 10", WithInterrupt(stop)); err != nil {
		t.Errorf("expected a clean stop, got %v", err)
	}

	if count != 6 {
		t.Errorf("expected 6 checks, got %d", count)
	}
}

func TestSession_InterruptError(t *testing.T) {
	errHalt := errors.New("halt")

	fail := func(context.Context, *Session) (bool, error) { return false, errHalt }

	if _, err := runProgram(t, "10 PRINT 1", WithInterrupt(fail)); !errors.Is(err, errHalt) {
		t.Errorf("expected interrupt error, got %v", err)
	}
}

func TestSession_Cancel(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"goto loop", "10 I = I + 1: GOTO 10\nI = 0"},
		{"empty while body", "10 WHILE 1"},
		{"empty while body with wend", "10 WHILE 1: WEND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(t.Context())
			defer cancel()

			count := 0

			s := New(WithInterrupt(func(context.Context, *Session) (bool, error) {
				if count++; count == 3 {
					cancel()
				}

				return false, nil
			}))

			if err := s.LoadString(ctx, tt.src); err != nil {
				t.Fatalf("load: %v", err)
			}

			err := s.Run(ctx)
			if !errors.Is(err, ErrRuntime) || !errors.Is(err, context.Canceled) {
				t.Errorf("expected cancellation, got %v", err)
			}
		})
	}
}

func TestSession_DeadlineEmptyWhile(t *testing.T) {
	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	s := New()

	if err := s.LoadString(ctx, "10 WHILE 1: WEND"); err != nil {
		t.Fatalf("load: %v", err)
	}

	err := s.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestSession_InterruptStopsEmptyWhile(t *testing.T) {
	for _, src := range []string{"10 WHILE 1", "10 WHILE 1: WEND"} {
		t.Run(src, func(t *testing.T) {
			count := 0

			stop := func(context.Context, *Session) (bool, error) {
				count++

				return count > 5, nil
			}

			if _, err := runProgram(t, src, WithInterrupt(stop)); err != nil {
				t.Errorf("expected a clean stop, got %v", err)
			}

			if count != 6 {
				t.Errorf("expected 6 checks, got %d", count)
			}
		})
	}
}

func TestSession_WithTrace(t *testing.T) {
	got, err := runProgram(t, "10 PRINT 1\n20 PRINT 2", WithTrace(true))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if got != "[10]1\n[20]2\n" {
		t.Errorf("expected traced output, got %q", got)
	}
}

func TestSession_LoadSyntaxError(t *testing.T) {
	s := New()

	err := s.LoadString(t.Context(), "10 PRINT 1\n20 FOR")
	if !errors.Is(err, ErrSyntax) {
		t.Errorf("expected syntax error, got %v", err)
	}

	if len(s.Lines()) != 0 {
		t.Errorf("expected nothing stored after a syntax error, got %v", s.Lines())
	}
}

func TestSession_RunEmpty(t *testing.T) {
	if err := New().Run(t.Context()); err != nil {
		t.Errorf("expected empty program to run cleanly, got %v", err)
	}
}

func TestSession_Logger(t *testing.T) {
	var logs bytes.Buffer

	logger := log.Make(&logs,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false))

	_, err := runProgram(t, "10 TRON\n20 PRINT 1\n30 PRINT 1/0", WithLogger(logger))
	if !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected division by zero, got %v", err)
	}

	for _, want := range []string{
		`"msg":"run start"`,
		`"level":"TRACE","msg":"trace","line":20`,
		`"msg":"statement failed"`,
	} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("expected %s in log output:\n%s", want, logs.String())
		}
	}
}
