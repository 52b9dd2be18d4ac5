package lang

import (
	"fmt"
	"strings"
)

// fakeScreen records every call it receives.
type fakeScreen struct {
	calls    []string
	row, col int
}

func (f *fakeScreen) record(format string, args ...any) error {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))

	return nil
}

func (f *fakeScreen) Cls() error { return f.record("cls") }

func (f *fakeScreen) Locate(row, col int) error {
	f.row, f.col = row, col

	return f.record("locate %d %d", row, col)
}

func (f *fakeScreen) Color(fg, bg int) error { return f.record("color %d %d", fg, bg) }
func (f *fakeScreen) Mode(n int) error { return f.record("mode %d", n) }
func (f *fakeScreen) Pset(x, y, c int) error { return f.record("pset %d %d %d", x, y, c) }
func (f *fakeScreen) Circle(x, y, r, c int) error { return f.record("circle %d %d %d %d", x, y, r, c) }
func (f *fakeScreen) Beep() error { return f.record("beep") }
func (f *fakeScreen) Sound(freq, dur float64) error { return f.record("sound %g %g", freq, dur) }
func (f *fakeScreen) Cursor() (row, col int) { return f.row, f.col }
func (f *fakeScreen) Size() (rows, cols int) { return 25, 80 }

func (f *fakeScreen) Line(x1, y1, x2, y2, c int) error {
	return f.record("line %d %d %d %d %d", x1, y1, x2, y2, c)
}

// fakeFiles serves reads from canned lines and records writes.
type fakeFiles struct {
	calls []string
	open  map[int]FileMode
	input []string
}

func newFakeFiles(input ...string) *fakeFiles {
	return &fakeFiles{open: make(map[int]FileMode), input: input}
}

func (f *fakeFiles) Open(num int, path string, mode FileMode) error {
	if _, ok := f.open[num]; ok {
		return ErrIO.Errorf("File #%d is already open", num)
	}

	f.open[num] = mode
	f.calls = append(f.calls, fmt.Sprintf("open %d %s %s", num, path, mode))

	return nil
}

func (f *fakeFiles) Close(num int) error {
	if _, ok := f.open[num]; !ok {
		return ErrIO.Errorf("File #%d is not open", num)
	}

	delete(f.open, num)
	f.calls = append(f.calls, fmt.Sprintf("close %d", num))

	return nil
}

func (f *fakeFiles) CloseAll() error {
	clear(f.open)
	f.calls = append(f.calls, "closeall")

	return nil
}

func (f *fakeFiles) WriteLine(num int, text string) error {
	f.calls = append(f.calls, fmt.Sprintf("write %d %s", num, text))

	return nil
}

func (f *fakeFiles) ReadLine(int) (string, error) {
	if len(f.input) == 0 {
		return "", ErrIO.Errorf("Input past end")
	}

	line := f.input[0]
	f.input = f.input[1:]

	return line, nil
}

func (f *fakeFiles) EOF(int) (bool, error) { return len(f.input) == 0, nil }
func (f *fakeFiles) Loc(int) (int, error) { return 0, nil }
func (f *fakeFiles) Lof(int) (int64, error) {
	return int64(len(strings.Join(f.input, "\n"))), nil
}
