// Package screen simulates a text-mode display with a character-cell
// framebuffer. Graphics statements plot into the same cells.
package screen

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/gwbasic/lang"
)

// Default dimensions and colors.
const (
	DefaultRows = 25
	DefaultCols = 80
	DefaultFg   = 7
	DefaultBg   = 0
)

// PlotRune is drawn by PSET, LINE, and CIRCLE.
const PlotRune = '#'

const (
	ansiClear = "\x1b[2J\x1b[H"
	bell      = "\a"
)

// palette maps CGA color numbers to RGB.
var palette = [16]lipgloss.Color{
	"#000000", "#0000AA", "#00AA00", "#00AAAA",
	"#AA0000", "#AA00AA", "#AA5500", "#AAAAAA",
	"#555555", "#5555FF", "#55FF55", "#55FFFF",
	"#FF5555", "#FF55FF", "#FFFF55", "#FFFFFF",
}

// Cell is one character position.
type Cell struct {
	Rune rune
	Fg   int
	Bg   int
}

// Screen is a framebuffer implementing [lang.Screen].
type Screen struct {
	rows, cols int
	cells      []Cell
	row, col   int
	fg, bg     int
	mode       int
	term       io.Writer
}

var _ lang.Screen = (*Screen)(nil)

// Option configures a [Screen].
type Option func(*Screen)

// WithSize sets the screen dimensions. Non-positive values keep the default.
func WithSize(rows, cols int) Option {
	return func(s *Screen) {
		if rows > 0 {
			s.rows = rows
		}

		if cols > 0 {
			s.cols = cols
		}
	}
}

// WithTerminal sets a writer that receives the clear sequence on CLS and
// the bell on BEEP and SOUND.
func WithTerminal(w io.Writer) Option {
	return func(s *Screen) {
		s.term = w
	}
}

// New returns a cleared screen.
func New(opts ...Option) *Screen {
	s := &Screen{rows: DefaultRows, cols: DefaultCols, fg: DefaultFg, bg: DefaultBg}

	for _, opt := range opts {
		opt(s)
	}

	s.cells = make([]Cell, s.rows*s.cols)
	s.erase()

	return s
}

func (s *Screen) erase() {
	for i := range s.cells {
		s.cells[i] = Cell{Rune: ' ', Fg: s.fg, Bg: s.bg}
	}

	s.row, s.col = 0, 0
}

func (s *Screen) emit(seq string) error {
	if s.term == nil {
		return nil
	}

	if _, err := io.WriteString(s.term, seq); err != nil {
		return lang.ErrIO.Wrap(err)
	}

	return nil
}

// Cls clears the screen and homes the cursor.
func (s *Screen) Cls() error {
	s.erase()

	return s.emit(ansiClear)
}

// Locate moves the cursor to a 0-based position.
func (s *Screen) Locate(row, col int) error {
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols {
		return lang.ErrRuntime.Errorf("LOCATE position out of range")
	}

	s.row, s.col = row, col

	return nil
}

// Color sets the foreground and background. [lang.DefaultColor] leaves a
// component unchanged.
func (s *Screen) Color(fg, bg int) error {
	for _, c := range []int{fg, bg} {
		if c != lang.DefaultColor && (c < 0 || c >= len(palette)) {
			return lang.ErrRuntime.Errorf("Color %d out of range", c)
		}
	}

	if fg != lang.DefaultColor {
		s.fg = fg
	}

	if bg != lang.DefaultColor {
		s.bg = bg
	}

	return nil
}

// Mode selects a screen mode and clears the screen.
func (s *Screen) Mode(n int) error {
	if n < 0 {
		return lang.ErrRuntime.Errorf("Invalid screen mode %d", n)
	}

	s.mode = n

	return s.Cls()
}

// Pset plots a point at column x, row y. Points off screen are ignored.
func (s *Screen) Pset(x, y, c int) error {
	if x < 0 || x >= s.cols || y < 0 || y >= s.rows {
		return nil
	}

	if c == lang.DefaultColor {
		c = s.fg
	}

	s.cells[y*s.cols+x] = Cell{Rune: PlotRune, Fg: c, Bg: s.bg}

	return nil
}

// Line draws a line using Bresenham's algorithm.
func (s *Screen) Line(x1, y1, x2, y2, c int) error {
	dx, dy := abs(x2-x1), -abs(y2-y1)
	sx, sy := sign(x2-x1), sign(y2-y1)
	e := dx + dy

	for {
		if err := s.Pset(x1, y1, c); err != nil {
			return err
		}

		if x1 == x2 && y1 == y2 {
			return nil
		}

		e2 := 2 * e

		if e2 >= dy {
			e += dy
			x1 += sx
		}

		if e2 <= dx {
			e += dx
			y1 += sy
		}
	}
}

// Circle draws a circle using the midpoint algorithm.
func (s *Screen) Circle(cx, cy, r, c int) error {
	if r < 0 {
		return lang.ErrRuntime.Errorf("Negative radius %d", r)
	}

	x, y := r, 0
	d := 1 - r

	for x >= y {
		for _, p := range [][2]int{
			{x, y}, {y, x}, {-y, x}, {-x, y},
			{-x, -y}, {-y, -x}, {y, -x}, {x, -y},
		} {
			if err := s.Pset(cx+p[0], cy+p[1], c); err != nil {
				return err
			}
		}

		y++

		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}

	return nil
}

// Beep sounds the bell.
func (s *Screen) Beep() error { return s.emit(bell) }

// Sound sounds the bell; the simulator has no tone generator.
func (s *Screen) Sound(freq, _ float64) error {
	if freq < 0 {
		return lang.ErrRuntime.Errorf("Invalid frequency %g", freq)
	}

	return s.emit(bell)
}

// Cursor returns the 0-based cursor position.
func (s *Screen) Cursor() (row, col int) { return s.row, s.col }

// Size returns the screen dimensions.
func (s *Screen) Size() (rows, cols int) { return s.rows, s.cols }

// Colors returns the current foreground and background.
func (s *Screen) Colors() (fg, bg int) { return s.fg, s.bg }

// CurrentMode returns the selected screen mode.
func (s *Screen) CurrentMode() int { return s.mode }

// Cell returns the cell at a 0-based position.
func (s *Screen) Cell(row, col int) (Cell, bool) {
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols {
		return Cell{}, false
	}

	return s.cells[row*s.cols+col], true
}

// Text returns the screen contents as plain text with trailing blanks
// trimmed from each row.
func (s *Screen) Text() string {
	var sb strings.Builder

	for r := range s.rows {
		line := make([]rune, s.cols)
		for c := range s.cols {
			line[c] = s.cells[r*s.cols+c].Rune
		}

		sb.WriteString(strings.TrimRight(string(line), " "))
		sb.WriteByte('\n')
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// Render draws the framebuffer to w with terminal colors. Runs of cells
// sharing colors are styled together.
func (s *Screen) Render(w io.Writer) error {
	var sb strings.Builder

	for r := range s.rows {
		row := s.cells[r*s.cols : (r+1)*s.cols]

		for start := 0; start < len(row); {
			end := start + 1
			for end < len(row) && row[end].Fg == row[start].Fg && row[end].Bg == row[start].Bg {
				end++
			}

			text := make([]rune, 0, end-start)
			for _, cell := range row[start:end] {
				text = append(text, cell.Rune)
			}

			sb.WriteString(style(row[start]).Render(string(text)))

			start = end
		}

		sb.WriteByte('\n')
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return lang.ErrIO.Wrap(err)
	}

	return nil
}

func style(c Cell) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(palette[c.Fg&0xf]).
		Background(palette[c.Bg&0xf])
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}

	return 0
}
