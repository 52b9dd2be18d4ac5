package lang

// FileMode is the access mode of an opened file.
type FileMode uint8

// File modes.
const (
	ModeInput FileMode = iota
	ModeOutput
	ModeAppend
	ModeRandom
)

func (m FileMode) String() string {
	switch m {
	case ModeInput:
		return "INPUT"
	case ModeOutput:
		return "OUTPUT"
	case ModeAppend:
		return "APPEND"
	default:
		return "RANDOM"
	}
}

// DefaultColor leaves a color component unchanged in [Screen.Color].
const DefaultColor = -1

// Screen is the text-mode display. Coordinates are 0-based.
type Screen interface {
	Cls() error
	Locate(row, col int) error
	Color(fg, bg int) error
	Mode(n int) error
	Pset(x, y, c int) error
	Line(x1, y1, x2, y2, c int) error
	Circle(x, y, r, c int) error
	Beep() error
	Sound(freq, duration float64) error

	// Cursor returns the 0-based cursor position.
	Cursor() (row, col int)
	// Size returns the screen dimensions in character cells.
	Size() (rows, cols int)
}

// Files manages numbered file handles.
type Files interface {
	Open(num int, path string, mode FileMode) error
	Close(num int) error
	CloseAll() error
	WriteLine(num int, text string) error
	ReadLine(num int) (string, error)

	EOF(num int) (bool, error)
	// Loc returns the number of records read or written.
	Loc(num int) (int, error)
	// Lof returns the file size in bytes.
	Lof(num int) (int64, error)
}
