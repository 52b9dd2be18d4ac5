// Package fileio manages numbered file handles for OPEN, CLOSE, PRINT #,
// and INPUT # over a billy filesystem.
package fileio

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"

	"github.com/ardnew/gwbasic/lang"
)

// handle is an open file.
type handle struct {
	path    string
	mode    lang.FileMode
	file    billy.File
	reader  *bufio.Reader
	records int
}

func (h *handle) readable() bool { return h.mode == lang.ModeInput || h.mode == lang.ModeRandom }

func (h *handle) writable() bool { return h.mode != lang.ModeInput }

// Manager implements [lang.Files].
type Manager struct {
	fs    billy.Filesystem
	files map[int]*handle
}

var _ lang.Files = (*Manager)(nil)

// New returns a manager that resolves paths in fs.
func New(fs billy.Filesystem) *Manager {
	return &Manager{fs: fs, files: make(map[int]*handle)}
}

// Open opens path as file number num.
func (m *Manager) Open(num int, path string, mode lang.FileMode) error {
	if _, ok := m.files[num]; ok {
		return lang.ErrIO.Errorf("File #%d is already open", num)
	}

	var flag int

	switch mode {
	case lang.ModeInput:
		flag = os.O_RDONLY
	case lang.ModeOutput:
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case lang.ModeAppend:
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	default:
		flag = os.O_RDWR | os.O_CREATE
	}

	f, err := m.fs.OpenFile(path, flag, 0o644)
	if err != nil {
		return lang.ErrIO.Errorf("Cannot open file: %s", path).With(
			slog.String("cause", err.Error()),
			slog.String("mode", mode.String()),
		)
	}

	h := &handle{path: path, mode: mode, file: f}
	if h.readable() {
		h.reader = bufio.NewReader(f)
	}

	m.files[num] = h

	return nil
}

func (m *Manager) lookup(num int) (*handle, error) {
	h, ok := m.files[num]
	if !ok {
		return nil, lang.ErrIO.Errorf("File #%d is not open", num)
	}

	return h, nil
}

// Close closes file number num.
func (m *Manager) Close(num int) error {
	h, err := m.lookup(num)
	if err != nil {
		return err
	}

	delete(m.files, num)

	if err := h.file.Close(); err != nil {
		return lang.ErrIO.Wrap(err)
	}

	return nil
}

// CloseAll closes every open file in ascending number order.
func (m *Manager) CloseAll() error {
	var errs []error

	for _, n := range m.Numbers() {
		errs = append(errs, m.Close(n))
	}

	return errors.Join(errs...)
}

// WriteLine appends text and a newline to file number num.
func (m *Manager) WriteLine(num int, text string) error {
	h, err := m.lookup(num)
	if err != nil {
		return err
	}

	if !h.writable() {
		return lang.ErrIO.Errorf("File #%d is not open for writing", num)
	}

	if _, err := io.WriteString(h.file, text+"\n"); err != nil {
		return lang.ErrIO.Wrap(err)
	}

	h.records++

	return nil
}

// ReadLine reads the next line from file number num without its newline.
func (m *Manager) ReadLine(num int) (string, error) {
	h, err := m.lookup(num)
	if err != nil {
		return "", err
	}

	if !h.readable() {
		return "", lang.ErrIO.Errorf("File #%d is not open for reading", num)
	}

	line, err := h.reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", lang.ErrIO.Errorf("Input past end")
		}

		return "", lang.ErrIO.Wrap(err)
	}

	h.records++

	return strings.TrimRight(line, "\r\n"), nil
}

// EOF reports whether file number num has no more input. Files not open
// for reading are always at end.
func (m *Manager) EOF(num int) (bool, error) {
	h, err := m.lookup(num)
	if err != nil {
		return false, err
	}

	if !h.readable() {
		return true, nil
	}

	_, err = h.reader.Peek(1)

	return err != nil, nil
}

// Loc returns the number of records read or written on file number num.
func (m *Manager) Loc(num int) (int, error) {
	h, err := m.lookup(num)
	if err != nil {
		return 0, err
	}

	return h.records, nil
}

// Lof returns the size in bytes of file number num.
func (m *Manager) Lof(num int) (int64, error) {
	h, err := m.lookup(num)
	if err != nil {
		return 0, err
	}

	fi, err := m.fs.Stat(h.path)
	if err != nil {
		return 0, lang.ErrIO.Wrap(err)
	}

	return fi.Size(), nil
}

// Numbers returns the numbers of the open files in ascending order.
func (m *Manager) Numbers() []int {
	nums := make([]int, 0, len(m.files))
	for n := range m.files {
		nums = append(nums, n)
	}

	slices.Sort(nums)

	return nums
}
