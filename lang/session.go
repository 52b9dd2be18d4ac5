package lang

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/ardnew/gwbasic/log"
)

// Session is an interpreter instance. It owns the variables, the stored
// program, the control stacks, and the DATA sequence.
//
// A Session is not safe for concurrent use.
type Session struct {
	logger    log.Logger
	out       io.Writer
	in        *bufio.Reader
	screen    Screen
	files     Files
	registry  *Registry
	rng       *Rand
	clock     func() time.Time
	interrupt Interrupt
	maxDepth  int
	trace     bool

	vars  map[string]Value
	prog  *store
	pc    cursor
	calls []cursor
	loops []forFrame

	directData []Value // DATA executed in direct mode
	data       dataIndex
	dataStale  bool
	dataPos    int
}

// New returns a session configured by opts.
func New(opts ...Option) *Session {
	s := &Session{
		out:      io.Discard,
		in:       bufio.NewReader(strings.NewReader("")),
		registry: DefaultRegistry(),
		clock:    time.Now,
		maxDepth: DefaultMaxDepth,
		vars:     make(map[string]Value),
		prog:     newStore(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.rng == nil {
		s.rng = NewRand(uint64(s.clock().UnixNano()))
	}

	return s
}

// Rand returns the session random number generator.
func (s *Session) Rand() *Rand { return s.rng }

// Now returns the session clock reading.
func (s *Session) Now() time.Time { return s.clock() }

// Screen returns the attached screen, or nil.
func (s *Session) Screen() Screen { return s.screen }

// Files returns the attached file manager, or nil.
func (s *Session) Files() Files { return s.files }

// Registry returns the function registry.
func (s *Session) Registry() *Registry { return s.registry }

// Load stores the numbered lines of prog and executes its unnumbered lines
// in source order. END and STOP in a direct line stop it without error.
func (s *Session) Load(ctx context.Context, prog *Program) error {
	s.logger.DebugContext(ctx, "load start", slog.Int("lines", len(prog.Lines)))

	for ln := range prog.All() {
		if err := s.loadLine(ctx, ln); err != nil {
			s.logger.DebugContext(ctx, "load failed", slog.Any("error", err))

			return err
		}
	}

	s.logger.DebugContext(ctx, "load complete", slog.Int("stored", s.prog.len()))

	return nil
}

// LoadString parses src and loads it.
func (s *Session) LoadString(ctx context.Context, src string) error {
	prog, err := Parse(src)
	if err != nil {
		return err
	}

	return s.Load(ctx, prog)
}

// LoadReader parses the contents of r and loads it.
func (s *Session) LoadReader(ctx context.Context, r io.Reader) error {
	prog, err := ParseReader(r)
	if err != nil {
		return err
	}

	return s.Load(ctx, prog)
}

// Exec is the direct-mode entry point: a numbered line edits the program
// and an unnumbered line runs immediately.
func (s *Session) Exec(ctx context.Context, line string) error {
	return s.LoadString(ctx, line)
}

func (s *Session) loadLine(ctx context.Context, ln *Line) error {
	if !ln.Numbered {
		return s.direct(ctx, ln.Stmts)
	}

	s.dataStale = true

	if len(ln.Stmts) == 0 {
		s.prog.remove(ln.Number)

		return nil
	}

	e := &entry{Number: ln.Number, Stmts: ln.Stmts}

	for _, stmt := range ln.Stmts {
		data, ok := stmt.(*DataStmt)
		if !ok {
			continue
		}

		for _, x := range data.Values {
			v, err := s.eval(x)
			if err != nil {
				return withLine(err, ln.Number)
			}

			e.Data = append(e.Data, v)
		}
	}

	s.prog.put(e)

	return nil
}

// direct executes statements outside the stored program.
func (s *Session) direct(ctx context.Context, stmts []Stmt) error {
	if len(stmts) == 0 {
		return nil
	}

	s.pc = directCursor(stmts)

	return s.finish(s.exec(ctx))
}

// Run executes the stored program from its first line. The control stacks
// and the DATA cursor are reset; variables are kept.
func (s *Session) Run(ctx context.Context) error {
	s.resetControl()

	first, ok := s.prog.first()
	if !ok {
		return nil
	}

	s.logger.DebugContext(ctx, "run start", slog.Int("line", first.Number))

	s.enter(ctx, first)

	err := s.finish(s.exec(ctx))

	s.logger.DebugContext(ctx, "run stop", slog.Int("line", s.pc.line))

	return err
}

// finish maps the END/STOP signal to a clean stop.
func (s *Session) finish(err error) error {
	if errors.Is(err, ErrProgramEnd) {
		return nil
	}

	return err
}

// resetControl clears the control stacks and rewinds DATA.
func (s *Session) resetControl() {
	s.calls = s.calls[:0]
	s.loops = s.loops[:0]
	s.dataPos = 0
}

// clear erases variables along with the control state.
func (s *Session) clear() {
	clear(s.vars)
	s.resetControl()
}

// reset erases the program and all state.
func (s *Session) reset() {
	s.prog.clear()
	s.directData = nil
	s.dataStale = true
	s.clear()
}

// Vars returns a copy of the variable environment.
func (s *Session) Vars() map[string]Value { return maps.Clone(s.vars) }

// Var returns the value of the named variable.
func (s *Session) Var(name string) (Value, bool) {
	v, ok := s.vars[strings.ToUpper(name)]

	return v, ok
}

// SetVar creates or updates the named variable.
func (s *Session) SetVar(name string, v Value) {
	s.vars[strings.ToUpper(name)] = v
}

// Line returns the statements stored at line n.
func (s *Session) Line(n int) ([]Stmt, bool) {
	e, ok := s.prog.get(n)
	if !ok {
		return nil, false
	}

	return e.Stmts, true
}

// Lines returns the stored line numbers in ascending order.
func (s *Session) Lines() []int {
	nums := make([]int, 0, s.prog.len())
	for e := range s.prog.all() {
		nums = append(nums, e.Number)
	}

	return nums
}

// Program returns the stored program as a [Program].
func (s *Session) Program() *Program {
	prog := new(Program)
	for e := range s.prog.all() {
		prog.Lines = append(prog.Lines, &Line{Number: e.Number, Numbered: true, Stmts: e.Stmts})
	}

	return prog
}

// List writes the canonical listing of lines from through to to w.
func (s *Session) List(w io.Writer, from, to int) error {
	for e := range s.prog.between(from, to) {
		if _, err := io.WriteString(w, FormatLine(&Line{
			Number:   e.Number,
			Numbered: true,
			Stmts:    e.Stmts,
		})+"\n"); err != nil {
			return ErrIO.Wrap(err)
		}
	}

	return nil
}

// CurrentLine returns the line being executed, or -1 in direct mode.
func (s *Session) CurrentLine() int {
	if s.pc.direct {
		return -1
	}

	return s.pc.line
}

// dataValues returns the flattened DATA sequence, rebuilding it after the
// program or the direct-mode data changed.
func (s *Session) dataValues() dataIndex {
	if s.dataStale {
		s.data = s.prog.index(s.directData)
		s.dataStale = false
	}

	return s.data
}
