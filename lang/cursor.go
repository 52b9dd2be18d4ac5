package lang

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
)

// frame is a block of statements being executed. A frame opened by WHILE
// re-tests its condition when its statements are exhausted.
type frame struct {
	stmts []Stmt
	idx   int
	loop  *WhileStmt
}

// cursor is the program counter: the current line and the stack of nested
// blocks within it.
type cursor struct {
	line   int
	direct bool
	frames []frame
}

// haltLine is beyond every stored line, so a cursor parked there stops.
const haltLine = math.MaxInt - 1

func directCursor(stmts []Stmt) cursor {
	return cursor{line: -1, direct: true, frames: []frame{{stmts: stmts}}}
}

// snapshot returns a copy of c that later execution cannot disturb.
func (c cursor) snapshot() cursor {
	c.frames = slices.Clone(c.frames)

	return c
}

// forFrame is an active FOR loop.
type forFrame struct {
	name   string
	end    float64
	step   float64
	resume cursor // position after the FOR statement
}

// enter moves the cursor to the start of line e.
func (s *Session) enter(ctx context.Context, e *entry) {
	s.pc = cursor{line: e.Number, frames: []frame{{stmts: e.Stmts}}}

	if s.trace {
		fmt.Fprintf(s.out, "[%d]", e.Number)
		s.logger.TraceContext(ctx, "trace", slog.Int("line", e.Number))
	}
}

// halt parks the cursor so execution stops after the current statement.
func (s *Session) halt() {
	s.pc = cursor{line: haltLine}
}

// jump transfers control to the start of line n.
func (s *Session) jump(ctx context.Context, n int) error {
	e, ok := s.prog.get(n)
	if !ok {
		return ErrLineNumber.Errorf("Line %d not found", n)
	}

	s.enter(ctx, e)

	return nil
}

// fetch returns the next statement to execute. It pops exhausted blocks,
// repeats WHILE bodies, and advances to the next stored line. It returns
// false when execution is complete.
func (s *Session) fetch(ctx context.Context) (Stmt, bool, error) {
	for {
		pc := &s.pc

		if len(pc.frames) == 0 {
			if pc.direct {
				return nil, false, nil
			}

			e, ok := s.prog.after(pc.line)
			if !ok {
				return nil, false, nil
			}

			s.enter(ctx, e)

			continue
		}

		top := &pc.frames[len(pc.frames)-1]

		if top.idx < len(top.stmts) {
			stmt := top.stmts[top.idx]
			top.idx++

			return stmt, true, nil
		}

		if top.loop != nil {
			// An empty body never reaches the check in exec.
			if err := s.poll(ctx); err != nil {
				return nil, false, err
			}

			cond, err := s.eval(top.loop.Cond)
			if err != nil {
				return nil, false, err
			}

			if cond.Truthy() {
				top.idx = 0

				continue
			}
		}

		pc.frames = pc.frames[:len(pc.frames)-1]
	}
}

// push opens a nested block at the cursor.
func (s *Session) push(stmts []Stmt, loop *WhileStmt) {
	s.pc.frames = append(s.pc.frames, frame{stmts: stmts, loop: loop})
}
