package lang

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
)

// exec runs statements from the cursor until execution completes, an error
// occurs, or END or STOP is reached.
func (s *Session) exec(ctx context.Context) error {
	for {
		stmt, ok, err := s.fetch(ctx)
		if err != nil {
			return s.fail(ctx, err)
		}

		if !ok {
			return nil
		}

		if err := s.poll(ctx); err != nil {
			return s.fail(ctx, err)
		}

		s.logger.TraceContext(ctx, "exec",
			slog.Int("line", s.CurrentLine()),
			slog.String("stmt", fmt.Sprintf("%T", stmt)),
		)

		if err := s.execute(ctx, stmt); err != nil {
			return s.fail(ctx, err)
		}
	}
}

// poll is the cancellation point. It reports a cancelled context as a
// runtime error and a stop requested by the interrupt hook as
// [ErrProgramEnd].
func (s *Session) poll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return ErrRuntime.Wrap(context.Cause(ctx))
	}

	if s.interrupt == nil {
		return nil
	}

	stop, err := s.interrupt(ctx, s)
	if err != nil {
		return err
	}

	if stop {
		s.logger.DebugContext(ctx, "interrupted", slog.Int("line", s.CurrentLine()))

		return ErrProgramEnd
	}

	return nil
}

// fail annotates err with the executing line.
func (s *Session) fail(ctx context.Context, err error) error {
	if errors.Is(err, ErrProgramEnd) {
		return err
	}

	err = withLine(err, s.CurrentLine())

	s.logger.DebugContext(ctx, "statement failed", slog.Any("error", err))

	return err
}

// execute performs a single statement.
func (s *Session) execute(ctx context.Context, stmt Stmt) error {
	switch st := stmt.(type) {
	case *PrintStmt:
		return s.execPrint(st)

	case *InputStmt:
		return s.execInput(st)

	case *LetStmt:
		v, err := s.eval(st.Value)
		if err != nil {
			return err
		}

		s.vars[st.Name] = v

		return nil

	case *IfStmt:
		cond, err := s.eval(st.Cond)
		if err != nil {
			return err
		}

		if cond.Truthy() {
			s.push(st.Then, nil)
		} else if len(st.Else) > 0 {
			s.push(st.Else, nil)
		}

		return nil

	case *ForStmt:
		return s.execFor(st)

	case *NextStmt:
		return s.execNext(st)

	case *WhileStmt:
		cond, err := s.eval(st.Cond)
		if err != nil {
			return err
		}

		if cond.Truthy() {
			s.push(st.Body, st)
		}

		return nil

	case *GotoStmt:
		return s.jump(ctx, st.Line)

	case *GosubStmt:
		if len(s.calls) >= s.maxDepth {
			return ErrOutOfMemory.With(slog.Int("depth", len(s.calls)))
		}

		if _, ok := s.prog.get(st.Line); !ok {
			return ErrLineNumber.Errorf("Line %d not found", st.Line)
		}

		s.calls = append(s.calls, s.pc.snapshot())

		return s.jump(ctx, st.Line)

	case *ReturnStmt:
		if len(s.calls) == 0 {
			return ErrRuntime.Errorf("RETURN without GOSUB")
		}

		s.pc = s.calls[len(s.calls)-1]
		s.calls = s.calls[:len(s.calls)-1]

		return nil

	case *EndStmt, *StopStmt:
		return ErrProgramEnd

	case *DimStmt, *RemStmt:
		return nil

	case *ReadStmt:
		data := s.dataValues()

		for _, name := range st.Vars {
			if s.dataPos >= len(data.values) {
				return ErrRuntime.Errorf("Out of DATA")
			}

			s.vars[name] = data.values[s.dataPos]
			s.dataPos++
		}

		return nil

	case *DataStmt:
		if !s.pc.direct {
			return nil
		}

		for _, x := range st.Values {
			v, err := s.eval(x)
			if err != nil {
				return err
			}

			s.directData = append(s.directData, v)
		}

		s.dataStale = true

		return nil

	case *RestoreStmt:
		if !st.HasLine {
			s.dataPos = 0

			return nil
		}

		if _, ok := s.prog.get(st.Line); !ok {
			return ErrLineNumber.Errorf("Line %d not found", st.Line)
		}

		s.dataPos = s.dataValues().offset(st.Line)

		return nil

	case *SwapStmt:
		a, ok := s.vars[st.A]
		if !ok {
			return ErrUndefined.Errorf("Variable %s not defined", st.A)
		}

		b, ok := s.vars[st.B]
		if !ok {
			return ErrUndefined.Errorf("Variable %s not defined", st.B)
		}

		s.vars[st.A], s.vars[st.B] = b, a

		return nil

	case *RandomizeStmt:
		seed := uint64(s.clock().UnixNano())

		if st.Seed != nil {
			v, err := s.eval(st.Seed)
			if err != nil {
				return err
			}

			f, err := v.AsDouble()
			if err != nil {
				return err
			}

			seed = math.Float64bits(f)
		}

		s.rng.Seed(seed)

		return nil

	case *RunStmt:
		s.clear()

		if st.HasLine {
			return s.jump(ctx, st.Line)
		}

		first, ok := s.prog.first()
		if !ok {
			s.halt()

			return nil
		}

		s.enter(ctx, first)

		return nil

	case *ListStmt:
		return s.List(s.out, st.From, st.To)

	case *NewStmt:
		s.reset()
		s.halt()

		return nil

	case *ClearStmt:
		s.clear()

		return nil

	case *TraceStmt:
		s.trace = st.On

		return nil

	case *ClsStmt, *LocateStmt, *ColorStmt, *ScreenStmt, *PsetStmt,
		*LineStmt, *CircleStmt, *BeepStmt, *SoundStmt:
		return s.execScreen(st)

	case *OpenStmt, *CloseStmt:
		return s.execFile(st)
	}

	return ErrRuntime.Errorf("Cannot execute %T", stmt)
}

func (s *Session) execPrint(st *PrintStmt) error {
	var file int

	if st.File != nil {
		n, err := s.evalInt(st.File)
		if err != nil {
			return err
		}

		if s.files == nil {
			return errNoFiles
		}

		file = n
	}

	parts := make([]string, 0, len(st.Exprs))

	for _, x := range st.Exprs {
		v, err := s.eval(x)
		if err != nil {
			return err
		}

		parts = append(parts, v.AsString())
	}

	text := strings.Join(parts, " ")

	if st.File != nil {
		return s.files.WriteLine(file, text)
	}

	if _, err := io.WriteString(s.out, text+"\n"); err != nil {
		return ErrIO.Wrap(err)
	}

	return nil
}

func (s *Session) execFor(st *ForStmt) error {
	var bounds [3]float64

	bounds[2] = 1

	for i, x := range []Expr{st.Start, st.End, st.Step} {
		if x == nil {
			continue
		}

		v, err := s.eval(x)
		if err != nil {
			return err
		}

		if bounds[i], err = v.AsDouble(); err != nil {
			return err
		}
	}

	// Re-entering a loop discards it and every loop nested inside it.
	for i, f := range s.loops {
		if f.name == st.Var {
			s.loops = s.loops[:i]

			break
		}
	}

	if len(s.loops) >= s.maxDepth {
		return ErrOutOfMemory.With(slog.Int("depth", len(s.loops)))
	}

	s.vars[st.Var] = DoubleValue(bounds[0])
	s.loops = append(s.loops, forFrame{
		name:   st.Var,
		end:    bounds[1],
		step:   bounds[2],
		resume: s.pc.snapshot(),
	})

	return nil
}

func (s *Session) execNext(st *NextStmt) error {
	names := st.Vars
	if len(names) == 0 {
		names = []string{""}
	}

	for _, name := range names {
		if len(s.loops) == 0 {
			return ErrRuntime.Errorf("NEXT without FOR")
		}

		f := s.loops[len(s.loops)-1]

		if name != "" && name != f.name {
			return ErrRuntime.Errorf("NEXT variable mismatch: expected %s, got %s", f.name, name)
		}

		cur, ok := s.vars[f.name]
		if !ok {
			return ErrUndefined.Errorf("Variable %s not defined", f.name)
		}

		x, err := cur.AsDouble()
		if err != nil {
			return err
		}

		x += f.step
		s.vars[f.name] = DoubleValue(x)

		if (f.step > 0 && x <= f.end) || (f.step <= 0 && x >= f.end) {
			s.pc = f.resume.snapshot()

			return nil
		}

		s.loops = s.loops[:len(s.loops)-1]
	}

	return nil
}

func (s *Session) execInput(st *InputStmt) error {
	var read func(continued bool) (string, error)

	if st.File != nil {
		n, err := s.evalInt(st.File)
		if err != nil {
			return err
		}

		if s.files == nil {
			return errNoFiles
		}

		read = func(bool) (string, error) { return s.files.ReadLine(n) }
	} else {
		read = func(continued bool) (string, error) {
			prompt := st.Prompt + "? "
			if continued {
				prompt = "?? "
			}

			if _, err := io.WriteString(s.out, prompt); err != nil {
				return "", ErrIO.Wrap(err)
			}

			line, err := s.in.ReadString('\n')
			if err != nil && line == "" {
				return "", ErrIO.Errorf("Input past end")
			}

			return strings.TrimRight(line, "\r\n"), nil
		}
	}

	var fields []string

	for continued := false; len(fields) < len(st.Vars); continued = true {
		line, err := read(continued)
		if err != nil {
			return err
		}

		for f := range strings.SplitSeq(line, ",") {
			fields = append(fields, strings.TrimSpace(f))
		}
	}

	for i, name := range st.Vars {
		if strings.HasSuffix(name, "$") {
			s.vars[name] = StringValue(fields[i])
		} else {
			s.vars[name] = parseNumber(fields[i], StringValue(fields[i]))
		}
	}

	return nil
}

func (s *Session) execScreen(stmt Stmt) error {
	scr := s.screen
	if scr == nil {
		return errNoScreen
	}

	switch st := stmt.(type) {
	case *ClsStmt:
		return scr.Cls()

	case *LocateStmt:
		n, err := s.evalInts(st.Row, st.Col)
		if err != nil {
			return err
		}

		return scr.Locate(n[0]-1, n[1]-1)

	case *ColorStmt:
		n, err := s.evalInts(st.Fg, st.Bg)
		if err != nil {
			return err
		}

		return scr.Color(n[0], n[1])

	case *ScreenStmt:
		n, err := s.evalInts(st.Mode)
		if err != nil {
			return err
		}

		return scr.Mode(n[0])

	case *PsetStmt:
		n, err := s.evalInts(st.X, st.Y, st.Color)
		if err != nil {
			return err
		}

		return scr.Pset(n[0], n[1], n[2])

	case *LineStmt:
		n, err := s.evalInts(st.X1, st.Y1, st.X2, st.Y2, st.Color)
		if err != nil {
			return err
		}

		return scr.Line(n[0], n[1], n[2], n[3], n[4])

	case *CircleStmt:
		n, err := s.evalInts(st.X, st.Y, st.R, st.Color)
		if err != nil {
			return err
		}

		return scr.Circle(n[0], n[1], n[2], n[3])

	case *BeepStmt:
		return scr.Beep()

	case *SoundStmt:
		freq, err := s.evalFloat(st.Freq)
		if err != nil {
			return err
		}

		dur, err := s.evalFloat(st.Duration)
		if err != nil {
			return err
		}

		return scr.Sound(freq, dur)
	}

	return nil
}

func (s *Session) execFile(stmt Stmt) error {
	if s.files == nil {
		return errNoFiles
	}

	switch st := stmt.(type) {
	case *OpenStmt:
		path, err := s.eval(st.Path)
		if err != nil {
			return err
		}

		n, err := s.evalInt(st.Num)
		if err != nil {
			return err
		}

		return s.files.Open(n, path.AsString(), st.Mode)

	case *CloseStmt:
		if len(st.Nums) == 0 {
			return s.files.CloseAll()
		}

		for _, x := range st.Nums {
			n, err := s.evalInt(x)
			if err != nil {
				return err
			}

			if err := s.files.Close(n); err != nil {
				return err
			}
		}
	}

	return nil
}
