package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"golang.org/x/term"

	"github.com/ardnew/gwbasic/lang"
	"github.com/ardnew/gwbasic/lang/screen"
	"github.com/ardnew/gwbasic/log"
)

// Run loads one or more program files and runs them to completion.
type Run struct {
	Seed       int64    `default:"-1"          help:"Random seed; negative seeds from the clock."               short:"s"`
	StopWhen   string   `help:"Stop once this expression over program variables is true." placeholder:"EXPR"`
	MaxDepth   int      `default:"${maxDepth}" help:"Limit on GOSUB and FOR nesting."`
	Trace      bool     `help:"Start with line tracing enabled, as if by TRON."            short:"t"`
	DataDir    string   `default:"."           help:"Directory that OPEN resolves file names against."         type:"path"`
	ScreenDump bool     `help:"Print the final screen contents after the program ends."`
	Sources    []string `arg:""                help:"Program files, or '-' for stdin."                         name:"source" optional:""`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) error {
	// Ctrl-C breaks the program so open files are still flushed.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	streams := streamsFrom(ctx)
	logger := log.Default()

	src, err := OpenSources(r.Sources, streams.In)
	if err != nil {
		return err
	}
	defer src.Close()

	stop, err := CompileStop(r.StopWhen)
	if err != nil {
		return err
	}

	scr := r.screen(streams.Out)
	files := newFiles(r.DataDir)

	defer func() {
		if err := files.CloseAll(); err != nil {
			logger.WarnContext(ctx, "close files", slog.Any("error", err))
		}
	}()

	opts := []lang.Option{
		lang.WithLogger(logger.With(slog.String("mode", "run"))),
		lang.WithOutput(streams.Out),
		lang.WithScreen(scr),
		lang.WithFiles(files),
		lang.WithMaxDepth(r.MaxDepth),
		lang.WithTrace(r.Trace),
	}

	// INPUT cannot share stdin with the program text.
	if src.UsesStdin() {
		opts = append(opts, lang.WithInput(strings.NewReader("")))
	} else {
		opts = append(opts, lang.WithInput(streams.In))
	}

	if r.Seed >= 0 {
		opts = append(opts, lang.WithSeed(uint64(r.Seed)))
	}

	if stop != nil {
		opts = append(opts, lang.WithInterrupt(stop.Interrupt(logger)))
	}

	sess := lang.New(opts...)

	if err := src.Load(ctx, sess); err != nil {
		return ErrLoadProgram.With(sourcesAttr(r.Sources)).Wrap(err)
	}

	if err := sess.Run(ctx); err != nil {
		return ErrRunProgram.With(slog.Int("line", sess.CurrentLine())).Wrap(err)
	}

	if r.ScreenDump {
		return scr.Render(streams.Out)
	}

	return nil
}

// screen sizes the framebuffer to the terminal when w is one, and only then
// lets CLS and BEEP reach it.
func (r *Run) screen(w io.Writer) *screen.Screen {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return screen.New()
	}

	opts := []screen.Option{screen.WithTerminal(f)}

	if cols, rows, err := term.GetSize(int(f.Fd())); err == nil {
		opts = append(opts, screen.WithSize(rows, cols))
	}

	return screen.New(opts...)
}

func sourcesAttr(paths []string) slog.Attr {
	if len(paths) == 0 {
		return sourceAttr(stdinSource)
	}

	return sourceAttr(strings.Join(paths, ","))
}
