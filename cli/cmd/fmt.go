package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/goforj/godump"

	"github.com/ardnew/gwbasic/lang"
)

// Fmt parses a program and writes it back out in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as a canonical BASIC listing (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Dump the parsed syntax tree."`
}

// Input names the program files shared by every format.
type Input struct {
	Sources []string `arg:"" help:"Program files, or '-' for stdin." name:"source" optional:""`
}

// parse reads and parses every source as one program.
func (s Input) parse(ctx context.Context, format string) (*lang.Program, io.Writer, error) {
	streams := streamsFrom(ctx)

	src, err := OpenSources(s.Sources, streams.In)
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()

	prog, err := lang.ParseReader(src.Reader())
	if err != nil {
		return nil, nil, ErrLoadProgram.With(slog.String("format", format)).Wrap(err)
	}

	return prog, streams.Out, nil
}

// Native formats a program as a canonical listing.
type Native struct {
	Input
}

// Run executes the fmt command.
func (f *Native) Run(ctx context.Context) error {
	prog, w, err := f.parse(ctx, "native")
	if err != nil {
		return err
	}

	if err := prog.Format(ctx, w); err != nil {
		return ErrWriteListing.Wrap(err)
	}

	return nil
}

// JSON formats a program as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Input
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	prog, w, err := j.parse(ctx, "json")
	if err != nil {
		return err
	}

	if err := prog.FormatJSON(ctx, w, j.Indent); err != nil {
		return ErrWriteListing.With(slog.String("format", "json")).Wrap(err)
	}

	return nil
}

// YAML formats a program as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`

	Input
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	prog, w, err := y.parse(ctx, "yaml")
	if err != nil {
		return err
	}

	if err := prog.FormatYAML(ctx, w, y.Indent); err != nil {
		return ErrWriteListing.With(slog.String("format", "yaml")).Wrap(err)
	}

	return nil
}

// AST dumps the parsed syntax tree.
type AST struct {
	Input
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) error {
	prog, w, err := a.parse(ctx, "ast")
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, godump.DumpStr(prog)); err != nil {
		return ErrWriteListing.With(slog.String("format", "ast")).Wrap(err)
	}

	return nil
}
