package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/gwbasic/cli/cmd/repl"
	"github.com/ardnew/gwbasic/lang"
	"github.com/ardnew/gwbasic/lang/screen"
	"github.com/ardnew/gwbasic/log"
)

// REPL starts an interactive session, optionally with a program preloaded.
type REPL struct {
	Seed     int64    `default:"-1"          help:"Random seed; negative seeds from the clock." short:"s"`
	MaxDepth int      `default:"${maxDepth}" help:"Limit on GOSUB and FOR nesting."`
	DataDir  string   `default:"."           help:"Directory that OPEN resolves file names against." type:"path"`
	Sources  []string `arg:""                help:"Program files to load first."                  name:"source" optional:"" type:"existingfile"`
}

// Run executes the repl command.
func (r *REPL) Run(ctx context.Context) error {
	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	var source io.Reader

	if len(r.Sources) > 0 {
		src, err := OpenSources(r.Sources, nil)
		if err != nil {
			return err
		}
		defer src.Close()

		source = src.Reader()
	}

	files := newFiles(r.DataDir)
	defer files.CloseAll()

	opts := []lang.Option{
		lang.WithFiles(files),
		lang.WithScreen(screen.New()),
		lang.WithMaxDepth(r.MaxDepth),
	}

	if r.Seed >= 0 {
		opts = append(opts, lang.WithSeed(uint64(r.Seed)))
	}

	logger := log.Default().With(slog.String("mode", "repl"))

	if err := repl.Run(ctx, source, cacheDir, logger, opts...); err != nil {
		return ErrREPL.With(sourcesAttr(r.Sources)).Wrap(err)
	}

	return nil
}
