package cli

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/gwbasic/cli/cmd"
	"github.com/ardnew/gwbasic/lang"
	"github.com/ardnew/gwbasic/pkg"
)

// baseConfig is the base name of the configuration files.
const baseConfig = "config"

// CLI is the top-level command-line interface for gwbasic.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Run  cmd.Run  `cmd:"" default:"withargs" help:"Load and run programs"`
	REPL cmd.REPL `cmd:"" help:"Start an interactive session" name:"repl"`
	Fmt  cmd.Fmt  `cmd:"" help:"Print programs as a listing or syntax tree"`
	Init cmd.Init `cmd:"" help:"Initialize configuration file"`
}

// vars returns the interpolation variables shared by all commands.
func vars() kong.Vars {
	return kong.Vars{
		cmd.ConfigIdentifier:   configPath(".yaml"),
		cmd.CacheIdentifier:    pkg.CacheDir(),
		cmd.MaxDepthIdentifier: strconv.Itoa(lang.DefaultMaxDepth),
		"version":              pkg.Name + " " + pkg.Version,
	}
}

// configPath returns the path of the configuration file with extension ext.
func configPath(ext string) string {
	return filepath.Join(pkg.ConfigDir(), baseConfig+ext)
}

// Run executes the gwbasic CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := pkg.MkdirAll(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags so parse errors are reported in the requested
	// format regardless of flag position.
	cli.Log.scan(args)

	parser, err := newParser(ctx, &cli,
		kong.Exit(exit),
		kong.Configuration(kong.JSON, configPath(".json")),
		kong.Configuration(resolve(cmd.ConfigSection), configPath(".yaml")),
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	// Apply the values that do not go through TextUnmarshaler, including
	// those resolved from the configuration files.
	cli.Log.start(ctx)

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

// newParser builds the kong parser for cli. Tests supply their own exit and
// configuration options.
func newParser(
	ctx context.Context,
	cli *CLI,
	opts ...kong.Option,
) (*kong.Kong, error) {
	base := []kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		vars().
			CloneWith(cli.Log.vars()).
			CloneWith(cli.Pprof.vars()),
	}

	return kong.New(cli, append(base, opts...)...)
}
