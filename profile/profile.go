package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

// Config selects what to profile and where profile files are written.
type Config struct {
	Mode  string
	Path  string
	Quiet bool
}

// Option modifies a Config.
type Option func(Config) Config

// Make returns a Config with opts applied.
func Make(opts ...Option) Config {
	var c Config

	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

// WithMode sets the profiling mode. See [Modes].
func WithMode(mode string) Option {
	return func(c Config) Config {
		c.Mode = mode

		return c
	}
}

// WithPath sets the directory receiving profile output.
func WithPath(path string) Option {
	return func(c Config) Config {
		c.Path = path

		return c
	}
}

// WithQuiet suppresses the profiler's own start and stop messages.
func WithQuiet(quiet bool) Option {
	return func(c Config) Config {
		c.Quiet = quiet

		return c
	}
}

// Stopper ends a running profile and flushes it to disk.
type Stopper interface{ Stop() }

// Start begins profiling. It returns a no-op Stopper when the binary was
// built without the pprof tag, when Mode is empty, or when Mode is not one
// of [Modes]. Stop is always safe to call.
func (c Config) Start() Stopper {
	if c.Mode == "" {
		return ignore{}
	}

	return start(c)
}

type ignore struct{}

func (ignore) Stop() {}
