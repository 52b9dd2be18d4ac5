package lang

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/ardnew/gwbasic/log"
)

// DefaultMaxDepth is the default limit on GOSUB and FOR nesting.
// Users may modify this before creating a session to change the default.
var DefaultMaxDepth = 4096

// Option configures a [Session].
type Option func(*Session)

// Interrupt is consulted before every statement. Returning stop ends the
// program cleanly; returning an error aborts it.
type Interrupt func(ctx context.Context, s *Session) (stop bool, err error)

// WithLogger sets the structured logger for debug and trace output.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithOutput sets the writer receiving PRINT, LIST, and trace output.
func WithOutput(w io.Writer) Option {
	return func(s *Session) {
		s.out = w
	}
}

// WithInput sets the reader consulted by INPUT.
func WithInput(r io.Reader) Option {
	return func(s *Session) {
		s.in = bufio.NewReader(r)
	}
}

// WithScreen attaches a screen.
func WithScreen(scr Screen) Option {
	return func(s *Session) {
		s.screen = scr
	}
}

// WithFiles attaches a file manager.
func WithFiles(files Files) Option {
	return func(s *Session) {
		s.files = files
	}
}

// WithRegistry replaces the function registry.
func WithRegistry(r *Registry) Option {
	return func(s *Session) {
		s.registry = r
	}
}

// WithSeed seeds the random number generator.
func WithSeed(seed uint64) Option {
	return func(s *Session) {
		s.rng = NewRand(seed)
	}
}

// WithClock sets the time source used by TIMER and RANDOMIZE.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.clock = now
	}
}

// WithInterrupt sets the hook consulted before every statement.
func WithInterrupt(fn Interrupt) Option {
	return func(s *Session) {
		s.interrupt = fn
	}
}

// WithMaxDepth sets the limit on GOSUB and FOR nesting.
func WithMaxDepth(depth int) Option {
	return func(s *Session) {
		s.maxDepth = depth
	}
}

// WithTrace starts the session with line tracing enabled, as if by TRON.
func WithTrace(enable bool) Option {
	return func(s *Session) {
		s.trace = enable
	}
}
