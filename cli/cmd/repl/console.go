package repl

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"

	"github.com/ardnew/gwbasic/lang"
)

// console is the session's view of the terminal. While the REPL owns the
// screen it reads nothing and discards output; a running statement attaches
// it to the real streams.
type console struct {
	mu  sync.Mutex
	in  io.Reader
	out io.Writer
}

func newConsole() *console {
	c := new(console)
	c.detach()

	return c
}

func (c *console) Read(p []byte) (int, error) {
	c.mu.Lock()
	r := c.in
	c.mu.Unlock()

	return r.Read(p)
}

func (c *console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.out.Write(p)
}

func (c *console) attach(in io.Reader, out io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.in, c.out = in, out
}

func (c *console) detach() {
	c.attach(eofReader{}, io.Discard)
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }

// execCommand implements [tea.ExecCommand] to run one direct-mode line with
// the terminal released, so PRINT and INPUT reach it and Ctrl+C raises
// SIGINT. The interrupt cancels the statement and the REPL carries on.
type execCommand struct {
	line    string
	sess    *lang.Session
	console *console
	ctxFunc func() context.Context
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *execCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *execCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *execCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the line.
func (c *execCommand) Run() error {
	ctx, stop := signal.NotifyContext(c.ctxFunc(), os.Interrupt)
	defer stop()

	in, out := c.stdin, c.stdout
	if in == nil {
		in = os.Stdin
	}

	if out == nil {
		out = os.Stdout
	}

	c.console.attach(in, out)
	defer c.console.detach()

	return c.sess.Exec(ctx, c.line)
}
