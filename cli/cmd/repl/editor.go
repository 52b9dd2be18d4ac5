package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/gwbasic/lang"
	"github.com/ardnew/gwbasic/log"
)

const defaultEditor = "vi"

// editProgramCommand implements [tea.ExecCommand] for the edit-parse-retry
// loop. It writes the current listing to a temp file, opens the user's
// editor, and parses the result. On a syntax error the user is asked whether
// to re-edit; declining keeps the program unchanged.
type editProgramCommand struct {
	prog    *lang.Program
	ctxFunc func() context.Context
	logger  log.Logger
	edited  *lang.Program
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editProgramCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editProgramCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editProgramCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop. An emptied file leaves edited nil.
func (c *editProgramCommand) Run() error {
	ctx := c.ctxFunc()

	var buf bytes.Buffer
	if err := c.prog.Format(ctx, &buf); err != nil {
		return fmt.Errorf("format program: %w", err)
	}

	f, err := os.CreateTemp("", "gwbasic-edit-*.bas")
	if err != nil {
		return err
	}

	path := f.Name()
	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	content := buf.Bytes()

	for {
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		content, err = os.ReadFile(path)
		if err != nil {
			return err
		}

		if len(bytes.TrimSpace(content)) == 0 {
			return nil
		}

		prog, parseErr := lang.Parse(string(content))
		if parseErr == nil {
			parseErr = requireNumbered(prog)
		}

		c.logger.TraceContext(ctx, "editor parse attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", parseErr == nil),
		)

		if parseErr == nil {
			c.edited = prog

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", parseErr)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		if !confirm(c.stdin) {
			return ErrEditDeclined
		}
	}
}

// requireNumbered rejects a program containing direct statements, which
// would run on load instead of being stored.
func requireNumbered(prog *lang.Program) error {
	for _, ln := range prog.Lines {
		if !ln.Numbered {
			return lang.ErrLineNumber.Errorf("Direct statement in file: %s", lang.FormatLine(ln))
		}
	}

	return nil
}

// confirm reads a yes/no answer, defaulting to yes.
func confirm(r io.Reader) bool {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "n", "no":
		return false
	}

	return true
}

// runEditor runs $EDITOR on path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	args := append(strings.Fields(editor), path)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
