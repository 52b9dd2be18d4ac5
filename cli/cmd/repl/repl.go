package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/gwbasic/lang"
	"github.com/ardnew/gwbasic/log"
)

// execDoneMsg is sent when a direct-mode line finishes.
type execDoneMsg struct{ err error }

// editDoneMsg is sent when the program was edited successfully.
type editDoneMsg struct{ prog *lang.Program }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a syntax
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-parse error.
type editErrorMsg struct{ err error }

const (
	basicPrompt = "➜ "
	ctrlPrompt  = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help          Print this cruft
  list [a-b]    List program lines, optionally a range
  vars          List variables
  edit          Edit the program in external $EDITOR
  save FILE     Write the program listing to FILE
  load FILE     Replace the program with the lines in FILE
  new           Erase the program and variables
  clear         Clear screen
  quit          Exit REPL

Usage:
  A numbered line adds, replaces, or (when empty) deletes that program line
  Any other line runs immediately; RUN runs the program
  Press Ctrl+C while a statement runs to break
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between BASIC and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Use Alt+Up/Alt+Down to switch to command mode and navigate command history
    (restores original mode when reaching end of history)
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeBasic inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// formatCommand formats the echo line of a BASIC input.
func formatCommand(input string) string {
	return promptStyle.Render(basicPrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the echo line of a control command.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc          func() context.Context
	input            textinput.Model
	sess             *lang.Session
	console          *console
	logger           log.Logger
	history          *History
	historyIdx       int
	matches          fuzzy.Matches // current fuzzy match results
	wordStart        int           // byte offset of current word start
	wordEnd          int           // byte offset of current word end
	suggIdx          int           // selected candidate index
	tabActive        bool          // whether user is tab-cycling
	preTabText       string        // input text before tab-cycling began
	preTabCursor     int           // cursor position before tab-cycling began
	altNavActive     bool          // whether user is in Alt+Up/Down navigation
	altNavOrigMode   inputMode     // original mode before Alt navigation
	altNavOrigText   string        // original text before Alt navigation
	altNavOrigCursor int           // original cursor position before Alt navigation
	width            int           // terminal width for ellipsization
	quitting         bool
	mode             inputMode
	basicText        string
	basicCursor      int
	ctrlText         string
	ctrlCursor       int
}

// Run starts the REPL. Lines read from source, if any, are loaded first;
// opts configure the session.
func Run(
	ctx context.Context,
	source io.Reader,
	cacheDir string,
	logger log.Logger,
	opts ...lang.Option,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cacheDir),
		slog.Bool("has_source", source != nil),
	)

	con := newConsole()
	sess := lang.New(append(opts,
		lang.WithLogger(logger),
		lang.WithOutput(con),
		lang.WithInput(con),
	)...)

	if source != nil {
		if err := sess.LoadReader(ctx, source); err != nil {
			return err
		}
	}

	logger.TraceContext(ctx, "repl program loaded",
		slog.Int("line_count", len(sess.Lines())),
	)

	var histPath string
	if cacheDir != "" {
		histPath = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(histPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, sess, con, history, logger)

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	sess *lang.Session,
	con *console,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(basicPrompt)
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		sess:       sess,
		console:    con,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeBasic,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(basicPrompt) - 2

		return m, nil

	case execDoneMsg:
		return m, tea.Println(m.execResult(msg.err))

	case editDoneMsg:
		return m.replaceProgram(msg.prog, "✔ program updated")

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		return m, tea.Println(hintStyle.Render("edit discarded; program unchanged"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()

	switch call := detectFunctionCall(input, m.input.Position()); {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		b.WriteString(hintStyle.Render(m.emptyHint()))

	case call.inCall && m.mode == modeBasic && m.signature(call) != "":
		b.WriteString(m.signature(call))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(
			m.matches, m.sess.Registry(), m.suggIdx, m.tabActive, m.width,
		))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) emptyHint() string {
	if m.mode == modeCtrl {
		return "Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"
	}

	if n := len(m.sess.Lines()); n > 0 {
		return fmt.Sprintf("%d lines in program; type a statement or press Esc for commands", n)
	}

	return "Type a statement or numbered line, or press Esc for commands"
}

func (m model) signature(call functionCall) string {
	fn, ok := m.sess.Registry().Lookup(call.name)
	if !ok {
		return ""
	}

	return renderSignatureHint(fn, call.argIndex)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.tabActive = false
		m.altNavActive = false
		m.historyIdx = m.history.Len()
		m.setInput("", 0)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		m.altNavActive = false

		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(+1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		if msg.Alt {
			return m.historyCtrl(-1), nil
		}

		m, _ = m.seek(-1, anyMode)

		return m, nil

	case tea.KeyDown:
		if msg.Alt {
			return m.historyCtrl(+1), nil
		}

		return m.seekOrReset(+1, anyMode), nil

	case tea.KeyShiftUp:
		m, _ = m.seek(-1, inMode(m.mode))

		return m, nil

	case tea.KeyShiftDown:
		return m.seekOrReset(+1, inMode(m.mode)), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.setInput(m.preTabText, m.preTabCursor)

			return m, nil
		}

		m.altNavActive = false

		if m.mode == modeBasic {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeBasic), nil

	case tea.KeyRunes, tea.KeySpace:
		// Space accepts the candidate being cycled.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Any other key (backspace, delete, arrows) edits without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.altNavActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step, starting a new cycle if needed.
// A single candidate completes immediately.
func (m model) cycle(step int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + n) % n
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word in the input with
// replacement and moves the cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// With autoConfirm, a word that already spells the sole candidate (in any
// case) is replaced by it, which upper-cases typed keywords.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	candidate := m.matches[0].Str
	word := m.input.Value()[m.wordStart:m.wordEnd]

	if strings.EqualFold(word, candidate) {
		replaceCurrentWord(m, candidate)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

// setInput replaces the input text and recomputes matches.
func (m *model) setInput(text string, cursor int) {
	m.input.SetValue(text)
	m.input.SetCursor(cursor)
	refreshMatches(m, false)
}

// isNumbered reports whether input begins with a line number.
func isNumbered(input string) bool {
	return input != "" && unicode.IsDigit(rune(input[0]))
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	mode := m.mode

	m.basicText, m.basicCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.setInput("", 0)

	if err := m.history.Add(input, mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	m.logger.TraceContext(m.ctxFunc(), "repl input",
		slog.String("input", input),
		slog.Bool("command", mode == modeCtrl),
	)

	if mode == modeCtrl {
		return m.executeCommand(input)
	}

	echo := tea.Println(formatCommand(input))

	// Storing a line prints nothing, so it runs without releasing the screen.
	if isNumbered(input) {
		if err := m.sess.Exec(m.ctxFunc(), input); err != nil {
			return m, tea.Sequence(echo, tea.Println(errorStyle.Render(err.Error())))
		}

		return m, echo
	}

	cmd := &execCommand{
		line:    input,
		sess:    m.sess,
		console: m.console,
		ctxFunc: m.ctxFunc,
	}

	return m, tea.Sequence(echo, tea.Exec(cmd, func(err error) tea.Msg {
		return execDoneMsg{err: err}
	}))
}

// execResult renders the outcome of a direct-mode line.
func (m model) execResult(err error) string {
	switch {
	case err == nil:
		return resultStyle.Render("Ok")

	case errors.Is(err, context.Canceled):
		if line := m.sess.CurrentLine(); line >= 0 {
			return errorStyle.Render(fmt.Sprintf("Break in %d", line))
		}

		return errorStyle.Render("Break")

	default:
		return errorStyle.Render(err.Error())
	}
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echo := tea.Println(formatCtrlCommand(input))
	name, args := parts[0], parts[1:]

	m.logger.TraceContext(m.ctxFunc(), "repl exec command",
		slog.String("command", name),
		slog.Any("args", args),
	)

	reply := func(text string, err error) (model, tea.Cmd) {
		if err != nil {
			return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
		}

		return m, tea.Sequence(echo, tea.Println(text))
	}

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return reply(helpMessage(), nil)

	case "l", "list":
		return reply(m.listing(args))

	case "v", "vars":
		return reply(m.variables(), nil)

	case "s", "save":
		return reply(m.save(args))

	case "load":
		prog, err := m.load(args)
		if err != nil {
			return reply("", err)
		}

		var cmd tea.Cmd

		m, cmd = m.replaceProgram(prog, "✔ loaded "+args[0])

		return m, tea.Sequence(echo, cmd)

	case "new":
		return reply(resultStyle.Render("Ok"), m.sess.Exec(m.ctxFunc(), "NEW"))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return reply("", fmt.Errorf("%w: %s (try 'help')", ErrNoCommand, name))
	}
}

// listing renders the program, optionally limited to a range "a-b", "a-",
// "-b", or "a".
func (m model) listing(args []string) (string, error) {
	from, to := 0, lang.MaxLineNumber

	if len(args) > 0 {
		var err error

		from, to, err = parseRange(args[0])
		if err != nil {
			return "", err
		}
	}

	var b strings.Builder
	if err := m.sess.List(&b, from, to); err != nil {
		return "", err
	}

	return strings.TrimSuffix(b.String(), "\n"), nil
}

func parseRange(s string) (from, to int, err error) {
	lo, hi, ranged := strings.Cut(s, "-")

	from, to = 0, lang.MaxLineNumber

	if lo != "" {
		if from, err = strconv.Atoi(lo); err != nil {
			return 0, 0, fmt.Errorf("%w: list [from][-to]", ErrUsage)
		}
	}

	switch {
	case !ranged:
		to = from
	case hi != "":
		if to, err = strconv.Atoi(hi); err != nil {
			return 0, 0, fmt.Errorf("%w: list [from][-to]", ErrUsage)
		}
	}

	return from, to, nil
}

// variables renders every variable as NAME = literal, sorted by name.
func (m model) variables() string {
	vars := m.sess.Vars()
	if len(vars) == 0 {
		return hintStyle.Render("no variables")
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}

	slices.Sort(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteString("\n")
		}

		fmt.Fprintf(&b, "  %s = %s", name, resultStyle.Render(vars[name].Literal()))
	}

	return b.String()
}

func (m model) save(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: save FILE", ErrUsage)
	}

	f, err := os.Create(args[0])
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := m.sess.Program().Format(m.ctxFunc(), f); err != nil {
		return "", err
	}

	return resultStyle.Render(fmt.Sprintf("✔ saved %d lines to %s", len(m.sess.Lines()), args[0])), nil
}

func (m model) load(args []string) (*lang.Program, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: load FILE", ErrUsage)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()

	prog, err := lang.ParseReader(f)
	if err != nil {
		return nil, err
	}

	return prog, requireNumbered(prog)
}

// replaceProgram erases the session and loads prog in its place.
func (m model) replaceProgram(prog *lang.Program, done string) (model, tea.Cmd) {
	ctx := m.ctxFunc()

	err := m.sess.Exec(ctx, "NEW")
	if err == nil {
		err = m.sess.Load(ctx, prog)
	}

	if err != nil {
		return m, tea.Println(errorStyle.Render("error: " + err.Error()))
	}

	m.logger.TraceContext(ctx, "repl program replaced",
		slog.Int("line_count", len(m.sess.Lines())),
	)

	return m, tea.Println(resultStyle.Render(done))
}

func (m model) edit() tea.Cmd {
	cmd := &editProgramCommand{
		prog:    m.sess.Program(),
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.edited == nil:
			return editCancelledMsg{}
		default:
			return editDoneMsg{prog: cmd.edited}
		}
	})
}

func anyMode(HistoryEntry) bool { return true }

func inMode(mode inputMode) func(HistoryEntry) bool {
	return func(e HistoryEntry) bool { return e.Mode == mode }
}

// seek moves through history by step to the next entry accepted by keep,
// switching to its mode. It reports whether one was found.
func (m model) seek(step int, keep func(HistoryEntry) bool) (model, bool) {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		e, err := m.history.Entry(i)
		if err != nil || !keep(e) {
			continue
		}

		if m.mode != e.Mode {
			m = m.switchToMode(e.Mode)
		}

		m.historyIdx = i
		m.setInput(e.Line, len(e.Line))

		return m, true
	}

	return m, false
}

// seekOrReset is seek that returns to an empty line past the newest entry.
func (m model) seekOrReset(step int, keep func(HistoryEntry) bool) model {
	m, ok := m.seek(step, keep)
	if !ok && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.setInput("", 0)
	}

	return m
}

// historyCtrl walks command history only. The first step saves the current
// mode and input, and running off either end restores them.
func (m model) historyCtrl(step int) model {
	if !m.altNavActive {
		m.altNavActive = true
		m.altNavOrigMode = m.mode
		m.altNavOrigText = m.input.Value()
		m.altNavOrigCursor = m.input.Position()

		if m.mode != modeCtrl {
			m = m.switchToMode(modeCtrl)
		}
	}

	m, ok := m.seek(step, inMode(modeCtrl))
	if ok {
		return m
	}

	m.altNavActive = false
	if m.altNavOrigMode != m.mode {
		m = m.switchToMode(m.altNavOrigMode)
	}

	m.historyIdx = m.history.Len()
	m.setInput(m.altNavOrigText, m.altNavOrigCursor)

	return m
}

// switchToMode switches to mode, saving the input of the current mode and
// restoring that of the new one.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeBasic {
		m.basicText, m.basicCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode

	if mode == modeBasic {
		m.input.Prompt = promptStyle.Render(basicPrompt)
		m.setInput(m.basicText, m.basicCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.setInput(m.ctrlText, m.ctrlCursor)
	}

	return m
}
