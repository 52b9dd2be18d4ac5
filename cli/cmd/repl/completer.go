package repl

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/gwbasic/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"help", "list", "vars", "edit", "save", "load", "new", "clear", "quit",
}

// isWordBoundary reports whether r separates words for completion. The type
// sigils $ % ! # belong to the identifier they end.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '(', ')', ',', ';', ':',
		'+', '-', '*', '/', '\\', '^', '=', '<', '>', '"', '\'':
		return true
	}

	return false
}

// wordBounds returns the word at cursor and its byte offsets within input.
// The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// inString reports whether offset falls inside a string literal or a remark.
func inString(input string, offset int) bool {
	quoted := false

	for i, r := range input[:offset] {
		switch {
		case r == '"':
			quoted = !quoted
		case r == '\'' && !quoted:
			return true
		case !quoted && hasWordAt(input, i, "REM"):
			return true
		}
	}

	return quoted
}

func hasWordAt(input string, i int, word string) bool {
	if i > 0 {
		if r, _ := utf8.DecodeLastRuneInString(input[:i]); !isWordBoundary(r) {
			return false
		}
	}

	end := i + len(word)
	if end > len(input) || !strings.EqualFold(input[i:end], word) {
		return false
	}

	if end == len(input) {
		return false // still typing the keyword itself
	}

	r, _ := utf8.DecodeRuneInString(input[end:])

	return isWordBoundary(r)
}

// basicCandidates returns the keywords, function names, and variable names
// known to sess.
func basicCandidates(sess *lang.Session) []string {
	names := lang.Keywords()
	names = append(names, sess.Registry().Names()...)

	for name := range sess.Vars() {
		names = append(names, name)
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. An empty word, a word starting with a digit, and a word inside a
// string literal have no matches.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	if word == "" {
		return nil, wordStart, wordEnd
	}

	var candidates []string

	if m.mode == modeCtrl {
		candidates = ctrlCommands
	} else {
		if r, _ := utf8.DecodeRuneInString(word); unicode.IsDigit(r) ||
			inString(input, wordStart) {
			return nil, wordStart, wordEnd
		}

		candidates = basicCandidates(m.sess)
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate uses the selected style while tabbing.
func renderCandidateBar(
	matches fuzzy.Matches,
	reg *lang.Registry,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		rendered := renderCandidate(match, reg, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		last := i == len(matches)-1

		reserve := ellipsisWidth
		if last {
			reserve = 0
		}

		if i > 0 && used+entryWidth+reserve > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters
// highlighted. Functions taking arguments get a "()" suffix.
func renderCandidate(match fuzzy.Match, reg *lang.Registry, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if reg != nil {
		if fn, ok := reg.Lookup(match.Str); ok && len(fn.Params) > 0 {
			b.WriteString(base.Render("()"))
		}
	}

	return b.String()
}
