package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/gwbasic/lang"
)

// Styles for parameter hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	signatureSeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// functionCall is a call whose argument list contains the cursor.
type functionCall struct {
	name     string // identifier before the open paren, upper-cased
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

func isIdentRune(r rune) bool {
	switch r {
	case '$', '%', '!', '#', '.':
		return true
	}

	return r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// detectFunctionCall finds the innermost unclosed paren before cursor and
// the identifier preceding it. Parens inside string literals are ignored.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	var (
		opens  []int // offsets of unclosed parens
		commas []int // comma count per open paren
		quoted bool
	)

	for i, r := range input[:cursor] {
		if r == '"' {
			quoted = !quoted

			continue
		}

		if quoted {
			continue
		}

		switch r {
		case '(':
			opens = append(opens, i)
			commas = append(commas, 0)
		case ')':
			if n := len(opens); n > 0 {
				opens, commas = opens[:n-1], commas[:n-1]
			}
		case ',':
			if n := len(commas); n > 0 {
				commas[n-1]++
			}
		}
	}

	if len(opens) == 0 {
		return functionCall{}
	}

	open := opens[len(opens)-1]

	start := open
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isIdentRune(r) {
			break
		}

		start -= size
	}

	name := strings.ToUpper(input[start:open])
	if name == "" {
		return functionCall{}
	}

	return functionCall{
		name:     name,
		argIndex: commas[len(commas)-1],
		inCall:   true,
	}
}

// renderSignatureHint renders fn's call form with the parameter at argIndex
// highlighted. Optional parameters are bracketed.
func renderSignatureHint(fn *lang.Builtin, argIndex int) string {
	if fn == nil {
		return ""
	}

	if len(fn.Params) == 0 {
		return signatureNameStyle.Render(fn.Name)
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(fn.Name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range fn.Params {
		if i > 0 {
			b.WriteString(signatureSeparatorStyle.Render(", "))
		}

		if i >= fn.Min {
			param = "[" + param + "]"
		}

		if i == argIndex {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
