package lang

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxLineNumber is the largest line number accepted in a program.
const MaxLineNumber = 65529

// Tokenize splits src into tokens. The result always ends with a TokenEOF.
func Tokenize(src string) ([]Token, error) {
	lx := &lexer{input: src, line: 1, col: 1, lineStart: true}

	var toks []Token

	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)

		if tok.Kind == TokenEOF {
			return toks, nil
		}
	}
}

// lexer holds the scanner state.
type lexer struct {
	input     string
	pos       int
	line      int
	col       int
	lineStart bool // no token emitted yet on the current physical line
}

func (lx *lexer) eof() bool { return lx.pos >= len(lx.input) }

func (lx *lexer) peek() rune {
	if lx.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(lx.input[lx.pos:])

	return r
}

func (lx *lexer) peekAt(offset int) rune {
	if lx.pos+offset >= len(lx.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(lx.input[lx.pos+offset:])

	return r
}

func (lx *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(lx.input[lx.pos:])
	lx.pos += size

	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}

	return r
}

func (lx *lexer) position() Position { return Position{Line: lx.line, Col: lx.col} }

func (lx *lexer) errorf(pos Position, text, format string, args ...any) error {
	return ErrSyntax.Errorf(format, args...).With(
		slog.String("text", text),
		slog.Int("src_line", pos.Line),
		slog.Int("src_col", pos.Col),
	)
}

func (lx *lexer) next() (Token, error) {
	lx.skipBlanks()

	pos := lx.position()

	if lx.eof() {
		return Token{Kind: TokenEOF, Pos: pos}, nil
	}

	start := lx.lineStart
	lx.lineStart = false

	r := lx.peek()

	switch {
	case r == '\n':
		lx.advance()
		lx.lineStart = true

		return Token{Kind: TokenNewline, Text: "\n", Pos: pos}, nil

	case start && isDigit(r):
		return lx.lineNumber(pos)

	case isDigit(r) || (r == '.' && isDigit(lx.peekAt(1))):
		return lx.number(pos)

	case r == '&':
		return lx.radix(pos)

	case isLetter(r):
		return lx.word(pos)

	case r == '"':
		return lx.str(pos)

	case r == '\'':
		lx.advance()

		return Token{Kind: TokenRemark, Text: lx.rest(), Value: StringValue("'"), Pos: pos}, nil

	case r == '?':
		lx.advance()

		return Token{Kind: TokenKeyword, Text: "PRINT", Pos: pos}, nil
	}

	lx.advance()

	switch r {
	case '(':
		return Token{Kind: TokenLParen, Text: "(", Pos: pos}, nil
	case ')':
		return Token{Kind: TokenRParen, Text: ")", Pos: pos}, nil
	case ',':
		return Token{Kind: TokenComma, Text: ",", Pos: pos}, nil
	case ';':
		return Token{Kind: TokenSemicolon, Text: ";", Pos: pos}, nil
	case ':':
		return Token{Kind: TokenColon, Text: ":", Pos: pos}, nil
	case '#':
		return Token{Kind: TokenHash, Text: "#", Pos: pos}, nil
	case '+', '-', '*', '/', '\\', '^', '=':
		return Token{Kind: TokenOperator, Text: string(r), Pos: pos}, nil
	case '<':
		switch lx.peek() {
		case '>', '=':
			return Token{Kind: TokenOperator, Text: "<" + string(lx.advance()), Pos: pos}, nil
		}

		return Token{Kind: TokenOperator, Text: "<", Pos: pos}, nil
	case '>':
		if lx.peek() == '=' {
			lx.advance()

			return Token{Kind: TokenOperator, Text: ">=", Pos: pos}, nil
		}

		return Token{Kind: TokenOperator, Text: ">", Pos: pos}, nil
	}

	return Token{}, lx.errorf(pos, string(r), "Unexpected character %q", r)
}

// skipBlanks skips spaces, tabs, and carriage returns. Newlines are tokens.
func (lx *lexer) skipBlanks() {
	for !lx.eof() {
		switch lx.peek() {
		case ' ', '\t', '\r', '\f', '\v':
			lx.advance()
		default:
			return
		}
	}
}

// rest consumes and returns the remainder of the physical line, excluding the
// newline itself.
func (lx *lexer) rest() string {
	begin := lx.pos
	for !lx.eof() && lx.peek() != '\n' {
		lx.advance()
	}

	return strings.TrimRight(lx.input[begin:lx.pos], "\r")
}

func (lx *lexer) digits() string {
	begin := lx.pos
	for isDigit(lx.peek()) {
		lx.advance()
	}

	return lx.input[begin:lx.pos]
}

func (lx *lexer) lineNumber(pos Position) (Token, error) {
	text := lx.digits()

	n, err := strconv.Atoi(text)
	if err != nil || n > MaxLineNumber {
		return Token{}, lx.errorf(pos, text, "Illegal line number %s", text)
	}

	return Token{
		Kind:  TokenLineNumber,
		Text:  text,
		Value: IntegerValue(int32(n)),
		Pos:   pos,
	}, nil
}

func (lx *lexer) number(pos Position) (Token, error) {
	begin := lx.pos
	float := false

	lx.digits()

	if lx.peek() == '.' {
		float = true

		lx.advance()
		lx.digits()
	}

	// Exponent: E or D, optional sign, at least one digit.
	if e := lx.peek(); e == 'e' || e == 'E' || e == 'd' || e == 'D' {
		off := 1
		if s := lx.peekAt(1); s == '+' || s == '-' {
			off = 2
		}

		if isDigit(lx.peekAt(off)) {
			float = true

			for range off {
				lx.advance()
			}

			lx.digits()
		}
	}

	text := lx.input[begin:lx.pos]
	norm := strings.NewReplacer("d", "e", "D", "e").Replace(text)

	suffix := lx.peek()
	switch suffix {
	case '%', '!', '#':
		lx.advance()
	default:
		suffix = 0
	}

	f, err := strconv.ParseFloat(norm, 64)
	if err != nil {
		return Token{}, lx.errorf(pos, text, "Malformed number %s", text)
	}

	var v Value

	switch {
	case suffix == '%':
		if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
			return Token{}, lx.errorf(pos, text, "Overflow in integer literal %s", text)
		}

		v = IntegerValue(int32(f))

	case suffix == '!':
		if math.Abs(f) > math.MaxFloat32 {
			return Token{}, lx.errorf(pos, text, "Overflow in single literal %s", text)
		}

		v = SingleValue(float32(f))

	case suffix == '#' || float || f > math.MaxInt32:
		v = DoubleValue(f)

	default:
		v = IntegerValue(int32(f))
	}

	return Token{Kind: TokenNumber, Text: text, Value: v, Pos: pos}, nil
}

// radix scans &H (hexadecimal) and &O or bare & (octal) literals.
func (lx *lexer) radix(pos Position) (Token, error) {
	lx.advance() // '&'

	base := 8

	switch lx.peek() {
	case 'h', 'H':
		base = 16

		lx.advance()
	case 'o', 'O':
		lx.advance()
	}

	begin := lx.pos
	for isDigit(lx.peek()) || (base == 16 && strings.ContainsRune("abcdefABCDEF", lx.peek())) {
		lx.advance()
	}

	text := lx.input[begin:lx.pos]

	n, err := strconv.ParseUint(text, base, 32)
	if err != nil || text == "" {
		return Token{}, lx.errorf(pos, "&"+text, "Malformed radix literal &%s", text)
	}

	return Token{
		Kind:  TokenNumber,
		Text:  "&" + text,
		Value: IntegerValue(int32(uint32(n))),
		Pos:   pos,
	}, nil
}

func (lx *lexer) word(pos Position) (Token, error) {
	begin := lx.pos
	for r := lx.peek(); isLetter(r) || isDigit(r) || r == '.'; r = lx.peek() {
		lx.advance()
	}

	name := strings.ToUpper(lx.input[begin:lx.pos])

	if _, ok := keywords[name]; ok {
		if name == "REM" {
			return Token{
				Kind:  TokenRemark,
				Text:  strings.TrimPrefix(lx.rest(), " "),
				Value: StringValue(name),
				Pos:   pos,
			}, nil
		}

		return Token{Kind: TokenKeyword, Text: name, Pos: pos}, nil
	}

	switch r := lx.peek(); r {
	case '$', '%', '!', '#':
		lx.advance()

		name += string(r)
	}

	return Token{Kind: TokenIdent, Text: name, Pos: pos}, nil
}

func (lx *lexer) str(pos Position) (Token, error) {
	lx.advance() // opening quote

	begin := lx.pos
	for {
		if lx.eof() || lx.peek() == '\n' {
			text := lx.input[begin-1 : lx.pos]

			return Token{}, lx.errorf(pos, text, "Unterminated string literal %s", text)
		}

		if lx.peek() == '"' {
			break
		}

		lx.advance()
	}

	text := lx.input[begin:lx.pos]
	lx.advance() // closing quote

	return Token{Kind: TokenString, Text: text, Value: StringValue(text), Pos: pos}, nil
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isLetter(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
