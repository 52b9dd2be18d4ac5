package lang

import (
	"fmt"
	"strings"
)

// TokenKind classifies a lexical token.
type TokenKind uint8

// Token kinds.
const (
	TokenEOF TokenKind = iota
	TokenNewline
	TokenLineNumber
	TokenKeyword
	TokenIdent
	TokenNumber
	TokenString
	TokenRemark
	TokenOperator
	TokenLParen
	TokenRParen
	TokenComma
	TokenSemicolon
	TokenColon
	TokenHash
)

var tokenKindName = [...]string{
	TokenEOF:        "end of input",
	TokenNewline:    "newline",
	TokenLineNumber: "line number",
	TokenKeyword:    "keyword",
	TokenIdent:      "identifier",
	TokenNumber:     "number",
	TokenString:     "string",
	TokenRemark:     "remark",
	TokenOperator:   "operator",
	TokenLParen:     "'('",
	TokenRParen:     "')'",
	TokenComma:      "','",
	TokenSemicolon:  "';'",
	TokenColon:      "':'",
	TokenHash:       "'#'",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindName) {
		return tokenKindName[k]
	}

	return fmt.Sprintf("TokenKind(%d)", k)
}

// Position is a 1-based location in source text.
type Position struct {
	Line int
	Col  int
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Col) }

// Token is a single lexical unit.
//
// Text holds the upper-cased keyword or identifier name, the operator
// spelling, the string contents, or the remark text. Number literals and line
// number markers carry their value in Value.
type Token struct {
	Kind  TokenKind
	Text  string
	Value Value
	Pos   Position
}

// Is reports whether t is the keyword or operator spelled s.
func (t Token) Is(s string) bool {
	return (t.Kind == TokenKeyword || t.Kind == TokenOperator) && t.Text == s
}

func (t Token) String() string {
	switch t.Kind {
	case TokenEOF, TokenNewline:
		return t.Kind.String()
	case TokenNumber, TokenLineNumber:
		return t.Value.AsString()
	case TokenString:
		return `"` + t.Text + `"`
	case TokenRemark:
		return "REM"
	default:
		return t.Text
	}
}

// keywords lists the reserved words of the dialect. Built-in function names
// are not reserved; they are identifiers resolved through the [Registry].
var keywords = map[string]struct{}{}

func init() {
	for _, kw := range strings.Fields(`
		PRINT INPUT LET IF THEN ELSE FOR TO STEP NEXT WHILE WEND GOTO GOSUB
		RETURN END STOP DIM READ DATA RESTORE REM CLS LOCATE COLOR SCREEN
		PSET LINE CIRCLE BEEP SOUND OPEN CLOSE AS OUTPUT APPEND RANDOM
		RANDOMIZE SWAP RUN LIST NEW CLEAR TRON TROFF
		MOD AND OR NOT XOR EQV IMP`) {
		keywords[kw] = struct{}{}
	}
}

// IsKeyword reports whether the upper-cased word is reserved.
func IsKeyword(word string) bool {
	_, ok := keywords[strings.ToUpper(word)]

	return ok
}

// Keywords returns the reserved words in no particular order.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for kw := range keywords {
		words = append(words, kw)
	}

	return words
}
