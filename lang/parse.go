package lang

import (
	"io"
	"log/slog"
	"strings"
)

// ParseReader parses a program from an io.Reader.
func ParseReader(r io.Reader) (*Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrIO.Wrap(err)
	}

	return Parse(string(data))
}

// Parse parses a program from source text.
func Parse(src string) (*Program, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}

	return p.parseProgram()
}

// parser holds the parser state.
type parser struct {
	toks []Token
	pos  int

	ifDepth    int // open IF branches; ELSE terminates a block
	whileDepth int // open WHILE bodies; WEND terminates a block
}

func (p *parser) peek() Token { return p.toks[p.pos] }

func (p *parser) advance() Token {
	t := p.toks[p.pos]
	if t.Kind != TokenEOF {
		p.pos++
	}

	return t
}

// accept consumes the next token if it is the keyword or operator s.
func (p *parser) accept(s string) bool {
	if p.peek().Is(s) {
		p.advance()

		return true
	}

	return false
}

// acceptKind consumes the next token if it has kind k.
func (p *parser) acceptKind(k TokenKind) bool {
	if p.peek().Kind == k {
		p.advance()

		return true
	}

	return false
}

func (p *parser) errorf(t Token, format string, args ...any) error {
	return ErrSyntax.Errorf(format, args...).With(
		slog.String("token", t.String()),
		slog.Int("src_line", t.Pos.Line),
		slog.Int("src_col", t.Pos.Col),
	)
}

func (p *parser) unexpected(t Token) error {
	return p.errorf(t, "Unexpected token: %s", t)
}

func (p *parser) expectKind(k TokenKind, what string) (Token, error) {
	t := p.peek()
	if t.Kind != k {
		return t, p.errorf(t, "Expected %s", what)
	}

	return p.advance(), nil
}

// atStmtEnd reports whether the next token ends the current statement.
func (p *parser) atStmtEnd() bool {
	t := p.peek()

	switch t.Kind {
	case TokenEOF, TokenNewline, TokenColon, TokenRemark:
		return true
	case TokenKeyword:
		return t.Text == "ELSE" || t.Text == "WEND"
	}

	return false
}

// parseProgram parses every physical line of the input.
func (p *parser) parseProgram() (*Program, error) {
	prog := new(Program)

	for {
		for p.acceptKind(TokenNewline) {
		}

		if p.peek().Kind == TokenEOF {
			return prog, nil
		}

		ln, err := p.parseLine()
		if err != nil {
			return nil, err
		}

		prog.Lines = append(prog.Lines, ln)
	}
}

// parseLine parses: [LineNumber] Statements (Newline | EOF).
func (p *parser) parseLine() (*Line, error) {
	ln := &Line{Pos: p.peek().Pos}

	if t := p.peek(); t.Kind == TokenLineNumber {
		p.advance()

		ln.Numbered = true
		ln.Number = int(t.Value.i)
	}

	stmts, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	ln.Stmts = stmts

	switch t := p.peek(); t.Kind {
	case TokenNewline:
		p.advance()
	case TokenEOF:
	default:
		return nil, p.unexpected(t)
	}

	return ln, nil
}

// parseBlock parses colon-separated statements up to the end of the
// physical line, or up to an ELSE or WEND that closes an enclosing IF or
// WHILE.
func (p *parser) parseBlock() ([]Stmt, error) {
	var stmts []Stmt

	for {
		t := p.peek()

		switch t.Kind {
		case TokenEOF, TokenNewline:
			return stmts, nil

		case TokenColon:
			p.advance()

			continue

		case TokenKeyword:
			switch {
			case t.Text == "ELSE" && p.ifDepth > 0:
				return stmts, nil
			case t.Text == "WEND" && p.whileDepth > 0:
				return stmts, nil
			case t.Text == "WEND":
				return nil, p.errorf(t, "WEND without WHILE")
			case t.Text == "ELSE":
				return nil, p.unexpected(t)
			}
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, stmt)

		if !p.atStmtEnd() {
			return nil, p.unexpected(p.peek())
		}
	}
}

// parseStatement dispatches on the leading token of a statement.
func (p *parser) parseStatement() (Stmt, error) {
	t := p.peek()

	switch t.Kind {
	case TokenRemark:
		p.advance()

		return &RemStmt{Text: t.Text, Quote: t.Value.AsString() == "'"}, nil

	case TokenIdent:
		return p.parseLet(true)

	case TokenKeyword:
	default:
		return nil, p.unexpected(t)
	}

	switch t.Text {
	case "PRINT":
		return p.parsePrint()
	case "INPUT":
		return p.parseInput()
	case "LET":
		p.advance()

		return p.parseLet(false)
	case "IF":
		return p.parseIf()
	case "FOR":
		return p.parseFor()
	case "NEXT":
		return p.parseNext()
	case "WHILE":
		return p.parseWhile()
	case "GOTO":
		p.advance()

		n, err := p.parseLineRef("GOTO")
		if err != nil {
			return nil, err
		}

		return &GotoStmt{Line: n}, nil
	case "GOSUB":
		p.advance()

		n, err := p.parseLineRef("GOSUB")
		if err != nil {
			return nil, err
		}

		return &GosubStmt{Line: n}, nil
	case "RETURN":
		p.advance()

		return &ReturnStmt{}, nil
	case "END":
		p.advance()

		return &EndStmt{}, nil
	case "STOP":
		p.advance()

		return &StopStmt{}, nil
	case "DIM":
		return p.parseDim()
	case "READ":
		p.advance()

		vars, err := p.parseNames()
		if err != nil {
			return nil, err
		}

		return &ReadStmt{Vars: vars}, nil
	case "DATA":
		return p.parseData()
	case "RESTORE":
		p.advance()

		s := new(RestoreStmt)
		if !p.atStmtEnd() {
			n, err := p.parseLineRef("RESTORE")
			if err != nil {
				return nil, err
			}

			s.Line, s.HasLine = n, true
		}

		return s, nil
	case "CLS":
		p.advance()

		return &ClsStmt{}, nil
	case "LOCATE":
		p.advance()

		exprs, err := p.parseExprList(2, 2, "LOCATE")
		if err != nil {
			return nil, err
		}

		return &LocateStmt{Row: exprs[0], Col: exprs[1]}, nil
	case "COLOR":
		return p.parseColor()
	case "SCREEN":
		p.advance()

		mode, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		return &ScreenStmt{Mode: mode}, nil
	case "PSET":
		return p.parsePset()
	case "LINE":
		return p.parseLineDraw()
	case "CIRCLE":
		return p.parseCircle()
	case "BEEP":
		p.advance()

		return &BeepStmt{}, nil
	case "SOUND":
		p.advance()

		exprs, err := p.parseExprList(2, 2, "SOUND")
		if err != nil {
			return nil, err
		}

		return &SoundStmt{Freq: exprs[0], Duration: exprs[1]}, nil
	case "OPEN":
		return p.parseOpen()
	case "CLOSE":
		return p.parseClose()
	case "RANDOMIZE":
		p.advance()

		s := new(RandomizeStmt)
		if !p.atStmtEnd() {
			seed, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			s.Seed = seed
		}

		return s, nil
	case "SWAP":
		p.advance()

		names, err := p.parseNames()
		if err != nil {
			return nil, err
		}

		if len(names) != 2 {
			return nil, p.errorf(t, "SWAP requires two variables")
		}

		return &SwapStmt{A: names[0], B: names[1]}, nil
	case "RUN":
		p.advance()

		s := new(RunStmt)
		if !p.atStmtEnd() {
			n, err := p.parseLineRef("RUN")
			if err != nil {
				return nil, err
			}

			s.Line, s.HasLine = n, true
		}

		return s, nil
	case "LIST":
		return p.parseList()
	case "NEW":
		p.advance()

		return &NewStmt{}, nil
	case "CLEAR":
		p.advance()

		return &ClearStmt{}, nil
	case "TRON", "TROFF":
		p.advance()

		return &TraceStmt{On: t.Text == "TRON"}, nil
	}

	return nil, p.unexpected(t)
}

func (p *parser) parsePrint() (Stmt, error) {
	p.advance() // PRINT

	s := new(PrintStmt)

	if p.acceptKind(TokenHash) {
		num, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expectKind(TokenComma, "',' after file number"); err != nil {
			return nil, err
		}

		s.File = num
	}

	for !p.atStmtEnd() {
		if p.acceptKind(TokenSemicolon) || p.acceptKind(TokenComma) {
			continue
		}

		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		s.Exprs = append(s.Exprs, e)
	}

	return s, nil
}

func (p *parser) parseInput() (Stmt, error) {
	p.advance() // INPUT

	s := new(InputStmt)

	if p.acceptKind(TokenHash) {
		num, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expectKind(TokenComma, "',' after file number"); err != nil {
			return nil, err
		}

		s.File = num
	} else if t := p.peek(); t.Kind == TokenString {
		p.advance()

		s.Prompt = t.Text

		if !p.acceptKind(TokenSemicolon) && !p.acceptKind(TokenComma) {
			return nil, p.errorf(p.peek(), "Expected ';' after INPUT prompt")
		}
	}

	vars, err := p.parseNames()
	if err != nil {
		return nil, err
	}

	s.Vars = vars

	return s, nil
}

func (p *parser) parseLet(implicit bool) (Stmt, error) {
	name, err := p.expectKind(TokenIdent, "variable name")
	if err != nil {
		return nil, err
	}

	if !p.accept("=") {
		return nil, p.errorf(p.peek(), "Expected '=' in assignment")
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &LetStmt{Name: name.Text, Value: value, Implicit: implicit}, nil
}

func (p *parser) parseIf() (Stmt, error) {
	p.advance() // IF

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	s := &IfStmt{Cond: cond}

	switch {
	case p.accept("THEN"):
	case p.peek().Is("GOTO"):
		// IF cond GOTO n
	default:
		return nil, p.errorf(p.peek(), "Expected THEN after IF condition")
	}

	p.ifDepth++
	s.Then, err = p.parseBranch()
	p.ifDepth--

	if err != nil {
		return nil, err
	}

	if p.accept("ELSE") {
		s.Else, err = p.parseBranch()
		if err != nil {
			return nil, err
		}
	}

	return s, nil
}

// parseBranch parses the statements of an IF branch. A bare line number is
// shorthand for GOTO.
func (p *parser) parseBranch() ([]Stmt, error) {
	if t := p.peek(); t.Kind == TokenNumber {
		n, err := p.parseLineRef("THEN")
		if err != nil {
			return nil, err
		}

		return []Stmt{&GotoStmt{Line: n}}, nil
	}

	return p.parseBlock()
}

func (p *parser) parseFor() (Stmt, error) {
	p.advance() // FOR

	name, err := p.expectKind(TokenIdent, "variable name in FOR statement")
	if err != nil {
		return nil, err
	}

	if !p.accept("=") {
		return nil, p.errorf(p.peek(), "Expected '=' in FOR statement")
	}

	s := &ForStmt{Var: name.Text}

	if s.Start, err = p.parseExpr(); err != nil {
		return nil, err
	}

	if !p.accept("TO") {
		return nil, p.errorf(p.peek(), "Expected TO in FOR statement")
	}

	if s.End, err = p.parseExpr(); err != nil {
		return nil, err
	}

	if p.accept("STEP") {
		if s.Step, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (p *parser) parseNext() (Stmt, error) {
	p.advance() // NEXT

	s := new(NextStmt)
	if p.atStmtEnd() {
		return s, nil
	}

	vars, err := p.parseNames()
	if err != nil {
		return nil, err
	}

	s.Vars = vars

	return s, nil
}

func (p *parser) parseWhile() (Stmt, error) {
	p.advance() // WHILE

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	s := &WhileStmt{Cond: cond}

	p.whileDepth++
	s.Body, err = p.parseBlock()
	p.whileDepth--

	if err != nil {
		return nil, err
	}

	s.Wend = p.accept("WEND")

	return s, nil
}

// parseLineRef parses a line number operand of the named statement.
func (p *parser) parseLineRef(stmt string) (int, error) {
	t := p.peek()
	if t.Kind != TokenNumber || t.Value.Kind() != KindInteger ||
		t.Value.i < 0 || t.Value.i > MaxLineNumber {
		return 0, p.errorf(t, "Expected line number after %s", stmt)
	}

	p.advance()

	return int(t.Value.i), nil
}

func (p *parser) parseDim() (Stmt, error) {
	p.advance() // DIM

	s := new(DimStmt)

	for {
		name, err := p.expectKind(TokenIdent, "array name in DIM statement")
		if err != nil {
			return nil, err
		}

		if _, err := p.expectKind(TokenLParen, "'(' in DIM statement"); err != nil {
			return nil, err
		}

		arr := &CallExpr{Name: name.Text}

		for {
			dim, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			arr.Args = append(arr.Args, dim)

			if p.acceptKind(TokenComma) {
				continue
			}

			if p.acceptKind(TokenRParen) {
				break
			}

			return nil, p.errorf(p.peek(), "Expected ',' or ')' in DIM statement")
		}

		s.Arrays = append(s.Arrays, arr)

		if !p.acceptKind(TokenComma) {
			return s, nil
		}
	}
}

func (p *parser) parseData() (Stmt, error) {
	p.advance() // DATA

	s := new(DataStmt)

	for !p.atStmtEnd() {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		// Unquoted words are string data.
		if v, ok := e.(*Variable); ok {
			e = &Literal{Value: StringValue(v.Name)}
		}

		s.Values = append(s.Values, e)

		if !p.acceptKind(TokenComma) {
			break
		}
	}

	return s, nil
}

func (p *parser) parseColor() (Stmt, error) {
	p.advance() // COLOR

	s := new(ColorStmt)

	var err error

	if !p.atStmtEnd() && p.peek().Kind != TokenComma {
		if s.Fg, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}

	if p.acceptKind(TokenComma) {
		if s.Bg, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// parsePoint parses "(x, y)".
func (p *parser) parsePoint(stmt string) (x, y Expr, err error) {
	if _, err = p.expectKind(TokenLParen, "'(' in "+stmt+" statement"); err != nil {
		return nil, nil, err
	}

	if x, err = p.parseExpr(); err != nil {
		return nil, nil, err
	}

	if _, err = p.expectKind(TokenComma, "',' in "+stmt+" statement"); err != nil {
		return nil, nil, err
	}

	if y, err = p.parseExpr(); err != nil {
		return nil, nil, err
	}

	if _, err = p.expectKind(TokenRParen, "')' in "+stmt+" statement"); err != nil {
		return nil, nil, err
	}

	return x, y, nil
}

// parseOptionalColor parses a trailing ", color" operand.
func (p *parser) parseOptionalColor() (Expr, error) {
	if !p.acceptKind(TokenComma) {
		return nil, nil
	}

	return p.parseExpr()
}

func (p *parser) parsePset() (Stmt, error) {
	p.advance() // PSET

	x, y, err := p.parsePoint("PSET")
	if err != nil {
		return nil, err
	}

	c, err := p.parseOptionalColor()
	if err != nil {
		return nil, err
	}

	return &PsetStmt{X: x, Y: y, Color: c}, nil
}

func (p *parser) parseLineDraw() (Stmt, error) {
	p.advance() // LINE

	x1, y1, err := p.parsePoint("LINE")
	if err != nil {
		return nil, err
	}

	if !p.accept("-") {
		return nil, p.errorf(p.peek(), "Expected '-' in LINE statement")
	}

	x2, y2, err := p.parsePoint("LINE")
	if err != nil {
		return nil, err
	}

	c, err := p.parseOptionalColor()
	if err != nil {
		return nil, err
	}

	return &LineStmt{X1: x1, Y1: y1, X2: x2, Y2: y2, Color: c}, nil
}

func (p *parser) parseCircle() (Stmt, error) {
	p.advance() // CIRCLE

	x, y, err := p.parsePoint("CIRCLE")
	if err != nil {
		return nil, err
	}

	if _, err := p.expectKind(TokenComma, "',' in CIRCLE statement"); err != nil {
		return nil, err
	}

	r, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	c, err := p.parseOptionalColor()
	if err != nil {
		return nil, err
	}

	return &CircleStmt{X: x, Y: y, R: r, Color: c}, nil
}

// parseFileNum parses "[#]n".
func (p *parser) parseFileNum() (Expr, error) {
	p.acceptKind(TokenHash)

	return p.parseExpr()
}

func (p *parser) parseOpen() (Stmt, error) {
	p.advance() // OPEN

	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	s := new(OpenStmt)

	switch {
	case p.accept("FOR"):
		// OPEN path FOR mode AS [#]n
		t := p.advance()

		mode, ok := parseFileMode(t)
		if !ok {
			return nil, p.errorf(t, "Expected INPUT, OUTPUT, APPEND or RANDOM in OPEN statement")
		}

		if !p.accept("AS") {
			return nil, p.errorf(p.peek(), "Expected AS in OPEN statement")
		}

		if s.Num, err = p.parseFileNum(); err != nil {
			return nil, err
		}

		s.Path, s.Mode = first, mode

	case p.acceptKind(TokenComma):
		if lit, ok := first.(*Literal); ok && lit.Value.IsString() && len(lit.Value.s) == 1 {
			// OPEN "mode", [#]n, path
			mode, ok := parseFileMode(Token{Kind: TokenIdent, Text: strings.ToUpper(lit.Value.s)})
			if !ok {
				return nil, p.errorf(p.peek(), "Bad file mode %q in OPEN statement", lit.Value.s)
			}

			if s.Num, err = p.parseFileNum(); err != nil {
				return nil, err
			}

			if _, err := p.expectKind(TokenComma, "',' in OPEN statement"); err != nil {
				return nil, err
			}

			if s.Path, err = p.parseExpr(); err != nil {
				return nil, err
			}

			s.Mode = mode

			break
		}

		// OPEN path, [#]n, mode
		if s.Num, err = p.parseFileNum(); err != nil {
			return nil, err
		}

		if _, err := p.expectKind(TokenComma, "',' in OPEN statement"); err != nil {
			return nil, err
		}

		t := p.advance()

		mode, ok := parseFileMode(t)
		if !ok {
			return nil, p.errorf(t, "Bad file mode %s in OPEN statement", t)
		}

		s.Path, s.Mode = first, mode

	default:
		return nil, p.errorf(p.peek(), "Expected FOR or ',' in OPEN statement")
	}

	return s, nil
}

// parseFileMode interprets a keyword, identifier, or string token as a file
// mode.
func parseFileMode(t Token) (FileMode, bool) {
	var word string

	switch t.Kind {
	case TokenKeyword, TokenIdent:
		word = t.Text
	case TokenString:
		word = strings.ToUpper(t.Text)
	default:
		return 0, false
	}

	switch word {
	case "I", "INPUT":
		return ModeInput, true
	case "O", "OUTPUT":
		return ModeOutput, true
	case "A", "APPEND":
		return ModeAppend, true
	case "R", "RANDOM":
		return ModeRandom, true
	}

	return 0, false
}

func (p *parser) parseClose() (Stmt, error) {
	p.advance() // CLOSE

	s := new(CloseStmt)

	for !p.atStmtEnd() {
		num, err := p.parseFileNum()
		if err != nil {
			return nil, err
		}

		s.Nums = append(s.Nums, num)

		if !p.acceptKind(TokenComma) {
			break
		}
	}

	return s, nil
}

func (p *parser) parseList() (Stmt, error) {
	p.advance() // LIST

	s := &ListStmt{From: 0, To: MaxLineNumber}

	if t := p.peek(); t.Kind == TokenNumber {
		n, err := p.parseLineRef("LIST")
		if err != nil {
			return nil, err
		}

		s.From, s.To = n, n
	}

	if p.accept("-") {
		s.To = MaxLineNumber

		if t := p.peek(); t.Kind == TokenNumber {
			n, err := p.parseLineRef("LIST")
			if err != nil {
				return nil, err
			}

			s.To = n
		}
	}

	return s, nil
}

// parseNames parses a comma-separated list of variable names.
func (p *parser) parseNames() ([]string, error) {
	var names []string

	for {
		t, err := p.expectKind(TokenIdent, "variable name")
		if err != nil {
			return nil, err
		}

		names = append(names, t.Text)

		if !p.acceptKind(TokenComma) {
			return names, nil
		}
	}
}

// parseExprList parses between lo and hi comma-separated expressions.
func (p *parser) parseExprList(lo, hi int, stmt string) ([]Expr, error) {
	var exprs []Expr

	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		exprs = append(exprs, e)

		if len(exprs) == hi || !p.acceptKind(TokenComma) {
			break
		}
	}

	if len(exprs) < lo {
		return nil, p.errorf(p.peek(), "%s requires %d arguments", stmt, lo)
	}

	return exprs, nil
}

// Expression grammar, lowest precedence first:
//
//	imp   = eqv { IMP eqv }
//	eqv   = xor { EQV xor }
//	xor   = or { XOR or }
//	or    = and { OR and }
//	and   = cmp { AND cmp }
//	cmp   = add { (= | <> | < | > | <= | >=) add }
//	add   = mul { (+ | -) mul }
//	mul   = pow { (* | / | \ | MOD) pow }
//	pow   = unary { ^ unary }
//	unary = (- | + | NOT) unary | primary

// precedence lists the binary operator levels from lowest to highest.
var precedence = [][]struct {
	text string
	op   BinaryOp
}{
	{{"IMP", OpImp}},
	{{"EQV", OpEqv}},
	{{"XOR", OpXor}},
	{{"OR", OpOr}},
	{{"AND", OpAnd}},
	{{"=", OpEq}, {"<>", OpNe}, {"<", OpLt}, {">", OpGt}, {"<=", OpLe}, {">=", OpGe}},
	{{"+", OpAdd}, {"-", OpSub}},
	{{"*", OpMul}, {"/", OpDiv}, {"\\", OpIntDiv}, {"MOD", OpMod}},
	{{"^", OpPow}},
}

func (p *parser) parseExpr() (Expr, error) { return p.parseLevel(0) }

// parseLevel parses a left-associative chain of operators at the given
// precedence level.
func (p *parser) parseLevel(level int) (Expr, error) {
	if level == len(precedence) {
		return p.parseUnary()
	}

	left, err := p.parseLevel(level + 1)
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()
		matched := false

		for _, cand := range precedence[level] {
			if !t.Is(cand.text) {
				continue
			}

			p.advance()

			right, err := p.parseLevel(level + 1)
			if err != nil {
				return nil, err
			}

			left = &BinaryExpr{Op: cand.op, Left: left, Right: right}
			matched = true

			break
		}

		if !matched {
			return left, nil
		}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	switch t := p.peek(); {
	case t.Is("-"):
		p.advance()

		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &UnaryExpr{Op: OpNeg, X: x}, nil

	case t.Is("+"):
		p.advance()

		return p.parseUnary()

	case t.Is("NOT"):
		p.advance()

		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &UnaryExpr{Op: OpNot, X: x}, nil
	}

	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.peek()

	switch t.Kind {
	case TokenNumber, TokenString:
		p.advance()

		return &Literal{Value: t.Value}, nil

	case TokenIdent:
		p.advance()

		if !p.acceptKind(TokenLParen) {
			return &Variable{Name: t.Text}, nil
		}

		call := &CallExpr{Name: t.Text}

		if p.acceptKind(TokenRParen) {
			return call, nil
		}

		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			call.Args = append(call.Args, arg)

			if p.acceptKind(TokenComma) {
				continue
			}

			if _, err := p.expectKind(TokenRParen, "')' after arguments"); err != nil {
				return nil, err
			}

			return call, nil
		}

	case TokenLParen:
		p.advance()

		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expectKind(TokenRParen, "')'"); err != nil {
			return nil, err
		}

		return e, nil
	}

	if t.Kind == TokenEOF || t.Kind == TokenNewline {
		return nil, p.errorf(t, "Expected expression")
	}

	return nil, p.errorf(t, "Expected expression, found %s", t)
}
