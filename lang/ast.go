package lang

import "iter"

// Program is a parsed source text: an ordered list of physical lines, each
// either numbered (stored) or unnumbered (executed in direct mode).
type Program struct {
	Lines []*Line
}

// All returns an iterator over the lines in source order.
func (p *Program) All() iter.Seq[*Line] {
	return func(yield func(*Line) bool) {
		for _, ln := range p.Lines {
			if !yield(ln) {
				return
			}
		}
	}
}

// Line is a physical source line. An unnumbered line has Numbered false.
// A numbered line without statements deletes that line when loaded.
type Line struct {
	Number   int
	Numbered bool
	Stmts    []Stmt
	Pos      Position
}

// Expr is an expression node.
type Expr interface{ exprNode() }

// Stmt is a statement node.
type Stmt interface{ stmtNode() }

// Expressions.
type (
	// Literal is a constant value.
	Literal struct{ Value Value }

	// Variable is a reference to a named variable, or to a zero-argument
	// built-in function when no variable of that name is bound.
	Variable struct{ Name string }

	// BinaryExpr applies an infix operator.
	BinaryExpr struct {
		Op          BinaryOp
		Left, Right Expr
	}

	// UnaryExpr applies a prefix operator.
	UnaryExpr struct {
		Op UnaryOp
		X  Expr
	}

	// CallExpr is name(args). Whether it names an array element or a
	// function is decided at evaluation time.
	CallExpr struct {
		Name string
		Args []Expr
	}
)

func (*Literal) exprNode()    {}
func (*Variable) exprNode()   {}
func (*BinaryExpr) exprNode() {}
func (*UnaryExpr) exprNode()  {}
func (*CallExpr) exprNode()   {}

// BinaryOp is an infix operator.
type BinaryOp uint8

// Binary operators.
const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpIntDiv
	OpMod
	OpPow
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
	OpAnd
	OpOr
	OpXor
	OpEqv
	OpImp
)

var binaryOpText = [...]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpIntDiv: "\\",
	OpMod: "MOD", OpPow: "^", OpEq: "=", OpNe: "<>", OpLt: "<", OpGt: ">",
	OpLe: "<=", OpGe: ">=", OpAnd: "AND", OpOr: "OR", OpXor: "XOR",
	OpEqv: "EQV", OpImp: "IMP",
}

func (op BinaryOp) String() string { return binaryOpText[op] }

// UnaryOp is a prefix operator.
type UnaryOp uint8

// Unary operators.
const (
	OpNeg UnaryOp = iota
	OpNot
)

func (op UnaryOp) String() string {
	if op == OpNot {
		return "NOT"
	}

	return "-"
}

// Statements.
type (
	// PrintStmt writes its expressions to the output, or to file File when
	// File is non-nil.
	PrintStmt struct {
		File  Expr
		Exprs []Expr
	}

	// InputStmt reads values into Vars from the input, or from file File.
	InputStmt struct {
		File   Expr
		Prompt string
		Vars   []string
	}

	// LetStmt assigns Value to Name. Implicit marks a bare assignment
	// written without LET.
	LetStmt struct {
		Name     string
		Value    Expr
		Implicit bool
	}

	// IfStmt executes Then when Cond is true and Else otherwise.
	IfStmt struct {
		Cond       Expr
		Then, Else []Stmt
	}

	// ForStmt opens a counted loop. Step is nil when omitted.
	ForStmt struct {
		Var              string
		Start, End, Step Expr
	}

	// NextStmt closes the innermost loop, or each named loop in order.
	NextStmt struct{ Vars []string }

	// WhileStmt repeats Body while Cond is true. Wend marks a same-line
	// WEND terminator.
	WhileStmt struct {
		Cond Expr
		Body []Stmt
		Wend bool
	}

	// GotoStmt transfers control to Line.
	GotoStmt struct{ Line int }

	// GosubStmt calls the subroutine at Line.
	GosubStmt struct{ Line int }

	// ReturnStmt returns from the innermost GOSUB.
	ReturnStmt struct{}

	// EndStmt ends the program.
	EndStmt struct{}

	// StopStmt stops the program.
	StopStmt struct{}

	// DimStmt declares arrays. No storage is allocated.
	DimStmt struct{ Arrays []*CallExpr }

	// ReadStmt reads DATA values into Vars.
	ReadStmt struct{ Vars []string }

	// DataStmt holds inline data. Values are evaluated when the line is
	// loaded.
	DataStmt struct{ Values []Expr }

	// RestoreStmt resets the DATA cursor, optionally to the data of Line.
	RestoreStmt struct {
		Line    int
		HasLine bool
	}

	// RemStmt is a comment. Quote marks the ' form.
	RemStmt struct {
		Text  string
		Quote bool
	}

	// ClsStmt clears the screen.
	ClsStmt struct{}

	// LocateStmt moves the cursor.
	LocateStmt struct{ Row, Col Expr }

	// ColorStmt sets colors. Either may be nil.
	ColorStmt struct{ Fg, Bg Expr }

	// ScreenStmt selects a screen mode.
	ScreenStmt struct{ Mode Expr }

	// PsetStmt plots a point. Color may be nil.
	PsetStmt struct{ X, Y, Color Expr }

	// LineStmt draws a line. Color may be nil.
	LineStmt struct{ X1, Y1, X2, Y2, Color Expr }

	// CircleStmt draws a circle. Color may be nil.
	CircleStmt struct{ X, Y, R, Color Expr }

	// BeepStmt sounds the bell.
	BeepStmt struct{}

	// SoundStmt plays a tone.
	SoundStmt struct{ Freq, Duration Expr }

	// OpenStmt opens file Path as number Num.
	OpenStmt struct {
		Path Expr
		Num  Expr
		Mode FileMode
	}

	// CloseStmt closes the listed files, or all files when Nums is empty.
	CloseStmt struct{ Nums []Expr }

	// RandomizeStmt reseeds the generator. Seed may be nil.
	RandomizeStmt struct{ Seed Expr }

	// SwapStmt exchanges two variables.
	SwapStmt struct{ A, B string }

	// RunStmt restarts the program, optionally at Line.
	RunStmt struct {
		Line    int
		HasLine bool
	}

	// ListStmt writes the program listing between From and To inclusive.
	ListStmt struct{ From, To int }

	// NewStmt erases the program and all state.
	NewStmt struct{}

	// ClearStmt erases variables and control state.
	ClearStmt struct{}

	// TraceStmt turns line tracing on (TRON) or off (TROFF).
	TraceStmt struct{ On bool }
)

func (*PrintStmt) stmtNode()     {}
func (*InputStmt) stmtNode()     {}
func (*LetStmt) stmtNode()       {}
func (*IfStmt) stmtNode()        {}
func (*ForStmt) stmtNode()       {}
func (*NextStmt) stmtNode()      {}
func (*WhileStmt) stmtNode()     {}
func (*GotoStmt) stmtNode()      {}
func (*GosubStmt) stmtNode()     {}
func (*ReturnStmt) stmtNode()    {}
func (*EndStmt) stmtNode()       {}
func (*StopStmt) stmtNode()      {}
func (*DimStmt) stmtNode()       {}
func (*ReadStmt) stmtNode()      {}
func (*DataStmt) stmtNode()      {}
func (*RestoreStmt) stmtNode()   {}
func (*RemStmt) stmtNode()       {}
func (*ClsStmt) stmtNode()       {}
func (*LocateStmt) stmtNode()    {}
func (*ColorStmt) stmtNode()     {}
func (*ScreenStmt) stmtNode()    {}
func (*PsetStmt) stmtNode()      {}
func (*LineStmt) stmtNode()      {}
func (*CircleStmt) stmtNode()    {}
func (*BeepStmt) stmtNode()      {}
func (*SoundStmt) stmtNode()     {}
func (*OpenStmt) stmtNode()      {}
func (*CloseStmt) stmtNode()     {}
func (*RandomizeStmt) stmtNode() {}
func (*SwapStmt) stmtNode()      {}
func (*RunStmt) stmtNode()       {}
func (*ListStmt) stmtNode()      {}
func (*NewStmt) stmtNode()       {}
func (*ClearStmt) stmtNode()     {}
func (*TraceStmt) stmtNode()     {}
