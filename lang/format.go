package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the canonical listing of the program to the writer. The
// listing parses back to an equivalent program.
func (p *Program) Format(_ context.Context, w io.Writer) error {
	for ln := range p.All() {
		if _, err := fmt.Fprintln(w, FormatLine(ln)); err != nil {
			return err
		}
	}

	return nil
}

// FormatJSON writes the program structure as JSON to the writer.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(p.ToMap(), "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(p.ToMap())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the program structure as YAML to the writer.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, p.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// FormatLine returns the canonical text of a line.
func FormatLine(ln *Line) string {
	body := formatStmts(ln.Stmts)

	if !ln.Numbered {
		return body
	}

	if body == "" {
		return strconv.Itoa(ln.Number)
	}

	return strconv.Itoa(ln.Number) + " " + body
}

func formatStmts(stmts []Stmt) string {
	parts := make([]string, len(stmts))
	for i, st := range stmts {
		parts[i] = FormatStmt(st)
	}

	return strings.Join(parts, ": ")
}

// FormatStmt returns the canonical text of a statement.
func FormatStmt(stmt Stmt) string {
	switch st := stmt.(type) {
	case *PrintStmt:
		sb := []string{"PRINT"}

		head := ""
		if st.File != nil {
			head = "#" + FormatExpr(st.File) + ","
		}

		items := joinExprs(st.Exprs, "; ")

		switch {
		case head != "" && items != "":
			sb = append(sb, head, items)
		case head != "":
			sb = append(sb, head)
		case items != "":
			sb = append(sb, items)
		}

		return strings.Join(sb, " ")

	case *InputStmt:
		var sb strings.Builder

		sb.WriteString("INPUT ")

		if st.File != nil {
			sb.WriteString("#" + FormatExpr(st.File) + ", ")
		} else if st.Prompt != "" {
			sb.WriteString(`"` + st.Prompt + `"; `)
		}

		sb.WriteString(strings.Join(st.Vars, ", "))

		return sb.String()

	case *LetStmt:
		s := st.Name + " = " + FormatExpr(st.Value)
		if st.Implicit {
			return s
		}

		return "LET " + s

	case *IfStmt:
		s := "IF " + FormatExpr(st.Cond) + " THEN " + formatStmts(st.Then)
		if len(st.Else) > 0 {
			s += " ELSE " + formatStmts(st.Else)
		}

		return s

	case *ForStmt:
		s := "FOR " + st.Var + " = " + FormatExpr(st.Start) + " TO " + FormatExpr(st.End)
		if st.Step != nil {
			s += " STEP " + FormatExpr(st.Step)
		}

		return s

	case *NextStmt:
		return strings.TrimSpace("NEXT " + strings.Join(st.Vars, ", "))

	case *WhileStmt:
		parts := []string{"WHILE " + FormatExpr(st.Cond)}
		if len(st.Body) > 0 {
			parts = append(parts, formatStmts(st.Body))
		}

		if st.Wend {
			parts = append(parts, "WEND")
		}

		return strings.Join(parts, ": ")

	case *GotoStmt:
		return "GOTO " + strconv.Itoa(st.Line)

	case *GosubStmt:
		return "GOSUB " + strconv.Itoa(st.Line)

	case *ReturnStmt:
		return "RETURN"

	case *EndStmt:
		return "END"

	case *StopStmt:
		return "STOP"

	case *DimStmt:
		arrays := make([]string, len(st.Arrays))
		for i, a := range st.Arrays {
			arrays[i] = FormatExpr(a)
		}

		return "DIM " + strings.Join(arrays, ", ")

	case *ReadStmt:
		return "READ " + strings.Join(st.Vars, ", ")

	case *DataStmt:
		return strings.TrimSpace("DATA " + joinExprs(st.Values, ", "))

	case *RestoreStmt:
		if st.HasLine {
			return "RESTORE " + strconv.Itoa(st.Line)
		}

		return "RESTORE"

	case *RemStmt:
		if st.Quote {
			return "'" + st.Text
		}

		return strings.TrimSpace("REM " + st.Text)

	case *ClsStmt:
		return "CLS"

	case *LocateStmt:
		return "LOCATE " + FormatExpr(st.Row) + ", " + FormatExpr(st.Col)

	case *ColorStmt:
		s := "COLOR"
		if st.Fg != nil {
			s += " " + FormatExpr(st.Fg)
		}

		if st.Bg != nil {
			if st.Fg == nil {
				s += " "
			}

			s += ", " + FormatExpr(st.Bg)
		}

		return s

	case *ScreenStmt:
		return "SCREEN " + FormatExpr(st.Mode)

	case *PsetStmt:
		return "PSET " + point(st.X, st.Y) + optionalColor(st.Color)

	case *LineStmt:
		return "LINE " + point(st.X1, st.Y1) + "-" + point(st.X2, st.Y2) + optionalColor(st.Color)

	case *CircleStmt:
		return "CIRCLE " + point(st.X, st.Y) + ", " + FormatExpr(st.R) + optionalColor(st.Color)

	case *BeepStmt:
		return "BEEP"

	case *SoundStmt:
		return "SOUND " + FormatExpr(st.Freq) + ", " + FormatExpr(st.Duration)

	case *OpenStmt:
		return "OPEN " + FormatExpr(st.Path) + " FOR " + st.Mode.String() + " AS #" + FormatExpr(st.Num)

	case *CloseStmt:
		nums := make([]string, len(st.Nums))
		for i, n := range st.Nums {
			nums[i] = "#" + FormatExpr(n)
		}

		return strings.TrimSpace("CLOSE " + strings.Join(nums, ", "))

	case *RandomizeStmt:
		if st.Seed != nil {
			return "RANDOMIZE " + FormatExpr(st.Seed)
		}

		return "RANDOMIZE"

	case *SwapStmt:
		return "SWAP " + st.A + ", " + st.B

	case *RunStmt:
		if st.HasLine {
			return "RUN " + strconv.Itoa(st.Line)
		}

		return "RUN"

	case *ListStmt:
		switch {
		case st.From == 0 && st.To == MaxLineNumber:
			return "LIST"
		case st.From == st.To:
			return "LIST " + strconv.Itoa(st.From)
		case st.To == MaxLineNumber:
			return "LIST " + strconv.Itoa(st.From) + "-"
		case st.From == 0:
			return "LIST -" + strconv.Itoa(st.To)
		}

		return "LIST " + strconv.Itoa(st.From) + "-" + strconv.Itoa(st.To)

	case *NewStmt:
		return "NEW"

	case *ClearStmt:
		return "CLEAR"

	case *TraceStmt:
		if st.On {
			return "TRON"
		}

		return "TROFF"
	}

	return fmt.Sprintf("REM %T", stmt)
}

func point(x, y Expr) string { return "(" + FormatExpr(x) + ", " + FormatExpr(y) + ")" }

func optionalColor(c Expr) string {
	if c == nil {
		return ""
	}

	return ", " + FormatExpr(c)
}

func joinExprs(xs []Expr, sep string) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = FormatExpr(x)
	}

	return strings.Join(parts, sep)
}

// binaryLevel returns the precedence level of op, higher binding tighter.
func binaryLevel(op BinaryOp) int {
	for level, ops := range precedence {
		for _, cand := range ops {
			if cand.op == op {
				return level
			}
		}
	}

	return len(precedence)
}

// FormatExpr returns the canonical text of an expression, parenthesized only
// where precedence requires it.
func FormatExpr(x Expr) string {
	switch x := x.(type) {
	case *Literal:
		return x.Value.Literal()

	case *Variable:
		return x.Name

	case *CallExpr:
		return x.Name + "(" + joinExprs(x.Args, ", ") + ")"

	case *UnaryExpr:
		operand := FormatExpr(x.X)
		if _, ok := x.X.(*BinaryExpr); ok {
			operand = "(" + operand + ")"
		}

		if x.Op == OpNot {
			return "NOT " + operand
		}

		return "-" + operand

	case *BinaryExpr:
		level := binaryLevel(x.Op)

		left := FormatExpr(x.Left)
		if b, ok := x.Left.(*BinaryExpr); ok && binaryLevel(b.Op) < level {
			left = "(" + left + ")"
		}

		right := FormatExpr(x.Right)
		if b, ok := x.Right.(*BinaryExpr); ok && binaryLevel(b.Op) <= level {
			right = "(" + right + ")"
		}

		return left + " " + x.Op.String() + " " + right
	}

	return ""
}

// ToMap converts the program to a structure of maps and slices suitable for
// JSON and YAML encoding.
func (p *Program) ToMap() map[string]any {
	lines := make([]any, 0, len(p.Lines))

	for ln := range p.All() {
		m := map[string]any{"statements": stmtsToList(ln.Stmts)}
		if ln.Numbered {
			m["line"] = ln.Number
		}

		lines = append(lines, m)
	}

	return map[string]any{"lines": lines}
}

func stmtsToList(stmts []Stmt) []any {
	list := make([]any, len(stmts))
	for i, st := range stmts {
		list[i] = stmtToMap(st)
	}

	return list
}

// stmtToMap describes a statement by its keyword, its canonical source, and
// its nested blocks and expressions.
func stmtToMap(stmt Stmt) map[string]any {
	src := FormatStmt(stmt)
	keyword, _, _ := strings.Cut(src, " ")

	m := map[string]any{"stmt": keyword, "source": src}

	switch st := stmt.(type) {
	case *RemStmt:
		m["stmt"] = "REM"
		m["text"] = st.Text

	case *LetStmt:
		m["stmt"] = "LET"
		m["name"] = st.Name
		m["value"] = exprToMap(st.Value)

	case *PrintStmt:
		m["exprs"] = exprsToList(st.Exprs)

	case *IfStmt:
		m["cond"] = exprToMap(st.Cond)
		m["then"] = stmtsToList(st.Then)

		if len(st.Else) > 0 {
			m["else"] = stmtsToList(st.Else)
		}

	case *ForStmt:
		m["var"] = st.Var
		m["start"] = exprToMap(st.Start)
		m["end"] = exprToMap(st.End)

		if st.Step != nil {
			m["step"] = exprToMap(st.Step)
		}

	case *WhileStmt:
		m["cond"] = exprToMap(st.Cond)
		m["body"] = stmtsToList(st.Body)

	case *GotoStmt:
		m["target"] = st.Line

	case *GosubStmt:
		m["target"] = st.Line

	case *DataStmt:
		m["values"] = exprsToList(st.Values)
	}

	return m
}

func exprsToList(xs []Expr) []any {
	list := make([]any, len(xs))
	for i, x := range xs {
		list[i] = exprToMap(x)
	}

	return list
}

func exprToMap(x Expr) any {
	switch x := x.(type) {
	case *Literal:
		return map[string]any{"literal": x.Value, "type": x.Value.Kind().String()}

	case *Variable:
		return map[string]any{"var": x.Name}

	case *CallExpr:
		return map[string]any{"call": x.Name, "args": exprsToList(x.Args)}

	case *UnaryExpr:
		return map[string]any{"op": x.Op.String(), "operand": exprToMap(x.X)}

	case *BinaryExpr:
		return map[string]any{
			"op":    x.Op.String(),
			"left":  exprToMap(x.Left),
			"right": exprToMap(x.Right),
		}
	}

	return nil
}
