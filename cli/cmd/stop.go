package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/gwbasic/lang"
	"github.com/ardnew/gwbasic/log"
)

// lineIdent names the current line number in a stop condition.
const lineIdent = "line"

// StopCondition ends a program once a boolean expression over its variables
// holds. BASIC names are exposed with their type sigil spelled out, since
// sigils are not valid expression identifiers:
//
//	A$ -> A_s    I% -> I_i    X! -> X_f    D# -> D_d
//
// Unassigned variables read as 0 or "" the same way they do in BASIC.
type StopCondition struct {
	source  string
	program *vm.Program
	idents  []string
}

// CompileStop compiles src. An empty src yields a nil condition.
func CompileStop(src string) (*StopCondition, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}

	program, err := expr.Compile(src, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, ErrStopWhen.With(slog.String("expr", src)).Wrap(err)
	}

	c := &StopCondition{source: src, program: program}

	node := program.Node()
	ast.Walk(&node, identCollector{&c.idents})

	return c, nil
}

type identCollector struct{ names *[]string }

func (v identCollector) Visit(node *ast.Node) {
	if id, ok := (*node).(*ast.IdentifierNode); ok {
		*v.names = append(*v.names, id.Value)
	}
}

// String returns the source expression.
func (c *StopCondition) String() string { return c.source }

// Eval reports whether the condition holds for the current state of s.
func (c *StopCondition) Eval(s *lang.Session) (bool, error) {
	env := c.env(s)

	out, err := expr.Run(c.program, env)
	if err != nil {
		return false, ErrStopWhen.With(slog.String("expr", c.source)).Wrap(err)
	}

	stop, _ := out.(bool)

	return stop, nil
}

func (c *StopCondition) env(s *lang.Session) map[string]any {
	env := make(map[string]any, len(c.idents)+1)

	for _, id := range c.idents {
		if strings.HasSuffix(id, "_s") {
			env[id] = ""
		} else {
			env[id] = 0
		}
	}

	for name, v := range s.Vars() {
		env[exprName(name)] = exprValue(v)
	}

	env[lineIdent] = s.CurrentLine()

	return env
}

// Interrupt adapts c to a session hook, logging the line where it fired.
func (c *StopCondition) Interrupt(logger log.Logger) lang.Interrupt {
	return func(ctx context.Context, s *lang.Session) (bool, error) {
		stop, err := c.Eval(s)
		if stop {
			logger.InfoContext(ctx, "stop condition met",
				slog.String("expr", c.source),
				slog.Int("line", s.CurrentLine()))
		}

		return stop, err
	}
}

// exprName maps a BASIC variable name to an expression identifier.
func exprName(name string) string {
	if name == "" {
		return name
	}

	base, sigil := name[:len(name)-1], name[len(name)-1]

	switch sigil {
	case '$':
		return base + "_s"
	case '%':
		return base + "_i"
	case '!':
		return base + "_f"
	case '#':
		return base + "_d"
	}

	return name
}

func exprValue(v lang.Value) any {
	switch v.Kind() {
	case lang.KindSingle, lang.KindDouble:
		f, _ := v.AsDouble()

		return f
	default:
		return v.Native()
	}
}
