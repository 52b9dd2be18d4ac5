package lang

import (
	"math"
	"strings"
)

// eval evaluates an expression.
func (s *Session) eval(x Expr) (Value, error) {
	switch x := x.(type) {
	case *Literal:
		return x.Value, nil

	case *Variable:
		if v, ok := s.vars[x.Name]; ok {
			return v, nil
		}

		// Zero-argument functions such as TIMER may be written bare.
		if b, ok := s.registry.Lookup(x.Name); ok && b.Min == 0 {
			return b.Fn(s, nil)
		}

		return Nil, ErrUndefined.Errorf("Variable %s not defined", x.Name)

	case *BinaryExpr:
		left, err := s.eval(x.Left)
		if err != nil {
			return Nil, err
		}

		right, err := s.eval(x.Right)
		if err != nil {
			return Nil, err
		}

		return binary(x.Op, left, right)

	case *UnaryExpr:
		v, err := s.eval(x.X)
		if err != nil {
			return Nil, err
		}

		return unaryOp(x.Op, v)

	case *CallExpr:
		args := make([]Value, 0, len(x.Args))

		for _, a := range x.Args {
			v, err := s.eval(a)
			if err != nil {
				return Nil, err
			}

			args = append(args, v)
		}

		return s.registry.Call(s, x.Name, args)
	}

	return Nil, ErrRuntime.Errorf("Cannot evaluate %T", x)
}

// evalInt evaluates x as an Integer.
func (s *Session) evalInt(x Expr) (int, error) {
	v, err := s.eval(x)
	if err != nil {
		return 0, err
	}

	n, err := v.AsInteger()

	return int(n), err
}

// evalInts evaluates each expression as an Integer. Omitted operands yield
// [DefaultColor].
func (s *Session) evalInts(xs ...Expr) ([]int, error) {
	out := make([]int, len(xs))

	for i, x := range xs {
		if x == nil {
			out[i] = DefaultColor

			continue
		}

		n, err := s.evalInt(x)
		if err != nil {
			return nil, err
		}

		out[i] = n
	}

	return out, nil
}

// evalFloat evaluates x as a Double.
func (s *Session) evalFloat(x Expr) (float64, error) {
	v, err := s.eval(x)
	if err != nil {
		return 0, err
	}

	return v.AsDouble()
}

// binary applies an infix operator.
func binary(op BinaryOp, left, right Value) (Value, error) {
	switch op {
	case OpAdd:
		if left.IsString() || right.IsString() {
			return StringValue(left.AsString() + right.AsString()), nil
		}

		return arith(left, right, func(a, b float64) float64 { return a + b })

	case OpSub:
		return arith(left, right, func(a, b float64) float64 { return a - b })

	case OpMul:
		return arith(left, right, func(a, b float64) float64 { return a * b })

	case OpPow:
		return arith(left, right, math.Pow)

	case OpDiv:
		b, err := right.AsDouble()
		if err != nil {
			return Nil, err
		}

		if b == 0 {
			return Nil, ErrDivisionByZero
		}

		a, err := left.AsDouble()
		if err != nil {
			return Nil, err
		}

		return DoubleValue(a / b), nil

	case OpIntDiv, OpMod:
		b, err := right.AsInteger()
		if err != nil {
			return Nil, err
		}

		if b == 0 {
			return Nil, ErrDivisionByZero
		}

		a, err := left.AsInteger()
		if err != nil {
			return Nil, err
		}

		if op == OpMod {
			return IntegerValue(a % b), nil
		}

		// The quotient does not fit in an Integer.
		if a == math.MinInt32 && b == -1 {
			return Nil, ErrType.Errorf("Overflow in %s \\ %s", left.AsString(), right.AsString())
		}

		return IntegerValue(a / b), nil

	case OpEq, OpNe, OpLt, OpGt, OpLe, OpGe:
		return compare(op, left, right)

	case OpAnd, OpOr, OpXor, OpEqv, OpImp:
		a, err := left.AsInteger()
		if err != nil {
			return Nil, err
		}

		b, err := right.AsInteger()
		if err != nil {
			return Nil, err
		}

		switch op {
		case OpAnd:
			return IntegerValue(a & b), nil
		case OpOr:
			return IntegerValue(a | b), nil
		case OpXor:
			return IntegerValue(a ^ b), nil
		case OpEqv:
			return IntegerValue(^(a ^ b)), nil
		default:
			return IntegerValue(^a | b), nil
		}
	}

	return Nil, ErrRuntime.Errorf("Unknown operator %s", op)
}

// arith applies fn to both operands widened to Double.
func arith(left, right Value, fn func(a, b float64) float64) (Value, error) {
	a, err := left.AsDouble()
	if err != nil {
		return Nil, err
	}

	b, err := right.AsDouble()
	if err != nil {
		return Nil, err
	}

	return DoubleValue(fn(a, b)), nil
}

// compare applies a relational operator. Two strings compare by byte;
// anything else compares as Double.
func compare(op BinaryOp, left, right Value) (Value, error) {
	var c int

	if left.IsString() && right.IsString() {
		c = strings.Compare(left.AsString(), right.AsString())
	} else {
		a, err := left.AsDouble()
		if err != nil {
			return Nil, err
		}

		b, err := right.AsDouble()
		if err != nil {
			return Nil, err
		}

		switch {
		case a < b:
			c = -1
		case a > b:
			c = 1
		case a != b: // NaN is unordered
			return BoolValue(op == OpNe), nil
		}
	}

	switch op {
	case OpEq:
		return BoolValue(c == 0), nil
	case OpNe:
		return BoolValue(c != 0), nil
	case OpLt:
		return BoolValue(c < 0), nil
	case OpGt:
		return BoolValue(c > 0), nil
	case OpLe:
		return BoolValue(c <= 0), nil
	default:
		return BoolValue(c >= 0), nil
	}
}

func unaryOp(op UnaryOp, v Value) (Value, error) {
	if op == OpNot {
		n, err := v.AsInteger()
		if err != nil {
			return Nil, err
		}

		return IntegerValue(^n), nil
	}

	f, err := v.AsDouble()
	if err != nil {
		return Nil, err
	}

	return DoubleValue(-f), nil
}
