package lang

import (
	"math"
	"time"
)

func mathBuiltins() []*Builtin {
	return []*Builtin{
		numeric("ABS", func(x float64) (Value, error) { return DoubleValue(math.Abs(x)), nil }),
		numeric("INT", func(x float64) (Value, error) { return toInteger(math.Floor(x)) }),
		numeric("FIX", func(x float64) (Value, error) { return toInteger(math.Trunc(x)) }),
		numeric("CINT", func(x float64) (Value, error) { return toInteger(math.Round(x)) }),
		numeric("CSNG", func(x float64) (Value, error) { return SingleValue(float32(x)), nil }),
		numeric("CDBL", func(x float64) (Value, error) { return DoubleValue(x), nil }),
		numeric("SQR", func(x float64) (Value, error) {
			if x < 0 {
				return Nil, ErrRuntime.Errorf("Square root of negative number")
			}

			return DoubleValue(math.Sqrt(x)), nil
		}),
		numeric("SIN", func(x float64) (Value, error) { return DoubleValue(math.Sin(x)), nil }),
		numeric("COS", func(x float64) (Value, error) { return DoubleValue(math.Cos(x)), nil }),
		numeric("TAN", func(x float64) (Value, error) { return DoubleValue(math.Tan(x)), nil }),
		numeric("ATN", func(x float64) (Value, error) { return DoubleValue(math.Atan(x)), nil }),
		numeric("EXP", func(x float64) (Value, error) { return DoubleValue(math.Exp(x)), nil }),
		numeric("LOG", func(x float64) (Value, error) {
			if x <= 0 {
				return Nil, ErrRuntime.Errorf("Logarithm of non-positive number")
			}

			return DoubleValue(math.Log(x)), nil
		}),
		numeric("SGN", func(x float64) (Value, error) {
			switch {
			case x > 0:
				return IntegerValue(1), nil
			case x < 0:
				return IntegerValue(-1), nil
			}

			return IntegerValue(0), nil
		}),
	}
}

// toInteger converts an integral double to an Integer value.
func toInteger(x float64) (Value, error) {
	n, err := DoubleValue(x).AsInteger()
	if err != nil {
		return Nil, err
	}

	return IntegerValue(n), nil
}

func machineBuiltins() []*Builtin {
	zero := func(_ Machine, _ []Value) (Value, error) { return IntegerValue(0), nil }

	return []*Builtin{
		{
			Name:   "RND",
			Max:    1,
			Params: []string{"x"},
			Fn: func(m Machine, args []Value) (Value, error) {
				rng := m.Rand()

				if len(args) == 1 {
					x, err := args[0].AsDouble()
					if err != nil {
						return Nil, err
					}

					switch {
					case x < 0:
						rng.Seed(uint64(math.Float64bits(x)))
					case x == 0:
						return SingleValue(rng.Last()), nil
					}
				}

				return SingleValue(rng.Next()), nil
			},
		},
		{
			Name: "TIMER",
			Fn: func(m Machine, _ []Value) (Value, error) {
				now := m.Now()
				midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

				return SingleValue(float32(now.Sub(midnight).Seconds())), nil
			},
		},
		{Name: "PEEK", Min: 1, Max: 1, Params: []string{"addr"}, Fn: zero},
		{Name: "INP", Min: 1, Max: 1, Params: []string{"port"}, Fn: zero},
		{
			Name: "CSRLIN",
			Fn: func(m Machine, _ []Value) (Value, error) {
				scr := m.Screen()
				if scr == nil {
					return Nil, errNoScreen
				}

				row, _ := scr.Cursor()

				return IntegerValue(int32(row + 1)), nil
			},
		},
		{
			Name:   "POS",
			Min:    1,
			Max:    1,
			Params: []string{"x"},
			Fn: func(m Machine, _ []Value) (Value, error) {
				scr := m.Screen()
				if scr == nil {
					return Nil, errNoScreen
				}

				_, col := scr.Cursor()

				return IntegerValue(int32(col + 1)), nil
			},
		},
		fileBuiltin("EOF", func(f Files, n int) (Value, error) {
			eof, err := f.EOF(n)

			return BoolValue(eof), err
		}),
		fileBuiltin("LOC", func(f Files, n int) (Value, error) {
			loc, err := f.Loc(n)

			return IntegerValue(int32(loc)), err
		}),
		fileBuiltin("LOF", func(f Files, n int) (Value, error) {
			size, err := f.Lof(n)
			if err != nil {
				return Nil, err
			}

			if size > math.MaxInt32 {
				return DoubleValue(float64(size)), nil
			}

			return IntegerValue(int32(size)), nil
		}),
	}
}

// fileBuiltin adapts a query on file number n.
func fileBuiltin(name string, fn func(Files, int) (Value, error)) *Builtin {
	return &Builtin{
		Name:   name,
		Min:    1,
		Max:    1,
		Params: []string{"n"},
		Fn: func(m Machine, args []Value) (Value, error) {
			files := m.Files()
			if files == nil {
				return Nil, errNoFiles
			}

			n, err := args[0].AsInteger()
			if err != nil {
				return Nil, err
			}

			v, err := fn(files, int(n))
			if err != nil {
				return Nil, err
			}

			return v, nil
		},
	}
}

var (
	errNoScreen = ErrIO.Errorf("no screen attached")
	errNoFiles  = ErrIO.Errorf("no file manager attached")
)
