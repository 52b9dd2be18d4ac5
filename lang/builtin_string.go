package lang

import (
	"strconv"
	"strings"
)

func stringBuiltins() []*Builtin {
	return []*Builtin{
		unary("LEN", "s", func(v Value) (Value, error) {
			return IntegerValue(int32(len(v.AsString()))), nil
		}),
		unary("ASC", "s", func(v Value) (Value, error) {
			s := v.AsString()
			if s == "" {
				return Nil, ErrRuntime.Errorf("ASC on empty string")
			}

			return IntegerValue(int32(s[0])), nil
		}),
		unary("CHR$", "code", func(v Value) (Value, error) {
			code, err := v.AsInteger()
			if err != nil {
				return Nil, err
			}

			if code < 0 || code > 255 {
				return Nil, ErrRuntime.Errorf("CHR$ code out of range: %d", code)
			}

			return StringValue(string([]byte{byte(code)})), nil
		}),
		unary("STR$", "x", func(v Value) (Value, error) {
			return StringValue(v.AsString()), nil
		}),
		unary("VAL", "s", func(v Value) (Value, error) {
			return parseNumber(v.AsString(), IntegerValue(0)), nil
		}),
		{
			Name:   "LEFT$",
			Min:    2,
			Max:    2,
			Params: []string{"s", "n"},
			Fn: func(_ Machine, args []Value) (Value, error) {
				s := args[0].AsString()

				n, err := count(args[1], "LEFT$")
				if err != nil {
					return Nil, err
				}

				return StringValue(s[:min(n, len(s))]), nil
			},
		},
		{
			Name:   "RIGHT$",
			Min:    2,
			Max:    2,
			Params: []string{"s", "n"},
			Fn: func(_ Machine, args []Value) (Value, error) {
				s := args[0].AsString()

				n, err := count(args[1], "RIGHT$")
				if err != nil {
					return Nil, err
				}

				return StringValue(s[len(s)-min(n, len(s)):]), nil
			},
		},
		{
			Name:   "MID$",
			Min:    2,
			Max:    3,
			Params: []string{"s", "start", "n"},
			Fn: func(_ Machine, args []Value) (Value, error) {
				s := args[0].AsString()

				start, err := args[1].AsInteger()
				if err != nil {
					return Nil, err
				}

				from := max(int(start)-1, 0)
				if from >= len(s) {
					return StringValue(""), nil
				}

				rest := s[from:]

				if len(args) == 3 {
					n, err := count(args[2], "MID$")
					if err != nil {
						return Nil, err
					}

					rest = rest[:min(n, len(rest))]
				}

				return StringValue(rest), nil
			},
		},
		unary("SPACE$", "n", func(v Value) (Value, error) {
			n, err := count(v, "SPACE$")
			if err != nil {
				return Nil, err
			}

			return StringValue(strings.Repeat(" ", n)), nil
		}),
		{
			Name:   "STRING$",
			Min:    2,
			Max:    2,
			Params: []string{"n", "char"},
			Fn: func(_ Machine, args []Value) (Value, error) {
				n, err := count(args[0], "STRING$")
				if err != nil {
					return Nil, err
				}

				var ch string

				if args[1].IsString() {
					s := args[1].AsString()
					if s == "" {
						return Nil, ErrRuntime.Errorf("STRING$ character cannot be empty")
					}

					ch = s[:1]
				} else {
					code, err := args[1].AsInteger()
					if err != nil {
						return Nil, err
					}

					if code < 0 || code > 255 {
						return Nil, ErrRuntime.Errorf("STRING$ code out of range")
					}

					ch = string([]byte{byte(code)})
				}

				return StringValue(strings.Repeat(ch, n)), nil
			},
		},
		{
			Name:   "INSTR",
			Min:    2,
			Max:    3,
			Params: []string{"start", "hay", "needle"},
			Fn: func(_ Machine, args []Value) (Value, error) {
				from := 0

				if len(args) == 3 {
					start, err := args[0].AsInteger()
					if err != nil {
						return Nil, err
					}

					from = max(int(start)-1, 0)
					args = args[1:]
				}

				hay, needle := args[0].AsString(), args[1].AsString()
				if from >= len(hay) {
					return IntegerValue(0), nil
				}

				i := strings.Index(hay[from:], needle)
				if i < 0 {
					return IntegerValue(0), nil
				}

				return IntegerValue(int32(from + i + 1)), nil
			},
		},
		unary("HEX$", "n", func(v Value) (Value, error) {
			n, err := v.AsInteger()
			if err != nil {
				return Nil, err
			}

			return StringValue(strings.ToUpper(strconv.FormatUint(uint64(uint32(n)), 16))), nil
		}),
		unary("OCT$", "n", func(v Value) (Value, error) {
			n, err := v.AsInteger()
			if err != nil {
				return Nil, err
			}

			return StringValue(strconv.FormatUint(uint64(uint32(n)), 8)), nil
		}),
	}
}

// count converts a length argument, rejecting negative values.
func count(v Value, fn string) (int, error) {
	n, err := v.AsInteger()
	if err != nil {
		return 0, err
	}

	if n < 0 {
		return 0, ErrRuntime.Errorf("%s count cannot be negative", fn)
	}

	return int(n), nil
}

// parseNumber reads text as an Integer, then a Double, and returns def when
// it is neither.
func parseNumber(text string, def Value) Value {
	s := strings.TrimSpace(text)

	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		return IntegerValue(int32(n))
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return DoubleValue(f)
	}

	return def
}
