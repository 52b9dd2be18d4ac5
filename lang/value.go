package lang

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a [Value].
type Kind uint8

// Value kinds.
const (
	KindNil Kind = iota
	KindInteger
	KindSingle
	KindDouble
	KindString
)

// String returns the BASIC name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "Integer"
	case KindSingle:
		return "Single"
	case KindDouble:
		return "Double"
	case KindString:
		return "String"
	default:
		return "Nil"
	}
}

// Value is a BASIC runtime value: an Integer (32-bit), Single (32-bit float),
// Double (64-bit float), String, or Nil. The zero Value is Nil.
//
// Values are immutable and compared by content.
type Value struct {
	kind Kind
	i    int32
	f    float64 // holds Single widened to float64
	s    string
}

// Nil is the absent value.
var Nil = Value{}

// IntegerValue returns an Integer value.
func IntegerValue(i int32) Value { return Value{kind: KindInteger, i: i} }

// SingleValue returns a Single value.
func SingleValue(f float32) Value { return Value{kind: KindSingle, f: float64(f)} }

// DoubleValue returns a Double value.
func DoubleValue(f float64) Value { return Value{kind: KindDouble, f: f} }

// StringValue returns a String value.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// BoolValue returns the BASIC truth value: Integer -1 for true, 0 for false.
func BoolValue(b bool) Value {
	if b {
		return IntegerValue(-1)
	}

	return IntegerValue(0)
}

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether v is Nil.
func (v Value) IsNil() bool { return v.kind == KindNil }

// IsNumeric reports whether v is an Integer, Single, or Double.
func (v Value) IsNumeric() bool {
	return v.kind == KindInteger || v.kind == KindSingle || v.kind == KindDouble
}

// IsString reports whether v is a String.
func (v Value) IsString() bool { return v.kind == KindString }

// AsInteger converts v to a 32-bit integer. Floats truncate toward zero;
// strings must hold integer text. Nil converts to 0.
func (v Value) AsInteger() (int32, error) {
	switch v.kind {
	case KindInteger:
		return v.i, nil

	case KindSingle, KindDouble:
		t := math.Trunc(v.f)
		if math.IsNaN(t) || t < math.MinInt32 || t > math.MaxInt32 {
			return 0, ErrType.Errorf("Overflow converting %s to Integer", v.AsString())
		}

		return int32(t), nil

	case KindString:
		n, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 32)
		if err != nil {
			return 0, ErrType.Errorf("Cannot convert %q to Integer", v.s)
		}

		return int32(n), nil

	default:
		return 0, nil
	}
}

// AsDouble converts v to a 64-bit float. Strings must hold float text.
// Nil converts to 0.
func (v Value) AsDouble() (float64, error) {
	switch v.kind {
	case KindInteger:
		return float64(v.i), nil

	case KindSingle, KindDouble:
		return v.f, nil

	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0, ErrType.Errorf("Cannot convert %q to number", v.s)
		}

		return f, nil

	default:
		return 0, nil
	}
}

// AsString returns the canonical text of v. It never fails.
func (v Value) AsString() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(int64(v.i), 10)

	case KindSingle:
		return formatFloat(v.f, 32)

	case KindDouble:
		return formatFloat(v.f, 64)

	case KindString:
		return v.s

	default:
		return ""
	}
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "NaN"
	}

	return strconv.FormatFloat(f, 'f', -1, bits)
}

// Truthy reports the BASIC truth of v: numbers are true when nonzero,
// strings when non-empty, and Nil is always false.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindInteger:
		return v.i != 0
	case KindSingle, KindDouble:
		return v.f != 0
	case KindString:
		return v.s != ""
	default:
		return false
	}
}

// String implements fmt.Stringer using the canonical text.
func (v Value) String() string { return v.AsString() }

// Literal returns v as BASIC source text: strings are quoted and Single or
// Double values that would otherwise read back as another kind carry a
// type suffix.
func (v Value) Literal() string {
	switch v.kind {
	case KindString:
		return `"` + v.s + `"`

	case KindSingle:
		return v.AsString() + "!"

	case KindDouble:
		// Integral text in int32 range would read back as an Integer.
		s := v.AsString()
		if strings.Contains(s, ".") || v.f > math.MaxInt32 || v.f < math.MinInt32 {
			return s
		}

		return s + "#"

	default:
		return v.AsString()
	}
}

// Native returns v as the closest Go value.
func (v Value) Native() any {
	switch v.kind {
	case KindInteger:
		return int(v.i)
	case KindSingle:
		return float32(v.f)
	case KindDouble:
		return v.f
	case KindString:
		return v.s
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsNumeric() && (math.IsInf(v.f, 0) || math.IsNaN(v.f)) {
		return json.Marshal(v.AsString())
	}

	return json.Marshal(v.Native())
}

// MarshalYAML implements yaml.InterfaceMarshaler.
func (v Value) MarshalYAML() (any, error) { return v.Native(), nil }
