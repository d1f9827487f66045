package xmltree

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type ValueKind int

const (
	StringValue ValueKind = iota
	BoolValue
	IntValue
	FloatValue
)

// Value is the typed projection of a raw attribute string. Coercion on read
// tries the boolean literals first, then a signed 64-bit integer, then a
// float, and falls back to the string itself.
type Value struct {
	Kind  ValueKind
	Bool  bool
	Int   int64
	Float float64
	Str   string
}

func Bool(v bool) Value     { return Value{Kind: BoolValue, Bool: v} }
func Int(v int64) Value     { return Value{Kind: IntValue, Int: v} }
func Float(v float64) Value { return Value{Kind: FloatValue, Float: v} }
func String(v string) Value { return Value{Kind: StringValue, Str: v} }

func ParseValue(raw string) Value {
	switch raw {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return Float(f)
	}
	return String(raw)
}

// String renders the canonical raw form: bool literals, plain decimal
// integers, and floats per FormatFloat.
func (v Value) String() string {
	switch v.Kind {
	case BoolValue:
		if v.Bool {
			return "true"
		}
		return "false"
	case IntValue:
		return strconv.FormatInt(v.Int, 10)
	case FloatValue:
		return FormatFloat(v.Float)
	default:
		return v.Str
	}
}

// Any returns the value as a plain Go value, for the scripting surface.
func (v Value) Any() any {
	switch v.Kind {
	case BoolValue:
		return v.Bool
	case IntValue:
		return v.Int
	case FloatValue:
		return v.Float
	default:
		return v.Str
	}
}

// Equal compares two projections. Int and Float compare numerically across
// kinds, so a filter value 10 matches an attribute written as "10".
func (v Value) Equal(o Value) bool {
	if v.Kind == o.Kind {
		switch v.Kind {
		case BoolValue:
			return v.Bool == o.Bool
		case IntValue:
			return v.Int == o.Int
		case FloatValue:
			return v.Float == o.Float
		default:
			return v.Str == o.Str
		}
	}
	switch {
	case v.Kind == IntValue && o.Kind == FloatValue:
		return float64(v.Int) == o.Float
	case v.Kind == FloatValue && o.Kind == IntValue:
		return v.Float == float64(o.Int)
	}
	return false
}

// FromAny projects a Go value produced by the scripting surface.
func FromAny(x any) Value {
	switch t := x.(type) {
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
			return Int(int64(t))
		}
		return Float(t)
	case string:
		return String(t)
	case Value:
		return t
	default:
		return String(fmt.Sprint(x))
	}
}

// FormatFloat renders the shortest round-trip decimal form, switching to
// scientific notation with a bare exponent below 1e-4 and at or above 1e21
// in magnitude: 0.125, 8e-23, 6.23453e32.
func FormatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	abs := math.Abs(f)
	if f == 0 || (abs >= 1e-4 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	e := strings.IndexByte(s, 'e')
	mant, exp := s[:e], s[e+1:]
	neg := false
	if exp[0] == '+' {
		exp = exp[1:]
	} else if exp[0] == '-' {
		neg = true
		exp = exp[1:]
	}
	exp = strings.TrimLeft(exp, "0")
	if exp == "" {
		exp = "0"
	}
	if neg {
		exp = "-" + exp
	}
	return mant + "e" + exp
}
