package ast

import (
	"math"
	"strconv"
	"strings"
)

// Literal is the value of a LiteralExpr: one of StringValue, NumberValue,
// BoolValue or NilValue.
type Literal interface {
	// Source renders the value as CPL source text.
	Source() string
	literal()
}

// StringValue is the text between the quotes of a string literal.
type StringValue string

// NumberValue is a double-precision number.
type NumberValue float64

// BoolValue is true or false.
type BoolValue bool

// NilValue is the nil literal.
type NilValue struct{}

func (StringValue) literal() {}
func (NumberValue) literal() {}
func (BoolValue) literal()   {}
func (NilValue) literal()    {}

func (s StringValue) Source() string { return `"` + string(s) + `"` }

// Source uses the shortest decimal form that reads back as the same number,
// without an exponent, since the scanner does not accept one. Infinity,
// which only a literal beyond the float64 range produces, is written as
// the shortest power of ten that scans back to it.
func (n NumberValue) Source() string {
	f := float64(n)
	if math.IsInf(f, 0) {
		digits := "1" + strings.Repeat("0", overflowDigits)
		if f < 0 {
			return "-" + digits
		}
		return digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// overflowDigits is the number of zeros after a 1 that first exceeds the
// largest float64, about 1.8e308.
const overflowDigits = 309

func (b BoolValue) Source() string { return strconv.FormatBool(bool(b)) }
func (NilValue) Source() string    { return "nil" }

// Interface returns the value as a plain Go value: string, float64, bool or
// nil.
func Interface(l Literal) interface{} {
	switch v := l.(type) {
	case StringValue:
		return string(v)
	case NumberValue:
		return float64(v)
	case BoolValue:
		return bool(v)
	default:
		return nil
	}
}
