package symbolic

import (
	"math"
	"strconv"
)

// Kind tags the outcome of evaluating an expression at a real point.
type Kind uint8

const (
	Undefined Kind = iota
	Real
	Complex
)

func (k Kind) String() string {
	switch k {
	case Real:
		return "real"
	case Complex:
		return "complex"
	}
	return "undefined"
}

// Value is a tagged evaluation result: Real carries a finite float,
// Complex carries both parts when they are known, Undefined carries nothing.
type Value struct {
	Kind Kind
	Re   float64
	Im   float64
}

// RealValue tags f as Real, or Undefined when f is NaN or infinite.
func RealValue(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{Kind: Undefined}
	}
	return Value{Kind: Real, Re: f}
}

func ComplexValue(re, im float64) Value { return Value{Kind: Complex, Re: re, Im: im} }
func UndefinedValue() Value           { return Value{Kind: Undefined} }

func (v Value) IsReal() bool { return v.Kind == Real }

// Float64 returns the real part and whether the value is a finite real.
func (v Value) Float64() (float64, bool) {
	if v.Kind != Real {
		return math.NaN(), false
	}
	return v.Re, true
}

func (v Value) String() string {
	switch v.Kind {
	case Real:
		return strconv.FormatFloat(v.Re, 'g', -1, 64)
	case Complex:
		sign := "+"
		im := v.Im
		if im < 0 {
			sign = "-"
			im = -im
		}
		return strconv.FormatFloat(v.Re, 'g', 6, 64) + " " + sign + " " + strconv.FormatFloat(im, 'g', 6, 64) + "i"
	}
	return "undefined"
}

// EvalAt evaluates expr with varName bound to x using float arithmetic.
// It never panics: division by zero and overflow give Undefined, real
// roots of negatives and logarithms of negatives give Complex.
func EvalAt(expr Expr, varName string, x float64) Value {
	return expr.evalFloat(varName, x)
}

func combineKinds(a, b Value) (Value, bool) {
	if a.Kind == Undefined || b.Kind == Undefined {
		return UndefinedValue(), false
	}
	if a.Kind == Complex || b.Kind == Complex {
		return Value{Kind: Complex}, false
	}
	return Value{}, true
}
