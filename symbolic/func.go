package symbolic

import (
	"math"
	"sort"
)

// ============================================================
// Func — named function applications
// ============================================================

type Func struct {
	name string
	arg  Expr
}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

func SinOf(arg Expr) Expr     { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr     { return funcOf("cos", arg).Simplify() }
func TanOf(arg Expr) Expr     { return funcOf("tan", arg).Simplify() }
func CscOf(arg Expr) Expr     { return funcOf("csc", arg).Simplify() }
func SecOf(arg Expr) Expr     { return funcOf("sec", arg).Simplify() }
func CotOf(arg Expr) Expr     { return funcOf("cot", arg).Simplify() }
func ExpOf(arg Expr) Expr     { return funcOf("exp", arg).Simplify() }
func LnOf(arg Expr) Expr      { return funcOf("ln", arg).Simplify() }
func SqrtOf(arg Expr) Expr    { return PowOf(arg, F(1, 2)) }
func AbsOf(arg Expr) Expr     { return funcOf("abs", arg).Simplify() }
func AsinOf(arg Expr) Expr    { return funcOf("asin", arg).Simplify() }
func AcosOf(arg Expr) Expr    { return funcOf("acos", arg).Simplify() }
func AtanOf(arg Expr) Expr    { return funcOf("atan", arg).Simplify() }
func SinhOf(arg Expr) Expr    { return funcOf("sinh", arg).Simplify() }
func CoshOf(arg Expr) Expr    { return funcOf("cosh", arg).Simplify() }
func TanhOf(arg Expr) Expr    { return funcOf("tanh", arg).Simplify() }
func FloorOf(arg Expr) Expr   { return funcOf("floor", arg).Simplify() }
func CeilOf(arg Expr) Expr    { return funcOf("ceil", arg).Simplify() }
func SignOf(arg Expr) Expr    { return funcOf("sign", arg).Simplify() }
func RadiansOf(arg Expr) Expr { return funcOf("radians", arg).Simplify() }

// Parity of each function under f(-u): odd functions pull the sign out,
// even functions drop it.
var (
	oddFuncs  = map[string]bool{"sin": true, "tan": true, "csc": true, "cot": true, "asin": true, "atan": true, "sinh": true, "tanh": true, "radians": true, "sign": true}
	evenFuncs = map[string]bool{"cos": true, "sec": true, "cosh": true, "abs": true}
)

// FuncNames lists the function names the kernel understands, sorted.
func FuncNames() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var builders = map[string]func(Expr) Expr{
	"sin": SinOf, "cos": CosOf, "tan": TanOf,
	"csc": CscOf, "sec": SecOf, "cot": CotOf,
	"asin": AsinOf, "acos": AcosOf, "atan": AtanOf,
	"sinh": SinhOf, "cosh": CoshOf, "tanh": TanhOf,
	"exp": ExpOf, "ln": LnOf, "log": LnOf, "sqrt": SqrtOf,
	"abs": AbsOf, "floor": FloorOf, "ceil": CeilOf, "sign": SignOf,
	"radians": RadiansOf,
}

func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	if n, ok := arg.(*Num); ok {
		if v := applyFunc(f.name, n.Float64()); v.IsReal() {
			return NFloat(v.Re)
		}
		return &Func{name: f.name, arg: arg}
	}
	if isNegativeForm(arg) {
		switch {
		case oddFuncs[f.name]:
			return MulOf(N(-1), funcOf(f.name, Neg(arg)).Simplify())
		case evenFuncs[f.name]:
			return funcOf(f.name, Neg(arg)).Simplify()
		}
	}
	switch f.name {
	case "ln":
		if c, ok := arg.(*Const); ok && c.name == "e" {
			return N(1)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "exp" {
			return inner.arg
		}
	case "exp":
		if inner, ok := arg.(*Func); ok && inner.name == "ln" {
			return inner.arg
		}
	}
	return &Func{name: f.name, arg: arg}
}

// isNegativeForm reports whether e carries a leading negative coefficient.
func isNegativeForm(e Expr) bool {
	switch v := e.(type) {
	case *Num:
		return v.IsNegative()
	case *Mul:
		if c, ok := v.factors[0].(*Num); ok {
			return c.IsNegative()
		}
	}
	return false
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	switch f.name {
	case "sin", "cos", "tan", "csc", "sec", "cot", "exp", "ln", "sinh", "cosh", "tanh":
		return "\\" + f.name + "\\left(" + f.arg.LaTeX() + "\\right)"
	case "asin":
		return "\\arcsin\\left(" + f.arg.LaTeX() + "\\right)"
	case "acos":
		return "\\arccos\\left(" + f.arg.LaTeX() + "\\right)"
	case "atan":
		return "\\arctan\\left(" + f.arg.LaTeX() + "\\right)"
	case "abs":
		return "\\left|" + f.arg.LaTeX() + "\\right|"
	case "floor":
		return "\\lfloor " + f.arg.LaTeX() + " \\rfloor"
	case "ceil":
		return "\\lceil " + f.arg.LaTeX() + " \\rceil"
	case "radians":
		return "\\frac{\\pi}{180}\\left(" + f.arg.LaTeX() + "\\right)"
	}
	return "\\operatorname{" + f.name + "}\\left(" + f.arg.LaTeX() + "\\right)"
}

func (f *Func) Sub(varName string, value Expr) Expr {
	return funcOf(f.name, f.arg.Sub(varName, value)).Simplify()
}

func (f *Func) Diff(varName string) Expr {
	du := f.arg.Diff(varName)
	if n, ok := du.(*Num); ok && n.IsZero() {
		return N(0)
	}
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(f.arg)
	case "cos":
		outer = MulOf(N(-1), SinOf(f.arg))
	case "tan":
		outer = AddOf(N(1), PowOf(TanOf(f.arg), N(2)))
	case "csc":
		outer = MulOf(N(-1), CscOf(f.arg), CotOf(f.arg))
	case "sec":
		outer = MulOf(SecOf(f.arg), TanOf(f.arg))
	case "cot":
		outer = MulOf(N(-1), PowOf(CscOf(f.arg), N(2)))
	case "exp":
		outer = ExpOf(f.arg)
	case "ln":
		outer = PowOf(f.arg, N(-1))
	case "asin":
		outer = PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2))
	case "acos":
		outer = MulOf(N(-1), PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(N(1), PowOf(f.arg, N(2))), N(-1))
	case "sinh":
		outer = CoshOf(f.arg)
	case "cosh":
		outer = SinhOf(f.arg)
	case "tanh":
		outer = AddOf(N(1), MulOf(N(-1), PowOf(TanhOf(f.arg), N(2))))
	case "abs":
		outer = SignOf(f.arg)
	case "radians":
		outer = MulOf(F(1, 180), Pi())
	case "sign", "floor", "ceil":
		return N(0)
	default:
		return MulOf(funcOf("D["+f.name+"]", f.arg), du)
	}
	return MulOf(outer, du)
}

func (f *Func) Eval() (*Num, bool) {
	n, ok := f.arg.Eval()
	if !ok {
		return nil, false
	}
	v := applyFunc(f.name, n.Float64())
	if !v.IsReal() {
		return nil, false
	}
	return NFloat(v.Re), true
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *Func) evalFloat(varName string, x float64) Value {
	a := f.arg.evalFloat(varName, x)
	if !a.IsReal() {
		return a
	}
	return applyFunc(f.name, a.Re)
}

func (f *Func) FuncName() string { return f.name }
func (f *Func) Arg() Expr        { return f.arg }

// applyFunc evaluates a named function on a real argument.
func applyFunc(name string, v float64) Value {
	switch name {
	case "sin":
		return RealValue(math.Sin(v))
	case "cos":
		return RealValue(math.Cos(v))
	case "tan":
		return RealValue(math.Tan(v))
	case "csc":
		return reciprocal(math.Sin(v))
	case "sec":
		return reciprocal(math.Cos(v))
	case "cot":
		return reciprocal(math.Tan(v))
	case "exp":
		return RealValue(math.Exp(v))
	case "ln":
		switch {
		case v < 0:
			return ComplexValue(math.Log(-v), math.Pi)
		case v == 0:
			return UndefinedValue()
		}
		return RealValue(math.Log(v))
	case "abs":
		return RealValue(math.Abs(v))
	case "asin":
		if v < -1 || v > 1 {
			return Value{Kind: Complex}
		}
		return RealValue(math.Asin(v))
	case "acos":
		if v < -1 || v > 1 {
			return Value{Kind: Complex}
		}
		return RealValue(math.Acos(v))
	case "atan":
		return RealValue(math.Atan(v))
	case "sinh":
		return RealValue(math.Sinh(v))
	case "cosh":
		return RealValue(math.Cosh(v))
	case "tanh":
		return RealValue(math.Tanh(v))
	case "floor":
		return RealValue(math.Floor(v))
	case "ceil":
		return RealValue(math.Ceil(v))
	case "sign":
		switch {
		case v > 0:
			return RealValue(1)
		case v < 0:
			return RealValue(-1)
		}
		return RealValue(0)
	case "radians":
		return RealValue(v * math.Pi / 180)
	}
	return UndefinedValue()
}

func reciprocal(v float64) Value {
	if v == 0 {
		return UndefinedValue()
	}
	return RealValue(1 / v)
}
