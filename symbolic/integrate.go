package symbolic

// ============================================================
// Integration (rule-based symbolic + numerical)
// ============================================================

// Integrate returns an antiderivative of expr with respect to varName,
// without the constant of integration. The second result is false when no
// rule applies.
func Integrate(expr Expr, varName string) (Expr, bool) {
	expr = expr.Simplify()
	if !Contains(expr, varName) {
		return MulOf(expr, S(varName)), true
	}
	x := S(varName)
	switch v := expr.(type) {
	case *Sym:
		return MulOf(F(1, 2), PowOf(x, N(2))), true
	case *Pow:
		if a, ok := linearCoeff(v.base, varName); ok {
			if n, ok := v.exp.(*Num); ok {
				if n.IsNegOne() {
					return MulOf(numRecip(a), LnOf(AbsOf(v.base))), true
				}
				newExp := numAdd(n, N(1))
				return MulOf(numRecip(numMul(a, newExp)), PowOf(v.base, newExp)), true
			}
		}
		if a, ok := linearCoeff(v.exp, varName); ok {
			if _, ok := v.base.(*Num); ok {
				return MulOf(numRecip(a), PowOf(v.base, v.exp), PowOf(LnOf(v.base), N(-1))), true
			}
		}
		return nil, false
	case *Mul:
		coeff := N(1)
		var constants, variable []Expr
		for _, f := range v.factors {
			switch n, isNum := f.(*Num); {
			case isNum:
				coeff = numMul(coeff, n)
			case Contains(f, varName):
				variable = append(variable, f)
			default:
				constants = append(constants, f)
			}
		}
		if len(variable) != 1 {
			if expanded := Expand(v); !expanded.Equal(v) {
				return Integrate(expanded, varName)
			}
			return nil, false
		}
		inner, ok := Integrate(variable[0], varName)
		if !ok {
			return nil, false
		}
		return MulOf(append([]Expr{coeff, inner}, constants...)...), true
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			it, ok := Integrate(t, varName)
			if !ok {
				return nil, false
			}
			terms[i] = it
		}
		return AddOf(terms...), true
	case *Func:
		return integrateFunc(v, varName)
	}
	return nil, false
}

// integrateFunc handles f(a*x + b) for the elementary functions with a
// known antiderivative.
func integrateFunc(f *Func, varName string) (Expr, bool) {
	a, ok := linearCoeff(f.arg, varName)
	if !ok {
		return nil, false
	}
	u := f.arg
	inv := numRecip(a)
	switch f.name {
	case "sin":
		return MulOf(N(-1), inv, CosOf(u)), true
	case "cos":
		return MulOf(inv, SinOf(u)), true
	case "tan":
		return MulOf(N(-1), inv, LnOf(AbsOf(CosOf(u)))), true
	case "sec":
		return MulOf(inv, LnOf(AbsOf(AddOf(SecOf(u), TanOf(u))))), true
	case "csc":
		return MulOf(N(-1), inv, LnOf(AbsOf(AddOf(CscOf(u), CotOf(u))))), true
	case "cot":
		return MulOf(inv, LnOf(AbsOf(SinOf(u)))), true
	case "exp":
		return MulOf(inv, ExpOf(u)), true
	case "sinh":
		return MulOf(inv, CoshOf(u)), true
	case "cosh":
		return MulOf(inv, SinhOf(u)), true
	case "ln":
		return MulOf(inv, AddOf(MulOf(u, LnOf(u)), Neg(u))), true
	case "asin":
		return MulOf(inv, AddOf(MulOf(u, AsinOf(u)), SqrtOf(AddOf(N(1), Neg(PowOf(u, N(2))))))), true
	case "atan":
		return MulOf(inv, AddOf(MulOf(u, AtanOf(u)), MulOf(F(-1, 2), LnOf(AddOf(N(1), PowOf(u, N(2))))))), true
	case "radians":
		return MulOf(inv, F(1, 360), Pi(), PowOf(u, N(2))), true
	}
	return nil, false
}

// linearCoeff returns a when e = a*varName + b for numeric a != 0.
func linearCoeff(e Expr, varName string) (*Num, bool) {
	coeffs, ok := Polynomial(e, varName)
	if !ok || len(coeffs) != 2 || coeffs[1].IsZero() {
		return nil, false
	}
	return coeffs[1], true
}

var (
	gaussNodes = []float64{
		-0.9739065285, -0.8650633667, -0.6794095683,
		-0.4333953941, -0.1488743390, 0.1488743390,
		0.4333953941, 0.6794095683, 0.8650633667, 0.9739065285,
	}
	gaussWeights = []float64{
		0.0666713443, 0.1494513492, 0.2190863625,
		0.2692667193, 0.2955242247, 0.2955242247,
		0.2692667193, 0.2190863625, 0.1494513492, 0.0666713443,
	}
)

// DefiniteIntegrate approximates the integral of expr over [a, b] with
// composite 10-point Gauss-Legendre quadrature on panels subintervals. It
// reports false when the integrand is not real somewhere it is sampled.
func DefiniteIntegrate(expr Expr, varName string, a, b float64, panels int) (float64, bool) {
	if panels < 1 {
		panels = 1
	}
	width := (b - a) / float64(panels)
	total := 0.0
	for p := 0; p < panels; p++ {
		lo := a + float64(p)*width
		mid := lo + width/2
		half := width / 2
		sum := 0.0
		for i, t := range gaussNodes {
			v, ok := EvalAt(expr, varName, mid+half*t).Float64()
			if !ok {
				return 0, false
			}
			sum += gaussWeights[i] * v
		}
		total += half * sum
	}
	return total, true
}
