package symbolic

import (
	"math/big"
	"sort"
)

// ============================================================
// Calculus entry points
// ============================================================

func Sub(expr Expr, varName string, value Expr) Expr {
	return expr.Sub(varName, value).Simplify()
}

func Diff(expr Expr, varName string) Expr {
	return expr.Diff(varName).Simplify()
}

func Diff2(expr Expr, varName string) Expr {
	return Diff(Diff(expr, varName), varName)
}

func DiffN(expr Expr, varName string, n int) Expr {
	result := expr
	for i := 0; i < n; i++ {
		result = Diff(result, varName)
	}
	return result
}

// ============================================================
// Expansion
// ============================================================

// Expand multiplies out products of sums and small non-negative integer
// powers of sums.
func Expand(e Expr) Expr { return expandExpr(e).Simplify() }

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Mul:
		result := Expr(N(1))
		for _, f := range v.factors {
			result = expandProduct(result, expandExpr(f))
		}
		return result
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = expandExpr(t)
		}
		return AddOf(newTerms...)
	case *Pow:
		if n, ok := v.exp.(*Num); ok && n.IsInteger() {
			exp := n.val.Num().Int64()
			if exp >= 0 && exp <= 10 {
				result := Expr(N(1))
				base := expandExpr(v.base)
				for i := int64(0); i < exp; i++ {
					result = expandProduct(result, base)
				}
				return result
			}
		}
		return PowOf(expandExpr(v.base), expandExpr(v.exp))
	case *Func:
		return funcOf(v.name, expandExpr(v.arg)).Simplify()
	}
	return e
}

// expandProduct multiplies two expanded expressions term by term.
func expandProduct(a, b Expr) Expr {
	at, bt := addTerms(a), addTerms(b)
	terms := make([]Expr, 0, len(at)*len(bt))
	for _, x := range at {
		for _, y := range bt {
			terms = append(terms, MulOf(x, y))
		}
	}
	return AddOf(terms...)
}

func addTerms(e Expr) []Expr {
	if a, ok := e.(*Add); ok {
		return a.terms
	}
	return []Expr{e}
}

// ============================================================
// Free symbols
// ============================================================

func FreeSymbols(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	collectSymbols(e, result)
	return result
}

// Contains reports whether varName occurs free in e.
func Contains(e Expr, varName string) bool {
	_, ok := FreeSymbols(e)[varName]
	return ok
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		collectSymbols(v.arg, out)
	}
}

// ============================================================
// Polynomial utilities
// ============================================================

// Degree returns the polynomial degree of expr in varName, or -1 when expr
// is not a polynomial in varName.
func Degree(expr Expr, varName string) int {
	coeffs, ok := PolyCoeffs(expr, varName)
	if !ok {
		return -1
	}
	deg := 0
	for d := range coeffs {
		if d > deg {
			deg = d
		}
	}
	return deg
}

// PolyCoeffs expands expr and groups its terms by power of varName.
// Coefficients may contain other symbols. It fails when a term holds
// varName in any other form (inside a function, a negative or fractional
// power, an exponent).
func PolyCoeffs(expr Expr, varName string) (map[int]Expr, bool) {
	out := map[int]Expr{}
	expanded := Expand(expr)
	terms := []Expr{expanded}
	if a, ok := expanded.(*Add); ok {
		terms = a.terms
	}
	for _, t := range terms {
		deg, coeff, ok := monomial(t, varName)
		if !ok {
			return nil, false
		}
		if existing, seen := out[deg]; seen {
			out[deg] = AddOf(existing, coeff)
		} else {
			out[deg] = coeff
		}
	}
	for d, c := range out {
		if n, ok := c.(*Num); ok && n.IsZero() && d > 0 {
			delete(out, d)
		}
	}
	return out, true
}

// monomial splits a single term into (degree, coefficient).
func monomial(t Expr, varName string) (int, Expr, bool) {
	factors := []Expr{t}
	if m, ok := t.(*Mul); ok {
		factors = m.factors
	}
	deg := 0
	var coeff []Expr
	for _, f := range factors {
		d, ok := powerOfVar(f, varName)
		switch {
		case !ok:
			return 0, nil, false
		case d > 0:
			deg += d
		default:
			coeff = append(coeff, f)
		}
	}
	switch len(coeff) {
	case 0:
		return deg, N(1), true
	case 1:
		return deg, coeff[0], true
	}
	return deg, MulOf(coeff...), true
}

// powerOfVar returns n when f is varName^n for a non-negative integer n, and
// 0 when f does not mention varName at all.
func powerOfVar(f Expr, varName string) (int, bool) {
	if !Contains(f, varName) {
		return 0, true
	}
	switch v := f.(type) {
	case *Sym:
		return 1, true
	case *Pow:
		sym, ok := v.base.(*Sym)
		n, isNum := v.exp.(*Num)
		if ok && sym.name == varName && isNum && n.IsInteger() && n.IsPositive() && n.val.Num().IsInt64() {
			return int(n.val.Num().Int64()), true
		}
	}
	return 0, false
}

// Polynomial returns the rational coefficients of expr in varName, lowest
// degree first, with trailing zeros trimmed. It fails unless every
// coefficient evaluates to a number.
func Polynomial(expr Expr, varName string) ([]*Num, bool) {
	grouped, ok := PolyCoeffs(expr, varName)
	if !ok {
		return nil, false
	}
	degs := make([]int, 0, len(grouped))
	for d := range grouped {
		degs = append(degs, d)
	}
	sort.Ints(degs)
	maxDeg := 0
	if len(degs) > 0 {
		maxDeg = degs[len(degs)-1]
	}
	coeffs := make([]*Num, maxDeg+1)
	for i := range coeffs {
		coeffs[i] = N(0)
	}
	for _, d := range degs {
		n, ok := grouped[d].Eval()
		if !ok {
			return nil, false
		}
		coeffs[d] = n
	}
	return trimPoly(coeffs), true
}

func trimPoly(coeffs []*Num) []*Num {
	for len(coeffs) > 1 && coeffs[len(coeffs)-1].IsZero() {
		coeffs = coeffs[:len(coeffs)-1]
	}
	return coeffs
}

// polyEval evaluates coeffs at r exactly using Horner's rule.
func polyEval(coeffs []*Num, r *big.Rat) *big.Rat {
	acc := new(big.Rat)
	for i := len(coeffs) - 1; i >= 0; i-- {
		acc.Mul(acc, r)
		acc.Add(acc, coeffs[i].val)
	}
	return acc
}

// polyEvalFloat evaluates coeffs at x using Horner's rule.
func polyEvalFloat(coeffs []float64, x float64) float64 {
	acc := 0.0
	for i := len(coeffs) - 1; i >= 0; i-- {
		acc = acc*x + coeffs[i]
	}
	return acc
}

// ============================================================
// Fractions
// ============================================================

// Fraction splits e into numerator and denominator by pulling out factors
// with negative integer exponents. Sums are brought over the product of
// their denominators. The denominator is 1 when e has none.
func Fraction(e Expr) (num, den Expr) {
	switch v := e.Simplify().(type) {
	case *Pow:
		if n, ok := v.exp.(*Num); ok && n.IsNegative() && n.IsInteger() {
			return N(1), PowOf(v.base, numNeg(n))
		}
		return v, N(1)
	case *Mul:
		var nums, dens []Expr
		for _, f := range v.factors {
			fn, fd := Fraction(f)
			nums = append(nums, fn)
			if !isNumEqual(fd, 1) {
				dens = append(dens, fd)
			}
		}
		if len(dens) == 0 {
			return v, N(1)
		}
		return MulOf(nums...), MulOf(dens...)
	case *Add:
		nums := make([]Expr, len(v.terms))
		dens := make([]Expr, len(v.terms))
		plain := true
		for i, t := range v.terms {
			nums[i], dens[i] = Fraction(t)
			if !isNumEqual(dens[i], 1) {
				plain = false
			}
		}
		if plain {
			return v, N(1)
		}
		terms := make([]Expr, len(v.terms))
		for i := range v.terms {
			factors := []Expr{nums[i]}
			for j := range v.terms {
				if j != i {
					factors = append(factors, dens[j])
				}
			}
			terms[i] = MulOf(factors...)
		}
		return AddOf(terms...), MulOf(dens...)
	default:
		return v, N(1)
	}
}
