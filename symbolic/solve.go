package symbolic

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"math/cmplx"
	"sort"
)

// ============================================================
// Solvers
// ============================================================

var (
	// ErrIdentity means the expression is zero for every value of the
	// variable, so "expr = 0" has no isolated solutions.
	ErrIdentity = errors.New("symbolic: expression is identically zero")
	// ErrNoClosedForm means the solver does not handle this form. The
	// equation may still have solutions.
	ErrNoClosedForm = errors.New("symbolic: no closed-form solution")
)

// Solution is one solution of expr = 0. Expr is the exact form when one is
// known and nil for complex solutions; Value is tagged Real or Complex.
type Solution struct {
	Expr  Expr
	Value Value
}

func (s Solution) String() string {
	if s.Expr != nil {
		return s.Expr.String()
	}
	return s.Value.String()
}

// Real returns the solution as a float when it is real.
func (s Solution) Real() (float64, bool) { return s.Value.Float64() }

type SolveResult struct {
	Solutions []Solution
	ExactForm bool
	// Periodic is set for trigonometric equations, where Solutions holds
	// the principal values and not every solution.
	Periodic bool
}

// RealSolutions returns the real solutions as floats in ascending order.
func (r SolveResult) RealSolutions() []float64 {
	var out []float64
	for _, s := range r.Solutions {
		if v, ok := s.Real(); ok {
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

// Solve finds the values of varName for which expr = 0.
//
// Polynomials with numeric coefficients are solved completely: rational
// roots exactly, quadratics in radicals, cubics by the trigonometric or
// Cardano method and anything higher numerically. Quotients solve the
// numerator and drop zeros of the denominator, products solve each
// factor, and positive powers, abs, ln and exp are unwrapped. sin, cos and
// tan yield their principal zeros (sin: 0 and pi, tan: 0, cos: pi/2 and
// 3pi/2), solved back through the argument. Anything
// else returns ErrNoClosedForm.
func Solve(expr Expr, varName string) (SolveResult, error) {
	sols, exact, err := solveZero(expr.Simplify(), varName)
	if err != nil {
		return SolveResult{}, err
	}
	return SolveResult{Solutions: normalizeSolutions(sols), ExactForm: exact, Periodic: periodic(expr, varName)}, nil
}

func solveZero(e Expr, varName string) ([]Solution, bool, error) {
	if !Contains(e, varName) {
		n, ok := e.Eval()
		if ok && n.IsZero() {
			return nil, false, ErrIdentity
		}
		return nil, true, nil
	}
	if coeffs, ok := Polynomial(e, varName); ok {
		return solvePoly(coeffs)
	}
	if num, den := Fraction(e); !isNumEqual(den, 1) {
		sols, exact, err := solveZero(num, varName)
		if err != nil {
			return nil, false, err
		}
		kept := sols[:0]
		for _, s := range sols {
			if !isPole(den, varName, s) {
				kept = append(kept, s)
			}
		}
		return kept, exact, nil
	}
	switch v := e.(type) {
	case *Mul:
		var all []Solution
		exact := true
		for _, f := range v.factors {
			if !Contains(f, varName) {
				continue
			}
			sols, ex, err := solveZero(f, varName)
			if err != nil {
				return nil, false, err
			}
			exact = exact && ex
			all = append(all, sols...)
		}
		return all, exact, nil
	case *Pow:
		if n, ok := v.exp.(*Num); ok && n.IsPositive() {
			return solveZero(v.base, varName)
		}
		if b, ok := v.base.(*Num); ok && b.IsPositive() {
			// a^u never vanishes for a > 0.
			return nil, true, nil
		}
	case *Func:
		switch v.name {
		case "abs", "sign", "radians", "sinh", "tanh", "asin", "atan":
			return solveZero(v.arg, varName)
		case "ln":
			return solveZero(AddOf(v.arg, N(-1)), varName)
		case "exp":
			return nil, true, nil
		case "sin":
			return solveEqual(v.arg, varName, N(0), Pi())
		case "tan":
			return solveEqual(v.arg, varName, N(0))
		case "cos":
			return solveEqual(v.arg, varName, MulOf(F(1, 2), Pi()), MulOf(F(3, 2), Pi()))
		}
	}
	return nil, false, fmt.Errorf("%w: %s = 0", ErrNoClosedForm, e)
}

// solveEqual solves u = c for each c. radians(w) = c is turned into
// w = 180c/pi first.
func solveEqual(u Expr, varName string, cs ...Expr) ([]Solution, bool, error) {
	var all []Solution
	exact := true
	for _, c := range cs {
		w := u
		for {
			f, ok := w.(*Func)
			if !ok || f.name != "radians" {
				break
			}
			w, c = f.arg, MulOf(c, N(180), PowOf(Pi(), N(-1)))
		}
		sols, ex, err := solveZero(AddOf(w, Neg(c)), varName)
		if err != nil {
			return nil, false, err
		}
		exact = exact && ex
		all = append(all, sols...)
	}
	return all, exact, nil
}

// periodic reports whether e applies a trigonometric function to an
// argument in varName. Solutions of such equations are principal values
// only.
func periodic(e Expr, varName string) bool {
	switch v := e.(type) {
	case *Add:
		for _, t := range v.terms {
			if periodic(t, varName) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if periodic(f, varName) {
				return true
			}
		}
	case *Pow:
		return periodic(v.base, varName) || periodic(v.exp, varName)
	case *Func:
		switch v.name {
		case "sin", "cos", "tan", "csc", "sec", "cot":
			if Contains(v.arg, varName) {
				return true
			}
		}
		return periodic(v.arg, varName)
	}
	return false
}

// isPole reports whether den vanishes (or is undefined) at a real solution.
func isPole(den Expr, varName string, s Solution) bool {
	x, ok := s.Real()
	if !ok {
		return false
	}
	if s.Expr != nil {
		if n, ok := den.Sub(varName, s.Expr).Simplify().Eval(); ok {
			return n.IsZero()
		}
	}
	d := EvalAt(den, varName, x)
	if !d.IsReal() {
		return true
	}
	return math.Abs(d.Re) < 1e-9
}

// solvePoly solves sum(coeffs[i] * x^i) = 0.
func solvePoly(coeffs []*Num) ([]Solution, bool, error) {
	coeffs = trimPoly(coeffs)
	if len(coeffs) == 1 {
		if coeffs[0].IsZero() {
			return nil, false, ErrIdentity
		}
		return nil, true, nil
	}
	var sols []Solution
	// Factor out x^k.
	if coeffs[0].IsZero() {
		sols = append(sols, exactReal(N(0)))
		for len(coeffs) > 1 && coeffs[0].IsZero() {
			coeffs = coeffs[1:]
		}
	}
	// Peel rational roots while the remaining degree is above two.
	for len(coeffs) > 3 {
		r, ok := rationalRoot(coeffs)
		if !ok {
			break
		}
		sols = append(sols, exactReal(&Num{val: r}))
		coeffs = deflate(coeffs, r)
	}
	switch len(coeffs) - 1 {
	case 0:
		return sols, true, nil
	case 1:
		return append(sols, exactReal(numNeg(numDiv(coeffs[0], coeffs[1])))), true, nil
	case 2:
		q, exact := solveQuadratic(coeffs[2], coeffs[1], coeffs[0])
		return append(sols, q...), exact, nil
	case 3:
		return append(sols, solveCubic(coeffs)...), false, nil
	}
	return append(sols, durandKerner(coeffs)...), false, nil
}

func exactReal(n *Num) Solution { return Solution{Expr: n, Value: RealValue(n.Float64())} }

// solveQuadratic solves a*x^2 + b*x + c = 0. Roots are exact rationals when
// the discriminant is a perfect square and exact radicals otherwise.
func solveQuadratic(a, b, c *Num) ([]Solution, bool) {
	disc := numSub(numMul(b, b), numMul(N(4), numMul(a, c)))
	twoA := numMul(N(2), a)
	af, bf, df := a.Float64(), b.Float64(), disc.Float64()
	if disc.IsNegative() {
		re := -bf / (2 * af)
		im := math.Sqrt(-df) / math.Abs(2*af)
		return []Solution{
			{Value: ComplexValue(re, im)},
			{Value: ComplexValue(re, -im)},
		}, true
	}
	if root, ok := ratSqrt(disc.val); ok {
		sq := &Num{val: root}
		x1 := numDiv(numAdd(numNeg(b), sq), twoA)
		x2 := numDiv(numSub(numNeg(b), sq), twoA)
		return []Solution{exactReal(x1), exactReal(x2)}, true
	}
	sq := math.Sqrt(df)
	inv := numRecip(twoA)
	x1 := MulOf(inv, AddOf(numNeg(b), SqrtOf(disc)))
	x2 := MulOf(inv, AddOf(numNeg(b), MulOf(N(-1), SqrtOf(disc))))
	return []Solution{
		{Expr: x1, Value: RealValue((-bf + sq) / (2 * af))},
		{Expr: x2, Value: RealValue((-bf - sq) / (2 * af))},
	}, true
}

// ratSqrt returns the exact square root of a non-negative rational when
// numerator and denominator are both perfect squares.
func ratSqrt(r *big.Rat) (*big.Rat, bool) {
	if r.Sign() < 0 {
		return nil, false
	}
	num, den := r.Num(), r.Denom()
	sn, sd := new(big.Int).Sqrt(num), new(big.Int).Sqrt(den)
	if new(big.Int).Mul(sn, sn).Cmp(num) != 0 || new(big.Int).Mul(sd, sd).Cmp(den) != 0 {
		return nil, false
	}
	return new(big.Rat).SetFrac(sn, sd), true
}

// solveCubic returns the roots of a cubic with numeric coefficients
// (constant term first).
func solveCubic(coeffs []*Num) []Solution {
	af, bf, cf, df := coeffs[3].Float64(), coeffs[2].Float64(), coeffs[1].Float64(), coeffs[0].Float64()
	p := (3*af*cf - bf*bf) / (3 * af * af)
	q := (2*bf*bf*bf - 9*af*bf*cf + 27*af*af*df) / (27 * af * af * af)
	offset := bf / (3 * af)
	disc := -(4*p*p*p + 27*q*q)

	const eps = 1e-12
	switch {
	case disc > eps:
		m := 2 * math.Sqrt(-p/3)
		theta := math.Acos(clamp(3*q/(p*m), -1, 1)) / 3
		roots := make([]Solution, 0, 3)
		for k := 0; k < 3; k++ {
			x := m*math.Cos(theta-2*math.Pi*float64(k)/3) - offset
			roots = append(roots, floatReal(x))
		}
		return roots
	case math.Abs(disc) <= eps:
		if math.Abs(q) <= eps {
			return []Solution{floatReal(-offset)}
		}
		return []Solution{floatReal(3*q/p - offset), floatReal(-3*q/(2*p) - offset)}
	}
	A := math.Cbrt(-q/2 + math.Sqrt(q*q/4+p*p*p/27))
	B := 0.0
	if A != 0 {
		B = -p / (3 * A)
	}
	re := -(A+B)/2 - offset
	im := math.Sqrt(3) / 2 * math.Abs(A-B)
	return []Solution{
		floatReal(A + B - offset),
		{Value: ComplexValue(re, im)},
		{Value: ComplexValue(re, -im)},
	}
}

func floatReal(x float64) Solution {
	v := RealValue(x)
	if !v.IsReal() {
		return Solution{Value: v}
	}
	return Solution{Expr: NFloat(x), Value: v}
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }

// rationalRoot searches the candidates p/q of the rational root theorem.
// It gives up when the integer coefficients are too large to factor
// quickly.
func rationalRoot(coeffs []*Num) (*big.Rat, bool) {
	ints := integerCoeffs(coeffs)
	lead, constant := ints[len(ints)-1], ints[0]
	if !lead.IsInt64() || !constant.IsInt64() {
		return nil, false
	}
	ps, ok1 := divisors(constant.Int64())
	qs, ok2 := divisors(lead.Int64())
	if !ok1 || !ok2 {
		return nil, false
	}
	for _, q := range qs {
		for _, p := range ps {
			for _, sign := range []int64{1, -1} {
				r := big.NewRat(sign*p, q)
				if polyEval(coeffs, r).Sign() == 0 {
					return r, true
				}
			}
		}
	}
	return nil, false
}

// integerCoeffs scales coeffs by the lcm of their denominators.
func integerCoeffs(coeffs []*Num) []*big.Int {
	lcm := big.NewInt(1)
	for _, c := range coeffs {
		d := c.val.Denom()
		g := new(big.Int).GCD(nil, nil, lcm, d)
		lcm.Mul(lcm, new(big.Int).Quo(d, g))
	}
	out := make([]*big.Int, len(coeffs))
	for i, c := range coeffs {
		scaled := new(big.Rat).Mul(c.val, new(big.Rat).SetInt(lcm))
		out[i] = new(big.Int).Set(scaled.Num())
	}
	return out
}

const maxDivisorSearch = 1_000_000

func divisors(n int64) ([]int64, bool) {
	if n < 0 {
		n = -n
	}
	if n == 0 || n > maxDivisorSearch {
		return nil, false
	}
	var out []int64
	for d := int64(1); d*d <= n; d++ {
		if n%d == 0 {
			out = append(out, d)
			if d*d != n {
				out = append(out, n/d)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, true
}

// deflate divides the polynomial by (x - r) using synthetic division.
func deflate(coeffs []*Num, r *big.Rat) []*Num {
	n := len(coeffs) - 1
	out := make([]*Num, n)
	carry := new(big.Rat)
	for i := n; i >= 1; i-- {
		carry = new(big.Rat).Add(new(big.Rat).Mul(carry, r), coeffs[i].val)
		out[i-1] = &Num{val: carry}
	}
	return out
}

// durandKerner finds all roots of a polynomial of degree four or more.
// Real roots are polished with a few Newton steps.
func durandKerner(coeffs []*Num) []Solution {
	n := len(coeffs) - 1
	lead := coeffs[n].Float64()
	monic := make([]complex128, n+1)
	fcoeffs := make([]float64, n+1)
	for i, c := range coeffs {
		f := c.Float64()
		monic[i] = complex(f/lead, 0)
		fcoeffs[i] = f
	}
	eval := func(z complex128) complex128 {
		acc := complex(0, 0)
		for i := n; i >= 0; i-- {
			acc = acc*z + monic[i]
		}
		return acc
	}
	roots := make([]complex128, n)
	seed := complex(0.4, 0.9)
	roots[0] = 1
	for i := 1; i < n; i++ {
		roots[i] = roots[i-1] * seed
	}
	for iter := 0; iter < 500; iter++ {
		maxDelta := 0.0
		for i := range roots {
			denom := complex(1, 0)
			for j := range roots {
				if i != j {
					denom *= roots[i] - roots[j]
				}
			}
			if denom == 0 {
				denom = complex(1e-12, 0)
			}
			delta := eval(roots[i]) / denom
			roots[i] -= delta
			maxDelta = math.Max(maxDelta, cmplx.Abs(delta))
		}
		if maxDelta < 1e-14 {
			break
		}
	}

	deriv := make([]float64, n)
	for i := 1; i <= n; i++ {
		deriv[i-1] = float64(i) * fcoeffs[i]
	}
	out := make([]Solution, 0, n)
	for _, z := range roots {
		re, im := real(z), imag(z)
		if math.Abs(im) > 1e-7*math.Max(1, math.Abs(re)) {
			out = append(out, Solution{Value: ComplexValue(re, im)})
			continue
		}
		x := re
		for k := 0; k < 5; k++ {
			d := polyEvalFloat(deriv, x)
			if d == 0 {
				break
			}
			x -= polyEvalFloat(fcoeffs, x) / d
		}
		out = append(out, floatReal(x))
	}
	return out
}

// normalizeSolutions drops duplicate roots and orders real solutions
// before complex ones.
func normalizeSolutions(sols []Solution) []Solution {
	const tol = 1e-9
	var out []Solution
	for _, s := range sols {
		if s.Value.Kind == Undefined {
			continue
		}
		dup := false
		for _, o := range out {
			if o.Value.Kind == s.Value.Kind &&
				math.Abs(o.Value.Re-s.Value.Re) <= tol*math.Max(1, math.Abs(s.Value.Re)) &&
				math.Abs(o.Value.Im-s.Value.Im) <= tol*math.Max(1, math.Abs(s.Value.Im)) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Value, out[j].Value
		if a.Kind != b.Kind {
			return a.Kind == Real
		}
		if a.Re != b.Re {
			return a.Re < b.Re
		}
		return a.Im < b.Im
	})
	return out
}
