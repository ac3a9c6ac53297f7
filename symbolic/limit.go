package symbolic

import (
	"math"
	"strconv"
)

// ============================================================
// Limits
// ============================================================

type LimitKind uint8

const (
	Finite LimitKind = iota
	PosInfinity
	NegInfinity
	Indeterminate
)

func (k LimitKind) String() string {
	switch k {
	case Finite:
		return "finite"
	case PosInfinity:
		return "+oo"
	case NegInfinity:
		return "-oo"
	}
	return "indeterminate"
}

// LimitResult is a tagged limit. Value is set for Finite limits; Exact holds
// the symbolic value when one was found.
type LimitResult struct {
	Kind  LimitKind
	Value float64
	Exact Expr
}

func (r LimitResult) IsFinite() bool { return r.Kind == Finite }

func (r LimitResult) String() string {
	if r.Kind != Finite {
		return r.Kind.String()
	}
	if r.Exact != nil {
		return r.Exact.String()
	}
	return strconv.FormatFloat(r.Value, 'g', -1, 64)
}

func finiteLimit(e Expr) LimitResult {
	n, ok := e.Eval()
	if !ok {
		return LimitResult{Kind: Indeterminate}
	}
	f := n.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return LimitResult{Kind: Indeterminate}
	}
	return LimitResult{Kind: Finite, Value: f, Exact: e}
}

// Limit computes lim_{varName -> point} expr by direct evaluation, then
// L'Hopital's rule on 0/0 quotients, then a two-sided numeric probe.
func Limit(expr Expr, varName string, point Expr) LimitResult {
	return limitRecursive(expr.Simplify(), varName, point, 5)
}

func limitRecursive(expr Expr, varName string, point Expr, maxLhopital int) LimitResult {
	subbed := expr.Sub(varName, point).Simplify()
	p, ok := point.Eval()
	if !ok {
		return finiteLimit(subbed)
	}
	at := p.Float64()
	// Float evaluation sees through 0*(1/0), which exact simplification folds to 0.
	if v, ok := EvalAt(expr, varName, at).Float64(); ok {
		r := LimitResult{Kind: Finite, Value: v}
		if n, ok := subbed.Eval(); ok && math.Abs(n.Float64()-v) <= 1e-9*math.Max(1, math.Abs(v)) {
			r.Exact = subbed
		}
		return r
	}
	if maxLhopital > 0 {
		if num, den := Fraction(expr); !isNumEqual(den, 1) {
			nv, nok := EvalAt(num, varName, at).Float64()
			dv, dok := EvalAt(den, varName, at).Float64()
			if nok && dok && nv == 0 && dv == 0 {
				quotient := MulOf(Diff(num, varName), PowOf(Diff(den, varName), N(-1)))
				return limitRecursive(quotient, varName, point, maxLhopital-1)
			}
		}
	}
	return probePoint(expr, varName, at)
}

// probePoint approaches at from both sides and accepts a finite limit when
// the two sides settle on the same value.
func probePoint(expr Expr, varName string, at float64) LimitResult {
	var left, right []float64
	for k := 3; k <= 8; k++ {
		h := math.Pow(10, -float64(k)) * math.Max(1, math.Abs(at))
		l, lok := EvalAt(expr, varName, at-h).Float64()
		r, rok := EvalAt(expr, varName, at+h).Float64()
		if !lok || !rok {
			return LimitResult{Kind: Indeterminate}
		}
		left, right = append(left, l), append(right, r)
	}
	n := len(left)
	if converged(left[n-3:]) && converged(right[n-3:]) && converged([]float64{left[n-1], right[n-1]}) {
		v := math.Round((left[n-1]+right[n-1])/2/probeTolerance) * probeTolerance
		if v == 0 {
			v = 0
		}
		return LimitResult{Kind: Finite, Value: v}
	}
	return LimitResult{Kind: Indeterminate}
}

// Direction selects the end of the real line for LimitAtInfinity.
type Direction int

const (
	NegInf Direction = -1
	PosInf Direction = 1
)

func (d Direction) String() string {
	if d == NegInf {
		return "-oo"
	}
	return "+oo"
}

// LimitAtInfinity computes lim expr as varName -> ±oo.
//
// Constants and rational functions with numeric coefficients are handled
// exactly by comparing degrees. Anything else is probed numerically at
// |x| = sqrt(2)*10^(k/2) for k = 0..19; the irrational factor keeps
// periodic functions from looking constant on a decimal grid.
func LimitAtInfinity(expr Expr, varName string, dir Direction) LimitResult {
	expr = expr.Simplify()
	if !Contains(expr, varName) {
		return finiteLimit(expr)
	}
	num, den := Fraction(expr)
	pn, ok1 := Polynomial(num, varName)
	pd, ok2 := Polynomial(den, varName)
	if ok1 && ok2 {
		return rationalLimit(pn, pd, dir)
	}
	return probeLimit(expr, varName, dir)
}

func rationalLimit(pn, pd []*Num, dir Direction) LimitResult {
	if len(pn) == 1 && pn[0].IsZero() {
		return LimitResult{Kind: Finite, Value: 0, Exact: N(0)}
	}
	if len(pd) == 1 && pd[0].IsZero() {
		return LimitResult{Kind: Indeterminate}
	}
	dn, dd := len(pn)-1, len(pd)-1
	ratio := numDiv(pn[dn], pd[dd])
	switch {
	case dn < dd:
		return LimitResult{Kind: Finite, Value: 0, Exact: N(0)}
	case dn == dd:
		return LimitResult{Kind: Finite, Value: ratio.Float64(), Exact: ratio}
	}
	positive := ratio.IsPositive()
	if dir == NegInf && (dn-dd)%2 == 1 {
		positive = !positive
	}
	if positive {
		return LimitResult{Kind: PosInfinity}
	}
	return LimitResult{Kind: NegInfinity}
}

const (
	probeCount     = 20
	probeTolerance = 1e-6
)

func probeLimit(expr Expr, varName string, dir Direction) LimitResult {
	var vals []float64
	for k := 0; k < probeCount; k++ {
		x := float64(dir) * math.Sqrt2 * math.Pow(10, float64(k)/2)
		v, ok := EvalAt(expr, varName, x).Float64()
		if !ok {
			break
		}
		vals = append(vals, v)
	}
	if len(vals) < 4 {
		return LimitResult{Kind: Indeterminate}
	}
	if tail := vals[len(vals)-3:]; len(vals) == probeCount && converged(tail) {
		v := math.Round(tail[2]/probeTolerance) * probeTolerance
		if v == 0 {
			v = 0
		}
		return LimitResult{Kind: Finite, Value: v}
	}
	if tail := vals[len(vals)-4:]; diverging(tail) {
		if tail[3] > 0 {
			return LimitResult{Kind: PosInfinity}
		}
		return LimitResult{Kind: NegInfinity}
	}
	return LimitResult{Kind: Indeterminate}
}

func converged(vals []float64) bool {
	for i := 1; i < len(vals); i++ {
		if math.Abs(vals[i]-vals[i-1]) > probeTolerance*math.Max(1, math.Abs(vals[i])) {
			return false
		}
	}
	return true
}

// diverging reports whether the magnitudes grow strictly with a fixed sign.
func diverging(vals []float64) bool {
	for i := 1; i < len(vals); i++ {
		if math.Signbit(vals[i]) != math.Signbit(vals[0]) || vals[i] == 0 {
			return false
		}
		if math.Abs(vals[i]) <= math.Abs(vals[i-1]) {
			return false
		}
	}
	return true
}

// ============================================================
// Taylor / Maclaurin series
// ============================================================

func TaylorSeries(expr Expr, varName string, a Expr, order int) Expr {
	terms := []Expr{}
	current := expr
	factorial := N(1)
	for k := 0; k <= order; k++ {
		if k > 0 {
			factorial = numMul(factorial, N(int64(k)))
		}
		coeff := MulOf(current.Sub(varName, a), numRecip(factorial))
		if n, ok := coeff.(*Num); ok && n.IsZero() {
			current = Diff(current, varName)
			continue
		}
		shift := AddOf(S(varName), Neg(a))
		switch k {
		case 0:
			terms = append(terms, coeff)
		case 1:
			terms = append(terms, MulOf(coeff, shift))
		default:
			terms = append(terms, MulOf(coeff, PowOf(shift, N(int64(k)))))
		}
		current = Diff(current, varName)
	}
	return AddOf(terms...)
}

func MaclaurinSeries(expr Expr, varName string, order int) Expr {
	return TaylorSeries(expr, varName, N(0), order)
}
