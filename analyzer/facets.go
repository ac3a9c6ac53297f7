package analyzer

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/njchilds90/alevel/sample"
	"github.com/njchilds90/alevel/symbolic"
)

// ============================================================
// Y-intercept
// ============================================================

func (r *run) yIntercept() YIntercept {
	v, ferr := guard("y-intercept", func() (symbolic.Value, error) {
		return r.eval(r.expr, 0), nil
	})
	if ferr != nil {
		r.degraded(ferr)
		return YIntercept{Err: ferr}
	}
	switch v.Kind {
	case symbolic.Real:
		return YIntercept{Defined: true, Y: v.Re}
	case symbolic.Complex:
		return YIntercept{Complex: true}
	}
	return YIntercept{}
}

// ============================================================
// Roots
// ============================================================

func (r *run) roots() RootsFacet {
	res, ferr := guard("roots", func() (symbolic.SolveResult, error) {
		return symbolic.Solve(r.expr, r.v)
	})
	var accepted []float64
	switch {
	case ferr == nil:
		for _, x := range res.RealSolutions() {
			if r.iv.Contains(x) {
				accepted = append(accepted, x)
			}
		}
	case errors.Is(ferr, symbolic.ErrIdentity):
		return RootsFacet{Identity: true}
	case errors.Is(ferr, symbolic.ErrNoClosedForm):
		r.degraded(ferr)
	default:
		r.degraded(ferr)
		return RootsFacet{Err: ferr}
	}

	grid := sample.Uniform(r.iv.Min, r.iv.Max, r.cfg.RootSamples)
	for _, b := range signChanges(r.f, grid) {
		mid := (b.lo + b.hi) / 2
		if !b.covers(accepted, r.cfg.RootTolerance) && !near(accepted, mid, r.cfg.RootTolerance) {
			accepted = append(accepted, mid)
		}
	}
	return RootsFacet{Roots: roundUnique(accepted)}
}

// bracket is a grid cell over which a function changes sign.
type bracket struct{ lo, hi float64 }

// covers reports whether one of xs already lies in the cell, widened by
// tol. The solved value is kept over the cell midpoint.
func (b bracket) covers(xs []float64, tol float64) bool {
	for _, x := range xs {
		if x >= b.lo-tol && x <= b.hi+tol {
			return true
		}
	}
	return false
}

// signChanges scans g over xs and returns the cells with a strict sign
// change between two valid samples. A cell whose midpoint value is larger
// than both ends is a pole, not a zero, and is dropped: unlike a plain
// midpoint scan, 1/x reports no root near 0.
func signChanges(g func(float64) (float64, bool), xs []float64) []bracket {
	pts := sample.Evaluate(xs, g)
	var out []bracket
	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		if !a.Valid || !b.Valid || a.Y*b.Y >= 0 {
			continue
		}
		ym, ok := g((a.X + b.X) / 2)
		if !ok || math.Abs(ym) > math.Max(math.Abs(a.Y), math.Abs(b.Y)) {
			continue
		}
		out = append(out, bracket{lo: a.X, hi: b.X})
	}
	return out
}

// bisect narrows a sign-change bracket of g to a zero.
func bisect(g func(float64) (float64, bool), b bracket) float64 {
	lo, hi := b.lo, b.hi
	glo, _ := g(lo)
	for i := 0; i < 60 && hi-lo > 1e-12; i++ {
		mid := (lo + hi) / 2
		gm, ok := g(mid)
		if !ok {
			break
		}
		if gm == 0 {
			return mid
		}
		if (gm < 0) == (glo < 0) {
			lo, glo = mid, gm
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

func near(xs []float64, x, tol float64) bool {
	for _, y := range xs {
		if math.Abs(x-y) < tol {
			return true
		}
	}
	return false
}

func roundUnique(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	seen := map[float64]bool{}
	for _, x := range xs {
		x = round4(x)
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	sort.Float64s(out)
	return out
}

// ============================================================
// Turning points
// ============================================================

// stationary is a zero of f'. exact is nil when only the float is known.
type stationary struct {
	x     float64
	exact symbolic.Expr
}

func (r *run) turningPoints() TurningFacet {
	d1, ferr := r.derivative()
	if ferr != nil {
		r.degraded(ferr)
		return TurningFacet{Err: ferr}
	}
	cands, ferr := r.stationaryPoints(d1)
	if ferr != nil {
		r.degraded(ferr)
		return TurningFacet{Err: ferr}
	}
	if len(cands) == 0 {
		return TurningFacet{}
	}
	d2, ferr := guard("turning points", func() (symbolic.Expr, error) {
		return symbolic.Diff(d1, r.v), nil
	})
	if ferr != nil {
		r.degraded(ferr)
		return TurningFacet{Err: ferr}
	}

	var points []TurningPoint
	for _, c := range cands {
		// A candidate next to a removable singularity, such as x = 0 for
		// sin(x)/x, is not a point of the graph.
		if _, ok := r.f(round4(c.x)); !ok {
			continue
		}
		y, ok := r.f(c.x)
		if !ok {
			continue
		}
		curv, ok := r.curvature(d2, c)
		if !ok {
			continue
		}
		kind := Saddle
		switch {
		case curv > 0:
			kind = Minimum
		case curv < 0:
			kind = Maximum
		}
		points = append(points, TurningPoint{X: round4(c.x), Y: round4(y), Kind: kind})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].X < points[j].X })
	return TurningFacet{Points: points}
}

// stationaryPoints solves f' = 0 inside the interval. Forms the solver
// cannot handle fall back to bisection on the sign changes of f'. For
// trigonometric f' the solver only knows principal values, so the scan
// adds the other periods.
func (r *run) stationaryPoints(d1 symbolic.Expr) ([]stationary, *FacetError) {
	res, ferr := guard("turning points", func() (symbolic.SolveResult, error) {
		return symbolic.Solve(d1, r.v)
	})
	switch {
	case ferr == nil:
		var out []stationary
		var xs []float64
		for _, s := range res.Solutions {
			if x, ok := s.Real(); ok && r.iv.Contains(x) {
				out = append(out, stationary{x: x, exact: s.Expr})
				xs = append(xs, x)
			}
		}
		if res.Periodic {
			out = append(out, r.scanStationary(d1, xs)...)
		}
		return out, nil
	case errors.Is(ferr, symbolic.ErrIdentity):
		return nil, nil
	case !errors.Is(ferr, symbolic.ErrNoClosedForm):
		return nil, ferr
	}
	r.degraded(ferr)
	return r.scanStationary(d1, nil), nil
}

// scanStationary bisects the sign changes of f' that no known point
// already accounts for.
func (r *run) scanStationary(d1 symbolic.Expr, known []float64) []stationary {
	g := func(x float64) (float64, bool) { return r.eval(d1, x).Float64() }
	grid := sample.Uniform(r.iv.Min, r.iv.Max, r.cfg.RootSamples)
	var out []stationary
	xs := append([]float64(nil), known...)
	for _, b := range signChanges(g, grid) {
		if b.covers(xs, r.cfg.RootTolerance) {
			continue
		}
		x := bisect(g, b)
		if !near(xs, x, r.cfg.RootTolerance) {
			xs = append(xs, x)
			out = append(out, stationary{x: x})
		}
	}
	return out
}

// curvature returns the sign-bearing value of f'' at a stationary point,
// exactly when the point is known exactly. It reports false when f'' is
// not real there.
func (r *run) curvature(d2 symbolic.Expr, c stationary) (float64, bool) {
	if c.exact != nil {
		n, ferr := guard("turning points", func() (*symbolic.Num, error) {
			if n, ok := symbolic.Sub(d2, r.v, c.exact).Eval(); ok {
				return n, nil
			}
			return nil, nil
		})
		if ferr == nil && n != nil {
			return n.Float64(), true
		}
	}
	return r.eval(d2, c.x).Float64()
}

// ============================================================
// Asymptotes
// ============================================================

func (r *run) limit(dir symbolic.Direction) (symbolic.LimitResult, *FacetError) {
	return guard("asymptotes", func() (symbolic.LimitResult, error) {
		return symbolic.LimitAtInfinity(r.expr, r.v, dir), nil
	})
}

// asymptotes reports a horizontal asymptote for every finite limit at
// infinity. Equal limits give one line; a single finite side is reported
// and marked as one-sided.
func (r *run) asymptotes() AsymptoteFacet {
	pos, perr := r.limit(symbolic.PosInf)
	neg, nerr := r.limit(symbolic.NegInf)
	r.degraded(perr)
	r.degraded(nerr)
	if perr != nil && nerr != nil {
		return AsymptoteFacet{Err: perr}
	}
	pf := perr == nil && pos.IsFinite()
	nf := nerr == nil && neg.IsFinite()

	var out []Asymptote
	switch {
	case pf && nf && math.Abs(pos.Value-neg.Value) < 1e-9:
		out = append(out, Asymptote{Y: pos.Value, Side: BothSides})
	case pf && nf:
		out = append(out,
			Asymptote{Y: neg.Value, Side: MinusInfinity},
			Asymptote{Y: pos.Value, Side: PlusInfinity})
	case pf:
		out = append(out, Asymptote{Y: pos.Value, Side: PlusInfinity})
	case nf:
		out = append(out, Asymptote{Y: neg.Value, Side: MinusInfinity})
	}
	return AsymptoteFacet{Horizontal: out}
}

// ============================================================
// Domain, range and behaviour
// ============================================================

func (r *run) domainRange(grid []sample.Point) DomainRange {
	lo, hi, ok := sample.Extent(grid)
	if !ok {
		return DomainRange{Domain: r.iv}
	}
	return DomainRange{Domain: r.iv, Determined: true, RangeMin: lo, RangeMax: hi}
}

var periodicNames = []string{"sin", "cos", "tan", "csc", "sec", "cot"}

func (r *run) behavior(grid []sample.Point) Behavior {
	var b Behavior
	b.Symmetry, b.SymmetryErr = r.symmetry()
	r.degraded(b.SymmetryErr)

	rendered := r.expr.String()
	for _, name := range periodicNames {
		if strings.Contains(rendered, name) {
			b.Periodic = true
			break
		}
	}

	b.Monotonicity, b.MonotonicityErr = r.monotonicity()
	r.degraded(b.MonotonicityErr)

	if lo, hi, ok := sample.Extent(grid); ok {
		b.Boundedness = Unbounded
		if math.Abs(lo) < r.cfg.BoundLimit && math.Abs(hi) < r.cfg.BoundLimit {
			b.Boundedness = Bounded
		}
	}
	return b
}

// symmetry compares f(-x) with f(x) and -f(x) structurally after
// simplification. Equal functions in different canonical forms report
// Neither.
func (r *run) symmetry() (Symmetry, *FacetError) {
	return guard("symmetry", func() (Symmetry, error) {
		mirrored := symbolic.Sub(r.expr, r.v, symbolic.Neg(symbolic.S(r.v)))
		switch {
		case mirrored.Equal(r.expr):
			return Even, nil
		case symbolic.Neg(mirrored).Equal(r.expr):
			return Odd, nil
		}
		return Neither, nil
	})
}

// monotonicity samples the sign of f'. Samples where f' is not real are
// ignored. A derivative that is zero everywhere reports Increasing.
func (r *run) monotonicity() (Monotonicity, *FacetError) {
	d1, ferr := r.derivative()
	if ferr != nil {
		return MonotonicityUnknown, ferr
	}
	nonNeg, nonPos := true, true
	for _, x := range sample.Uniform(r.iv.Min, r.iv.Max, r.cfg.MonotonicitySamples) {
		v, ok := r.eval(d1, x).Float64()
		if !ok {
			continue
		}
		if v < 0 {
			nonNeg = false
		}
		if v > 0 {
			nonPos = false
		}
	}
	switch {
	case nonNeg:
		return Increasing, nil
	case nonPos:
		return Decreasing, nil
	}
	return NotMonotonic, nil
}
