package symbolic_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/alevel/symbolic"
)

func mustParse(t *testing.T, text string) symbolic.Expr {
	t.Helper()
	e, err := symbolic.Parse(text, "x")
	require.NoError(t, err, text)
	return e
}

// ============================================================
// Num tests
// ============================================================

func TestNum_Integer(t *testing.T) {
	assert.Equal(t, "42", symbolic.N(42).String())
}

func TestNum_Rational(t *testing.T) {
	assert.Equal(t, "1/3", symbolic.F(1, 3).String())
	assert.Equal(t, `\frac{2}{5}`, symbolic.F(2, 5).LaTeX())
}

func TestNum_Diff_IsZero(t *testing.T) {
	assert.Equal(t, "0", symbolic.N(5).Diff("x").String())
}

func TestNFloat_PanicsOnNaN(t *testing.T) {
	assert.Panics(t, func() { symbolic.NFloat(math.NaN()) })
}

// ============================================================
// Simplification
// ============================================================

func TestAdd_CollectsLikeTerms(t *testing.T) {
	x := symbolic.S("x")
	e := symbolic.AddOf(x, x, symbolic.N(3), symbolic.N(-3))
	assert.Equal(t, "2*x", e.String())
}

func TestMul_MergesPowers(t *testing.T) {
	x := symbolic.S("x")
	e := symbolic.MulOf(x, symbolic.PowOf(x, symbolic.N(2)))
	assert.Equal(t, "x^3", e.String())
}

func TestMul_CancelsReciprocal(t *testing.T) {
	x := symbolic.S("x")
	e := symbolic.MulOf(x, symbolic.PowOf(x, symbolic.N(-1)))
	assert.Equal(t, "1", e.String())
}

func TestPow_ZeroToNegativeStaysUnevaluated(t *testing.T) {
	e := symbolic.PowOf(symbolic.N(0), symbolic.N(-1))
	_, ok := e.Eval()
	assert.False(t, ok)
}

func TestFunc_OddParity(t *testing.T) {
	x := symbolic.S("x")
	e := symbolic.SinOf(symbolic.Neg(x))
	assert.True(t, e.Equal(symbolic.Neg(symbolic.SinOf(x))), e.String())
}

func TestFunc_EvenParity(t *testing.T) {
	x := symbolic.S("x")
	e := symbolic.CosOf(symbolic.Neg(x))
	assert.True(t, e.Equal(symbolic.CosOf(x)), e.String())
}

func TestFunc_LnOfE(t *testing.T) {
	assert.Equal(t, "1", symbolic.LnOf(symbolic.E()).String())
}

// ============================================================
// Parser
// ============================================================

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		text string
		at   float64
		want float64
	}{
		{"x^2 - 4", 3, 5},
		{"x**2 - 4", -3, 5},
		{"2*x + 1", 0.5, 2},
		{"-x^2", 2, -4},
		{"2^-1", 0, 0.5},
		{"2^3^2", 0, 512},
		{"1.5e2 / x", 3, 50},
		{"sqrt(x)", 9, 3},
		{"log(e)", 0, 1},
		{"abs(x - 10)", 4, 6},
		{"sin(pi/2)", 0, 1},
		{"radians(180)", 0, math.Pi},
		{"(x + 1) * (x - 1)", 3, 8},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			e := mustParse(t, tc.text)
			got, ok := symbolic.EvalAt(e, "x", tc.at).Float64()
			require.True(t, ok)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		text string
		pos  int
	}{
		{"", 0},
		{"(x + 1", 6},
		{"x + ", 4},
		{"2x", 1},
		{"y + 1", 0},
		{"sin x", 4},
		{"x $ 2", 2},
		{"x)", 1},
		{"sin(x, 2)", 5},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			_, err := symbolic.Parse(tc.text, "x")
			var perr *symbolic.ParseError
			require.True(t, errors.As(err, &perr), "want ParseError, got %v", err)
			assert.Equal(t, tc.pos, perr.Pos)
		})
	}
}

// ============================================================
// Evaluation
// ============================================================

func TestEvalAt_Tags(t *testing.T) {
	assert.Equal(t, symbolic.Undefined, symbolic.EvalAt(mustParse(t, "1/x"), "x", 0).Kind)
	assert.Equal(t, symbolic.Complex, symbolic.EvalAt(mustParse(t, "sqrt(x)"), "x", -4).Kind)
	assert.Equal(t, symbolic.Complex, symbolic.EvalAt(mustParse(t, "ln(x)"), "x", -1).Kind)
	assert.Equal(t, symbolic.Undefined, symbolic.EvalAt(mustParse(t, "ln(x)"), "x", 0).Kind)
	assert.Equal(t, symbolic.Complex, symbolic.EvalAt(mustParse(t, "asin(x)"), "x", 2).Kind)
	assert.Equal(t, symbolic.Undefined, symbolic.EvalAt(mustParse(t, "exp(x)"), "x", 1000).Kind)
	assert.Equal(t, symbolic.Real, symbolic.EvalAt(mustParse(t, "x^3"), "x", -2).Kind)
}

// ============================================================
// Differentiation
// ============================================================

func TestDiff_Polynomial(t *testing.T) {
	assert.Equal(t, "2*x", symbolic.Diff(mustParse(t, "x^2 - 4"), "x").String())
}

func TestDiff_Numeric(t *testing.T) {
	tests := []struct {
		text string
		at   float64
		want float64
	}{
		{"sin(x)", 0, 1},
		{"cos(x)", math.Pi / 2, -1},
		{"tan(x)", 0, 1},
		{"exp(2*x)", 0, 2},
		{"ln(x)", 2, 0.5},
		{"sqrt(x)", 4, 0.25},
		{"1/x", 2, -0.25},
		{"sec(x)", 0, 0},
		{"atan(x)", 1, 0.5},
		{"radians(x)", 10, math.Pi / 180},
		{"x*sin(x)", 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			d := symbolic.Diff(mustParse(t, tc.text), "x")
			got, ok := symbolic.EvalAt(d, "x", tc.at).Float64()
			require.True(t, ok, d.String())
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

// ============================================================
// Solving
// ============================================================

func TestSolve_Quadratic(t *testing.T) {
	res, err := symbolic.Solve(mustParse(t, "x^2 - 4"), "x")
	require.NoError(t, err)
	assert.True(t, res.ExactForm)
	assert.Equal(t, []float64{-2, 2}, res.RealSolutions())
}

func TestSolve_QuadraticRadicals(t *testing.T) {
	res, err := symbolic.Solve(mustParse(t, "x^2 - 2"), "x")
	require.NoError(t, err)
	got := res.RealSolutions()
	require.Len(t, got, 2)
	assert.InDelta(t, -math.Sqrt2, got[0], 1e-12)
	assert.InDelta(t, math.Sqrt2, got[1], 1e-12)
}

func TestSolve_ComplexPair(t *testing.T) {
	res, err := symbolic.Solve(mustParse(t, "x^2 + 1"), "x")
	require.NoError(t, err)
	require.Len(t, res.Solutions, 2)
	assert.Empty(t, res.RealSolutions())
	assert.Equal(t, symbolic.Complex, res.Solutions[0].Value.Kind)
}

func TestSolve_CubicRational(t *testing.T) {
	res, err := symbolic.Solve(mustParse(t, "x^3 - 6*x^2 + 11*x - 6"), "x")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, res.RealSolutions())
}

func TestSolve_CubicIrrational(t *testing.T) {
	res, err := symbolic.Solve(mustParse(t, "x^3 - 3*x + 1"), "x")
	require.NoError(t, err)
	got := res.RealSolutions()
	require.Len(t, got, 3)
	for _, r := range got {
		assert.InDelta(t, 0, r*r*r-3*r+1, 1e-9)
	}
}

func TestSolve_Quartic(t *testing.T) {
	res, err := symbolic.Solve(mustParse(t, "x^4 - 5*x^2 + 4"), "x")
	require.NoError(t, err)
	assert.Equal(t, []float64{-2, -1, 1, 2}, res.RealSolutions())
}

func TestSolve_QuinticNumeric(t *testing.T) {
	res, err := symbolic.Solve(mustParse(t, "x^5 - x - 1"), "x")
	require.NoError(t, err)
	got := res.RealSolutions()
	require.Len(t, got, 1)
	assert.InDelta(t, 1.1673039782614187, got[0], 1e-9)
	assert.Len(t, res.Solutions, 5)
}

func TestSolve_QuotientDropsPoles(t *testing.T) {
	res, err := symbolic.Solve(mustParse(t, "(x^2 - 4)/(x - 2)"), "x")
	require.NoError(t, err)
	assert.Equal(t, []float64{-2}, res.RealSolutions())
}

func TestSolve_Reciprocal(t *testing.T) {
	res, err := symbolic.Solve(mustParse(t, "1/x"), "x")
	require.NoError(t, err)
	assert.Empty(t, res.Solutions)
}

func TestSolve_Unwrap(t *testing.T) {
	res, err := symbolic.Solve(mustParse(t, "ln(x - 1)"), "x")
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, res.RealSolutions())

	res, err = symbolic.Solve(mustParse(t, "exp(x)"), "x")
	require.NoError(t, err)
	assert.Empty(t, res.Solutions)

	res, err = symbolic.Solve(mustParse(t, "sqrt(x - 3)"), "x")
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, res.RealSolutions())
}

func TestSolve_Identity(t *testing.T) {
	_, err := symbolic.Solve(mustParse(t, "x - x"), "x")
	assert.ErrorIs(t, err, symbolic.ErrIdentity)
}

func TestSolve_Trig(t *testing.T) {
	tests := []struct {
		expr string
		want []float64
	}{
		{"sin(x)", []float64{0, math.Pi}},
		{"cos(x)", []float64{math.Pi / 2, 3 * math.Pi / 2}},
		{"tan(2*x)", []float64{0}},
		{"sin(radians(x))", []float64{0, 180}},
		{"cos(radians(x))", []float64{90, 270}},
		{"x*sin(x - 1)", []float64{0, 1, 1 + math.Pi}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			res, err := symbolic.Solve(mustParse(t, tt.expr), "x")
			require.NoError(t, err)
			assert.True(t, res.Periodic)
			assert.InDeltaSlice(t, tt.want, res.RealSolutions(), 1e-9)
		})
	}

	res, err := symbolic.Solve(mustParse(t, "sin(radians(x))"), "x")
	require.NoError(t, err)
	assert.Equal(t, "180", res.Solutions[1].String())

	res, err = symbolic.Solve(mustParse(t, "x^2 - 4"), "x")
	require.NoError(t, err)
	assert.False(t, res.Periodic)
}

func TestSolve_NoClosedForm(t *testing.T) {
	_, err := symbolic.Solve(mustParse(t, "sin(x) - x/2"), "x")
	assert.ErrorIs(t, err, symbolic.ErrNoClosedForm)
}

// ============================================================
// Limits
// ============================================================

func TestLimit_LHopital(t *testing.T) {
	r := symbolic.Limit(mustParse(t, "sin(x)/x"), "x", symbolic.N(0))
	require.True(t, r.IsFinite())
	assert.InDelta(t, 1, r.Value, 1e-12)
}

func TestLimit_Substitution(t *testing.T) {
	r := symbolic.Limit(mustParse(t, "x^2 + 1"), "x", symbolic.N(2))
	require.True(t, r.IsFinite())
	assert.Equal(t, "5", r.String())
}

func TestLimitAtInfinity(t *testing.T) {
	tests := []struct {
		text string
		dir  symbolic.Direction
		kind symbolic.LimitKind
		want float64
	}{
		{"1/x", symbolic.PosInf, symbolic.Finite, 0},
		{"1/x", symbolic.NegInf, symbolic.Finite, 0},
		{"(2*x + 1)/(x - 3)", symbolic.PosInf, symbolic.Finite, 2},
		{"x^2 - 4", symbolic.NegInf, symbolic.PosInfinity, 0},
		{"x^3", symbolic.NegInf, symbolic.NegInfinity, 0},
		{"7", symbolic.PosInf, symbolic.Finite, 7},
		{"exp(x)", symbolic.PosInf, symbolic.PosInfinity, 0},
		{"exp(x)", symbolic.NegInf, symbolic.Finite, 0},
		{"atan(x)", symbolic.PosInf, symbolic.Finite, math.Round(math.Pi/2*1e6) / 1e6},
		{"sin(x)", symbolic.PosInf, symbolic.Indeterminate, 0},
		{"sin(radians(x))", symbolic.PosInf, symbolic.Indeterminate, 0},
		{"sqrt(x)", symbolic.NegInf, symbolic.Indeterminate, 0},
	}
	for _, tc := range tests {
		t.Run(tc.text+" "+tc.dir.String(), func(t *testing.T) {
			r := symbolic.LimitAtInfinity(mustParse(t, tc.text), "x", tc.dir)
			require.Equal(t, tc.kind, r.Kind, r.String())
			if tc.kind == symbolic.Finite {
				assert.InDelta(t, tc.want, r.Value, 1e-9)
			}
		})
	}
}

// ============================================================
// Integration
// ============================================================

func TestIntegrate_Rules(t *testing.T) {
	tests := []string{"x^2", "3*x + 2", "sin(2*x)", "cos(x)", "exp(3*x)", "1/x", "sqrt(x)", "ln(x)", "atan(x)"}
	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			f := mustParse(t, text)
			anti, ok := symbolic.Integrate(f, "x")
			require.True(t, ok)
			// The antiderivative differentiates back to the integrand.
			d := symbolic.Diff(anti, "x")
			for _, x := range []float64{0.5, 1.5, 2.5} {
				want, _ := symbolic.EvalAt(f, "x", x).Float64()
				got, ok := symbolic.EvalAt(d, "x", x).Float64()
				require.True(t, ok, d.String())
				assert.InDelta(t, want, got, 1e-9, d.String())
			}
		})
	}
}

func TestIntegrate_Unsupported(t *testing.T) {
	_, ok := symbolic.Integrate(mustParse(t, "x*sin(x)"), "x")
	assert.False(t, ok)
}

func TestDefiniteIntegrate(t *testing.T) {
	got, ok := symbolic.DefiniteIntegrate(mustParse(t, "x^2"), "x", 0, 3, 4)
	require.True(t, ok)
	assert.InDelta(t, 9, got, 1e-6)

	_, ok = symbolic.DefiniteIntegrate(mustParse(t, "sqrt(x)"), "x", -2, -1, 1)
	assert.False(t, ok)
}

// ============================================================
// Polynomials
// ============================================================

func TestPolynomial(t *testing.T) {
	coeffs, ok := symbolic.Polynomial(mustParse(t, "(x - 1)^2"), "x")
	require.True(t, ok)
	require.Len(t, coeffs, 3)
	assert.Equal(t, "1", coeffs[0].String())
	assert.Equal(t, "-2", coeffs[1].String())
	assert.Equal(t, "1", coeffs[2].String())

	_, ok = symbolic.Polynomial(mustParse(t, "x + sin(x)"), "x")
	assert.False(t, ok)
	assert.Equal(t, -1, symbolic.Degree(mustParse(t, "1/x"), "x"))
	assert.Equal(t, 3, symbolic.Degree(mustParse(t, "x^3 - 3*x"), "x"))
}

func TestSub_Symmetry(t *testing.T) {
	x := symbolic.S("x")
	even := mustParse(t, "x^2 - 4")
	odd := mustParse(t, "x^3 - 3*x")
	assert.True(t, symbolic.Sub(even, "x", symbolic.Neg(x)).Equal(even))
	assert.True(t, symbolic.Neg(symbolic.Sub(odd, "x", symbolic.Neg(x))).Equal(odd))
}
