package formula_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/alevel/formula"
)

func eval(t *testing.T, id formula.ID, in map[string]float64) formula.Result {
	t.Helper()
	res, err := formula.Default().Evaluate(id, in)
	require.NoError(t, err, string(id))
	return res
}

func value(t *testing.T, res formula.Result, symbol string) float64 {
	t.Helper()
	for _, q := range res.Values {
		if q.Symbol == symbol {
			return q.Value
		}
	}
	t.Fatalf("no quantity %q in %v", symbol, res)
	return 0
}

// ============================================================
// Registry
// ============================================================

func TestRegister_Validation(t *testing.T) {
	noop := func(formula.Values) (formula.Result, error) { return formula.Result{}, nil }
	cases := []struct {
		name string
		f    formula.Formula
	}{
		{"empty id", formula.New("", formula.Physics, "T", "N", "", "", nil, noop)},
		{"nil compute", formula.New("x", formula.Physics, "T", "N", "", "", nil, nil)},
		{"no topic", formula.New("x", formula.Physics, "", "N", "", "", nil, noop)},
		{"unnamed input", formula.New("x", formula.Physics, "T", "N", "", "", []formula.Input{{}}, noop)},
		{"duplicate input", formula.New("x", formula.Physics, "T", "N", "", "", []formula.Input{{Name: "a"}, {Name: "a"}}, noop)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := formula.NewRegistry().Register(tc.f)
			assert.ErrorIs(t, err, formula.ErrInvalidFormula)
		})
	}

	r := formula.NewRegistry()
	require.NoError(t, r.Register(formula.New("x", formula.Physics, "T", "N", "", "", nil, noop)))
	assert.ErrorIs(t, r.Register(formula.New("x", formula.Physics, "T", "N", "", "", nil, noop)), formula.ErrInvalidFormula)
}

func TestDefault_IDsUniqueAndInputsDeclared(t *testing.T) {
	r := formula.Default()
	all := r.All()
	assert.Greater(t, len(all), 40)
	for _, f := range all {
		got, ok := r.Get(f.ID)
		require.True(t, ok)
		assert.Equal(t, f.Name, got.Name)
	}
}

func TestTopics(t *testing.T) {
	r := formula.Default()
	maths := r.Topics(formula.Mathematics)
	assert.Equal(t, "Algebra and Functions", maths[0])
	assert.Contains(t, maths, "Binomial Distribution")
	assert.NotContains(t, maths, "Capacitors")

	fs := r.ByTopic(formula.Physics, "Gravitational Fields")
	require.Len(t, fs, 2)
	assert.Equal(t, formula.ID("gravitational-force"), fs[0].ID)
	assert.Empty(t, r.ByTopic(formula.Physics, "Algebra and Functions"))
}

func TestEvaluate_Errors(t *testing.T) {
	r := formula.Default()

	_, err := r.Evaluate("warp-drive", nil)
	assert.ErrorIs(t, err, formula.ErrUnknownFormula)

	_, err = r.Evaluate("quadratic", map[string]float64{"a": 1, "b": 2})
	var ierr *formula.InputError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, "c", ierr.Input)

	_, err = r.Evaluate("quadratic", map[string]float64{"a": 1, "b": math.NaN(), "c": 1})
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, "b", ierr.Input)

	_, err = r.Evaluate("quadratic", map[string]float64{"a": 1, "b": 2, "c": 1, "d": 0})
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, "d", ierr.Input)

	_, err = r.Evaluate("quadratic", map[string]float64{"a": 0, "b": 2, "c": 1})
	var derr *formula.DomainError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, formula.ID("quadratic"), derr.Formula)
	assert.Equal(t, "formula quadratic: a cannot be zero", derr.Error())
}

// ============================================================
// Formulas
// ============================================================

func TestQuadratic(t *testing.T) {
	res := eval(t, "quadratic", map[string]float64{"a": 1, "b": -3, "c": 2})
	assert.Equal(t, 2.0, value(t, res, "x1"))
	assert.Equal(t, 1.0, value(t, res, "x2"))
	assert.Equal(t, "x1 = 2; x2 = 1", res.String())

	res = eval(t, "quadratic", map[string]float64{"a": 1, "b": 0, "c": 1})
	assert.Empty(t, res.Values)
	assert.Equal(t, "No real roots", res.Note)
}

func TestPowerRules(t *testing.T) {
	res := eval(t, "power-rule-differentiation", map[string]float64{"n": 3})
	assert.Equal(t, "d/dx[x^3] = 3*x^2", res.Expression)

	res = eval(t, "power-rule-integration", map[string]float64{"n": 2})
	assert.Contains(t, res.Expression, "x^3")
	assert.Contains(t, res.Expression, "+ C")

	res = eval(t, "power-rule-integration", map[string]float64{"n": -1})
	assert.NotEmpty(t, res.Note)
}

func TestSineRule(t *testing.T) {
	res := eval(t, "sine-rule", map[string]float64{"a": 10, "A": 30, "B": 90, "c": 5, "C": 60})
	assert.InDelta(t, 20, value(t, res, "b"), 1e-9)

	res = eval(t, "sine-rule", map[string]float64{"a": 10, "A": 30, "b": 10, "B": 30, "c": 10})
	assert.InDelta(t, 30, value(t, res, "C"), 1e-9)

	_, err := formula.Default().Evaluate("sine-rule", map[string]float64{"a": 10})
	var derr *formula.DomainError
	assert.True(t, errors.As(err, &derr))
}

func TestSnell(t *testing.T) {
	res := eval(t, "snells-law", map[string]float64{"n1": 1, "θ1": 30, "n2": 1.5})
	assert.InDelta(t, 19.4712, value(t, res, "θ2"), 1e-4)

	_, err := formula.Default().Evaluate("snells-law", map[string]float64{"n1": 1.5, "θ1": 60, "n2": 1})
	var derr *formula.DomainError
	assert.True(t, errors.As(err, &derr))
}

func TestBinomial(t *testing.T) {
	res := eval(t, "binomial", map[string]float64{"n": 4, "r": 2, "p": 0.5})
	assert.InDelta(t, 0.375, value(t, res, "P(X = r)"), 1e-12)

	_, err := formula.Default().Evaluate("binomial", map[string]float64{"n": 4, "r": 5, "p": 0.5})
	var derr *formula.DomainError
	assert.True(t, errors.As(err, &derr))
}

func TestDefaultsApply(t *testing.T) {
	res := eval(t, "weight", map[string]float64{"m": 2})
	assert.InDelta(t, 19.62, value(t, res, "W"), 1e-12)

	res = eval(t, "mass-energy", map[string]float64{"m": 1})
	assert.Equal(t, 9e16, value(t, res, "E"))
	assert.Equal(t, "E = 9e+16 J", res.String())
}

func TestPhysicsTable(t *testing.T) {
	cases := []struct {
		id     formula.ID
		in     map[string]float64
		symbol string
		want   float64
	}{
		{"ohms-law", map[string]float64{"I": 2, "R": 5}, "V", 10},
		{"current", map[string]float64{"Q": 10, "t": 4}, "I", 2.5},
		{"wave-speed", map[string]float64{"f": 50, "λ": 2}, "v", 100},
		{"double-slit", map[string]float64{"λ": 5e-7, "D": 2, "s": 1e-3}, "w", 1e-3},
		{"kinetic-energy", map[string]float64{"m": 2, "v": 3}, "KE", 9},
		{"conservation-of-momentum", map[string]float64{"m1": 1, "u1": 2, "m2": 1, "u2": 0, "v1": 0}, "v2", 2},
		{"half-life", map[string]float64{"N0": 1000, "t": 10, "T_{1/2}": 5}, "N", 250},
		{"gravitational-field-strength", map[string]float64{"M": 5.97e24, "r": 6.371e6}, "g", 9.8166},
		{"ideal-gas", map[string]float64{"n": 1, "T": 273, "V": 0.0224}, "p", 101329.1},
		{"faraday", map[string]float64{"dΦ": 0.5, "dt": 0.1}, "E", -5},
		{"efficiency", map[string]float64{"W_out": 30, "Q_in": 100}, "η", 0.3},
	}
	for _, tc := range cases {
		t.Run(string(tc.id), func(t *testing.T) {
			res := eval(t, tc.id, tc.in)
			assert.InDelta(t, tc.want, value(t, res, tc.symbol), 1e-3*math.Max(1, math.Abs(tc.want)))
		})
	}
}
