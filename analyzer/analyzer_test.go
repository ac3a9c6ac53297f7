package analyzer_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/alevel/analyzer"
)

func quietAnalyzer(cfg analyzer.Config) *analyzer.Analyzer {
	return analyzer.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func analyze(t *testing.T, text string, min, max float64) *analyzer.Report {
	t.Helper()
	iv, err := analyzer.NewInterval(min, max)
	require.NoError(t, err)
	r, err := quietAnalyzer(analyzer.DefaultConfig()).Analyze(text, iv, analyzer.AllFacets())
	require.NoError(t, err, text)
	return r
}

// ============================================================
// Reference functions
// ============================================================

func TestAnalyze_Quadratic(t *testing.T) {
	r := analyze(t, "x**2 - 4", -10, 10)

	assert.Equal(t, "Y-intercept: (0, -4.0000)", r.YIntercept.Line())
	require.NotNil(t, r.Roots)
	assert.Equal(t, []float64{-2, 2}, r.Roots.Roots)
	require.NotNil(t, r.TurningPoints)
	assert.Equal(t, []analyzer.TurningPoint{{X: 0, Y: -4, Kind: analyzer.Minimum}}, r.TurningPoints.Points)
	assert.Equal(t, analyzer.Even, r.Behavior.Symmetry)
	assert.Equal(t, analyzer.NotMonotonic, r.Behavior.Monotonicity)
	assert.Equal(t, analyzer.Bounded, r.Behavior.Boundedness)
	assert.False(t, r.Behavior.Periodic)

	lines := r.Lines()
	assert.Contains(t, lines, "Roots: (-2.0000, 0), (2.0000, 0)")
	assert.Contains(t, lines, "Turning Points: (0.0000, -4.0000) [Minimum]")
	assert.Contains(t, lines, "Domain: [-10.0, 10.0]")
	assert.Contains(t, lines, "Range (approximate): [-3.9898, 96.0000]")
	assert.Contains(t, lines, "Symmetry: Even function (symmetric about y-axis)")
	assert.Contains(t, lines, "Periodicity: Function appears to be non-periodic (heuristic)")
	assert.Empty(t, r.Errors())
}

func TestAnalyze_Cubic(t *testing.T) {
	r := analyze(t, "x**3 - 3*x", -10, 10)

	require.NotNil(t, r.TurningPoints)
	assert.Equal(t, []analyzer.TurningPoint{
		{X: -1, Y: 2, Kind: analyzer.Maximum},
		{X: 1, Y: -2, Kind: analyzer.Minimum},
	}, r.TurningPoints.Points)
	assert.Equal(t, []float64{-1.7321, 0, 1.7321}, r.Roots.Roots)
	assert.Equal(t, analyzer.Odd, r.Behavior.Symmetry)
	assert.Contains(t, r.Lines(), "Turning Points: (-1.0000, 2.0000) [Maximum], (1.0000, -2.0000) [Minimum]")
}

func TestAnalyze_Reciprocal(t *testing.T) {
	r := analyze(t, "1/x", -10, 10)

	require.NotNil(t, r.Asymptotes)
	assert.Equal(t, []analyzer.Asymptote{{Y: 0, Side: analyzer.BothSides}}, r.Asymptotes.Horizontal)
	assert.Empty(t, r.Roots.Roots, "the pole at 0 is not a root")
	assert.False(t, r.YIntercept.Defined)

	lines := r.Lines()
	assert.Contains(t, lines, "Horizontal asymptote: y = 0.0000")
	assert.Contains(t, lines, "Y-intercept: Not defined or infinite")
	for _, l := range lines {
		assert.NotContains(t, l, "Vertical")
	}
}

func TestAnalyze_Constant(t *testing.T) {
	r := analyze(t, "5", -3, 7)

	assert.Empty(t, r.Roots.Roots)
	assert.Empty(t, r.TurningPoints.Points)
	assert.Equal(t, analyzer.Increasing, r.Behavior.Monotonicity)
	assert.Contains(t, r.Lines(), "Roots: No real roots found in range")
	assert.Contains(t, r.Lines(), "Turning Points: No turning points found in range")
	assert.Contains(t, r.Lines(), "Horizontal asymptote: y = 5.0000")
}

func TestAnalyze_ZeroFunction(t *testing.T) {
	r := analyze(t, "0", -1, 1)

	assert.True(t, r.Roots.Identity)
	assert.Nil(t, r.Roots.Err)
	assert.Equal(t, "Roots: Function is zero everywhere in range", r.Roots.Line())
	assert.Empty(t, r.TurningPoints.Points)
}

func TestAnalyze_Idempotent(t *testing.T) {
	a := analyze(t, "x^3 - 2*x + 1", -5, 5)
	b := analyze(t, "x^3 - 2*x + 1", -5, 5)

	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, string(ja), string(jb))
	assert.Equal(t, a.String(), b.String())
}

func TestAnalyze_UndefinedEverywhere(t *testing.T) {
	r := analyze(t, "sqrt(x)", -10, -1)

	assert.False(t, r.DomainRange.Determined)
	assert.Equal(t, analyzer.BoundednessUnknown, r.Behavior.Boundedness)
	assert.Contains(t, r.Lines(), "Domain/Range: Could not determine")
	assert.Contains(t, r.Lines(), "Boundedness: Could not determine")
	for _, p := range r.Samples {
		assert.False(t, p.Valid)
		assert.True(t, math.IsNaN(p.Y))
	}
}

// ============================================================
// Fatal errors
// ============================================================

func TestAnalyze_ParseError(t *testing.T) {
	iv, _ := analyzer.NewInterval(-1, 1)
	for _, text := range []string{"(x+1", "x +", "y + 1", "2x", ""} {
		r, err := analyzer.Analyze(text, iv, analyzer.AllFacets())
		assert.Nil(t, r, text)
		var perr *analyzer.ParseError
		require.True(t, errors.As(err, &perr), text)
		assert.Equal(t, text, perr.Input)
	}
}

func TestNewInterval_Rejects(t *testing.T) {
	cases := []struct {
		name     string
		min, max float64
	}{
		{"equal", 1, 1},
		{"reversed", 2, -2},
		{"nan", math.NaN(), 1},
		{"inf", 0, math.Inf(1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := analyzer.NewInterval(tc.min, tc.max)
			var rerr *analyzer.RangeError
			assert.True(t, errors.As(err, &rerr))
		})
	}
}

func TestAnalyze_RangeCheckedBeforeParse(t *testing.T) {
	_, err := analyzer.Analyze("(((", analyzer.Interval{Min: 3, Max: 3}, analyzer.Options{})
	var rerr *analyzer.RangeError
	assert.True(t, errors.As(err, &rerr))
}

// ============================================================
// Options and sampling
// ============================================================

func TestAnalyze_OptionsOff(t *testing.T) {
	iv, _ := analyzer.NewInterval(-1, 1)
	r, err := analyzer.Analyze("x", iv, analyzer.Options{})
	require.NoError(t, err)

	assert.Nil(t, r.Roots)
	assert.Nil(t, r.TurningPoints)
	assert.Nil(t, r.Asymptotes)
	for _, l := range r.Lines() {
		assert.NotContains(t, l, "Roots:")
		assert.NotContains(t, l, "Turning Points:")
		assert.NotContains(t, l, "Asymptote")
	}
}

func TestAnalyze_PlotSamples(t *testing.T) {
	r := analyze(t, "1/x", -1, 1)
	require.Len(t, r.Samples, 2000)
	assert.Equal(t, -1.0, r.Samples[0].X)
	assert.Equal(t, 1.0, r.Samples[len(r.Samples)-1].X)
}

func TestAnalyze_ConfiguredSampleCounts(t *testing.T) {
	cfg := analyzer.DefaultConfig()
	cfg.PlotSamples = 11
	iv, _ := analyzer.NewInterval(0, 1)
	r, err := quietAnalyzer(cfg).Analyze("x", iv, analyzer.Options{})
	require.NoError(t, err)
	assert.Len(t, r.Samples, 11)
}

// ============================================================
// Degrees and trigonometry
// ============================================================

func TestAnalyze_SineInDegrees(t *testing.T) {
	r := analyze(t, "sin(x)", -10, 10)

	assert.Equal(t, "sin(radians(x))", r.Expression)
	assert.Equal(t, []float64{0}, r.Roots.Roots)
	assert.Equal(t, analyzer.Odd, r.Behavior.Symmetry)
	assert.True(t, r.Behavior.Periodic)
	assert.Equal(t, analyzer.Increasing, r.Behavior.Monotonicity)
	assert.Contains(t, r.Lines(), "Periodicity: Function appears to be periodic (heuristic)")
}

func TestAnalyze_TangentPoleIsNotARoot(t *testing.T) {
	r := analyze(t, "tan(x)", 80, 100)
	assert.Empty(t, r.Roots.Roots)
}

func TestAnalyze_SineInRadians(t *testing.T) {
	cfg := analyzer.DefaultConfig()
	cfg.Degrees = false
	iv, _ := analyzer.NewInterval(0, 4)
	r, err := quietAnalyzer(cfg).Analyze("sin(x)", iv, analyzer.AllFacets())
	require.NoError(t, err)

	assert.Equal(t, []analyzer.TurningPoint{{X: 1.5708, Y: 1, Kind: analyzer.Maximum}}, r.TurningPoints.Points)
	assert.Equal(t, []float64{0, 3.1416}, r.Roots.Roots)
}

func TestAnalyze_RootsOnGridAndEndpoints(t *testing.T) {
	tests := []struct {
		expr     string
		min, max float64
		want     []float64
	}{
		{"tan(x)", 0, 90, []float64{0}},
		{"sin(x)", 0, 360, []float64{0, 180}},
		{"cos(x)", 0, 360, []float64{90, 270}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			r := analyze(t, tt.expr, tt.min, tt.max)
			assert.Equal(t, tt.want, r.Roots.Roots)
			assert.Nil(t, r.Roots.Err)
		})
	}
}

func TestAnalyze_SineOverTwoPeriods(t *testing.T) {
	r := analyze(t, "sin(x)", -360, 360)

	require.Len(t, r.Roots.Roots, 3)
	assert.InDelta(t, -180, r.Roots.Roots[0], 0.5)
	assert.Equal(t, []float64{0, 180}, r.Roots.Roots[1:])

	require.Len(t, r.TurningPoints.Points, 4)
	kinds := []analyzer.TurningKind{analyzer.Maximum, analyzer.Minimum, analyzer.Maximum, analyzer.Minimum}
	for i, want := range []float64{-270, -90, 90, 270} {
		p := r.TurningPoints.Points[i]
		assert.InDelta(t, want, p.X, 1e-4)
		assert.Equal(t, kinds[i], p.Kind)
	}
}

func TestAnalyze_TurningPointFallback(t *testing.T) {
	cfg := analyzer.DefaultConfig()
	cfg.Degrees = false
	iv, _ := analyzer.NewInterval(-3, 3)
	r, err := quietAnalyzer(cfg).Analyze("sin(x) - x/2", iv, analyzer.AllFacets())
	require.NoError(t, err)

	assert.Equal(t, []analyzer.TurningPoint{
		{X: -1.0472, Y: -0.3424, Kind: analyzer.Minimum},
		{X: 1.0472, Y: 0.3424, Kind: analyzer.Maximum},
	}, r.TurningPoints.Points)
	// Sign-change roots sit at the grid cell midpoint.
	require.Len(t, r.Roots.Roots, 3)
	assert.InDelta(t, 1.8955, r.Roots.Roots[2], 0.005)
}

func TestAnalyze_RemovableSingularityIsNotATurningPoint(t *testing.T) {
	r := analyze(t, "sin(x)/x", -720, 720)

	assert.Equal(t, "Y-intercept: Not defined or complex", r.YIntercept.Line())
	for _, p := range r.TurningPoints.Points {
		assert.NotEqual(t, 0.0, p.X, "turning point at the hole x = 0")
	}
}

// ============================================================
// Classification
// ============================================================

func TestAnalyze_SaddlePoint(t *testing.T) {
	r := analyze(t, "x^3", -2, 2)
	assert.Equal(t, []analyzer.TurningPoint{{X: 0, Y: 0, Kind: analyzer.Saddle}}, r.TurningPoints.Points)
	assert.Equal(t, analyzer.Increasing, r.Behavior.Monotonicity)
	assert.Contains(t, r.Lines(), "Turning Points: (0.0000, 0.0000) [Saddle Point]")
}

func TestAnalyze_Decreasing(t *testing.T) {
	r := analyze(t, "-2*x + 1", -5, 5)
	assert.Equal(t, analyzer.Decreasing, r.Behavior.Monotonicity)
	assert.Equal(t, []float64{0.5}, r.Roots.Roots)
	assert.Equal(t, analyzer.Neither, r.Behavior.Symmetry)
}

func TestAnalyze_Unbounded(t *testing.T) {
	r := analyze(t, "x^5", -20, 20)
	assert.Equal(t, analyzer.Unbounded, r.Behavior.Boundedness)
	assert.Contains(t, r.Lines(), "Boundedness: Function appears to be unbounded in the given range")
}

func TestAnalyze_OneSidedAsymptote(t *testing.T) {
	cfg := analyzer.DefaultConfig()
	cfg.Degrees = false
	iv, _ := analyzer.NewInterval(-5, 5)

	r, err := quietAnalyzer(cfg).Analyze("exp(x)", iv, analyzer.AllFacets())
	require.NoError(t, err)
	assert.Equal(t, []analyzer.Asymptote{{Y: 0, Side: analyzer.MinusInfinity}}, r.Asymptotes.Horizontal)
	assert.Contains(t, r.Lines(), "Horizontal asymptote: y = 0.0000 (as x -> -oo only)")

	r, err = quietAnalyzer(cfg).Analyze("atan(x)", iv, analyzer.AllFacets())
	require.NoError(t, err)
	require.Len(t, r.Asymptotes.Horizontal, 2)
	assert.Contains(t, r.Lines(), "Horizontal asymptote: y = -1.5708 (as x -> -oo only)")
	assert.Contains(t, r.Lines(), "Horizontal asymptote: y = 1.5708 (as x -> +oo only)")
}

func TestAnalyze_ComplexIntercept(t *testing.T) {
	r := analyze(t, "ln(x - 1)", 2, 5)
	assert.Equal(t, "Y-intercept: Not defined or complex", r.YIntercept.Line())
}

func TestReport_JSON(t *testing.T) {
	r := analyze(t, "x^2 - 4", -3, 3)
	raw, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	behavior := decoded["behavior"].(map[string]any)
	assert.Equal(t, "even", behavior["symmetry"])
	tp := decoded["turning_points"].(map[string]any)["points"].([]any)
	assert.Equal(t, "Minimum", tp[0].(map[string]any)["kind"])
}
