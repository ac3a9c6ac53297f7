// Package analyzer classifies a single-variable real function over a finite
// window: plot samples, y-intercept, roots, turning points, horizontal
// asymptotes, a domain/range estimate and qualitative behaviour flags.
//
// Every call into the symbolic kernel is guarded on its own. A failure
// degrades only the facet that made the call; the only fatal errors are a
// malformed expression (*ParseError) and a bad interval (*RangeError).
package analyzer

import (
	"errors"
	"log/slog"
	"math"

	"github.com/njchilds90/alevel/sample"
	"github.com/njchilds90/alevel/symbolic"
)

// Config holds the sampling constants of an analysis run.
type Config struct {
	// Variable is the single free symbol allowed in expressions.
	Variable string `yaml:"variable" json:"variable" validate:"required,alpha"`
	// Degrees rewrites sin/cos/tan arguments from degrees to radians
	// before parsing.
	Degrees             bool    `yaml:"degrees" json:"degrees"`
	PlotSamples         int     `yaml:"plot_samples" json:"plot_samples" validate:"min=2,max=100000"`
	RootSamples         int     `yaml:"root_samples" json:"root_samples" validate:"min=2,max=100000"`
	RangeSamples        int     `yaml:"range_samples" json:"range_samples" validate:"min=2,max=100000"`
	MonotonicitySamples int     `yaml:"monotonicity_samples" json:"monotonicity_samples" validate:"min=2,max=100000"`
	RootTolerance       float64 `yaml:"root_tolerance" json:"root_tolerance" validate:"gt=0"`
	BoundLimit          float64 `yaml:"bound_limit" json:"bound_limit" validate:"gt=0"`
}

// DefaultConfig returns the reference sample counts and thresholds.
func DefaultConfig() Config {
	return Config{
		Variable:            "x",
		Degrees:             true,
		PlotSamples:         2000,
		RootSamples:         1000,
		RangeSamples:        100,
		MonotonicitySamples: 50,
		RootTolerance:       0.01,
		BoundLimit:          1e6,
	}
}

// Options selects the optional facets.
type Options struct {
	FindRoots         bool `json:"find_roots"`
	FindTurningPoints bool `json:"find_turning_points"`
	FindAsymptotes    bool `json:"find_asymptotes"`
}

// AllFacets enables every optional facet.
func AllFacets() Options {
	return Options{FindRoots: true, FindTurningPoints: true, FindAsymptotes: true}
}

// Interval is the closed inspection window [Min, Max].
type Interval struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// NewInterval validates and returns [min, max].
func NewInterval(min, max float64) (Interval, error) {
	iv := Interval{Min: min, Max: max}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

// Validate reports a *RangeError when a bound is not finite or min >= max.
func (iv Interval) Validate() error {
	switch {
	case !finite(iv.Min) || !finite(iv.Max):
		return &RangeError{Min: iv.Min, Max: iv.Max, Reason: "bounds must be finite"}
	case iv.Min >= iv.Max:
		return &RangeError{Min: iv.Min, Max: iv.Max, Reason: "minimum must be less than maximum"}
	}
	return nil
}

func (iv Interval) Contains(x float64) bool { return x >= iv.Min && x <= iv.Max }

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Analyzer runs analyses with a fixed configuration. It holds no state
// between runs and is safe for concurrent use.
type Analyzer struct {
	cfg Config
	log *slog.Logger
}

// New returns an Analyzer. Zero-valued sample counts fall back to the
// defaults; a nil logger uses slog.Default().
func New(cfg Config, logger *slog.Logger) *Analyzer {
	def := DefaultConfig()
	if cfg.Variable == "" {
		cfg.Variable = def.Variable
	}
	if cfg.PlotSamples <= 0 {
		cfg.PlotSamples = def.PlotSamples
	}
	if cfg.RootSamples <= 0 {
		cfg.RootSamples = def.RootSamples
	}
	if cfg.RangeSamples <= 0 {
		cfg.RangeSamples = def.RangeSamples
	}
	if cfg.MonotonicitySamples <= 0 {
		cfg.MonotonicitySamples = def.MonotonicitySamples
	}
	if cfg.RootTolerance <= 0 {
		cfg.RootTolerance = def.RootTolerance
	}
	if cfg.BoundLimit <= 0 {
		cfg.BoundLimit = def.BoundLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{cfg: cfg, log: logger}
}

func (a *Analyzer) Config() Config { return a.cfg }

// Analyze runs a full analysis with the default configuration.
func Analyze(text string, iv Interval, opts Options) (*Report, error) {
	return New(DefaultConfig(), nil).Analyze(text, iv, opts)
}

// Analyze parses text and builds a report over iv. The interval is checked
// before anything is evaluated.
func (a *Analyzer) Analyze(text string, iv Interval, opts Options) (*Report, error) {
	if err := iv.Validate(); err != nil {
		return nil, err
	}
	expr, err := a.Parse(text)
	if err != nil {
		return nil, err
	}

	run := &run{
		cfg:  a.cfg,
		log:  a.log.With("expression", text),
		expr: expr,
		v:    a.cfg.Variable,
		iv:   iv,
	}
	r := &Report{
		Input:      text,
		Expression: expr.String(),
		Interval:   iv,
		Options:    opts,
	}
	r.Samples = run.plotSamples()
	r.YIntercept = run.yIntercept()
	if opts.FindRoots {
		f := run.roots()
		r.Roots = &f
	}
	if opts.FindTurningPoints {
		f := run.turningPoints()
		r.TurningPoints = &f
	}
	if opts.FindAsymptotes {
		f := run.asymptotes()
		r.Asymptotes = &f
	}
	rangeGrid := run.rangeGrid()
	r.DomainRange = run.domainRange(rangeGrid)
	r.Behavior = run.behavior(rangeGrid)
	return r, nil
}

// Parse converts text into an expression the way Analyze does, including
// the degree rewrite when it is enabled.
func (a *Analyzer) Parse(text string) (symbolic.Expr, error) {
	src := text
	if a.cfg.Degrees {
		src = rewriteDegrees(text)
	}
	expr, err := symbolic.Parse(src, a.cfg.Variable)
	if err != nil {
		return nil, &ParseError{Input: text, Err: err}
	}
	return expr, nil
}

// run is the working data of one Analyze call.
type run struct {
	cfg  Config
	log  *slog.Logger
	expr symbolic.Expr
	v    string
	iv   Interval

	deriv    symbolic.Expr
	derivErr *FacetError
}

func (r *run) eval(e symbolic.Expr, x float64) symbolic.Value {
	return symbolic.EvalAt(e, r.v, x)
}

// f evaluates the analysed expression, reporting false for gaps.
func (r *run) f(x float64) (float64, bool) {
	return r.eval(r.expr, x).Float64()
}

// derivative computes f' once per run.
func (r *run) derivative() (symbolic.Expr, *FacetError) {
	if r.deriv == nil && r.derivErr == nil {
		r.deriv, r.derivErr = guard("derivative", func() (symbolic.Expr, error) {
			return symbolic.Diff(r.expr, r.v), nil
		})
	}
	return r.deriv, r.derivErr
}

func (r *run) degraded(ferr *FacetError) {
	if ferr == nil {
		return
	}
	if errors.Is(ferr, errPanic) {
		r.log.Warn("analysis facet failed", "facet", ferr.Facet, "error", ferr.Err)
		return
	}
	r.log.Debug("analysis facet degraded", "facet", ferr.Facet, "error", ferr.Err)
}

func (r *run) plotSamples() []sample.Point {
	return sample.Evaluate(sample.Uniform(r.iv.Min, r.iv.Max, r.cfg.PlotSamples), r.f)
}

func (r *run) rangeGrid() []sample.Point {
	return sample.Evaluate(sample.Uniform(r.iv.Min, r.iv.Max, r.cfg.RangeSamples), r.f)
}
