package analyzer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/njchilds90/alevel/sample"
)

// ============================================================
// Report
// ============================================================

// Report is the outcome of one Analyze call. Optional facets are nil when
// their option was off.
type Report struct {
	Input         string          `json:"input"`
	Expression    string          `json:"expression"`
	Interval      Interval        `json:"interval"`
	Options       Options         `json:"options"`
	YIntercept    YIntercept      `json:"y_intercept"`
	Roots         *RootsFacet     `json:"roots,omitempty"`
	TurningPoints *TurningFacet   `json:"turning_points,omitempty"`
	Asymptotes    *AsymptoteFacet `json:"asymptotes,omitempty"`
	DomainRange   DomainRange     `json:"domain_range"`
	Behavior      Behavior        `json:"behavior"`
	Samples       []sample.Point  `json:"samples"`
}

// Lines renders the report as human-readable lines, one per finding.
func (r *Report) Lines() []string {
	lines := []string{r.YIntercept.Line()}
	if r.Roots != nil {
		lines = append(lines, r.Roots.Line())
	}
	if r.TurningPoints != nil {
		lines = append(lines, r.TurningPoints.Line())
	}
	if r.Asymptotes != nil {
		lines = append(lines, r.Asymptotes.Lines()...)
	}
	lines = append(lines, r.DomainRange.Lines()...)
	return append(lines, r.Behavior.Lines()...)
}

func (r *Report) String() string { return strings.Join(r.Lines(), "\n") }

// Errors collects the facet errors of the report.
func (r *Report) Errors() []*FacetError {
	var errs []*FacetError
	add := func(e *FacetError) {
		if e != nil {
			errs = append(errs, e)
		}
	}
	add(r.YIntercept.Err)
	if r.Roots != nil {
		add(r.Roots.Err)
	}
	if r.TurningPoints != nil {
		add(r.TurningPoints.Err)
	}
	if r.Asymptotes != nil {
		add(r.Asymptotes.Err)
	}
	add(r.Behavior.SymmetryErr)
	add(r.Behavior.MonotonicityErr)
	return errs
}

// ============================================================
// Facets
// ============================================================

type YIntercept struct {
	Defined bool        `json:"defined"`
	Y       float64     `json:"y"`
	Complex bool        `json:"complex,omitempty"`
	Err     *FacetError `json:"error,omitempty"`
}

func (y YIntercept) Line() string {
	switch {
	case y.Defined:
		return "Y-intercept: (0, " + format4(y.Y) + ")"
	case y.Complex:
		return "Y-intercept: Not defined or complex"
	}
	return "Y-intercept: Not defined or infinite"
}

type RootsFacet struct {
	Roots []float64 `json:"roots"`
	// Identity is set when the function is zero everywhere.
	Identity bool        `json:"identity,omitempty"`
	Err      *FacetError `json:"error,omitempty"`
}

func (f RootsFacet) Line() string {
	switch {
	case f.Err != nil:
		return "Roots: Error in calculation"
	case f.Identity:
		return "Roots: Function is zero everywhere in range"
	case len(f.Roots) == 0:
		return "Roots: No real roots found in range"
	}
	parts := make([]string, len(f.Roots))
	for i, x := range f.Roots {
		parts[i] = "(" + format4(x) + ", 0)"
	}
	return "Roots: " + strings.Join(parts, ", ")
}

type TurningKind uint8

const (
	Maximum TurningKind = iota
	Minimum
	Saddle
)

func (k TurningKind) String() string {
	switch k {
	case Maximum:
		return "Maximum"
	case Minimum:
		return "Minimum"
	}
	return "Saddle Point"
}

func (k TurningKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

type TurningPoint struct {
	X    float64     `json:"x"`
	Y    float64     `json:"y"`
	Kind TurningKind `json:"kind"`
}

type TurningFacet struct {
	Points []TurningPoint `json:"points"`
	Err    *FacetError    `json:"error,omitempty"`
}

func (f TurningFacet) Line() string {
	switch {
	case f.Err != nil:
		return "Turning Points: Error in calculation"
	case len(f.Points) == 0:
		return "Turning Points: No turning points found in range"
	}
	parts := make([]string, len(f.Points))
	for i, p := range f.Points {
		parts[i] = fmt.Sprintf("(%s, %s) [%s]", format4(p.X), format4(p.Y), p.Kind)
	}
	return "Turning Points: " + strings.Join(parts, ", ")
}

// Side says which infinite limit a horizontal asymptote came from.
type Side uint8

const (
	BothSides Side = iota
	PlusInfinity
	MinusInfinity
)

func (s Side) String() string {
	switch s {
	case PlusInfinity:
		return "+oo"
	case MinusInfinity:
		return "-oo"
	}
	return "both"
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Asymptote is a horizontal line y = Y. A one-sided asymptote was found
// from a single finite limit while the other side diverged or was unknown.
type Asymptote struct {
	Y    float64 `json:"y"`
	Side Side    `json:"side"`
}

func (a Asymptote) Line() string {
	line := "Horizontal asymptote: y = " + format4(a.Y)
	if a.Side != BothSides {
		line += " (as x -> " + a.Side.String() + " only)"
	}
	return line
}

type AsymptoteFacet struct {
	Horizontal []Asymptote `json:"horizontal"`
	Err        *FacetError `json:"error,omitempty"`
}

func (f AsymptoteFacet) Lines() []string {
	switch {
	case f.Err != nil:
		return []string{"Asymptotes: Error in calculation"}
	case len(f.Horizontal) == 0:
		return []string{"Asymptotes: No asymptotes found"}
	}
	lines := make([]string, len(f.Horizontal))
	for i, a := range f.Horizontal {
		lines[i] = a.Line()
	}
	return lines
}

// DomainRange reports the requested interval and the observed range of
// the function over the coarse grid.
type DomainRange struct {
	Domain     Interval `json:"domain"`
	Determined bool     `json:"determined"`
	RangeMin   float64  `json:"range_min"`
	RangeMax   float64  `json:"range_max"`
}

func (d DomainRange) Lines() []string {
	if !d.Determined {
		return []string{"Domain/Range: Could not determine"}
	}
	return []string{
		"Domain: [" + formatBound(d.Domain.Min) + ", " + formatBound(d.Domain.Max) + "]",
		"Range (approximate): [" + format4(d.RangeMin) + ", " + format4(d.RangeMax) + "]",
	}
}

type Symmetry uint8

const (
	Neither Symmetry = iota
	Even
	Odd
)

func (s Symmetry) String() string {
	switch s {
	case Even:
		return "even"
	case Odd:
		return "odd"
	}
	return "neither"
}

func (s Symmetry) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

type Monotonicity uint8

const (
	MonotonicityUnknown Monotonicity = iota
	Increasing
	Decreasing
	NotMonotonic
)

func (m Monotonicity) String() string {
	switch m {
	case Increasing:
		return "increasing"
	case Decreasing:
		return "decreasing"
	case NotMonotonic:
		return "neither"
	}
	return "unknown"
}

func (m Monotonicity) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

type Boundedness uint8

const (
	BoundednessUnknown Boundedness = iota
	Bounded
	Unbounded
)

func (b Boundedness) String() string {
	switch b {
	case Bounded:
		return "bounded"
	case Unbounded:
		return "unbounded"
	}
	return "unknown"
}

func (b Boundedness) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// Behavior holds the qualitative flags. Periodic is a textual heuristic.
type Behavior struct {
	Symmetry        Symmetry     `json:"symmetry"`
	SymmetryErr     *FacetError  `json:"symmetry_error,omitempty"`
	Periodic        bool         `json:"periodic"`
	Monotonicity    Monotonicity `json:"monotonicity"`
	MonotonicityErr *FacetError  `json:"monotonicity_error,omitempty"`
	Boundedness     Boundedness  `json:"boundedness"`
}

func (b Behavior) Lines() []string {
	var lines []string
	switch {
	case b.SymmetryErr != nil:
		lines = append(lines, "Symmetry: Error in calculation")
	case b.Symmetry == Even:
		lines = append(lines, "Symmetry: Even function (symmetric about y-axis)")
	case b.Symmetry == Odd:
		lines = append(lines, "Symmetry: Odd function (symmetric about origin)")
	default:
		lines = append(lines, "Symmetry: Neither even nor odd")
	}

	if b.Periodic {
		lines = append(lines, "Periodicity: Function appears to be periodic (heuristic)")
	} else {
		lines = append(lines, "Periodicity: Function appears to be non-periodic (heuristic)")
	}

	switch b.Monotonicity {
	case Increasing:
		lines = append(lines, "Monotonicity: Function is increasing in the given range")
	case Decreasing:
		lines = append(lines, "Monotonicity: Function is decreasing in the given range")
	case NotMonotonic:
		lines = append(lines, "Monotonicity: Function is neither strictly increasing nor decreasing")
	default:
		lines = append(lines, "Monotonicity: Could not determine")
	}

	switch b.Boundedness {
	case Bounded:
		lines = append(lines, "Boundedness: Function appears to be bounded in the given range")
	case Unbounded:
		lines = append(lines, "Boundedness: Function appears to be unbounded in the given range")
	default:
		lines = append(lines, "Boundedness: Could not determine")
	}
	return lines
}

// ============================================================
// Number formatting
// ============================================================

// format4 renders v with four decimals and never prints "-0.0000".
func format4(v float64) string {
	s := strconv.FormatFloat(v, 'f', 4, 64)
	if s == "-0.0000" {
		return "0.0000"
	}
	return s
}

// formatBound prints an interval bound the way the user would type it,
// always with a decimal point.
func formatBound(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

// round4 rounds to four decimals and folds -0 into 0.
func round4(v float64) float64 {
	r := math.Round(v*1e4) / 1e4
	if r == 0 {
		return 0
	}
	return r
}
