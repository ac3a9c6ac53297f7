package server

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/njchilds90/alevel/analyzer"
	"github.com/njchilds90/alevel/formula"
	"github.com/njchilds90/alevel/symbolic"
)

// ============================================================
// Tool interface
// ============================================================

// ToolRequest is a single named call with loosely typed parameters, as
// sent by agent frameworks.
type ToolRequest struct {
	Tool   string         `json:"tool"`
	Params map[string]any `json:"params"`
}

type ToolResponse struct {
	Result any    `json:"result,omitempty"`
	LaTeX  string `json:"latex,omitempty"`
	String string `json:"string,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Toolbox dispatches tool calls to the analyzer, the calculus kernel and
// the formula registry.
type Toolbox struct {
	analyzer *analyzer.Analyzer
	formulas *formula.Registry
}

func NewToolbox(a *analyzer.Analyzer, formulas *formula.Registry) *Toolbox {
	return &Toolbox{analyzer: a, formulas: formulas}
}

const quadraturePanels = 64

type params map[string]any

func (p params) str(key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", fmt.Errorf("missing param: %s", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("param %s must be a string", key)
	}
	return s, nil
}

func (p params) num(key string) (float64, error) {
	v, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("missing param: %s", key)
	}
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("param %s must be a number", key)
	}
	return f, nil
}

func (p params) optNum(key string, def float64) (float64, error) {
	if _, ok := p[key]; !ok {
		return def, nil
	}
	return p.num(key)
}

func (p params) optBool(key string, def bool) (bool, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("param %s must be a boolean", key)
	}
	return b, nil
}

func (p params) numbers(key string) (map[string]float64, error) {
	v, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("missing param: %s", key)
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("param %s must be an object", key)
	}
	out := make(map[string]float64, len(raw))
	for k, x := range raw {
		f, ok := x.(float64)
		if !ok {
			return nil, fmt.Errorf("param %s.%s must be a number", key, k)
		}
		out[k] = f
	}
	return out, nil
}

func failed(err error) ToolResponse { return ToolResponse{Error: err.Error()} }

func (t *Toolbox) expr(p params) (symbolic.Expr, error) {
	text, err := p.str("expr")
	if err != nil {
		return nil, err
	}
	return symbolic.Parse(text, t.analyzer.Config().Variable)
}

func respondExpr(e symbolic.Expr) ToolResponse {
	return ToolResponse{Result: e.String(), LaTeX: e.LaTeX(), String: e.String()}
}

// Handle runs req. Failures are reported in the response, never as a Go
// error, so every call yields a well-formed reply.
func (t *Toolbox) Handle(req ToolRequest) ToolResponse {
	p := params(req.Params)
	v := t.analyzer.Config().Variable

	switch req.Tool {
	case "analyze":
		text, err := p.str("expr")
		if err != nil {
			return failed(err)
		}
		lo, err := p.num("min")
		if err != nil {
			return failed(err)
		}
		hi, err := p.num("max")
		if err != nil {
			return failed(err)
		}
		var opts analyzer.Options
		for key, dst := range map[string]*bool{
			"find_roots":          &opts.FindRoots,
			"find_turning_points": &opts.FindTurningPoints,
			"find_asymptotes":     &opts.FindAsymptotes,
		} {
			if *dst, err = p.optBool(key, true); err != nil {
				return failed(err)
			}
		}
		rep, err := t.analyzer.Analyze(text, analyzer.Interval{Min: lo, Max: hi}, opts)
		if err != nil {
			return failed(err)
		}
		return ToolResponse{Result: rep, String: rep.String()}

	case "diff":
		e, err := t.expr(p)
		if err != nil {
			return failed(err)
		}
		n, err := p.optNum("n", 1)
		if err != nil {
			return failed(err)
		}
		if n < 1 || n != math.Trunc(n) {
			return ToolResponse{Error: "param n must be a positive integer"}
		}
		return respondExpr(symbolic.DiffN(e, v, int(n)))

	case "integrate":
		e, err := t.expr(p)
		if err != nil {
			return failed(err)
		}
		if _, ok := p["a"]; ok {
			a, err := p.num("a")
			if err != nil {
				return failed(err)
			}
			b, err := p.num("b")
			if err != nil {
				return failed(err)
			}
			res, ok := symbolic.DefiniteIntegrate(e, v, a, b, quadraturePanels)
			if !ok {
				return ToolResponse{Error: "integrand is not real on the interval"}
			}
			return ToolResponse{Result: res, String: fmt.Sprintf("%.10g", res)}
		}
		anti, ok := symbolic.Integrate(e, v)
		if !ok {
			return ToolResponse{Error: "integration failed: unsupported form"}
		}
		resp := respondExpr(anti)
		resp.String += " + C"
		return resp

	case "evaluate":
		e, err := t.expr(p)
		if err != nil {
			return failed(err)
		}
		x, err := p.num(v)
		if err != nil {
			return failed(err)
		}
		val := symbolic.EvalAt(e, v, x)
		if f, ok := val.Float64(); ok {
			return ToolResponse{Result: f, String: val.String()}
		}
		return ToolResponse{Result: map[string]any{"kind": val.Kind.String(), "re": val.Re, "im": val.Im}, String: val.String()}

	case "limit":
		e, err := t.expr(p)
		if err != nil {
			return failed(err)
		}
		var res symbolic.LimitResult
		switch pt := p["point"].(type) {
		case float64:
			res = symbolic.Limit(e, v, symbolic.NFloat(pt))
		case string:
			switch strings.TrimSpace(pt) {
			case "oo", "+oo", "inf", "+inf":
				res = symbolic.LimitAtInfinity(e, v, symbolic.PosInf)
			case "-oo", "-inf":
				res = symbolic.LimitAtInfinity(e, v, symbolic.NegInf)
			default:
				at, err := symbolic.Parse(pt, v)
				if err != nil {
					return failed(err)
				}
				if symbolic.Contains(at, v) {
					return ToolResponse{Error: "param point must be constant"}
				}
				res = symbolic.Limit(e, v, at)
			}
		case nil:
			return ToolResponse{Error: "missing param: point"}
		default:
			return ToolResponse{Error: "param point must be a number or a string"}
		}
		out := ToolResponse{Result: map[string]any{"kind": res.Kind.String(), "value": res.Value}, String: res.String()}
		if res.Exact != nil {
			out.LaTeX = res.Exact.LaTeX()
		}
		if !res.IsFinite() {
			out.Result = map[string]any{"kind": res.Kind.String()}
		}
		return out

	case "solve":
		e, err := t.expr(p)
		if err != nil {
			return failed(err)
		}
		res, err := symbolic.Solve(e, v)
		switch {
		case errors.Is(err, symbolic.ErrIdentity):
			return ToolResponse{Result: []string{}, String: "identity: every value is a solution"}
		case err != nil:
			return failed(err)
		}
		strs := make([]string, len(res.Solutions))
		for i, s := range res.Solutions {
			strs[i] = s.String()
		}
		return ToolResponse{Result: strs, String: strings.Join(strs, ", ")}

	case "formula":
		id, err := p.str("id")
		if err != nil {
			return failed(err)
		}
		inputs, err := p.numbers("inputs")
		if err != nil {
			return failed(err)
		}
		res, err := t.formulas.Evaluate(formula.ID(id), inputs)
		if err != nil {
			return failed(err)
		}
		return ToolResponse{Result: res, String: res.String()}

	case "tool_schema":
		return ToolResponse{Result: ToolSchema()}
	}
	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

// ============================================================
// Schema
// ============================================================

type toolSpec struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema inputSchema `json:"inputSchema"`
}

type inputSchema struct {
	Type       string                       `json:"type"`
	Properties map[string]map[string]string `json:"properties"`
	Required   []string                     `json:"required"`
}

func ts(name, description string, required []string, props map[string]string) toolSpec {
	properties := make(map[string]map[string]string, len(props))
	for k, typ := range props {
		properties[k] = map[string]string{"type": typ}
	}
	sort.Strings(required)
	return toolSpec{
		Name:        name,
		Description: description,
		InputSchema: inputSchema{Type: "object", Properties: properties, Required: required},
	}
}

// ToolSchema describes every tool Handle accepts.
func ToolSchema() map[string][]toolSpec {
	return map[string][]toolSpec{"tools": {
		ts("analyze", "Full analysis of f(x) over [min, max]: intercepts, roots, turning points, asymptotes, domain, range and behaviour",
			[]string{"expr", "min", "max"},
			map[string]string{"expr": "string", "min": "number", "max": "number", "find_roots": "boolean", "find_turning_points": "boolean", "find_asymptotes": "boolean"}),
		ts("diff", "nth derivative d^n/dx^n, n defaults to 1", []string{"expr"}, map[string]string{"expr": "string", "n": "integer"}),
		ts("integrate", "Antiderivative, or the numeric definite integral when a and b are given", []string{"expr"}, map[string]string{"expr": "string", "a": "number", "b": "number"}),
		ts("evaluate", "Evaluate f at x", []string{"expr", "x"}, map[string]string{"expr": "string", "x": "number"}),
		ts("limit", "lim f(x) as x -> point; point may be a number, an expression or \"oo\"/\"-oo\"", []string{"expr", "point"}, map[string]string{"expr": "string", "point": "string"}),
		ts("solve", "Solve f(x) = 0", []string{"expr"}, map[string]string{"expr": "string"}),
		ts("formula", "Evaluate a registered formula by id", []string{"id", "inputs"}, map[string]string{"id": "string", "inputs": "object"}),
		ts("tool_schema", "Return this tool schema", []string{}, map[string]string{}),
	}}
}
