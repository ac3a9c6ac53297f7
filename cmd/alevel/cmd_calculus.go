package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/njchilds90/alevel/history"
	"github.com/njchilds90/alevel/symbolic"
)

var (
	diffOrder int
	integFrom string
	integTo   string
	evalAt    float64
	limitAt   string
	calcLaTeX bool
)

// calcResult is the JSON shape of every calculus command.
type calcResult struct {
	Input  string `json:"input"`
	Result string `json:"result"`
	LaTeX  string `json:"latex,omitempty"`
}

func (a *app) parse(text string) (symbolic.Expr, error) {
	return symbolic.Parse(text, a.cfg.Analysis.Variable)
}

func (a *app) emitCalc(cmd *cobra.Command, label string, res calcResult) error {
	a.remember(cmd.Context(), history.KindCalculus, label+" "+res.Input, res.Result)
	if a.jsonOut {
		return a.printJSON(res)
	}
	fmt.Fprintln(a.out, a.style.line(label+": "+res.Result))
	if calcLaTeX && res.LaTeX != "" {
		fmt.Fprintln(a.out, a.style.note(res.LaTeX))
	}
	return nil
}

func newDiffCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff EXPR",
		Short: "Differentiate with respect to x",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if diffOrder < 1 {
				return fmt.Errorf("order must be at least 1, got %d", diffOrder)
			}
			e, err := a.parse(args[0])
			if err != nil {
				return err
			}
			d := symbolic.DiffN(e, a.cfg.Analysis.Variable, diffOrder)
			label := "d/d" + a.cfg.Analysis.Variable
			if diffOrder > 1 {
				label = fmt.Sprintf("d^%d/d%s^%d", diffOrder, a.cfg.Analysis.Variable, diffOrder)
			}
			return a.emitCalc(cmd, label, calcResult{Input: args[0], Result: d.String(), LaTeX: d.LaTeX()})
		},
	}
	cmd.Flags().IntVarP(&diffOrder, "order", "n", 1, "derivative order")
	cmd.Flags().BoolVar(&calcLaTeX, "latex", false, "also print LaTeX")
	return cmd
}

func newIntegrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "integrate EXPR",
		Short: "Antiderivative, or a definite integral with --from and --to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.parse(args[0])
			if err != nil {
				return err
			}
			v := a.cfg.Analysis.Variable
			if integFrom != "" || integTo != "" {
				lo, err := a.constant(integFrom, "from")
				if err != nil {
					return err
				}
				hi, err := a.constant(integTo, "to")
				if err != nil {
					return err
				}
				val, ok := symbolic.DefiniteIntegrate(e, v, lo, hi, 64)
				if !ok {
					return errors.New("integrand is not real on the interval")
				}
				label := fmt.Sprintf("integral from %g to %g", lo, hi)
				return a.emitCalc(cmd, label, calcResult{Input: args[0], Result: fmt.Sprintf("%.10g", val)})
			}
			anti, ok := symbolic.Integrate(e, v)
			if !ok {
				return errors.New("integration failed: unsupported form")
			}
			return a.emitCalc(cmd, "integral", calcResult{Input: args[0], Result: anti.String() + " + C", LaTeX: anti.LaTeX() + " + C"})
		},
	}
	cmd.Flags().StringVar(&integFrom, "from", "", "lower bound (a constant such as 0 or pi/2)")
	cmd.Flags().StringVar(&integTo, "to", "", "upper bound")
	cmd.Flags().BoolVar(&calcLaTeX, "latex", false, "also print LaTeX")
	return cmd
}

// constant parses a bound such as "pi/2" into a float.
func (a *app) constant(text, name string) (float64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, fmt.Errorf("--%s is required for a definite integral", name)
	}
	e, err := a.parse(text)
	if err != nil {
		return 0, fmt.Errorf("--%s: %w", name, err)
	}
	n, ok := e.Eval()
	if !ok {
		return 0, fmt.Errorf("--%s must be a constant, got %s", name, text)
	}
	return n.Float64(), nil
}

func newEvalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval EXPR",
		Short: "Evaluate at a point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.parse(args[0])
			if err != nil {
				return err
			}
			val := symbolic.EvalAt(e, a.cfg.Analysis.Variable, evalAt)
			label := fmt.Sprintf("f(%g)", evalAt)
			return a.emitCalc(cmd, label, calcResult{Input: args[0], Result: val.String()})
		},
	}
	cmd.Flags().Float64Var(&evalAt, "at", 0, "point to evaluate at")
	return cmd
}

func newLimitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "limit EXPR",
		Short: "Limit as x approaches a point or ±oo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.parse(args[0])
			if err != nil {
				return err
			}
			v := a.cfg.Analysis.Variable
			var res symbolic.LimitResult
			switch strings.TrimSpace(limitAt) {
			case "oo", "+oo", "inf", "+inf":
				res = symbolic.LimitAtInfinity(e, v, symbolic.PosInf)
			case "-oo", "-inf":
				res = symbolic.LimitAtInfinity(e, v, symbolic.NegInf)
			default:
				at, err := a.parse(limitAt)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				if symbolic.Contains(at, v) {
					return fmt.Errorf("--at must be a constant, got %s", limitAt)
				}
				res = symbolic.Limit(e, v, at)
			}
			label := fmt.Sprintf("lim %s->%s", v, strings.TrimSpace(limitAt))
			out := calcResult{Input: args[0], Result: res.String()}
			if res.Exact != nil {
				out.LaTeX = res.Exact.LaTeX()
			}
			return a.emitCalc(cmd, label, out)
		},
	}
	cmd.Flags().StringVar(&limitAt, "at", "0", "point: a constant, oo or -oo")
	return cmd
}

func newSolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "solve EXPR",
		Short: "Solve EXPR = 0",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.parse(args[0])
			if err != nil {
				return err
			}
			res, err := symbolic.Solve(e, a.cfg.Analysis.Variable)
			switch {
			case errors.Is(err, symbolic.ErrIdentity):
				return a.emitCalc(cmd, "solutions", calcResult{Input: args[0], Result: "every value"})
			case err != nil:
				return err
			}
			parts := make([]string, len(res.Solutions))
			for i, s := range res.Solutions {
				parts[i] = s.String()
			}
			out := "none"
			if len(parts) > 0 {
				out = strings.Join(parts, ", ")
			}
			return a.emitCalc(cmd, "solutions", calcResult{Input: args[0], Result: out})
		},
	}
}
