package main

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/njchilds90/alevel/analyzer"
	"github.com/njchilds90/alevel/history"
)

const prefAngleMode = "angle_mode"

var (
	analyzeMin          float64
	analyzeMax          float64
	analyzeNoRoots      bool
	analyzeNoTurning    bool
	analyzeNoAsymptotes bool
	analyzeAngles       string
	analyzePlot         bool
)

func newAnalyzeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze EXPR [EXPR...]",
		Short: "Analyse functions of x over an interval",
		Long: `Analyse one or more functions of x over [min, max]: y-intercept, roots,
turning points, horizontal asymptotes, domain and range, symmetry,
monotonicity, boundedness and periodicity. Several functions are analysed
in parallel and reported in argument order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, a, args)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&analyzeMin, "min", -10, "interval start")
	f.Float64Var(&analyzeMax, "max", 10, "interval end")
	f.BoolVar(&analyzeNoRoots, "no-roots", false, "skip root finding")
	f.BoolVar(&analyzeNoTurning, "no-turning", false, "skip turning points")
	f.BoolVar(&analyzeNoAsymptotes, "no-asymptotes", false, "skip asymptotes")
	f.StringVar(&analyzeAngles, "angles", "", "trig argument unit: degrees or radians (default from prefs, then config)")
	f.BoolVar(&analyzePlot, "plot", false, "print the sample table")
	return cmd
}

// angleMode resolves the trig unit: flag, then stored preference, then
// config.
func (a *app) angleMode(cmd *cobra.Command) (bool, error) {
	mode := analyzeAngles
	if mode == "" {
		if s, err := a.openStore(); err == nil && s != nil {
			if v, err := s.GetPreference(cmd.Context(), a.user, prefAngleMode); err == nil {
				mode = v
			}
		}
	}
	switch strings.ToLower(mode) {
	case "":
		return a.cfg.Analysis.Degrees, nil
	case "degrees", "deg":
		return true, nil
	case "radians", "rad":
		return false, nil
	}
	return false, fmt.Errorf("unknown angle mode %q: want degrees or radians", mode)
}

func runAnalyze(cmd *cobra.Command, a *app, exprs []string) error {
	iv, err := analyzer.NewInterval(analyzeMin, analyzeMax)
	if err != nil {
		return err
	}
	degrees, err := a.angleMode(cmd)
	if err != nil {
		return err
	}
	cfg := a.cfg.Analysis
	cfg.Degrees = degrees
	an := analyzer.New(cfg, a.log)
	opts := analyzer.Options{
		FindRoots:         !analyzeNoRoots,
		FindTurningPoints: !analyzeNoTurning,
		FindAsymptotes:    !analyzeNoAsymptotes,
	}

	reports := make([]*analyzer.Report, len(exprs))
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, text := range exprs {
		i, text := i, text
		g.Go(func() error {
			rep, err := an.Analyze(text, iv, opts)
			if err != nil {
				return err
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, rep := range reports {
		a.remember(cmd.Context(), history.KindAnalysis,
			fmt.Sprintf("f(%s) = %s on [%g, %g]", cfg.Variable, rep.Input, iv.Min, iv.Max),
			rep.String())
	}

	if a.jsonOut {
		if len(reports) == 1 {
			return a.printJSON(reports[0])
		}
		return a.printJSON(reports)
	}
	for _, rep := range reports {
		title := fmt.Sprintf("f(%s) = %s", cfg.Variable, rep.Input)
		fmt.Fprint(a.out, a.style.panel(title, rep.Lines()))
		for _, ferr := range rep.Errors() {
			fmt.Fprintln(a.out, a.style.warning("note: "+ferr.Error()))
		}
		if analyzePlot {
			printSamples(a, rep)
		}
	}
	return nil
}

func printSamples(a *app, rep *analyzer.Report) {
	fmt.Fprintln(a.out, a.style.note("x\ty"))
	for _, p := range rep.Samples {
		y := "undefined"
		if p.Valid {
			y = strconv.FormatFloat(p.Y, 'g', 8, 64)
		}
		fmt.Fprintf(a.out, "%s\t%s\n", strconv.FormatFloat(p.X, 'g', 8, 64), y)
	}
}
