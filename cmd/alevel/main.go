// Command alevel analyses single-variable functions, evaluates A-Level
// formulas, runs physics simulations and serves all of it over HTTP.
//
// Usage:
//
//	alevel analyze "x^3 - 3*x" --min -5 --max 5
//	alevel diff "sin(x)*x^2"
//	alevel formula eval kinetic-energy m=2 v=3
//	alevel simulate projectile --speed 20 --angle 45
//	alevel serve --addr :8080
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/njchilds90/alevel/analyzer"
	"github.com/njchilds90/alevel/config"
	"github.com/njchilds90/alevel/formula"
	"github.com/njchilds90/alevel/history"
)

const (
	exitSuccess = 0
	exitError   = 1
)

// app carries what every command shares. It is filled by the root
// command's PersistentPreRunE.
type app struct {
	cfgPath   string
	jsonOut   bool
	user      string
	noHistory bool

	cfg      config.Config
	log      *slog.Logger
	analyzer *analyzer.Analyzer
	formulas *formula.Registry
	store    *history.Store
	out      io.Writer
	style    renderer
}

func main() {
	if err := execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, styleFor(os.Stderr).err(err.Error()))
		os.Exit(exitError)
	}
	os.Exit(exitSuccess)
}

// execute runs one command line and always releases the history store,
// even when the command fails.
func execute(args []string, out, errOut io.Writer) error {
	root, a := newRootCmd(out, errOut)
	root.SetArgs(args)
	err := root.Execute()
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

func newRootCmd(out, errOut io.Writer) (*cobra.Command, *app) {
	a := &app{}
	root := &cobra.Command{
		Use:           "alevel",
		Short:         "A-Level function analysis, formulas and simulations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgPath, "config", "c", "", "YAML config file")
	flags.BoolVar(&a.jsonOut, "json", false, "print results as JSON")
	flags.StringVarP(&a.user, "user", "u", "default", "history owner")
	flags.BoolVar(&a.noHistory, "no-history", false, "do not record results")

	root.AddCommand(
		newAnalyzeCmd(a),
		newDiffCmd(a),
		newIntegrateCmd(a),
		newEvalCmd(a),
		newLimitCmd(a),
		newSolveCmd(a),
		newFormulaCmd(a),
		newSimulateCmd(a),
		newHistoryCmd(a),
		newPrefsCmd(a),
		newServeCmd(a),
	)
	return root, a
}

func (a *app) init(out, errOut io.Writer) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.out = out
	a.style = styleFor(out)
	a.log = cfg.Log.Logger(errOut)
	a.analyzer = analyzer.New(cfg.Analysis, a.log)
	a.formulas = formula.Default()
	return nil
}

// openStore opens the history store on first use. It returns nil when
// history is disabled.
func (a *app) openStore() (*history.Store, error) {
	if a.store != nil || a.noHistory || !a.cfg.History.Enabled {
		return a.store, nil
	}
	s, err := history.Open(a.cfg.History.Store, a.log)
	if err != nil {
		return nil, err
	}
	a.store = s
	return s, nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// remember records a result. A store failure is logged, not returned:
// the calculation itself succeeded.
func (a *app) remember(ctx context.Context, kind history.Kind, input, output string) {
	s, err := a.openStore()
	if err != nil {
		a.log.Warn("history unavailable", "error", err)
		return
	}
	if s == nil {
		return
	}
	if _, err := s.Append(ctx, history.Record{User: a.user, Kind: kind, Input: input, Output: output}); err != nil {
		a.log.Warn("history append failed", "kind", kind, "error", err)
	}
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
