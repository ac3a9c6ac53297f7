package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/njchilds90/alevel/formula"
	"github.com/njchilds90/alevel/history"
)

var (
	formulaSubject string
	formulaTopic   string
)

func newFormulaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formula",
		Short: "Browse and evaluate the A-Level formula sheet",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List formulas, optionally by --subject and --topic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormulaList(a)
		},
	}
	list.Flags().StringVar(&formulaSubject, "subject", "", "Mathematics or Physics")
	list.Flags().StringVar(&formulaTopic, "topic", "", "topic name")

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Describe one formula and its inputs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, ok := a.formulas.Get(formula.ID(args[0]))
			if !ok {
				return fmt.Errorf("%w: %s", formula.ErrUnknownFormula, args[0])
			}
			if a.jsonOut {
				return a.printJSON(f)
			}
			lines := []string{
				"Notation: " + f.Notation,
				"Topic: " + string(f.Subject) + " / " + f.Topic,
				"Description: " + f.Description,
			}
			for _, in := range f.Inputs {
				lines = append(lines, "Input: "+describeInput(in))
			}
			fmt.Fprint(a.out, a.style.panel(f.Name, lines))
			return nil
		},
	}

	eval := &cobra.Command{
		Use:   "eval ID NAME=VALUE...",
		Short: "Evaluate a formula",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}
			res, err := a.formulas.Evaluate(formula.ID(args[0]), inputs)
			if err != nil {
				return err
			}
			a.remember(cmd.Context(), history.KindFormula, args[0]+" "+strings.Join(args[1:], " "), res.String())
			if a.jsonOut {
				return a.printJSON(res)
			}
			for _, q := range res.Values {
				fmt.Fprintln(a.out, a.style.line(q.String()))
			}
			if res.Expression != "" {
				fmt.Fprintln(a.out, res.Expression)
			}
			if res.Note != "" {
				fmt.Fprintln(a.out, a.style.note(res.Note))
			}
			return nil
		},
	}

	cmd.AddCommand(list, show, eval)
	return cmd
}

func runFormulaList(a *app) error {
	var subjects []formula.Subject
	if formulaSubject != "" {
		subjects = []formula.Subject{formula.Subject(formulaSubject)}
	} else {
		subjects = []formula.Subject{formula.Mathematics, formula.Physics}
	}

	var all []formula.Formula
	for _, subj := range subjects {
		topics := a.formulas.Topics(subj)
		if formulaTopic != "" {
			topics = []string{formulaTopic}
		}
		for _, topic := range topics {
			fs := a.formulas.ByTopic(subj, topic)
			if len(fs) == 0 {
				continue
			}
			all = append(all, fs...)
			if a.jsonOut {
				continue
			}
			lines := make([]string, len(fs))
			for i, f := range fs {
				lines[i] = fmt.Sprintf("%s: %s  (%s)", f.ID, f.Notation, f.Name)
			}
			fmt.Fprint(a.out, a.style.panel(string(subj)+" / "+topic, lines))
		}
	}
	if a.jsonOut {
		return a.printJSON(all)
	}
	if len(all) == 0 {
		fmt.Fprintln(a.out, a.style.note("no formulas match"))
	}
	return nil
}

func describeInput(in formula.Input) string {
	s := in.Name
	if in.Description != "" {
		s += " (" + in.Description + ")"
	}
	if in.Unit != "" {
		s += " [" + in.Unit + "]"
	}
	switch {
	case in.HasDefault:
		s += " default " + strconv.FormatFloat(in.Default, 'g', -1, 64)
	case in.Optional:
		s += " optional"
	}
	return s
}

// parseAssignments turns "m=2 v=3" into a value map.
func parseAssignments(args []string) (map[string]float64, error) {
	out := make(map[string]float64, len(args))
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("input %q: want NAME=VALUE", arg)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", name, err)
		}
		if _, dup := out[name]; dup {
			return nil, fmt.Errorf("input %s given twice", name)
		}
		out[name] = v
	}
	return out, nil
}
