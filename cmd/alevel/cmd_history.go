package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/njchilds90/alevel/history"
)

var historyLimit int

var errHistoryDisabled = errors.New("history is disabled (see history.enabled in the config)")

// requireStore is openStore for commands that cannot work without it.
func (a *app) requireStore() (*history.Store, error) {
	s, err := a.openStore()
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errHistoryDisabled
	}
	return s, nil
}

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear past calculations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.requireStore()
			if err != nil {
				return err
			}
			recs, err := s.List(cmd.Context(), a.user, historyLimit)
			if err != nil {
				return err
			}
			if a.jsonOut {
				if recs == nil {
					recs = []history.Record{}
				}
				return a.printJSON(recs)
			}
			if len(recs) == 0 {
				fmt.Fprintln(a.out, a.style.note("no history for "+a.user))
				return nil
			}
			for _, r := range recs {
				head := fmt.Sprintf("%s  [%s]  %s", r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Kind, r.Input)
				fmt.Fprintln(a.out, a.style.heading(head))
				for _, l := range strings.Split(r.Output, "\n") {
					fmt.Fprintln(a.out, "  "+a.style.line(l))
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum records to show, 0 for all")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every record of the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.requireStore()
			if err != nil {
				return err
			}
			n, err := s.Clear(cmd.Context(), a.user)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "cleared %d records for %s\n", n, a.user)
			return nil
		},
	}
	cmd.AddCommand(clearCmd)
	return cmd
}

func newPrefsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Per-user preferences such as angle_mode",
	}
	set := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Store a preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == prefAngleMode {
				switch strings.ToLower(args[1]) {
				case "degrees", "deg", "radians", "rad":
				default:
					return fmt.Errorf("angle_mode must be degrees or radians, got %q", args[1])
				}
			}
			s, err := a.requireStore()
			if err != nil {
				return err
			}
			if err := s.SetPreference(cmd.Context(), a.user, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s = %s\n", args[0], args[1])
			return nil
		},
	}
	get := &cobra.Command{
		Use:   "get KEY",
		Short: "Show a preference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.requireStore()
			if err != nil {
				return err
			}
			v, err := s.GetPreference(cmd.Context(), a.user, args[0])
			if errors.Is(err, history.ErrNotFound) {
				return fmt.Errorf("preference %s is not set", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s = %s\n", args[0], v)
			return nil
		},
	}
	cmd.AddCommand(set, get)
	return cmd
}
