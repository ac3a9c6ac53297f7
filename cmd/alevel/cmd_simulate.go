package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/njchilds90/alevel/history"
	"github.com/njchilds90/alevel/simulation"
)

var (
	simFrames   int
	simAnimate  bool
	simInterval time.Duration

	projectile simulation.Projectile
	pendulum   simulation.Pendulum
	pendulumT  float64
	circuit    simulation.Circuit
	wave       simulation.Wave
)

func newSimulateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a physics simulation",
	}
	cmd.PersistentFlags().IntVar(&simFrames, "frames", 0, "print this many animation frames")
	cmd.PersistentFlags().BoolVar(&simAnimate, "animate", false, "replay frames in real time")
	cmd.PersistentFlags().DurationVar(&simInterval, "interval", 50*time.Millisecond, "time between animated frames")

	proj := &cobra.Command{
		Use:   "projectile",
		Short: "Launch over level ground without drag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := projectile.Summary()
			if err != nil {
				return err
			}
			if simFrames > 0 {
				if sum.Frames, err = projectile.Frames(simFrames); err != nil {
					return err
				}
			}
			return a.emitSimulation(cmd, projectile, sum)
		},
	}
	proj.Flags().Float64Var(&projectile.Speed, "speed", 20, "launch speed (m/s)")
	proj.Flags().Float64Var(&projectile.AngleDeg, "angle", 45, "launch angle (degrees)")
	proj.Flags().Float64Var(&projectile.Gravity, "gravity", 9.81, "gravitational field strength (m/s^2)")

	pend := &cobra.Command{
		Use:   "pendulum",
		Short: "Small-angle simple pendulum",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := pendulum.Summary()
			if err != nil {
				return err
			}
			if simFrames > 0 {
				d := pendulumT
				if d <= 0 {
					d = 2 * pendulum.Period()
				}
				if sum.Frames, err = pendulum.Frames(simFrames, d); err != nil {
					return err
				}
			}
			return a.emitSimulation(cmd, pendulum, sum)
		},
	}
	pend.Flags().Float64Var(&pendulum.Length, "length", 1, "string length (m)")
	pend.Flags().Float64Var(&pendulum.AmplitudeDeg, "amplitude", 10, "release angle (degrees)")
	pend.Flags().Float64Var(&pendulum.Gravity, "gravity", 9.81, "gravitational field strength (m/s^2)")
	pend.Flags().Float64Var(&pendulumT, "duration", 0, "seconds to sample (default two periods)")

	circ := &cobra.Command{
		Use:   "circuit",
		Short: "Resistors in series or parallel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := circuit.Summary()
			if err != nil {
				return err
			}
			return a.emitSimulation(cmd, circuit, sum)
		},
	}
	circ.Flags().BoolVar(&circuit.Series, "series", false, "wire in series instead of parallel")
	circ.Flags().Float64Var(&circuit.Voltage, "voltage", 12, "supply voltage (V)")
	circ.Flags().Float64SliceVar(&circuit.Resistors, "resistors", []float64{10, 20, 30}, "resistances (Ω)")

	wav := &cobra.Command{
		Use:   "wave",
		Short: "Travelling wave speed and period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := wave.Summary()
			if err != nil {
				return err
			}
			return a.emitSimulation(cmd, wave, sum)
		},
	}
	wav.Flags().Float64Var(&wave.Frequency, "frequency", 50, "frequency (Hz)")
	wav.Flags().Float64Var(&wave.Wavelength, "wavelength", 2, "wavelength (m)")

	cmd.AddCommand(proj, pend, circ, wav)
	return cmd
}

func (a *app) emitSimulation(cmd *cobra.Command, params any, sum simulation.Summary) error {
	in, err := json.Marshal(params)
	if err != nil {
		return err
	}
	a.remember(cmd.Context(), history.KindSimulation, sum.Model+" "+string(in), strings.Join(sum.Lines, "\n"))

	if a.jsonOut {
		return a.printJSON(sum)
	}
	fmt.Fprint(a.out, a.style.panel(strings.ToUpper(sum.Model[:1])+sum.Model[1:], sum.Lines))
	if len(sum.Frames) == 0 {
		return nil
	}

	fmt.Fprintln(a.out, a.style.note("t\tx\ty"))
	show := func(f simulation.Frame) error {
		_, err := fmt.Fprintf(a.out, "%.3f\t%.3f\t%.3f\n", f.T, f.X, f.Y)
		return err
	}
	if !simAnimate {
		for _, f := range sum.Frames {
			if err := show(f); err != nil {
				return err
			}
		}
		return nil
	}
	return simulation.Play(cmd.Context(), sum.Frames, simInterval, show)
}
