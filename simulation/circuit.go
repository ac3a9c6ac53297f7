package simulation

import (
	"fmt"
	"strconv"
)

// Circuit is a set of resistors across an ideal supply, wired in series
// or in parallel.
type Circuit struct {
	Series    bool      `json:"series"`
	Voltage   float64   `json:"voltage"`
	Resistors []float64 `json:"resistors"`
}

func (c Circuit) Validate() error {
	if len(c.Resistors) == 0 {
		return &ParamError{Model: "circuit", Param: "resistors", Reason: "need at least one resistor"}
	}
	for i, r := range c.Resistors {
		if err := positive("circuit", "R"+strconv.Itoa(i+1), r); err != nil {
			return err
		}
	}
	return nil
}

func (c Circuit) TotalResistance() float64 {
	if c.Series {
		sum := 0.0
		for _, r := range c.Resistors {
			sum += r
		}
		return sum
	}
	inv := 0.0
	for _, r := range c.Resistors {
		inv += 1 / r
	}
	return 1 / inv
}

func (c Circuit) Current() float64 { return c.Voltage / c.TotalResistance() }

func (c Circuit) Power() float64 { return c.Voltage * c.Current() }

// Branches returns the voltage across each resistor in series, or the
// current through each branch in parallel.
func (c Circuit) Branches() []float64 {
	out := make([]float64, len(c.Resistors))
	i := c.Current()
	for k, r := range c.Resistors {
		if c.Series {
			out[k] = i * r
		} else {
			out[k] = c.Voltage / r
		}
	}
	return out
}

func (c Circuit) Summary() (Summary, error) {
	if err := c.Validate(); err != nil {
		return Summary{}, err
	}
	kind := "Parallel"
	if c.Series {
		kind = "Series"
	}
	lines := []string{
		kind + " Circuit Results:",
		fmt.Sprintf("Voltage: %.2f V", c.Voltage),
		fmt.Sprintf("Total Resistance: %.2f Ω", c.TotalResistance()),
		fmt.Sprintf("Current: %.3f A", c.Current()),
		fmt.Sprintf("Power: %.3f W", c.Power()),
	}
	for k, b := range c.Branches() {
		if c.Series {
			lines = append(lines, fmt.Sprintf("V%d = %.2f V", k+1, b))
		} else {
			lines = append(lines, fmt.Sprintf("I%d = %.3f A", k+1, b))
		}
	}
	return Summary{
		Model: "circuit",
		Values: map[string]float64{
			"total_resistance": c.TotalResistance(),
			"current":          c.Current(),
			"power":            c.Power(),
		},
		Lines: lines,
	}, nil
}

// Wave is a travelling wave of fixed frequency and wavelength.
type Wave struct {
	Frequency  float64 `json:"frequency"`
	Wavelength float64 `json:"wavelength"`
}

func (w Wave) Validate() error {
	if err := positive("wave", "frequency", w.Frequency); err != nil {
		return err
	}
	return positive("wave", "wavelength", w.Wavelength)
}

func (w Wave) Speed() float64 { return w.Frequency * w.Wavelength }

func (w Wave) Period() float64 { return 1 / w.Frequency }

func (w Wave) Summary() (Summary, error) {
	if err := w.Validate(); err != nil {
		return Summary{}, err
	}
	return Summary{
		Model:  "wave",
		Values: map[string]float64{"speed": w.Speed(), "period": w.Period()},
		Lines: []string{
			fmt.Sprintf("Wave Speed: %.3f m/s", w.Speed()),
			fmt.Sprintf("Period: %.4f s", w.Period()),
		},
	}, nil
}
