package simulation

import (
	"fmt"
	"math"
)

// Pendulum is a simple pendulum under the small-angle approximation.
type Pendulum struct {
	Length       float64 `json:"length"`
	AmplitudeDeg float64 `json:"amplitude_deg"`
	Gravity      float64 `json:"gravity"`
}

func (p Pendulum) Validate() error {
	if err := positive("pendulum", "length", p.Length); err != nil {
		return err
	}
	if err := positive("pendulum", "gravity", p.Gravity); err != nil {
		return err
	}
	if math.Abs(p.AmplitudeDeg) >= 90 || math.IsNaN(p.AmplitudeDeg) {
		return &ParamError{Model: "pendulum", Param: "amplitude_deg", Value: p.AmplitudeDeg, Reason: "must be less than 90 in magnitude"}
	}
	return nil
}

// Period is 2π√(L/g).
func (p Pendulum) Period() float64 { return 2 * math.Pi * math.Sqrt(p.Length/p.Gravity) }

func (p Pendulum) Frequency() float64 { return 1 / p.Period() }

// Angle returns the displacement in radians at time t.
func (p Pendulum) Angle(t float64) float64 {
	omega := math.Sqrt(p.Gravity / p.Length)
	return p.AmplitudeDeg * math.Pi / 180 * math.Cos(omega*t)
}

// Frames samples n states over duration seconds. Y is measured downward
// from the pivot.
func (p Pendulum) Frames(n int, duration float64) ([]Frame, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := frameCount("pendulum", n); err != nil {
		return nil, err
	}
	if err := positive("pendulum", "duration", duration); err != nil {
		return nil, err
	}
	frames := make([]Frame, n)
	for i := range frames {
		t := duration * float64(i) / float64(n-1)
		a := p.Angle(t)
		frames[i] = Frame{T: t, X: p.Length * math.Sin(a), Y: p.Length * math.Cos(a), Angle: a}
	}
	return frames, nil
}

func (p Pendulum) Summary() (Summary, error) {
	if err := p.Validate(); err != nil {
		return Summary{}, err
	}
	return Summary{
		Model:  "pendulum",
		Values: map[string]float64{"period": p.Period(), "frequency": p.Frequency()},
		Lines: []string{
			fmt.Sprintf("Length: %.2f m", p.Length),
			fmt.Sprintf("Period: %.3f s", p.Period()),
			fmt.Sprintf("Frequency: %.3f Hz", p.Frequency()),
		},
	}, nil
}
