package simulation

import (
	"fmt"
	"math"
)

// Projectile is a launch from the origin over level ground with no drag.
type Projectile struct {
	Speed    float64 `json:"speed"`
	AngleDeg float64 `json:"angle_deg"`
	Gravity  float64 `json:"gravity"`
}

func (p Projectile) Validate() error {
	if err := positive("projectile", "speed", p.Speed); err != nil {
		return err
	}
	if err := positive("projectile", "gravity", p.Gravity); err != nil {
		return err
	}
	if !(p.AngleDeg > 0 && p.AngleDeg < 180) {
		return &ParamError{Model: "projectile", Param: "angle_deg", Value: p.AngleDeg, Reason: "must lie strictly between 0 and 180"}
	}
	return nil
}

func (p Projectile) components() (vx, vy float64) {
	a := p.AngleDeg * math.Pi / 180
	return p.Speed * math.Cos(a), p.Speed * math.Sin(a)
}

func (p Projectile) FlightTime() float64 {
	_, vy := p.components()
	return 2 * vy / p.Gravity
}

func (p Projectile) Range() float64 {
	vx, _ := p.components()
	return vx * p.FlightTime()
}

func (p Projectile) MaxHeight() float64 {
	_, vy := p.components()
	return vy * vy / (2 * p.Gravity)
}

// Position returns the displacement at time t.
func (p Projectile) Position(t float64) (x, y float64) {
	vx, vy := p.components()
	return vx * t, vy*t - 0.5*p.Gravity*t*t
}

// Frames samples n points uniformly from launch to landing.
func (p Projectile) Frames(n int) ([]Frame, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := frameCount("projectile", n); err != nil {
		return nil, err
	}
	tf := p.FlightTime()
	frames := make([]Frame, n)
	for i := range frames {
		t := tf * float64(i) / float64(n-1)
		x, y := p.Position(t)
		frames[i] = Frame{T: t, X: x, Y: math.Max(y, 0)}
	}
	return frames, nil
}

func (p Projectile) Summary() (Summary, error) {
	if err := p.Validate(); err != nil {
		return Summary{}, err
	}
	return Summary{
		Model: "projectile",
		Values: map[string]float64{
			"flight_time": p.FlightTime(),
			"range":       p.Range(),
			"max_height":  p.MaxHeight(),
		},
		Lines: []string{
			fmt.Sprintf("Initial Velocity: %.2f m/s", p.Speed),
			fmt.Sprintf("Angle: %.1f°", p.AngleDeg),
			fmt.Sprintf("Time of Flight: %.2f s", p.FlightTime()),
			fmt.Sprintf("Range: %.2f m", p.Range()),
			fmt.Sprintf("Maximum Height: %.2f m", p.MaxHeight()),
		},
	}, nil
}
