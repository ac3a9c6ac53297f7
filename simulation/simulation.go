// Package simulation holds closed-form physics models: projectile motion,
// a small-angle pendulum, resistor circuits and travelling waves. Models
// produce frames for animation; Play replays them on a ticker.
package simulation

import (
	"context"
	"fmt"
	"time"
)

// ParamError reports a model parameter outside its physical range.
type ParamError struct {
	Model  string
	Param  string
	Value  float64
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %s = %g: %s", e.Model, e.Param, e.Value, e.Reason)
}

func positive(model, param string, v float64) error {
	if !(v > 0) {
		return &ParamError{Model: model, Param: param, Value: v, Reason: "must be positive"}
	}
	return nil
}

// MaxFrames bounds a single Frames call.
const MaxFrames = 10000

func frameCount(model string, n int) error {
	switch {
	case n < 2:
		return &ParamError{Model: model, Param: "frames", Value: float64(n), Reason: "need at least 2"}
	case n > MaxFrames:
		return &ParamError{Model: model, Param: "frames", Value: float64(n), Reason: fmt.Sprintf("at most %d", MaxFrames)}
	}
	return nil
}

// Frame is one sampled state. X and Y are positions in metres for the
// projectile and the pendulum bob; Angle is in radians and is only set by
// the pendulum.
type Frame struct {
	T     float64 `json:"t"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Angle float64 `json:"angle,omitempty"`
}

// Play sends frames to fn one per tick until they run out, fn returns an
// error or ctx is done.
func Play(ctx context.Context, frames []Frame, every time.Duration, fn func(Frame) error) error {
	if len(frames) == 0 {
		return nil
	}
	if err := fn(frames[0]); err != nil {
		return err
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for _, f := range frames[1:] {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := fn(f); err != nil {
				return err
			}
		}
	}
	return nil
}

// Summary is the printable outcome of a model.
type Summary struct {
	Model  string             `json:"model"`
	Values map[string]float64 `json:"values"`
	Lines  []string           `json:"lines"`
	Frames []Frame            `json:"frames,omitempty"`
}
