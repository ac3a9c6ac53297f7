package simulation_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/alevel/simulation"
)

// ============================================================
// Projectile
// ============================================================

func TestProjectile_Quantities(t *testing.T) {
	p := simulation.Projectile{Speed: 20, AngleDeg: 45, Gravity: 9.81}
	require.NoError(t, p.Validate())
	assert.InDelta(t, 2.8832, p.FlightTime(), 1e-4)
	assert.InDelta(t, 40.7747, p.Range(), 1e-4)
	assert.InDelta(t, 10.1937, p.MaxHeight(), 1e-4)

	x, y := p.Position(p.FlightTime())
	assert.InDelta(t, p.Range(), x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)
}

func TestProjectile_Frames(t *testing.T) {
	p := simulation.Projectile{Speed: 20, AngleDeg: 45, Gravity: 9.81}
	frames, err := p.Frames(11)
	require.NoError(t, err)
	require.Len(t, frames, 11)
	assert.Equal(t, 0.0, frames[0].T)
	assert.InDelta(t, p.FlightTime(), frames[10].T, 1e-12)
	assert.InDelta(t, p.MaxHeight(), frames[5].Y, 1e-9)
	for _, f := range frames {
		assert.GreaterOrEqual(t, f.Y, 0.0)
	}

	_, err = p.Frames(1)
	var perr *simulation.ParamError
	assert.True(t, errors.As(err, &perr))
}

func TestFrames_Limit(t *testing.T) {
	p := simulation.Projectile{Speed: 20, AngleDeg: 45, Gravity: 9.81}
	frames, err := p.Frames(simulation.MaxFrames)
	require.NoError(t, err)
	assert.Len(t, frames, simulation.MaxFrames)

	var perr *simulation.ParamError
	_, err = p.Frames(simulation.MaxFrames + 1)
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "frames", perr.Param)

	pend := simulation.Pendulum{Length: 1, AmplitudeDeg: 10, Gravity: 9.81}
	_, err = pend.Frames(20000000000, 1)
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "pendulum", perr.Model)
}

func TestProjectile_Invalid(t *testing.T) {
	cases := []struct {
		name  string
		p     simulation.Projectile
		param string
	}{
		{"zero speed", simulation.Projectile{Speed: 0, AngleDeg: 30, Gravity: 9.81}, "speed"},
		{"flat", simulation.Projectile{Speed: 5, AngleDeg: 0, Gravity: 9.81}, "angle_deg"},
		{"no gravity", simulation.Projectile{Speed: 5, AngleDeg: 30}, "gravity"},
		{"nan", simulation.Projectile{Speed: math.NaN(), AngleDeg: 30, Gravity: 9.81}, "speed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.p.Summary()
			var perr *simulation.ParamError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tc.param, perr.Param)
		})
	}
}

// ============================================================
// Pendulum
// ============================================================

func TestPendulum(t *testing.T) {
	p := simulation.Pendulum{Length: 1, AmplitudeDeg: 10, Gravity: 9.81}
	assert.InDelta(t, 2.0061, p.Period(), 1e-4)
	assert.InDelta(t, 1/p.Period(), p.Frequency(), 1e-12)
	assert.InDelta(t, 10*math.Pi/180, p.Angle(0), 1e-12)
	assert.InDelta(t, -10*math.Pi/180, p.Angle(p.Period()/2), 1e-12)

	frames, err := p.Frames(5, p.Period())
	require.NoError(t, err)
	assert.InDelta(t, frames[0].Angle, frames[4].Angle, 1e-12)
	assert.InDelta(t, 0, frames[1].Angle, 1e-12)
	assert.InDelta(t, 1, frames[1].Y, 1e-12)

	s, err := p.Summary()
	require.NoError(t, err)
	assert.Equal(t, "Period: 2.006 s", s.Lines[1])

	_, err = simulation.Pendulum{Length: 1, AmplitudeDeg: 95, Gravity: 9.81}.Summary()
	assert.Error(t, err)
}

// ============================================================
// Circuit and wave
// ============================================================

func TestCircuit_Series(t *testing.T) {
	c := simulation.Circuit{Series: true, Voltage: 12, Resistors: []float64{2, 4, 6}}
	assert.Equal(t, 12.0, c.TotalResistance())
	assert.Equal(t, 1.0, c.Current())
	assert.Equal(t, 12.0, c.Power())
	assert.Equal(t, []float64{2, 4, 6}, c.Branches())

	s, err := c.Summary()
	require.NoError(t, err)
	assert.Equal(t, "Series Circuit Results:", s.Lines[0])
	assert.Equal(t, "V3 = 6.00 V", s.Lines[len(s.Lines)-1])
}

func TestCircuit_Parallel(t *testing.T) {
	c := simulation.Circuit{Voltage: 12, Resistors: []float64{2, 4, 4}}
	assert.InDelta(t, 1.0, c.TotalResistance(), 1e-12)
	assert.InDelta(t, 12.0, c.Current(), 1e-12)
	assert.Equal(t, []float64{6, 3, 3}, c.Branches())

	_, err := simulation.Circuit{Voltage: 12, Resistors: []float64{2, 0}}.Summary()
	var perr *simulation.ParamError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "R2", perr.Param)

	_, err = simulation.Circuit{Voltage: 12}.Summary()
	assert.Error(t, err)
}

func TestWave(t *testing.T) {
	w := simulation.Wave{Frequency: 50, Wavelength: 2}
	assert.Equal(t, 100.0, w.Speed())
	assert.Equal(t, 0.02, w.Period())
	_, err := simulation.Wave{Frequency: 50}.Summary()
	assert.Error(t, err)
}

// ============================================================
// Play
// ============================================================

func TestPlay(t *testing.T) {
	frames := []simulation.Frame{{T: 0}, {T: 1}, {T: 2}}
	var got []float64
	err := simulation.Play(context.Background(), frames, time.Millisecond, func(f simulation.Frame) error {
		got = append(got, f.T)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2}, got)

	stop := errors.New("stop")
	err = simulation.Play(context.Background(), frames, time.Millisecond, func(f simulation.Frame) error {
		if f.T == 1 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = simulation.Play(ctx, frames, time.Hour, func(simulation.Frame) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
