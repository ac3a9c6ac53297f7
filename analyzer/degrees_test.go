package analyzer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteDegrees(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"sin(x)", "sin(radians(x))"},
		{"2*tan(x+1)", "2*tan(radians(x+1))"},
		{"sin (x)", "sin(radians(x))"},
		{"sin(cos(x))", "sin(radians(cos(radians(x))))"},
		{"sin((x+1)*2) + cos(x)", "sin(radians((x+1)*2)) + cos(radians(x))"},
		{"asin(x) + sinh(x)", "asin(x) + sinh(x)"},
		{"x^2", "x^2"},
		{"sin(x", "sin(x"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, rewriteDegrees(tc.in))
		})
	}
}

func TestGuard_RecoversPanic(t *testing.T) {
	v, ferr := guard("roots", func() (int, error) {
		panic("division by zero")
	})
	assert.Zero(t, v)
	require.NotNil(t, ferr)
	assert.Equal(t, "roots", ferr.Facet)
	assert.True(t, errors.Is(ferr, errPanic))
}

func TestGuard_WrapsError(t *testing.T) {
	sentinel := errors.New("boom")
	_, ferr := guard("asymptotes", func() (float64, error) { return 0, sentinel })
	require.NotNil(t, ferr)
	assert.ErrorIs(t, ferr, sentinel)
	assert.Equal(t, "asymptotes: boom", ferr.Error())
}

func TestSignChanges_DropsPoles(t *testing.T) {
	recip := func(x float64) (float64, bool) {
		if x == 0 {
			return 0, false
		}
		return 1 / x, true
	}
	assert.Empty(t, signChanges(recip, []float64{-1, -0.5, 0.25, 1}))

	line := func(x float64) (float64, bool) { return x - 0.3, true }
	got := signChanges(line, []float64{0, 0.5, 1})
	require.Len(t, got, 1)
	assert.InDelta(t, 0.3, bisect(line, got[0]), 1e-9)
}

func TestFormat4(t *testing.T) {
	assert.Equal(t, "0.0000", format4(-0.00001))
	assert.Equal(t, "1.5708", format4(1.5707963))
	assert.Equal(t, "-10.0", formatBound(-10))
	assert.Equal(t, "0.5", formatBound(0.5))
	assert.Equal(t, 0.0, round4(-0.00001))
}
