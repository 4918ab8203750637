package fancontrol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	w := Window{MinC: 40, MaxC: 60}
	cases := []struct {
		temp float64
		want int
	}{
		{temp: -10, want: 0},
		{temp: 39.9, want: 0},
		{temp: 40.0, want: 0},
		{temp: 41.0, want: 13},
		{temp: 50.0, want: 128},
		{temp: 55.0, want: 191},
		{temp: 59.99, want: 255},
		{temp: 60.0, want: RawMax},
		{temp: 75.0, want: RawMax},
	}
	for _, tc := range cases {
		got, err := Evaluate(tc.temp, w)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "temp=%v", tc.temp)
	}
}

func TestEvaluate_MinIsInsideRamp(t *testing.T) {
	// With a narrow window the ramp start is distinguishable from "off":
	// only temperatures strictly below MinC short-circuit to 0.
	w := Window{MinC: 40, MaxC: 40.5}
	got, err := Evaluate(40.25, w)
	require.NoError(t, err)
	require.Equal(t, 128, got)

	got, err = Evaluate(39.999, w)
	require.NoError(t, err)
	require.Equal(t, 0, got)
}

func TestEvaluate_EqualBounds(t *testing.T) {
	w := Window{MinC: 50, MaxC: 50}
	got, err := Evaluate(50, w)
	require.NoError(t, err)
	require.Equal(t, RawMax, got)

	got, err = Evaluate(49.9, w)
	require.NoError(t, err)
	require.Equal(t, 0, got)
}

func TestEvaluate_InvertedWindow(t *testing.T) {
	w := Window{MinC: 60, MaxC: 40}
	for _, temp := range []float64{-20, 39, 40, 50, 60, 90} {
		_, err := Evaluate(temp, w)
		require.ErrorIs(t, err, ErrInvalidConfiguration, "temp=%v", temp)
	}
}
