package fancontrol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPercentToLevel(t *testing.T) {
	cases := map[int]int{
		0:   0,
		10:  26,
		24:  61,
		50:  128,
		100: RawMax,
	}
	for p, want := range cases {
		got, err := PercentToLevel(p)
		require.NoError(t, err)
		require.Equal(t, want, got, "p=%d", p)
	}
}

func TestPercentToLevel_OutOfRange(t *testing.T) {
	for _, p := range []int{-1, 101} {
		_, err := PercentToLevel(p)
		require.ErrorIs(t, err, ErrOutOfRange, "p=%d", p)
	}
}

func TestLevelToPercent(t *testing.T) {
	require.Equal(t, 0, LevelToPercent(0))
	require.Equal(t, 24, LevelToPercent(DefaultMinLevel))
	require.Equal(t, 100, LevelToPercent(RawMax))
}

func TestPercentRoundTrip_WithinOne(t *testing.T) {
	for p := 0; p <= 100; p++ {
		v, err := PercentToLevel(p)
		require.NoError(t, err)
		require.InDelta(t, p, LevelToPercent(v), 1, "p=%d", p)
	}
}

func TestLevelRoundTrip_WithinOneRawUnit(t *testing.T) {
	for v := 0; v <= RawMax; v++ {
		back, err := PercentToLevel(LevelToPercent(v))
		require.NoError(t, err)
		require.InDelta(t, v, back, 1, "v=%d", v)
	}
}
