package growth

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZScorePowerBranch(t *testing.T) {
	lms := LMSRow{L: 0.3809, M: 3.2322, S: 0.14171}
	measured := 2.8

	z, err := ZScore(measured, lms)
	require.NoError(t, err)

	want := (math.Pow(measured/lms.M, lms.L) - 1) / (lms.L * lms.S)
	require.Equal(t, want, z)
	require.Less(t, z, 0.0)
}

func TestZScoreLogNormalBranch(t *testing.T) {
	lms := LMSRow{L: 0, M: 86.4, S: 0.0365}
	measured := 80.0

	z, err := ZScore(measured, lms)
	require.NoError(t, err)
	require.Equal(t, math.Log(measured/lms.M)/lms.S, z)
}

func TestZScoreAtMedianIsZero(t *testing.T) {
	for _, l := range []float64{0, 1, -0.5} {
		z, err := ZScore(10, LMSRow{L: l, M: 10, S: 0.1})
		require.NoError(t, err)
		require.InDelta(t, 0, z, 1e-12)
	}
}

func TestZScoreRejectsNonPositive(t *testing.T) {
	cases := []struct {
		name     string
		measured float64
		lms      LMSRow
	}{
		{name: "zero measurement", measured: 0, lms: LMSRow{L: 1, M: 10, S: 0.1}},
		{name: "negative measurement", measured: -2, lms: LMSRow{L: 1, M: 10, S: 0.1}},
		{name: "zero median", measured: 5, lms: LMSRow{L: 1, M: 0, S: 0.1}},
		{name: "zero sigma", measured: 5, lms: LMSRow{L: 1, M: 10, S: 0}},
		{name: "nan measurement", measured: math.NaN(), lms: LMSRow{L: 1, M: 10, S: 0.1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ZScore(tc.measured, tc.lms)
			require.ErrorIs(t, err, ErrInvalidMeasurement)
		})
	}
}

func TestBMI(t *testing.T) {
	require.InDelta(t, 13.149, BMI(8.0, 78), 0.001)
}
