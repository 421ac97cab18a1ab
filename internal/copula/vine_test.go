package copula

import (
	"math"
	"testing"

	"github.com/lifepath-sim/simcore/internal/rng"
	"github.com/stretchr/testify/require"
)

// correlatedGaussianSample builds n observations of d standard-normal
// variables sharing a common factor, then maps them through PhiCDF to
// uniform margins — a quick way to get a dependent uniform-margin sample
// to fit a vine on.
func correlatedGaussianSample(stream *rng.Stream, n, d int) [][]float64 {
	data := make([][]float64, d)
	for i := range data {
		data[i] = make([]float64, n)
	}
	for obs := 0; obs < n; obs++ {
		common := stream.NextNormal(0, 1)
		for i := 0; i < d; i++ {
			idio := stream.NextNormal(0, 1)
			z := 0.6*common + 0.8*idio
			data[i][obs] = PhiCDF(z)
		}
	}
	return data
}

func TestVineFitDimensions(t *testing.T) {
	seed := rng.NewMasterSeed("vine-fit")
	stream := rng.NewStreamFactory(seed).Stream(1, 0)
	data := correlatedGaussianSample(stream, 300, 4)

	vine := Fit(data)
	require.Equal(t, 4, vine.Dim())
	require.Len(t, vine.condTab, 3)
	require.Len(t, vine.condTab[0], 3)
	require.Len(t, vine.condTab[1], 2)
	require.Len(t, vine.condTab[2], 1)
}

// TestVineRoundTrip checks the transform/inverse-transform round trip
// property: Transform(SimulateFrom(w)) should recover w.
func TestVineRoundTrip(t *testing.T) {
	seed := rng.NewMasterSeed("vine-roundtrip")
	stream := rng.NewStreamFactory(seed).Stream(2, 0)
	data := correlatedGaussianSample(stream, 500, 3)
	vine := Fit(data)

	checkStream := rng.NewStreamFactory(rng.NewMasterSeed("vine-roundtrip-check")).Stream(1, 0)
	for trial := 0; trial < 20; trial++ {
		w := make([]float64, 3)
		for i := range w {
			w[i] = 0.05 + 0.9*checkStream.NextUniform()
		}
		x := vine.SimulateFrom(w)
		got := vine.Transform(x)
		for i := range w {
			require.InDelta(t, w[i], got[i], 1e-6)
		}
	}
}

func TestVineSimulateBounds(t *testing.T) {
	seed := rng.NewMasterSeed("vine-simulate")
	stream := rng.NewStreamFactory(seed).Stream(3, 0)
	data := correlatedGaussianSample(stream, 300, 3)
	vine := Fit(data)

	drawStream := rng.NewStreamFactory(rng.NewMasterSeed("vine-draw")).Stream(1, 0)
	for i := 0; i < 200; i++ {
		sample := vine.Simulate(drawStream)
		require.Len(t, sample, 3)
		for _, v := range sample {
			require.False(t, math.IsNaN(v))
			require.GreaterOrEqual(t, v, 0.0)
			require.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestKendallTauKnownSign(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{1, 2, 3, 4, 5}
	require.InDelta(t, 1.0, kendallTau(x, y), 1e-9)

	yRev := []float64{5, 4, 3, 2, 1}
	require.InDelta(t, -1.0, kendallTau(x, yRev), 1e-9)
}

func TestMaxSpanningTreeOrderIsPermutation(t *testing.T) {
	tau := [][]float64{
		{0, 0.8, 0.1, 0.05},
		{0.8, 0, 0.6, 0.2},
		{0.1, 0.6, 0, 0.5},
		{0.05, 0.2, 0.5, 0},
	}
	order := maxSpanningTreeOrder(tau, 4)
	require.Len(t, order, 4)
	seen := make(map[int]bool)
	for _, v := range order {
		require.False(t, seen[v])
		seen[v] = true
	}
}
