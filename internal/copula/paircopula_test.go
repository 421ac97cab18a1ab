package copula

import (
	"math"
	"testing"

	"github.com/lifepath-sim/simcore/internal/rng"
	"github.com/stretchr/testify/require"
)

func TestSelectFamilyThresholds(t *testing.T) {
	require.Equal(t, FamilyGaussian, SelectFamily(0.05))
	require.Equal(t, FamilyClayton, SelectFamily(0.6))
	require.Equal(t, FamilyGumbel, SelectFamily(-0.4))
	require.Equal(t, FamilyStudentT, SelectFamily(0.25))
}

func TestGaussianCondInvRoundTrip(t *testing.T) {
	g := &Gaussian{Rho: 0.4}
	v := 0.3
	for _, p := range []float64{0.1, 0.5, 0.9} {
		u := g.CondInv(p, v)
		got := g.CondCDF(u, v)
		require.InDelta(t, p, got, 1e-6)
	}
}

func TestGaussianSimulateBounds(t *testing.T) {
	seed := rng.NewMasterSeed("pair-gaussian")
	stream := rng.NewStreamFactory(seed).Stream(1, 0)
	g := &Gaussian{Rho: -0.6}
	for i := 0; i < 1000; i++ {
		u, v := g.Simulate(stream)
		require.GreaterOrEqual(t, u, 0.0)
		require.LessOrEqual(t, u, 1.0)
		require.GreaterOrEqual(t, v, 0.0)
		require.LessOrEqual(t, v, 1.0)
	}
}

func TestClaytonCondInvRoundTrip(t *testing.T) {
	c := &Clayton{Theta: 2.0}
	v := 0.4
	for _, p := range []float64{0.1, 0.5, 0.9} {
		u := c.CondInv(p, v)
		got := c.CondCDF(u, v)
		require.InDelta(t, p, got, 1e-6)
	}
}

func TestClaytonCDFMonotone(t *testing.T) {
	c := &Clayton{Theta: 3.0}
	prev := 0.0
	for _, u := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
		cur := c.CDF(u, 0.5)
		require.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestGumbelCondCDFRoundTrip(t *testing.T) {
	g := &Gumbel{Theta: 1.8}
	v := 0.45
	for _, p := range []float64{0.2, 0.5, 0.8} {
		u := g.CondInv(p, v)
		got := g.CondCDF(u, v)
		require.InDelta(t, p, got, 1e-4)
	}
}

func TestGumbelSimulateBounds(t *testing.T) {
	seed := rng.NewMasterSeed("pair-gumbel")
	stream := rng.NewStreamFactory(seed).Stream(2, 0)
	g := &Gumbel{Theta: 2.5}
	for i := 0; i < 500; i++ {
		u, v := g.Simulate(stream)
		require.False(t, math.IsNaN(u) || math.IsNaN(v))
		require.GreaterOrEqual(t, u, 0.0)
		require.LessOrEqual(t, u, 1.0)
		require.GreaterOrEqual(t, v, 0.0)
		require.LessOrEqual(t, v, 1.0)
	}
}

func TestFitFromTauFamilyReflectsNegativeTauGumbel(t *testing.T) {
	pc := FitFromTauFamily(-0.4, FamilyGumbel)
	rotated, ok := pc.(*Rotated180)
	require.True(t, ok, "negative-tau Gumbel fit should be wrapped in Rotated180")
	require.Equal(t, FamilyGumbel, rotated.Family())

	positive := FitFromTauFamily(0.4, FamilyGumbel)
	_, isRotated := positive.(*Rotated180)
	require.False(t, isRotated, "positive-tau Gumbel fit should not be reflected")
}

func TestRotated180CondCDFRoundTrip(t *testing.T) {
	r := &Rotated180{Inner: &Gumbel{Theta: 1.8}}
	v := 0.45
	for _, p := range []float64{0.2, 0.5, 0.8} {
		u := r.CondInv(p, v)
		got := r.CondCDF(u, v)
		require.InDelta(t, p, got, 1e-4)
	}
}

func TestRotated180SimulateBounds(t *testing.T) {
	seed := rng.NewMasterSeed("pair-rotated-gumbel")
	stream := rng.NewStreamFactory(seed).Stream(2, 0)
	r := &Rotated180{Inner: &Gumbel{Theta: 2.5}}
	for i := 0; i < 500; i++ {
		u, v := r.Simulate(stream)
		require.False(t, math.IsNaN(u) || math.IsNaN(v))
		require.GreaterOrEqual(t, u, 0.0)
		require.LessOrEqual(t, u, 1.0)
		require.GreaterOrEqual(t, v, 0.0)
		require.LessOrEqual(t, v, 1.0)
	}
}

func TestStudentTCDFAtIndependence(t *testing.T) {
	st := &StudentT{Rho: 0, Nu: 5}
	got := st.CDF(0.5, 0.5)
	require.InDelta(t, 0.25, got, 0.02)
}

func TestStudentTCondInvRoundTrip(t *testing.T) {
	st := &StudentT{Rho: 0.3, Nu: 5}
	v := 0.6
	for _, p := range []float64{0.2, 0.5, 0.8} {
		u := st.CondInv(p, v)
		got := st.CondCDF(u, v)
		require.InDelta(t, p, got, 1e-4)
	}
}

func TestFitFromTauProducesValidFamily(t *testing.T) {
	for _, tau := range []float64{0.02, 0.6, -0.45, 0.25} {
		pc := FitFromTau(tau)
		require.NotNil(t, pc)
		switch pc.Family() {
		case FamilyGaussian, FamilyClayton, FamilyGumbel, FamilyStudentT:
		default:
			t.Fatalf("unexpected family for tau=%v", tau)
		}
	}
}
