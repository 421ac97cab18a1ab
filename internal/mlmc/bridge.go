package mlmc

import (
	"math"

	"github.com/lifepath-sim/simcore/internal/rng"
)

// BrownianIncrements draws n independent N(0,1) increments for the
// coarsest level of a correction pair.
func BrownianIncrements(stream *rng.Stream, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = stream.NextNormal(0, 1)
	}
	return out
}

// RefineBridge doubles a coarse increment sequence into a fine one via
// recursive Brownian-bridge midpoint insertion: each coarse
// increment spanning [start,end) with cumulative value x_R - x_L is
// split at its midpoint using a Gaussian of mean (x_L+x_R)/2 and
// variance derived from the sub-interval lengths, so the coarse path's
// endpoints are preserved exactly while the fine path adds detail.
func RefineBridge(stream *rng.Stream, coarse []float64, dt float64) []float64 {
	fine := make([]float64, 2*len(coarse))
	cum := 0.0
	for i, inc := range coarse {
		left := cum
		cum += inc
		right := cum
		mid := bridgeMidpoint(stream, left, right, dt)
		fine[2*i] = mid - left
		fine[2*i+1] = right - mid
	}
	return fine
}

// bridgeMidpoint draws the Brownian bridge's midpoint value given the
// path values at the interval's start and end, dt apart. The standard
// bridge midpoint distribution, conditioned on both endpoints, has
// variance (tm-t1)(t2-tm)/(t2-t1); for the evenly spaced bisection used
// here that reduces to dt/4.
func bridgeMidpoint(stream *rng.Stream, left, right, dt float64) float64 {
	variance := dt / 4
	mean := (left + right) / 2
	return mean + stream.NextNormal(0, math.Sqrt(variance))
}

// QMCBrownianIncrements maps a scrambled-Sobol point (one uniform per
// time step) through Phi^-1 to produce Brownian increments, for when
// QMC drives MLMC.
func QMCBrownianIncrements(point []float64, phiInv func(float64) float64) []float64 {
	out := make([]float64, len(point))
	for i, u := range point {
		out[i] = phiInv(u)
	}
	return out
}
