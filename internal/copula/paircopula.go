package copula

import (
	"math"

	"github.com/lifepath-sim/simcore/internal/rng"
)

// Family tags the four bivariate pair copula shapes the vine layer
// supports.
type Family int

const (
	FamilyGaussian Family = iota
	FamilyClayton
	FamilyGumbel
	FamilyStudentT
)

func (f Family) String() string {
	switch f {
	case FamilyGaussian:
		return "gaussian"
	case FamilyClayton:
		return "clayton"
	case FamilyGumbel:
		return "gumbel"
	case FamilyStudentT:
		return "student_t"
	default:
		return "unknown"
	}
}

// PairCopula is a bivariate copula fitted to one vine edge. Every family
// below provides CDF, PDF, conditional CDF C(u|v), and Simulate.
// CondInv (inverse of C(u|v) in u) backs the vine's transform
// path and is implementation plumbing not named directly by the interface above.
type PairCopula interface {
	Family() Family
	CDF(u, v float64) float64
	PDF(u, v float64) float64
	CondCDF(u, v float64) float64
	CondInv(p, v float64) float64
	Simulate(stream *rng.Stream) (u, v float64)
}

// SelectFamily picks a pair-copula family from Kendall's tau per the
// tail-dependence thresholds below.
func SelectFamily(tau float64) Family {
	switch {
	case math.Abs(tau) < 0.10:
		return FamilyGaussian
	case tau > 0.50:
		return FamilyClayton
	case tau < -0.30:
		return FamilyGumbel
	default:
		return FamilyStudentT
	}
}

// FitFromTau builds the pair copula of the selected family with
// parameters derived from Kendall's tau: rho = sin(pi*tau/2)
// for the Gaussian and Student-t families, theta_Clayton = 2*tau/(1-tau),
// theta_Gumbel = 1/(1-tau), and Student-t degrees of freedom fixed at the
// documented placeholder of 5.
func FitFromTau(tau float64) PairCopula {
	family := SelectFamily(tau)
	return FitFromTauFamily(tau, family)
}

// FitFromTauFamily builds a specific family's parameters from tau,
// bypassing SelectFamily — used when the vine construction has already
// chosen the family for an edge.
func FitFromTauFamily(tau float64, family Family) PairCopula {
	switch family {
	case FamilyGaussian:
		rho := math.Sin(math.Pi * tau / 2)
		return &Gaussian{Rho: clamp(rho, -0.999, 0.999)}
	case FamilyClayton:
		theta := 2 * tau / (1 - tau)
		if theta < 1e-6 {
			theta = 1e-6
		}
		return &Clayton{Theta: theta}
	case FamilyGumbel:
		// Gumbel captures upper-tail dependence only; it is selected
		// for tau < -0.30 (negative, lower-tail dependence), so it is
		// fit to |tau| and returned wrapped in Rotated180, which
		// reflects the copula back onto the edge's actual
		// (negatively dependent) pseudo-observations.
		theta := 1 / (1 - math.Abs(tau))
		if theta < 1 {
			theta = 1
		}
		g := &Gumbel{Theta: theta}
		if tau < 0 {
			return &Rotated180{Inner: g}
		}
		return g
	default:
		rho := math.Sin(math.Pi * tau / 2)
		return &StudentT{Rho: clamp(rho, -0.999, 0.999), Nu: 5}
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// ===================== Gaussian =====================

// Gaussian is the elliptical copula with dependence parameter Rho,
// selected for |tau| < 0.10 (weak/near-independent dependence).
type Gaussian struct{ Rho float64 }

func (g *Gaussian) Family() Family { return FamilyGaussian }

func (g *Gaussian) CDF(u, v float64) float64 {
	return bivariateNormalCDF(PhiInv(u), PhiInv(v), g.Rho)
}

func (g *Gaussian) PDF(u, v float64) float64 {
	x, y := PhiInv(u), PhiInv(v)
	rho := g.Rho
	r2 := rho * rho
	return 1.0 / math.Sqrt(1-r2) * math.Exp(-(r2*(x*x+y*y)-2*rho*x*y)/(2*(1-r2)))
}

func (g *Gaussian) CondCDF(u, v float64) float64 {
	x, y := PhiInv(u), PhiInv(v)
	return PhiCDF((x - g.Rho*y) / math.Sqrt(1-g.Rho*g.Rho))
}

func (g *Gaussian) CondInv(p, v float64) float64 {
	y := PhiInv(v)
	x := PhiInv(p)*math.Sqrt(1-g.Rho*g.Rho) + g.Rho*y
	return PhiCDF(x)
}

func (g *Gaussian) Simulate(stream *rng.Stream) (u, v float64) {
	v = stream.NextUniform()
	p := stream.NextUniform()
	u = g.CondInv(p, v)
	return
}

// ===================== Clayton =====================

// Clayton captures lower-tail dependence, selected for tau > 0.50.
type Clayton struct{ Theta float64 }

func (c *Clayton) Family() Family { return FamilyClayton }

func (c *Clayton) CDF(u, v float64) float64 {
	theta := c.Theta
	inner := math.Pow(u, -theta) + math.Pow(v, -theta) - 1
	if inner < 1e-12 {
		inner = 1e-12
	}
	return math.Pow(inner, -1/theta)
}

func (c *Clayton) PDF(u, v float64) float64 {
	theta := c.Theta
	inner := math.Pow(u, -theta) + math.Pow(v, -theta) - 1
	if inner < 1e-12 {
		inner = 1e-12
	}
	return (1 + theta) * math.Pow(u*v, -theta-1) * math.Pow(inner, -1/theta-2)
}

func (c *Clayton) CondCDF(u, v float64) float64 {
	theta := c.Theta
	inner := math.Pow(u, -theta) + math.Pow(v, -theta) - 1
	if inner < 1e-12 {
		inner = 1e-12
	}
	return math.Pow(v, -theta-1) * math.Pow(inner, -1/theta-1)
}

func (c *Clayton) CondInv(p, v float64) float64 {
	theta := c.Theta
	base := math.Pow(p, -theta/(1+theta)) - 1
	inner := base*math.Pow(v, -theta) + 1
	if inner < 1e-12 {
		inner = 1e-12
	}
	return math.Pow(inner, -1/theta)
}

func (c *Clayton) Simulate(stream *rng.Stream) (u, v float64) {
	v = stream.NextUniform()
	p := stream.NextUniform()
	u = c.CondInv(p, v)
	return
}

// ===================== Gumbel =====================

// Gumbel captures upper-tail dependence, theta >= 1.
type Gumbel struct{ Theta float64 }

func (g *Gumbel) Family() Family { return FamilyGumbel }

func gumbelA(u, v, theta float64) (x, y, a float64) {
	x = -math.Log(u)
	y = -math.Log(v)
	a = math.Pow(math.Pow(x, theta)+math.Pow(y, theta), 1/theta)
	return
}

func (g *Gumbel) CDF(u, v float64) float64 {
	_, _, a := gumbelA(u, v, g.Theta)
	return math.Exp(-a)
}

func (g *Gumbel) PDF(u, v float64) float64 {
	theta := g.Theta
	x, y, a := gumbelA(u, v, theta)
	c := math.Exp(-a)
	return c / (u * v) * math.Pow(x*y, theta-1) * math.Pow(a, 1-2*theta) * (a + theta - 1)
}

// CondCDF returns C(u|v) = dC/dv.
func (g *Gumbel) CondCDF(u, v float64) float64 {
	theta := g.Theta
	_, y, a := gumbelA(u, v, theta)
	c := math.Exp(-a)
	return c * math.Pow(a, 1-theta) * math.Pow(y, theta-1) / v
}

// CondInv inverts CondCDF in u by bisection — Gumbel has no closed-form
// conditional inverse, so rather than approximate the underlying
// dependence, we invert numerically.
func (g *Gumbel) CondInv(p, v float64) float64 {
	lo, hi := 1e-9, 1-1e-9
	for i := 0; i < 60; i++ {
		mid := 0.5 * (lo + hi)
		if g.CondCDF(mid, v) < p {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi)
}

// Simulate uses the Marshall-Olkin algorithm for Archimedean copulas: draw
// a positive stable frailty S via the Chambers-Mallows-Stuck method, then
// two independent Exp(1) variates E1, E2, and map through the Gumbel
// generator's inverse phi^-1(s) = exp(-s^(1/theta)).
func (g *Gumbel) Simulate(stream *rng.Stream) (u, v float64) {
	theta := g.Theta
	alpha := 1 / theta

	thetaAngle := stream.NextUniform()*math.Pi - math.Pi/2
	w := -math.Log(stream.NextUniform())

	stable := math.Sin(alpha*thetaAngle) / math.Pow(math.Cos(thetaAngle), 1/alpha) *
		math.Pow(math.Cos(thetaAngle-alpha*thetaAngle)/w, (1-alpha)/alpha)
	if stable < 1e-12 {
		stable = 1e-12
	}

	e1 := -math.Log(stream.NextUniform())
	e2 := -math.Log(stream.NextUniform())

	u = math.Exp(-math.Pow(e1/stable, 1/theta))
	v = math.Exp(-math.Pow(e2/stable, 1/theta))
	return
}

// Rotated180 wraps a PairCopula fitted on upper-tail dependence to model
// its survival (lower-tail) counterpart: C_hat(u,v) = u+v-1+C(1-u,1-v).
// Gumbel only models positive (upper-tail) dependence, so a negative-tau
// edge is fit to |tau| and wrapped in Rotated180 to reflect it back onto
// the original, negatively-dependent pseudo-observations.
type Rotated180 struct{ Inner PairCopula }

func (r *Rotated180) Family() Family { return r.Inner.Family() }

func (r *Rotated180) CDF(u, v float64) float64 {
	return u + v - 1 + r.Inner.CDF(1-u, 1-v)
}

func (r *Rotated180) PDF(u, v float64) float64 {
	return r.Inner.PDF(1-u, 1-v)
}

// CondCDF returns C_hat(u|v) = 1 - C(1-u|1-v), the conditional CDF of the
// 180-degree-rotated copula.
func (r *Rotated180) CondCDF(u, v float64) float64 {
	return 1 - r.Inner.CondCDF(1-u, 1-v)
}

// CondInv inverts CondCDF: solving C_hat(u|v)=p reduces to
// C(1-u|1-v) = 1-p, so u = 1 - Inner.CondInv(1-p, 1-v).
func (r *Rotated180) CondInv(p, v float64) float64 {
	return 1 - r.Inner.CondInv(1-p, 1-v)
}

func (r *Rotated180) Simulate(stream *rng.Stream) (u, v float64) {
	iu, iv := r.Inner.Simulate(stream)
	return 1 - iu, 1 - iv
}

// ===================== Student-t =====================

// StudentT captures symmetric fat-tailed dependence with fixed degrees of
// freedom Nu=5 (documented placeholder for MLE).
type StudentT struct {
	Rho float64
	Nu  float64
}

func (t *StudentT) Family() Family { return FamilyStudentT }

// tQuantile inverts studentTCDF by bisection (no closed form for general
// nu); used to map pseudo-uniforms to the t-marginal scale.
func tQuantile(p, nu float64) float64 {
	if p <= 0 {
		return math.Inf(-1)
	}
	if p >= 1 {
		return math.Inf(1)
	}
	lo, hi := -1e4, 1e4
	for i := 0; i < 80; i++ {
		mid := 0.5 * (lo + hi)
		if studentTCDF(mid, nu) < p {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi)
}

func studentTPDF1D(x, nu float64) float64 {
	return math.Exp(logGamma((nu+1)/2)-logGamma(nu/2)) / math.Sqrt(nu*math.Pi) *
		math.Pow(1+x*x/nu, -(nu+1)/2)
}

// CDF evaluates the bivariate Student-t CDF via the exact conditional
// decomposition X|Y=y ~ scaled-t(nu+1), integrated numerically over y
// with a fixed Gauss-Legendre rule.
func (t *StudentT) CDF(u, v float64) float64 {
	nu := t.Nu
	rho := t.Rho
	t1 := tQuantile(u, nu)
	t2 := tQuantile(v, nu)

	integrand := func(y float64) float64 {
		scale := math.Sqrt((1 - rho*rho) * (nu + y*y) / (nu + 1))
		condArg := (t1 - rho*y) / scale
		return studentTCDF(condArg, nu+1) * studentTPDF1D(y, nu)
	}
	const bound = 60.0
	lower := -bound
	if t2 < lower {
		return 0
	}
	upper := t2
	if upper > bound {
		upper = bound
	}
	return integrateGL16(integrand, lower, upper)
}

func (t *StudentT) PDF(u, v float64) float64 {
	nu := t.Nu
	rho := t.Rho
	x, y := tQuantile(u, nu), tQuantile(v, nu)
	numer := math.Exp(logGamma((nu+2)/2) + logGamma(nu/2) - 2*logGamma((nu+1)/2))
	density := numer / (2 * math.Pi * math.Sqrt(1-rho*rho)) *
		math.Pow(1+(x*x-2*rho*x*y+y*y)/(nu*(1-rho*rho)), -(nu+2)/2)
	marginalX := studentTPDF1D(x, nu)
	marginalY := studentTPDF1D(y, nu)
	// c(u,v) = f(x,y) / (f_X(x) f_Y(y)), chain rule for the copula density.
	return density / (marginalX * marginalY)
}

func (t *StudentT) CondCDF(u, v float64) float64 {
	nu := t.Nu
	rho := t.Rho
	x, y := tQuantile(u, nu), tQuantile(v, nu)
	scale := math.Sqrt((1 - rho*rho) * (nu + y*y) / (nu + 1))
	return studentTCDF((x-rho*y)/scale, nu+1)
}

func (t *StudentT) CondInv(p, v float64) float64 {
	nu := t.Nu
	rho := t.Rho
	y := tQuantile(v, nu)
	scale := math.Sqrt((1 - rho*rho) * (nu + y*y) / (nu + 1))
	x := tQuantile(p, nu+1)*scale + rho*y
	return tCDFtoU(x, nu)
}

func tCDFtoU(x, nu float64) float64 { return studentTCDF(x, nu) }

func (t *StudentT) Simulate(stream *rng.Stream) (u, v float64) {
	v = stream.NextUniform()
	p := stream.NextUniform()
	u = t.CondInv(p, v)
	return
}
