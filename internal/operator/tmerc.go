package operator

import (
	"math"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/busstoptaktik/geodesy/internal/ellipsoid"
	"github.com/busstoptaktik/geodesy/internal/gerr"
	"github.com/busstoptaktik/geodesy/internal/param"
)

// krugerAlpha and krugerBeta are the sixth-order-in-n Krüger series
// coefficients for the transverse Mercator projection (Karney 2011,
// "Transverse Mercator with an accuracy of a few nanometers", eq.
// 35/36), used respectively by the forward and inverse kernels.
func krugerAlpha(n float64) [6]float64 {
	n2 := n * n
	n3 := n2 * n
	n4 := n3 * n
	n5 := n4 * n
	n6 := n5 * n
	return [6]float64{
		0.5*n - 2.0/3*n2 + 5.0/16*n3 + 41.0/180*n4 - 127.0/288*n5 + 7891.0/37800*n6,
		13.0/48*n2 - 3.0/5*n3 + 557.0/1440*n4 + 281.0/630*n5 - 1983433.0/1935360*n6,
		61.0/240*n3 - 103.0/140*n4 + 15061.0/26880*n5 + 167603.0/181440*n6,
		49561.0/161280*n4 - 179.0/168*n5 + 6601661.0/7257600*n6,
		34729.0/80640*n5 - 3418889.0/1995840*n6,
		212378941.0 / 319334400 * n6,
	}
}

func krugerBeta(n float64) [6]float64 {
	n2 := n * n
	n3 := n2 * n
	n4 := n3 * n
	n5 := n4 * n
	n6 := n5 * n
	return [6]float64{
		0.5*n - 2.0/3*n2 + 37.0/96*n3 - 1.0/360*n4 - 81.0/512*n5 + 96199.0/604800*n6,
		1.0/48*n2 + 1.0/15*n3 - 437.0/1440*n4 + 46.0/105*n5 - 1118711.0/3870720*n6,
		17.0/480*n3 - 37.0/840*n4 - 209.0/4480*n5 + 5569.0/90720*n6,
		4397.0/161280*n4 - 11.0/504*n5 - 830251.0/7257600*n6,
		4583.0/161280*n5 - 108847.0/3991680*n6,
		20648693.0 / 638668800 * n6,
	}
}

// tmercState holds the quantities derived once per operator
// construction: third flattening, the Krüger series, and the conformal
// scale radius A.
type tmercState struct {
	ell    ellipsoid.Ellipsoid
	n      float64
	alpha  [6]float64
	beta   [6]float64
	A      float64
	lon0   float64
	k0     float64
	x0, y0 float64
}

func newTmercState(ell ellipsoid.Ellipsoid, lon0, k0, x0, y0 float64) tmercState {
	n := ell.N()
	n2 := n * n
	A := ell.A() / (1 + n) * (1 + n2/4 + n2*n2/64 + n2*n2*n2/256)
	return tmercState{ell: ell, n: n, alpha: krugerAlpha(n), beta: krugerBeta(n), A: A, lon0: lon0, k0: k0, x0: x0, y0: y0}
}

func (s tmercState) forward(lam, phi float64) (x, y float64) {
	lam -= s.lon0
	e := s.ell.E()
	tau := math.Tan(phi)
	sigma := math.Sinh(e * math.Atanh(e*tau/math.Hypot(1, tau)))
	tauP := tau*math.Hypot(1, sigma) - sigma*math.Hypot(1, tau)

	xiP := math.Atan2(tauP, math.Cos(lam))
	etaP := math.Asinh(math.Sin(lam) / math.Hypot(tauP, math.Cos(lam)))

	xi, eta := xiP, etaP
	for j := 1; j <= 6; j++ {
		jf := float64(j)
		xi += s.alpha[j-1] * math.Sin(2*jf*xiP) * math.Cosh(2*jf*etaP)
		eta += s.alpha[j-1] * math.Cos(2*jf*xiP) * math.Sinh(2*jf*etaP)
	}
	x = s.k0*s.A*eta + s.x0
	y = s.k0*s.A*xi + s.y0
	return
}

func (s tmercState) inverse(x, y float64) (lam, phi float64) {
	xi := (y - s.y0) / (s.k0 * s.A)
	eta := (x - s.x0) / (s.k0 * s.A)

	xiP, etaP := xi, eta
	for j := 1; j <= 6; j++ {
		jf := float64(j)
		xiP -= s.beta[j-1] * math.Sin(2*jf*xi) * math.Cosh(2*jf*eta)
		etaP -= s.beta[j-1] * math.Cos(2*jf*xi) * math.Sinh(2*jf*eta)
	}

	tauP := math.Sin(xiP) / math.Hypot(math.Sinh(etaP), math.Cos(xiP))
	tau := tauToPhi(tauP, s.ell.E2())
	phi = math.Atan(tau)
	lam = math.Atan2(math.Sinh(etaP), math.Cos(xiP)) + s.lon0
	return
}

// tauToPhi inverts tau' = sinh(asinh(tau) - e*atanh(e*tau/hypot(1,tau)))
// for tau by Newton iteration, converging in a handful of steps for any
// geodetic eccentricity. Generalized from isometric-latitude inversion to
// the Krüger conformal-latitude inversion needed by tmerc.
func tauToPhi(tauP, e2 float64) float64 {
	e := math.Sqrt(e2)
	tau := tauP
	for i := 0; i < 10; i++ {
		sigma := math.Sinh(e * math.Atanh(e*tau/math.Hypot(1, tau)))
		tauI := tau*math.Hypot(1, sigma) - sigma*math.Hypot(1, tau)
		dtauI := (1 - e2) * math.Hypot(1, tauI) * math.Hypot(1, tau) / (1 + (1-e2)*tau*tau)
		dtau := (tauP - tauI) / dtauI
		tau += dtau
		if math.Abs(dtau) < 1e-14 {
			break
		}
	}
	return tau
}

// NewTmerc constructs the transverse Mercator operator, using the
// Krüger n-series for both
// directions.
func NewTmerc(p *param.Parameters) (*Object, error) {
	ell, err := p.Ellipsoid()
	if err != nil {
		return nil, err
	}
	lon0, err := p.Angle("lon_0", 0)
	if err != nil {
		return nil, err
	}
	k0, err := floatOr(p, "k_0", 1)
	if err != nil {
		return nil, err
	}
	x0, err := floatOr(p, "x_0", 0)
	if err != nil {
		return nil, err
	}
	y0, err := floatOr(p, "y_0", 0)
	if err != nil {
		return nil, err
	}
	return buildTmerc(p, ell, lon0, k0, x0, y0)
}

// NewUTM constructs the Universal Transverse Mercator operator as a
// parameter rewrite in front of tmerc: utm zone=z is tmerc with
// lon_0 = 6z-183, k_0=0.9996, x_0=500000, y_0=0 (N) or 10000000 (S).
// Generalized from a name switch to a
// parameter-rewriting constructor.
func NewUTM(p *param.Parameters) (*Object, error) {
	ell, err := p.Ellipsoid()
	if err != nil {
		return nil, err
	}
	zone, err := p.Int("zone", 0)
	if err != nil {
		return nil, err
	}
	if zone < 1 || zone > 60 {
		return nil, gerr.AtParam(gerr.Construction, -1, "zone", "utm zone must be in 1..60")
	}
	south := p.Bool("south")
	lon0 := (6*float64(zone) - 183) * math.Pi / 180
	y0 := 0.0
	if south {
		y0 = 10000000
	}
	return buildTmerc(p, ell, lon0, 0.9996, 500000, y0)
}

func buildTmerc(p *param.Parameters, ell ellipsoid.Ellipsoid, lon0, k0, x0, y0 float64) (*Object, error) {
	st := newTmercState(ell, lon0, k0, x0, y0)
	fwd := func(_ *Stack, pts coord.AnySet) (int, error) {
		fails := 0
		for i := 0; i < pts.Len(); i++ {
			v := pts.Get(i)
			if v.IsNaN() {
				fails++
				continue
			}
			x, y := st.forward(v[0], v[1])
			pts.Set(i, coord.Tuple4[float64]{x, y, v[2], v[3]})
		}
		return fails, nil
	}
	inv := func(_ *Stack, pts coord.AnySet) (int, error) {
		fails := 0
		for i := 0; i < pts.Len(); i++ {
			v := pts.Get(i)
			if v.IsNaN() {
				fails++
				continue
			}
			lam, phi := st.inverse(v[0], v[1])
			pts.Set(i, coord.Tuple4[float64]{lam, phi, v[2], v[3]})
		}
		return fails, nil
	}
	return NewElementary("tmerc", p, ell, fwd, inv)
}
