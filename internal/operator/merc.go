package operator

import (
	"math"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/busstoptaktik/geodesy/internal/param"
)

// msfn and tsfn are the "m" and "t" auxiliary functions of Snyder's
// Mercator/LCC formulas (pj_msfn/pj_tsfn in proj.4), shared unchanged
// between both kernels.
func msfn(sinphi, cosphi, es float64) float64 {
	return cosphi / math.Sqrt(1-es*sinphi*sinphi)
}

func tsfn(phi, sinphi, e float64) float64 {
	sinphi *= e
	return math.Tan(0.5*(math.Pi/2-phi)) / math.Pow((1-sinphi)/(1+sinphi), 0.5*e)
}

// phi2 inverts tsfn by fixed-point iteration, converging to better
// than 1e-10 rad within 15
// iterations for any geodetic eccentricity.
func phi2(e, ts float64) (float64, error) {
	eth := e * 0.5
	phi := math.Pi/2 - 2*math.Atan(ts)
	for i := 0; i <= 15; i++ {
		con := e * math.Sin(phi)
		dphi := math.Pi/2 - 2*math.Atan(ts*math.Pow((1-con)/(1+con), eth)) - phi
		phi += dphi
		if math.Abs(dphi) < 1e-10 {
			return phi, nil
		}
	}
	return 0, errNoConvergence
}

var errNoConvergence = mercConvergenceErr{}

type mercConvergenceErr struct{}

func (mercConvergenceErr) Error() string { return "phi2 did not converge" }

// NewMerc constructs the (ellipsoidal or, for webmerc, forced-
// spherical) Mercator operator, generalized to the Kernel/Object
// contract and to accept lat_ts/k_0
// as alternative scale specifications.
func NewMerc(p *param.Parameters) (*Object, error) {
	return buildMerc(p, false)
}

// NewWebMerc constructs the WebMercator operator, which forces
// spherical development even on ellipsoidal input.
func NewWebMerc(p *param.Parameters) (*Object, error) {
	return buildMerc(p, true)
}

func buildMerc(p *param.Parameters, spherical bool) (*Object, error) {
	ell, err := p.Ellipsoid()
	if err != nil {
		return nil, err
	}
	lon0, err := p.Angle("lon_0", 0)
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
	k0, err := floatOr(p, "k_0", 1)
	if err != nil {
		return nil, err
	}
	if latTs, err := p.Angle("lat_ts", math.NaN()); err == nil && !math.IsNaN(latTs) {
		latTs = math.Abs(latTs)
		e := ell.E()
		if !spherical && e != 0 {
			k0 = msfn(math.Sin(latTs), math.Cos(latTs), ell.E2())
		} else {
			k0 = math.Cos(latTs)
		}
	}
	a := ell.A()
	e := ell.E()
	if spherical {
		e = 0
	}

	fwd := func(_ *Stack, pts coord.AnySet) (int, error) {
		fails := 0
		for i := 0; i < pts.Len(); i++ {
			v := pts.Get(i)
			if v.IsNaN() {
				fails++
				continue
			}
			lam := v[0] - lon0
			var x, y float64
			if e != 0 {
				x = k0 * lam
				y = -k0 * math.Log(tsfn(v[1], math.Sin(v[1]), e))
			} else {
				x = k0 * lam
				y = k0 * math.Log(math.Tan(math.Pi/4+0.5*v[1]))
			}
			pts.Set(i, coord.Tuple4[float64]{a*x + x0, a*y + y0, v[2], v[3]})
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
			x := (v[0] - x0) / a
			y := (v[1] - y0) / a
			var lam, phi float64
			var err error
			if e != 0 {
				phi, err = phi2(e, math.Exp(-y/k0))
				lam = x/k0 + lon0
			} else {
				lam = x/k0 + lon0
				phi = math.Pi/2 - 2*math.Atan(math.Exp(-y/k0))
			}
			if err != nil {
				fails++
				pts.Set(i, coord.NaN4[float64]())
				continue
			}
			pts.Set(i, coord.Tuple4[float64]{lam, phi, v[2], v[3]})
		}
		return fails, nil
	}
	name := "merc"
	if spherical {
		name = "webmerc"
	}
	return NewElementary(name, p, ell, fwd, inv)
}
