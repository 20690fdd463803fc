package operator

import (
	"math"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/busstoptaktik/geodesy/internal/gerr"
	"github.com/busstoptaktik/geodesy/internal/param"
)

// NewLCC constructs the Lambert Conformal Conic operator: one- or
// two-standard-parallel forms, dispatched on |lat_1 - lat_2| into
// tangent or secant cases. Both the forward projection and its
// closed-form inverse are implemented, since the operator contract
// requires a real inverse kernel whenever one is needed by a
// pipeline's effective direction.
func NewLCC(p *param.Parameters) (*Object, error) {
	ell, err := p.Ellipsoid()
	if err != nil {
		return nil, err
	}
	phi1, err := p.Angle("lat_1", 0)
	if err != nil {
		return nil, err
	}
	var phi0 float64
	phi2Val, hasLat2 := 0.0, p.Has("lat_2")
	if hasLat2 {
		phi2Val, err = p.Angle("lat_2", 0)
		if err != nil {
			return nil, err
		}
	}
	if !hasLat2 {
		phi2Val = phi1
		if !p.Has("lat_0") {
			phi0 = phi1
		}
	}
	if p.Has("lat_0") {
		phi0, err = p.Angle("lat_0", 0)
		if err != nil {
			return nil, err
		}
	}
	if math.Abs(phi1+phi2Val) <= 1e-10 {
		return nil, gerr.New(gerr.Construction, "lcc: lat_1 and lat_2 cannot be symmetric about the equator")
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

	e2 := ell.E2()
	e := ell.E()
	ellips := e2 != 0

	sinphi := math.Sin(phi1)
	n := sinphi
	cosphi := math.Cos(phi1)
	secant := math.Abs(phi1-phi2Val) >= 1e-10

	var c, rho0 float64
	if ellips {
		m1 := msfn(sinphi, cosphi, e2)
		ml1 := tsfn(phi1, sinphi, e)
		if secant {
			sinphi2 := math.Sin(phi2Val)
			n = math.Log(m1/msfn(sinphi2, math.Cos(phi2Val), e2)) /
				math.Log(ml1/tsfn(phi2Val, sinphi2, e))
		}
		c = m1 * math.Pow(ml1, -n) / n
		if math.Abs(math.Abs(phi0)-math.Pi/2) < 1e-10 {
			rho0 = 0
		} else {
			rho0 = c * math.Pow(tsfn(phi0, math.Sin(phi0), e), n)
		}
	} else {
		if secant {
			n = math.Log(cosphi/math.Cos(phi2Val)) /
				math.Log(math.Tan(math.Pi/4+0.5*phi2Val)/math.Tan(math.Pi/4+0.5*phi1))
		}
		c = cosphi * math.Pow(math.Tan(math.Pi/4+0.5*phi1), n) / n
		if math.Abs(math.Abs(phi0)-math.Pi/2) < 1e-10 {
			rho0 = 0
		} else {
			rho0 = c * math.Pow(math.Tan(math.Pi/4+0.5*phi0), -n)
		}
	}

	fwd := func(_ *Stack, pts coord.AnySet) (int, error) {
		fails := 0
		for i := 0; i < pts.Len(); i++ {
			v := pts.Get(i)
			if v.IsNaN() {
				fails++
				continue
			}
			lam, phi := v[0]-lon0, v[1]
			var rho float64
			if math.Abs(math.Abs(phi)-math.Pi/2) < 1e-10 {
				if phi*n <= 0 {
					fails++
					pts.Set(i, coord.NaN4[float64]())
					continue
				}
			} else if ellips {
				rho = c * math.Pow(tsfn(phi, math.Sin(phi), e), n)
			} else {
				rho = c * math.Pow(math.Tan(math.Pi/4+0.5*phi), -n)
			}
			lamN := lam * n
			x := k0 * (rho * math.Sin(lamN))
			y := k0 * (rho0 - rho*math.Cos(lamN))
			pts.Set(i, coord.Tuple4[float64]{x + x0, y + y0, v[2], v[3]})
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
			x := (v[0] - x0) / k0
			y := (v[1] - y0) / k0
			dy := rho0 - y
			rho := math.Hypot(x, dy)
			if n < 0 {
				rho = -rho
			}
			theta := math.Atan2(x, dy)
			if n < 0 {
				theta = math.Atan2(-x, -dy)
			}
			lam := theta/n + lon0

			var phi float64
			if rho == 0 {
				phi = math.Copysign(math.Pi/2, n)
			} else if ellips {
				ts := math.Pow(rho/c, 1/n)
				ph, err := phi2(e, ts)
				if err != nil {
					fails++
					pts.Set(i, coord.NaN4[float64]())
					continue
				}
				phi = ph
			} else {
				ts := math.Pow(rho/c, 1/n)
				phi = 2*math.Atan(ts) - math.Pi/2
			}
			pts.Set(i, coord.Tuple4[float64]{lam, phi, v[2], v[3]})
		}
		return fails, nil
	}
	return NewElementary("lcc", p, ell, fwd, inv)
}
