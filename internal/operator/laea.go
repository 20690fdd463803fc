package operator

import (
	"math"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/busstoptaktik/geodesy/internal/ellipsoid"
	"github.com/busstoptaktik/geodesy/internal/param"
)

// NewLAEA constructs the Lambert Azimuthal Equal-Area operator:
// authalic latitude, computed by
// series via internal/ellipsoid (not a closed form), feeds a spherical
// azimuthal equal-area formula of the oblique, equatorial or polar
// aspect, rescaled by Snyder's factor D, which together reproduces the
// ellipsoidal case to the accuracy of Snyder's published tables.
func NewLAEA(p *param.Parameters) (*Object, error) {
	ell, err := p.Ellipsoid()
	if err != nil {
		return nil, err
	}
	lon0, err := p.Angle("lon_0", 0)
	if err != nil {
		return nil, err
	}
	lat0, err := p.Angle("lat_0", 0)
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

	Rq := authalicRadius(ell)
	beta0 := ell.AuthalicLatitude(lat0)
	sinBeta0, cosBeta0 := math.Sin(beta0), math.Cos(beta0)
	// D makes the scale at the origin equal in every direction; it is 1
	// in the polar aspect.
	D := 1.0
	if cosBeta0 > 1e-12 {
		D = ell.A() * msfn(math.Sin(lat0), math.Cos(lat0), ell.E2()) / (Rq * cosBeta0)
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
			beta := ell.AuthalicLatitude(v[1])
			sinBeta, cosBeta := math.Sin(beta), math.Cos(beta)
			cosLam := math.Cos(lam)
			denomArg := 1 + sinBeta0*sinBeta + cosBeta0*cosBeta*cosLam
			if denomArg <= 0 {
				fails++
				pts.Set(i, coord.NaN4[float64]())
				continue
			}
			k := Rq * math.Sqrt(2/denomArg)
			x := k * D * cosBeta * math.Sin(lam)
			y := k / D * (cosBeta0*sinBeta - sinBeta0*cosBeta*cosLam)
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
			x, y := v[0]-x0, v[1]-y0
			rho := math.Hypot(x/D, D*y)
			if rho < 1e-12 {
				pts.Set(i, coord.Tuple4[float64]{lon0, lat0, v[2], v[3]})
				continue
			}
			c := 2 * math.Asin(rho/(2*Rq))
			sinC, cosC := math.Sin(c), math.Cos(c)
			beta := math.Asin(cosC*sinBeta0 + D*y*sinC*cosBeta0/rho)
			lam := lon0 + math.Atan2(x*sinC, D*rho*cosBeta0*cosC-D*D*y*sinBeta0*sinC)
			phi := authalicToGeographic(ell, beta)
			pts.Set(i, coord.Tuple4[float64]{lam, phi, v[2], v[3]})
		}
		return fails, nil
	}
	return NewElementary("laea", p, ell, fwd, inv)
}

// authalicRadius returns the radius of a sphere with the same surface
// area as the ellipsoid, Rq = a*sqrt(qp/2) in Snyder's notation, with
// qp taken from Snyder's closed form (not from the authalic-latitude
// series).
func authalicRadius(ell ellipsoid.Ellipsoid) float64 {
	e2 := ell.E2()
	if e2 == 0 {
		return ell.A()
	}
	e := math.Sqrt(e2)
	qp := (1 - e2) * (1/(1-e2) - (1/(2*e))*math.Log((1-e)/(1+e)))
	return ell.A() * math.Sqrt(qp/2)
}

// authalicToGeographic inverts Ellipsoid.AuthalicLatitude by Newton
// iteration on the series itself, since the series has no closed-form
// inverse.
func authalicToGeographic(ell ellipsoid.Ellipsoid, beta float64) float64 {
	phi := beta
	for i := 0; i < 8; i++ {
		f := ell.AuthalicLatitude(phi) - beta
		const h = 1e-6
		df := (ell.AuthalicLatitude(phi+h) - ell.AuthalicLatitude(phi-h)) / (2 * h)
		if df == 0 {
			break
		}
		delta := f / df
		phi -= delta
		if math.Abs(delta) < 1e-12 {
			break
		}
	}
	return phi
}
