package operator

import (
	"math"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/busstoptaktik/geodesy/internal/ellipsoid"
	"github.com/busstoptaktik/geodesy/internal/gerr"
	"github.com/busstoptaktik/geodesy/internal/param"
)

// NewCart constructs the geographic<->geocentric Cartesian operator.
// Forward is closed form; inverse is
// the Bowring (1976) iteration, which converges in at most three
// iterations at geodetic heights.
//
// The forward/inverse pair here plays the same role
// as a Projection's fwd/inv translator, generalized to a full 3-space
// transform instead of a plane projection.
func NewCart(p *param.Parameters) (*Object, error) {
	ell, err := p.Ellipsoid()
	if err != nil {
		return nil, err
	}
	if ell.Ay() != ell.A() {
		return nil, gerr.New(gerr.Construction, "cart: triaxial ellipsoids (ay != a) are not supported by any in-scope kernel")
	}
	fwd := func(_ *Stack, pts coord.AnySet) (int, error) {
		fails := 0
		for i := 0; i < pts.Len(); i++ {
			v := pts.Get(i)
			if v.IsNaN() {
				fails++
				continue
			}
			X, Y, Z := geographicToCartesian(ell, v[0], v[1], v[2])
			pts.Set(i, coord.Tuple4[float64]{X, Y, Z, v[3]})
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
			lam, phi, h, err := cartesianToGeographic(ell, v[0], v[1], v[2])
			if err != nil {
				fails++
				pts.Set(i, coord.NaN4[float64]())
				continue
			}
			pts.Set(i, coord.Tuple4[float64]{lam, phi, h, v[3]})
		}
		return fails, nil
	}
	return NewElementary("cart", p, ell, fwd, inv)
}

func geographicToCartesian(ell ellipsoid.Ellipsoid, lam, phi, h float64) (x, y, z float64) {
	N := ell.RadiusOfCurvaturePrimeVertical(phi)
	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
	sinLam, cosLam := math.Sin(lam), math.Cos(lam)
	x = (N + h) * cosPhi * cosLam
	y = (N + h) * cosPhi * sinLam
	z = (N*(1-ell.E2()) + h) * sinPhi
	return
}

// cartesianToGeographic implements Bowring's 1976 iterative inverse.
func cartesianToGeographic(ell ellipsoid.Ellipsoid, x, y, z float64) (lam, phi, h float64, err error) {
	p := math.Hypot(x, y)
	if p == 0 {
		// on the polar axis: longitude is undefined, conventionally 0.
		phi = math.Copysign(math.Pi/2, z)
		h = math.Abs(z) - ell.B()
		return 0, phi, h, nil
	}
	lam = math.Atan2(y, x)
	e2 := ell.E2()
	phi = math.Atan2(z, p*(1-e2))
	for i := 0; i < 10; i++ {
		N := ell.RadiusOfCurvaturePrimeVertical(phi)
		hNew := p/math.Cos(phi) - N
		phiNew := math.Atan2(z, p*(1-e2*N/(N+hNew)))
		delta := math.Abs(phiNew - phi)
		phi = phiNew
		h = hNew
		if delta < 1e-13 {
			break
		}
		if i == 9 {
			return 0, 0, 0, gerr.New(gerr.Execution, "cart: inverse iteration did not converge")
		}
	}
	return lam, phi, h, nil
}
