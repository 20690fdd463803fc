package operator

import (
	"math"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/busstoptaktik/geodesy/internal/ellipsoid"
	"github.com/busstoptaktik/geodesy/internal/param"
)

// NewMolodensky constructs the Molodensky datum-shift operator: a
// direct geographic-to-geographic approximation to a Helmert shift
// via datum-difference
// parameters da, df (or a target ellipsoid) and translations dx, dy,
// dz. abridged=true drops the height-dependent terms of the full
// formula.
func NewMolodensky(p *param.Parameters) (*Object, error) {
	ell, err := p.Ellipsoid()
	if err != nil {
		return nil, err
	}
	da, err := floatOr(p, "da", 0)
	if err != nil {
		return nil, err
	}
	df, err := floatOr(p, "df", 0)
	if err != nil {
		return nil, err
	}
	if p.Has("ellps_to") {
		target, ok := ellipsoid.ByName(p.String("ellps_to", ""))
		if ok {
			da = target.A() - ell.A()
			df = target.F() - ell.F()
		}
	}
	dx, err := floatOr(p, "dx", 0)
	if err != nil {
		return nil, err
	}
	dy, err := floatOr(p, "dy", 0)
	if err != nil {
		return nil, err
	}
	dz, err := floatOr(p, "dz", 0)
	if err != nil {
		return nil, err
	}
	abridged := p.Bool("abridged")

	fwd := func(_ *Stack, pts coord.AnySet) (int, error) {
		return applyMolodensky(ell, da, df, dx, dy, dz, abridged, pts, false), nil
	}
	inv := func(_ *Stack, pts coord.AnySet) (int, error) {
		return applyMolodensky(ell, da, df, dx, dy, dz, abridged, pts, true), nil
	}
	return NewElementary("molodensky", p, ell, fwd, inv)
}

func applyMolodensky(ell ellipsoid.Ellipsoid, da, df, dx, dy, dz float64, abridged bool, pts coord.AnySet, inverse bool) int {
	if inverse {
		da, df, dx, dy, dz = -da, -df, -dx, -dy, -dz
	}
	fails := 0
	f := ell.F()
	e2 := ell.E2()
	a := ell.A()
	for i := 0; i < pts.Len(); i++ {
		v := pts.Get(i)
		if v.IsNaN() {
			fails++
			continue
		}
		lam, phi, h := v[0], v[1], v[2]
		sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
		sinLam, cosLam := math.Sin(lam), math.Cos(lam)
		M := ell.RadiusOfCurvatureMeridian(phi)
		N := ell.RadiusOfCurvaturePrimeVertical(phi)

		dPhi := (-dx*sinPhi*cosLam - dy*sinPhi*sinLam + dz*cosPhi +
			da*(N*e2*sinPhi*cosPhi)/a +
			df*(M*a/ell.B()+N*ell.B()/a)*sinPhi*cosPhi) / (M + h)

		dLam := (-dx*sinLam + dy*cosLam) / ((N + h) * cosPhi)

		var dH float64
		if abridged {
			// the abridged form drops the height terms and folds da and
			// df into the single term a*df + f*da.
			adf := a*df + f*da
			dPhi = (-dx*sinPhi*cosLam - dy*sinPhi*sinLam + dz*cosPhi + 2*adf*sinPhi*cosPhi) / M
			dLam = (-dx*sinLam + dy*cosLam) / (N * cosPhi)
			dH = dx*cosPhi*cosLam + dy*cosPhi*sinLam + dz*sinPhi + adf*sinPhi*sinPhi - da
		} else {
			dH = dx*cosPhi*cosLam + dy*cosPhi*sinLam + dz*sinPhi - da*a/N + df*N*(1-f)*sinPhi*sinPhi
		}

		pts.Set(i, coord.Tuple4[float64]{lam + dLam, phi + dPhi, h + dH, v[3]})
	}
	return fails
}
