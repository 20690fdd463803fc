package operator

import (
	"math"
	"strings"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/busstoptaktik/geodesy/internal/ellipsoid"
	"github.com/busstoptaktik/geodesy/internal/gerr"
	"github.com/busstoptaktik/geodesy/internal/param"
)

// NewLatitude constructs the auxiliary-latitude conversion operator:
// kind=rectifying|conformal|
// authalic|parametric|geocentric selects which of
// internal/ellipsoid's series or closed forms to apply to the second
// (phi) component of every point. The inverse runs the conversion in
// the opposite sense.
func NewLatitude(p *param.Parameters) (*Object, error) {
	ell, err := p.Ellipsoid()
	if err != nil {
		return nil, err
	}
	kind := strings.ToLower(p.String("kind", ""))

	var toAux, toGeo func(phi float64) float64
	switch kind {
	case "rectifying":
		toAux = ell.RectifyingLatitude
		toGeo = func(mu float64) float64 { return rectifyingToGeographic(ell, mu) }
	case "conformal":
		toAux = ell.ConformalLatitude
		toGeo = func(chi float64) float64 { return conformalToGeographic(ell, chi) }
	case "authalic":
		toAux = ell.AuthalicLatitude
		toGeo = func(beta float64) float64 { return authalicToGeographic(ell, beta) }
	case "parametric":
		toAux = ell.ParametricLatitude
		toGeo = func(beta float64) float64 { return parametricToGeographic(ell, beta) }
	case "geocentric":
		toAux = ell.GeocentricLatitude
		toGeo = func(psi float64) float64 { return geocentricToGeographic(ell, psi) }
	default:
		return nil, gerr.AtParam(gerr.Construction, -1, "kind",
			"must be one of rectifying, conformal, authalic, parametric, geocentric")
	}

	fwd := func(_ *Stack, pts coord.AnySet) (int, error) {
		for i := 0; i < pts.Len(); i++ {
			v := pts.Get(i)
			v[1] = toAux(v[1])
			pts.Set(i, v)
		}
		return 0, nil
	}
	inv := func(_ *Stack, pts coord.AnySet) (int, error) {
		for i := 0; i < pts.Len(); i++ {
			v := pts.Get(i)
			v[1] = toGeo(v[1])
			pts.Set(i, v)
		}
		return 0, nil
	}
	return NewElementary("latitude", p, ell, fwd, inv)
}

// parametricToGeographic and geocentricToGeographic invert the closed
// forms tan(beta) = (1-f)tan(phi) and tan(psi) = (1-e^2)tan(phi) by
// applying the reciprocal scale factor.
func parametricToGeographic(ell ellipsoid.Ellipsoid, beta float64) float64 {
	return math.Atan(math.Tan(beta) / (1 - ell.F()))
}

func geocentricToGeographic(ell ellipsoid.Ellipsoid, psi float64) float64 {
	return math.Atan(math.Tan(psi) / (1 - ell.E2()))
}

// rectifyingToGeographic and conformalToGeographic invert their
// series-based forward conversions by Newton iteration on the series
// itself, mirroring authalicToGeographic (laea.go) since none of these
// series has a simple closed-form inverse.
func rectifyingToGeographic(ell ellipsoid.Ellipsoid, mu float64) float64 {
	phi := mu
	for i := 0; i < 8; i++ {
		const h = 1e-6
		f := ell.RectifyingLatitude(phi) - mu
		df := (ell.RectifyingLatitude(phi+h) - ell.RectifyingLatitude(phi-h)) / (2 * h)
		if df == 0 {
			break
		}
		delta := f / df
		phi -= delta
		if delta < 1e-12 && delta > -1e-12 {
			break
		}
	}
	return phi
}

func conformalToGeographic(ell ellipsoid.Ellipsoid, chi float64) float64 {
	phi := chi
	for i := 0; i < 8; i++ {
		const h = 1e-6
		f := ell.ConformalLatitude(phi) - chi
		df := (ell.ConformalLatitude(phi+h) - ell.ConformalLatitude(phi-h)) / (2 * h)
		if df == 0 {
			break
		}
		delta := f / df
		phi -= delta
		if delta < 1e-12 && delta > -1e-12 {
			break
		}
	}
	return phi
}

// NewCurvature constructs the curvature-radii operator:
// kind=meridian|prime_vertical|mean|
// normal_section selects which of four radii of curvature to compute
// (Ellipsoid's polar radius of curvature is not offered here)
// from the second (phi) component (and, for normal_section, the
// azimuth carried in the third component). The result replaces the
// first component; there is no meaningful inverse, so this operator is
// forward-only.
func NewCurvature(p *param.Parameters) (*Object, error) {
	ell, err := p.Ellipsoid()
	if err != nil {
		return nil, err
	}
	kind := strings.ToLower(p.String("kind", "meridian"))
	fwd := func(_ *Stack, pts coord.AnySet) (int, error) {
		for i := 0; i < pts.Len(); i++ {
			v := pts.Get(i)
			var r float64
			switch kind {
			case "meridian":
				r = ell.RadiusOfCurvatureMeridian(v[1])
			case "prime_vertical":
				r = ell.RadiusOfCurvaturePrimeVertical(v[1])
			case "mean":
				r = ell.RadiusOfCurvatureMean(v[1])
			case "normal_section":
				r = ell.RadiusOfCurvatureNormalSection(v[1], v[2])
			default:
				return 0, gerr.AtParam(gerr.Construction, -1, "kind", "unknown curvature kind: "+kind)
			}
			v[0] = r
			pts.Set(i, v)
		}
		return 0, nil
	}
	return NewElementary("curvature", p, ell, fwd, nil)
}
