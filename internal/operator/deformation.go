package operator

import (
	"math"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/busstoptaktik/geodesy/internal/gerr"
	"github.com/busstoptaktik/geodesy/internal/grid"
	"github.com/busstoptaktik/geodesy/internal/param"
)

// NewDeformation constructs the crustal-deformation operator: a
// velocity grid in local east-north-
// up (meters/year; grid values are used without unit conversion) is
// interpolated at the point's geographic position,
// converted to a geocentric XYZ rate, scaled by dt = t_obs - t_epoch
// (t_obs taken from the point's time component unless a fixed t_obs
// parameter overrides it per DESIGN.md's Open Question decision), and
// *subtracted* from the operand on the forward kernel to bring an
// observation back to the reference epoch. The inverse adds it back.
func NewDeformation(p *param.Parameters, provider grid.Provider) (*Object, error) {
	ell, err := p.Ellipsoid()
	if err != nil {
		return nil, err
	}
	gridName, ok := p.Raw("grid")
	if !ok || gridName == "" {
		return nil, gerr.AtParam(gerr.Construction, -1, "grid", "deformation requires a grid= velocity grid name")
	}
	tEpoch, err := p.RequireFloat("t_epoch")
	if err != nil {
		return nil, err
	}
	tObsFixed, hasTObs := 0.0, p.Has("t_obs")
	if hasTObs {
		tObsFixed, err = p.RequireFloat("t_obs")
		if err != nil {
			return nil, err
		}
	}

	velocityAt := func(lon, lat float64) (ve, vn, vu float64, err error) {
		g, err := provider.Load(gridName)
		if err != nil {
			return 0, 0, 0, err
		}
		if !g.Contains(lon, lat) {
			return 0, 0, 0, gerr.New(gerr.Execution, "deformation: point outside velocity grid coverage")
		}
		v, err := g.Bilinear(lon, lat)
		if err != nil {
			return 0, 0, 0, err
		}
		if len(v) < 3 {
			return 0, 0, 0, gerr.New(gerr.Execution, "deformation: velocity grid must carry 3 components")
		}
		return v[0], v[1], v[2], nil
	}

	apply := func(pts coord.AnySet, sign float64) (int, error) {
		fails := 0
		for i := 0; i < pts.Len(); i++ {
			v := pts.Get(i)
			if v.IsNaN() {
				fails++
				continue
			}
			X, Y, Z, t := v[0], v[1], v[2], v[3]
			lam, phi, _, err := cartesianToGeographic(ell, X, Y, Z)
			if err != nil {
				fails++
				pts.Set(i, coord.NaN4[float64]())
				continue
			}
			ve, vn, vu, err := velocityAt(lam, phi)
			if err != nil {
				fails++
				pts.Set(i, coord.NaN4[float64]())
				continue
			}
			tObs := t
			if hasTObs {
				tObs = tObsFixed
			}
			dt := tObs - tEpoch

			sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
			sinLam, cosLam := math.Sin(lam), math.Cos(lam)
			dx := -sinLam*ve - sinPhi*cosLam*vn + cosPhi*cosLam*vu
			dy := cosLam*ve - sinPhi*sinLam*vn + cosPhi*sinLam*vu
			dz := cosPhi*vn + sinPhi*vu

			pts.Set(i, coord.Tuple4[float64]{
				X + sign*dt*dx,
				Y + sign*dt*dy,
				Z + sign*dt*dz,
				t,
			})
		}
		return fails, nil
	}

	fwd := func(_ *Stack, pts coord.AnySet) (int, error) { return apply(pts, -1) }
	inv := func(_ *Stack, pts coord.AnySet) (int, error) { return apply(pts, 1) }
	return NewElementary("deformation", p, ell, fwd, inv)
}
