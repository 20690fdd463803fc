package operator

import (
	"math"
	"strings"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/busstoptaktik/geodesy/internal/gerr"
	"github.com/busstoptaktik/geodesy/internal/param"
	"gonum.org/v1/gonum/mat"
)

// sec2rad converts arc-seconds to radians, as used by the rotation
// parameters (rx, ry, rz) and ppm-scaled rate terms of a Helmert
// transform.
const sec2rad = 4.84813681109535993589914102357e-6

// helmertParams is the resolved 14-parameter Helmert transform: three
// translations (meters), three rotations (radians), one scale (ppm
// converted to a multiplier), plus a rate for each when the transform
// is time-dependent.
type helmertParams struct {
	tx, ty, tz    float64
	rx, ry, rz    float64
	s             float64
	dtx, dty, dtz float64
	drx, dry, drz float64
	ds            float64
	tEpoch        float64
	tObsFixed     float64
	hasTObs       bool
	frame         bool // true: coordinate_frame convention, false: position_vector
	exact         bool
	timeDependent bool
}

// NewHelmert constructs the Helmert (similarity) transform operator.
// 3-, 6-, 7- and 14- parameter
// forms are all expressed through the same 14-parameter struct with
// unused terms left at zero; position_vector (the default) and
// coordinate_frame rotation conventions differ only in the sign of the
// rotation block, matching the well known EPSG methods 9606/1033
// (position vector) vs 9607/1032 (coordinate frame).
func NewHelmert(p *param.Parameters) (*Object, error) {
	hp, err := resolveHelmert(p)
	if err != nil {
		return nil, err
	}
	ell, err := p.Ellipsoid()
	if err != nil {
		return nil, err
	}

	fwd := func(_ *Stack, pts coord.AnySet) (int, error) {
		return applyHelmert(hp, pts, false), nil
	}
	inv := func(_ *Stack, pts coord.AnySet) (int, error) {
		return applyHelmert(hp, pts, true), nil
	}
	return NewElementary("helmert", p, ell, fwd, inv)
}

func resolveHelmert(p *param.Parameters) (helmertParams, error) {
	var hp helmertParams
	var err error
	if p.Has("translation") {
		t, err := p.Floats("translation")
		if err != nil {
			return hp, err
		}
		if len(t) != 3 {
			return hp, gerr.AtParam(gerr.Construction, -1, "translation", "requires exactly 3 components")
		}
		hp.tx, hp.ty, hp.tz = t[0], t[1], t[2]
	} else {
		if hp.tx, err = floatOr(p, "x", 0); err != nil {
			return hp, err
		}
		if hp.ty, err = floatOr(p, "y", 0); err != nil {
			return hp, err
		}
		if hp.tz, err = floatOr(p, "z", 0); err != nil {
			return hp, err
		}
	}
	rx, err := floatOr(p, "rx", 0)
	if err != nil {
		return hp, err
	}
	ry, err := floatOr(p, "ry", 0)
	if err != nil {
		return hp, err
	}
	rz, err := floatOr(p, "rz", 0)
	if err != nil {
		return hp, err
	}
	hp.rx, hp.ry, hp.rz = rx*sec2rad, ry*sec2rad, rz*sec2rad

	sppm, err := floatOr(p, "s", 0)
	if err != nil {
		return hp, err
	}
	hp.s = sppm * 1e-6

	if dtx, err := floatOr(p, "dx", 0); err == nil {
		hp.dtx = dtx
	}
	if dty, err := floatOr(p, "dy", 0); err == nil {
		hp.dty = dty
	}
	if dtz, err := floatOr(p, "dz", 0); err == nil {
		hp.dtz = dtz
	}
	if drx, err := floatOr(p, "drx", 0); err == nil {
		hp.drx = drx * sec2rad
	}
	if dry, err := floatOr(p, "dry", 0); err == nil {
		hp.dry = dry * sec2rad
	}
	if drz, err := floatOr(p, "drz", 0); err == nil {
		hp.drz = drz * sec2rad
	}
	if dsppm, err := floatOr(p, "ds", 0); err == nil {
		hp.ds = dsppm * 1e-6
	}
	hp.timeDependent = p.Has("dx") || p.Has("dy") || p.Has("dz") ||
		p.Has("drx") || p.Has("dry") || p.Has("drz") || p.Has("ds")

	if p.Has("t_epoch") {
		hp.tEpoch, err = p.RequireFloat("t_epoch")
		if err != nil {
			return hp, err
		}
	}
	if p.Has("t_obs") {
		hp.tObsFixed, err = p.RequireFloat("t_obs")
		if err != nil {
			return hp, err
		}
		hp.hasTObs = true
	}

	convention := strings.ToLower(p.String("convention", "position_vector"))
	switch convention {
	case "position_vector", "":
		hp.frame = false
	case "coordinate_frame":
		hp.frame = true
	default:
		return hp, gerr.AtParam(gerr.Construction, -1, "convention", "must be position_vector or coordinate_frame")
	}
	hp.exact = p.Bool("exact")
	return hp, nil
}

func floatOr(p *param.Parameters, key string, def float64) (float64, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.Float(key, def)
}

// rotationMatrix builds the 3x3 rotation block R such that the forward
// transform is X' = scale*R*X + T, using gonum/mat rather than nine
// hand-expanded scalar products.
func rotationMatrix(rx, ry, rz float64, frame, exact bool) *mat.Dense {
	sign := 1.0
	if frame {
		sign = -1.0
	}
	rx, ry, rz = sign*rx, sign*ry, sign*rz

	if !exact {
		// small-angle approximation: R = I + skew(r)
		return mat.NewDense(3, 3, []float64{
			1, -rz, ry,
			rz, 1, -rx,
			-ry, rx, 1,
		})
	}
	cx, sx := math.Cos(rx), math.Sin(rx)
	cy, sy := math.Cos(ry), math.Sin(ry)
	cz, sz := math.Cos(rz), math.Sin(rz)
	rX := mat.NewDense(3, 3, []float64{1, 0, 0, 0, cx, -sx, 0, sx, cx})
	rY := mat.NewDense(3, 3, []float64{cy, 0, sy, 0, 1, 0, -sy, 0, cy})
	rZ := mat.NewDense(3, 3, []float64{cz, -sz, 0, sz, cz, 0, 0, 0, 1})
	var tmp, out mat.Dense
	tmp.Mul(rZ, rY)
	out.Mul(&tmp, rX)
	return &out
}

func applyHelmert(hp helmertParams, pts coord.AnySet, inverse bool) int {
	fails := 0
	for i := 0; i < pts.Len(); i++ {
		v := pts.Get(i)
		if v.IsNaN() {
			fails++
			continue
		}
		dt := 0.0
		if hp.timeDependent {
			tObs := v[3]
			if hp.hasTObs {
				tObs = hp.tObsFixed
			}
			dt = tObs - hp.tEpoch
		}
		tx := hp.tx + hp.dtx*dt
		ty := hp.ty + hp.dty*dt
		tz := hp.tz + hp.dtz*dt
		rx := hp.rx + hp.drx*dt
		ry := hp.ry + hp.dry*dt
		rz := hp.rz + hp.drz*dt
		scale := 1 + hp.s + hp.ds*dt

		R := rotationMatrix(rx, ry, rz, hp.frame, hp.exact)
		src := mat.NewVecDense(3, []float64{v[0], v[1], v[2]})
		var dst mat.VecDense

		if !inverse {
			dst.MulVec(R, src)
			pts.Set(i, coord.Tuple4[float64]{
				scale*dst.AtVec(0) + tx,
				scale*dst.AtVec(1) + ty,
				scale*dst.AtVec(2) + tz,
				v[3],
			})
			continue
		}

		// inverse: sign-reversed parameters.
		unrotated := mat.NewVecDense(3, []float64{
			v[0] - tx,
			v[1] - ty,
			v[2] - tz,
		})
		Rinv := rotationMatrix(-rx, -ry, -rz, hp.frame, hp.exact)
		invScale := 1.0
		if scale != 0 {
			invScale = 1 / scale
		}
		unrotated.ScaleVec(invScale, unrotated)
		dst.MulVec(Rinv, unrotated)
		pts.Set(i, coord.Tuple4[float64]{dst.AtVec(0), dst.AtVec(1), dst.AtVec(2), v[3]})
	}
	return fails
}
