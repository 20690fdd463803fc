package operator

import (
	"math"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/busstoptaktik/geodesy/internal/gerr"
	"github.com/busstoptaktik/geodesy/internal/grid"
	"github.com/busstoptaktik/geodesy/internal/param"
)

const arcsecToRad = math.Pi / (180 * 3600)

// NewGridshift constructs the grid-based correction operator, using
// the shared grid-list lookup semantics.
// The grids= parameter names a GridList tried left-to-right per point;
// a point no grid covers is left unchanged when the list ends in @null,
// and is otherwise set to NaN and counted as a failure.
// forward *adds* the interpolated correction for 2D/3D grids and
// *subtracts* it for 1D (vertical-only) grids; the inverse searches
// iteratively since the correction is a function of the *target*, not
// the source, point. provider resolves grid names to loaded grids; it
// is supplied by the Context that builds this operator, not by the
// parsed parameters themselves.
func NewGridshift(p *param.Parameters, provider grid.Provider) (*Object, error) {
	ell, err := p.Ellipsoid()
	if err != nil {
		return nil, err
	}
	list, ok := p.GridListValue("grids")
	if !ok || len(list.Grids) == 0 {
		return nil, gerr.AtParam(gerr.Construction, -1, "grids", "gridshift requires a grids= list")
	}
	dim, err := p.Int("dim", 2)
	if err != nil {
		return nil, err
	}
	refs := make([]grid.Ref, len(list.Grids))
	for i, g := range list.Grids {
		refs[i] = grid.Ref{Name: g.Name, Optional: g.Optional}
	}

	errNotCovered := gerr.New(gerr.Execution, "gridshift: no grid covers point and no @null fallback")
	lookup := func(lon, lat float64) (grid.Grid, error) {
		found, err := grid.Lookup(provider, refs, lon, lat)
		if err != nil {
			return nil, err
		}
		if found == nil && !list.PassThrough {
			return nil, errNotCovered
		}
		return found, nil
	}

	correction := func(g grid.Grid, lon, lat float64) ([]float64, error) {
		v, err := g.Bilinear(lon, lat)
		if err != nil {
			return nil, err
		}
		if g.Angular() {
			for i := range v {
				v[i] *= arcsecToRad
			}
		}
		return v, nil
	}

	fwd := func(_ *Stack, pts coord.AnySet) (int, error) {
		fails := 0
		for i := 0; i < pts.Len(); i++ {
			v := pts.Get(i)
			if v.IsNaN() {
				fails++
				continue
			}
			g, err := lookup(v[0], v[1])
			if err == errNotCovered {
				fails++
				pts.Set(i, coord.NaN4[float64]())
				continue
			}
			if err != nil {
				return fails, err
			}
			if g == nil {
				continue // @null pass-through: leave point unchanged
			}
			corr, err := correction(g, v[0], v[1])
			if err != nil {
				fails++
				pts.Set(i, coord.NaN4[float64]())
				continue
			}
			out := v
			if dim == 1 {
				out[2] -= corr[0]
			} else {
				out[0] += corr[0]
				out[1] += corr[1]
				if dim == 3 && len(corr) > 2 {
					out[2] += corr[2]
				}
			}
			pts.Set(i, out)
		}
		return fails, nil
	}

	// inverse: fixed-point iteration on the forward correction (no
	// derivative, so not a Newton step), stopped after at most 5
	// iterations; a point that has not settled by then is counted as a
	// failure.
	inv := func(_ *Stack, pts coord.AnySet) (int, error) {
		fails := 0
		for i := 0; i < pts.Len(); i++ {
			v := pts.Get(i)
			if v.IsNaN() {
				fails++
				continue
			}
			guess := v
			converged := false
			for iter := 0; iter < 5; iter++ {
				g, err := lookup(guess[0], guess[1])
				if err == errNotCovered {
					guess = coord.NaN4[float64]()
					break
				}
				if err != nil {
					return fails, err
				}
				if g == nil {
					converged = true
					break
				}
				corr, err := correction(g, guess[0], guess[1])
				if err != nil {
					fails++
					break
				}
				next := v
				if dim == 1 {
					next[2] = v[2] + corr[0]
				} else {
					next[0] = v[0] - corr[0]
					next[1] = v[1] - corr[1]
					if dim == 3 && len(corr) > 2 {
						next[2] = v[2] - corr[2]
					}
				}
				delta := math.Hypot(next[0]-guess[0], next[1]-guess[1])
				guess = next
				if delta < 1e-12 {
					converged = true
					break
				}
			}
			if !converged {
				fails++
			}
			pts.Set(i, guess)
		}
		return fails, nil
	}
	return NewElementary("gridshift", p, ell, fwd, inv)
}
