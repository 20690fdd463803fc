package grid

import (
	"math"

	"github.com/pkg/errors"
)

// Regular is a Grid backed by a regular lon/lat raster of correction
// vectors held entirely in memory -- the shape every on-disk grid
// format (NTv2, Gravsoft) decodes into before use. Grounded on the
// grid-cell bilinear-interpolation idiom visible in the pack's
// mmp/mgrib2 grid-lambert.go.
type Regular struct {
	MinLon, MinLat float64
	StepLon, StepLat float64
	Cols, Rows       int
	// Values holds Rows*Cols vectors of Dim components each, row-major
	// starting at (MinLon, MinLat).
	Values  [][]float64
	Dim     int
	angular bool
}

// NewRegular constructs a Regular grid. angular selects the
// arc-second-vs-meter unit convention; callers
// typically derive it via Classify from the grid's declared extent.
func NewRegular(minLon, minLat, stepLon, stepLat float64, cols, rows, dim int, values [][]float64, angular bool) (*Regular, error) {
	if len(values) != cols*rows {
		return nil, errors.Errorf("grid: expected %d cells, got %d", cols*rows, len(values))
	}
	return &Regular{
		MinLon: minLon, MinLat: minLat,
		StepLon: stepLon, StepLat: stepLat,
		Cols: cols, Rows: rows,
		Values: values, Dim: dim, angular: angular,
	}, nil
}

func (g *Regular) maxLon() float64 { return g.MinLon + float64(g.Cols-1)*g.StepLon }
func (g *Regular) maxLat() float64 { return g.MinLat + float64(g.Rows-1)*g.StepLat }

// Contains implements Grid.
func (g *Regular) Contains(lon, lat float64) bool {
	return lon >= g.MinLon && lon <= g.maxLon() && lat >= g.MinLat && lat <= g.maxLat()
}

// Angular implements Grid.
func (g *Regular) Angular() bool { return g.angular }

func (g *Regular) cell(col, row int) []float64 {
	row = clampInt(row, 0, g.Rows-1)
	col = clampInt(col, 0, g.Cols-1)
	return g.Values[row*g.Cols+col]
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Bilinear implements Grid.
func (g *Regular) Bilinear(lon, lat float64) ([]float64, error) {
	if !g.Contains(lon, lat) {
		return nil, errors.New("grid: point outside coverage")
	}
	fcol := (lon - g.MinLon) / g.StepLon
	frow := (lat - g.MinLat) / g.StepLat
	col0 := int(math.Floor(fcol))
	row0 := int(math.Floor(frow))
	tx := fcol - float64(col0)
	ty := frow - float64(row0)

	v00 := g.cell(col0, row0)
	v10 := g.cell(col0+1, row0)
	v01 := g.cell(col0, row0+1)
	v11 := g.cell(col0+1, row0+1)

	out := make([]float64, g.Dim)
	for k := 0; k < g.Dim; k++ {
		top := v00[k]*(1-tx) + v10[k]*tx
		bot := v01[k]*(1-tx) + v11[k]*tx
		out[k] = top*(1-ty) + bot*ty
	}
	return out, nil
}
