package operator

import (
	"testing"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/busstoptaktik/geodesy/internal/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constantGrid is a test-only grid.Grid covering every point with a
// fixed correction vector.
type constantGrid struct {
	corr          []float64
	angular       bool
	neverContains bool
}

func (g constantGrid) Contains(lon, lat float64) bool { return !g.neverContains }
func (g constantGrid) Bilinear(lon, lat float64) ([]float64, error) {
	out := make([]float64, len(g.corr))
	copy(out, g.corr)
	return out, nil
}
func (g constantGrid) Angular() bool { return g.angular }

func TestGridshift2DForwardAddsCorrection(t *testing.T) {
	provider := grid.NewStatic()
	provider.Register("test", constantGrid{corr: []float64{1, 2}})

	obj, err := NewGridshift(buildStep(t, "gridshift grids=test ellps=GRS80"), provider)
	require.NoError(t, err)

	set := oneTuple(coord.Tuple4[float64]{10, 20, 0, 0})
	assert.Equal(t, 0, applyFwd(t, obj, set))
	out := set.Get(0)
	assert.InDelta(t, 11, out[0], 1e-9)
	assert.InDelta(t, 22, out[1], 1e-9)
}

func TestGridshiftInverseRecoversSource(t *testing.T) {
	provider := grid.NewStatic()
	provider.Register("test", constantGrid{corr: []float64{1, 2}})

	obj, err := NewGridshift(buildStep(t, "gridshift grids=test ellps=GRS80"), provider)
	require.NoError(t, err)

	in := coord.Tuple4[float64]{10, 20, 0, 0}
	set := oneTuple(in)
	assert.Equal(t, 0, applyFwd(t, obj, set))
	assert.Equal(t, 0, applyInv(t, obj, set))
	out := set.Get(0)
	assert.InDelta(t, in[0], out[0], 1e-9)
	assert.InDelta(t, in[1], out[1], 1e-9)
}

func TestGridshift1DSubtractsVerticalCorrection(t *testing.T) {
	provider := grid.NewStatic()
	provider.Register("test", constantGrid{corr: []float64{5}})

	obj, err := NewGridshift(buildStep(t, "gridshift grids=test dim=1 ellps=GRS80"), provider)
	require.NoError(t, err)

	set := oneTuple(coord.Tuple4[float64]{10, 20, 100, 0})
	assert.Equal(t, 0, applyFwd(t, obj, set))
	assert.InDelta(t, 95, set.Get(0)[2], 1e-9)
}

func TestGridshiftNullPassThroughLeavesPointUnchanged(t *testing.T) {
	provider := grid.NewStatic()
	provider.Register("test", constantGrid{corr: []float64{1, 2}, neverContains: true})
	obj, err := NewGridshift(buildStep(t, "gridshift grids=test,@null ellps=GRS80"), provider)
	require.NoError(t, err)

	in := coord.Tuple4[float64]{10, 20, 0, 0}
	set := oneTuple(in)
	assert.Equal(t, 0, applyFwd(t, obj, set))
	assert.Equal(t, in, set.Get(0))
}

func TestGridshiftRequiresGridsParam(t *testing.T) {
	provider := grid.NewStatic()
	_, err := NewGridshift(buildStep(t, "gridshift"), provider)
	assert.Error(t, err)
}
