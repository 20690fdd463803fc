package operator

import (
	"testing"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/busstoptaktik/geodesy/internal/ellipsoid"
	"github.com/busstoptaktik/geodesy/internal/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// velocityGrid is a test-only grid.Grid reporting a fixed
// east/north/up velocity everywhere.
type velocityGrid struct {
	ve, vn, vu float64
}

func (g velocityGrid) Contains(lon, lat float64) bool { return true }
func (g velocityGrid) Bilinear(lon, lat float64) ([]float64, error) {
	return []float64{g.ve, g.vn, g.vu}, nil
}
func (g velocityGrid) Angular() bool { return false }

func TestDeformationForwardSubtractsRateTimesDt(t *testing.T) {
	provider := grid.NewStatic()
	provider.Register("vel", velocityGrid{ve: 1, vn: 2, vu: 3})

	obj, err := NewDeformation(buildStep(t, "deformation grid=vel t_epoch=2000 ellps=GRS80"), provider)
	require.NoError(t, err)

	ell := ellipsoid.Default()
	a := ell.A()
	set := oneTuple(coord.Tuple4[float64]{a, 0, 0, 2010})
	assert.Equal(t, 0, applyFwd(t, obj, set))
	out := set.Get(0)
	// at (lon=0, lat=0): dx=vu, dy=ve, dz=vn, dt=10, sign=-1.
	assert.InDelta(t, a-10*3, out[0], 1e-6)
	assert.InDelta(t, 0-10*1, out[1], 1e-6)
	assert.InDelta(t, 0-10*2, out[2], 1e-6)
	assert.Equal(t, 2010.0, out[3])
}

func TestDeformationRoundTrip(t *testing.T) {
	provider := grid.NewStatic()
	provider.Register("vel", velocityGrid{ve: 1, vn: 2, vu: 3})

	obj, err := NewDeformation(buildStep(t, "deformation grid=vel t_epoch=2000 ellps=GRS80"), provider)
	require.NoError(t, err)

	ell := ellipsoid.Default()
	in := coord.Tuple4[float64]{ell.A(), 0, 0, 2010}
	set := oneTuple(in)
	assert.Equal(t, 0, applyFwd(t, obj, set))
	assert.Equal(t, 0, applyInv(t, obj, set))
	out := set.Get(0)
	assert.InDelta(t, in[0], out[0], 1e-6)
	assert.InDelta(t, in[1], out[1], 1e-6)
	assert.InDelta(t, in[2], out[2], 1e-6)
}

func TestDeformationRequiresGridAndEpoch(t *testing.T) {
	provider := grid.NewStatic()
	_, err := NewDeformation(buildStep(t, "deformation t_epoch=2000"), provider)
	assert.Error(t, err)
	_, err = NewDeformation(buildStep(t, "deformation grid=vel"), provider)
	assert.Error(t, err)
}
