package operator

import (
	"testing"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLAEARoundTrip(t *testing.T) {
	obj, err := NewLAEA(buildStep(t, "laea lat_0=52 lon_0=10 ellps=GRS80"))
	require.NoError(t, err)
	const degToRad = 3.14159265358979323846 / 180
	in := coord.Tuple4[float64]{12 * degToRad, 55 * degToRad, 0, 0}
	set := oneTuple(in)
	assert.Equal(t, 0, applyFwd(t, obj, set))
	assert.Equal(t, 0, applyInv(t, obj, set))
	out := set.Get(0)
	assert.InDelta(t, in[0], out[0], 1e-8)
	assert.InDelta(t, in[1], out[1], 1e-8)
}

func TestLAEAOriginMapsToOffset(t *testing.T) {
	obj, err := NewLAEA(buildStep(t, "laea lat_0=52 lon_0=10 x_0=1000 y_0=2000 ellps=GRS80"))
	require.NoError(t, err)
	const degToRad = 3.14159265358979323846 / 180
	set := oneTuple(coord.Tuple4[float64]{10 * degToRad, 52 * degToRad, 0, 0})
	assert.Equal(t, 0, applyFwd(t, obj, set))
	out := set.Get(0)
	assert.InDelta(t, 1000, out[0], 1e-6)
	assert.InDelta(t, 2000, out[1], 1e-6)
}

func TestLAEAPropagatesNaN(t *testing.T) {
	obj, err := NewLAEA(buildStep(t, "laea lat_0=52 lon_0=10"))
	require.NoError(t, err)
	set := oneTuple(coord.NaN4[float64]())
	assert.Equal(t, 1, applyFwd(t, obj, set))
}
