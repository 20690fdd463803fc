package operator

import (
	"testing"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLCCSecantRoundTrip(t *testing.T) {
	obj, err := NewLCC(buildStep(t, "lcc lat_1=44 lat_2=49 lat_0=46.5 lon_0=3 ellps=GRS80"))
	require.NoError(t, err)
	const degToRad = 3.14159265358979323846 / 180
	in := coord.Tuple4[float64]{2 * degToRad, 47 * degToRad, 0, 0}
	set := oneTuple(in)
	assert.Equal(t, 0, applyFwd(t, obj, set))
	assert.Equal(t, 0, applyInv(t, obj, set))
	out := set.Get(0)
	assert.InDelta(t, in[0], out[0], 1e-10)
	assert.InDelta(t, in[1], out[1], 1e-10)
}

func TestLCCTangentFormDefaultsLat2(t *testing.T) {
	obj, err := NewLCC(buildStep(t, "lcc lat_1=46 ellps=GRS80"))
	require.NoError(t, err)
	const degToRad = 3.14159265358979323846 / 180
	set := oneTuple(coord.Tuple4[float64]{0, 46 * degToRad, 0, 0})
	assert.Equal(t, 0, applyFwd(t, obj, set))
	out := set.Get(0)
	assert.InDelta(t, 0, out[0], 1e-6)
	assert.InDelta(t, 0, out[1], 1e-6)
}

func TestLCCRejectsSymmetricParallels(t *testing.T) {
	_, err := NewLCC(buildStep(t, "lcc lat_1=30 lat_2=-30"))
	assert.Error(t, err)
}

func TestLCCPropagatesNaN(t *testing.T) {
	obj, err := NewLCC(buildStep(t, "lcc lat_1=44 lat_2=49"))
	require.NoError(t, err)
	set := oneTuple(coord.NaN4[float64]())
	assert.Equal(t, 1, applyFwd(t, obj, set))
}
