package operator

import (
	"testing"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOmercAzimuthFormRoundTrip(t *testing.T) {
	obj, err := NewOmerc(buildStep(t, "omerc lonc=5 alpha=90 lat_0=0 ellps=GRS80"))
	require.NoError(t, err)
	const degToRad = 3.14159265358979323846 / 180
	in := coord.Tuple4[float64]{6 * degToRad, 2 * degToRad, 0, 0}
	set := oneTuple(in)
	assert.Equal(t, 0, applyFwd(t, obj, set))
	assert.Equal(t, 0, applyInv(t, obj, set))
	out := set.Get(0)
	assert.InDelta(t, in[0], out[0], 1e-8)
	assert.InDelta(t, in[1], out[1], 1e-8)
}

func TestOmercTwoPointFormConstructs(t *testing.T) {
	_, err := NewOmerc(buildStep(t, "omerc lat_1=1 lon_1=2 lat_2=3 lon_2=4 lat_0=0 ellps=GRS80"))
	require.NoError(t, err)
}

func TestOmercRequiresAzimuthOrTwoPoint(t *testing.T) {
	_, err := NewOmerc(buildStep(t, "omerc lat_0=0"))
	assert.Error(t, err)
}

func TestSomercRoundTrip(t *testing.T) {
	obj, err := NewSomerc(buildStep(t, "somerc lat_0=46.95240556 lon_0=7.43958333 ellps=GRS80"))
	require.NoError(t, err)
	const degToRad = 3.14159265358979323846 / 180
	in := coord.Tuple4[float64]{8.5 * degToRad, 47.3 * degToRad, 0, 0}
	set := oneTuple(in)
	assert.Equal(t, 0, applyFwd(t, obj, set))
	assert.Equal(t, 0, applyInv(t, obj, set))
	out := set.Get(0)
	assert.InDelta(t, in[0], out[0], 1e-8)
	assert.InDelta(t, in[1], out[1], 1e-8)
}
