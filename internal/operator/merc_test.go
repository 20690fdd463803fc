package operator

import (
	"testing"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMercRoundTrip(t *testing.T) {
	obj, err := NewMerc(buildStep(t, "merc ellps=GRS80"))
	require.NoError(t, err)
	const degToRad = 3.14159265358979323846 / 180
	in := coord.Tuple4[float64]{12 * degToRad, 55 * degToRad, 0, 0}
	set := oneTuple(in)
	assert.Equal(t, 0, applyFwd(t, obj, set))
	assert.Equal(t, 0, applyInv(t, obj, set))
	out := set.Get(0)
	assert.InDelta(t, in[0], out[0], 1e-11)
	assert.InDelta(t, in[1], out[1], 1e-11)
}

func TestWebMercForcesSphericalDevelopment(t *testing.T) {
	ellipsoidal, err := NewMerc(buildStep(t, "merc ellps=GRS80"))
	require.NoError(t, err)
	spherical, err := NewWebMerc(buildStep(t, "webmerc ellps=GRS80"))
	require.NoError(t, err)

	const degToRad = 3.14159265358979323846 / 180
	in := coord.Tuple4[float64]{12 * degToRad, 55 * degToRad, 0, 0}
	s1 := oneTuple(in)
	s2 := oneTuple(in)
	assert.Equal(t, 0, applyFwd(t, ellipsoidal, s1))
	assert.Equal(t, 0, applyFwd(t, spherical, s2))
	assert.NotEqual(t, s1.Get(0)[1], s2.Get(0)[1])
}

func TestMercPropagatesNaN(t *testing.T) {
	obj, err := NewMerc(buildStep(t, "merc"))
	require.NoError(t, err)
	set := oneTuple(coord.NaN4[float64]())
	assert.Equal(t, 1, applyFwd(t, obj, set))
}
