package operator

import (
	"testing"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUTMZone32MatchesKnownValue(t *testing.T) {
	obj, err := NewUTM(buildStep(t, "utm zone=32 ellps=GRS80"))
	require.NoError(t, err)

	const degToRad = 3.14159265358979323846 / 180
	set := oneTuple(coord.Tuple4[float64]{12 * degToRad, 55 * degToRad, 0, 0})
	assert.Equal(t, 0, applyFwd(t, obj, set))
	out := set.Get(0)
	assert.InDelta(t, 691875.63214, out[0], 1e-3)
	assert.InDelta(t, 6098907.82501, out[1], 1e-3)
}

func TestUTMRoundTrip(t *testing.T) {
	obj, err := NewUTM(buildStep(t, "utm zone=32 ellps=GRS80"))
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

func TestUTMRejectsZoneOutOfRange(t *testing.T) {
	_, err := NewUTM(buildStep(t, "utm zone=0"))
	assert.Error(t, err)
	_, err = NewUTM(buildStep(t, "utm zone=61"))
	assert.Error(t, err)
}

func TestUTMSouthOffsetsFalseNorthing(t *testing.T) {
	obj, err := NewUTM(buildStep(t, "utm zone=32 south ellps=GRS80"))
	require.NoError(t, err)
	const degToRad = 3.14159265358979323846 / 180
	set := oneTuple(coord.Tuple4[float64]{12 * degToRad, -10 * degToRad, 0, 0})
	assert.Equal(t, 0, applyFwd(t, obj, set))
	assert.Greater(t, set.Get(0)[1], 0.0)
}

func TestTmercPropagatesNaN(t *testing.T) {
	obj, err := NewTmerc(buildStep(t, "tmerc"))
	require.NoError(t, err)
	set := oneTuple(coord.NaN4[float64]())
	assert.Equal(t, 1, applyFwd(t, obj, set))
}
