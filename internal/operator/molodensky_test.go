package operator

import (
	"testing"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMolodenskyZeroShiftIsIdentity(t *testing.T) {
	obj, err := NewMolodensky(buildStep(t, "molodensky"))
	require.NoError(t, err)

	const degToRad = 3.14159265358979323846 / 180
	in := coord.Tuple4[float64]{12 * degToRad, 55 * degToRad, 100, 0}
	set := oneTuple(in)
	assert.Equal(t, 0, applyFwd(t, obj, set))
	assert.InDelta(t, in[0], set.Get(0)[0], 1e-12)
	assert.InDelta(t, in[1], set.Get(0)[1], 1e-12)
	assert.InDelta(t, in[2], set.Get(0)[2], 1e-9)
}

func TestMolodenskyApproximatelyReversible(t *testing.T) {
	obj, err := NewMolodensky(buildStep(t, "molodensky da=-251 df=-0.00001 dx=-87 dy=-96 dz=-120"))
	require.NoError(t, err)

	const degToRad = 3.14159265358979323846 / 180
	in := coord.Tuple4[float64]{12 * degToRad, 55 * degToRad, 100, 0}
	set := oneTuple(in)
	assert.Equal(t, 0, applyFwd(t, obj, set))
	assert.NotEqual(t, in, set.Get(0))

	assert.Equal(t, 0, applyInv(t, obj, set))
	out := set.Get(0)
	assert.InDelta(t, in[0], out[0], 1e-6)
	assert.InDelta(t, in[1], out[1], 1e-6)
	assert.InDelta(t, in[2], out[2], 1)
}

func TestMolodenskyAbridgedRuns(t *testing.T) {
	obj, err := NewMolodensky(buildStep(t, "molodensky da=-251 df=-0.00001 dx=-87 dy=-96 dz=-120 abridged"))
	require.NoError(t, err)
	const degToRad = 3.14159265358979323846 / 180
	set := oneTuple(coord.Tuple4[float64]{12 * degToRad, 55 * degToRad, 0, 0})
	assert.Equal(t, 0, applyFwd(t, obj, set))
}

func TestMolodenskyPropagatesNaN(t *testing.T) {
	obj, err := NewMolodensky(buildStep(t, "molodensky dx=1"))
	require.NoError(t, err)
	set := oneTuple(coord.NaN4[float64]())
	assert.Equal(t, 1, applyFwd(t, obj, set))
}
