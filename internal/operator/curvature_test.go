package operator

import (
	"testing"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatitudeConversionsRoundTrip(t *testing.T) {
	const degToRad = 3.14159265358979323846 / 180
	for _, kind := range []string{"rectifying", "conformal", "authalic", "parametric", "geocentric"} {
		obj, err := NewLatitude(buildStep(t, "latitude kind="+kind+" ellps=GRS80"))
		require.NoError(t, err, kind)
		in := coord.Tuple4[float64]{0, 55 * degToRad, 0, 0}
		set := oneTuple(in)
		assert.Equal(t, 0, applyFwd(t, obj, set), kind)
		assert.NotEqual(t, in[1], set.Get(0)[1], kind)
		assert.Equal(t, 0, applyInv(t, obj, set), kind)
		assert.InDelta(t, in[1], set.Get(0)[1], 1e-9, kind)
	}
}

func TestLatitudeRejectsUnknownKind(t *testing.T) {
	_, err := NewLatitude(buildStep(t, "latitude kind=bogus"))
	assert.Error(t, err)
}

func TestCurvatureMeridianAndPrimeVerticalDiffer(t *testing.T) {
	const degToRad = 3.14159265358979323846 / 180
	meridian, err := NewCurvature(buildStep(t, "curvature kind=meridian ellps=GRS80"))
	require.NoError(t, err)
	primeVert, err := NewCurvature(buildStep(t, "curvature kind=prime_vertical ellps=GRS80"))
	require.NoError(t, err)

	s1 := oneTuple(coord.Tuple4[float64]{0, 55 * degToRad, 0, 0})
	s2 := oneTuple(coord.Tuple4[float64]{0, 55 * degToRad, 0, 0})
	assert.Equal(t, 0, applyFwd(t, meridian, s1))
	assert.Equal(t, 0, applyFwd(t, primeVert, s2))
	assert.NotEqual(t, s1.Get(0)[0], s2.Get(0)[0])
	assert.Nil(t, meridian.Inv)
}

func TestCurvatureRejectsUnknownKind(t *testing.T) {
	obj, err := NewCurvature(buildStep(t, "curvature kind=bogus"))
	require.NoError(t, err)
	set := oneTuple(coord.Tuple4[float64]{0, 0, 0, 0})
	_, err = obj.Fwd(NewStack(), set)
	assert.Error(t, err)
}
