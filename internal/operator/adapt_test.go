package operator

import (
	"testing"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdaptPermutesAndNegates(t *testing.T) {
	obj, err := NewAdapt(buildStep(t, "adapt from=neu to=enu"))
	require.NoError(t, err)
	set := oneTuple(coord.Tuple4[float64]{1, 2, 3, 4})
	assert.Equal(t, 0, applyFwd(t, obj, set))
	assert.Equal(t, coord.Tuple4[float64]{2, 1, 3, 4}, set.Get(0))
	assert.Equal(t, 0, applyInv(t, obj, set))
	assert.Equal(t, coord.Tuple4[float64]{1, 2, 3, 4}, set.Get(0))
}

func TestAdaptRejectsMismatchedAxisCount(t *testing.T) {
	_, err := NewAdapt(buildStep(t, "adapt from=en to=enu"))
	assert.Error(t, err)
}

func TestAxisswapPermutesByIndexList(t *testing.T) {
	obj, err := NewAxisswap(buildStep(t, "axisswap 2,1"))
	require.NoError(t, err)
	set := oneTuple(coord.Tuple4[float64]{1, 2, 3, 4})
	assert.Equal(t, 0, applyFwd(t, obj, set))
	assert.Equal(t, coord.Tuple4[float64]{2, 1, 3, 4}, set.Get(0))
	assert.Equal(t, 0, applyInv(t, obj, set))
	assert.Equal(t, coord.Tuple4[float64]{1, 2, 3, 4}, set.Get(0))
}

func TestAxisswapNegatesComponent(t *testing.T) {
	obj, err := NewAxisswap(buildStep(t, "axisswap -1,2"))
	require.NoError(t, err)
	set := oneTuple(coord.Tuple4[float64]{5, 6, 0, 0})
	assert.Equal(t, 0, applyFwd(t, obj, set))
	assert.Equal(t, coord.Tuple4[float64]{-5, 6, 0, 0}, set.Get(0))
}

func TestUnitconvertKmToMeters(t *testing.T) {
	obj, err := NewUnitconvert(buildStep(t, "unitconvert xy_in=km xy_out=m"))
	require.NoError(t, err)
	set := oneTuple(coord.Tuple4[float64]{1, 2, 0, 0})
	assert.Equal(t, 0, applyFwd(t, obj, set))
	out := set.Get(0)
	assert.InDelta(t, 1000, out[0], 1e-9)
	assert.InDelta(t, 2000, out[1], 1e-9)
	assert.Equal(t, 0, applyInv(t, obj, set))
	assert.InDelta(t, 1, set.Get(0)[0], 1e-9)
	assert.InDelta(t, 2, set.Get(0)[1], 1e-9)
}

func TestUnitconvertZDefaultsToXYUnit(t *testing.T) {
	obj, err := NewUnitconvert(buildStep(t, "unitconvert xy_in=km xy_out=m"))
	require.NoError(t, err)
	set := oneTuple(coord.Tuple4[float64]{0, 0, 1, 0})
	assert.Equal(t, 0, applyFwd(t, obj, set))
	assert.InDelta(t, 1000, set.Get(0)[2], 1e-9)
}

func TestUnitconvertRejectsUnknownUnit(t *testing.T) {
	_, err := NewUnitconvert(buildStep(t, "unitconvert xy_in=furlong xy_out=m"))
	assert.Error(t, err)
}

func TestDMSDecodeThenEncodeRoundTrip(t *testing.T) {
	obj, err := NewDMS(buildStep(t, "dms"))
	require.NoError(t, err)
	set := oneTuple(coord.Tuple4[float64]{553036., -124509., 0, 0})
	assert.Equal(t, 0, applyFwd(t, obj, set))
	const degToRad = 3.14159265358979323846 / 180
	out := set.Get(0)
	assert.InDelta(t, -12.7525*degToRad, out[0], 1e-6)
	assert.InDelta(t, 55.51*degToRad, out[1], 1e-6)

	assert.Equal(t, 0, applyInv(t, obj, set))
	back := set.Get(0)
	assert.InDelta(t, 553036., back[0], 1e-2)
	assert.InDelta(t, -124509., back[1], 1e-2)
}

func TestDMDecodeThenEncodeRoundTrip(t *testing.T) {
	obj, err := NewDM(buildStep(t, "dm"))
	require.NoError(t, err)
	set := oneTuple(coord.Tuple4[float64]{5530.6, -1245.15, 0, 0})
	assert.Equal(t, 0, applyFwd(t, obj, set))
	assert.Equal(t, 0, applyInv(t, obj, set))
	back := set.Get(0)
	assert.InDelta(t, 5530.6, back[0], 1e-2)
	assert.InDelta(t, -1245.15, back[1], 1e-2)
}
