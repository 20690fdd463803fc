package engine

import (
	"testing"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/busstoptaktik/geodesy/internal/operator"
	"github.com/busstoptaktik/geodesy/internal/param"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oneTuple(v coord.Tuple4[float64]) coord.AnySet {
	return coord.Adapt4(coord.Slice4[float64]{v})
}

func buildPipeline(t *testing.T, defs ...string) *operator.Object {
	t.Helper()
	var steps []operator.Step
	for _, def := range defs {
		ps, err := param.Parse(def)
		require.NoError(t, err)
		require.Len(t, ps, 1)
		obj, err := operator.Builtins[ps[0].Name](ps[0].Params)
		require.NoError(t, err)
		steps = append(steps, operator.Step{Op: obj, Modifiers: ps[0].Modifiers})
	}
	obj, err := operator.BuildPipeline("test", steps)
	require.NoError(t, err)
	return obj
}

func TestApplyForwardRunsStepsInOrder(t *testing.T) {
	obj := buildPipeline(t, "helmert translation=1,0,0", "helmert translation=0,1,0")
	set := oneTuple(coord.Tuple4[float64]{0, 0, 0, 0})
	fails, err := Apply(obj, coord.Fwd, set)
	require.NoError(t, err)
	assert.Equal(t, 0, fails)
	assert.Equal(t, coord.Tuple4[float64]{1, 1, 0, 0}, set.Get(0))
}

func TestApplyInverseRunsReversed(t *testing.T) {
	obj := buildPipeline(t, "helmert translation=1,0,0", "helmert translation=0,1,0")
	set := oneTuple(coord.Tuple4[float64]{1, 1, 0, 0})
	fails, err := Apply(obj, coord.Inv, set)
	require.NoError(t, err)
	assert.Equal(t, 0, fails)
	assert.Equal(t, coord.Tuple4[float64]{0, 0, 0, 0}, set.Get(0))
}

func TestApplyHonorsInvFlag(t *testing.T) {
	ps, err := param.Parse("inv helmert translation=1,0,0")
	require.NoError(t, err)
	obj0, err := operator.Builtins["helmert"](ps[0].Params)
	require.NoError(t, err)
	obj, err := operator.BuildPipeline("test", []operator.Step{{Op: obj0, Modifiers: ps[0].Modifiers}})
	require.NoError(t, err)

	set := oneTuple(coord.Tuple4[float64]{0, 0, 0, 0})
	fails, err := Apply(obj, coord.Fwd, set)
	require.NoError(t, err)
	assert.Equal(t, 0, fails)
	// inv flag means forward application runs the step's inverse kernel.
	assert.Equal(t, coord.Tuple4[float64]{-1, 0, 0, 0}, set.Get(0))
}

func TestApplyOmitFwdSkipsStepGoingForward(t *testing.T) {
	def := "helmert translation=1,0,0\n< helmert translation=0,1,0"
	ps, err := param.Parse(def)
	require.NoError(t, err)
	var steps []operator.Step
	for _, st := range ps {
		obj, err := operator.Builtins[st.Name](st.Params)
		require.NoError(t, err)
		steps = append(steps, operator.Step{Op: obj, Modifiers: st.Modifiers})
	}
	obj, err := operator.BuildPipeline("test", steps)
	require.NoError(t, err)

	fwdSet := oneTuple(coord.Tuple4[float64]{0, 0, 0, 0})
	fails, err := Apply(obj, coord.Fwd, fwdSet)
	require.NoError(t, err)
	assert.Equal(t, 0, fails)
	// the omit_fwd step never runs forward.
	assert.Equal(t, coord.Tuple4[float64]{1, 0, 0, 0}, fwdSet.Get(0))

	invSet := oneTuple(coord.Tuple4[float64]{1, 1, 0, 0})
	fails, err = Apply(obj, coord.Inv, invSet)
	require.NoError(t, err)
	assert.Equal(t, 0, fails)
	assert.Equal(t, coord.Tuple4[float64]{0, 0, 0, 0}, invSet.Get(0))
}

func TestApplyCountsFailuresOnceNotPerStep(t *testing.T) {
	obj := buildPipeline(t, "cart ellps=GRS80", "helmert translation=1,0,0", "cart inv ellps=GRS80")
	set := oneTuple(coord.NaN4[float64]())
	fails, err := Apply(obj, coord.Fwd, set)
	require.NoError(t, err)
	assert.Equal(t, 1, fails)
}

func TestApplyElementaryObjectTreatedAsOneStepPipeline(t *testing.T) {
	ps, err := param.Parse("helmert translation=1,2,3")
	require.NoError(t, err)
	obj, err := operator.Builtins["helmert"](ps[0].Params)
	require.NoError(t, err)

	set := oneTuple(coord.Tuple4[float64]{0, 0, 0, 0})
	fails, err := Apply(obj, coord.Fwd, set)
	require.NoError(t, err)
	assert.Equal(t, 0, fails)
	assert.Equal(t, coord.Tuple4[float64]{1, 2, 3, 0}, set.Get(0))
}

func TestOperandStackPushSwapPopRoundTrip(t *testing.T) {
	obj := buildPipeline(t, "push v_1,v_2", "swap", "pop v_1,v_2")
	set := oneTuple(coord.Tuple4[float64]{1, 2, 0, 0})
	fails, err := Apply(obj, coord.Fwd, set)
	require.NoError(t, err)
	assert.Equal(t, 0, fails)
	assert.Equal(t, coord.Tuple4[float64]{2, 1, 0, 0}, set.Get(0))
}
