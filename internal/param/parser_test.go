package param

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSingleStep(t *testing.T) {
	steps, err := Parse("utm zone=32 ellps=GRS80")
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, "utm", steps[0].Name)
	assert.Equal(t, "32", steps[0].Params.String("zone", ""))
	assert.Equal(t, "GRS80", steps[0].Params.String("ellps", ""))
}

func TestParsePipeline(t *testing.T) {
	steps, err := Parse("cart ellps=intl | helmert translation=-87,-96,-120 | cart inv ellps=GRS80")
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, "cart", steps[0].Name)
	assert.Equal(t, "helmert", steps[1].Name)
	assert.Equal(t, "cart", steps[2].Name)
	assert.True(t, steps[2].Modifiers.Inv)
}

func TestModifiersRemovedFromParams(t *testing.T) {
	steps, err := Parse("tmerc inv lon_0=9")
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.True(t, steps[0].Modifiers.Inv)
	assert.False(t, steps[0].Params.Has("inv"))
}

func TestBareFlag(t *testing.T) {
	steps, err := Parse("geodesic reversible")
	require.NoError(t, err)
	assert.True(t, steps[0].Params.Bool("reversible"))
}

func TestMissingOperatorName(t *testing.T) {
	_, err := Parse("zone=32")
	assert.Error(t, err)
}

func TestDuplicateKey(t *testing.T) {
	_, err := Parse("utm zone=32 zone=33")
	assert.Error(t, err)
}

func TestEmptyDefinitionError(t *testing.T) {
	_, err := Parse("")
	assert.Error(t, err)
}

func TestRegisterSugarOmitInvAndOmitFwd(t *testing.T) {
	// a multi-line register with >
	// and < sugar expands so the >-step is present forward and absent
	// inverse, and vice versa for <.
	def := "noop\n> helmert translation=1,0,0\n< helmert translation=2,0,0\n"
	steps, err := Parse(def)
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.False(t, steps[0].Modifiers.OmitFwd)
	assert.False(t, steps[0].Modifiers.OmitInv)
	assert.True(t, steps[1].Modifiers.OmitInv)
	assert.False(t, steps[1].Modifiers.OmitFwd)
	assert.True(t, steps[2].Modifiers.OmitFwd)
	assert.False(t, steps[2].Modifiers.OmitInv)
}

func TestContinuationLine(t *testing.T) {
	def := "helmert translation=1,2,3\n: rotation=4,5,6 convention=position_vector\n"
	steps, err := Parse(def)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, "1,2,3", steps[0].Params.String("translation", ""))
	assert.Equal(t, "4,5,6", steps[0].Params.String("rotation", ""))
}

func TestCommentsAndBlankLinesIgnored(t *testing.T) {
	def := "# a comment\n\nnoop\n\n# trailing\n"
	steps, err := Parse(def)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, "noop", steps[0].Name)
}

func TestRegisterNamespacedOperatorName(t *testing.T) {
	steps, err := Parse("myregister:mymacro a=1")
	require.NoError(t, err)
	reg, op, ok := IsRegisterRef(steps[0].Name)
	require.True(t, ok)
	assert.Equal(t, "myregister", reg)
	assert.Equal(t, "mymacro", op)
}

func TestSexagesimalAngle(t *testing.T) {
	steps, err := Parse("geodesic lat_1=55:30:36")
	require.NoError(t, err)
	rad, err := steps[0].Params.Angle("lat_1", 0)
	require.NoError(t, err)
	assert.InDelta(t, 55.51*degToRad, rad, 1e-6)
}
