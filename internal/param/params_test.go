package param

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEllipsoidDefault(t *testing.T) {
	p := New()
	e, err := p.Ellipsoid()
	require.NoError(t, err)
	assert.InDelta(t, 6378137.0, e.A(), 1e-6)
}

func TestEllipsoidByName(t *testing.T) {
	p := New()
	p.set("ellps", "intl", true)
	e, err := p.Ellipsoid()
	require.NoError(t, err)
	assert.InDelta(t, 6378388.0, e.A(), 1e-6)
}

func TestEllipsoidUnknownName(t *testing.T) {
	p := New()
	p.set("ellps", "no-such-ellps", true)
	_, err := p.Ellipsoid()
	assert.Error(t, err)
}

func TestEllipsoidFromAF(t *testing.T) {
	p := New()
	p.set("a", "6378137", true)
	p.set("f", "0.0033528", true)
	e, err := p.Ellipsoid()
	require.NoError(t, err)
	assert.InDelta(t, 6378137.0, e.A(), 1e-3)
	assert.InDelta(t, 0.0033528, e.F(), 1e-9)
}

func TestFloatsList(t *testing.T) {
	p := New()
	p.set("translation", "-87,-96,-120", true)
	vals, err := p.Floats("translation")
	require.NoError(t, err)
	assert.Equal(t, []float64{-87, -96, -120}, vals)
}

func TestGridListParsing(t *testing.T) {
	p := New()
	p.set("grids", "a.gsb,@b.gsb,@null", true)
	gl, ok := p.GridListValue("grids")
	require.True(t, ok)
	require.Len(t, gl.Grids, 2)
	assert.Equal(t, "a.gsb", gl.Grids[0].Name)
	assert.False(t, gl.Grids[0].Optional)
	assert.Equal(t, "b.gsb", gl.Grids[1].Name)
	assert.True(t, gl.Grids[1].Optional)
	assert.True(t, gl.PassThrough)
}

func TestRequiredFloatMissing(t *testing.T) {
	p := New()
	_, err := p.RequireFloat("k_0")
	assert.Error(t, err)
}

func TestMacroRefAndDefaults(t *testing.T) {
	name, ok := MacroRef("$bar")
	require.True(t, ok)
	assert.Equal(t, "bar", name)

	_, ok = MacroRef("bar")
	assert.False(t, ok)

	lit, def, ok := ValueWithDefault("value(default)")
	require.True(t, ok)
	assert.Equal(t, "value", lit)
	assert.Equal(t, "default", def)

	lit, def, ok = ValueWithDefault("*1,0,0")
	require.True(t, ok)
	assert.Equal(t, "", lit)
	assert.Equal(t, "1,0,0", def)
}

func TestBoolFlagPresenceVsExplicit(t *testing.T) {
	p := New()
	p.set("reversible", "", true)
	p.set("abridged", "false", true)
	assert.True(t, p.Bool("reversible"))
	assert.False(t, p.Bool("abridged"))
	assert.False(t, p.Bool("not-present"))
}
