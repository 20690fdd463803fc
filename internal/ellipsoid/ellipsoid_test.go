package ellipsoid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByNameKnown(t *testing.T) {
	for _, name := range []string{"GRS80", "WGS84", "intl", "bessel", "sphere"} {
		e, ok := ByName(name)
		require.Truef(t, ok, "expected %s to be known", name)
		assert.Greater(t, e.A(), 0.0)
		assert.GreaterOrEqual(t, e.F(), 0.0)
	}
}

func TestByNameUnknown(t *testing.T) {
	_, ok := ByName("not-a-real-ellipsoid")
	assert.False(t, ok)
}

func TestSphereHasZeroFlattening(t *testing.T) {
	e, _ := ByName("sphere")
	assert.InDelta(t, 0.0, e.F(), 1e-12)
	assert.InDelta(t, e.A(), e.B(), 1e-6)
}

func TestMeridianArcAtEquatorIsZero(t *testing.T) {
	e := Default()
	assert.InDelta(t, 0.0, e.MeridianArc(0), 1e-6)
}

func TestMeridianArcAtPoleIsQuarterMeridian(t *testing.T) {
	e := Default()
	// WGS84/GRS80 quarter meridian is about 10001965.7 m.
	arc := e.MeridianArc(math.Pi / 2)
	assert.InDelta(t, 10001965.7, arc, 0.5)
}

func TestAuxiliaryLatitudesAtExtremes(t *testing.T) {
	e := Default()
	for _, phi := range []float64{0, math.Pi / 2, -math.Pi / 2} {
		assert.InDelta(t, phi, e.RectifyingLatitude(phi), 1e-9)
		assert.InDelta(t, phi, e.ConformalLatitude(phi), 1e-9)
		assert.InDelta(t, phi, e.AuthalicLatitude(phi), 1e-9)
		assert.InDelta(t, phi, e.ParametricLatitude(phi), 1e-9)
		assert.InDelta(t, phi, e.GeocentricLatitude(phi), 1e-9)
	}
}

func TestConformalLatitudeMonotonic(t *testing.T) {
	e := Default()
	prev := -math.Pi / 2
	for phi := -math.Pi/2 + 0.05; phi < math.Pi/2; phi += 0.05 {
		cur := e.ConformalLatitude(phi)
		assert.Greater(t, cur, prev)
		prev = cur
	}
}

func TestRadiiOfCurvaturePositive(t *testing.T) {
	e := Default()
	for phi := -math.Pi / 2; phi <= math.Pi/2; phi += 0.1 {
		assert.Greater(t, e.RadiusOfCurvatureMeridian(phi), 0.0)
		assert.Greater(t, e.RadiusOfCurvaturePrimeVertical(phi), 0.0)
		assert.Greater(t, e.RadiusOfCurvatureMean(phi), 0.0)
	}
}

func TestInvalidEllipsoid(t *testing.T) {
	_, err := New(-1, 0.003)
	assert.Error(t, err)
	_, err = New(6378137, 1.5)
	assert.Error(t, err)
}
