// Package ellipsoid implements the reference-ellipsoid value type and
// its derived geometric quantities: axis lengths, eccentricities,
// radii of curvature, and the directly-evaluated auxiliary-latitude
// and meridian-arc sine series used by the projection kernels.
//
// Generalized from a derive-on-construct model to one that also
// exposes the auxiliary-latitude series needed by the conformal and
// equal-area projection kernels.
package ellipsoid

import (
	"math"

	"github.com/busstoptaktik/geodesy/internal/gerr"
)

// Ellipsoid is an immutable value describing the size and shape of a
// reference figure: equatorial radius a, optional second equatorial
// radius ay (triaxial support, unused by every in-scope kernel --
// see DESIGN.md's Open Question decisions), and flattening f.
type Ellipsoid struct {
	a  float64
	ay float64
	f  float64
}

// New constructs an Ellipsoid from semi-major axis a and flattening f,
// validating 0 <= f < 1 and a > 0.
func New(a, f float64) (Ellipsoid, error) {
	return NewTriaxial(a, a, f)
}

// NewTriaxial constructs an Ellipsoid with a distinct second equatorial
// radius ay.
func NewTriaxial(a, ay, f float64) (Ellipsoid, error) {
	if a <= 0 {
		return Ellipsoid{}, gerr.New(gerr.Construction, "ellipsoid: a must be > 0")
	}
	if ay <= 0 {
		return Ellipsoid{}, gerr.New(gerr.Construction, "ellipsoid: ay must be > 0")
	}
	if f < 0 || f >= 1 {
		return Ellipsoid{}, gerr.New(gerr.Construction, "ellipsoid: f must satisfy 0 <= f < 1")
	}
	return Ellipsoid{a: a, ay: ay, f: f}, nil
}

// NewFromAB constructs an Ellipsoid from semi-major and semi-minor axes.
func NewFromAB(a, b float64) (Ellipsoid, error) {
	if a <= 0 || b <= 0 {
		return Ellipsoid{}, gerr.New(gerr.Construction, "ellipsoid: a and b must be > 0")
	}
	return New(a, 1-b/a)
}

// A returns the semi-major (equatorial) axis.
func (e Ellipsoid) A() float64 { return e.a }

// Ay returns the second equatorial axis (triaxial support). Equal to A
// for every ellipsoid constructed via New.
func (e Ellipsoid) Ay() float64 { return e.ay }

// F returns the flattening.
func (e Ellipsoid) F() float64 { return e.f }

// B returns the semi-minor (polar) axis.
func (e Ellipsoid) B() float64 { return e.a * (1 - e.f) }

// E2 returns the first eccentricity squared.
func (e Ellipsoid) E2() float64 { return e.f * (2 - e.f) }

// E returns the first eccentricity.
func (e Ellipsoid) E() float64 { return math.Sqrt(e.E2()) }

// E2Second returns the second eccentricity squared.
func (e Ellipsoid) E2Second() float64 {
	e2 := e.E2()
	return e2 / (1 - e2)
}

// N returns the third flattening n = f / (2 - f).
func (e Ellipsoid) N() float64 { return e.f / (2 - e.f) }

// LinearEccentricity returns sqrt(a^2 - b^2).
func (e Ellipsoid) LinearEccentricity() float64 {
	b := e.B()
	return math.Sqrt(e.a*e.a - b*b)
}

// PolarRadiusOfCurvature returns a^2 / b.
func (e Ellipsoid) PolarRadiusOfCurvature() float64 {
	return e.a * e.a / e.B()
}

// RadiusOfCurvatureMeridian returns the meridional (north-south) radius
// of curvature M at geographic latitude phi (radians).
func (e Ellipsoid) RadiusOfCurvatureMeridian(phi float64) float64 {
	e2 := e.E2()
	sinPhi := math.Sin(phi)
	denom := 1 - e2*sinPhi*sinPhi
	return e.a * (1 - e2) / math.Pow(denom, 1.5)
}

// RadiusOfCurvaturePrimeVertical returns the prime-vertical (east-west)
// radius of curvature N at geographic latitude phi (radians).
func (e Ellipsoid) RadiusOfCurvaturePrimeVertical(phi float64) float64 {
	e2 := e.E2()
	sinPhi := math.Sin(phi)
	return e.a / math.Sqrt(1-e2*sinPhi*sinPhi)
}

// RadiusOfCurvatureMean returns the Gaussian mean radius of curvature
// at geographic latitude phi.
func (e Ellipsoid) RadiusOfCurvatureMean(phi float64) float64 {
	m := e.RadiusOfCurvatureMeridian(phi)
	n := e.RadiusOfCurvaturePrimeVertical(phi)
	return math.Sqrt(m * n)
}

// RadiusOfCurvatureNormalSection returns the radius of curvature in a
// normal section making azimuth alpha (radians) with the meridian at
// latitude phi (Euler's formula).
func (e Ellipsoid) RadiusOfCurvatureNormalSection(phi, alpha float64) float64 {
	m := e.RadiusOfCurvatureMeridian(phi)
	n := e.RadiusOfCurvaturePrimeVertical(phi)
	c := math.Cos(alpha)
	s := math.Sin(alpha)
	return 1 / (c*c/m + s*s/n)
}

// byNameTable maps mnemonic ellipsoid names to their canonical a/f
// pair.
var byNameTable = map[string]Ellipsoid{
	"GRS80":     mustNew(6378137.0, 1/298.257222101),
	"WGS84":     mustNew(6378137.0, 1/298.257223563),
	"WGS72":     mustNew(6378135.0, 1/298.26),
	"intl":      mustNew(6378388.0, 1/297.0),
	"bessel":    mustNew(6377397.155, 1/299.1528128),
	"clrk66":    mustNewAB(6378206.4, 6356583.8),
	"clrk80ign": mustNew(6378249.2, 1/293.4660212936269),
	"airy":      mustNewAB(6377563.396, 6356256.910),
	"mod_airy":  mustNewAB(6377340.189, 6356034.446),
	"krass":     mustNew(6378245.0, 1/298.3),
	"sphere":    mustNewAB(6370997.0, 6370997.0),
	"MERIT":     mustNew(6378137.0, 1/298.257),
	"GRS67":     mustNew(6378160.0, 1/298.2471674270),
	"new_intl":  mustNewAB(6378157.5, 6356772.2),
}

func mustNew(a, f float64) Ellipsoid {
	e, err := New(a, f)
	if err != nil {
		panic(err)
	}
	return e
}

func mustNewAB(a, b float64) Ellipsoid {
	e, err := NewFromAB(a, b)
	if err != nil {
		panic(err)
	}
	return e
}

// ByName looks up a canonical ellipsoid by mnemonic name. Unknown
// names return ok == false; the caller (typically param.Parameters.Ellipsoid)
// turns this into a Construction error.
func ByName(name string) (Ellipsoid, bool) {
	e, ok := byNameTable[name]
	return e, ok
}

// Default is the ellipsoid used when a constructor's ellps= parameter
// is absent.
func Default() Ellipsoid {
	e, _ := ByName("GRS80")
	return e
}
