package ellipsoid

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// harmonicSeriesSin evaluates sum_{k=1..K} coeff[k-1] * sin(2*k*x) by
// direct per-term trig evaluation, reduced with gonum/floats.Dot rather
// than a hand-rolled accumulator loop. This is a direct sine-series
// evaluation, not Clenshaw's recurrence -- it does not use the
// backward two-term linear recurrence that lets Clenshaw's method
// avoid a per-term trig call.
func harmonicSeriesSin(x float64, coeff []float64) float64 {
	harmonics := make([]float64, len(coeff))
	for k := range coeff {
		harmonics[k] = math.Sin(2 * float64(k+1) * x)
	}
	return floats.Dot(coeff, harmonics)
}

// rectifyingCoefficients returns the series coefficients, in terms of
// third flattening n, for converting geographic latitude to
// rectifying latitude (Karney 2011, eq. 3), to 6th order in n.
func rectifyingCoefficients(n float64) []float64 {
	n2 := n * n
	n3 := n2 * n
	n4 := n3 * n
	n5 := n4 * n
	n6 := n5 * n
	return []float64{
		-3.0/2*n + 9.0/16*n3 - 3.0/32*n5,
		15.0/16*n2 - 15.0/32*n4 + 135.0/2048*n6,
		-35.0/48*n3 + 105.0/256*n5,
		315.0/512*n4 - 189.0/512*n6,
		-693.0/1280*n5,
		1001.0 / 2048 * n6,
	}
}

// MeridianArc returns the distance along the meridian from the
// equator to geographic latitude phi (radians), via the rectifying
// latitude series, to documented accuracy of better than 1e-9 a for
// |phi| <= pi/2.
func (e Ellipsoid) MeridianArc(phi float64) float64 {
	n := e.N()
	n2 := n * n
	A := e.a / (1 + n) * (1 + n2/4 + n2*n2/64)
	mu := phi + harmonicSeriesSin(phi, rectifyingCoefficients(n))
	return A * mu
}

// RectifyingLatitude converts geographic latitude phi to rectifying
// latitude mu, the latitude for which the meridian arc is linear.
func (e Ellipsoid) RectifyingLatitude(phi float64) float64 {
	n := e.N()
	return phi + harmonicSeriesSin(phi, rectifyingCoefficients(n))
}

// conformalCoefficients returns the series coefficients for converting
// geographic latitude to conformal latitude in terms of n (Karney
// 2011, eq. 8).
func conformalCoefficients(n float64) []float64 {
	n2 := n * n
	n3 := n2 * n
	n4 := n3 * n
	n5 := n4 * n
	n6 := n5 * n
	return []float64{
		-2*n + 2.0/3*n2 + 4.0/3*n3 - 82.0/45*n4 + 32.0/45*n5 + 4642.0/4725*n6,
		5.0/3*n2 - 16.0/15*n3 - 13.0/9*n4 + 904.0/315*n5 - 1522.0/945*n6,
		-26.0/15*n3 + 34.0/21*n4 + 8.0/5*n5 - 12686.0/2835*n6,
		1237.0/630*n4 - 12.0/5*n5 - 24832.0/14175*n6,
		-734.0/315*n5 + 109598.0/31185*n6,
		444337.0 / 155925 * n6,
	}
}

// ConformalLatitude converts geographic latitude phi to conformal
// latitude (the latitude under which the ellipsoid maps conformally to
// a sphere), used by merc/lcc/laea/stereographic-family kernels.
func (e Ellipsoid) ConformalLatitude(phi float64) float64 {
	n := e.N()
	return phi + harmonicSeriesSin(phi, conformalCoefficients(n))
}

// authalicCoefficients returns the series coefficients for converting
// geographic latitude to authalic latitude in terms of n.
func authalicCoefficients(n float64) []float64 {
	n2 := n * n
	n3 := n2 * n
	n4 := n3 * n
	return []float64{
		-4.0/3*n - 4.0/45*n2 + 88.0/315*n3 + 538.0/4725*n4,
		34.0/45*n2 + 8.0/105*n3 - 2482.0/14175*n4,
		-1532.0/2835*n3 - 898.0/14175*n4,
		6007.0 / 14175 * n4,
	}
}

// AuthalicLatitude converts geographic latitude phi to authalic
// latitude (equal-area), used by laea.
func (e Ellipsoid) AuthalicLatitude(phi float64) float64 {
	n := e.N()
	return phi + harmonicSeriesSin(phi, authalicCoefficients(n))
}

// ParametricLatitude converts geographic latitude phi to parametric
// (reduced) latitude beta, exact closed form tan(beta) = (1-f) tan(phi).
func (e Ellipsoid) ParametricLatitude(phi float64) float64 {
	return math.Atan((1 - e.f) * math.Tan(phi))
}

// GeocentricLatitude converts geographic latitude phi to geocentric
// latitude, exact closed form tan(psi) = (1-e^2) tan(phi).
func (e Ellipsoid) GeocentricLatitude(phi float64) float64 {
	return math.Atan((1 - e.E2()) * math.Tan(phi))
}
