package operator

import (
	"math"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/busstoptaktik/geodesy/internal/ellipsoid"
	"github.com/busstoptaktik/geodesy/internal/gerr"
	"github.com/busstoptaktik/geodesy/internal/param"
)

// NewGeodesic constructs the geodesic direct/inverse operator:
// forward solves the direct
// problem (phi1, lam1, azimuth, distance) -> (phi2, lam2); inverse
// solves the inverse problem (phi1, lam1, phi2, lam2) -> packed
// (azimuth, distance) written back into components 1 and 2 (since
// neither a distance nor an azimuth is itself a coordinate tuple, this
// kernel reuses the existing tuple slots rather than returning a
// different shape, in keeping with every other kernel in this
// package). reversible=true additionally emits the return azimuth so
// round-tripping direct -> inverse recovers both endpoints and both
// azimuths.
//
// Uses Vincenty's (1975) iterative auxiliary-sphere formulation for
// both the direct and inverse problems. The inverse iteration is known
// to fail to converge for near-antipodal pairs (where successive
// lambda corrections oscillate rather than settle); geodesicInverse
// detects that case and reports it as a per-point failure (NaN'd by
// the caller) rather than returning a garbage answer.
func NewGeodesic(p *param.Parameters) (*Object, error) {
	ell, err := p.Ellipsoid()
	if err != nil {
		return nil, err
	}
	reversible := p.Bool("reversible")

	fwd := func(_ *Stack, pts coord.AnySet) (int, error) {
		fails := 0
		for i := 0; i < pts.Len(); i++ {
			v := pts.Get(i)
			if v.IsNaN() {
				fails++
				continue
			}
			phi1, lam1, azimuth, dist := v[0], v[1], v[2], v[3]
			phi2, lam2, revAz, err := geodesicDirect(ell, phi1, lam1, azimuth, dist)
			if err != nil {
				fails++
				pts.Set(i, coord.NaN4[float64]())
				continue
			}
			if reversible {
				pts.Set(i, coord.Tuple4[float64]{phi2, lam2, revAz, dist})
			} else {
				pts.Set(i, coord.Tuple4[float64]{phi2, lam2, 0, 0})
			}
		}
		return fails, nil
	}

	inv := func(_ *Stack, pts coord.AnySet) (int, error) {
		fails := 0
		for i := 0; i < pts.Len(); i++ {
			v := pts.Get(i)
			if v.IsNaN() {
				fails++
				continue
			}
			phi1, lam1, phi2, lam2 := v[0], v[1], v[2], v[3]
			dist, az1, az2, err := geodesicInverse(ell, phi1, lam1, phi2, lam2)
			if err != nil {
				fails++
				pts.Set(i, coord.NaN4[float64]())
				continue
			}
			if reversible {
				pts.Set(i, coord.Tuple4[float64]{az1, dist, az2, 0})
			} else {
				pts.Set(i, coord.Tuple4[float64]{az1, dist, 0, 0})
			}
		}
		return fails, nil
	}
	return NewElementary("geodesic", p, ell, fwd, inv)
}

// geodesicDirect solves the direct geodesic problem on ell by
// reducing to the auxiliary sphere (Vincenty 1975, section 4) and
// returns the destination point plus the forward azimuth at the
// destination.
func geodesicDirect(ell ellipsoid.Ellipsoid, phi1, lam1, alpha1, s float64) (phi2, lam2, revAz float64, err error) {
	f := ell.F()
	a := ell.A()
	b := ell.B()

	tanU1 := (1 - f) * math.Tan(phi1)
	cosU1 := 1 / math.Hypot(1, tanU1)
	sinU1 := tanU1 * cosU1

	sinAlpha1, cosAlpha1 := math.Sin(alpha1), math.Cos(alpha1)
	sigma1 := math.Atan2(tanU1, cosAlpha1)
	sinAlpha := cosU1 * sinAlpha1
	cosSqAlpha := 1 - sinAlpha*sinAlpha
	uSq := cosSqAlpha * (a*a - b*b) / (b * b)
	A := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	B := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))

	sigma := s / (b * A)
	var sinSigma, cosSigma, cos2SigmaM float64
	for i := 0; i < 200; i++ {
		cos2SigmaM = math.Cos(2*sigma1 + sigma)
		sinSigma = math.Sin(sigma)
		cosSigma = math.Cos(sigma)
		deltaSigma := B * sinSigma * (cos2SigmaM + B/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
			B/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
		sigmaNew := s/(b*A) + deltaSigma
		if math.Abs(sigmaNew-sigma) < 1e-13 {
			sigma = sigmaNew
			break
		}
		sigma = sigmaNew
	}

	tmp := sinU1*sinSigma - cosU1*cosSigma*cosAlpha1
	phi2 = math.Atan2(sinU1*cosSigma+cosU1*sinSigma*cosAlpha1,
		(1-f)*math.Hypot(sinAlpha, tmp))
	lam := math.Atan2(sinSigma*sinAlpha1, cosU1*cosSigma-sinU1*sinSigma*cosAlpha1)
	C := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
	L := lam - (1-C)*f*sinAlpha*(sigma+C*sinSigma*(cos2SigmaM+C*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
	lam2 = lam1 + L
	revAz = math.Atan2(sinAlpha, -tmp)
	return
}

// geodesicInverse solves the inverse geodesic problem (Vincenty 1975,
// section 3) by iterating on lambda until convergence.
func geodesicInverse(ell ellipsoid.Ellipsoid, phi1, lam1, phi2, lam2 float64) (dist, alpha1, alpha2 float64, err error) {
	f := ell.F()
	a := ell.A()
	b := ell.B()

	L := lam2 - lam1
	tanU1 := (1 - f) * math.Tan(phi1)
	tanU2 := (1 - f) * math.Tan(phi2)
	cosU1 := 1 / math.Hypot(1, tanU1)
	sinU1 := tanU1 * cosU1
	cosU2 := 1 / math.Hypot(1, tanU2)
	sinU2 := tanU2 * cosU2

	lambda := L
	var sinSigma, cosSigma, sigma, cosSqAlpha, cos2SigmaM, sinLambda, cosLambda float64
	converged := false
	for i := 0; i < 200; i++ {
		sinLambda, cosLambda = math.Sin(lambda), math.Cos(lambda)
		sinSigma = math.Hypot(cosU2*sinLambda, cosU1*sinU2-sinU1*cosU2*cosLambda)
		if sinSigma == 0 {
			return 0, 0, 0, nil // coincident points
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)
		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha
		if cosSqAlpha != 0 {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		} else {
			cos2SigmaM = 0
		}
		C := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
		lambdaNew := L + (1-C)*f*sinAlpha*(sigma+C*sinSigma*(cos2SigmaM+C*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
		if math.Abs(lambdaNew-lambda) < 1e-13 {
			lambda = lambdaNew
			converged = true
			break
		}
		lambda = lambdaNew
	}
	if !converged {
		return 0, 0, 0, gerr.New(gerr.Execution, "geodesic inverse failed to converge (near-antipodal pair)")
	}

	uSq := cosSqAlpha * (a*a - b*b) / (b * b)
	A := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	B := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	deltaSigma := B * sinSigma * (cos2SigmaM + B/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
		B/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
	dist = b * A * (sigma - deltaSigma)

	alpha1 = math.Atan2(cosU2*sinLambda, cosU1*sinU2-sinU1*cosU2*cosLambda)
	alpha2 = math.Atan2(cosU1*sinLambda, -sinU1*cosU2+cosU1*sinU2*cosLambda)
	return
}
