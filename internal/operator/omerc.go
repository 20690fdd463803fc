package operator

import (
	"math"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/busstoptaktik/geodesy/internal/gerr"
	"github.com/busstoptaktik/geodesy/internal/param"
)

// NewOmerc constructs the Hotine Oblique Mercator operator in azimuth
// form (lonc, alpha) or two-point form (lat_1, lon_1, lat_2, lon_2),
// selected by whether alpha or lon_1 is given; the two-point form takes
// lonc from lon_1 and alpha from the spherical azimuth from point 1 to
// point 2. It uses Snyder's constants B, A, E and tsfn, and returns the
// unrectified skew coordinates: x is v and y is u, with u measured from
// the natural origin. No centre offset (variant B's u_c) and no
// rotation to the rectified grid are applied, and no gamma parameter
// is read.
func NewOmerc(p *param.Parameters) (*Object, error) {
	ell, err := p.Ellipsoid()
	if err != nil {
		return nil, err
	}
	k0, err := floatOr(p, "k_0", 1)
	if err != nil {
		return nil, err
	}
	x0, err := floatOr(p, "x_0", 0)
	if err != nil {
		return nil, err
	}
	y0, err := floatOr(p, "y_0", 0)
	if err != nil {
		return nil, err
	}
	lat0, err := p.Angle("lat_0", 0)
	if err != nil {
		return nil, err
	}

	var lonc, alphaC float64
	if p.Has("alpha") {
		lonc, err = p.Angle("lonc", 0)
		if err != nil {
			return nil, err
		}
		alphaC, err = p.Angle("alpha", 0)
		if err != nil {
			return nil, err
		}
	} else if p.Has("lon_1") {
		lat1, _ := p.Angle("lat_1", 0)
		lon1, _ := p.Angle("lon_1", 0)
		lat2, _ := p.Angle("lat_2", 0)
		lon2, _ := p.Angle("lon_2", 0)
		alphaC = math.Atan2(math.Cos(lat2)*math.Sin(lon2-lon1),
			math.Cos(lat1)*math.Sin(lat2)-math.Sin(lat1)*math.Cos(lat2)*math.Cos(lon2-lon1))
		lonc = lon1
	} else {
		return nil, gerr.New(gerr.Construction, "omerc: requires lonc/alpha or lat_1/lon_1/lat_2/lon_2")
	}

	e2 := ell.E2()
	e := ell.E()
	a := ell.A()
	sinLat0, cosLat0 := math.Sin(lat0), math.Cos(lat0)
	B := math.Sqrt(1 + e2*cosLat0*cosLat0*cosLat0*cosLat0/(1-e2))
	A := a * B * math.Sqrt(1-e2) / (1 - e2*sinLat0*sinLat0)
	t0 := tsfn(lat0, sinLat0, e)
	D := B * math.Sqrt(1-e2) / (cosLat0 * math.Sqrt(1-e2*sinLat0*sinLat0))
	Dsq := math.Max(D*D, 1)
	F := D + sign64(lat0)*math.Sqrt(Dsq-1)
	E := F * math.Pow(t0, B)
	G := (F - 1/F) / 2
	gamma0 := math.Asin(math.Sin(alphaC) / D)
	lam0 := lonc - math.Asin(G*math.Tan(gamma0))/B

	fwd := func(_ *Stack, pts coord.AnySet) (int, error) {
		fails := 0
		for i := 0; i < pts.Len(); i++ {
			v := pts.Get(i)
			if v.IsNaN() {
				fails++
				continue
			}
			t := tsfn(v[1], math.Sin(v[1]), e)
			Q := E / math.Pow(t, B)
			S := (Q - 1/Q) / 2
			Tt := (Q + 1/Q) / 2
			Vv := math.Sin(B * (v[0] - lam0))
			Uu := (-Vv*math.Cos(gamma0) + S*math.Sin(gamma0)) / Tt
			v2 := math.Cos(B * (v[0] - lam0))
			u := A * math.Atan2(S*math.Cos(gamma0)+Vv*math.Sin(gamma0), v2) / B
			vv := A * math.Log((1-Uu)/(1+Uu)) / (2 * B)
			x := vv*k0 + x0
			y := u*k0 + y0
			pts.Set(i, coord.Tuple4[float64]{x, y, v[2], v[3]})
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
			vv := (v[0] - x0) / k0
			u := (v[1] - y0) / k0
			Qp := math.Exp(-B * vv / A)
			Sp := (Qp - 1/Qp) / 2
			Vp := math.Sin(B * u / A)
			Up := (Vp*math.Cos(gamma0) + Sp*math.Sin(gamma0)) / ((Qp+1/Qp)/2)
			t := math.Pow(E/math.Sqrt((1+Up)/(1-Up)), 1/B)
			phi, err := phi2(e, t)
			if err != nil {
				fails++
				pts.Set(i, coord.NaN4[float64]())
				continue
			}
			lam := lam0 - math.Atan2(Sp*math.Cos(gamma0)-Vp*math.Sin(gamma0), math.Cos(B*u/A))/B
			pts.Set(i, coord.Tuple4[float64]{lam, phi, v[2], v[3]})
		}
		return fails, nil
	}
	return NewElementary("omerc", p, ell, fwd, inv)
}

func sign64(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// NewSomerc constructs the somerc operator, a conformal double
// projection (via sphere): geographic -> the Swiss grid's Gaussian
// conformal sphere -> oblique stereographic development centered on
// lat_0. The planar step is stereographic, not the oblique Mercator
// development of the Swiss national grid, so coordinates away from the
// origin differ from Swiss grid values. Laborde's variant for
// Madagascar, which shares the sphere-mapping step, is not implemented.
func NewSomerc(p *param.Parameters) (*Object, error) {
	ell, err := p.Ellipsoid()
	if err != nil {
		return nil, err
	}
	lat0, err := p.Angle("lat_0", 0)
	if err != nil {
		return nil, err
	}
	lon0, err := p.Angle("lon_0", 0)
	if err != nil {
		return nil, err
	}
	k0, err := floatOr(p, "k_0", 1)
	if err != nil {
		return nil, err
	}
	x0, err := floatOr(p, "x_0", 0)
	if err != nil {
		return nil, err
	}
	y0, err := floatOr(p, "y_0", 0)
	if err != nil {
		return nil, err
	}

	e2 := ell.E2()
	a := ell.A()
	c := math.Sqrt(1 + e2*math.Pow(math.Cos(lat0), 4)/(1-e2))
	phi0s := math.Asin(math.Sin(lat0) / c)
	k1 := math.Log(math.Tan(math.Pi/4+phi0s/2)) - c*math.Log(math.Tan(math.Pi/4+lat0/2)) +
		c*ell.E()/2*math.Log((1+ell.E()*math.Sin(lat0))/(1-ell.E()*math.Sin(lat0)))
	R := a * math.Sqrt(1-e2) / (1 - e2*math.Sin(lat0)*math.Sin(lat0))

	toSphere := func(lam, phi float64) (lamS, phiS float64) {
		phiS = 2*math.Atan(math.Exp(c*math.Log(math.Tan(math.Pi/4+phi/2))+
			c*ell.E()/2*math.Log((1-ell.E()*math.Sin(phi))/(1+ell.E()*math.Sin(phi)))+k1)) - math.Pi/2
		lamS = c * lam
		return
	}
	fromSphere := func(lamS, phiS float64) (lam, phi float64) {
		phi = phiS
		for i := 0; i < 8; i++ {
			num := math.Log(math.Tan(math.Pi/4+phiS/2)) - k1 - c*ell.E()/2*math.Log((1-ell.E()*math.Sin(phi))/(1+ell.E()*math.Sin(phi)))
			phiNew := 2*math.Atan(math.Exp(num/c)) - math.Pi/2
			if math.Abs(phiNew-phi) < 1e-13 {
				phi = phiNew
				break
			}
			phi = phiNew
		}
		lam = lamS / c
		return
	}

	fwd := func(_ *Stack, pts coord.AnySet) (int, error) {
		fails := 0
		for i := 0; i < pts.Len(); i++ {
			v := pts.Get(i)
			if v.IsNaN() {
				fails++
				continue
			}
			lamS, phiS := toSphere(v[0]-lon0, v[1])
			cosPhiS, sinPhiS := math.Cos(phiS), math.Sin(phiS)
			sinDLam, cosDLam := math.Sin(lamS), math.Cos(lamS)
			b := 1 + math.Sin(phi0s)*sinPhiS + math.Cos(phi0s)*cosPhiS*cosDLam
			x := 2 * k0 * R * cosPhiS * sinDLam / b
			y := 2 * k0 * R * (math.Cos(phi0s)*sinPhiS - math.Sin(phi0s)*cosPhiS*cosDLam) / b
			pts.Set(i, coord.Tuple4[float64]{x + x0, y + y0, v[2], v[3]})
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
			x, y := (v[0]-x0)/k0, (v[1]-y0)/k0
			rho := math.Hypot(x, y)
			if rho < 1e-12 {
				lam, phi := fromSphere(0, phi0s)
				pts.Set(i, coord.Tuple4[float64]{lam + lon0, phi, v[2], v[3]})
				continue
			}
			cc := 2 * math.Atan(rho/(2*R))
			phiS := math.Asin(math.Cos(cc)*math.Sin(phi0s) + y*math.Sin(cc)*math.Cos(phi0s)/rho)
			lamS := math.Atan2(x*math.Sin(cc), rho*math.Cos(phi0s)*math.Cos(cc)-y*math.Sin(phi0s)*math.Sin(cc))
			lam, phi := fromSphere(lamS, phiS)
			pts.Set(i, coord.Tuple4[float64]{lam + lon0, phi, v[2], v[3]})
		}
		return fails, nil
	}
	return NewElementary("somerc", p, ell, fwd, inv)
}
