package operator

import (
	"strconv"
	"strings"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/busstoptaktik/geodesy/internal/ellipsoid"
	"github.com/busstoptaktik/geodesy/internal/gerr"
	"github.com/busstoptaktik/geodesy/internal/param"
)

// axisSpec parses one letter of an adapt/axisswap axis specification:
// an optional leading '-' negates the component, and the letter itself
// (e, n, u, t or a bare digit) selects which canonical component it
// maps to.
type axisSpec struct {
	index int
	sign  float64
}

func parseAxisLetter(c byte) (int, error) {
	switch c {
	case 'e', 'x', '1':
		return 0, nil
	case 'n', 'y', '2':
		return 1, nil
	case 'u', 'z', '3':
		return 2, nil
	case 't', '4':
		return 3, nil
	}
	return 0, gerr.Newf(gerr.Construction, "adapt: unrecognized axis letter %q", string(c))
}

func parseAxisString(s string) ([]axisSpec, error) {
	out := make([]axisSpec, 0, len(s))
	sign := 1.0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '-' {
			sign = -1
			continue
		}
		idx, err := parseAxisLetter(c)
		if err != nil {
			return nil, err
		}
		out = append(out, axisSpec{index: idx, sign: sign})
		sign = 1
	}
	return out, nil
}

// NewAdapt constructs the declarative axis/unit adapter: from=XXXX
// to=YYYY names the axis order and
// sign of the input and output representations (e.g. from=neu to=enu
// swaps the first two components); composing adapt from=X to=Y with
// adapt from=Y to=Z is equivalent to adapt from=X to=Z by construction,
// since both are pure permutations (with sign) of the same four slots.
func NewAdapt(p *param.Parameters) (*Object, error) {
	from, err := parseAxisString(p.String("from", "enut"))
	if err != nil {
		return nil, err
	}
	to, err := parseAxisString(p.String("to", "enut"))
	if err != nil {
		return nil, err
	}
	if len(from) != len(to) {
		return nil, gerr.New(gerr.Construction, "adapt: from= and to= must name the same number of axes")
	}
	ell := ellipsoid.Default()
	if e, err := p.Ellipsoid(); err == nil {
		ell = e
	}

	remap := func(v coord.Tuple4[float64], from, to []axisSpec) coord.Tuple4[float64] {
		canonical := coord.Tuple4[float64]{}
		for i, spec := range from {
			canonical[spec.index] = v[i] * spec.sign
		}
		out := v
		for i, spec := range to {
			out[i] = canonical[spec.index] * spec.sign
		}
		return out
	}

	fwd := func(_ *Stack, pts coord.AnySet) (int, error) {
		for i := 0; i < pts.Len(); i++ {
			pts.Set(i, remap(pts.Get(i), from, to))
		}
		return 0, nil
	}
	inv := func(_ *Stack, pts coord.AnySet) (int, error) {
		for i := 0; i < pts.Len(); i++ {
			pts.Set(i, remap(pts.Get(i), to, from))
		}
		return 0, nil
	}
	return NewElementary("adapt", p, ell, fwd, inv)
}

// NewAxisswap constructs the imperative-list form of axis reordering:
// a bare positional list like "2,1" (or "-2,1") permutes (and
// optionally negates) the components, read the same way push/pop read
// their component lists.
func NewAxisswap(p *param.Parameters) (*Object, error) {
	list, ok := p.Positional()
	if !ok {
		return nil, gerr.New(gerr.Construction, "axisswap: missing component list")
	}
	parts := strings.Split(list, ",")
	specs := make([]axisSpec, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		sign := 1.0
		if strings.HasPrefix(part, "-") {
			sign = -1
			part = part[1:]
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, gerr.Newf(gerr.Construction, "axisswap: not a component index: %q", part)
		}
		specs = append(specs, axisSpec{index: n - 1, sign: sign})
	}
	ell := ellipsoid.Default()
	if e, err := p.Ellipsoid(); err == nil {
		ell = e
	}
	fwd := func(_ *Stack, pts coord.AnySet) (int, error) {
		for i := 0; i < pts.Len(); i++ {
			v := pts.Get(i)
			out := v
			for j, spec := range specs {
				out[j] = v[spec.index] * spec.sign
			}
			pts.Set(i, out)
		}
		return 0, nil
	}
	inv := func(_ *Stack, pts coord.AnySet) (int, error) {
		for i := 0; i < pts.Len(); i++ {
			v := pts.Get(i)
			out := v
			for j, spec := range specs {
				out[spec.index] = v[j] * spec.sign
			}
			pts.Set(i, out)
		}
		return 0, nil
	}
	return NewElementary("axisswap", p, ell, fwd, inv)
}

// NewUnitconvert constructs the linear unit-scaling operator: xy_in/
// xy_out select a scale factor applied to the first two components
// (there is no single factor= form); z_in/z_out (defaulting to
// xy_in/xy_out) scale the third.
func NewUnitconvert(p *param.Parameters) (*Object, error) {
	xyFactor, err := unitFactor(p, "xy_in", "xy_out")
	if err != nil {
		return nil, err
	}
	zFactor, err := unitFactor(p, "z_in", "z_out")
	if err != nil {
		return nil, err
	}
	if !p.Has("z_in") && !p.Has("z_out") {
		zFactor = xyFactor
	}
	ell := ellipsoid.Default()
	if e, err := p.Ellipsoid(); err == nil {
		ell = e
	}
	fwd := func(_ *Stack, pts coord.AnySet) (int, error) {
		for i := 0; i < pts.Len(); i++ {
			v := pts.Get(i)
			v[0] *= xyFactor
			v[1] *= xyFactor
			v[2] *= zFactor
			pts.Set(i, v)
		}
		return 0, nil
	}
	inv := func(_ *Stack, pts coord.AnySet) (int, error) {
		for i := 0; i < pts.Len(); i++ {
			v := pts.Get(i)
			v[0] /= xyFactor
			v[1] /= xyFactor
			v[2] /= zFactor
			pts.Set(i, v)
		}
		return 0, nil
	}
	return NewElementary("unitconvert", p, ell, fwd, inv)
}

// unitsToMeter is the proj.4-derived unit-name to meter-factor table,
// extended with the
// angular units the geo:in/out and gis:in/out builtin macros convert
// through (xy_in=deg xy_out=rad and back).
var unitsToMeter = map[string]float64{
	"km": 1000, "m": 1.0, "dm": 0.1, "cm": 0.01, "mm": 0.001,
	"kmi": 1852.0, "in": 0.0254, "ft": 0.3048, "yd": 0.9144,
	"mi": 1609.344, "fath": 1.8288, "ch": 20.1168, "link": 0.201168,
	"us-in": 0.0254000508, "us-ft": 0.304800609601219,
	"us-yd": 0.914401828803658, "us-ch": 20.11684023368047,
	"us-mi": 1609.347218694437,
	"rad": 1.0, "deg": 3.14159265358979323846 / 180, "gon": 3.14159265358979323846 / 200,
}

func unitFactor(p *param.Parameters, inKey, outKey string) (float64, error) {
	toMeter := func(name string) (float64, error) {
		if name == "" {
			return 1, nil
		}
		f, ok := unitsToMeter[name]
		if !ok {
			return 0, gerr.Newf(gerr.Construction, "unitconvert: unknown unit %q", name)
		}
		return f, nil
	}
	in, err := toMeter(p.String(inKey, ""))
	if err != nil {
		return 0, err
	}
	out, err := toMeter(p.String(outKey, ""))
	if err != nil {
		return 0, err
	}
	if out == 0 {
		return 1, nil
	}
	return in / out, nil
}

// NewDM constructs the degree-minute encoding operator. Forward reads
// a raw "DDDMM.mmm"-packed (latitude, longitude) pair -- the
// conventional lat-first reading order of sexagesimal notation -- and
// decodes it directly into the internal (lon, lat) radian
// representation; inverse is the mirror, re-encoding internal radians
// back to packed lat-first text numbers. The axis swap is folded into
// the codec itself rather than left to a separate axisswap step, since
// "lat,lon packed degrees" is what a dm/dms-encoded value conventionally
// means on the wire.
func NewDM(p *param.Parameters) (*Object, error) {
	return newSexagesimalCodec(p, "dm", encodeDM, decodeDM)
}

// NewDMS constructs the degree-minute-second encoding operator,
// packing/unpacking "DDDMMSS.sss".
func NewDMS(p *param.Parameters) (*Object, error) {
	return newSexagesimalCodec(p, "dms", encodeDMS, decodeDMS)
}

func newSexagesimalCodec(p *param.Parameters, name string, encode, decode func(deg float64) float64) (*Object, error) {
	ell := ellipsoid.Default()
	if e, err := p.Ellipsoid(); err == nil {
		ell = e
	}
	const radToDeg = 180 / 3.14159265358979323846
	const degToRad = 3.14159265358979323846 / 180
	fwd := func(_ *Stack, pts coord.AnySet) (int, error) {
		for i := 0; i < pts.Len(); i++ {
			v := pts.Get(i)
			latDeg := decode(v[0])
			lonDeg := decode(v[1])
			v[0] = lonDeg * degToRad
			v[1] = latDeg * degToRad
			pts.Set(i, v)
		}
		return 0, nil
	}
	inv := func(_ *Stack, pts coord.AnySet) (int, error) {
		for i := 0; i < pts.Len(); i++ {
			v := pts.Get(i)
			lonDeg := v[0] * radToDeg
			latDeg := v[1] * radToDeg
			v[0] = encode(latDeg)
			v[1] = encode(lonDeg)
			pts.Set(i, v)
		}
		return 0, nil
	}
	return NewElementary(name, p, ell, fwd, inv)
}

func encodeDM(deg float64) float64 {
	sign := 1.0
	if deg < 0 {
		sign, deg = -1, -deg
	}
	d := float64(int(deg))
	m := (deg - d) * 60
	return sign * (d*100 + m)
}

func decodeDM(packed float64) float64 {
	sign := 1.0
	if packed < 0 {
		sign, packed = -1, -packed
	}
	d := float64(int(packed / 100))
	m := packed - d*100
	return sign * (d + m/60)
}

func encodeDMS(deg float64) float64 {
	sign := 1.0
	if deg < 0 {
		sign, deg = -1, -deg
	}
	d := float64(int(deg))
	rem := (deg - d) * 60
	m := float64(int(rem))
	s := (rem - m) * 60
	return sign * (d*10000 + m*100 + s)
}

func decodeDMS(packed float64) float64 {
	sign := 1.0
	if packed < 0 {
		sign, packed = -1, -packed
	}
	d := float64(int(packed / 10000))
	rem := packed - d*10000
	m := float64(int(rem / 100))
	s := rem - m*100
	return sign * (d + m/60 + s/3600)
}
