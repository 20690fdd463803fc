package param

import (
	"strconv"
	"strings"

	"github.com/busstoptaktik/geodesy/internal/ellipsoid"
	"github.com/busstoptaktik/geodesy/internal/gerr"
)

// entry is one parsed key/value pair. Defined distinguishes a
// caller-supplied value from one injected by a macro default
// (the "defined vs default" flag).
type entry struct {
	value   string
	defined bool
}

// Parameters is the typed, ordered view of a step's parsed arguments.
// It also holds the step's resolved Ellipsoid (populated by a
// constructor via SetEllipsoid, defaulting to GRS80) and a scratch
// area constructors may use to stash precomputed
// state.
type Parameters struct {
	order  []string
	values map[string]entry
	ell    ellipsoid.Ellipsoid
	ellSet bool

	Scratch map[string]any
}

// New returns an empty Parameters store.
func New() *Parameters {
	return &Parameters{values: map[string]entry{}, Scratch: map[string]any{}}
}

// set stores a raw key/value pair, preserving insertion order and
// rejecting a duplicate key within one step.
func (p *Parameters) set(key, value string, defined bool) error {
	if _, dup := p.values[key]; dup {
		return gerr.Newf(gerr.Syntax, "duplicate key %q in step", key)
	}
	p.order = append(p.order, key)
	p.values[key] = entry{value: value, defined: defined}
	return nil
}

// SetRaw overwrites (or inserts) a raw value for key, used by the
// macro resolver to substitute $name references and inject
// caller-supplied context into an expanded step.
func (p *Parameters) SetRaw(key, value string, defined bool) {
	if _, ok := p.values[key]; !ok {
		p.order = append(p.order, key)
	}
	p.values[key] = entry{value: value, defined: defined}
}

// Raw returns the raw string value for key and whether it was present
// at all (defined or default).
func (p *Parameters) Raw(key string) (string, bool) {
	e, ok := p.values[key]
	return e.value, ok
}

// IsDefined reports whether key was explicitly supplied by the caller,
// as opposed to filled in from a macro default.
func (p *Parameters) IsDefined(key string) bool {
	return p.values[key].defined
}

// Has reports whether key is present at all.
func (p *Parameters) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Keys returns the parameter keys in insertion order.
func (p *Parameters) Keys() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Positional returns the first bare (no "=") token of the step, in
// source order -- the comma-separated component/index list taken by
// push/pop/axisswap and similar operators that use an imperative list
// rather than key=value arguments.
func (p *Parameters) Positional() (string, bool) {
	for _, key := range p.order {
		if e := p.values[key]; e.value == "" {
			return key, true
		}
	}
	return "", false
}

// Bool returns whether key is present as a boolean flag: bare presence
// (empty value) or explicit "true"/"false".
func (p *Parameters) Bool(key string) bool {
	e, ok := p.values[key]
	if !ok {
		return false
	}
	if e.value == "" {
		return true
	}
	b, err := strconv.ParseBool(e.value)
	if err != nil {
		return true
	}
	return b
}

// Float returns the float64 value of key, or def if absent.
func (p *Parameters) Float(key string, def float64) (float64, error) {
	e, ok := p.values[key]
	if !ok {
		return def, nil
	}
	f, err := strconv.ParseFloat(e.value, 64)
	if err != nil {
		return 0, gerr.AtParam(gerr.Construction, -1, key, "not a number: "+e.value)
	}
	return f, nil
}

// RequireFloat returns the float64 value of key, failing with a
// Construction error if absent.
func (p *Parameters) RequireFloat(key string) (float64, error) {
	if !p.Has(key) {
		return 0, gerr.AtParam(gerr.Construction, -1, key, "required parameter missing")
	}
	return p.Float(key, 0)
}

// Int returns the int value of key, or def if absent.
func (p *Parameters) Int(key string, def int) (int, error) {
	e, ok := p.values[key]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(e.value)
	if err != nil {
		return 0, gerr.AtParam(gerr.Construction, -1, key, "not an integer: "+e.value)
	}
	return n, nil
}

// String returns the string value of key, or def if absent.
func (p *Parameters) String(key, def string) string {
	e, ok := p.values[key]
	if !ok {
		return def
	}
	return e.value
}

// Floats parses a comma-separated numeric list.
func (p *Parameters) Floats(key string) ([]float64, error) {
	e, ok := p.values[key]
	if !ok {
		return nil, nil
	}
	parts := strings.Split(e.value, ",")
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, gerr.AtParam(gerr.Construction, -1, key, "not a numeric list: "+e.value)
		}
		out = append(out, f)
	}
	return out, nil
}

// Angle returns the angular value of key in radians, or def (radians)
// if absent. Source values are interpreted as decimal degrees, except
// the sexagesimal form dd:mm:ss.sss, which is converted to decimal
// degrees first.
func (p *Parameters) Angle(key string, defRadians float64) (float64, error) {
	e, ok := p.values[key]
	if !ok {
		return defRadians, nil
	}
	deg, err := ParseSexagesimal(e.value)
	if err != nil {
		return 0, gerr.AtParam(gerr.Construction, -1, key, err.Error())
	}
	return deg * degToRad, nil
}

const degToRad = 3.14159265358979323846 / 180.0

// ParseSexagesimal parses either a plain decimal-degree token or the
// sexagesimal form dd:mm:ss.sss (optionally with fewer components:
// dd:mm or bare dd) into decimal degrees. A leading '-' applies to the
// whole value.
func ParseSexagesimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ":") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, gerr.Newf(gerr.Syntax, "not an angle: %q", s)
		}
		return f, nil
	}
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, gerr.Newf(gerr.Syntax, "malformed sexagesimal value: %q", s)
	}
	var deg, min, sec float64
	var err error
	deg, err = strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, gerr.Newf(gerr.Syntax, "malformed sexagesimal value: %q", s)
	}
	if len(parts) > 1 {
		min, err = strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return 0, gerr.Newf(gerr.Syntax, "malformed sexagesimal value: %q", s)
		}
	}
	if len(parts) > 2 {
		sec, err = strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return 0, gerr.Newf(gerr.Syntax, "malformed sexagesimal value: %q", s)
		}
	}
	result := deg + min/60 + sec/3600
	if neg {
		result = -result
	}
	return result, nil
}

// SetEllipsoid stores the resolved ellipsoid for this step's
// constructor.
func (p *Parameters) SetEllipsoid(e ellipsoid.Ellipsoid) {
	p.ell = e
	p.ellSet = true
}

// Ellipsoid returns the step's resolved ellipsoid, resolving it from
// the ellps=/a=/rf=/f=/b= parameters (defaulting to GRS80) on first
// use and caching the result.
func (p *Parameters) Ellipsoid() (ellipsoid.Ellipsoid, error) {
	if p.ellSet {
		return p.ell, nil
	}
	e, err := ResolveEllipsoid(p)
	if err != nil {
		return ellipsoid.Ellipsoid{}, err
	}
	p.SetEllipsoid(e)
	return e, nil
}

// ResolveEllipsoid implements the ellps= resolution contract:
// ellps=name looks up the named table entry; a, b, f, rf
// may override/construct it directly; absent any of these, GRS80 is
// used.
func ResolveEllipsoid(p *Parameters) (ellipsoid.Ellipsoid, error) {
	base := ellipsoid.Default()
	if name := p.String("ellps", ""); name != "" {
		e, ok := ellipsoid.ByName(name)
		if !ok {
			return ellipsoid.Ellipsoid{}, gerr.AtParam(gerr.Construction, -1, "ellps", "unknown ellipsoid: "+name)
		}
		base = e
	}
	a, hasA, err := p.optFloat("a")
	if err != nil {
		return ellipsoid.Ellipsoid{}, err
	}
	if !hasA {
		a = base.A()
	}
	switch {
	case p.Has("b"):
		b, _, err := p.optFloat("b")
		if err != nil {
			return ellipsoid.Ellipsoid{}, err
		}
		return ellipsoid.NewFromAB(a, b)
	case p.Has("rf"):
		rf, _, err := p.optFloat("rf")
		if err != nil {
			return ellipsoid.Ellipsoid{}, err
		}
		return ellipsoid.New(a, 1/rf)
	case p.Has("f"):
		f, _, err := p.optFloat("f")
		if err != nil {
			return ellipsoid.Ellipsoid{}, err
		}
		return ellipsoid.New(a, f)
	case hasA:
		return ellipsoid.New(a, base.F())
	default:
		return base, nil
	}
}

func (p *Parameters) optFloat(key string) (float64, bool, error) {
	if !p.Has(key) {
		return 0, false, nil
	}
	f, err := p.Float(key, 0)
	return f, true, err
}
