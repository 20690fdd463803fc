package operator

import (
	"github.com/busstoptaktik/geodesy/internal/grid"
	"github.com/busstoptaktik/geodesy/internal/param"
)

// Constructor builds an elementary operator Object from its resolved
// parameters. Every builtin operator in this package has this shape
// except gridshift and deformation, which additionally need a grid
// provider (see GridConstructor below).
type Constructor func(p *param.Parameters) (*Object, error)

// GridConstructor is the shape of the two builtin operators whose
// numerical kernel depends on loaded grid data. The registry's caller
// (the Context that owns a grid.Provider) supplies it at construction
// time; nothing about the Kernel signature itself changes.
type GridConstructor func(p *param.Parameters, provider grid.Provider) (*Object, error)

// Builtins is the name -> constructor table for every elementary
// operator implemented directly by this package (the full numerical
// kernel list, plus noop/push/pop/swap/stack from
// 4.6). A registry layer above this package overlays user-defined
// macros on top of these names, and may shadow any of them.
var Builtins = map[string]Constructor{
	"noop":  NewNoop,
	"push":  NewPush,
	"pop":   NewPop,
	"swap":  NewSwap,
	"stack": NewStackDup,

	"cart":       NewCart,
	"helmert":    NewHelmert,
	"molodensky": NewMolodensky,

	"tmerc": NewTmerc,
	"utm":   NewUTM,

	"merc":    NewMerc,
	"webmerc": NewWebMerc,

	"lcc":  NewLCC,
	"laea": NewLAEA,

	"omerc":  NewOmerc,
	"somerc": NewSomerc,

	"latitude":  NewLatitude,
	"curvature": NewCurvature,

	"geodesic": NewGeodesic,

	"adapt":       NewAdapt,
	"axisswap":    NewAxisswap,
	"unitconvert": NewUnitconvert,
	"dm":          NewDM,
	"dms":         NewDMS,
}

// GridBuiltins is the name -> constructor table for the two operators
// that require a grid.Provider in addition to their parameters.
var GridBuiltins = map[string]GridConstructor{
	"gridshift":   NewGridshift,
	"deformation": NewDeformation,
}
