package registry

// BuiltinMacros are the ordinary, non-privileged macros installed at
// the boundary between human-facing degrees and
// the internal (lon, lat, h, t) radian/meter convention:
//
//   - geo:in / geo:out convert a (lat, lon) degree pair (the
//     conventional geodetic reading order) to/from internal radians.
//   - gis:in / gis:out do the same for a (lon, lat) pair, already in
//     internal axis order, so only the unit conversion is needed.
//   - neu:out reorders an (E, N, …) output to (N, E, …), e.g. for
//     callers that want north-first map coordinates.
//
// These are registered exactly like any user macro; a caller's own
// registration of the same name shadows them.
var BuiltinMacros = map[string]string{
	"geo:in":  "axisswap 2,1 | unitconvert xy_in=deg xy_out=rad",
	"geo:out": "unitconvert xy_in=rad xy_out=deg | axisswap 2,1",
	"gis:in":  "unitconvert xy_in=deg xy_out=rad",
	"gis:out": "unitconvert xy_in=rad xy_out=deg",
	"neu:out": "axisswap 2,1",
}
