package param

import "strings"

// GridRef names one grid file in a gridshift/deformation grid list, with
// the "@"-optional flag (missing file is skipped, not a hard failure).
type GridRef struct {
	Name     string
	Optional bool
}

// GridList is the parsed form of a grids= parameter value: an ordered
// list of grid references, tried left-to-right,
// plus whether the list ends in the "@null" pass-through terminator.
type GridList struct {
	Grids       []GridRef
	PassThrough bool
}

// GridListValue parses the comma-separated grid-name list at key.
func (p *Parameters) GridListValue(key string) (GridList, bool) {
	raw, ok := p.Raw(key)
	if !ok || raw == "" {
		return GridList{}, false
	}
	var gl GridList
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if part == "@null" {
			gl.PassThrough = true
			continue
		}
		optional := strings.HasPrefix(part, "@")
		name := strings.TrimPrefix(part, "@")
		gl.Grids = append(gl.Grids, GridRef{Name: name, Optional: optional})
	}
	return gl, true
}
