// Package grid implements the abstract grid-provider contract:
// bilinear interpolation over a named grid, the angular/linear
// classification rule, and grid-list (@-optional, @null) dispatch
// semantics. On-disk NTv2/Gravsoft decoding is left to an external
// collaborator; this package ships one concrete in-memory Provider
// usable standalone and
// by tests.
package grid

import (
	"sync"

	"github.com/pkg/errors"
)

// Grid is a single loaded correction grid: bilinear interpolation at a
// geographic point, plus a coverage test.
type Grid interface {
	// Contains reports whether (lon, lat), in radians, falls within
	// this grid's coverage.
	Contains(lon, lat float64) bool
	// Bilinear returns the interpolated correction vector at (lon,
	// lat), in the grid's native units (radians-as-arcsec-source for
	// angular grids, meters for linear grids -- see Classify).
	Bilinear(lon, lat float64) ([]float64, error)
	// Angular reports whether this grid's corrections are angular
	// (arc-seconds, converted to radians by the caller) as opposed to
	// linear (meters, unchanged).
	Angular() bool
}

// Provider loads a named grid. Context implementations delegate to a
// Provider supplied by the caller; the core treats it abstractly.
type Provider interface {
	Load(name string) (Grid, error)
}

// Static is a Provider backed by an in-memory map of pre-built grids,
// useful for tests and for embedding small built-in correction grids
// without any file I/O.
type Static struct {
	mu    sync.RWMutex
	grids map[string]Grid
}

// NewStatic returns an empty Static provider.
func NewStatic() *Static {
	return &Static{grids: map[string]Grid{}}
}

// Register adds (or replaces) a named grid.
func (s *Static) Register(name string, g Grid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grids[name] = g
}

// Load implements Provider.
func (s *Static) Load(name string) (Grid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.grids[name]
	if !ok {
		return nil, errors.Errorf("grid: unknown grid %q", name)
	}
	return g, nil
}

// Classify reports whether a grid whose declared extent is
// [minX, minY, maxX, maxY] is angular (arc-seconds) or linear
// (meters): if any boundary exceeds +-720, it is linear.
func Classify(minX, minY, maxX, maxY float64) (angular bool) {
	const bound = 720.0
	for _, v := range []float64{minX, minY, maxX, maxY} {
		if v > bound || v < -bound {
			return false
		}
	}
	return true
}

// Lookup implements the grid-list dispatch rule: try each grid left
// to right, use the first one whose Contains(lon,
// lat) is true. Missing (unloadable) optional grids are skipped rather
// than failing.
func Lookup(provider Provider, names []Ref, lon, lat float64) (Grid, error) {
	for _, ref := range names {
		g, err := provider.Load(ref.Name)
		if err != nil {
			if ref.Optional {
				continue
			}
			return nil, errors.Wrapf(err, "grid: loading required grid %q", ref.Name)
		}
		if g.Contains(lon, lat) {
			return g, nil
		}
	}
	return nil, nil
}

// Ref mirrors param.GridRef without importing the param package, so
// grid stays a leaf package with no imports from this module. Callers (internal/operator) convert param.GridRef into
// grid.Ref at construction time.
type Ref struct {
	Name     string
	Optional bool
}
