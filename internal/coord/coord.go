// Package coord implements the polymorphic coordinate-tuple and
// coordinate-set abstractions the execution engine and every operator
// kernel are generic over, plus the Fwd/Inv direction tag.
//
// Internal convention: angular components are
// radians, linear components are meters, an optional fourth component
// is time in decimal years. NaN marks "missing/invalid" and must be
// propagated, never silently replaced.
package coord

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Direction selects which kernel of an operator (forward or inverse) a
// step runs.
type Direction bool

const (
	// Fwd is the forward direction.
	Fwd Direction = false
	// Inv is the inverse direction.
	Inv Direction = true
)

func (d Direction) String() string {
	if d == Inv {
		return "inv"
	}
	return "fwd"
}

// Toggle returns the opposite direction.
func (d Direction) Toggle() Direction { return !d }

// Xor computes the effective direction of a pipeline step: the
// invocation direction XOR-ed with the step's own inv flag.
func (d Direction) Xor(invFlag bool) Direction {
	return Direction(bool(d) != invFlag)
}

// Tuple2 is a 2-component coordinate tuple, generic over the float
// precision (float64 for the common case, float32 for the spec's
// single-precision variant).
type Tuple2[F constraints.Float] [2]F

// Tuple3 is a 3-component coordinate tuple.
type Tuple3[F constraints.Float] [3]F

// Tuple4 is a 4-component coordinate tuple (the fourth component is
// conventionally time, in decimal years).
type Tuple4[F constraints.Float] [4]F

// IsNaN reports whether any component of t is NaN.
func (t Tuple2[F]) IsNaN() bool { return isNaN(t[0]) || isNaN(t[1]) }

// IsNaN reports whether any component of t is NaN.
func (t Tuple3[F]) IsNaN() bool { return isNaN(t[0]) || isNaN(t[1]) || isNaN(t[2]) }

// IsNaN reports whether any component of t is NaN.
func (t Tuple4[F]) IsNaN() bool {
	return isNaN(t[0]) || isNaN(t[1]) || isNaN(t[2]) || isNaN(t[3])
}

func isNaN[F constraints.Float](f F) bool { return math.IsNaN(float64(f)) }

// NaN2 returns a 2-tuple with every component set to NaN.
func NaN2[F constraints.Float]() Tuple2[F] {
	n := F(math.NaN())
	return Tuple2[F]{n, n}
}

// NaN3 returns a 3-tuple with every component set to NaN.
func NaN3[F constraints.Float]() Tuple3[F] {
	n := F(math.NaN())
	return Tuple3[F]{n, n, n}
}

// NaN4 returns a 4-tuple with every component set to NaN.
func NaN4[F constraints.Float]() Tuple4[F] {
	n := F(math.NaN())
	return Tuple4[F]{n, n, n, n}
}

// Set is the minimal capability an index-addressable, length-queryable
// collection of fixed-arity tuples must provide. The execution engine
// and every kernel are generic over this contract so callers may supply
// their own backing array. An empty set is legal.
type Set[T any] interface {
	Len() int
	Get(i int) T
	Set(i int, v T)
}

// Slice2/Slice3/Slice4 are the reference Set[T] implementations backed
// by a plain Go slice -- the minimal caller-supplied backing array.
type Slice2[F constraints.Float] []Tuple2[F]

func (s Slice2[F]) Len() int            { return len(s) }
func (s Slice2[F]) Get(i int) Tuple2[F] { return s[i] }
func (s Slice2[F]) Set(i int, v Tuple2[F]) { s[i] = v }

type Slice3[F constraints.Float] []Tuple3[F]

func (s Slice3[F]) Len() int            { return len(s) }
func (s Slice3[F]) Get(i int) Tuple3[F] { return s[i] }
func (s Slice3[F]) Set(i int, v Tuple3[F]) { s[i] = v }

type Slice4[F constraints.Float] []Tuple4[F]

func (s Slice4[F]) Len() int            { return len(s) }
func (s Slice4[F]) Get(i int) Tuple4[F] { return s[i] }
func (s Slice4[F]) Set(i int, v Tuple4[F]) { s[i] = v }
