package coord

// AnySet is the canonical coordinate-set view the execution engine and
// every operator kernel operate on: a set of 4-component double tuples
// (east-ish, north-ish, up-ish, future-ish). Callers whose native storage is 2- or 3-
// component (or single precision) wrap it with Adapt2/Adapt3/Adapt4 so
// the engine stays monomorphic while the public Set[T] contract (coord.go)
// remains genuinely generic over tuple arity and precision.
type AnySet interface {
	Len() int
	Get(i int) Tuple4[float64]
	Set(i int, v Tuple4[float64])
}

// Adapt4 wraps set as an AnySet; Tuple4[float64] tuples pass through
// unconverted.
func Adapt4(set Set[Tuple4[float64]]) AnySet { return set4Adapter{set} }

type set4Adapter struct{ s Set[Tuple4[float64]] }

func (a set4Adapter) Len() int                      { return a.s.Len() }
func (a set4Adapter) Get(i int) Tuple4[float64]      { return a.s.Get(i) }
func (a set4Adapter) Set(i int, v Tuple4[float64])   { a.s.Set(i, v) }

// Adapt3 widens a 3-component double set to the canonical 4-component
// view; the time component reads/writes as 0.
func Adapt3(set Set[Tuple3[float64]]) AnySet { return set3Adapter{set} }

type set3Adapter struct{ s Set[Tuple3[float64]] }

func (a set3Adapter) Len() int { return a.s.Len() }
func (a set3Adapter) Get(i int) Tuple4[float64] {
	v := a.s.Get(i)
	return Tuple4[float64]{v[0], v[1], v[2], 0}
}
func (a set3Adapter) Set(i int, v Tuple4[float64]) {
	a.s.Set(i, Tuple3[float64]{v[0], v[1], v[2]})
}

// Adapt2 widens a 2-component double set to the canonical 4-component
// view; the height and time components read/write as 0.
func Adapt2(set Set[Tuple2[float64]]) AnySet { return set2Adapter{set} }

type set2Adapter struct{ s Set[Tuple2[float64]] }

func (a set2Adapter) Len() int { return a.s.Len() }
func (a set2Adapter) Get(i int) Tuple4[float64] {
	v := a.s.Get(i)
	return Tuple4[float64]{v[0], v[1], 0, 0}
}
func (a set2Adapter) Set(i int, v Tuple4[float64]) {
	a.s.Set(i, Tuple2[float64]{v[0], v[1]})
}

// Adapt2f32 widens a 2-component single-precision set to the canonical
// 4-component double view.
func Adapt2f32(set Set[Tuple2[float32]]) AnySet { return set2f32Adapter{set} }

type set2f32Adapter struct{ s Set[Tuple2[float32]] }

func (a set2f32Adapter) Len() int { return a.s.Len() }
func (a set2f32Adapter) Get(i int) Tuple4[float64] {
	v := a.s.Get(i)
	return Tuple4[float64]{float64(v[0]), float64(v[1]), 0, 0}
}
func (a set2f32Adapter) Set(i int, v Tuple4[float64]) {
	a.s.Set(i, Tuple2[float32]{float32(v[0]), float32(v[1])})
}
