package operator

import (
	"testing"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/busstoptaktik/geodesy/internal/param"
	"github.com/stretchr/testify/require"
)

// buildStep parses a single-step definition and returns its parsed
// parameters, for constructors that take *param.Parameters directly.
func buildStep(t *testing.T, def string) *param.Parameters {
	t.Helper()
	steps, err := param.Parse(def)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	return steps[0].Params
}

func oneTuple(v coord.Tuple4[float64]) coord.AnySet {
	return coord.Adapt4(coord.Slice4[float64]{v})
}

func applyFwd(t *testing.T, obj *Object, pts coord.AnySet) int {
	t.Helper()
	n, err := obj.Fwd(NewStack(), pts)
	require.NoError(t, err)
	return n
}

func applyInv(t *testing.T, obj *Object, pts coord.AnySet) int {
	t.Helper()
	require.NotNil(t, obj.Inv)
	n, err := obj.Inv(NewStack(), pts)
	require.NoError(t, err)
	return n
}
