package operator

import (
	"strconv"
	"strings"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/busstoptaktik/geodesy/internal/ellipsoid"
	"github.com/busstoptaktik/geodesy/internal/gerr"
	"github.com/busstoptaktik/geodesy/internal/param"
)

// componentIndices parses a comma-separated list like "1,2,3" or
// "v_1,v_2" into zero-based tuple component indices.
func componentIndices(list string) ([]int, error) {
	parts := strings.Split(list, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		part = strings.TrimPrefix(part, "v_")
		part = strings.TrimPrefix(part, "v")
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, gerr.Newf(gerr.Construction, "not a component index: %q", part)
		}
		out = append(out, n-1)
	}
	return out, nil
}

// NewNoop constructs the identity operator: it ignores all arguments
// and returns the input unchanged in either direction (the universal
// invariant that "noop is the identity with any
// arguments").
func NewNoop(p *param.Parameters) (*Object, error) {
	identity := func(_ *Stack, pts coord.AnySet) (int, error) { return 0, nil }
	return NewElementary("noop", p, ellipsoid.Default(), identity, identity)
}

// NewPush constructs the push operator: for argument list (i1,...,ik)
// it reads component ij of every point, in order, and pushes k new
// vectors onto the stack so the last-named component becomes top of
// stack. Its inverse is pop with the same list.
func NewPush(p *param.Parameters) (*Object, error) {
	list, ok := p.Positional()
	if !ok {
		return nil, gerr.New(gerr.Construction, "push: missing component list")
	}
	indices, err := componentIndices(list)
	if err != nil {
		return nil, err
	}
	fwd := pushKernel(indices)
	inv := popKernel(indices)
	return NewElementary("push "+list, p, ellipsoid.Default(), fwd, inv)
}

// NewPop constructs the pop operator: it pops k vectors in reverse
// order of its argument list and writes them into the named
// components. Popping from an empty stack is an error. Its inverse
// is push with the same list.
func NewPop(p *param.Parameters) (*Object, error) {
	list, ok := p.Positional()
	if !ok {
		return nil, gerr.New(gerr.Construction, "pop: missing component list")
	}
	indices, err := componentIndices(list)
	if err != nil {
		return nil, err
	}
	fwd := popKernel(indices)
	inv := pushKernel(indices)
	return NewElementary("pop "+list, p, ellipsoid.Default(), fwd, inv)
}

func pushKernel(indices []int) Kernel {
	return func(stack *Stack, pts coord.AnySet) (int, error) {
		for _, idx := range indices {
			vec := make([]float64, pts.Len())
			for i := 0; i < pts.Len(); i++ {
				vec[i] = pts.Get(i)[idx]
			}
			stack.Push(vec)
		}
		return 0, nil
	}
}

func popKernel(indices []int) Kernel {
	return func(stack *Stack, pts coord.AnySet) (int, error) {
		for j := len(indices) - 1; j >= 0; j-- {
			vec, err := stack.Pop()
			if err != nil {
				return 0, err
			}
			idx := indices[j]
			for i := 0; i < pts.Len() && i < len(vec); i++ {
				v := pts.Get(i)
				v[idx] = vec[i]
				pts.Set(i, v)
			}
		}
		return 0, nil
	}
}

// NewSwap constructs the swap operator: it exchanges the top two
// vectors of the operand stack. It is its own inverse.
func NewSwap(p *param.Parameters) (*Object, error) {
	k := func(stack *Stack, _ coord.AnySet) (int, error) {
		return 0, stack.Swap()
	}
	return NewElementary("swap", p, ellipsoid.Default(), k, k)
}

// NewStackDup constructs the bare "stack" operator: it duplicates the
// top of the operand stack. The same kernel runs in both directions,
// so the inverse also duplicates the top; neither direction changes
// the coordinate set.
func NewStackDup(p *param.Parameters) (*Object, error) {
	k := func(stack *Stack, _ coord.AnySet) (int, error) {
		return 0, stack.Dup()
	}
	return NewElementary("stack", p, ellipsoid.Default(), k, k)
}
