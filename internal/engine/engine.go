// Package engine implements the execution engine: applying a
// constructed operator.Object to a coordinate set in a chosen
// direction, honoring each step's inv/omit_fwd/omit_inv modifiers and
// the per-invocation operand stack used by push/pop/stack.
package engine

import (
	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/busstoptaktik/geodesy/internal/gerr"
	"github.com/busstoptaktik/geodesy/internal/operator"
	"github.com/busstoptaktik/geodesy/internal/param"
)

// Apply runs obj over pts in direction dir, returning the number of
// points that failed individually (left as NaN by some step) and a
// non-nil error only for a catastrophic, whole-operation failure.
//
// An elementary Object is treated as a synthetic one-step pipeline so
// the traversal logic below is single and uniform: steps run in
// forward order for Direction Fwd and reverse order for Direction Inv,
// each step's effective direction is dir XOR its own inv flag, and
// omit_fwd/omit_inv skip a step entirely in the matching outer
// direction.
func Apply(obj *operator.Object, dir coord.Direction, pts coord.AnySet) (int, error) {
	steps := stepsOf(obj)
	stack := operator.NewStack()

	order := make([]int, len(steps))
	if dir == coord.Fwd {
		for i := range order {
			order[i] = i
		}
	} else {
		for i := range order {
			order[i] = len(steps) - 1 - i
		}
	}

	for _, idx := range order {
		st := steps[idx]
		if dir == coord.Fwd && st.Modifiers.OmitFwd {
			continue
		}
		if dir == coord.Inv && st.Modifiers.OmitInv {
			continue
		}
		effective := dir.Xor(st.Modifiers.Inv)

		kernel := st.Op.Fwd
		if effective == coord.Inv {
			kernel = st.Op.Inv
		}
		if kernel == nil {
			return countFailures(pts), gerr.AtStep(gerr.Construction, idx, "step has no kernel for its effective direction")
		}
		// The kernel's own per-step failure count is not accumulated
		// directly: a point that failed in an earlier step stays NaN
		// and a later kernel sees it as NaN too, which would double
		// count the same point. The failure count returned to the
		// caller is instead derived once, at the end, from how many
		// points are actually left NaN.
		if _, err := kernel(stack, pts); err != nil {
			return countFailures(pts), gerr.Wrap(gerr.Execution, idx, "", err, "step failed")
		}
	}
	return countFailures(pts), nil
}

func countFailures(pts coord.AnySet) int {
	n := 0
	for i := 0; i < pts.Len(); i++ {
		if pts.Get(i).IsNaN() {
			n++
		}
	}
	return n
}

func stepsOf(obj *operator.Object) []operator.Step {
	if obj.Kind == operator.Pipeline {
		return obj.Steps
	}
	return []operator.Step{{Op: obj, Modifiers: param.Modifiers{}}}
}
