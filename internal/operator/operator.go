// Package operator implements the operator object: a validated,
// immutable instance that is either elementary
// (forward/inverse kernel pair) or a pipeline (flat ordered sequence of
// elementary operators with per-step modifier flags), plus the operand
// stack and the numerical kernels themselves.
//
// Forward/Inverse generalizes directly into Kernel; the shared
// forward/inverse wrapper pattern (shared pre/post-processing
// around a per-implementation translator) is kept and reused by every
// projection kernel in this package.
package operator

import (
	"sync/atomic"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/busstoptaktik/geodesy/internal/ellipsoid"
	"github.com/busstoptaktik/geodesy/internal/gerr"
	"github.com/busstoptaktik/geodesy/internal/param"
)

// Kind tags which case of the operator-object variant an Object is.
type Kind int

const (
	Elementary Kind = iota
	Pipeline
)

// ID is an opaque operator identity, unique within a process.
type ID uint64

var nextID uint64

func newID() ID {
	return ID(atomic.AddUint64(&nextID, 1))
}

// Kernel is a forward or inverse numerical kernel: it mutates every
// point of pts in place and returns the number of points that failed
// individually (left as NaN) plus a non-nil error only for a
// catastrophic, whole-operation failure.
type Kernel func(stack *Stack, pts coord.AnySet) (nFailures int, err error)

// Step is one element of a built pipeline: the constructed elementary
// operator it invokes, and the modifier flags controlling whether/how
// it runs in a given apply direction.
type Step struct {
	Op        *Object
	Modifiers param.Modifiers
}

// Object is the immutable, validated operator instance. Elementary
// objects carry Fwd (required) and Inv
// (optional) kernels; pipeline objects carry a flat Steps sequence
// instead (and have nil Fwd/Inv -- see engine.Apply, which handles
// both Kinds uniformly by treating an elementary Object as a
// synthetic one-step pipeline).
type Object struct {
	Kind       Kind
	ID         ID
	Descriptor string
	Params     *param.Parameters
	Ellipsoid  ellipsoid.Ellipsoid
	Fwd        Kernel
	Inv        Kernel
	Steps      []Step
}

// HasInverse reports whether this operator can run in the inverse
// direction at all (an elementary kernel with no Inv, or a pipeline
// containing a step that cannot invert, is reported as non-invertible
// by the resolution that produced it -- see BuildPipeline's
// validation).
func (o *Object) HasInverse() bool {
	if o.Kind == Elementary {
		return o.Inv != nil
	}
	return true // validated at construction time
}

// NewElementary constructs a validated elementary Object. fwd must be
// non-nil; inv may be nil -- every step must have at least a
// forward kernel.
func NewElementary(descriptor string, params *param.Parameters, ell ellipsoid.Ellipsoid, fwd, inv Kernel) (*Object, error) {
	if fwd == nil {
		return nil, gerr.Newf(gerr.Construction, "operator %q: missing forward kernel", descriptor)
	}
	return &Object{
		Kind:       Elementary,
		ID:         newID(),
		Descriptor: descriptor,
		Params:     params,
		Ellipsoid:  ell,
		Fwd:        fwd,
		Inv:        inv,
	}, nil
}

// BuildPipeline constructs a PipelineObject from a flat or nested
// sequence of steps, inlining any step whose Op is itself a pipeline
// (recorded during macro expansion) with modifier flags merged by XOR
// for inv and OR for omit_fwd/omit_inv, then
// validates that every step has the kernel its effective direction
// will need, in both the forward and inverse whole-pipeline sense.
func BuildPipeline(descriptor string, steps []Step) (*Object, error) {
	flat := flatten(steps, param.Modifiers{})
	if len(flat) == 0 {
		return nil, gerr.New(gerr.Construction, "pipeline has no steps")
	}
	if err := validateDirection(flat, coord.Fwd); err != nil {
		return nil, err
	}
	if err := validateDirection(flat, coord.Inv); err != nil {
		return nil, err
	}
	return &Object{
		Kind:       Pipeline,
		ID:         newID(),
		Descriptor: descriptor,
		Steps:      flat,
	}, nil
}

func flatten(steps []Step, outer param.Modifiers) []Step {
	var out []Step
	for _, st := range steps {
		merged := param.Modifiers{
			Inv:     outer.Inv != st.Modifiers.Inv,
			OmitFwd: outer.OmitFwd || st.Modifiers.OmitFwd,
			OmitInv: outer.OmitInv || st.Modifiers.OmitInv,
		}
		if st.Op.Kind == Pipeline {
			out = append(out, flatten(st.Op.Steps, merged)...)
			continue
		}
		out = append(out, Step{Op: st.Op, Modifiers: merged})
	}
	return out
}

// validateDirection checks every step of a flattened pipeline has the
// kernel its effective direction needs when the whole pipeline is
// applied in dir, per the effective-direction rule (direction XOR
// step.inv_flag).
func validateDirection(steps []Step, dir coord.Direction) error {
	for i, st := range steps {
		if dir == coord.Fwd && st.Modifiers.OmitFwd {
			continue
		}
		if dir == coord.Inv && st.Modifiers.OmitInv {
			continue
		}
		effective := dir.Xor(st.Modifiers.Inv)
		if effective == coord.Fwd {
			if st.Op.Fwd == nil {
				return gerr.AtStep(gerr.Construction, i, "step has no forward kernel, required for "+dir.String()+" application")
			}
		} else {
			if st.Op.Inv == nil {
				return gerr.AtStep(gerr.Construction, i, "step has no inverse kernel, required for "+dir.String()+" application")
			}
		}
	}
	return nil
}
