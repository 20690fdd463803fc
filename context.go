// Package geodesy is the public entry point to the transformation
// engine: a Context owns the operator/macro registry and grid
// provider, builds OpHandles from definition strings, and applies
// them to coordinate sets.
package geodesy

import (
	"sync"

	"github.com/busstoptaktik/geodesy/internal/coord"
	"github.com/busstoptaktik/geodesy/internal/engine"
	"github.com/busstoptaktik/geodesy/internal/gerr"
	"github.com/busstoptaktik/geodesy/internal/grid"
	"github.com/busstoptaktik/geodesy/internal/operator"
	"github.com/busstoptaktik/geodesy/internal/registry"
	"github.com/sirupsen/logrus"
)

// OpHandle is an opaque reference to a constructed operator, returned
// by Context.Op and consumed by Context.Apply/Steps/Params. It carries
// no exported fields so callers cannot forge one.
type OpHandle struct {
	id operator.ID
}

// Direction re-exports coord.Direction at the package boundary so
// callers of Apply never need to import an internal package.
type Direction = coord.Direction

const (
	Fwd Direction = coord.Fwd
	Inv Direction = coord.Inv
)

// Context is the sole entry point for construction and execution
// It owns the operator/macro registry, the grid provider, a diagnostic sink, and the
// append-only store of constructed operators. A Context is not safe
// for concurrent mutation of its registry from multiple goroutines,
// but once an OpHandle exists, Apply on that handle may run
// concurrently with other Apply calls.
type Context struct {
	mu       sync.RWMutex
	reg      *registry.Registry
	objects  map[operator.ID]*operator.Object
	provider grid.Provider
	log      *logrus.Logger
}

// ContextOption configures a Context at construction time.
type ContextOption func(*Context)

// WithGridProvider overrides the default in-memory grid provider
// (used by gridshift/deformation) with a caller-supplied one, e.g. one
// backed by on-disk NTv2/Gravsoft files.
func WithGridProvider(p grid.Provider) ContextOption {
	return func(c *Context) { c.provider = p }
}

// WithLogger overrides the default logrus logger used for the
// diagnostic sink.
func WithLogger(l *logrus.Logger) ContextOption {
	return func(c *Context) { c.log = l }
}

func newContext(opts ...ContextOption) *Context {
	c := &Context{
		objects:  map[operator.ID]*operator.Object{},
		provider: grid.NewStatic(),
		log:      logrus.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.reg = registry.New(c.provider)
	return c
}

// Minimal returns a Context seeded only with the builtin operators and
// macros -- no register-file search path. Suitable for embedding and
// for tests.
func Minimal(opts ...ContextOption) *Context {
	return newContext(opts...)
}

// Plain returns a Context built exactly as Minimal builds one. Text
// register files are loaded into either kind through LoadRegisterFile;
// neither constructor reads register files from a search path.
func Plain(opts ...ContextOption) *Context {
	return newContext(opts...)
}

// Op parses def, resolves every macro it invokes, constructs the
// resulting operator tree, and stores it under a fresh handle.
func (c *Context) Op(def string) (OpHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	obj, err := c.reg.Op(def)
	if err != nil {
		c.log.WithError(err).WithField("definition", def).Debug("operator construction failed")
		return OpHandle{}, err
	}
	c.objects[obj.ID] = obj
	return OpHandle{id: obj.ID}, nil
}

// RegisterOp installs or shadows a built-in elementary-operator
// constructor under name. A user registration always wins on a name
// clash with a built-in.
func (c *Context) RegisterOp(name string, ctor registry.Constructor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reg.RegisterOp(name, ctor)
}

// RegisterGridOp installs or shadows a grid-dependent constructor.
func (c *Context) RegisterGridOp(name string, ctor registry.GridConstructor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reg.RegisterGridOp(name, ctor)
}

// RegisterMacro installs or shadows a macro body under name.
func (c *Context) RegisterMacro(name, body string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reg.RegisterMacro(name, body)
}

// LoadRegisterFile parses content as a text register file and
// installs its macros namespaced by baseName.
func (c *Context) LoadRegisterFile(baseName, content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reg.LoadRegisterFile(baseName, content)
}

// Apply runs the operator behind handle over pts in direction dir,
// returning the number of points that failed individually.
func (c *Context) Apply(handle OpHandle, dir Direction, pts coord.AnySet) (int, error) {
	c.mu.RLock()
	obj, ok := c.objects[handle.id]
	c.mu.RUnlock()
	if !ok {
		return 0, gerr.New(gerr.Invariant, "unknown operator handle")
	}
	return engine.Apply(obj, dir, pts)
}

// Steps returns the descriptor string of each flattened elementary
// step behind handle. An elementary operator reports itself as a
// single step.
func (c *Context) Steps(handle OpHandle) ([]string, error) {
	c.mu.RLock()
	obj, ok := c.objects[handle.id]
	c.mu.RUnlock()
	if !ok {
		return nil, gerr.New(gerr.Invariant, "unknown operator handle")
	}
	if obj.Kind == operator.Elementary {
		return []string{obj.Descriptor}, nil
	}
	out := make([]string, len(obj.Steps))
	for i, st := range obj.Steps {
		out[i] = st.Op.Descriptor
	}
	return out, nil
}

// Params returns the operator object of the step at index; its Params
// field holds that step's parsed parameters. index is into the
// flattened step sequence, matching Steps' ordering.
func (c *Context) Params(handle OpHandle, index int) (*operator.Object, error) {
	c.mu.RLock()
	obj, ok := c.objects[handle.id]
	c.mu.RUnlock()
	if !ok {
		return nil, gerr.New(gerr.Invariant, "unknown operator handle")
	}
	if obj.Kind == operator.Elementary {
		if index != 0 {
			return nil, gerr.Newf(gerr.Invariant, "step index %d out of range", index)
		}
		return obj, nil
	}
	if index < 0 || index >= len(obj.Steps) {
		return nil, gerr.Newf(gerr.Invariant, "step index %d out of range", index)
	}
	return obj.Steps[index].Op, nil
}
