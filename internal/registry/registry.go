// Package registry implements the operator/macro registry and the
// recursive macro resolver: a name-to-constructor map that user
// registrations may shadow, a
// name-to-macro-body map populated by both code (RegisterMacro) and
// text register files, and the bounded-depth expansion of macro
// invocations into flat elementary-operator definitions.
package registry

import (
	"github.com/busstoptaktik/geodesy/internal/gerr"
	"github.com/busstoptaktik/geodesy/internal/grid"
	"github.com/busstoptaktik/geodesy/internal/operator"
	"github.com/busstoptaktik/geodesy/internal/param"
)

// MaxMacroDepth bounds recursive macro expansion; exceeding it is a
// hard Invariant error rather than a stack
// overflow.
const MaxMacroDepth = 64

// Constructor builds an operator from its resolved parameters.
type Constructor = operator.Constructor

// GridConstructor builds an operator that additionally needs a grid
// provider (gridshift, deformation).
type GridConstructor = operator.GridConstructor

// Registry holds the constructor table, the macro table, and the
// grid provider used to build grid-dependent operators. It is the
// process- or context-local name resolver owned by a Context.
type Registry struct {
	constructors     map[string]Constructor
	gridConstructors map[string]GridConstructor
	macros           map[string]string
	provider         grid.Provider
}

// New builds a Registry seeded with every builtin operator (internal/
// operator.Builtins and .GridBuiltins) and the builtin macros
// (geo:in/out, gis:in/out, neu:out). provider resolves grid names for
// gridshift/deformation; a nil provider is fine for definitions that
// never reference those operators.
func New(provider grid.Provider) *Registry {
	r := &Registry{
		constructors:     make(map[string]Constructor, len(operator.Builtins)),
		gridConstructors: make(map[string]GridConstructor, len(operator.GridBuiltins)),
		macros:           make(map[string]string),
		provider:         provider,
	}
	for name, ctor := range operator.Builtins {
		r.constructors[name] = ctor
	}
	for name, ctor := range operator.GridBuiltins {
		r.gridConstructors[name] = ctor
	}
	for name, body := range BuiltinMacros {
		r.macros[name] = body
	}
	return r
}

// RegisterOp installs or shadows an elementary-operator constructor.
// User registrations always win on name clash.
func (r *Registry) RegisterOp(name string, ctor Constructor) {
	r.constructors[name] = ctor
	delete(r.gridConstructors, name)
}

// RegisterGridOp installs or shadows a grid-dependent constructor.
func (r *Registry) RegisterGridOp(name string, ctor GridConstructor) {
	r.gridConstructors[name] = ctor
	delete(r.constructors, name)
}

// RegisterMacro installs or shadows a macro body by name.
func (r *Registry) RegisterMacro(name, body string) {
	r.macros[name] = body
}

// LoadRegisterFile parses a register file's content and installs each
// fenced macro it contains, namespaced by baseName ("file:NAME").
func (r *Registry) LoadRegisterFile(baseName, content string) error {
	macros, err := ParseRegisterFile(content)
	if err != nil {
		return err
	}
	for name, body := range macros {
		r.macros[baseName+":"+name] = body
	}
	return nil
}

// Macro looks up a macro body by name.
func (r *Registry) Macro(name string) (string, bool) {
	body, ok := r.macros[name]
	return body, ok
}

// HasOp reports whether name resolves to either kind of constructor.
func (r *Registry) HasOp(name string) bool {
	if _, ok := r.constructors[name]; ok {
		return true
	}
	_, ok := r.gridConstructors[name]
	return ok
}

// Build constructs a single elementary operator named name from p,
// dispatching to the grid-dependent constructor table when
// applicable.
func (r *Registry) Build(name string, p *param.Parameters) (*operator.Object, error) {
	if ctor, ok := r.gridConstructors[name]; ok {
		if r.provider == nil {
			return nil, gerr.Newf(gerr.Construction, "operator %q requires a grid provider", name)
		}
		return ctor(p, r.provider)
	}
	if ctor, ok := r.constructors[name]; ok {
		return ctor(p)
	}
	return nil, gerr.Newf(gerr.Resolution, "unknown operator %q", name)
}
