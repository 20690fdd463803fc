package registry

import (
	"strings"

	"github.com/busstoptaktik/geodesy/internal/gerr"
	"github.com/busstoptaktik/geodesy/internal/operator"
	"github.com/busstoptaktik/geodesy/internal/param"
)

// Op parses def, recursively expands every macro invocation it
// contains, constructs each resulting
// elementary operator, and assembles them into a single Object via
// operator.BuildPipeline -- a one-step definition naturally collapses
// to a pipeline of length one, which callers may treat identically to
// any other operator.
func (r *Registry) Op(def string) (*operator.Object, error) {
	parsed, err := param.Parse(def)
	if err != nil {
		return nil, err
	}
	steps, err := r.expand(parsed, 0)
	if err != nil {
		return nil, err
	}
	return operator.BuildPipeline(def, steps)
}

// expand walks a parsed step list, recursively expanding macro
// invocations to a bounded depth and constructing elementary
// operators for every non-macro step.
func (r *Registry) expand(parsed []param.Step, depth int) ([]operator.Step, error) {
	if depth > MaxMacroDepth {
		return nil, gerr.New(gerr.Invariant, "macro expansion exceeded maximum depth")
	}
	var out []operator.Step
	for i, st := range parsed {
		if body, ok := r.macros[st.Name]; ok {
			inner, err := r.expandMacro(st, body, depth)
			if err != nil {
				if ge, ok := err.(*gerr.Error); ok && ge.Step < 0 {
					ge.Step = i
				}
				return nil, err
			}
			out = append(out, inner...)
			continue
		}
		obj, err := r.Build(st.Name, st.Params)
		if err != nil {
			if ge, ok := err.(*gerr.Error); ok && ge.Step < 0 {
				ge.Step = i
			}
			return nil, err
		}
		out = append(out, operator.Step{Op: obj, Modifiers: st.Modifiers})
	}
	return out, nil
}

// expandMacro expands one macro invocation: the call-site step st
// whose name names the macro body, already looked up. It re-parses
// body, substitutes $name references (with the spec's parenthesized-
// default extension, resolved per comma-separated list element so a
// single $name can sit inside a multi-component value like
// "translation=$x(1),0,0"), applies rule 3's *default/literal(default)
// same-key override, injects every unreferenced caller argument into
// every expanded step (rule 4), and recurses to resolve any macro
// invocation the body itself contains.
func (r *Registry) expandMacro(call param.Step, body string, depth int) ([]operator.Step, error) {
	bodySteps, err := param.Parse(body)
	if err != nil {
		return nil, gerr.Wrap(gerr.Resolution, -1, "", err, "malformed macro body for "+call.Name)
	}

	callerArgs := map[string]string{}
	for _, k := range call.Params.Keys() {
		v, _ := call.Params.Raw(k)
		callerArgs[k] = v
	}
	referenced := map[string]bool{}

	for _, bst := range bodySteps {
		for _, key := range bst.Params.Keys() {
			raw, _ := bst.Params.Raw(key)
			resolved, err := resolveMacroValue(key, raw, callerArgs, referenced)
			if err != nil {
				return nil, gerr.Wrap(gerr.Resolution, -1, key, err, "macro "+call.Name)
			}
			bst.Params.SetRaw(key, resolved, true)
		}
		// Rule 4: inject every caller argument the body never
		// referenced, without overriding an explicit body value.
		for key, val := range callerArgs {
			if referenced[key] {
				continue
			}
			if !bst.Params.Has(key) {
				bst.Params.SetRaw(key, val, true)
			}
		}
		// Modifiers on the call (inv/omit_*) apply to every expanded
		// step: below, the whole expansion is wrapped in one pipeline
		// carrying them, which operator.BuildPipeline merges into each
		// step when it flattens.
	}

	innerParsed := bodySteps
	innerSteps, err := r.expand(innerParsed, depth+1)
	if err != nil {
		return nil, err
	}
	if call.Modifiers != (param.Modifiers{}) {
		wrapped, err := operator.BuildPipeline(call.Name, innerSteps)
		if err != nil {
			return nil, err
		}
		return []operator.Step{{Op: wrapped, Modifiers: call.Modifiers}}, nil
	}
	return innerSteps, nil
}

// resolveMacroValue resolves one parameter value from a macro body,
// honoring $name / $name(default) substitution (possibly embedded as
// one element of a comma-separated list) and the whole-value *default/
// literal(default) same-key-override form. referenced accumulates the
// macro-parameter names consulted so rule 4's injection can skip them.
func resolveMacroValue(key, raw string, callerArgs map[string]string, referenced map[string]bool) (string, error) {
	if !strings.Contains(raw, "$") {
		if _, def, ok := param.ValueWithDefault(raw); ok {
			if val, supplied := callerArgs[key]; supplied {
				referenced[key] = true
				return val, nil
			}
			return def, nil
		}
		return raw, nil
	}
	parts := strings.Split(raw, ",")
	for i, part := range parts {
		name, def, hasDefault, ok := parseDollarRef(part)
		if !ok {
			continue
		}
		referenced[name] = true
		if val, supplied := callerArgs[name]; supplied {
			parts[i] = val
			continue
		}
		if hasDefault {
			parts[i] = def
			continue
		}
		return "", gerr.Newf(gerr.Resolution, "incomplete definition: macro parameter %q has no value and no default", name)
	}
	return strings.Join(parts, ","), nil
}

// parseDollarRef recognizes "$name" and "$name(default)".
func parseDollarRef(s string) (name, def string, hasDefault, ok bool) {
	if !strings.HasPrefix(s, "$") || len(s) < 2 {
		return "", "", false, false
	}
	rest := s[1:]
	if open := strings.IndexByte(rest, '('); open >= 0 && strings.HasSuffix(rest, ")") {
		return rest[:open], rest[open+1 : len(rest)-1], true, true
	}
	return rest, "", false, true
}
