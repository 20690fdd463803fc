package param

import (
	"strings"

	"github.com/busstoptaktik/geodesy/internal/gerr"
)

// Modifiers is the subset of {inv, omit_fwd, omit_inv} a step carries.
type Modifiers struct {
	Inv     bool
	OmitFwd bool
	OmitInv bool
}

// modifierNames are bare tokens recognized as step modifiers rather
// than operator names or ordinary boolean flags; they are removed
// from the argument map.
var modifierNames = map[string]bool{"inv": true, "omit_fwd": true, "omit_inv": true}

// Step is one parsed element of a definition: an operator name (a bare
// word or "register:name"), its modifier set, and its parsed
// parameters.
type Step struct {
	Name      string
	Modifiers Modifiers
	Params    *Parameters
}

// Parse tokenizes and parses a definition string into an ordered
// sequence of steps. A single-step definition is
// also a pipeline of length one.
func Parse(def string) ([]Step, error) {
	rawSteps := splitSteps(preprocess(def))
	if len(rawSteps) == 0 {
		return nil, gerr.New(gerr.Syntax, "empty definition")
	}
	steps := make([]Step, 0, len(rawSteps))
	for i, raw := range rawSteps {
		st, err := parseStep(raw)
		if err != nil {
			if ge, ok := err.(*gerr.Error); ok {
				ge.Step = i
				return nil, ge
			}
			return nil, gerr.AtStep(gerr.Syntax, i, err.Error())
		}
		steps = append(steps, st)
	}
	return steps, nil
}

func parseStep(raw string) (Step, error) {
	tokens, err := tokenize(raw)
	if err != nil {
		return Step{}, err
	}
	st := Step{Params: New()}
	for _, tok := range tokens {
		key, val, hasVal := splitKeyValue(tok)
		if !hasVal {
			switch {
			case modifierNames[key]:
				applyModifier(&st.Modifiers, key)
			case st.Name == "":
				st.Name = key
			default:
				if err := st.Params.set(key, "", true); err != nil {
					return Step{}, err
				}
			}
			continue
		}
		if key == "" {
			return Step{}, gerr.Newf(gerr.Syntax, "malformed token: %q", tok)
		}
		if err := st.Params.set(key, val, true); err != nil {
			return Step{}, err
		}
	}
	if st.Name == "" {
		return Step{}, gerr.New(gerr.Syntax, "missing operator name")
	}
	return st, nil
}

func applyModifier(m *Modifiers, name string) {
	switch name {
	case "inv":
		m.Inv = true
	case "omit_fwd":
		m.OmitFwd = true
	case "omit_inv":
		m.OmitInv = true
	}
}

// splitKeyValue splits a "key=value" token; a bare token (no "=")
// returns hasVal == false. Values may themselves contain ":" and ","
// so only the first "=" is significant.
func splitKeyValue(tok string) (key, val string, hasVal bool) {
	idx := strings.IndexByte(tok, '=')
	if idx < 0 {
		return tok, "", false
	}
	return tok[:idx], tok[idx+1:], true
}

// IsRegisterRef reports whether an operator name is namespaced
// ("register:name").
func IsRegisterRef(name string) (register, op string, ok bool) {
	idx := strings.IndexByte(name, ':')
	if idx < 0 {
		return "", "", false
	}
	return name[:idx], name[idx+1:], true
}
