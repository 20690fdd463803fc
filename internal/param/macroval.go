package param

import "strings"

// MacroRef reports whether value is a macro-parameter reference of the
// form "$name".
func MacroRef(value string) (name string, ok bool) {
	if strings.HasPrefix(value, "$") && len(value) > 1 {
		return value[1:], true
	}
	return "", false
}

// ValueWithDefault splits a value of the form "literal(default)" or
// "*default" into its literal part (empty for the "*default" form) and
// its default. ok is false if value
// matches neither form.
func ValueWithDefault(value string) (literal, def string, ok bool) {
	if strings.HasPrefix(value, "*") {
		return "", value[1:], true
	}
	if open := strings.IndexByte(value, '('); open >= 0 && strings.HasSuffix(value, ")") {
		return value[:open], value[open+1 : len(value)-1], true
	}
	return "", "", false
}
