// Package param implements the definition-language lexer/parser and
// the typed parsed-parameters store that operator constructors read
// from.
//
// Generalized from a single PROJ-style "+"-split tokenizer into a
// pipe-delimited, multi-line, modifier-aware definition language.
package param

import (
	"strings"

	"github.com/busstoptaktik/geodesy/internal/gerr"
)

// preprocess turns a (possibly multi-line) definition string into one
// logical, pipe-delimited string, honoring the line-oriented sugar:
//
//   - a line beginning with '#' or a blank line is dropped entirely
//   - a line beginning with ':' continues the previous step (no new
//     step boundary is inserted)
//   - a line beginning with '>' is sugar for "| omit_inv " + rest
//   - a line beginning with '<' is sugar for "| omit_fwd " + rest
//   - any other non-first line defaults to a fresh step boundary
//     ("| " + rest); ':' exists precisely to suppress this default
//   - the first non-blank line starts the definition with no leading
//     pipe
//
// Within a line, a "#" not part of that line's content begins a
// trailing comment and is stripped.
func preprocess(def string) string {
	var b strings.Builder
	first := true
	for _, raw := range strings.Split(def, "\n") {
		line := stripComment(raw)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case line[0] == ':':
			b.WriteString(" ")
			b.WriteString(strings.TrimSpace(line[1:]))
		case line[0] == '>':
			b.WriteString(" | omit_inv ")
			b.WriteString(strings.TrimSpace(line[1:]))
		case line[0] == '<':
			b.WriteString(" | omit_fwd ")
			b.WriteString(strings.TrimSpace(line[1:]))
		case first:
			b.WriteString(line)
		default:
			b.WriteString(" | ")
			b.WriteString(line)
		}
		first = false
	}
	return b.String()
}

func stripComment(line string) string {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		return line[:idx]
	}
	return line
}

// splitSteps splits a preprocessed, single-line definition into its
// raw step texts (still un-tokenized).
func splitSteps(def string) []string {
	parts := strings.Split(def, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// tokenize splits a single step's raw text into whitespace-separated
// tokens. A token is either a bare flag (no "=") or a "key=value" pair.
// Values may themselves contain ":" (sexagesimal) and "," (numeric
// lists) and parentheses (defaults) -- none of those are token
// separators.
func tokenize(step string) ([]string, error) {
	fields := strings.Fields(step)
	if len(fields) == 0 {
		return nil, gerr.New(gerr.Syntax, "empty step")
	}
	return fields, nil
}
