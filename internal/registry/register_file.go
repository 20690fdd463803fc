package registry

import (
	"strings"

	"github.com/busstoptaktik/geodesy/internal/gerr"
)

// ParseRegisterFile extracts every fenced macro body from a text
// register file: a fence opens with a line of
// exactly three backticks followed by "geodesy:" and the macro's bare
// name, and closes with a line of exactly three backticks. The
// returned map is keyed by the bare (un-namespaced) macro name;
// Registry.LoadRegisterFile namespaces it by the file's base name.
func ParseRegisterFile(content string) (map[string]string, error) {
	out := map[string]string{}
	lines := strings.Split(content, "\n")
	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "```geodesy:") {
			i++
			continue
		}
		name := strings.TrimPrefix(line, "```geodesy:")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, gerr.New(gerr.Syntax, "register file: fence missing macro name")
		}
		var body strings.Builder
		i++
		closed := false
		for i < len(lines) {
			if strings.TrimSpace(lines[i]) == "```" {
				closed = true
				i++
				break
			}
			if body.Len() > 0 {
				body.WriteString("\n")
			}
			body.WriteString(lines[i])
			i++
		}
		if !closed {
			return nil, gerr.Newf(gerr.Syntax, "register file: unterminated fence for %q", name)
		}
		if _, dup := out[name]; dup {
			return nil, gerr.Newf(gerr.Syntax, "register file: duplicate macro %q", name)
		}
		out[name] = body.String()
	}
	return out, nil
}
