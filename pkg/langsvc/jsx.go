package langsvc

import "strings"

// IsJSXOnly reports whether source's top-level shape is a single JSX
// expression with no surrounding statements, i.e. a snippet that needed
// synthetic import/export scaffolding to parse.
//
// This is a structural heuristic, not a parse: skip blank lines and
// import/export scaffolding, then require the remaining content to start
// with `<` and end with `>`.
func IsJSXOnly(source string) bool {
	var content []string
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if len(content) == 0 {
			if strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "import{") {
				continue
			}
			trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "export default"))
			if trimmed == "" {
				continue
			}
		}
		content = append(content, trimmed)
	}
	if len(content) == 0 {
		return false
	}

	first := content[0]
	last := content[len(content)-1]
	last = strings.TrimSuffix(strings.TrimSuffix(last, ";"), ")")
	return strings.HasPrefix(first, "<") && strings.HasSuffix(last, ">")
}
